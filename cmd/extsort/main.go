// Command extsort is the reference CLI documented as an external
// collaborator to the extsort library core: it reads a line-wise input,
// sorts it with a bounded memory footprint by spilling to disk, and
// writes the sorted lines back out.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"golang.org/x/time/rate"

	extsort "github.com/dapper91/extsort-go"
	"github.com/dapper91/extsort-go/buffer"
	"github.com/dapper91/extsort-go/codec"
)

const appName = "extsort"

const (
	defaultChunkSizeBytes = 64 * 1024 * 1024
	defaultSort           = "asc"
	defaultLogLevel       = "info"
)

// line is the item type the CLI sorts: a single input line, with a
// Size method so it can drive the memory-limited buffer policy.
type line string

func (l line) Size() int { return len(l) + 16 }

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  appName,
		Usage: "external merge sort for line-oriented input too large to fit in memory",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Value: "-", Usage: "input file, or - for stdin"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "-", Usage: "output file, or - for stdout"},
			&cli.GenericFlag{
				Name:    "sort",
				Aliases: []string{"s"},
				Usage:   "sort direction: asc, desc",
				Value:   &EnumValue{Enum: []string{"asc", "desc"}, Default: defaultSort},
			},
			&cli.GenericFlag{
				Name:    "log",
				Aliases: []string{"l"},
				Usage:   "log level: debug, info, warning, error",
				Value:   &EnumValue{Enum: []string{"debug", "info", "warning", "error"}, Default: defaultLogLevel},
			},
			&cli.IntFlag{Name: "threads", Aliases: []string{"t"}, Usage: "worker goroutines for parallel sort (default: GOMAXPROCS)"},
			&cli.StringFlag{Name: "tmp-dir", Aliases: []string{"d"}, Usage: "parent directory for spilled runs (default: OS temp dir)"},
			&cli.IntFlag{Name: "chunk-size-bytes", Aliases: []string{"c"}, Value: defaultChunkSizeBytes, Usage: "bytes per in-memory run before it is spilled"},
			&cli.StringFlag{Name: "config", Usage: "YAML config file; flags override values it sets"},
			&cli.Float64Flag{Name: "rate", Usage: "maximum input lines read per second, 0 disables throttling"},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	fileCfg, err := loadConfigFile(c.String("config"))
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	inputPath := overrideString(c.String("input"), "-", fileCfg.Input)
	outputPath := overrideString(c.String("output"), "-", fileCfg.Output)
	sortDir := overrideString(c.String("sort"), defaultSort, fileCfg.Sort)
	logLevelStr := overrideString(c.String("log"), defaultLogLevel, fileCfg.LogLevel)
	threads := overrideInt(c.Int("threads"), 0, fileCfg.Threads)
	tmpDir := overrideString(c.String("tmp-dir"), "", fileCfg.TmpDir)
	chunkSizeBytes := overrideInt(c.Int("chunk-size-bytes"), defaultChunkSizeBytes, fileCfg.ChunkSizeBytes)
	rateLimit := c.Float64("rate")
	if rateLimit == 0 {
		rateLimit = fileCfg.RateLimit
	}

	logger := newCLILogger(levelFromString(logLevelStr))
	defer logger.Close()

	in, closeIn, err := openInput(inputPath)
	if err != nil {
		return err
	}
	defer closeIn()

	out, closeOut, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	defer closeOut()

	opts := []extsort.Option{extsort.WithLogger(logger)}
	if threads > 0 {
		opts = append(opts, extsort.WithThreads(threads))
	}
	if tmpDir != "" {
		opts = append(opts, extsort.WithTempDir(tmpDir))
	}

	builder := buffer.NewMemoryBuilder[line](int64(chunkSizeBytes))
	s, err := extsort.New[line](builder, codec.NewLengthFramed[line](), opts...)
	if err != nil {
		return err
	}
	defer s.Close()

	less := func(a, b line) bool { return a < b }
	if sortDir == "desc" {
		less = func(a, b line) bool { return a > b }
	}

	input := lineSource(in, rateLimit)
	merger, err := s.SortBy(context.Background(), input, less)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(out)
	defer w.Flush()

	for {
		item, err, ok := merger.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if _, err := w.WriteString(string(item)); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}

	return nil
}

func openInput(path string) (*os.File, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func openOutput(path string) (*os.File, func(), error) {
	if path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

// lineSource adapts a bufio.Scanner over r into an extsort.Source[line],
// optionally throttled to limit lines read per second.
func lineSource(r *os.File, linesPerSecond float64) extsort.Source[line] {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var limiter *rate.Limiter
	if linesPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(linesPerSecond), 1)
	}

	return extsort.FuncSource[line](func() (line, error, bool) {
		if limiter != nil {
			if err := limiter.Wait(context.Background()); err != nil {
				return "", err, false
			}
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err, false
			}
			return "", nil, false
		}
		return line(scanner.Text()), nil, true
	})
}
