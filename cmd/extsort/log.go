package main

import (
	"fmt"
	"log"
	"os"
)

// logLevel is a small hand-rolled leveled logger rather than a
// structured third-party logger.
type logLevel int

const (
	levelDebug logLevel = iota
	levelInfo
	levelWarning
	levelError
)

func levelFromString(s string) logLevel {
	switch s {
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warning":
		return levelWarning
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (l logLevel) String() string {
	switch l {
	case levelDebug:
		return "DEBUG"
	case levelInfo:
		return "INFO"
	case levelWarning:
		return "WARNING"
	case levelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// cliLogger writes leveled messages to stderr through a buffered
// channel so concurrent goroutines never interleave partial lines.
type cliLogger struct {
	level  logLevel
	impl   *log.Logger
	ch     chan string
	donech chan struct{}
}

func newCLILogger(level logLevel) *cliLogger {
	l := &cliLogger{
		level:  level,
		impl:   log.New(os.Stderr, "", 0),
		ch:     make(chan string, 1000),
		donech: make(chan struct{}),
	}
	go l.drain()
	return l
}

func (l *cliLogger) drain() {
	defer close(l.donech)
	for msg := range l.ch {
		l.impl.Println(msg)
	}
}

func (l *cliLogger) printf(level logLevel, format string, args ...any) {
	if level < l.level {
		return
	}
	l.ch <- fmt.Sprintf("%s %s", level, fmt.Sprintf(format, args...))
}

// Debugf implements extsort.Logger.
func (l *cliLogger) Debugf(format string, args ...any) { l.printf(levelDebug, format, args...) }

func (l *cliLogger) Infof(format string, args ...any)    { l.printf(levelInfo, format, args...) }
func (l *cliLogger) Warningf(format string, args ...any) { l.printf(levelWarning, format, args...) }
func (l *cliLogger) Errorf(format string, args ...any)   { l.printf(levelError, format, args...) }

func (l *cliLogger) Close() {
	close(l.ch)
	<-l.donech
}
