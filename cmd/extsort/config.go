package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the shape of the optional YAML config file. A flag
// overrides what it sets whenever the flag's value differs from the
// flag's default.
type fileConfig struct {
	Input          string  `yaml:"input"`
	Output         string  `yaml:"output"`
	Sort           string  `yaml:"sort"`
	LogLevel       string  `yaml:"log_level"`
	Threads        int     `yaml:"threads"`
	TmpDir         string  `yaml:"tmp_dir"`
	ChunkSizeBytes int     `yaml:"chunk_size_bytes"`
	RateLimit      float64 `yaml:"rate"`
}

func loadConfigFile(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// overrideString returns flagValue unless it equals flagDefault, in
// which case the value from the config file (if any) is preferred.
// overrideInt does the same for int flags.
func overrideString(flagValue, flagDefault, fileValue string) string {
	if flagValue != flagDefault {
		return flagValue
	}
	if fileValue != "" {
		return fileValue
	}
	return flagValue
}

func overrideInt(flagValue, flagDefault, fileValue int) int {
	if flagValue != flagDefault {
		return flagValue
	}
	if fileValue != 0 {
		return fileValue
	}
	return flagValue
}
