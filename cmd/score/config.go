// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"strconv"
	"time"

	"github.com/opensourcescore/score/pkg/gitscan"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const defaultThreads = 16

// Config is the optional config file for batch runs. Environment variables
// override file values; flags override both.
type Config struct {
	CacheLocation string `yaml:"cache_location"`
	OutputRoot    string `yaml:"output_root"`
	Threads       int    `yaml:"threads"`
}

func loadConfig(path string) (Config, error) {
	cfg := Config{OutputRoot: "./output", Threads: defaultThreads}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return applyEnv(cfg), nil
	}
	if err != nil {
		return cfg, errors.Wrap(err, "reading config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "parsing config")
	}
	if cfg.OutputRoot == "" {
		cfg.OutputRoot = "./output"
	}
	if cfg.Threads == 0 {
		cfg.Threads = defaultThreads
	}
	return applyEnv(cfg), nil
}

// cloneTimeout reads MAX_CLONE_TIME, accepting a Go duration string or a
// bare number of seconds.
func cloneTimeout() time.Duration {
	v := os.Getenv("MAX_CLONE_TIME")
	if v == "" {
		return gitscan.MaxCloneTime
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return gitscan.MaxCloneTime
}

func applyEnv(cfg Config) Config {
	if v := os.Getenv("CACHE_LOCATION"); v != "" {
		cfg.CacheLocation = v
	}
	if v := os.Getenv("OUTPUT_ROOT"); v != "" {
		cfg.OutputRoot = v
	}
	if v := os.Getenv("SCORE_THREADS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Threads = n
		}
	}
	return cfg
}
