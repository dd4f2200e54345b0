// Copyright 2025 The OpenSource Score Authors
// SPDX-License-Identifier: Apache-2.0

// The score CLI scores packages from the command line: one package at a
// time, or a partitioned batch run over a package list.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/opensourcescore/score/internal/cache"
	"github.com/opensourcescore/score/internal/httpx"
	"github.com/opensourcescore/score/internal/service"
	"github.com/opensourcescore/score/pkg/gitscan"
	"github.com/opensourcescore/score/pkg/vulns"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	configPath    string
	partition     int
	numPartitions int
	threads       int
	outputDir     string
)

var rootCmd = &cobra.Command{
	Use:   "score [subcommand]",
	Short: "Score open source packages",
}

var oneCmd = &cobra.Command{
	Use:           "one <ecosystem> <name>",
	Short:         "Score a single package and print the result.",
	Args:          cobra.ExactArgs(2),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		scorer, _, err := newScorer(cmd.Context())
		if err != nil {
			return err
		}
		resp, _, err := scorer.Score(cmd.Context(), service.Request{Ecosystem: args[0], Name: args[1]})
		if err != nil {
			return err
		}
		e := json.NewEncoder(cmd.OutOrStdout())
		e.SetIndent("", "  ")
		return e.Encode(resp)
	},
}

var batchCmd = &cobra.Command{
	Use:           "batch <ecosystem> <package-list-file>",
	Short:         "Score every listed package in this worker's partition.",
	Long:          "Reads package names (one per line) and scores those assigned to the given partition, writing one JSON document per package under the output root.",
	Args:          cobra.ExactArgs(2),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ecosystem, listPath := args[0], args[1]
		scorer, cfg, err := newScorer(cmd.Context())
		if err != nil {
			return err
		}
		names, err := readNames(listPath)
		if err != nil {
			return err
		}
		if numPartitions > 1 {
			names = filterPartition(names, partition, numPartitions)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "scoring %d packages in partition %d of %d\n", len(names), partition, numPartitions)

		workers := threads
		if workers == 0 {
			workers = cfg.Threads
		}
		outRoot := outputDir
		if outRoot == "" {
			outRoot = cfg.OutputRoot
		}
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(workers)
		for _, name := range names {
			g.Go(func() error {
				resp, _, err := scorer.Score(ctx, service.Request{Ecosystem: ecosystem, Name: name})
				if err != nil {
					// A batch run keeps going past individual failures.
					log.Printf("scoring %s/%s: %v", ecosystem, name, err)
					return nil
				}
				return writeResult(outRoot, ecosystem, name, resp)
			})
		}
		return g.Wait()
	},
}

func newScorer(ctx context.Context) (*service.Scorer, Config, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, cfg, err
	}
	store, err := cache.Open(ctx, cfg.CacheLocation)
	if err != nil {
		return nil, cfg, err
	}
	client := &httpx.RetryClient{
		BasicClient: &httpx.WithUserAgent{BasicClient: http.DefaultClient, UserAgent: "opensourcescore/1.0"},
	}
	return &service.Scorer{
		Client: client,
		Cache:  store,
		Git:    gitscan.Ingestor{CloneTimeout: cloneTimeout()},
		Vulns:  vulns.OSVClient{Client: client},
	}, cfg, nil
}

func readNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening package list")
	}
	defer f.Close()
	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		names = append(names, name)
	}
	return names, errors.Wrap(scanner.Err(), "reading package list")
}

func writeResult(root, ecosystem, name string, v any) error {
	path := filepath.Join(root, "scores", ecosystem, url.PathEscape(name)+".json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encoding result for %s", name)
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "writing result for %s", name)
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	batchCmd.Flags().IntVarP(&partition, "partition", "p", 0, "The partition number to process")
	batchCmd.Flags().IntVarP(&numPartitions, "num-partitions", "n", 1, "The number of partitions in total")
	batchCmd.Flags().IntVar(&threads, "threads", 0, "Worker count (default from SCORE_THREADS or 16)")
	batchCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output root for result documents (default from OUTPUT_ROOT)")
	rootCmd.AddCommand(oneCmd, batchCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatalln(err)
	}
}
