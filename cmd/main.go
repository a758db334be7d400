// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sort"
	"syscall"

	"github.com/fatih/color"
	"golang.org/x/term"

	"contract-guard/internal/analyzer"
	"contract-guard/internal/config"
	"contract-guard/internal/entitlement"
	"contract-guard/internal/extract"
	"contract-guard/internal/observability"
	"contract-guard/internal/parallel"
	"contract-guard/internal/store"
	"contract-guard/internal/version"
	"contract-guard/internal/watch"
	"contract-guard/internal/web"

	"contract-guard/internal/formatters"
	_ "contract-guard/internal/formatters/csv"
	_ "contract-guard/internal/formatters/json"
	_ "contract-guard/internal/formatters/text"
)

// loadConfiguration loads the configuration file or returns default config
func loadConfiguration(configFile string) *config.Config {
	configPath := configFile
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Error loading config file: %v\n", err)
		fmt.Fprintf(os.Stderr, "Using default configuration\n")
		cfg, _ = config.LoadConfig("")
	}
	return cfg
}

// configFlags holds command line flag values
type configFlags struct {
	format     string
	verbose    bool
	debug      bool
	noColor    bool
	recursive  bool
	failOn     string
	showClause bool
}

// finalConfiguration holds resolved configuration values
type finalConfiguration struct {
	format     string
	verbose    bool
	debug      bool
	noColor    bool
	recursive  bool
	failOn     string
	showClause bool
}

// resolveConfiguration resolves final values from config file defaults and
// command line flags; flags win when explicitly set.
func resolveConfiguration(cfg *config.Config, flags *configFlags) *finalConfiguration {
	final := &finalConfiguration{
		format:    cfg.Defaults.Format,
		verbose:   cfg.Defaults.Verbose,
		debug:     cfg.Defaults.Debug,
		noColor:   cfg.Defaults.NoColor,
		recursive: cfg.Defaults.Recursive,
		failOn:    cfg.Defaults.FailOn,
	}

	if isFlagSet("format") && flags.format != "" {
		final.format = flags.format
	}
	if final.format == "" {
		final.format = "text"
	}
	if isFlagSet("verbose") {
		final.verbose = flags.verbose
	}
	if isFlagSet("debug") {
		final.debug = flags.debug
	}
	if isFlagSet("no-color") {
		final.noColor = flags.noColor
	}
	if isFlagSet("recursive") {
		final.recursive = flags.recursive
	}
	if isFlagSet("fail-on") {
		final.failOn = flags.failOn
	}
	final.showClause = flags.showClause

	// Colors only make sense on a terminal
	if !final.noColor && !isTerminal(os.Stdout) {
		final.noColor = true
	}

	return final
}

func main() {
	inputPath := flag.String("file", "", "Path to the contract file or directory to analyze")
	configFile := flag.String("config", "", "Path to configuration file (YAML)")
	profileName := flag.String("profile", "", "Profile name to use from config file")
	listProfiles := flag.Bool("list-profiles", false, "List available profiles in config file")
	outputFormat := flag.String("format", "", "Output format: text, json, csv (default: text)")
	outputFile := flag.String("output", "", "Path to output file (if not specified, output to stdout)")
	verbose := flag.Bool("verbose", false, "Display detailed information for each red flag")
	debug := flag.Bool("debug", false, "Enable debug logging to show extraction and analysis flow")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	showClause := flag.Bool("show-clause", false, "Display the extracted clause text for each red flag")
	recursive := flag.Bool("recursive", false, "Recursively analyze directories")
	failOn := flag.String("fail-on", "", "Exit with non-zero status when the overall risk reaches this tier: low, medium, high")
	workers := flag.Int("workers", runtime.NumCPU(), "Number of parallel analysis workers")
	watchMode := flag.Bool("watch", false, "Watch the directory and analyze documents as they appear")
	serve := flag.Bool("serve", false, "Run the HTTP API server")
	addr := flag.String("addr", "", "HTTP listen address for -serve (overrides config)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		return
	}

	cfg := loadConfiguration(*configFile)

	if *listProfiles {
		printProfiles(cfg)
		return
	}
	if *profileName != "" {
		if err := cfg.ApplyProfile(*profileName); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	flags := &configFlags{
		format:     *outputFormat,
		verbose:    *verbose,
		debug:      *debug,
		noColor:    *noColor,
		recursive:  *recursive,
		failOn:     *failOn,
		showClause: *showClause,
	}
	final := resolveConfiguration(cfg, flags)
	if final.noColor {
		color.NoColor = true
	}

	observer := newObserver(final)

	engine, err := analyzer.NewEngine(cfg.EngineOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *serve {
		if *addr != "" {
			cfg.Server.Addr = *addr
		}
		if err := runServer(cfg, engine); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -file is required (or use -serve)")
		flag.Usage()
		os.Exit(1)
	}

	if *watchMode {
		if err := runWatch(*inputPath, final, engine, observer); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	os.Exit(runAnalysis(*inputPath, final, engine, observer, *workers, *outputFile))
}

// newObserver picks the observability level from the resolved flags
func newObserver(final *finalConfiguration) *observability.StandardObserver {
	switch {
	case final.debug:
		return observability.NewDebugObserver(os.Stderr).StandardObserver
	case final.verbose:
		return observability.NewStandardObserver(observability.ObservabilityMetrics, os.Stderr)
	default:
		return observability.NewStandardObserver(observability.ObservabilityOff, os.Stderr)
	}
}

// collectFiles expands path into the list of supported documents
func collectFiles(path string, recursive bool) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if !extract.IsSupported(path) {
			return nil, &extract.UnsupportedFormatError{Path: path, Ext: filepath.Ext(path)}
		}
		return []string{path}, nil
	}

	var files []string
	if recursive {
		err = filepath.WalkDir(path, func(p string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !entry.IsDir() && extract.IsSupported(p) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if !entry.IsDir() && extract.IsSupported(entry.Name()) {
				files = append(files, filepath.Join(path, entry.Name()))
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// runAnalysis analyzes the input path and prints the report. The return
// value is the process exit code.
func runAnalysis(path string, final *finalConfiguration, engine *analyzer.Engine, observer *observability.StandardObserver, workers int, outputFile string) int {
	files, err := collectFiles(path, final.recursive)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "No supported documents found.")
		return 1
	}

	extractor := extract.NewDocumentExtractorWithMinText(engine.Options().MinTextLength)
	pool := parallel.NewWorkerPool(workers, engine, extractor, observer)
	pool.Start()
	go func() {
		for _, file := range files {
			pool.Submit(&parallel.Job{JobID: file, FilePath: file})
		}
		pool.CloseJobs()
	}()

	var docs []formatters.Document
	failed := false
	done := make(chan struct{})
	go func() {
		for result := range pool.Results() {
			if result.Error != nil {
				fmt.Fprintf(os.Stderr, "Error analyzing %s: %v\n", result.FilePath, result.Error)
				failed = true
				continue
			}
			docs = append(docs, formatters.Document{Path: result.FilePath, Result: result.Analysis})
		}
		close(done)
	}()
	pool.Stop()
	<-done

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })

	output, err := formatters.Export(final.format, docs, formatters.FormatterOptions{
		Verbose:    final.verbose,
		NoColor:    final.noColor,
		ShowClause: final.showClause,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(output), 0600); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			return 1
		}
	} else {
		fmt.Println(output)
	}

	if failed {
		return 1
	}
	if final.failOn != "" && anyTierAtOrAbove(docs, final.failOn) {
		return 1
	}
	return 0
}

// anyTierAtOrAbove reports whether any document's overall risk reaches
// the given tier
func anyTierAtOrAbove(docs []formatters.Document, tier string) bool {
	rank := map[string]int{"low": 1, "medium": 2, "high": 3}
	threshold, ok := rank[tier]
	if !ok {
		return false
	}
	for _, doc := range docs {
		if rank[string(doc.Result.OverallRisk)] >= threshold {
			return true
		}
	}
	return false
}

// runWatch analyzes documents as they appear in the watched directory
func runWatch(dir string, final *finalConfiguration, engine *analyzer.Engine, observer *observability.StandardObserver) error {
	extractor := extract.NewDocumentExtractorWithMinText(engine.Options().MinTextLength)

	watcher, err := watch.NewWatcher(dir, final.recursive, watch.DefaultDebounce, func(path string) {
		content, err := extractor.ExtractText(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error analyzing %s: %v\n", path, err)
			return
		}
		result, err := engine.Analyze(content.Text)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error analyzing %s: %v\n", path, err)
			return
		}

		docs := []formatters.Document{{Path: path, Result: result}}
		output, err := formatters.Export(final.format, docs, formatters.FormatterOptions{
			Verbose:    final.verbose,
			NoColor:    final.noColor,
			ShowClause: final.showClause,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		fmt.Println(output)
	}, observer)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Watching %s for contract documents (Ctrl+C to stop)\n", dir)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := watcher.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// runServer starts the HTTP API with the configured storage and
// entitlement backends
func runServer(cfg *config.Config, engine *analyzer.Engine) error {
	storeSvc, err := store.NewFromConfig(cfg.Storage)
	if err != nil {
		return err
	}
	if minioStore, ok := storeSvc.(*store.MinioStore); ok {
		if err := minioStore.EnsureBucket(context.Background()); err != nil {
			return err
		}
	}

	entitlements, err := entitlement.NewFileService(cfg.Entitlement.UsageFile, cfg.Entitlement.FreeAnalyses)
	if err != nil {
		return err
	}

	server, err := web.NewServer(cfg, engine, storeSvc, entitlements)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return server.Run(ctx)
}

func printProfiles(cfg *config.Config) {
	if len(cfg.Profiles) == 0 {
		fmt.Println("No profiles defined in configuration.")
		return
	}

	names := make([]string, 0, len(cfg.Profiles))
	for name := range cfg.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("Available profiles:")
	for _, name := range names {
		profile := cfg.Profiles[name]
		if profile.Description != "" {
			fmt.Printf("  %s - %s\n", name, profile.Description)
		} else {
			fmt.Printf("  %s\n", name)
		}
	}
}

// isFlagSet reports whether the named flag was explicitly passed
func isFlagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isTerminal checks if the file descriptor is a terminal
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
