// Copyright 2025 The RingServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the letter ring solver CLI and IPC server.

A letter ring is a cycle of distinct letters. ringserve looks for two words
that together use every letter of the ring, where the first word ends with
the letter the second one starts with and no word places two letters next
to each other that are neighbors on the ring. Pairs are ranked by the summed
frequency of both words.

# Usage

Solve one or more rings against a frequency list:

	ringserve -w words.txt arbeits lmoparst

Show more results and drop inflected forms with a lemma table:

	ringserve -w words.txt -n 25 -lemmas lemmas.tsv arbeits

Run in CLI mode to type rings interactively:

	ringserve -w words.txt -c

Start the msgpack IPC server:

	ringserve -w words.txt -s

# Word Files

Three formats are read. Text files hold "word count" lines; entries below
the cutoff or not matching the word pattern are dropped and repeated words
sum their counts. List files hold one word per line without counts. Binary
chunk directories hold dict_0001.bin, dict_0002.bin, ... files where the
rank of a word becomes its frequency.

	ringserve -w words.txt -o filtered.txt
	ringserve -w words.txt -o chunks.bin

The first writes the filtered vocabulary as text for faster loading, the
second writes it as a directory of binary chunks.

# Configuration

Defaults come from a TOML file that is created on first run:

	[solver]
	nbest = 10
	min_word_len = 4
	workers = 4

	[dict]
	file = ""
	cutoff = 10
	encoding = "utf-8"

	[cache]
	enabled = true
	max_entries = 1024
	redis_addr = ""

	[metrics]
	addr = ""

Flags given on the command line override the file.

# Command Line Flags

	-w string
	    Word file or chunk directory
	-format string
	    Word file format: auto, text, list or bin
	-enc string
	    Word file encoding: utf-8, latin1 or windows-1252
	-cutoff int
	    Drop words counted fewer times, negative keeps all
	-n int
	    Number of solutions to show per ring
	-o string
	    Write the filtered vocabulary to this file (.bin writes chunks)
	-lemmas string
	    Lemma table; inflected forms are not used as candidates
	-config string
	    Config file path
	-j int
	    Rings solved in parallel
	-metrics string
	    Serve Prometheus metrics on this address
	-d  Enable debug mode with detailed logging
	-c  Run CLI mode
	-s  Run IPC server mode
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bastiangx/ringserve/internal/cli"
	"github.com/bastiangx/ringserve/internal/logger"
	"github.com/bastiangx/ringserve/internal/utils"
	"github.com/bastiangx/ringserve/pkg/cache"
	"github.com/bastiangx/ringserve/pkg/config"
	"github.com/bastiangx/ringserve/pkg/lemma"
	"github.com/bastiangx/ringserve/pkg/metrics"
	"github.com/bastiangx/ringserve/pkg/server"
	"github.com/bastiangx/ringserve/pkg/solver"
	"github.com/bastiangx/ringserve/pkg/vocab"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "ringserve"
	gh      = "https://github.com/bastiangx/ringserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires the packages together for the selected mode and does not
// implement solving itself.
func main() {
	sigHandler()
	defaults := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	rebuildConfig := flag.Bool("rebuild-config", false, "Write a fresh default config file and exit")
	configPath := flag.String("config", "", "Config file path")
	wordFile := flag.String("w", defaults.Dict.File, "Word file or chunk directory")
	format := flag.String("format", defaults.Dict.Format, "Word file format: auto, text, list or bin")
	encoding := flag.String("enc", defaults.Dict.Encoding, "Word file encoding: utf-8, latin1 or windows-1252")
	cutoff := flag.Int("cutoff", defaults.Dict.Cutoff, "Drop words counted fewer times, negative keeps all")
	nbest := flag.Int("n", defaults.Solver.NBest, "Number of solutions to show per ring (0 shows all)")
	outFile := flag.String("o", "", "Write the filtered vocabulary to this file (.bin writes chunks)")
	lemmaFile := flag.String("lemmas", defaults.Lemma.File, "Lemma table; inflected forms are not used as candidates")
	workers := flag.Int("j", defaults.Solver.Workers, "Rings solved in parallel")
	metricsAddr := flag.String("metrics", defaults.Metrics.Addr, "Serve Prometheus metrics on this address")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- type rings interactively")
	serverMode := flag.Bool("s", false, "Run the msgpack IPC server on stdin/stdout")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	if *rebuildConfig {
		path, err := config.RebuildConfigFile()
		if err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		fmt.Fprintf(os.Stderr, "wrote default config: %s\n", path)
		os.Exit(0)
	}

	cfg, usedConfig, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config: %s", config.GetActiveConfigPath(usedConfig))

	// flags given explicitly win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "w":
			cfg.Dict.File = *wordFile
		case "format":
			cfg.Dict.Format = *format
		case "enc":
			cfg.Dict.Encoding = *encoding
		case "cutoff":
			cfg.Dict.Cutoff = *cutoff
		case "n":
			cfg.Solver.NBest = *nbest
		case "lemmas":
			cfg.Lemma.File = *lemmaFile
		case "j":
			cfg.Solver.Workers = *workers
		case "metrics":
			cfg.Metrics.Addr = *metricsAddr
		}
	})

	rings := flag.Args()
	if !*cliMode && !*serverMode && len(rings) == 0 && *outFile == "" {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] RING...\n", AppName)
		flag.PrintDefaults()
		os.Exit(2)
	}

	v, err := loadVocab(cfg)
	if err != nil {
		log.Fatalf("Failed to load vocabulary: %v", err)
	}

	// stdout belongs to the protocol in server mode
	printer := cli.NewPrinter(os.Stdout)
	if *serverMode {
		printer = cli.NewPrinter(os.Stderr)
	}
	printer.Loaded(v.Len(), cfg.Dict.Cutoff)

	opts := []solver.Option{
		solver.WithMinWordLen(cfg.Solver.MinWordLen),
		solver.WithWorkers(cfg.Solver.Workers),
	}
	var table *lemma.Table
	if cfg.Lemma.File != "" {
		table, err = lemma.LoadTable(cfg.Lemma.File)
		if err != nil {
			log.Fatalf("Failed to load lemma table: %v", err)
		}
		opts = append(opts, solver.WithLemmatizer(table))
	}
	sv := solver.New(v, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var m *metrics.Metrics
	if cfg.Metrics.Addr != "" {
		m = metrics.New()
		m.SetVocabularySize(v.Len())
		go func() {
			if err := m.Serve(ctx, cfg.Metrics.Addr); err != nil {
				log.Errorf("Metrics server stopped: %v", err)
			}
		}()
	}

	switch {
	case *serverMode:
		runServer(ctx, sv, v, table, m, cfg)
	case *cliMode:
		log.SetReportTimestamp(false)
		log.Debug("CLI info:", "nbest", cfg.Solver.NBest, "minLen", cfg.Solver.MinWordLen)
		inputHandler := cli.NewInputHandler(sv, os.Stdin, printer, cfg.Solver.NBest)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
	default:
		results, err := sv.SolveAll(ctx, rings, cfg.Solver.NBest)
		if err != nil {
			log.Fatalf("Solving failed: %v", err)
		}
		for _, res := range results {
			if m != nil {
				m.ObserveSolve(res, "off")
			}
			printer.Result(res)
		}
	}

	if *outFile != "" {
		if err := writeVocab(v, *outFile, cfg.Dict.ChunkSize); err != nil {
			log.Fatalf("Failed to write vocabulary: %v", err)
		}
		printer.Wrote(*outFile)
	}
}

// loadVocab resolves the configured word source and reads it.
func loadVocab(cfg *config.Config) (*vocab.Vocab, error) {
	if cfg.Dict.File == "" {
		return nil, fmt.Errorf("no word file given, use -w or [dict] file")
	}
	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize path resolver: %w", err)
	}
	path, err := pathResolver.GetWordPath(cfg.Dict.File)
	if err != nil {
		return nil, err
	}
	log.Debugf("Using word source at: %s", path)

	opts, err := cfg.Dict.VocabOptions()
	if err != nil {
		return nil, err
	}
	return vocab.Load(path, opts)
}

// writeVocab dumps v as text, or as binary chunks when path ends in .bin.
func writeVocab(v *vocab.Vocab, path string, chunkSize int) error {
	if strings.HasSuffix(path, ".bin") {
		return v.WriteChunks(path, chunkSize)
	}
	return v.Dump(path)
}

// runServer serves msgpack requests until stdin closes.
func runServer(ctx context.Context, sv *solver.Solver, v *vocab.Vocab, table *lemma.Table, m *metrics.Metrics, cfg *config.Config) {
	stats := v.Stats()
	info := server.VocabInfo{
		Words:       v.Len(),
		Source:      stats.Source,
		Format:      stats.Format.String(),
		Fingerprint: v.Fingerprint(),
	}
	if table != nil {
		info.Lemmas = table.Len()
	}
	opts := []server.Option{server.WithVocabInfo(info)}

	if cfg.Cache.Enabled {
		store, err := newStore(ctx, cfg.Cache)
		if err != nil {
			log.Fatalf("Failed to set up solution cache: %v", err)
		}
		solutions := cache.New(store, info.Fingerprint)
		defer solutions.Close()
		opts = append(opts, server.WithCache(solutions))
	}
	if m != nil {
		opts = append(opts, server.WithMetrics(m))
	}

	srv := server.NewServer(sv, cfg, opts...)
	showStartupInfo(info)

	if err := srv.Start(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func newStore(ctx context.Context, c config.CacheConfig) (cache.Store, error) {
	if c.RedisAddr != "" {
		log.Debugf("Using redis solution cache at %s", c.RedisAddr)
		return cache.NewRedisStore(ctx, c.RedisAddr, c.TTLDuration())
	}
	return cache.NewMemoryStore(c.MaxEntries, c.TTLDuration()), nil
}

func printVersion() {
	banner := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ RingServe ] Solves letter rings with word pairs")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(info server.VocabInfo) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("===========")
	println(" RingServe ")
	println("===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("words: %s (%s)", utils.FormatWithCommas(info.Words), info.Source)
	log.Info("status: ready")
	println("===========")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
