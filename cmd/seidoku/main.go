// Package main is the seidoku CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/seidoku/internal/config"
	"github.com/hyperjump/seidoku/internal/evidence"
	"github.com/hyperjump/seidoku/internal/glossary"
	"github.com/hyperjump/seidoku/internal/search"
	"github.com/hyperjump/seidoku/internal/seed"
	"github.com/hyperjump/seidoku/internal/server"
	"github.com/hyperjump/seidoku/internal/speech"
	"github.com/hyperjump/seidoku/internal/storage"
	"github.com/hyperjump/seidoku/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/seidoku/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists it
// is used, so "seidoku server" from the project dir picks up the project's
// config. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "seed":
		runSeed()
	case "search":
		runSearch()
	case "version", "--version", "-v":
		fmt.Printf("seidoku version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer store.Close()

	count, err := store.CountSections(context.Background())
	if err != nil {
		logger.Fatal("Failed to read storage", zap.Error(err))
	}
	if count == 0 {
		logger.Warn("no sections in storage; run \"seidoku seed\" to load the manuscript")
	}

	entries, claims, err := glossary.Load()
	if err != nil {
		logger.Fatal("Failed to load annotation data", zap.Error(err))
	}
	logger.Info("annotation data loaded",
		zap.Int("glossary_terms", len(entries)),
		zap.Int("claims", len(claims)),
	)

	if cfg.Evidence.APIKey == "" {
		logger.Warn("PERPLEXITY_API_KEY not set; evidence requests will return the manual search fallback")
	}
	if cfg.Speech.APIKey == "" {
		logger.Warn("OPENAI_API_KEY not set; text-to-speech is disabled")
	}
	evidenceSvc := evidence.NewService(cfg.Evidence, logger)
	speechSvc := speech.NewService(cfg.Speech, store, logger)

	idx, err := search.NewIndex()
	if err != nil {
		logger.Fatal("Failed to create search index", zap.Error(err))
	}
	defer idx.Close()
	sections, err := store.GetSections(context.Background())
	if err != nil {
		logger.Fatal("Failed to load sections", zap.Error(err))
	}
	if err := idx.IndexSections(sections); err != nil {
		logger.Fatal("Failed to index sections", zap.Error(err))
	}
	logger.Info("search index built", zap.Int("sections", len(sections)))

	srv := server.NewServer(
		store,
		evidenceSvc,
		speechSvc,
		idx,
		entries,
		claims,
		&cfg.Server,
		&cfg.Search,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runSeed() {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	file := fs.String("file", "", "manuscript path (overrides config)")
	watch := fs.Bool("watch", false, "keep running and re-seed when the manuscript changes")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	manuscript := cfg.Content.ManuscriptPath
	if *file != "" {
		manuscript = *file
	}
	if manuscript == "" {
		fmt.Println("No manuscript path: set content.manuscript_path in config or pass -file")
		os.Exit(1)
	}

	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer store.Close()

	seeder := seed.NewSeeder(store, logger)
	count, err := seeder.SeedFile(context.Background(), manuscript)
	if err != nil {
		logger.Fatal("Seeding failed", zap.Error(err))
	}
	fmt.Printf("Seeded %d sections from %s\n", count, manuscript)

	if !*watch {
		return
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := seeder.Watch(ctx, manuscript); err != nil && ctx.Err() == nil {
		logger.Fatal("Watch failed", zap.Error(err))
	}
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = search the database directly)")
	limit := fs.Int("limit", 10, "number of results")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: seidoku search [flags] <query>\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[2:])

	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" {
		fs.Usage()
		os.Exit(1)
	}

	var results []search.Result
	if *serverURL != "" {
		// Use the HTTP API when the server is running (avoids a second SQLite handle).
		var err error
		results, err = searchViaHTTP(*serverURL, queryStr, *limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open storage: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		sections, err := store.GetSections(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load sections: %v\n", err)
			os.Exit(1)
		}
		idx, err := search.NewIndex()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create index: %v\n", err)
			os.Exit(1)
		}
		defer idx.Close()
		if err := idx.IndexSections(sections); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to index sections: %v\n", err)
			os.Exit(1)
		}
		results, err = idx.Search(queryStr, *limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
	}

	if len(results) == 0 {
		fmt.Println("No results.")
		return
	}
	for i, r := range results {
		fmt.Printf("%2d. %s (%s) score=%.3f\n", i+1, r.Title, r.Slug, r.Score)
	}
}

func searchViaHTTP(serverURL, query string, limit int) ([]search.Result, error) {
	u := fmt.Sprintf("%s/api/search?q=%s&limit=%d", serverURL, url.QueryEscape(query), limit)
	resp, err := http.Get(u)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var body struct {
		Results []search.Result `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return body.Results, nil
}

func printUsage() {
	fmt.Println(`seidoku - interactive essay server

Usage:
  seidoku server [-config path] [-debug]      start the API server
  seidoku seed [-config path] [-file path] [-watch]
                                              load the manuscript into storage
  seidoku search [-server url] [-limit n] <query>
                                              search essay sections
  seidoku version                             print version
  seidoku help                                print this help

Environment:
  PERPLEXITY_API_KEY   credential for the claim-verification backend
  OPENAI_API_KEY       credential for text-to-speech`)
}
