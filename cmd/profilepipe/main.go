// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/975125089bb/flutter-app/ai"
	"github.com/975125089bb/flutter-app/ai/gemini"
	"github.com/975125089bb/flutter-app/ai/openai"
	"github.com/975125089bb/flutter-app/checkpoint"
	"github.com/975125089bb/flutter-app/extract"
	"github.com/975125089bb/flutter-app/pipeline"
	"github.com/975125089bb/flutter-app/ratelimit"
	"github.com/975125089bb/flutter-app/sink"
	"github.com/975125089bb/flutter-app/storage"
	"github.com/975125089bb/flutter-app/storage/badger"
	"github.com/975125089bb/flutter-app/storage/file"
)

// Process exit codes.
const (
	exitFailure     = 1
	exitConfig      = 2
	exitInterrupted = 130
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "profilepipe",
		Usage: "Extract structured dating profiles from Markdown documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Process every profile block and write the CSV output",
				Action: runCommand,
				Flags:  append(inputFlags(), runFlags()...),
			},
			{
				Name:   "estimate",
				Usage:  "Count profile blocks and estimate the run time without calling the service",
				Action: estimateCommand,
				Flags: append(inputFlags(),
					&cli.DurationFlag{
						Name:  "delay",
						Usage: "Pause after every request (default 6s)",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Documents read in parallel (0 uses half the CPUs)",
					},
				),
			},
			{
				Name:   "validate",
				Usage:  "Check settings, input documents and credentials",
				Action: validateCommand,
				Flags:  append(inputFlags(), providerFlags()...),
			},
		},
	}
}

func inputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML settings file; flags override its values",
		},
		&cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   "Directory holding the profile documents (default raw_data)",
		},
		&cli.StringSliceFlag{
			Name:  "pattern",
			Usage: "Document glob pattern, repeatable (default men_*.md, women_*.md)",
		},
	}
}

func providerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "provider",
			Usage: "Extraction service: openai (any OpenAI-compatible API) or gemini",
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "Service host URL (default https://api.deepseek.com/v1)",
		},
		&cli.StringFlag{
			Name:  "model",
			Usage: "Model name (default deepseek-chat, or gemini-2.5-flash for gemini)",
		},
		&cli.StringFlag{
			Name:  "api-key",
			Usage: "Service API key; read from DEEPSEEK_API_KEY or GEMINI_API_KEY when unset",
		},
	}
}

func runFlags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "CSV output path (default processed_dating_profiles.csv)",
		},
		&cli.StringFlag{
			Name:  "checkpoint",
			Usage: "Checkpoint file, or directory for the badger store (default pipeline_progress.json)",
		},
		&cli.StringFlag{
			Name:  "store",
			Usage: "Checkpoint store: file or badger",
		},
		&cli.BoolFlag{
			Name:  "resume",
			Usage: "Continue from the checkpoint and keep previous output rows",
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "Attempt at most N blocks in this run (0 means all)",
		},
		&cli.IntFlag{
			Name:  "flush-interval",
			Usage: "Save progress every N attempted blocks (default 10)",
		},
		&cli.IntFlag{
			Name:  "max-per-minute",
			Usage: "Maximum requests per minute, 0 disables the cap (default 10)",
		},
		&cli.DurationFlag{
			Name:  "delay",
			Usage: "Pause after every request (default 6s)",
		},
		&cli.IntFlag{
			Name:  "max-retries",
			Usage: "Extra attempts after a retryable failure (default 3)",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Timeout of each request (default 30s)",
		},
	}
	return append(flags, providerFlags()...)
}

// buildConfig layers defaults, the YAML file, API key environment variables
// and flags, in that order.
func buildConfig(c *cli.Context) (*pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()
	if path := c.String("config"); path != "" {
		if err := pipeline.LoadConfigFile(path, cfg); err != nil {
			return nil, fmt.Errorf("%w: %w", pipeline.ErrInvalidConfig, err)
		}
	}

	if c.IsSet("input") {
		cfg.InputDir = c.String("input")
	}
	if c.IsSet("pattern") {
		cfg.Patterns = c.StringSlice("pattern")
	}
	if c.IsSet("output") {
		cfg.OutputPath = c.String("output")
	}
	if c.IsSet("checkpoint") {
		cfg.CheckpointPath = c.String("checkpoint")
	}
	if c.IsSet("store") {
		cfg.Store = strings.ToLower(c.String("store"))
	}
	if c.IsSet("resume") {
		cfg.Resume = c.Bool("resume")
	}
	if c.IsSet("limit") {
		cfg.MaxBlocks = c.Int("limit")
	}
	if c.IsSet("flush-interval") {
		cfg.FlushInterval = c.Int("flush-interval")
	}
	if c.IsSet("max-per-minute") {
		cfg.MaxPerMinute = c.Int("max-per-minute")
	}
	if c.IsSet("delay") {
		cfg.Delay = c.Duration("delay")
	}
	if c.IsSet("max-retries") {
		cfg.MaxRetries = c.Int("max-retries")
	}
	if c.IsSet("timeout") {
		cfg.Timeout = c.Duration("timeout")
	}
	if c.IsSet("provider") {
		cfg.Provider.Name = c.String("provider")
	}
	if c.IsSet("host") {
		cfg.Provider.Host = c.String("host")
	}
	if c.IsSet("model") {
		cfg.Provider.Model = c.String("model")
	}

	if key := os.Getenv(apiKeyEnv(cfg.Provider.Name)); key != "" {
		cfg.Provider.APIKey = key
	}
	if c.IsSet("api-key") {
		cfg.Provider.APIKey = c.String("api-key")
	}
	return cfg, nil
}

func apiKeyEnv(provider string) string {
	if strings.EqualFold(strings.TrimSpace(provider), ai.ProviderGemini) {
		return "GEMINI_API_KEY"
	}
	return "DEEPSEEK_API_KEY"
}

func runCommand(c *cli.Context) error {
	cfg, err := buildConfig(c)
	if err != nil {
		return exitError(err)
	}
	if _, err := pipeline.Preflight(cfg); err != nil {
		return exitError(err)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	completer, err := newCompleter(ctx, cfg)
	if err != nil {
		return cli.Exit(fmt.Sprintf("invalid service configuration: %v", err), exitConfig)
	}

	limiter := ratelimit.New(cfg.MaxPerMinute, cfg.Delay)
	client, err := extract.NewClient(completer, limiter,
		extract.WithMaxRetries(cfg.MaxRetries),
		extract.WithBaseDelay(cfg.BaseDelay),
		extract.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to create extraction client: %v", err), exitConfig)
	}

	repo, err := openCheckpointRepository(cfg)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to open checkpoint store: %v", err), exitFailure)
	}
	store := checkpoint.New(repo, uuid.NewString())
	defer store.Close()

	orchestrator, err := pipeline.NewOrchestrator(cfg, client, store, sink.NewCSV(cfg.OutputPath),
		pipeline.WithProgressWriter(os.Stderr))
	if err != nil {
		return exitError(err)
	}

	aiCfg := cfg.AIConfig()
	fmt.Fprintf(os.Stderr, "Input: %s\n", cfg.InputDir)
	fmt.Fprintf(os.Stderr, "Output: %s\n", cfg.OutputPath)
	fmt.Fprintf(os.Stderr, "Checkpoint: %s (%s)\n", cfg.CheckpointPath, cfg.Store)
	fmt.Fprintf(os.Stderr, "Service: %s %s\n", aiCfg.Provider, aiCfg.Model)
	fmt.Fprintln(os.Stderr)

	summary, err := orchestrator.Run(ctx)
	printSummary(os.Stderr, summary)
	return exitError(err)
}

func estimateCommand(c *cli.Context) error {
	cfg, err := buildConfig(c)
	if err != nil {
		return exitError(err)
	}

	report, err := pipeline.Estimate(c.Context, cfg, c.Int("workers"))
	if err != nil {
		return exitError(err)
	}

	w := c.App.Writer
	for _, doc := range report.Documents {
		if doc.Err != nil {
			fmt.Fprintf(w, "%-32s unreadable: %v\n", doc.Name, doc.Err)
			continue
		}
		fmt.Fprintf(w, "%-32s %6d blocks\n", doc.Name, doc.Blocks)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total blocks: %d\n", report.TotalBlocks)
	fmt.Fprintf(w, "Requests: %d\n", report.Requests)
	fmt.Fprintf(w, "Estimated time: %.1f minutes at %s per request\n", report.Minutes, cfg.Delay)
	return nil
}

func validateCommand(c *cli.Context) error {
	cfg, err := buildConfig(c)
	if err != nil {
		return exitError(err)
	}
	docs, err := pipeline.Preflight(cfg)
	if err != nil {
		return exitError(err)
	}
	if err := cfg.AIConfig().Validate(); err != nil {
		return cli.Exit(fmt.Sprintf("invalid service configuration: %v", err), exitConfig)
	}

	fmt.Fprintf(c.App.Writer, "OK: %d documents in %s\n", len(docs), cfg.InputDir)
	for _, doc := range docs {
		fmt.Fprintf(c.App.Writer, "  %s\n", doc.Name)
	}
	return nil
}

func newCompleter(ctx context.Context, cfg *pipeline.Config) (ai.Completer, error) {
	aiCfg := cfg.AIConfig()
	if err := aiCfg.Validate(); err != nil {
		return nil, err
	}
	if aiCfg.Provider == ai.ProviderGemini {
		return gemini.NewCompleter(ctx, aiCfg)
	}
	return openai.NewCompleter(aiCfg)
}

func openCheckpointRepository(cfg *pipeline.Config) (storage.CheckpointRepository, error) {
	if cfg.Store == pipeline.StoreBadger {
		return badger.NewCheckpointRepository(cfg.CheckpointPath)
	}
	return file.NewCheckpointRepository(cfg.CheckpointPath), nil
}

func printSummary(w io.Writer, s *pipeline.Summary) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Run %s ended %s after %s\n", s.RunID, s.State, s.Elapsed.Round(time.Second))
	fmt.Fprintf(w, "Blocks: %d in %d documents\n", s.Blocks, s.Documents)
	fmt.Fprintf(w, "Succeeded: %d, failed: %d\n", s.Succeeded, s.Failed)
	fmt.Fprintf(w, "Skipped: %d done, %d after repeated failures\n", s.SkippedDone, s.SkippedRetry)
	if s.Collisions > 0 {
		fmt.Fprintf(w, "Identifier collisions: %d\n", s.Collisions)
	}
	if s.PersistErrors > 0 {
		fmt.Fprintf(w, "Save errors: %d\n", s.PersistErrors)
	}
	fmt.Fprintf(w, "Rows written: %d\n", s.Records)
}

// exitError maps run errors onto process exit codes.
func exitError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pipeline.ErrInterrupted):
		return cli.Exit("interrupted; progress saved, rerun with --resume to continue", exitInterrupted)
	case pipeline.IsConfigError(err):
		return cli.Exit(err.Error(), exitConfig)
	}
	return cli.Exit(err.Error(), exitFailure)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
