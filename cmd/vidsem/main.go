// Copyright 2026 Telic Labs
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
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/telic/vidsem"
	"github.com/telic/vidsem/ai"
	"github.com/telic/vidsem/dashboard"
	"github.com/telic/vidsem/ingestion"
	"github.com/telic/vidsem/reembed"
	"github.com/telic/vidsem/render"
	"github.com/telic/vidsem/search"
)

func main() {
	app := &cli.App{
		Name:  "vidsem",
		Usage: "Semantic search over transcribed video segments",
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
				Name:   "ingest",
				Usage:  "Ingest transcript JSON files and embed their segments",
				Action: ingestCommand,
				Flags: append(databaseFlags(),
					&cli.StringFlag{
						Name:     "transcripts",
						Aliases:  []string{"t"},
						Usage:    "Path to a transcript JSON file or a directory of them",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Worker pool size for embedding",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of segments per embedding call",
						Value: ingestion.DefaultBatchSize,
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Search the transcript corpus and write a result page",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: append(databaseFlags(),
					&cli.Float64Flag{
						Name:  "min-similarity",
						Usage: "Minimum similarity threshold in [0, 1]",
						Value: search.DefaultMinSimilarity,
					},
					&cli.IntFlag{
						Name:  "max-candidates",
						Usage: "Maximum candidates fetched before grouping",
						Value: search.DefaultMaxCandidates,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output HTML file (defaults to search_results_<timestamp>.html)",
					},
				),
			},
			{
				Name:   "serve",
				Usage:  "Serve the interactive search dashboard",
				Action: serveCommand,
				Flags: append(databaseFlags(),
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address",
						Value: ":8080",
					},
					&cli.StringFlag{
						Name:  "categories",
						Usage: "Path to a YAML category configuration",
					},
				),
			},
			{
				Name:   "reembed",
				Usage:  "Reembed all transcript segments with new embeddings",
				Action: reembedCommand,
				Flags: append(databaseFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of segments to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N segments",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// databaseFlags returns the flags shared by every command that opens the
// database and the embedding service.
func databaseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:     "embedding-model",
			Usage:    "Embedding model name",
			Required: true,
		},
	}
}

func openDatabase(c *cli.Context) (*vidsem.Database, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	db, err := vidsem.NewDatabase(c.String("db"), vidsem.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	var pipelineOpts []ingestion.Option
	if c.IsSet("pool-size") {
		pipelineOpts = append(pipelineOpts, ingestion.WithPoolSize(c.Int("pool-size")))
	}
	pipelineOpts = append(pipelineOpts, ingestion.WithBatchSize(c.Int("batch-size")))

	pipeline, err := db.NewIngestionPipeline(pipelineOpts...)
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}
	defer pipeline.Release()

	path := c.String("transcripts")
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to read transcripts path: %w", err)
	}

	var transcripts []*ingestion.Transcript
	if info.IsDir() {
		transcripts, err = ingestion.LoadTranscriptDir(path)
	} else {
		var transcript *ingestion.Transcript
		transcript, err = ingestion.LoadTranscript(path)
		transcripts = []*ingestion.Transcript{transcript}
	}
	if err != nil {
		return err
	}
	if len(transcripts) == 0 {
		return fmt.Errorf("no transcript files found in %s", path)
	}

	if err := pipeline.IngestAll(ctx, transcripts); err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	total := 0
	for _, transcript := range transcripts {
		total += len(transcript.Segments)
	}
	fmt.Fprintf(os.Stderr, "Ingested %d videos (%d segments)\n", len(transcripts), total)
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	params := search.Params{
		MinSimilarity: c.Float64("min-similarity"),
		MaxCandidates: c.Int("max-candidates"),
	}

	results, err := searcher.Search(ctx, query, params)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	output := c.String("output")
	if output == "" {
		output = fmt.Sprintf("search_results_%s.html", time.Now().Format("20060102_150405"))
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := render.WriteHTML(f, query, results, params.MinSimilarity); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Found %d videos (%d segments). Results written to %s\n",
		len(results.Groups), results.TotalSegments(), output)
	return nil
}

func serveCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	server, err := dashboard.NewServer(searcher, dashboard.Config{
		Addr:           c.String("addr"),
		CategoriesPath: c.String("categories"),
	})
	if err != nil {
		return fmt.Errorf("failed to create dashboard: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx)
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	// Validate config
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	reembedder := db.NewReembedder(reembedConfig, os.Stderr)

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(ctx); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}

	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
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

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
