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
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/quaero"
	"github.com/poiesic/quaero/ai"
	"github.com/poiesic/quaero/core"
	"github.com/poiesic/quaero/search"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "quaero",
		Usage: "Interactive document search over full-text, hybrid and graph retrieval",
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
				Usage:  "Load documents from a JSON-lines file",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to JSON-lines document file",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Run one search and print the ranked results",
				Action:    searchCommand,
				ArgsUsage: "QUERY...",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "mode",
						Aliases: []string{"m"},
						Usage:   "Retrieval mode (fts, hybrid, graph)",
						Value:   "fts",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   10,
					},
					&cli.StringFlag{
						Name:  "filter-type",
						Usage: "Restrict matches to documents with this entity type",
					},
					&cli.StringFlag{
						Name:  "filter-value",
						Usage: "Restrict matches to documents with this entity value",
					},
					&cli.IntFlag{
						Name:  "hops",
						Usage: "Graph expansion depth (graph mode only)",
						Value: 2,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL (hybrid mode)",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name (hybrid mode)",
						Value: "embeddinggemma",
					},
				},
			},
			{
				Name:  "history",
				Usage: "Inspect or clear the session query history",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "Print recent queries, most recent first",
						Action: historyListCommand,
						Flags:  []cli.Flag{dbFlag()},
					},
					{
						Name:   "clear",
						Usage:  "Remove all recorded queries",
						Action: historyClearCommand,
						Flags:  []cli.Flag{dbFlag()},
					},
				},
			},
			{
				Name:   "log",
				Usage:  "Print recent entries from the durable retrieval log",
				Action: logCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of entries",
						Value:   20,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to BadgerDB database directory",
		Required: true,
	}
}

func openDatabase(c *cli.Context) (*quaero.Database, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	db, err := quaero.NewDatabase(c.String("db"), quaero.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// documentLine is the JSON-lines ingest format.
type documentLine struct {
	Title       string   `json:"title"`
	Body        string   `json:"body"`
	PageNo      int      `json:"page_no"`
	EntityType  string   `json:"entity_type"`
	EntityValue string   `json:"entity_value"`
	Links       []string `json:"links"`
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewIngestPipeline()
	if err != nil {
		return fmt.Errorf("failed to create ingest pipeline: %w", err)
	}
	defer pipeline.Release()

	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open document file: %w", err)
	}
	defer f.Close()

	var docs []*core.Document
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var dl documentLine
		if err := json.Unmarshal([]byte(line), &dl); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		docs = append(docs, &core.Document{
			Title:       dl.Title,
			Body:        dl.Body,
			PageNo:      dl.PageNo,
			EntityType:  dl.EntityType,
			EntityValue: dl.EntityValue,
			Links:       dl.Links,
		})
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed reading document file: %w", err)
	}

	added, err := pipeline.Ingest(ctx, docs...)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	pipeline.Flush()

	fmt.Fprintf(os.Stderr, "Ingested %d documents\n", len(added))
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("a query is required")
	}

	mode, err := core.ParseMode(c.String("mode"))
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	session, err := db.NewSession(quaero.WithSearchOptions(
		searchOptions(c)...,
	))
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	orch := session.Orchestrator
	if err := orch.ChangeMode(mode); err != nil {
		return err
	}
	if c.String("filter-type") != "" || c.String("filter-value") != "" {
		orch.SetFilter(core.EntityFilter{
			Type:  c.String("filter-type"),
			Value: c.String("filter-value"),
		})
	}

	if err := orch.SearchImmediate(ctx, query); err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	state := orch.Snapshot()
	fmt.Printf("Found %d hits\n", len(state.Results))
	for i, hit := range state.Results {
		fmt.Printf("%d: %q (%s)[%0.3f]\n", i, hit.Title, hit.GID, hit.Scores.Final)
		if hit.Snippet != "" {
			fmt.Printf("   %s\n", hit.Snippet)
		}
	}
	return nil
}

func historyListCommand(c *cli.Context) error {
	db, err := quaero.NewDatabase(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	session, err := db.NewSession()
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	entries := session.History.Entries()
	if len(entries) == 0 {
		fmt.Println("No recorded queries")
		return nil
	}
	for i, query := range entries {
		fmt.Printf("%d: %s\n", i+1, query)
	}
	return nil
}

func historyClearCommand(c *cli.Context) error {
	db, err := quaero.NewDatabase(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	session, err := db.NewSession()
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	session.History.Clear()
	fmt.Println("History cleared")
	return nil
}

func logCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := quaero.NewDatabase(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	entries, err := db.RetrievalLogRepository().RecentRetrievals(ctx, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to read retrieval log: %w", err)
	}

	for _, entry := range entries {
		fmt.Printf("%s [%s] %q -> %d results in %dms\n",
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			entry.Mode, entry.Query, entry.ResultCount, entry.ElapsedMs)
		for _, r := range entry.Results {
			fmt.Printf("   %q (%s)[%0.3f]\n", r.Title, r.GID, r.Score)
		}
	}
	return nil
}

func searchOptions(c *cli.Context) []search.Option {
	var opts []search.Option
	if c.Int("limit") > 0 {
		opts = append(opts, search.WithResultLimit(c.Int("limit")))
	}
	if c.Int("hops") > 0 {
		opts = append(opts, search.WithGraphHops(c.Int("hops")))
	}
	return opts
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
