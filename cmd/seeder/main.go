package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/poiesic/quaero"
	"github.com/poiesic/quaero/ai"
	"github.com/poiesic/quaero/ai/mock"
	"github.com/poiesic/quaero/core"
)

var (
	dbPath  = flag.String("db", "./quaero_db", "path to the database directory")
	useMock = flag.Bool("mock", false, "use deterministic mock embeddings instead of a live service")
)

// A small linked corpus. GIDs are assigned explicitly so links can be
// expressed up front; the graph is a hub around the observability and
// storage documents.
var documents = []*core.Document{
	{
		GID:         "obs-overview",
		Title:       "Observability Overview",
		Body:        "Observability combines logging, metrics, and tracing to expose the internal state of a running system. Structured logs make events searchable; metrics reveal trends; traces follow a request across services.",
		EntityType:  "topic",
		EntityValue: "observability",
		Links:       []string{"obs-logging", "obs-metrics", "obs-tracing"},
	},
	{
		GID:         "obs-logging",
		Title:       "Structured Logging",
		Body:        "Structured logging emits key-value records instead of free-form text. Each record carries a level, a timestamp, and arbitrary attributes, which downstream pipelines can index and query.",
		EntityType:  "topic",
		EntityValue: "observability",
		Links:       []string{"obs-overview"},
	},
	{
		GID:         "obs-metrics",
		Title:       "Metrics and Counters",
		Body:        "Metrics aggregate events into counters, gauges, and histograms. They trade per-event detail for cheap long-term storage and fast dashboards.",
		EntityType:  "topic",
		EntityValue: "observability",
		Links:       []string{"obs-overview", "store-timeseries"},
	},
	{
		GID:         "obs-tracing",
		Title:       "Distributed Tracing",
		Body:        "A trace stitches together the spans a single request produces as it crosses service boundaries. Span context propagates through headers so every hop can attach its own timing.",
		EntityType:  "topic",
		EntityValue: "observability",
		Links:       []string{"obs-overview"},
	},
	{
		GID:         "store-overview",
		Title:       "Storage Engines",
		Body:        "Storage engines organize data on disk for a workload. Log-structured merge trees favor writes; B-trees favor reads; columnar layouts favor analytical scans.",
		EntityType:  "topic",
		EntityValue: "storage",
		Links:       []string{"store-lsm", "store-btree", "store-timeseries"},
	},
	{
		GID:         "store-lsm",
		Title:       "Log-Structured Merge Trees",
		Body:        "An LSM tree buffers writes in memory and flushes them as sorted runs, compacting runs in the background. Writes are sequential, reads may consult several levels.",
		EntityType:  "topic",
		EntityValue: "storage",
		Links:       []string{"store-overview"},
	},
	{
		GID:         "store-btree",
		Title:       "B-Tree Indexes",
		Body:        "A B-tree keeps keys sorted in wide nodes so lookups touch few pages. Databases use them for primary and secondary indexes where point reads dominate.",
		EntityType:  "topic",
		EntityValue: "storage",
		Links:       []string{"store-overview"},
	},
	{
		GID:         "store-timeseries",
		Title:       "Time Series Storage",
		Body:        "Time series databases compress timestamped samples and expire old data automatically. Metrics pipelines feed them directly.",
		EntityType:  "topic",
		EntityValue: "storage",
		Links:       []string{"store-overview", "obs-metrics"},
	},
	{
		GID:         "person-hopper",
		Title:       "Grace Hopper",
		Body:        "Grace Hopper pioneered machine-independent programming languages and popularized the term debugging after a moth was found in a relay.",
		EntityType:  "person",
		EntityValue: "grace hopper",
		Links:       []string{"obs-logging"},
	},
	{
		GID:         "person-gray",
		Title:       "Jim Gray",
		Body:        "Jim Gray formalized transaction processing and the ACID properties, shaping how storage engines recover from failure.",
		EntityType:  "person",
		EntityValue: "jim gray",
		Links:       []string{"store-overview"},
	},
}

func main() {
	flag.Parse()

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))

	var opts []quaero.DatabaseOption
	if *useMock {
		opts = append(opts, quaero.WithEmbedder(mock.NewMockEmbedder()))
	} else {
		opts = append(opts, quaero.WithAIConfig(ai.DefaultConfig()))
	}

	db, err := quaero.NewDatabase(*dbPath, opts...)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	pipeline, err := db.NewIngestPipeline()
	if err != nil {
		panic(err)
	}
	defer pipeline.Release()

	ctx := context.Background()
	added, err := pipeline.Ingest(ctx, documents...)
	if err != nil {
		panic(err)
	}
	pipeline.Flush()

	slog.Info("seeded corpus", "documents", len(added))
}
