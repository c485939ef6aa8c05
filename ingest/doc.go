// Package ingest loads documents into the store and generates their
// embedding vectors asynchronously on a worker pool.
package ingest
