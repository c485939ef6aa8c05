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

package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/quaero/ai"
	"github.com/poiesic/quaero/core"
	"github.com/poiesic/quaero/storage"
)

// Pipeline adds documents to the store and generates their embedding
// vectors asynchronously. Embedding failures are logged but never fail
// the ingestion; documents without a vector simply contribute nothing to
// the vector component of hybrid scoring until re-embedded.
type Pipeline struct {
	docs     storage.DocumentRepository
	embedder ai.Embedder
	pool     *ants.Pool
	wg       sync.WaitGroup
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for embedding generation.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an ingestion pipeline over the given repository.
func NewPipeline(docs storage.DocumentRepository, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if docs == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		docs:     docs,
		embedder: embedder,
		pool:     pool,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	return p, nil
}

// Ingest validates and stores the documents, then submits them for
// asynchronous embedding. The returned documents carry their assigned
// GIDs and timestamps but not yet their vectors.
func (p *Pipeline) Ingest(ctx context.Context, docs ...*core.Document) ([]*core.Document, error) {
	for _, doc := range docs {
		if err := core.ValidateDocument(doc); err != nil {
			return nil, err
		}
	}

	added, err := p.docs.AddDocuments(ctx, docs...)
	if err != nil {
		return nil, err
	}
	if len(added) == 0 {
		return added, nil
	}

	gids := make([]string, len(added))
	for i, doc := range added {
		gids[i] = doc.GID
	}

	p.wg.Add(1)
	submitErr := p.pool.Submit(func() {
		defer p.wg.Done()
		if err := p.embed(context.Background(), gids...); err != nil {
			p.logger.Error("error generating document embeddings", "err", err)
		}
	})
	if submitErr != nil {
		p.wg.Done()
		p.logger.Error("error submitting embedding job", "err", submitErr)
	}

	return added, nil
}

// Flush blocks until all submitted embedding jobs have finished.
func (p *Pipeline) Flush() {
	p.wg.Wait()
}

// Release waits for in-flight embedding jobs and releases the worker
// pool. The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	p.wg.Wait()
	if p.pool != nil {
		p.pool.Release()
	}
}

// embed generates and stores vectors for the given documents.
func (p *Pipeline) embed(ctx context.Context, gids ...string) error {
	records, err := p.docs.GetDocuments(ctx, gids...)
	if err != nil {
		return err
	}

	texts := make([]string, len(records))
	for i, doc := range records {
		texts[i] = embeddingText(doc)
	}

	p.logger.Debug("generating embeddings for documents", "documents", len(texts))
	embeddings, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return err
	}
	if len(embeddings) != len(records) {
		return fmt.Errorf("embedding result mismatch. expected %d, received %d", len(records), len(embeddings))
	}

	for i := range embeddings {
		records[i].Vector = embeddings[i]
	}
	_, err = p.docs.UpdateDocuments(ctx, records...)
	return err
}

// embeddingText is what gets embedded for a document. The title is
// prepended so short bodies still carry their subject.
func embeddingText(doc *core.Document) string {
	if doc.Title == "" {
		return doc.Body
	}
	if doc.Body == "" {
		return doc.Title
	}
	return doc.Title + "\n" + doc.Body
}
