package ingest

import "errors"

var (
	ErrRepositoryRequired = errors.New("document repository is required")
	ErrEmbedderRequired   = errors.New("embedder is required")
)
