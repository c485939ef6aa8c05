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


// Package storage provides the storage abstraction layer for quaero.
//
// This package defines the interfaces that decouple storage implementation
// from search logic. The orchestrator in package search depends only on the
// Searcher interface; the BadgerDB backend in storage/badger is one
// implementation of it.
//
// # Constructor Return Type Pattern
//
// Public constructors return interfaces to enforce abstraction and enable
// multiple storage backends:
//
//	repo, err := badger.NewDocumentRepository(backend)  // returns storage.DocumentRepository
//
// # Interfaces
//
//   - Searcher: the three retrieval strategies (FTS, hybrid, graph hops)
//   - DocumentRepository: Searcher plus document lifecycle operations
//   - KV: best-effort single-key persistence for query history
//   - RetrievalLogRepository: the durable retrieval log
//
// # Failure domains
//
// KV and RetrievalLogRepository back best-effort side channels. Their
// callers (package history, package telemetry) catch and log every failure;
// nothing in those paths may affect a search outcome.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
