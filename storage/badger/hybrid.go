package badger

import (
	"bytes"
	"context"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/quaero/core"
	"github.com/poiesic/quaero/storage"
)

// Hybrid fusion weights. Lexical matches dominate, the vector signal
// catches paraphrases, and a recognized entity mention nudges the rank.
const (
	hybridFTSWeight    = 0.5
	hybridVectorWeight = 0.35
	hybridEntityWeight = 0.15

	// Minimum cosine similarity for a vector hit to count.
	vectorSimilarityFloor = 0.60
)

// SearchHybrid runs combined lexical, vector, and entity retrieval and
// returns records with a fully composed score vector, ordered by Final
// descending. The graph component is always zero here; graph expansion is
// a separate strategy.
func (r *DocumentRepository) SearchHybrid(ctx context.Context, query string, limit int) ([]core.ResultRecord, error) {
	if limit <= 0 {
		return []core.ResultRecord{}, nil
	}

	ftsMatches, err := r.SearchFTS(ctx, query, limit, core.EntityFilter{})
	if err != nil {
		return nil, err
	}
	ftsByGID := make(map[string]core.FTSMatch, len(ftsMatches))
	for _, m := range ftsMatches {
		ftsByGID[m.GID] = m
	}

	vecByGID, err := r.vectorScores(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	// Union of lexical and vector candidates
	gids := make(map[string]bool, len(ftsByGID)+len(vecByGID))
	for gid := range ftsByGID {
		gids[gid] = true
	}
	for gid := range vecByGID {
		gids[gid] = true
	}
	if len(gids) == 0 {
		return []core.ResultRecord{}, nil
	}

	tokens := tokenizeAndFilter(query)

	var results []core.ResultRecord
	err = r.backend.WithTx(func(tx *badger.Txn) error {
		for gid := range gids {
			doc, err := r.readDocument(tx, makeDocumentKey(gid))
			if err != nil {
				return err
			}
			if doc == nil {
				continue
			}

			scores := core.ScoreVector{
				FTS:    ftsByGID[gid].Score,
				Vector: vecByGID[gid],
			}
			if doc.EntityValue != "" && containsAllQueryWords(query, doc.EntityValue) {
				scores.Entity = 1
			}
			scores.Final = hybridFTSWeight*scores.FTS +
				hybridVectorWeight*scores.Vector +
				hybridEntityWeight*scores.Entity

			snippet := ftsByGID[gid].Snippet
			if snippet == "" {
				snippet = makeSnippet(doc.Body, tokens, snippetWindow)
			}

			results = append(results, core.ResultRecord{
				GID:     doc.GID,
				PageNo:  doc.PageNo,
				Title:   doc.Title,
				Snippet: snippet,
				Scores:  scores,
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Scores.Final != results[j].Scores.Final {
			return results[i].Scores.Final > results[j].Scores.Final
		}
		return results[i].GID < results[j].GID
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// vectorScores embeds the query and scans document vectors for cosine
// similarity. Returns an empty map when no embedder is configured.
func (r *DocumentRepository) vectorScores(ctx context.Context, query string, limit int) (map[string]float64, error) {
	if r.embedder == nil {
		return map[string]float64{}, nil
	}

	queryVec, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, err
	}

	type vecHit struct {
		gid   string
		score float64
	}
	var hits []vecHit

	err = r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := []byte(documentPrefix + ":")
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			if !bytes.HasPrefix(item.Key(), prefix) {
				continue
			}

			var doc *core.Document
			err := item.Value(func(val []byte) error {
				var err error
				doc, err = storage.UnmarshalDocument(val)
				return err
			})
			if err != nil {
				return err
			}
			if doc == nil || len(doc.Vector) == 0 {
				continue
			}

			similarity := float64(dotProduct(queryVec, doc.Vector))
			if similarity >= vectorSimilarityFloor {
				hits = append(hits, vecHit{gid: doc.GID, score: similarity})
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) > limit {
		hits = hits[:limit]
	}

	scores := make(map[string]float64, len(hits))
	for _, h := range hits {
		scores[h.gid] = h.score
	}
	return scores, nil
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
