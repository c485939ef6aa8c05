package badger

import (
	"bytes"
	"context"
	"math"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/quaero/core"
)

const snippetWindow = 120

// ftsHit accumulates per-document posting matches before scoring.
type ftsHit struct {
	matched int
	totalTF uint64
}

// SearchFTS runs lexical full-text search over the term index.
//
// A document's raw score is token coverage (matched query tokens over total
// query tokens) scaled by 1+ln(total term frequency). Scores are normalized
// so the best match is 1.0. Results are ordered by score descending with
// GID as the deterministic tie-break.
func (r *DocumentRepository) SearchFTS(ctx context.Context, query string, limit int, filter core.EntityFilter) ([]core.FTSMatch, error) {
	tokens := tokenizeAndFilter(query)
	if len(tokens) == 0 || limit <= 0 {
		return []core.FTSMatch{}, nil
	}

	hits := make(map[string]*ftsHit)
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, token := range tokens {
			prefix := makePartialTermKey(token)
			opts := badger.DefaultIteratorOptions
			opts.Prefix = prefix
			iter := tx.NewIterator(opts)

			for iter.Rewind(); iter.Valid(); iter.Next() {
				item := iter.Item()
				gid := string(bytes.TrimPrefix(item.Key(), prefix))

				var tf uint64
				if err := item.Value(func(val []byte) error {
					tf = decodeTF(val)
					return nil
				}); err != nil {
					iter.Close()
					return err
				}

				hit, ok := hits[gid]
				if !ok {
					hit = &ftsHit{}
					hits[gid] = hit
				}
				hit.matched++
				hit.totalTF += tf
			}
			iter.Close()
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	if len(hits) == 0 {
		return []core.FTSMatch{}, nil
	}

	var matches []core.FTSMatch
	err = r.backend.WithTx(func(tx *badger.Txn) error {
		for gid, hit := range hits {
			doc, err := r.readDocument(tx, makeDocumentKey(gid))
			if err != nil {
				return err
			}
			if doc == nil {
				continue // stale posting entry
			}
			if !matchesFilter(doc, filter) {
				continue
			}

			coverage := float64(hit.matched) / float64(len(tokens))
			score := coverage * (1 + math.Log(float64(hit.totalTF)))
			matches = append(matches, core.FTSMatch{
				GID:     doc.GID,
				PageNo:  doc.PageNo,
				Title:   doc.Title,
				Snippet: makeSnippet(doc.Body, tokens, snippetWindow),
				Score:   score,
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].GID < matches[j].GID
	})

	// Normalize so the top match scores 1.0
	if len(matches) > 0 && matches[0].Score > 0 {
		max := matches[0].Score
		for i := range matches {
			matches[i].Score /= max
		}
	}

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// matchesFilter applies an entity filter; empty fields match everything.
func matchesFilter(doc *core.Document, filter core.EntityFilter) bool {
	if filter.Type != "" && doc.EntityType != filter.Type {
		return false
	}
	if filter.Value != "" && doc.EntityValue != filter.Value {
		return false
	}
	return true
}
