package badger

import (
	"bytes"
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/quaero/core"
	"github.com/poiesic/quaero/storage"
)

// GraphHops expands outward from seedGID through link edges using
// breadth-first traversal. Edges are followed in both directions. The
// neighborhood includes the seed at distance 0 and up to limit nodes
// within maxHops hops. A non-empty targetGID stops expansion once that
// node has been reached.
func (r *DocumentRepository) GraphHops(ctx context.Context, seedGID, targetGID string, maxHops, limit int) (*core.GraphNeighborhood, error) {
	if seedGID == "" {
		return nil, storage.ErrInvalidQuery
	}
	if limit <= 0 {
		limit = 1
	}

	neighborhood := &core.GraphNeighborhood{
		Distances: make(map[string]int),
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		seed, err := r.readDocument(tx, makeDocumentKey(seedGID))
		if err != nil {
			return err
		}
		if seed == nil {
			return storage.ErrNotFound
		}

		neighborhood.Distances[seedGID] = 0
		neighborhood.Nodes = append(neighborhood.Nodes, core.GraphNode{
			GID:    seed.GID,
			PageNo: seed.PageNo,
			Title:  seed.Title,
		})

		frontier := []string{seedGID}
		for hop := 1; hop <= maxHops && len(frontier) > 0; hop++ {
			var next []string
			for _, gid := range frontier {
				neighbors, err := edgeTargets(tx, gid)
				if err != nil {
					return err
				}
				for _, ngid := range neighbors {
					if _, seen := neighborhood.Distances[ngid]; seen {
						continue
					}
					if len(neighborhood.Nodes) >= limit {
						return nil
					}

					doc, err := r.readDocument(tx, makeDocumentKey(ngid))
					if err != nil {
						return err
					}
					if doc == nil {
						continue // dangling edge
					}

					neighborhood.Distances[ngid] = hop
					neighborhood.Nodes = append(neighborhood.Nodes, core.GraphNode{
						GID:    doc.GID,
						PageNo: doc.PageNo,
						Title:  doc.Title,
					})
					if targetGID != "" && ngid == targetGID {
						return nil
					}
					next = append(next, ngid)
				}
			}
			frontier = next
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return neighborhood, nil
}

// edgeTargets collects the neighbors of a node over forward and reverse edges.
func edgeTargets(tx *badger.Txn, gid string) ([]string, error) {
	var targets []string
	for _, prefix := range [][]byte{
		makePartialEdgeKey(edgeForwardPrefix, gid),
		makePartialEdgeKey(edgeReversePrefix, gid),
	} {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			targets = append(targets, string(bytes.TrimPrefix(iter.Item().Key(), prefix)))
		}
		iter.Close()
	}
	return targets, nil
}
