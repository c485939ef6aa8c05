package core

import (
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// GIDFromContent generates a deterministic graph identifier from text content
// using BLAKE2b hashing. Identical content always produces the same GID.
func GIDFromContent(text string) string {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// Mode selects the retrieval strategy for a search.
type Mode string

const (
	// ModeFTS performs lexical full-text search only.
	ModeFTS Mode = "fts"
	// ModeHybrid combines lexical, vector, and entity signals, fused by the store.
	ModeHybrid Mode = "hybrid"
	// ModeGraph expands outward from the top full-text seed through link edges.
	ModeGraph Mode = "graph"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == ModeFTS || m == ModeHybrid || m == ModeGraph
}

// EntityFilter narrows FTS and graph queries to documents tagged with a
// matching entity. Type and Value are each optional; an empty field matches
// everything.
type EntityFilter struct {
	Type  string
	Value string
}

// IsZero reports whether the filter constrains nothing.
func (f EntityFilter) IsZero() bool {
	return f.Type == "" && f.Value == ""
}

// ScoreVector carries the per-signal scores for a result. Final is the
// composite rank used for ordering. All components are non-negative.
type ScoreVector struct {
	FTS    float64
	Vector float64
	Entity float64
	Graph  float64
	Final  float64
}

// ResultRecord is the unit returned to callers of a search. Snippet may
// contain highlight markup and is passed through verbatim.
type ResultRecord struct {
	GID     string
	PageNo  int
	Title   string
	Snippet string
	Scores  ScoreVector
}

// FTSMatch is a raw hit from the full-text index, before score fusion.
type FTSMatch struct {
	GID     string
	PageNo  int
	Title   string
	Snippet string
	Score   float64
}

// GraphNode is a node reached during graph expansion.
type GraphNode struct {
	GID    string
	PageNo int
	Title  string
}

// GraphNeighborhood is the result of expanding outward from a seed node.
// Distances maps node GID to hop count from the seed; the seed itself has
// distance 0.
type GraphNeighborhood struct {
	Nodes     []GraphNode
	Distances map[string]int
}

// Document is the stored unit of content the search strategies run against.
type Document struct {
	GID         string
	PageNo      int
	Title       string
	Body        string
	EntityType  string
	EntityValue string
	Links       []string // GIDs of linked documents (directed edges)
	Vector      []float32
	InsertedAt  time.Time
	UpdatedAt   time.Time
}

// RetrievalResult is the projection of one result kept in the durable
// retrieval log.
type RetrievalResult struct {
	GID   string
	Title string
	Score float64
}

// RetrievalLogEntry captures one executed search for the durable log.
type RetrievalLogEntry struct {
	Query       string
	Mode        Mode
	ResultCount int
	ElapsedMs   int64
	Timestamp   time.Time
	Results     []RetrievalResult
}
