package badger

import (
	"encoding/binary"
	"fmt"
)

// Key prefixes for different data types
const (
	documentPrefix     = "doc"
	termIndexPrefix    = "term"
	entityIndexPrefix  = "ent"
	edgeForwardPrefix  = "edgef"
	edgeReversePrefix  = "edger"
	kvPrefix           = "kv"
	retrievalLogPrefix = "retlog"
	retrievalLogIDSeq  = "retlogseq"
)

// makeDocumentKey generates a key for a document by GID.
func makeDocumentKey(gid string) []byte {
	return []byte(fmt.Sprintf("%s:%s", documentPrefix, gid))
}

// makeTermKey generates a composite key for the term index.
// Format: prefix:token:gid
func makeTermKey(token, gid string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", termIndexPrefix, token, gid))
}

// makePartialTermKey generates a prefix for scanning a token's posting list.
func makePartialTermKey(token string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", termIndexPrefix, token))
}

// makeEntityKey generates a composite key for the entity index.
// Format: prefix:type:value:gid
func makeEntityKey(entityType, entityValue, gid string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s:%s", entityIndexPrefix, entityType, entityValue, gid))
}

// makeEdgeKey generates a key for a directed link edge.
// Forward edges scan by source, reverse edges by target.
func makeEdgeKey(prefix, from, to string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", prefix, from, to))
}

// makePartialEdgeKey generates a prefix for scanning a node's edges.
func makePartialEdgeKey(prefix, node string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", prefix, node))
}

// makeKVKey generates a key in the best-effort KV bucket.
func makeKVKey(key string) []byte {
	return []byte(fmt.Sprintf("%s:%s", kvPrefix, key))
}

// makeRetrievalLogKey generates a sequence-ordered key for a log entry.
// BigEndian so lexicographic iteration follows insertion order.
func makeRetrievalLogKey(seq uint64) []byte {
	prefix := retrievalLogPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}
