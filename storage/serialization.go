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


package storage

import (
	"github.com/poiesic/quaero/core"
)

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(doc *core.Document) []byte {
	buf := make([]byte, core.DocumentMUS.Size(*doc))
	core.DocumentMUS.Marshal(*doc, buf)
	return buf
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	doc, _, err := core.DocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// MarshalRetrievalLogEntry serializes a RetrievalLogEntry to bytes.
func MarshalRetrievalLogEntry(entry *core.RetrievalLogEntry) []byte {
	buf := make([]byte, core.RetrievalLogEntryMUS.Size(*entry))
	core.RetrievalLogEntryMUS.Marshal(*entry, buf)
	return buf
}

// UnmarshalRetrievalLogEntry deserializes a RetrievalLogEntry from bytes.
func UnmarshalRetrievalLogEntry(data []byte) (*core.RetrievalLogEntry, error) {
	entry, _, err := core.RetrievalLogEntryMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// MarshalHistory serializes a query-history snapshot to bytes.
func MarshalHistory(queries []string) []byte {
	buf := make([]byte, core.HistoryMUS.Size(queries))
	core.HistoryMUS.Marshal(queries, buf)
	return buf
}

// UnmarshalHistory deserializes a query-history snapshot from bytes.
func UnmarshalHistory(data []byte) ([]string, error) {
	queries, _, err := core.HistoryMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return queries, nil
}
