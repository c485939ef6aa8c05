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


package core

import (
	"fmt"
	"time"
)

// ParseMode converts a string to a Mode, failing on unknown values.
// Unknown modes are a programmer error and never default to a strategy.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
	return m, nil
}

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Title or Body must be non-empty
//   - PageNo must not be negative
//   - Links must not include the document's own GID
//
// NOT validated (populated by processors):
//   - Vector (can be empty until the embedding worker runs)
//   - GID (empty is valid; content-derived on insert)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Title == "" && doc.Body == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyDocument)
	}

	if doc.PageNo < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrNegativePageNo)
	}

	for _, link := range doc.Links {
		if link != "" && link == doc.GID {
			return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrSelfLink)
		}
	}

	return nil
}

// IsValidTimestamp checks a timestamp is not in the future.
// A small clock-skew allowance of one minute is applied.
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now().Add(time.Minute))
}
