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

import "errors"

// Domain validation errors
var (
	// ErrUnknownMode indicates a Mode value outside the supported set.
	ErrUnknownMode = errors.New("unknown search mode")

	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrEmptyDocument indicates both Title and Body are empty.
	ErrEmptyDocument = errors.New("document needs a title or a body")

	// ErrNegativePageNo indicates a negative page number.
	ErrNegativePageNo = errors.New("page number cannot be negative")

	// ErrSelfLink indicates a document linking to itself.
	ErrSelfLink = errors.New("document cannot link to itself")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")

	// ErrNegativeLength indicates a serialized collection with a negative length prefix.
	ErrNegativeLength = errors.New("negative length prefix")
)
