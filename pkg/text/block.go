// Copyright 2025 walteh LLC
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

package text

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrStartAnchorNotFound is returned when the document does not contain
	// the start anchor.
	ErrStartAnchorNotFound = errors.Base("start anchor not found")

	// ErrEndAnchorNotFound is returned when the end anchor does not occur at
	// or after the start anchor.
	ErrEndAnchorNotFound = errors.Base("end anchor not found after start anchor")
)

// Span is a half-open byte range [Start, End) of a document
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span
func (s Span) Len() int {
	return s.End - s.Start
}

// Slice returns the part of document covered by the span
func (s Span) Slice(document string) string {
	return document[s.Start:s.End]
}

// FindSpan locates the block opened by the first occurrence of start and
// closed by the first occurrence of end found from there on. The returned
// span includes the end anchor.
func FindSpan(document, start, end string) (Span, error) {
	from := strings.Index(document, start)
	if from < 0 {
		return Span{}, errors.Errorf("%w: %q", ErrStartAnchorNotFound, start)
	}

	to := strings.Index(document[from:], end)
	if to < 0 {
		return Span{}, errors.Errorf("%w: %q (searched from offset %d)", ErrEndAnchorNotFound, end, from)
	}

	return Span{Start: from, End: from + to + len(end)}, nil
}

// ReplaceFirstBlock replaces the block delimited by start and end with
// replacement. Only the first block is touched.
func ReplaceFirstBlock(document, start, end, replacement string) (string, error) {
	out, _, err := ReplaceBlock(document, start, end, replacement, 1)
	return out, err
}

// Match describes what ReplaceBlock did
type Match struct {
	// Span is the located block in the input document
	Span Span
	// Replaced is the number of copies of the block that were replaced
	Replaced int
}

// ReplaceBlock locates the block like ReplaceFirstBlock, then replaces up to
// count occurrences of that exact block text, left to right. A count below
// one is treated as one.
func ReplaceBlock(document, start, end, replacement string, count int) (string, Match, error) {
	span, err := FindSpan(document, start, end)
	if err != nil {
		return "", Match{}, err
	}

	if count < 1 {
		count = 1
	}

	// the span opens on the first start anchor, so no copy of the block can
	// begin before span.Start
	var sb strings.Builder
	sb.Grow(len(document) - span.Len() + len(replacement))
	sb.WriteString(document[:span.Start])
	sb.WriteString(replacement)

	replaced := 1
	rest := document[span.End:]
	if old := span.Slice(document); count > 1 && old != "" {
		replaced += min(count-1, strings.Count(rest, old))
		rest = strings.Replace(rest, old, replacement, count-1)
	}
	sb.WriteString(rest)

	return sb.String(), Match{Span: span, Replaced: replaced}, nil
}
