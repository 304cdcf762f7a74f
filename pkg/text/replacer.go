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
	"context"
	"io"
)

// BlockRule defines a single anchored block replacement
type BlockRule struct {
	// Name identifies the rule in errors and logs
	Name string

	// StartAnchor is the text whose first occurrence opens the block
	StartAnchor string

	// EndAnchor is the text whose first occurrence at or after the start
	// closes the block. The anchor itself is part of the block.
	EndAnchor string

	// Replacement is the literal text that takes the place of the block
	Replacement string

	// Count is how many occurrences of the located block text are replaced.
	// Zero means one.
	Count int

	// FileFilterGlob is a glob pattern to filter which files the rule applies to
	FileFilterGlob string
}

// ReplacementResult contains the results of a block replacement operation
type ReplacementResult struct {
	// WasModified indicates if the content changed
	WasModified bool

	// ReplacementCount is the number of blocks replaced
	ReplacementCount int

	// Spans holds the located block of each rule, in rule order, against the
	// content as it was when that rule ran
	Spans []Span

	// OriginalContent is the content before replacements
	OriginalContent []byte

	// ModifiedContent is the content after replacements
	ModifiedContent []byte
}

// BlockReplacer defines the interface for anchored block replacement
type BlockReplacer interface {
	// ReplaceText applies the rules in order to the content.
	// Any rule whose anchors cannot be found fails the whole call.
	ReplaceText(ctx context.Context, content io.Reader, rules []BlockRule) (*ReplacementResult, error)

	// ValidateRules checks that all rules are valid
	ValidateRules(rules []BlockRule) error
}
