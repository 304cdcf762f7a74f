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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var _ BlockReplacer = (*AnchorBlockReplacer)(nil)

// AnchorBlockReplacer implements BlockReplacer using anchor-delimited spans
type AnchorBlockReplacer struct{}

// NewAnchorBlockReplacer creates a new AnchorBlockReplacer
func NewAnchorBlockReplacer() *AnchorBlockReplacer {
	return &AnchorBlockReplacer{}
}

// ReplaceText implements BlockReplacer.ReplaceText
func (r *AnchorBlockReplacer) ReplaceText(ctx context.Context, content io.Reader, rules []BlockRule) (*ReplacementResult, error) {
	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := &ReplacementResult{
		OriginalContent: originalContent,
		ModifiedContent: originalContent,
	}

	current := string(originalContent)
	for i, rule := range rules {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("rule %d (%s): %w", i, rule.Name, err)
		}

		next, match, err := ReplaceBlock(current, rule.StartAnchor, rule.EndAnchor, rule.Replacement, rule.Count)
		if err != nil {
			return nil, errors.Errorf("rule %d (%s): %w", i, rule.Name, err)
		}

		zerolog.Ctx(ctx).Debug().
			Str("rule", rule.Name).
			Int("start", match.Span.Start).
			Int("end", match.Span.End).
			Int("replaced", match.Replaced).
			Msg("replaced block")

		result.Spans = append(result.Spans, match.Span)
		result.ReplacementCount += match.Replaced
		current = next
	}

	result.ModifiedContent = []byte(current)
	result.WasModified = current != string(originalContent)
	return result, nil
}

// ValidateRules implements BlockReplacer.ValidateRules
func (r *AnchorBlockReplacer) ValidateRules(rules []BlockRule) error {
	for i, rule := range rules {
		if rule.StartAnchor == "" {
			return errors.Errorf("rule %d: start anchor is required", i)
		}
		if rule.EndAnchor == "" {
			return errors.Errorf("rule %d: end anchor is required", i)
		}
		if rule.FileFilterGlob == "" {
			return errors.Errorf("rule %d: file_filter_glob is required", i)
		}
		if rule.Count < 0 {
			return errors.Errorf("rule %d: count must not be negative", i)
		}
	}
	return nil
}
