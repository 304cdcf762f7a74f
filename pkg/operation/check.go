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

package operation

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/blockpatch/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔍 CheckResult reports where one rule's block sits in one file
type CheckResult struct {
	Path string
	Rule string
	Span text.Span
	Err  error
}

// ✅ OK reports whether both anchors were found
func (c CheckResult) OK() bool {
	return c.Err == nil
}

// 🔍 Check locates every rule's block without writing anything. Rules run
// in order against the evolving document, as Apply would; a rule whose
// anchors are missing is reported and leaves the document as it was.
// Only resolve failures and cancellation are returned as errors.
func (p *Patcher) Check(ctx context.Context) ([]CheckResult, error) {
	jobs, err := p.Resolve(ctx)
	if err != nil {
		return nil, errors.Errorf("resolving files: %w", err)
	}

	var results []CheckResult
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return results, errors.Errorf("check cancelled: %w", err)
		}
		results = append(results, p.checkFile(ctx, job)...)
	}
	return results, nil
}

func (p *Patcher) checkFile(ctx context.Context, job FileJob) []CheckResult {
	logger := zerolog.Ctx(ctx)

	results := make([]CheckResult, 0, len(job.Rules))

	data, err := os.ReadFile(p.abs(job.Path))
	if err != nil {
		for _, rule := range job.Rules {
			results = append(results, CheckResult{
				Path: job.Path,
				Rule: rule.Name,
				Err:  errors.Errorf("reading %s: %w", job.Path, err),
			})
		}
		return results
	}

	doc := string(data)
	for _, rule := range job.Rules {
		next, match, err := text.ReplaceBlock(doc, rule.StartAnchor, rule.EndAnchor, rule.Replacement, rule.Count)
		results = append(results, CheckResult{
			Path: job.Path,
			Rule: rule.Name,
			Span: match.Span,
			Err:  err,
		})
		if err != nil {
			logger.Debug().Err(err).Str("file", job.Path).Str("rule", rule.Name).Msg("anchor missing")
			continue
		}
		doc = next
	}
	return results
}
