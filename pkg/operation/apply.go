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

// 📦 FileResult is the outcome of patching one file
type FileResult struct {
	Path    string
	Rules   []string
	Result  *text.ReplacementResult
	Written bool
	// Diff is only set for dry runs that would modify the file
	Diff string
	// Err is set when the file could not be patched; Result is nil then
	Err error
}

// 🏃 Apply patches every resolved file. Each file is read once, every rule
// is applied in memory, and the file is written only when all rules found
// their anchors. Results are returned in resolve order; on error the slice
// holds the files that were attempted, the failed ones with Err set.
func (p *Patcher) Apply(ctx context.Context) ([]FileResult, error) {
	jobs, err := p.Resolve(ctx)
	if err != nil {
		return nil, errors.Errorf("resolving files: %w", err)
	}

	if err := p.replacer.ValidateRules(allRules(jobs)); err != nil {
		return nil, errors.Errorf("validating rules: %w", err)
	}

	results := make([]*FileResult, len(jobs))
	runErr := NewRunner(p.jobs).Run(ctx, len(jobs), func(ctx context.Context, i int) error {
		res, err := p.patchFile(ctx, jobs[i])
		if err != nil {
			results[i] = &FileResult{
				Path:  jobs[i].Path,
				Rules: ruleNames(jobs[i].Rules),
				Err:   err,
			}
			return err
		}
		results[i] = res
		return nil
	})

	out := make([]FileResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}

	if runErr != nil {
		return out, runErr
	}
	return out, nil
}

// 📄 patchFile reads, patches and writes back a single file
func (p *Patcher) patchFile(ctx context.Context, job FileJob) (*FileResult, error) {
	logger := zerolog.Ctx(ctx).With().Str("file", job.Path).Logger()
	path := p.abs(job.Path)

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", job.Path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", job.Path, err)
	}

	result, err := p.replacer.ReplaceText(logger.WithContext(ctx), f, job.Rules)
	if err != nil {
		return nil, errors.Errorf("patching %s: %w", job.Path, err)
	}
	if err := f.Close(); err != nil {
		return nil, errors.Errorf("closing %s: %w", job.Path, err)
	}

	res := &FileResult{
		Path:   job.Path,
		Rules:  ruleNames(job.Rules),
		Result: result,
	}

	switch {
	case !result.WasModified:
		logger.Debug().Msg("content unchanged, skipping write")
	case p.dryRun:
		res.Diff = Diff(string(result.OriginalContent), string(result.ModifiedContent))
		logger.Debug().Msg("dry run, skipping write")
	default:
		if err := writeFileAtomic(path, result.ModifiedContent, info.Mode().Perm()); err != nil {
			return nil, errors.Errorf("writing %s: %w", job.Path, err)
		}
		res.Written = true
		logger.Info().Int("replacements", result.ReplacementCount).Msg("patched file")
	}

	return res, nil
}

func allRules(jobs []FileJob) []text.BlockRule {
	var rules []text.BlockRule
	for _, j := range jobs {
		rules = append(rules, j.Rules...)
	}
	return rules
}
