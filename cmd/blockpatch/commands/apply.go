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

package commands

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/walteh/blockpatch/cmd/blockpatch/opts"
	"github.com/walteh/blockpatch/pkg/config"
	"github.com/walteh/blockpatch/pkg/log"
	"github.com/walteh/blockpatch/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

type applyFlags struct {
	dryRun bool
	jobs   int

	file            string
	start           string
	end             string
	replacement     string
	replacementFile string
	count           int
}

// NewApplyCmd creates a new apply command
func NewApplyCmd(root *opts.RootOpts) *cobra.Command {
	var f applyFlags

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Replace anchored blocks in files",
		Long: `Apply replaces every block delimited by a start and an end anchor.
It will:
1. Load the patch file (or build a single patch from --file)
2. Resolve the files each patch targets
3. Replace the first block found in each file
4. Write the file back, or print a diff with --dry-run

A file is left untouched when any of its anchors is missing.`,
		Example: `  blockpatch apply -c .blockpatch.hcl
  blockpatch apply --dry-run
  blockpatch apply --file page.spec.ts --start '  await test.step("2.' --end '  });\n' --replacement-file step.ts`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := f.config(ctx, root)
			if err != nil {
				return err
			}

			return runApply(ctx, cfg, f.dryRun, f.jobs)
		},
	}

	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "print a diff instead of writing files")
	cmd.Flags().IntVarP(&f.jobs, "jobs", "j", 0, "files patched in parallel (default from config, else 1)")

	cmd.Flags().StringVar(&f.file, "file", "", "patch a single file without a config")
	cmd.Flags().StringVar(&f.start, "start", "", "start anchor, Go escapes allowed")
	cmd.Flags().StringVar(&f.end, "end", "", "end anchor, Go escapes allowed")
	cmd.Flags().StringVar(&f.replacement, "replacement", "", "replacement text, Go escapes allowed")
	cmd.Flags().StringVar(&f.replacementFile, "replacement-file", "", "read the replacement text from a file")
	cmd.Flags().IntVar(&f.count, "count", 1, "number of occurrences of the block to replace")

	cmd.MarkFlagsRequiredTogether("file", "start", "end")
	cmd.MarkFlagsMutuallyExclusive("replacement", "replacement-file")

	return cmd
}

// 🧩 config returns the patch file, or a single patch built from flags
// when --file is set
func (f *applyFlags) config(ctx context.Context, root *opts.RootOpts) (*config.Config, error) {
	if f.file == "" {
		if f.replacement != "" || f.replacementFile != "" {
			return nil, errors.Errorf("--replacement and --replacement-file require --file")
		}
		return root.LoadConfig(ctx)
	}

	start, err := Unescape(f.start)
	if err != nil {
		return nil, errors.Errorf("--start: %w", err)
	}
	end, err := Unescape(f.end)
	if err != nil {
		return nil, errors.Errorf("--end: %w", err)
	}

	replacement, err := Unescape(f.replacement)
	if err != nil {
		return nil, errors.Errorf("--replacement: %w", err)
	}
	if f.replacementFile != "" {
		data, err := os.ReadFile(f.replacementFile)
		if err != nil {
			return nil, errors.Errorf("reading replacement file: %w", err)
		}
		replacement = string(data)
	}

	abs, err := filepath.Abs(f.file)
	if err != nil {
		return nil, errors.Errorf("resolving %s: %w", f.file, err)
	}

	cfg := &config.Config{
		Root: filepath.Dir(abs),
		Patches: []config.Patch{{
			Name:        "cli",
			Files:       config.EscapePattern(filepath.Base(abs)),
			Start:       start,
			End:         end,
			Replacement: replacement,
			Count:       f.count,
		}},
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("invalid patch: %w", err)
	}
	return cfg, nil
}

func runApply(ctx context.Context, cfg *config.Config, dryRun bool, jobs int) error {
	console := log.FromContext(ctx)

	p, err := operation.New(operation.Options{
		Config: cfg,
		DryRun: dryRun,
		Jobs:   jobs,
	})
	if err != nil {
		return errors.Errorf("creating patcher: %w", err)
	}

	if dryRun {
		console.Header("dry run " + cfg.String())
	} else {
		console.Header("applying " + cfg.String())
	}

	results, err := p.Apply(ctx)
	modified, failed := 0, 0
	for _, res := range results {
		op := log.FileOperation{
			Path:     res.Path,
			Rules:    res.Rules,
			IsDryRun: dryRun,
		}
		switch {
		case res.Err != nil:
			op.Status = "failed"
			op.IsFailed = true
			failed++
		case !res.Result.WasModified:
			op.Status = "unchanged"
		case dryRun:
			op.Status = "would patch"
		default:
			op.Status = "patched"
		}
		if res.Result != nil {
			op.IsModified = res.Result.WasModified
			op.Replacements = res.Result.ReplacementCount
			if res.Result.WasModified {
				modified++
			}
		}
		console.LogFileOperation(ctx, op)
		if res.Diff != "" {
			console.Diff(res.Path, res.Diff)
		}
	}
	if err != nil {
		if done := len(results) - failed; done > 0 {
			console.LogNewline()
			console.Warningf("%d of %d attempted files were processed before the failure", done, len(results))
		}
		return errors.Errorf("applying patches: %w", err)
	}

	console.LogNewline()
	if dryRun {
		console.Info("dry run, no files were written")
		console.Successf("%d of %d files would change", modified, len(results))
	} else {
		console.Successf("patched %d of %d files", modified, len(results))
	}
	return nil
}
