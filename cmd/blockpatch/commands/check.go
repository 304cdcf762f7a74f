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
	"strconv"

	"github.com/spf13/cobra"
	"github.com/walteh/blockpatch/cmd/blockpatch/opts"
	"github.com/walteh/blockpatch/pkg/log"
	"github.com/walteh/blockpatch/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// ErrAnchorsMissing is returned by check when any block could not be located
var ErrAnchorsMissing = errors.Base("anchors missing")

// NewCheckCmd creates a new check command
func NewCheckCmd(root *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report where each patch's block is without writing",
		Long: `Check locates the block of every patch in every target file.
It will:
1. Load the patch file
2. Resolve the files each patch targets
3. Print the byte span of each block, or why it was not found

Exits non-zero when any anchor is missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			console := log.FromContext(ctx)

			cfg, err := root.LoadConfig(ctx)
			if err != nil {
				return err
			}

			p, err := operation.New(operation.Options{Config: cfg})
			if err != nil {
				return errors.Errorf("creating patcher: %w", err)
			}

			console.Header("checking " + cfg.String())

			results, err := p.Check(ctx)
			if err != nil {
				return errors.Errorf("checking patches: %w", err)
			}

			missing := 0
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				if r.OK() {
					rows = append(rows, []string{r.Path, r.Rule, "ok", strconv.Itoa(r.Span.Start), strconv.Itoa(r.Span.End)})
					continue
				}
				missing++
				rows = append(rows, []string{r.Path, r.Rule, r.Err.Error(), "-", "-"})
			}

			if err := console.Table([]string{"File", "Patch", "Status", "Start", "End"}, rows); err != nil {
				return err
			}

			if missing > 0 {
				return errors.Errorf("%w: %d of %d blocks not found", ErrAnchorsMissing, missing, len(results))
			}
			console.Successf("all %d blocks found", len(results))
			return nil
		},
	}

	return cmd
}
