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
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/blockpatch/pkg/config"
	"github.com/walteh/blockpatch/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// ErrNoFilesMatched is returned when a patch glob matches no file under root
var ErrNoFilesMatched = errors.Base("no files matched")

// 🔧 Options contains configuration for the patcher
type Options struct {
	// Config is the loaded patch file
	Config *config.Config
	// Replacer applies rules to file content. Defaults to an AnchorBlockReplacer.
	Replacer text.BlockReplacer
	// DryRun computes results and diffs without writing
	DryRun bool
	// Jobs overrides Config.Jobs when positive
	Jobs int
}

// 🎮 Patcher applies the patches of a config to files on disk
type Patcher struct {
	config   *config.Config
	replacer text.BlockReplacer
	dryRun   bool
	jobs     int
}

// 📄 FileJob is one file and every rule that applies to it, in order
type FileJob struct {
	// Path is relative to the config root, slash separated
	Path  string
	Rules []text.BlockRule
}

// 🏭 New creates a new patcher with the given options
func New(opts Options) (*Patcher, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if opts.Jobs < 0 {
		return nil, errors.Errorf("jobs must not be negative")
	}

	replacer := opts.Replacer
	if replacer == nil {
		replacer = text.NewAnchorBlockReplacer()
	}

	jobs := opts.Config.Jobs
	if opts.Jobs > 0 {
		jobs = opts.Jobs
	}
	if jobs < 1 {
		jobs = 1
	}

	return &Patcher{
		config:   opts.Config,
		replacer: replacer,
		dryRun:   opts.DryRun,
		jobs:     jobs,
	}, nil
}

// 🔍 Resolve expands the files pattern of every patch under the config root
// and groups the rules per file, in patch order. A file only carries the
// rules of patches that resolved to it. Literal paths are kept even when
// they do not exist so that reading them reports the failure, and a
// pattern naming an existing file is taken literally before it is globbed.
func (p *Patcher) Resolve(ctx context.Context) ([]FileJob, error) {
	logger := zerolog.Ctx(ctx)
	fsys := os.DirFS(p.config.Root)

	var order []string
	rules := map[string][]text.BlockRule{}
	for _, patch := range p.config.Patches {
		matches, err := p.expand(fsys, patch)
		if err != nil {
			return nil, err
		}

		logger.Debug().Str("patch", patch.Name).Strs("files", matches).Msg("resolved patch files")

		for _, m := range matches {
			if _, ok := rules[m]; !ok {
				order = append(order, m)
			}
			rules[m] = append(rules[m], patch.Rule())
		}
	}

	jobs := make([]FileJob, 0, len(order))
	for _, file := range order {
		jobs = append(jobs, FileJob{Path: file, Rules: rules[file]})
	}
	return jobs, nil
}

// 🧭 expand returns the files one patch targets, relative to root
func (p *Patcher) expand(fsys fs.FS, patch config.Patch) ([]string, error) {
	if path, ok := config.LiteralPath(patch.Files); ok {
		return []string{path}, nil
	}

	if info, err := fs.Stat(fsys, patch.Files); err == nil && !info.IsDir() {
		return []string{patch.Files}, nil
	}

	matches, err := doublestar.Glob(fsys, patch.Files, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Errorf("patch %q: expanding %s: %w", patch.Name, patch.Files, err)
	}
	if len(matches) == 0 {
		return nil, errors.Errorf("patch %q: %w: %s under %s", patch.Name, ErrNoFilesMatched, patch.Files, p.config.Root)
	}
	return matches, nil
}

func (p *Patcher) abs(file string) string {
	return filepath.Join(p.config.Root, filepath.FromSlash(file))
}

func ruleNames(rules []text.BlockRule) []string {
	names := make([]string, 0, len(rules))
	for _, r := range rules {
		names = append(names, r.Name)
	}
	return names
}
