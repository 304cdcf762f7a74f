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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/blockpatch/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes. filename is used for
	// diagnostics and relative lookups only.
	Parse(ctx context.Context, filename string, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔄 Patch describes one block replacement applied to every matching file
type Patch struct {
	Name        string `json:"name" yaml:"name" toml:"name"`
	Files       string `json:"files" yaml:"files" toml:"files"` // path or doublestar glob, relative to Root
	Start       string `json:"start" yaml:"start" toml:"start"`
	End         string `json:"end" yaml:"end" toml:"end"`
	Replacement string `json:"replacement" yaml:"replacement" toml:"replacement"`
	Count       int    `json:"count,omitempty" yaml:"count,omitempty" toml:"count,omitempty"`
}

// 📚 Config represents a complete patch file
type Config struct {
	Root    string  `json:"root,omitempty" yaml:"root,omitempty" toml:"root,omitempty"`
	Jobs    int     `json:"jobs,omitempty" yaml:"jobs,omitempty" toml:"jobs,omitempty"`
	Patches []Patch `json:"patches" yaml:"patches" toml:"patches"`

	location string
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, path, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Str("root", cfg.Root).Int("patches", len(cfg.Patches)).Msg("configuration loaded")

	return cfg, nil
}

// 🔍 Validate checks the configuration and fills in defaults
func (cfg *Config) Validate() error {
	if len(cfg.Patches) == 0 {
		return errors.Errorf("at least one patch is required")
	}
	if cfg.Jobs < 0 {
		return errors.Errorf("jobs must not be negative")
	}

	seen := make(map[string]bool, len(cfg.Patches))
	for i := range cfg.Patches {
		p := &cfg.Patches[i]
		if p.Name == "" {
			return errors.Errorf("patch %d: name is required", i)
		}
		if seen[p.Name] {
			return errors.Errorf("patch %d: duplicate name %q", i, p.Name)
		}
		seen[p.Name] = true

		if p.Files == "" {
			return errors.Errorf("patch %q: files is required", p.Name)
		}
		if p.Start == "" {
			return errors.Errorf("patch %q: start is required", p.Name)
		}
		if p.End == "" {
			return errors.Errorf("patch %q: end is required", p.Name)
		}
		if p.Count < 0 {
			return errors.Errorf("patch %q: count must not be negative", p.Name)
		}

		files := filepath.ToSlash(filepath.Clean(p.Files))
		if filepath.IsAbs(p.Files) || files == ".." || strings.HasPrefix(files, "../") {
			return errors.Errorf("patch %q: files must stay inside root: %s", p.Name, p.Files)
		}
		if !doublestar.ValidatePattern(files) {
			return errors.Errorf("patch %q: invalid files pattern: %s", p.Name, p.Files)
		}
		p.Files = files
	}

	if cfg.Root == "" {
		cfg.Root = "."
		if cfg.location != "" {
			cfg.Root = filepath.Dir(cfg.location)
		}
	} else if !filepath.IsAbs(cfg.Root) && cfg.location != "" {
		cfg.Root = filepath.Join(filepath.Dir(cfg.location), cfg.Root)
	}
	cfg.Root = filepath.Clean(cfg.Root)

	if cfg.Jobs == 0 {
		cfg.Jobs = 1
	}

	return nil
}

// 📍 Location returns the file the config was loaded from, if any
func (cfg *Config) Location() string {
	return cfg.location
}

// 🧩 Rule converts a patch into a block rule
func (p Patch) Rule() text.BlockRule {
	return text.BlockRule{
		Name:           p.Name,
		StartAnchor:    p.Start,
		EndAnchor:      p.End,
		Replacement:    p.Replacement,
		Count:          p.Count,
		FileFilterGlob: p.Files,
	}
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	names := make([]string, 0, len(cfg.Patches))
	for _, p := range cfg.Patches {
		names = append(names, p.Name)
	}
	return fmt.Sprintf("%s [%s]", cfg.Root, strings.Join(names, ", "))
}
