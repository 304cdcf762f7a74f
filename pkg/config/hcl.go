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
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

type hclPatch struct {
	Name        string `hcl:"name,label"`
	Files       string `hcl:"files"`
	Start       string `hcl:"start"`
	End         string `hcl:"end"`
	Replacement string `hcl:"replacement,optional"`
	Count       int    `hcl:"count,optional"`
}

type hclConfig struct {
	Root    string     `hcl:"root,optional"`
	Jobs    int        `hcl:"jobs,optional"`
	Patches []hclPatch `hcl:"patch,block"`
}

// 📝 Parse parses the config from HCL.
//
// Patches are labeled blocks:
//
//	patch "heading" {
//	  files       = "**/case-type-selection.spec.ts"
//	  start       = "  await test.step(\"2. Ensure text"
//	  end         = "  });\n"
//	  replacement = <<EOT
//	  ...
//	EOT
//	}
//
// The variable config_dir holds the absolute directory of the patch file,
// so root = "${config_dir}/web" does not depend on the working directory.
func (p *HCLParser) Parse(ctx context.Context, filename string, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	configDir, err := filepath.Abs(filepath.Dir(filename))
	if err != nil {
		return nil, errors.Errorf("resolving config dir: %w", err)
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"config_dir": cty.StringVal(configDir),
		},
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		Root: hclCfg.Root,
		Jobs: hclCfg.Jobs,
	}
	for _, hp := range hclCfg.Patches {
		cfg.Patches = append(cfg.Patches, Patch{
			Name:        hp.Name,
			Files:       hp.Files,
			Start:       hp.Start,
			End:         hp.End,
			Replacement: hp.Replacement,
			Count:       hp.Count,
		})
	}

	return cfg, nil
}
