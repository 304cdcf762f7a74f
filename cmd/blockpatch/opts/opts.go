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

package opts

import (
	"context"

	"github.com/walteh/blockpatch/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// DefaultConfigFile is the patch file used when --config is not given
const DefaultConfigFile = ".blockpatch.hcl"

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile string
	Debug      bool
}

// LoadConfig loads the patch file named by --config
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	if o.ConfigFile == "" {
		return nil, errors.Errorf("no config file given")
	}
	cfg, err := config.Load(ctx, o.ConfigFile)
	if err != nil {
		return nil, errors.Errorf("loading config %s: %w", o.ConfigFile, err)
	}
	return cfg, nil
}
