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
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/tools/txtar"
)

// txtar cases hold raw "input", "replacement" and "want" sections. The
// "start" and "end" anchors are Go quoted strings so trailing newlines are
// explicit. An "error" section names the anchor expected to be missing.
func TestTxtarBlocks(t *testing.T) {
	files, err := filepath.Glob("testdata/*.txtar")
	require.NoError(t, err)
	require.NotEmpty(t, files, "no txtar cases found")

	for _, file := range files {
		t.Run(strings.TrimSuffix(filepath.Base(file), ".txtar"), func(t *testing.T) {
			archive, err := txtar.ParseFile(file)
			require.NoError(t, err)

			sections := map[string]string{}
			for _, f := range archive.Files {
				sections[f.Name] = string(f.Data)
			}

			start := unquoteSection(t, sections, "start")
			end := unquoteSection(t, sections, "end")

			count := 1
			if raw, ok := sections["count"]; ok {
				count, err = strconv.Atoi(strings.TrimSpace(raw))
				require.NoError(t, err, "parsing count")
			}

			got, _, err := ReplaceBlock(sections["input"], start, end, sections["replacement"], count)

			if want, ok := sections["error"]; ok {
				require.Error(t, err)
				switch strings.TrimSpace(want) {
				case "start":
					assert.True(t, errors.Is(err, ErrStartAnchorNotFound), "got %v", err)
				case "end":
					assert.True(t, errors.Is(err, ErrEndAnchorNotFound), "got %v", err)
				default:
					t.Fatalf("unknown error kind %q", want)
				}
				return
			}

			require.NoError(t, err)
			if diff := cmp.Diff(sections["want"], got); diff != "" {
				t.Errorf("replaced document mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func unquoteSection(t *testing.T, sections map[string]string, name string) string {
	t.Helper()

	raw, ok := sections[name]
	require.True(t, ok, "missing %q section", name)

	v, err := strconv.Unquote(strings.TrimSpace(raw))
	require.NoError(t, err, "unquoting %q section", name)
	return v
}
