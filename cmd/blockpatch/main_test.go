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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	stepBefore = `test("home", async ({ page }) => {
  await test.step("2. Ensure text \"JusticePath\" is visible", async () => {
    await expect(page.getByText("JusticePath")).toBeVisible();
  });
});
`
	stepAfter = `test("home", async ({ page }) => {
  await test.step("2. Ensure heading", async () => {});
});
`

	configHCL = `patch "heading" {
  files       = "**/*.spec.ts"
  start       = "  await test.step(\"2. Ensure text"
  end         = "  });\n"
  replacement = <<EOT
  await test.step("2. Ensure heading", async () => {});
EOT
}
`
)

type runOutput struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, args ...string) runOutput {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return runOutput{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// 🧪 createProject writes a patch file and one spec file under a temp dir
func createProject(t *testing.T, spec string) (dir, cfgPath, specPath string) {
	t.Helper()

	dir = t.TempDir()
	cfgPath = filepath.Join(dir, ".blockpatch.hcl")
	specPath = filepath.Join(dir, "tests", "home.spec.ts")

	require.NoError(t, os.MkdirAll(filepath.Dir(specPath), 0755))
	require.NoError(t, os.WriteFile(cfgPath, []byte(configHCL), 0644))
	require.NoError(t, os.WriteFile(specPath, []byte(spec), 0644))
	return dir, cfgPath, specPath
}

func readString(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestApplyCommand(t *testing.T) {
	_, cfgPath, specPath := createProject(t, stepBefore)

	out := runCLI(t, "apply", "-c", cfgPath)
	require.Equal(t, 0, out.code, out.stdout+out.stderr)

	assert.Equal(t, stepAfter, readString(t, specPath))
	assert.Contains(t, out.stdout, "tests/home.spec.ts")
	assert.Contains(t, out.stdout, "patched 1 of 1 files")
}

func TestApplyCommand_DryRun(t *testing.T) {
	_, cfgPath, specPath := createProject(t, stepBefore)

	out := runCLI(t, "apply", "-c", cfgPath, "--dry-run")
	require.Equal(t, 0, out.code, out.stdout+out.stderr)

	assert.Equal(t, stepBefore, readString(t, specPath))
	assert.Contains(t, out.stdout, "would patch")
	assert.Contains(t, out.stdout, "+  await test.step(\"2. Ensure heading\"")
	assert.Contains(t, out.stdout, "dry run, no files were written")
	assert.Contains(t, out.stdout, "1 of 1 files would change")
}

func TestApplyCommand_MissingAnchor(t *testing.T) {
	_, cfgPath, specPath := createProject(t, "no steps here\n")

	noColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = noColor }()

	out := runCLI(t, "apply", "-c", cfgPath)
	assert.Equal(t, 1, out.code)
	assert.Contains(t, out.stdout, "start anchor not found")
	assert.Regexp(t, `✗ tests/home\.spec\.ts\s+failed\s+heading`, out.stdout, "the failing file gets its own line")
	assert.Equal(t, "no steps here\n", readString(t, specPath))
}

func TestApplyCommand_PartialFailure(t *testing.T) {
	dir, cfgPath, specPath := createProject(t, stepBefore)
	brokenPath := filepath.Join(dir, "tests", "z.spec.ts")
	require.NoError(t, os.WriteFile(brokenPath, []byte("no steps here\n"), 0644))

	out := runCLI(t, "apply", "-c", cfgPath)
	assert.Equal(t, 1, out.code)
	assert.Equal(t, stepAfter, readString(t, specPath))
	assert.Equal(t, "no steps here\n", readString(t, brokenPath))
	assert.Contains(t, out.stdout, "patched")
	assert.Contains(t, out.stdout, "failed")
	assert.Contains(t, out.stdout, "1 of 2 attempted files were processed before the failure")
}

func TestApplyCommand_BracketedFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "[id].spec.ts")
	sibling := filepath.Join(dir, "i.spec.ts")
	require.NoError(t, os.WriteFile(target, []byte(stepBefore), 0644))
	require.NoError(t, os.WriteFile(sibling, []byte(stepBefore), 0644))

	out := runCLI(t, "apply", "--file", target,
		"--start", `  await test.step("2. Ensure text`,
		"--end", `  });\n`,
		"--replacement", `  await test.step("2. Ensure heading", async () => {});\n`,
	)
	require.Equal(t, 0, out.code, out.stdout+out.stderr)

	assert.Equal(t, stepAfter, readString(t, target))
	assert.Equal(t, stepBefore, readString(t, sibling), "only the named file may change")
}

func TestApplyCommand_BracketedFileMissing(t *testing.T) {
	dir := t.TempDir()
	sibling := filepath.Join(dir, "i.spec.ts")
	require.NoError(t, os.WriteFile(sibling, []byte(stepBefore), 0644))

	out := runCLI(t, "apply", "--file", filepath.Join(dir, "[id].spec.ts"), "--start", "a", "--end", "b")
	assert.Equal(t, 1, out.code)
	assert.Contains(t, out.stdout, "no such file")
	assert.Equal(t, stepBefore, readString(t, sibling))
}

func TestApplyCommand_MissingConfig(t *testing.T) {
	out := runCLI(t, "apply", "-c", filepath.Join(t.TempDir(), "nope.hcl"))
	assert.Equal(t, 1, out.code)
	assert.Contains(t, out.stdout, "loading config")
}

func TestApplyCommand_AdHoc(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		args    []string
		want    string
		wantErr string
	}{
		{
			name:  "escaped_anchors",
			input: stepBefore,
			args: []string{
				"--start", `  await test.step("2. Ensure text`,
				"--end", `  });\n`,
				"--replacement", `  await test.step("2. Ensure heading", async () => {});\n`,
			},
			want: stepAfter,
		},
		{
			name:  "empty_replacement_deletes_block",
			input: "keep <x>drop</x> keep\n",
			args:  []string{"--start", "<x>", "--end", "</x>"},
			want:  "keep  keep\n",
		},
		{
			name:  "count",
			input: "[a] [a] [a]\n",
			args:  []string{"--start", "[", "--end", "]", "--replacement", "b", "--count", "2"},
			want:  "b b [a]\n",
		},
		{
			name:    "missing_end",
			input:   "<x> open\n",
			args:    []string{"--start", "<x>", "--end", "</x>"},
			want:    "<x> open\n",
			wantErr: "end anchor not found",
		},
		{
			name:    "empty_start",
			input:   "x\n",
			args:    []string{"--start", "", "--end", "x"},
			want:    "x\n",
			wantErr: "start is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "page.spec.ts")
			require.NoError(t, os.WriteFile(path, []byte(tt.input), 0644))

			out := runCLI(t, append([]string{"apply", "--file", path}, tt.args...)...)
			if tt.wantErr != "" {
				assert.Equal(t, 1, out.code)
				assert.Contains(t, out.stdout, tt.wantErr)
			} else {
				require.Equal(t, 0, out.code, out.stdout+out.stderr)
			}
			assert.Equal(t, tt.want, readString(t, path))
		})
	}
}

func TestApplyCommand_ReplacementFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.spec.ts")
	replPath := filepath.Join(dir, "step.ts")
	require.NoError(t, os.WriteFile(path, []byte(stepBefore), 0644))
	require.NoError(t, os.WriteFile(replPath, []byte("  await test.step(\"2. Ensure heading\", async () => {});\n"), 0644))

	out := runCLI(t, "apply", "--file", path,
		"--start", `  await test.step("2. Ensure text`,
		"--end", `  });\n`,
		"--replacement-file", replPath,
	)
	require.Equal(t, 0, out.code, out.stdout+out.stderr)
	assert.Equal(t, stepAfter, readString(t, path))
}

func TestApplyCommand_FlagErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.ts")

	out := runCLI(t, "apply", "--file", path, "--start", "a")
	assert.Equal(t, 1, out.code)

	out = runCLI(t, "apply", "--file", path, "--start", "a", "--end", "b", "--replacement", "x", "--replacement-file", path)
	assert.Equal(t, 1, out.code)

	out = runCLI(t, "apply", "--replacement", "x")
	assert.Equal(t, 1, out.code)
	assert.Contains(t, out.stdout, "require --file")
}

func TestCheckCommand(t *testing.T) {
	_, cfgPath, specPath := createProject(t, stepBefore)

	out := runCLI(t, "check", "-c", cfgPath)
	require.Equal(t, 0, out.code, out.stdout+out.stderr)
	assert.Contains(t, out.stdout, "tests/home.spec.ts")
	assert.Contains(t, out.stdout, "heading")
	assert.Contains(t, out.stdout, "all 1 blocks found")
	assert.Equal(t, stepBefore, readString(t, specPath))
}

func TestCheckCommand_Missing(t *testing.T) {
	_, cfgPath, _ := createProject(t, "nothing\n")

	out := runCLI(t, "check", "-c", cfgPath)
	assert.Equal(t, 1, out.code)
	assert.Contains(t, out.stdout, "anchors missing: 1 of 1 blocks not found")
}

func TestVersionCommand(t *testing.T) {
	out := runCLI(t, "version")
	require.Equal(t, 0, out.code)
	assert.Contains(t, out.stdout, "blockpatch version info")

	out = runCLI(t, "version", "--json")
	require.Equal(t, 0, out.code)

	var info VersionInfo
	require.NoError(t, json.Unmarshal([]byte(out.stdout), &info))
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
}
