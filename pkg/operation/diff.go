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
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// 📝 Diff renders a line diff of before and after. Unchanged lines are
// omitted; each hunk starts with the line number in before.
func Diff(before, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	line := 1
	inHunk := false
	for _, d := range diffs {
		chunk := splitLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			line += len(chunk)
			inHunk = false
		case diffmatchpatch.DiffDelete:
			if !inHunk {
				fmt.Fprintf(&sb, "@@ line %d @@\n", line)
				inHunk = true
			}
			for _, l := range chunk {
				sb.WriteString("-" + l + "\n")
			}
			line += len(chunk)
		case diffmatchpatch.DiffInsert:
			if !inHunk {
				fmt.Fprintf(&sb, "@@ line %d @@\n", line)
				inHunk = true
			}
			for _, l := range chunk {
				sb.WriteString("+" + l + "\n")
			}
		}
	}
	return sb.String()
}

func splitLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\n")
	}
	return lines
}
