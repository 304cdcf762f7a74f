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

import "strings"

const globMeta = `*?[{\`

// 🔒 EscapePattern escapes every doublestar meta character in name so the
// resulting pattern matches name and nothing else
func EscapePattern(name string) string {
	if !strings.ContainsAny(name, globMeta) {
		return name
	}
	var sb strings.Builder
	for _, r := range name {
		if strings.ContainsRune(globMeta, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// 🔍 LiteralPath reports whether pattern contains no unescaped meta
// character, and if so returns the path it names with escapes removed
func LiteralPath(pattern string) (string, bool) {
	var sb strings.Builder
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '\\' && i+1 < len(pattern):
			i++
			sb.WriteByte(pattern[i])
		case strings.IndexByte(globMeta, c) >= 0:
			return "", false
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String(), true
}
