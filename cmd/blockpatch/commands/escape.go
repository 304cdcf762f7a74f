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
	"strings"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
)

// 🔤 Unescape interprets Go escape sequences (\n, \t, \", \u00e9) in a
// flag value. Bare double quotes and raw newlines are taken literally.
// Invalid UTF-8 is rejected; use \x escapes to give raw bytes.
func Unescape(s string) (string, error) {
	if !utf8.ValidString(s) {
		return "", errors.Errorf("invalid UTF-8 in %q, use \\x escapes for raw bytes", s)
	}

	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			if i+1 == len(s) {
				return "", errors.Errorf("trailing backslash in %q", s)
			}
			sb.WriteByte(c)
			i++
			sb.WriteByte(s[i])
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')

	out, err := strconv.Unquote(sb.String())
	if err != nil {
		return "", errors.Errorf("invalid escape sequence in %q: %w", s, err)
	}
	return out, nil
}
