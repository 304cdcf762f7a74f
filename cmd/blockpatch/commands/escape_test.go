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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnescape(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "abc", want: "abc"},
		{name: "empty", input: "", want: ""},
		{name: "newline_escape", input: `  });\n`, want: "  });\n"},
		{name: "tab_escape", input: `\tx`, want: "\tx"},
		{name: "bare_quote", input: `step("2.`, want: `step("2.`},
		{name: "escaped_quote", input: `say \"hi\"`, want: `say "hi"`},
		{name: "escaped_backslash", input: `a\\n`, want: `a\n`},
		{name: "raw_newline", input: "a\nb", want: "a\nb"},
		{name: "unicode_escape", input: `caf\u00e9`, want: "café"},
		{name: "multibyte_literal", input: "café ✓", want: "café ✓"},
		{name: "hex_escape_raw_byte", input: `a\xffb`, want: "a\xffb"},
		{name: "invalid_utf8", input: "a\xffb", wantErr: true},
		{name: "trailing_backslash", input: `abc\`, wantErr: true},
		{name: "unknown_escape", input: `\q`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Unescape(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
