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

package log

import (
	"fmt"

	"github.com/pterm/pterm"
	"gitlab.com/tozd/go/errors"
)

// 📋 Table renders rows under header as a table on the console
func (l *Logger) Table(header []string, rows [][]string) error {
	data := make(pterm.TableData, 0, len(rows)+1)
	data = append(data, header)
	data = append(data, rows...)

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Errorf("rendering table: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console, out)
	l.zlog.Debug().Int("rows", len(rows)).Msg("rendered table")
	return nil
}
