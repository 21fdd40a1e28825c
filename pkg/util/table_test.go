// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Table_00(t *testing.T) {
	var (
		out   strings.Builder
		table = NewTablePrinter(2)
	)
	//
	table.AddRow("level", "size")
	table.AddRow("0", "1024")
	table.Print(&out)
	//
	require.Equal(t, uint(2), table.Height())
	require.Equal(t, " level | size |\n     0 | 1024 |\n", out.String())
	require.Equal(t, uint(15), table.Width())
}

func Test_Table_01(t *testing.T) {
	var (
		out   strings.Builder
		table = NewTablePrinter(1)
	)
	//
	table.AddRow("accesses")
	table.SetMaxWidth(3)
	table.SetColour(func(col uint, row uint, text string) string {
		return "<" + text + ">"
	})
	table.Print(&out)
	//
	require.Equal(t, " <acc> |\n", out.String())
}

func Test_Table_02(t *testing.T) {
	require.Panics(t, func() {
		NewTablePrinter(2).AddRow("one")
	})
}
