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
	"fmt"
	"io"
	"strings"
)

// TablePrinter is useful for printing tables to the terminal.  Cells are laid
// out in columns wide enough for their contents, unless a maximum width is
// set, in which case longer cells are truncated.
type TablePrinter struct {
	widths []uint
	rows   [][]string
	// Colours a cell (after padding), or nil.
	colour func(col uint, row uint, text string) string
}

// NewTablePrinter constructs a new table with a given number of columns.  Rows
// are added as they are needed.
func NewTablePrinter(width uint) *TablePrinter {
	return &TablePrinter{widths: make([]uint, width)}
}

// Height returns the number of rows currently in this table.
func (p *TablePrinter) Height() uint {
	return uint(len(p.rows))
}

// AddRow appends a row to this table, which must have one value per column.
func (p *TablePrinter) AddRow(vals ...string) {
	if len(vals) != len(p.widths) {
		panic("incorrect number of columns")
	}
	// Update column widths
	for i, val := range vals {
		p.widths[i] = max(p.widths[i], uint(len(val)))
	}
	//
	p.rows = append(p.rows, vals)
}

// SetColour determines how cells are coloured when printed.
func (p *TablePrinter) SetColour(colour func(col uint, row uint, text string) string) {
	p.colour = colour
}

// SetMaxWidth puts an upper bound on the width of any column.
func (p *TablePrinter) SetMaxWidth(m uint) {
	for i := 0; i < len(p.widths); i++ {
		p.widths[i] = min(p.widths[i], m)
	}
}

// Width returns the number of characters in each printed line.
func (p *TablePrinter) Width() uint {
	width := uint(0)
	//
	for _, w := range p.widths {
		width += w + 3
	}
	//
	return width
}

// Print the table to a given writer.
func (p *TablePrinter) Print(out io.Writer) {
	var builder strings.Builder
	//
	for i, row := range p.rows {
		builder.Reset()
		//
		for j, col := range row {
			width := p.widths[j]
			//
			if uint(len(col)) > width {
				col = col[0:width]
			}
			//
			cell := fmt.Sprintf("%*s", width, col)
			//
			if p.colour != nil {
				cell = p.colour(uint(j), uint(i), cell)
			}
			//
			builder.WriteString(" ")
			builder.WriteString(cell)
			builder.WriteString(" |")
		}
		//
		fmt.Fprintln(out, builder.String())
	}
}
