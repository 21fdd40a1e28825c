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
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/consensys/go-loopnest/pkg/problem"
	"github.com/consensys/go-loopnest/pkg/tiling"
	"github.com/consensys/go-loopnest/pkg/util"
	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var tileColumns = []string{"level", "size", "accesses", "fills", "mcast", "scatter", "fanout", "replication",
	"links", "hops"}

// reporter prints analysis results, colouring them only when writing to a
// terminal.
type reporter struct {
	out    io.Writer
	colour aurora.Aurora
	// Maximum column width, or 0 for unbounded.
	maxWidth uint
}

func newReporter(cmd *cobra.Command) *reporter {
	var (
		fd       = int(os.Stdout.Fd())
		tty      = term.IsTerminal(fd)
		maxWidth = uint(0)
	)
	//
	if tty {
		if width, _, err := term.GetSize(fd); err == nil && width > 0 {
			// Share the terminal between all columns.
			maxWidth = uint(max(width/len(tileColumns)-3, 5))
		}
	}
	//
	return &reporter{os.Stdout, aurora.NewAurora(tty && !GetFlag(cmd, "no-colour")), maxWidth}
}

// Print the tiles of every data space, followed by the compute body.  Names
// are optional, since they are not retained by serialised analyses.
func (p *reporter) printTileNest(names []string, nest *tiling.CompoundTileNest) {
	for ds, tiles := range nest.DataMovement {
		name := fmt.Sprintf("#%d", ds)
		//
		if ds < len(names) {
			name = names[ds]
		}
		//
		fmt.Fprintf(p.out, "%s %s\n", p.colour.Bold("data space"), p.colour.Bold(p.colour.Cyan(name)))
		p.printTiles(tiles)
		fmt.Fprintln(p.out)
	}
	//
	p.printBody(names, &nest.Compute)
}

func (p *reporter) printTiles(tiles []tiling.TileInfo) {
	table := util.NewTablePrinter(uint(len(tileColumns)))
	table.AddRow(tileColumns...)
	//
	for i := range tiles {
		tile := &tiles[i]
		table.AddRow(
			fmt.Sprintf("L%d", tile.StorageLevel),
			fmt.Sprintf("%d", tile.Size),
			fmt.Sprintf("%d", tile.TotalAccesses()),
			fmt.Sprintf("%d", tile.Fills),
			fmt.Sprintf("%.2f", tile.MulticastFactor()),
			fmt.Sprintf("%d", tile.ScatterFactor),
			fmt.Sprintf("%d", tile.Fanout),
			fmt.Sprintf("%d", tile.Replication),
			fmt.Sprintf("%d", tile.LinkTransfers),
			fmt.Sprintf("%.1f", tile.CumulativeHops))
	}
	//
	if p.maxWidth != 0 {
		table.SetMaxWidth(p.maxWidth)
	}
	//
	table.SetColour(func(col uint, row uint, text string) string {
		switch {
		case row == 0:
			return p.colour.Bold(text).String()
		case col == 0:
			return p.colour.Yellow(text).String()
		case col == 2 && row == 1:
			// outermost reads
			return p.colour.Red(text).String()
		default:
			return text
		}
	})
	//
	table.Print(p.out)
}

func (p *reporter) printBody(names []string, body *tiling.BodyInfo) {
	var accesses []string
	//
	for ds, n := range body.Accesses {
		name := fmt.Sprintf("#%d", ds)
		//
		if ds < len(names) {
			name = names[ds]
		}
		//
		accesses = append(accesses, fmt.Sprintf("%s=%d", name, n))
	}
	//
	fmt.Fprintf(p.out, "%s %d operations on %d units (%s)\n", p.colour.Bold("body"),
		p.colour.Green(body.Operations), body.ReplicationFactor, strings.Join(accesses, ", "))
}

// Print the largest working set of every loop level, outermost first.
func (p *reporter) printSizes(names []string, sizes []problem.PerDataSpace[uint64]) {
	header := []string{"loop"}
	//
	for ds := range names {
		header = append(header, names[ds])
	}
	//
	table := util.NewTablePrinter(uint(len(header)))
	table.AddRow(header...)
	//
	for level := len(sizes) - 1; level >= 0; level-- {
		row := []string{fmt.Sprintf("%d", level)}
		//
		for ds := range names {
			row = append(row, fmt.Sprintf("%d", sizes[level][ds]))
		}
		//
		table.AddRow(row...)
	}
	//
	table.SetColour(func(col uint, row uint, text string) string {
		if row == 0 {
			return p.colour.Bold(text).String()
		}
		//
		return text
	})
	//
	table.Print(p.out)
}

// Print the size of an operation space for each data space.
func (p *reporter) printOperationSpace(names []string, space *problem.OperationSpace) {
	for ds, name := range names {
		fmt.Fprintf(p.out, "%s: %d points", p.colour.Cyan(name), space.Size(ds))
		//
		if !space.IsEmpty(ds) {
			box := space.BoundingBox(ds)
			fmt.Fprintf(p.out, " within %s", box.String())
		}
		//
		fmt.Fprintln(p.out)
	}
}

// Names of the data spaces of a workload.
func dataSpaceNames(workload *problem.Workload) []string {
	var names []string
	//
	for _, ds := range workload.Shape().DataSpaces {
		names = append(names, ds.Name)
	}
	//
	return names
}
