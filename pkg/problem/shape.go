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
package problem

import (
	"fmt"
	"strings"
)

// Term is a single scaled iteration dimension within a projection expression.
// For example, the term 2*P contributes twice the value of dimension P.
type Term struct {
	Dimension   int
	Coefficient int
}

// Expression is an affine sum of terms which computes one coordinate of a data
// space from a point in the iteration space.
type Expression []Term

// Eval evaluates this expression at a given iteration-space point.
func (e Expression) Eval(point Point) int {
	sum := 0
	//
	for _, t := range e {
		sum += t.Coefficient * point[t.Dimension]
	}
	//
	return sum
}

// DataSpace describes one named operand (e.g. a tensor) of the workload,
// together with the projection from iteration space into its own coordinate
// space.
type DataSpace struct {
	Name string
	// ReadWrite indicates data which is updated in place (e.g. partial sums).
	ReadWrite bool
	// Projection holds one expression per data space dimension.
	Projection []Expression
}

// Rank returns the number of dimensions of this data space.
func (p *DataSpace) Rank() int {
	return len(p.Projection)
}

// Shape defines the iteration space dimensions of a workload and the data
// spaces it touches.  A shape has no bounds; these are supplied by a Workload.
type Shape struct {
	Name       string
	Dimensions []string
	DataSpaces []DataSpace
}

// NumDimensions returns the number of iteration space dimensions.
func (p *Shape) NumDimensions() int {
	return len(p.Dimensions)
}

// NumDataSpaces returns the number of data spaces.
func (p *Shape) NumDataSpaces() int {
	return len(p.DataSpaces)
}

// DimensionIndex looks up an iteration dimension by name.
func (p *Shape) DimensionIndex(name string) (int, bool) {
	for i, d := range p.Dimensions {
		if d == name {
			return i, true
		}
	}
	//
	return 0, false
}

// DataSpaceIndex looks up a data space by name.
func (p *Shape) DataSpaceIndex(name string) (int, bool) {
	for i, ds := range p.DataSpaces {
		if ds.Name == name {
			return i, true
		}
	}
	//
	return 0, false
}

// Validate checks that every projection refers to a known dimension using a
// non-negative coefficient.
func (p *Shape) Validate() error {
	if len(p.Dimensions) == 0 {
		return fmt.Errorf("shape %q has no dimensions", p.Name)
	} else if len(p.DataSpaces) == 0 {
		return fmt.Errorf("shape %q has no data spaces", p.Name)
	}
	//
	for _, ds := range p.DataSpaces {
		if ds.Rank() == 0 {
			return fmt.Errorf("data space %q has no projection", ds.Name)
		}
		//
		for _, expr := range ds.Projection {
			for _, t := range expr {
				if t.Dimension < 0 || t.Dimension >= len(p.Dimensions) {
					return fmt.Errorf("data space %q projects unknown dimension %d", ds.Name, t.Dimension)
				} else if t.Coefficient < 0 {
					return fmt.Errorf("data space %q has negative coefficient for %s", ds.Name,
						p.Dimensions[t.Dimension])
				}
			}
		}
	}
	//
	return nil
}

// ExpressionString renders a projection expression using dimension names.
func (p *Shape) ExpressionString(e Expression) string {
	var builder strings.Builder
	//
	for i, t := range e {
		if i != 0 {
			builder.WriteString("+")
		}
		//
		if t.Coefficient != 1 {
			builder.WriteString(fmt.Sprintf("%d*", t.Coefficient))
		}
		//
		builder.WriteString(p.Dimensions[t.Dimension])
	}
	//
	return builder.String()
}
