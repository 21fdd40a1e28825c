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
)

// Workload binds a shape to concrete dimension bounds.  A workload is treated
// as read-only once constructed, and can therefore be shared between any
// number of concurrent analyses.
type Workload struct {
	shape  *Shape
	bounds []int
	layout *Layout
}

// NewWorkload constructs a workload for a given shape, where bounds gives the
// number of iterations of each dimension.
func NewWorkload(shape *Shape, bounds []int) (*Workload, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	} else if len(bounds) != shape.NumDimensions() {
		return nil, fmt.Errorf("workload %q has %d bounds for %d dimensions", shape.Name, len(bounds),
			shape.NumDimensions())
	}
	//
	for i, b := range bounds {
		if b <= 0 {
			return nil, fmt.Errorf("dimension %s has non-positive bound %d", shape.Dimensions[i], b)
		}
	}
	//
	w := &Workload{shape: shape, bounds: append([]int(nil), bounds...)}
	w.layout = newLayout(w)
	//
	return w, nil
}

// Shape returns the shape of this workload.
func (p *Workload) Shape() *Shape {
	return p.shape
}

// Bound returns the number of iterations of a given dimension.
func (p *Workload) Bound(dim int) int {
	return p.bounds[dim]
}

// Bounds returns the bounds of all dimensions.  The returned slice must not be
// modified.
func (p *Workload) Bounds() []int {
	return p.bounds
}

// NumDimensions returns the number of iteration space dimensions.
func (p *Workload) NumDimensions() int {
	return len(p.bounds)
}

// NumDataSpaces returns the number of data spaces.
func (p *Workload) NumDataSpaces() int {
	return p.shape.NumDataSpaces()
}

// Layout returns the linearisation used for points of each data space.
func (p *Workload) Layout() *Layout {
	return p.layout
}

// Operations returns the total number of points in the iteration space.
func (p *Workload) Operations() uint64 {
	n := uint64(1)
	//
	for _, b := range p.bounds {
		n *= uint64(b)
	}
	//
	return n
}

// Contains checks whether a given iteration point lies within the declared
// bounds of this workload.
func (p *Workload) Contains(point Point) bool {
	for i, v := range point {
		if v < 0 || v >= p.bounds[i] {
			return false
		}
	}
	//
	return true
}

// Project computes the coordinates of a point within a given data space,
// writing them into coords (which must have the rank of that data space).
func (p *Workload) Project(point Point, ds int, coords []int) {
	for j, expr := range p.shape.DataSpaces[ds].Projection {
		coords[j] = expr.Eval(point)
	}
}

// ProjectBox computes the smallest data space box enclosing the image of the
// (inclusive) iteration space box [low, high].  Since coefficients are
// non-negative, the image of each corner is exact.
func (p *Workload) ProjectBox(low Point, high Point, ds int) Box {
	rank := p.shape.DataSpaces[ds].Rank()
	box := Box{make([]int, rank), make([]int, rank)}
	//
	p.Project(low, ds, box.Low)
	p.Project(high, ds, box.High)
	//
	return box
}

// ============================================================================
// Layout
// ============================================================================

// Layout records the extent of each data space, and provides a row-major
// linearisation of data space coordinates into dense identifiers.  Fields are
// exported so that operation spaces holding a layout can be serialised.
type Layout struct {
	// Extents holds, for each data space, one more than the largest reachable
	// coordinate in each of its dimensions.
	Extents [][]int
}

func newLayout(w *Workload) *Layout {
	var (
		shape   = w.shape
		extents = make([][]int, shape.NumDataSpaces())
		high    = make(Point, len(w.bounds))
	)
	//
	for i, b := range w.bounds {
		high[i] = b - 1
	}
	//
	for ds := range shape.DataSpaces {
		extents[ds] = make([]int, shape.DataSpaces[ds].Rank())
		w.Project(high, ds, extents[ds])
		//
		for j := range extents[ds] {
			extents[ds][j]++
		}
	}
	//
	return &Layout{extents}
}

// NumDataSpaces returns the number of data spaces covered by this layout.
func (p *Layout) NumDataSpaces() int {
	return len(p.Extents)
}

// Rank returns the number of dimensions of a given data space.
func (p *Layout) Rank(ds int) int {
	return len(p.Extents[ds])
}

// Size returns the total number of points in a given data space.
func (p *Layout) Size(ds int) uint64 {
	n := uint64(1)
	//
	for _, e := range p.Extents[ds] {
		n *= uint64(e)
	}
	//
	return n
}

// Linearize maps the coordinates of a data space point to its identifier.
func (p *Layout) Linearize(ds int, coords []int) uint {
	var (
		extents = p.Extents[ds]
		id      = uint(0)
	)
	//
	for j, c := range coords {
		id = id*uint(extents[j]) + uint(c)
	}
	//
	return id
}

// Delinearize maps an identifier back to the coordinates of a data space
// point, writing them into coords.
func (p *Layout) Delinearize(ds int, id uint, coords []int) {
	extents := p.Extents[ds]
	//
	for j := len(extents) - 1; j >= 0; j-- {
		e := uint(extents[j])
		coords[j] = int(id % e)
		id = id / e
	}
}
