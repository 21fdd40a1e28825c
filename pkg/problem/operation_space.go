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

	"github.com/bits-and-blooms/bitset"
)

// Representation determines how an operation space stores its points.
type Representation uint8

const (
	// Exact representation records every point in a bitset over the
	// linearised identifiers of each data space.
	Exact Representation = iota
	// BoundingBox representation records only an enclosing box per data
	// space.  This is cheaper, but over-approximates.
	BoundingBox
)

func (r Representation) String() string {
	switch r {
	case Exact:
		return "exact"
	case BoundingBox:
		return "bounding-box"
	default:
		return fmt.Sprintf("representation(%d)", r)
	}
}

// OperationSpace is the set of data space points, for every data space of a
// workload, touched by some sub-computation.  Fields are exported only to
// permit serialisation.
type OperationSpace struct {
	Mode   Representation
	Layout *Layout
	// Sets holds one bitset per data space in exact mode.
	Sets []*bitset.BitSet
	// Boxes holds one box per data space in bounding-box mode.
	Boxes []Box
}

// NewOperationSpace constructs an empty operation space for the given layout.
func NewOperationSpace(layout *Layout, mode Representation) OperationSpace {
	space := OperationSpace{Mode: mode, Layout: layout}
	n := layout.NumDataSpaces()
	//
	if mode == Exact {
		space.Sets = make([]*bitset.BitSet, n)
		for i := range space.Sets {
			space.Sets[i] = bitset.New(0)
		}
	} else {
		space.Boxes = make([]Box, n)
	}
	//
	return space
}

// NumDataSpaces returns the number of data spaces in this operation space.
func (p *OperationSpace) NumDataSpaces() int {
	return p.Layout.NumDataSpaces()
}

// Insert adds a single data space point, given by its coordinates.
func (p *OperationSpace) Insert(ds int, coords []int) {
	if p.Mode == Exact {
		p.Sets[ds].Set(p.Layout.Linearize(ds, coords))
		return
	}
	//
	if p.Boxes[ds].IsEmpty() {
		p.Boxes[ds] = Box{append([]int(nil), coords...), append([]int(nil), coords...)}
		return
	}
	//
	box := &p.Boxes[ds]
	//
	for i, c := range coords {
		box.Low[i] = min(box.Low[i], c)
		box.High[i] = max(box.High[i], c)
	}
}

// InsertBox adds every point of a given box to a data space.
func (p *OperationSpace) InsertBox(ds int, box Box) {
	if p.Mode == BoundingBox {
		p.Boxes[ds] = p.Boxes[ds].Hull(box)
		return
	}
	//
	box.Iter(func(coords []int) bool {
		p.Sets[ds].Set(p.Layout.Linearize(ds, coords))
		return true
	})
}

// Remove deletes a single point (by identifier) from an exact data space.
// This has no effect on a bounding box, since a box with a hole cannot be
// represented.
func (p *OperationSpace) Remove(ds int, id uint) {
	if p.Mode == Exact {
		p.Sets[ds].Clear(id)
	}
}

// Contains checks whether a point (by identifier) is within a data space.
func (p *OperationSpace) Contains(ds int, id uint) bool {
	if p.Mode == Exact {
		return p.Sets[ds].Test(id)
	}
	//
	coords := make([]int, p.Layout.Rank(ds))
	p.Layout.Delinearize(ds, id, coords)
	//
	return p.Boxes[ds].Contains(coords)
}

// Size returns the number of points in a given data space.
func (p *OperationSpace) Size(ds int) uint64 {
	if p.Mode == Exact {
		return uint64(p.Sets[ds].Count())
	}
	//
	return p.Boxes[ds].Volume()
}

// Sizes returns the number of points in each data space.
func (p *OperationSpace) Sizes() PerDataSpace[uint64] {
	sizes := NewPerDataSpace[uint64](p.NumDataSpaces())
	//
	for ds := range sizes {
		sizes[ds] = p.Size(ds)
	}
	//
	return sizes
}

// IsEmpty checks whether a data space has no points.
func (p *OperationSpace) IsEmpty(ds int) bool {
	if p.Mode == Exact {
		return p.Sets[ds].None()
	}
	//
	return p.Boxes[ds].IsEmpty()
}

// BoundingBox returns the smallest box enclosing all points of a data space.
func (p *OperationSpace) BoundingBox(ds int) Box {
	if p.Mode == BoundingBox {
		return p.Boxes[ds].Clone()
	}
	//
	var (
		box    Box
		coords = make([]int, p.Layout.Rank(ds))
		set    = p.Sets[ds]
	)
	//
	for id, ok := set.NextSet(0); ok; id, ok = set.NextSet(id + 1) {
		p.Layout.Delinearize(ds, id, coords)
		//
		if box.IsEmpty() {
			box = Box{append([]int(nil), coords...), append([]int(nil), coords...)}
		} else {
			for i, c := range coords {
				box.Low[i] = min(box.Low[i], c)
				box.High[i] = max(box.High[i], c)
			}
		}
	}
	//
	return box
}

// Points enumerates the identifier of every point in a data space.
// Enumeration stops early if fn returns false.
func (p *OperationSpace) Points(ds int, fn func(uint) bool) {
	if p.Mode == Exact {
		set := p.Sets[ds]
		//
		for id, ok := set.NextSet(0); ok; id, ok = set.NextSet(id + 1) {
			if !fn(id) {
				return
			}
		}
		//
		return
	}
	//
	p.Boxes[ds].Iter(func(coords []int) bool {
		return fn(p.Layout.Linearize(ds, coords))
	})
}

// Union adds every point of another operation space into this one.  Both must
// share the same representation.
func (p *OperationSpace) Union(other *OperationSpace) {
	for ds := range p.Layout.Extents {
		if p.Mode == Exact {
			p.Sets[ds].InPlaceUnion(other.Sets[ds])
		} else {
			p.Boxes[ds] = p.Boxes[ds].Hull(other.Boxes[ds])
		}
	}
}

// Difference returns the points of this operation space which are not in the
// other (i.e. the delta of this space relative to the other).
func (p *OperationSpace) Difference(other *OperationSpace) OperationSpace {
	r := OperationSpace{Mode: p.Mode, Layout: p.Layout}
	//
	if p.Mode == Exact {
		r.Sets = make([]*bitset.BitSet, len(p.Sets))
		for ds := range p.Sets {
			r.Sets[ds] = p.Sets[ds].Difference(other.Sets[ds])
		}
	} else {
		r.Boxes = make([]Box, len(p.Boxes))
		for ds := range p.Boxes {
			r.Boxes[ds] = p.Boxes[ds].Difference(other.Boxes[ds])
		}
	}
	//
	return r
}

// IntersectionSize returns the number of points of a data space which are
// common to both operation spaces.
func (p *OperationSpace) IntersectionSize(other *OperationSpace, ds int) uint64 {
	if p.Mode == Exact && other.Mode == Exact {
		return uint64(p.Sets[ds].IntersectionCardinality(other.Sets[ds]))
	}
	//
	return p.BoundingBox(ds).Intersect(other.BoundingBox(ds)).Volume()
}

// Equal checks whether a data space holds exactly the same points in both
// operation spaces.
func (p *OperationSpace) Equal(other *OperationSpace, ds int) bool {
	if p.Mode == Exact && other.Mode == Exact {
		return p.Sets[ds].SymmetricDifferenceCardinality(other.Sets[ds]) == 0
	} else if p.Mode == BoundingBox && other.Mode == BoundingBox {
		return p.Boxes[ds].Equal(other.Boxes[ds])
	}
	// Mixed representations are compared by materialising the box.
	lhs, rhs := p.Exact(), other.Exact()
	//
	return lhs.Equal(&rhs, ds)
}

// Clone returns a deep copy of this operation space.
func (p *OperationSpace) Clone() OperationSpace {
	r := OperationSpace{Mode: p.Mode, Layout: p.Layout}
	//
	if p.Mode == Exact {
		r.Sets = make([]*bitset.BitSet, len(p.Sets))
		for ds := range p.Sets {
			r.Sets[ds] = p.Sets[ds].Clone()
		}
	} else {
		r.Boxes = make([]Box, len(p.Boxes))
		for ds := range p.Boxes {
			r.Boxes[ds] = p.Boxes[ds].Clone()
		}
	}
	//
	return r
}

// Exact returns an exact copy of this operation space, enumerating the points
// of any bounding boxes.
func (p *OperationSpace) Exact() OperationSpace {
	if p.Mode == Exact {
		return p.Clone()
	}
	//
	r := NewOperationSpace(p.Layout, Exact)
	//
	for ds, box := range p.Boxes {
		r.InsertBox(ds, box)
	}
	//
	return r
}

// Reset removes all points from this operation space, retaining any
// allocated storage.
func (p *OperationSpace) Reset() {
	for ds := range p.Sets {
		p.Sets[ds].ClearAll()
	}
	//
	for ds := range p.Boxes {
		p.Boxes[ds] = Box{}
	}
}

func (p *OperationSpace) String() string {
	var builder strings.Builder
	//
	builder.WriteString("{")
	//
	for ds := 0; ds < p.NumDataSpaces(); ds++ {
		if ds != 0 {
			builder.WriteString("; ")
		}
		//
		if p.Mode == Exact {
			builder.WriteString(p.Sets[ds].String())
		} else {
			builder.WriteString(p.Boxes[ds].String())
		}
	}
	//
	builder.WriteString("}")
	//
	return builder.String()
}
