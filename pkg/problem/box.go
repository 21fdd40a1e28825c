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
	"slices"
)

// Box is an axis-aligned region of a data space whose bounds are inclusive.  A
// box without any bounds is empty.  Boxes are used to approximate operation
// spaces, hence every operation here over-approximates: the result always
// encloses the exact set of points it stands for.
type Box struct {
	Low  []int
	High []int
}

// EmptyBox returns the empty box.
func EmptyBox() Box {
	return Box{}
}

// IsEmpty checks whether this box contains no points.
func (p Box) IsEmpty() bool {
	return len(p.Low) == 0
}

// Volume returns the number of points enclosed by this box.
func (p Box) Volume() uint64 {
	if p.IsEmpty() {
		return 0
	}
	//
	n := uint64(1)
	//
	for i := range p.Low {
		n *= uint64(p.High[i] - p.Low[i] + 1)
	}
	//
	return n
}

// Clone returns a copy of this box which does not alias it.
func (p Box) Clone() Box {
	if p.IsEmpty() {
		return Box{}
	}
	//
	return Box{slices.Clone(p.Low), slices.Clone(p.High)}
}

// Equal checks whether two boxes enclose exactly the same region.
func (p Box) Equal(other Box) bool {
	return slices.Equal(p.Low, other.Low) && slices.Equal(p.High, other.High)
}

// Contains checks whether a given point lies within this box.
func (p Box) Contains(coords []int) bool {
	if p.IsEmpty() {
		return false
	}
	//
	for i, c := range coords {
		if c < p.Low[i] || c > p.High[i] {
			return false
		}
	}
	//
	return true
}

// Encloses checks whether another box lies completely within this box.
func (p Box) Encloses(other Box) bool {
	if other.IsEmpty() {
		return true
	}
	//
	return p.Contains(other.Low) && p.Contains(other.High)
}

// Hull returns the smallest box enclosing both boxes.
func (p Box) Hull(other Box) Box {
	if p.IsEmpty() {
		return other.Clone()
	} else if other.IsEmpty() {
		return p.Clone()
	}
	//
	r := p.Clone()
	//
	for i := range r.Low {
		r.Low[i] = min(r.Low[i], other.Low[i])
		r.High[i] = max(r.High[i], other.High[i])
	}
	//
	return r
}

// Intersect returns the region common to both boxes.
func (p Box) Intersect(other Box) Box {
	if p.IsEmpty() || other.IsEmpty() {
		return Box{}
	}
	//
	r := p.Clone()
	//
	for i := range r.Low {
		r.Low[i] = max(r.Low[i], other.Low[i])
		r.High[i] = min(r.High[i], other.High[i])
		//
		if r.Low[i] > r.High[i] {
			return Box{}
		}
	}
	//
	return r
}

// Difference returns a box enclosing all points of this box which are not in
// the other.  The result is exact when the two boxes differ along at most one
// dimension and the remainder is a single slab; otherwise this box is returned
// unchanged.
func (p Box) Difference(other Box) Box {
	if p.IsEmpty() || other.Encloses(p) {
		return Box{}
	} else if other.IsEmpty() {
		return p.Clone()
	}
	//
	dim := -1
	//
	for i := range p.Low {
		if p.Low[i] >= other.Low[i] && p.High[i] <= other.High[i] {
			continue
		} else if dim != -1 || p.High[i] < other.Low[i] || p.Low[i] > other.High[i] {
			// Either disjoint, or differs in more than one dimension.
			return p.Clone()
		}
		//
		dim = i
	}
	//
	r := p.Clone()
	//
	switch {
	case p.Low[dim] < other.Low[dim] && p.High[dim] > other.High[dim]:
		// Remainder on both sides
		return r
	case p.Low[dim] < other.Low[dim]:
		r.High[dim] = other.Low[dim] - 1
	default:
		r.Low[dim] = other.High[dim] + 1
	}
	//
	return r
}

// Iter enumerates every point of this box in row-major order.  The same
// coordinate buffer is passed to each call of fn, and iteration stops early
// if fn returns false.
func (p Box) Iter(fn func([]int) bool) {
	if p.IsEmpty() {
		return
	}
	//
	coords := slices.Clone(p.Low)
	//
	for {
		if !fn(coords) {
			return
		}
		// Advance odometer
		i := len(coords) - 1
		for ; i >= 0; i-- {
			if coords[i] < p.High[i] {
				coords[i]++
				break
			}
			//
			coords[i] = p.Low[i]
		}
		//
		if i < 0 {
			return
		}
	}
}

func (p Box) String() string {
	if p.IsEmpty() {
		return "[]"
	}
	//
	return fmt.Sprintf("[%v..%v]", p.Low, p.High)
}
