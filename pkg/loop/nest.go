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
package loop

import (
	"fmt"
	"strings"
)

// Nest is a sequence of loop levels, where index 0 holds the innermost loop.
// A nest is not modified by analysis and may be shared between analyses.
type Nest struct {
	Levels []Descriptor
}

// NewNest constructs a nest from its levels given innermost first, marking the
// outermost loop of each storage level as a storage boundary.
func NewNest(levels ...Descriptor) *Nest {
	nest := &Nest{Levels: levels}
	nest.MarkStorageBoundaries()
	//
	return nest
}

// MarkStorageBoundaries (re)computes the storage boundary flags from the
// storage level of each loop.
func (p *Nest) MarkStorageBoundaries() {
	for i := range p.Levels {
		last := i == len(p.Levels)-1
		p.Levels[i].StorageBoundary = last || p.Levels[i+1].StorageLevel != p.Levels[i].StorageLevel
	}
}

// Len returns the number of loop levels.
func (p *Nest) Len() int {
	return len(p.Levels)
}

// NumStorageLevels returns the number of storage levels spanned by this nest.
func (p *Nest) NumStorageLevels() int {
	if len(p.Levels) == 0 {
		return 0
	}
	//
	return p.Levels[len(p.Levels)-1].StorageLevel + 1
}

// StorageBoundaries returns the loop level index of the outermost loop of each
// storage level, innermost storage level first.
func (p *Nest) StorageBoundaries() []int {
	var boundaries []int
	//
	for i, l := range p.Levels {
		if l.StorageBoundary {
			boundaries = append(boundaries, i)
		}
	}
	//
	return boundaries
}

// Validate checks the structural well-formedness of this nest for a workload
// with a given number of dimensions.
func (p *Nest) Validate(numDims int) error {
	if len(p.Levels) == 0 {
		return fmt.Errorf("empty loop nest")
	}
	//
	for i, l := range p.Levels {
		var outer *Descriptor
		//
		if i+1 < len(p.Levels) {
			outer = &p.Levels[i+1]
		}
		//
		switch {
		case l.Dimension < 0 || l.Dimension >= numDims:
			return fmt.Errorf("level %d indexes unknown dimension %d", i, l.Dimension)
		case l.Bound <= 0:
			return fmt.Errorf("level %d has non-positive bound %d", i, l.Bound)
		case l.Spacetime > SpaceY:
			return fmt.Errorf("level %d has unknown spacetime %d", i, l.Spacetime)
		case i == 0 && l.StorageLevel != 0:
			return fmt.Errorf("innermost level belongs to storage level %d", l.StorageLevel)
		case outer != nil && outer.StorageLevel != l.StorageLevel && outer.StorageLevel != l.StorageLevel+1:
			return fmt.Errorf("level %d jumps from storage level %d to %d", i+1, l.StorageLevel, outer.StorageLevel)
		case l.StorageBoundary != (outer == nil || outer.StorageLevel != l.StorageLevel):
			return fmt.Errorf("level %d has inconsistent storage boundary flag", i)
		case !l.IsSpatial() && outer != nil && outer.IsSpatial() && outer.StorageLevel == l.StorageLevel:
			return fmt.Errorf("spatial level %d sits above temporal level %d within storage level %d", i+1, i,
				l.StorageLevel)
		}
	}
	//
	return nil
}

func (p *Nest) String() string {
	var builder strings.Builder
	//
	for i := len(p.Levels) - 1; i >= 0; i-- {
		l := p.Levels[i]
		builder.WriteString(strings.Repeat("  ", len(p.Levels)-1-i))
		builder.WriteString(l.String())
		//
		if l.StorageBoundary {
			builder.WriteString(" ------")
		}
		//
		builder.WriteString("\n")
	}
	//
	return builder.String()
}
