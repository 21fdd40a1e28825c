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

import "fmt"

// Spacetime identifies whether a loop executes in time, or is unrolled in space
// along one axis of a two-dimensional array of elements.
type Spacetime uint8

const (
	// Time is a temporal loop whose iterations run one after another.
	Time Spacetime = iota
	// SpaceX is a spatial loop replicated along the horizontal axis.
	SpaceX
	// SpaceY is a spatial loop replicated along the vertical axis.
	SpaceY
)

func (s Spacetime) String() string {
	switch s {
	case Time:
		return "time"
	case SpaceX:
		return "space-x"
	case SpaceY:
		return "space-y"
	default:
		return fmt.Sprintf("spacetime(%d)", s)
	}
}

// Descriptor describes a single level of a loop nest.
type Descriptor struct {
	// Dimension is the iteration dimension indexed by this loop.
	Dimension int
	// Bound is the number of iterations of this loop.
	Bound int
	// Spacetime determines whether this loop is temporal or spatial.
	Spacetime Spacetime
	// StorageLevel identifies the storage level this loop is tiled for.
	StorageLevel int
	// StorageBoundary marks the outermost loop of a storage level.
	StorageBoundary bool
	// MasterSpatial marks the transition from temporal to spatial loops.
	// This is derived during analysis, and need only be set by callers which
	// want it checked.
	MasterSpatial bool
	// LinkedSpatial marks a master spatial loop whose elements are connected
	// by on-chip links.
	LinkedSpatial bool
}

// IsSpatial checks whether this loop is unrolled in space.
func (p *Descriptor) IsSpatial() bool {
	return p.Spacetime != Time
}

func (p Descriptor) String() string {
	kind := "for"
	//
	if p.IsSpatial() {
		kind = "spatial_for"
	}
	//
	return fmt.Sprintf("%s d%d in [0:%d) %s @L%d", kind, p.Dimension, p.Bound, p.Spacetime, p.StorageLevel)
}
