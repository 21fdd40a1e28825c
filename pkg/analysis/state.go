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
package analysis

import (
	"github.com/consensys/go-loopnest/pkg/loop"
	"github.com/consensys/go-loopnest/pkg/problem"
)

// ElementState accumulates the statistics of one spatial element at one loop
// level over the course of a traversal.
type ElementState struct {
	// LastPointSet is the operation space touched by the previous invocation
	// of this level, against which the next delta is computed.
	LastPointSet problem.OperationSpace
	// MaxSize is the largest operation space seen, per data space.
	MaxSize []uint64
	// Fills sums the deltas of every invocation, per data space.
	Fills []uint64
	// Accesses is indexed by data space, then by multicast factor.
	Accesses [][]uint64
	// ScatterFactor is the largest number of consumers reached by a single
	// spatial evaluation, per data space.
	ScatterFactor []uint64
	// CumulativeHops sums network hops, per data space.
	CumulativeHops []float64
	// LinkTransfers sums neighbour-to-neighbour transfers, per data space.
	LinkTransfers []uint64
	// PrevSpatialSets holds, for linked levels, the operation space of each
	// element of the fan-out from the previous spatial evaluation.
	PrevSpatialSets []problem.OperationSpace
}

func newElementState(layout *problem.Layout, rep problem.Representation, fanout uint64) ElementState {
	n := layout.NumDataSpaces()
	state := ElementState{
		LastPointSet:   problem.NewOperationSpace(layout, rep),
		MaxSize:        make([]uint64, n),
		Fills:          make([]uint64, n),
		Accesses:       make([][]uint64, n),
		ScatterFactor:  make([]uint64, n),
		CumulativeHops: make([]float64, n),
		LinkTransfers:  make([]uint64, n),
	}
	//
	for ds := range state.Accesses {
		state.Accesses[ds] = make([]uint64, fanout+1)
	}
	//
	return state
}

// LoopState is the live cursor of one loop level during a traversal.
type LoopState struct {
	Level      int
	Descriptor loop.Descriptor
	// Index is the current value of this loop's index.
	Index int
	// Iterations counts the iterations of this loop completed so far (over
	// all invocations and all spatial elements).
	Iterations uint64
	// LiveState holds one entry per spatial element replicating this level.
	LiveState []ElementState
}
