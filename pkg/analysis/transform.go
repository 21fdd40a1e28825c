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
	"slices"

	"github.com/consensys/go-loopnest/pkg/problem"
)

// Move the index of a given level, updating the current problem point by the
// difference.  Since every step is an exact integer offset, any sequence of
// moves leaves the point equal to its direct evaluation.
func (p *NestAnalysis) setIndex(level int, idx int) {
	var (
		state = &p.nestState[level]
		dim   = state.Descriptor.Dimension
	)
	//
	p.curTransform[dim] += (idx - state.Index) * p.perLevelDimScales[level][dim]
	state.Index = idx
}

// Reset the indices of a level and every level inner to it.
func (p *NestAnalysis) resetIndices(level int) {
	for l := level; l >= 0; l-- {
		p.setIndex(l, 0)
	}
}

// SetIndices moves the loop indices of every level (innermost first), updating
// the current problem point incrementally.
func (p *NestAnalysis) SetIndices(indices []int) error {
	if !p.initialised {
		return newError(AnalysisNotReady, "SetIndices", "Init has not been called")
	} else if err := p.checkIndices("SetIndices", indices); err != nil {
		return err
	}
	//
	for level, idx := range indices {
		p.setIndex(level, idx)
	}
	//
	return nil
}

// CurrentIndices returns the loop index of every level, innermost first.
func (p *NestAnalysis) CurrentIndices() []int {
	indices := make([]int, len(p.nestState))
	//
	for i := range p.nestState {
		indices[i] = p.nestState[i].Index
	}
	//
	return indices
}

// CurrentPoint returns the problem point at the current loop indices.
func (p *NestAnalysis) CurrentPoint() problem.Point {
	return slices.Clone(p.curTransform)
}

// IndexToProblemPoint evaluates the index transform directly for a given
// vector of loop indices (innermost first).  This does not modify the current
// point.
func (p *NestAnalysis) IndexToProblemPoint(indices []int) (problem.Point, error) {
	if !p.initialised {
		return nil, newError(AnalysisNotReady, "IndexToProblemPoint", "Init has not been called")
	} else if err := p.checkIndices("IndexToProblemPoint", indices); err != nil {
		return nil, err
	}
	//
	point := problem.NewPoint(p.workload.NumDimensions())
	//
	for level, idx := range indices {
		dim := p.nestState[level].Descriptor.Dimension
		point[dim] += idx * p.perLevelDimScales[level][dim]
	}
	//
	if !p.workload.Contains(point) {
		return nil, newError(OutOfRange, "IndexToProblemPoint", "point %s outside workload bounds", point)
	}
	//
	return point, nil
}

func (p *NestAnalysis) checkIndices(op string, indices []int) error {
	if len(indices) != len(p.nestState) {
		return invalidNest(op, "%d indices given for %d levels", len(indices), len(p.nestState))
	}
	//
	for level, idx := range indices {
		if bound := p.nestState[level].Descriptor.Bound; idx < 0 || idx >= bound {
			return newError(OutOfRange, op, "index %d of level %d outside [0:%d)", idx, level, bound)
		}
	}
	//
	return nil
}

// Project the mold of a level, anchored at the current point, into every data
// space of a bounding-box operation space.
func (p *NestAnalysis) insertMold(level int, pointSet *problem.OperationSpace) {
	var (
		low  = p.curTransform
		high = p.highScratch
		mold = p.moldHigh[level]
	)
	//
	for d := range high {
		high[d] = low[d] + p.moldLow[level][d] + mold[d]
	}
	//
	for ds := range p.coords {
		pointSet.InsertBox(ds, p.workload.ProjectBox(low, high, ds))
	}
}
