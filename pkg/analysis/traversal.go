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

// Compute the operation space of a given level at the current indices, along
// with its delta against the previous invocation of the same spatial element.
// When skipDelta holds, no accumulated statistic is modified and the returned
// delta is empty.
func (p *NestAnalysis) computeWorkingSetsRecursive(level int, skipDelta bool) (problem.OperationSpace,
	problem.OperationSpace, error) {
	var (
		pointSet problem.OperationSpace
		err      error
	)
	//
	switch {
	case p.masterSpatialLevel[level]:
		pointSet, err = p.computeSpatialWorkingSet(level, skipDelta)
	case p.nestState[level].Descriptor.IsSpatial():
		return pointSet, pointSet, invalidNest("ComputeWorkingSets", "level %d entered outside its spatial run", level)
	default:
		pointSet, err = p.computeTemporalWorkingSet(level, skipDelta)
	}
	//
	if err != nil || skipDelta {
		return pointSet, problem.OperationSpace{}, err
	}
	//
	var (
		elem  = &p.nestState[level].LiveState[p.spatialID]
		delta = pointSet.Difference(&elem.LastPointSet)
	)
	//
	for ds := range elem.MaxSize {
		elem.MaxSize[ds] = max(elem.MaxSize[ds], pointSet.Size(ds))
		elem.Fills[ds] += delta.Size(ds)
	}
	// The returned sets are never modified hereafter.
	elem.LastPointSet = pointSet
	//
	return pointSet, delta, nil
}

// Iterate a temporal level over its full bound, accumulating the union of its
// children.  With a bounding-box representation the union is given directly
// by the level's mold.
func (p *NestAnalysis) computeTemporalWorkingSet(level int, skipDelta bool) (problem.OperationSpace, error) {
	var (
		state    = &p.nestState[level]
		bound    = state.Descriptor.Bound
		elem     = &state.LiveState[p.spatialID]
		pointSet = problem.NewOperationSpace(p.workload.Layout(), p.config.Representation)
		molded   = p.config.Representation == problem.BoundingBox && level > 0
	)
	//
	if molded {
		p.insertMold(level, &pointSet)
	}
	//
	for idx := 0; idx < bound; idx++ {
		p.setIndex(level, idx)
		//
		if level == 0 {
			if err := p.evaluateBody(&pointSet); err != nil {
				return pointSet, err
			}
			//
			continue
		}
		//
		childSet, childDelta, err := p.computeWorkingSetsRecursive(level-1, skipDelta)
		//
		if err != nil {
			return pointSet, err
		} else if !molded {
			pointSet.Union(&childSet)
		}
		//
		if !skipDelta {
			for ds := range elem.Accesses {
				elem.Accesses[ds][1] += childDelta.Size(ds)
			}
		}
	}
	//
	p.setIndex(level, 0)
	//
	if !skipDelta {
		state.Iterations += uint64(bound)
		//
		if level == 0 {
			p.bodyInfo.Operations += uint64(bound)
			//
			for ds := range elem.Accesses {
				p.bodyInfo.Accesses[ds] += uint64(bound)
				elem.Accesses[ds][1] += uint64(bound)
			}
		}
	}
	//
	return pointSet, nil
}

// Evaluate every element of the spatial run mastered by a given level, then
// attribute the resulting deltas to parent accesses, multicasts and link
// transfers.
func (p *NestAnalysis) computeSpatialWorkingSet(level int, skipDelta bool) (problem.OperationSpace, error) {
	var (
		state    = &p.nestState[level]
		elem     = &state.LiveState[p.spatialID]
		ctx      = newSpatialContext(p, level)
		pointSet = problem.NewOperationSpace(p.workload.Layout(), p.config.Representation)
		origID   = p.spatialID
	)
	//
	err := p.fillSpatialDeltas(ctx, level, &pointSet, 0, 0, skipDelta)
	p.spatialID = origID
	//
	if err != nil {
		return pointSet, err
	}
	//
	for id, ok := range ctx.valid {
		if !ok {
			return pointSet, invalidNest("ComputeWorkingSets", "element %d of spatial level %d was not evaluated", id,
				level)
		}
	}
	//
	if skipDelta {
		return pointSet, nil
	}
	//
	strategy := p.strategies[level]
	ctx.initLedger(strategy.exact())
	//
	if p.linkedSpatialLevel[level] {
		ctx.computeNetworkLinkTransfers(elem.PrevSpatialSets, strategy.exact())
		elem.PrevSpatialSets = ctx.sets
	}
	//
	for ds := range ctx.accesses {
		strategy.compute(ctx, ds)
	}
	//
	ctx.accumulate(elem)
	state.Iterations += ctx.topology.size()
	//
	return pointSet, nil
}

// Walk the spatial run from a given level downwards, evaluating the child of
// each element.  Here x and y give the mesh position accumulated from the
// spatial levels above.
func (p *NestAnalysis) fillSpatialDeltas(ctx *spatialContext, level int, pointSet *problem.OperationSpace, x,
	y uint64, skipDelta bool) error {
	var (
		cur   = &p.nestState[level].Descriptor
		bound = uint64(cur.Bound)
		base  = p.spatialID
	)
	//
	for idx := uint64(0); idx < bound; idx++ {
		p.setIndex(level, int(idx))
		p.spatialID = base*bound + idx
		//
		nx, ny := x, y
		//
		if cur.Spacetime == loop.SpaceX {
			nx = x*bound + idx
		} else {
			ny = y*bound + idx
		}
		//
		if level > 0 && p.inSpatialRun(level-1, cur.StorageLevel) {
			subSet := problem.NewOperationSpace(p.workload.Layout(), p.config.Representation)
			//
			if err := p.fillSpatialDeltas(ctx, level-1, &subSet, nx, ny, skipDelta); err != nil {
				return err
			} else if !skipDelta {
				p.recordSpatialSize(level-1, &subSet)
			}
			//
			pointSet.Union(&subSet)
			//
			continue
		}
		//
		var (
			id         = ny*ctx.topology.width + nx
			set, delta problem.OperationSpace
			err        error
		)
		//
		if level == 0 {
			set, err = p.evaluateElement(skipDelta)
			delta = set
		} else {
			set, delta, err = p.computeWorkingSetsRecursive(level-1, skipDelta)
		}
		//
		if err != nil {
			return err
		}
		//
		ctx.sets[id] = set
		ctx.deltas[id] = delta
		ctx.valid[id] = true
		pointSet.Union(&set)
	}
	//
	p.setIndex(level, 0)
	p.spatialID = base
	//
	return nil
}

// Record the size of one instance of a level inside a spatial run, other than
// its master.  Such levels are never traversed on their own, hence this is
// their only statistic.
func (p *NestAnalysis) recordSpatialSize(level int, set *problem.OperationSpace) {
	elem := &p.nestState[level].LiveState[p.spatialID]
	//
	for ds := range elem.MaxSize {
		elem.MaxSize[ds] = max(elem.MaxSize[ds], set.Size(ds))
	}
}

func (p *NestAnalysis) inSpatialRun(level int, storageLevel int) bool {
	cur := &p.nestState[level].Descriptor
	//
	return cur.IsSpatial() && cur.StorageLevel == storageLevel
}

// Evaluate the compute body of a single spatial element, when the spatial run
// reaches down to the innermost level.
func (p *NestAnalysis) evaluateElement(skipDelta bool) (problem.OperationSpace, error) {
	set := problem.NewOperationSpace(p.workload.Layout(), p.config.Representation)
	//
	if err := p.evaluateBody(&set); err != nil {
		return set, err
	}
	//
	if !skipDelta {
		p.bodyInfo.Operations++
		//
		for ds := range p.bodyInfo.Accesses {
			p.bodyInfo.Accesses[ds]++
		}
	}
	//
	return set, nil
}

// Touch the problem point at the current indices, projecting it into every
// data space.
func (p *NestAnalysis) evaluateBody(pointSet *problem.OperationSpace) error {
	if !p.workload.Contains(p.curTransform) {
		return newError(OutOfRange, "ComputeWorkingSets", "point %s outside workload bounds", p.curTransform)
	}
	//
	for ds, coords := range p.coords {
		p.workload.Project(p.curTransform, ds, coords)
		pointSet.Insert(ds, coords)
	}
	//
	return nil
}
