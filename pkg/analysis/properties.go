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
	log "github.com/sirupsen/logrus"
)

// Derive, once per Init, the per-level properties of the nest together with
// the memoised tables used by the index transform.
func (p *NestAnalysis) initializeNestProperties() error {
	var (
		levels  = p.nest.Levels
		n       = len(levels)
		numDims = p.workload.NumDimensions()
	)
	//
	p.numSpatialElems = resize(p.numSpatialElems, n)
	p.spatialFanouts = resize(p.spatialFanouts, n)
	p.horizontalSizes = resize(p.horizontalSizes, n)
	p.verticalSizes = resize(p.verticalSizes, n)
	p.storageBoundaryLevel = resize(p.storageBoundaryLevel, n)
	p.masterSpatialLevel = resize(p.masterSpatialLevel, n)
	p.linkedSpatialLevel = resize(p.linkedSpatialLevel, n)
	p.strategies = resize(p.strategies, n)
	//
	if err := p.initializeSpatialProperties(levels); err != nil {
		return err
	} else if err := p.initializeStorageTiles(levels); err != nil {
		return err
	} else if err := p.initializeTransform(levels, numDims); err != nil {
		return err
	}
	//
	return p.initializeStrategies()
}

func (p *NestAnalysis) initializeSpatialProperties(levels []loop.Descriptor) error {
	var (
		n     = len(levels)
		elems = uint64(1)
	)
	// Master and linked flags
	for i := range levels {
		cur := &levels[i]
		master := cur.IsSpatial() && (i == n-1 || !levels[i+1].IsSpatial() ||
			levels[i+1].StorageLevel != cur.StorageLevel)
		//
		if cur.MasterSpatial && !master {
			return invalidNest("Init", "level %d is flagged master spatial, but is not the outermost level of a "+
				"spatial run", i)
		} else if cur.LinkedSpatial && !master {
			return invalidNest("Init", "level %d is flagged linked, but is not master spatial", i)
		}
		//
		p.storageBoundaryLevel[i] = cur.StorageBoundary
		p.masterSpatialLevel[i] = master
		p.linkedSpatialLevel[i] = cur.LinkedSpatial
	}
	// Replication, from the outside in.
	for i := n - 1; i >= 0; i-- {
		p.numSpatialElems[i] = elems
		//
		if levels[i].IsSpatial() {
			elems *= uint64(levels[i].Bound)
		}
	}
	// Fan-outs
	for i := range levels {
		switch {
		case !levels[i].IsSpatial():
			p.spatialFanouts[i] = 1
			p.horizontalSizes[i] = 1
			p.verticalSizes[i] = 1
		case p.masterSpatialLevel[i]:
			fanout, h, v := spatialRun(levels, i)
			//
			if fanout == 0 {
				return invalidNest("Init", "master spatial level %d has zero fan-out", i)
			}
			//
			p.spatialFanouts[i] = fanout
			p.horizontalSizes[i] = h
			p.verticalSizes[i] = v
		}
	}
	//
	return nil
}

// Determine the fan-out, width and height of the spatial run whose master is
// given.  The run extends down to the first temporal level or storage
// boundary.
func spatialRun(levels []loop.Descriptor, master int) (fanout, h, v uint64) {
	fanout, h, v = 1, 1, 1
	//
	for j := master; j >= 0; j-- {
		cur := &levels[j]
		//
		if !cur.IsSpatial() || cur.StorageLevel != levels[master].StorageLevel {
			break
		}
		//
		fanout *= uint64(cur.Bound)
		//
		if cur.Spacetime == loop.SpaceX {
			h *= uint64(cur.Bound)
		} else {
			v *= uint64(cur.Bound)
		}
	}
	//
	return fanout, h, v
}

func (p *NestAnalysis) initializeStorageTiles(levels []loop.Descriptor) error {
	p.storageTiles = p.storageTiles[:0]
	//
	for i := range levels {
		s := levels[i].StorageLevel
		//
		if s == len(p.storageTiles) {
			p.storageTiles = append(p.storageTiles, storageTile{lo: i, hi: i, master: -1})
		}
		//
		tile := &p.storageTiles[s]
		tile.hi = i
		//
		if !p.masterSpatialLevel[i] {
			continue
		} else if tile.master >= 0 {
			return invalidNest("Init", "storage level %d has master spatial levels %d and %d", s, tile.master, i)
		}
		//
		tile.master = i
	}
	//
	return nil
}

// Compute the per-level dimension scales, and the molds which bound the
// problem-space offsets reachable within each level's sub-nest.
func (p *NestAnalysis) initializeTransform(levels []loop.Descriptor, numDims int) error {
	var (
		n       = len(levels)
		running = make([]int, numDims)
		high    = problem.NewPoint(numDims)
	)
	//
	for d := range running {
		running[d] = 1
	}
	//
	p.perLevelDimScales = resize(p.perLevelDimScales, n)
	p.moldLow = resize(p.moldLow, n)
	p.moldHigh = resize(p.moldHigh, n)
	//
	for i := range levels {
		dim := levels[i].Dimension
		p.perLevelDimScales[i] = make([]int, numDims)
		p.perLevelDimScales[i][dim] = running[dim]
		high[dim] += (levels[i].Bound - 1) * running[dim]
		running[dim] *= levels[i].Bound
		p.moldLow[i] = problem.NewPoint(numDims)
		p.moldHigh[i] = high.Clone()
	}
	//
	outermost := p.moldHigh[n-1]
	//
	for d, h := range outermost {
		if bound := p.workload.Bound(d); h >= bound {
			return newError(OutOfRange, "Init", "nest reaches %s=%d beyond its bound %d",
				p.workload.Shape().Dimensions[d], h, bound)
		} else if h+1 < bound {
			log.Warnf("nest covers only %d of %d iterations of dimension %s", h+1, bound,
				p.workload.Shape().Dimensions[d])
		}
	}
	//
	p.curTransform = resize(p.curTransform, numDims)
	p.highScratch = resize(p.highScratch, numDims)
	p.coords = resize(p.coords, p.workload.NumDataSpaces())
	//
	for ds := range p.coords {
		p.coords[ds] = make([]int, p.workload.Layout().Rank(ds))
	}
	//
	return nil
}

// Select the multicast strategy of each master spatial level.  Accurate
// analysis beyond the configured fan-out is refused rather than downgraded.
func (p *NestAnalysis) initializeStrategies() error {
	for i, master := range p.masterSpatialLevel {
		if !master {
			p.strategies[i] = nil
			continue
		}
		//
		switch mode := p.config.MulticastFor(i); mode {
		case Accurate:
			if limit := uint64(p.config.MaxAccurateElements); p.spatialFanouts[i] > limit {
				return newError(AccurateTooExpensive, "Init", "level %d has fan-out %d (limit %d)", i,
					p.spatialFanouts[i], limit)
			}
			//
			p.strategies[i] = accurateMulticast{}
		case Approximate:
			p.strategies[i] = approximateMulticast{}
		default:
			return invalidNest("Init", "unknown multicast mode %s for level %d", mode, i)
		}
	}
	//
	return nil
}

// Build the live state arena: one LoopState per level, each holding one
// ElementState per spatial element replicating that level.
func (p *NestAnalysis) initializeLiveState() {
	var (
		levels = p.nest.Levels
		layout = p.workload.Layout()
	)
	//
	p.nestState = resize(p.nestState, len(levels))
	//
	for i := range levels {
		elems := make([]ElementState, p.numSpatialElems[i])
		//
		for e := range elems {
			elems[e] = newElementState(layout, p.config.Representation, p.spatialFanouts[i])
		}
		//
		p.nestState[i] = LoopState{Level: i, Descriptor: levels[i], LiveState: elems}
	}
}

// Resize a slice to a given length, reusing its storage where possible.  All
// elements are zeroed.
func resize[T any](s []T, n int) []T {
	if cap(s) < n {
		return make([]T, n)
	}
	//
	s = s[:n]
	clear(s)
	//
	return s
}
