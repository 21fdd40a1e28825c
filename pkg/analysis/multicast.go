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
	"math"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-loopnest/pkg/problem"
)

// multicastStrategy attributes the deltas of a spatial evaluation to parent
// accesses, grouped by the number of elements each access is delivered to.
type multicastStrategy interface {
	// exact indicates the strategy works over exact residual point sets.
	exact() bool
	// compute records the accesses, hops and scatter of one data space.
	compute(ctx *spatialContext, ds int)
}

// ============================================================================
// Spatial context
// ============================================================================

// spatialContext holds the working sets and deltas of every element produced
// by one evaluation of a master spatial level, together with the statistics
// derived from them.
type spatialContext struct {
	topology meshTopology
	// Indexed by element.
	sets   []problem.OperationSpace
	deltas []problem.OperationSpace
	valid  []bool
	// unaccounted[e][ds] holds when element e still has points of ds not yet
	// attributed to an access or transfer.
	unaccounted [][]bool
	// residual[e] holds the unattributed points of element e (exact only).
	residual []problem.OperationSpace
	// Indexed by data space.
	accesses [][]uint64
	scatter  []uint64
	hops     []float64
	links    []uint64
}

func newSpatialContext(p *NestAnalysis, level int) *spatialContext {
	var (
		fanout = p.spatialFanouts[level]
		n      = p.workload.NumDataSpaces()
	)
	//
	ctx := &spatialContext{
		topology: meshTopology{p.horizontalSizes[level], p.verticalSizes[level]},
		sets:     make([]problem.OperationSpace, fanout),
		deltas:   make([]problem.OperationSpace, fanout),
		valid:    make([]bool, fanout),
		accesses: make([][]uint64, n),
		scatter:  make([]uint64, n),
		hops:     make([]float64, n),
		links:    make([]uint64, n),
	}
	//
	for ds := range ctx.accesses {
		ctx.accesses[ds] = make([]uint64, fanout+1)
	}
	//
	return ctx
}

// Initialise the unaccounted delta ledger.  Every element with a non-empty
// delta starts out unaccounted.
func (p *spatialContext) initLedger(exact bool) {
	p.unaccounted = make([][]bool, len(p.deltas))
	//
	for e := range p.deltas {
		p.unaccounted[e] = make([]bool, len(p.accesses))
		//
		for ds := range p.accesses {
			p.unaccounted[e][ds] = !p.deltas[e].IsEmpty(ds)
		}
	}
	//
	if exact {
		p.residual = make([]problem.OperationSpace, len(p.deltas))
		//
		for e := range p.deltas {
			p.residual[e] = p.deltas[e].Exact()
		}
	}
}

// Mark an element accounted for if its residual has been fully attributed.
func (p *spatialContext) settle(e int, ds int) {
	if p.residual[e].IsEmpty(ds) {
		p.unaccounted[e][ds] = false
	}
}

// Add the statistics of this evaluation to those of the master's element.
func (p *spatialContext) accumulate(elem *ElementState) {
	for ds := range p.accesses {
		for k, n := range p.accesses[ds] {
			elem.Accesses[ds][k] += n
		}
		//
		elem.ScatterFactor[ds] = max(elem.ScatterFactor[ds], p.scatter[ds])
		elem.CumulativeHops[ds] += p.hops[ds]
		elem.LinkTransfers[ds] += p.links[ds]
	}
}

// ============================================================================
// Topology
// ============================================================================

// meshTopology arranges the elements of a spatial run on a grid, where element
// e sits at column e % width and row e / width.
type meshTopology struct {
	width  uint64
	height uint64
}

func (p meshTopology) size() uint64 {
	return p.width * p.height
}

// Count the hops needed to deliver one point to a set of elements.  Data is
// injected at the vertical centre of the left edge, travels horizontally as
// far as the furthest column and then vertically to each element.
func (p meshTopology) hops(members *bitset.BitSet) float64 {
	var (
		maxX   uint64
		sum    float64
		centre = float64(p.height) / 2
	)
	//
	for id, ok := members.NextSet(0); ok; id, ok = members.NextSet(id + 1) {
		x, y := uint64(id)%p.width, uint64(id)/p.width
		maxX = max(maxX, x)
		sum += math.Abs(float64(y) + 0.5 - centre)
	}
	//
	return float64(maxX+1) + sum
}

// Determine the immediate neighbours (left, right, up, down) of an element.
func (p meshTopology) neighbours(e int) []int {
	var (
		id     = uint64(e)
		x, y   = id % p.width, id / p.width
		result = make([]int, 0, 4)
	)
	//
	if x > 0 {
		result = append(result, e-1)
	}
	//
	if x+1 < p.width {
		result = append(result, e+1)
	}
	//
	if y > 0 {
		result = append(result, e-int(p.width))
	}
	//
	if y+1 < p.height {
		result = append(result, e+int(p.width))
	}
	//
	return result
}

// ============================================================================
// Accurate
// ============================================================================

// accurateMulticast determines, for every unattributed point, the exact set of
// elements requiring it.  Each such set costs one access.
type accurateMulticast struct{}

func (accurateMulticast) exact() bool {
	return true
}

func (accurateMulticast) compute(ctx *spatialContext, ds int) {
	var (
		n       = len(ctx.residual)
		members = bitset.New(uint(n))
		reached = bitset.New(uint(n))
	)
	//
	for i := range n {
		if !ctx.unaccounted[i][ds] {
			continue
		}
		//
		ctx.residual[i].Points(ds, func(id uint) bool {
			members.ClearAll()
			members.Set(uint(i))
			//
			for j := i + 1; j < n; j++ {
				if ctx.unaccounted[j][ds] && ctx.residual[j].Contains(ds, id) {
					members.Set(uint(j))
					ctx.residual[j].Remove(ds, id)
				}
			}
			//
			ctx.accesses[ds][members.Count()]++
			ctx.hops[ds] += ctx.topology.hops(members)
			reached.InPlaceUnion(members)
			//
			return true
		})
		//
		ctx.residual[i].Sets[ds].ClearAll()
		ctx.unaccounted[i][ds] = false
	}
	//
	ctx.scatter[ds] = uint64(reached.Count())
}

// ============================================================================
// Approximate
// ============================================================================

// approximateMulticast groups elements whose deltas have identical bounding
// boxes, charging each group the volume of its box.  Since a box encloses
// every delta it stands for, this never reports fewer accesses than the
// accurate strategy.
type approximateMulticast struct{}

func (approximateMulticast) exact() bool {
	return false
}

func (approximateMulticast) compute(ctx *spatialContext, ds int) {
	var (
		n       = len(ctx.deltas)
		boxes   = make([]problem.Box, n)
		grouped = make([]bool, n)
		members = bitset.New(uint(n))
		scatter uint64
	)
	//
	for e := range n {
		if ctx.unaccounted[e][ds] {
			boxes[e] = ctx.deltas[e].BoundingBox(ds)
			scatter++
		} else {
			grouped[e] = true
		}
	}
	//
	for i := range n {
		if grouped[i] {
			continue
		}
		//
		members.ClearAll()
		members.Set(uint(i))
		//
		for j := i + 1; j < n; j++ {
			if !grouped[j] && boxes[j].Equal(boxes[i]) {
				members.Set(uint(j))
				grouped[j] = true
			}
		}
		//
		volume := boxes[i].Volume()
		ctx.accesses[ds][members.Count()] += volume
		ctx.hops[ds] += ctx.topology.hops(members) * float64(volume)
		ctx.unaccounted[i][ds] = false
	}
	//
	ctx.scatter[ds] = scatter
}
