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
	"github.com/consensys/go-loopnest/pkg/problem"
)

// Count the points forwarded over links between neighbouring elements of a
// linked spatial level.  A point in the delta of element e which a neighbour
// held in the previous evaluation is transferred over one link, rather than
// read from the parent.  With exact residuals such points are removed from the
// ledger, so the multicast strategy does not charge them again.  Otherwise the
// overlap of bounding boxes is charged and nothing is removed.
func (p *spatialContext) computeNetworkLinkTransfers(prev []problem.OperationSpace, exact bool) {
	// Nothing is held on the first evaluation.
	if len(prev) == 0 {
		return
	}
	//
	for e := range p.deltas {
		neighbours := p.topology.neighbours(e)
		//
		for ds := range p.links {
			if !p.unaccounted[e][ds] {
				continue
			} else if exact {
				p.links[ds] += forwardExact(&p.residual[e], ds, prev, neighbours)
				p.settle(e, ds)
			} else {
				p.links[ds] += forwardApproximate(&p.deltas[e], ds, prev, neighbours)
			}
		}
	}
}

func forwardExact(residual *problem.OperationSpace, ds int, prev []problem.OperationSpace, neighbours []int) uint64 {
	var transfers uint64
	//
	residual.Points(ds, func(id uint) bool {
		for _, n := range neighbours {
			if prev[n].Contains(ds, id) {
				transfers++
				residual.Remove(ds, id)
				//
				break
			}
		}
		//
		return true
	})
	//
	return transfers
}

func forwardApproximate(delta *problem.OperationSpace, ds int, prev []problem.OperationSpace, neighbours []int) uint64 {
	var (
		box     = delta.BoundingBox(ds)
		overlap uint64
	)
	//
	for _, n := range neighbours {
		overlap += box.Intersect(prev[n].BoundingBox(ds)).Volume()
	}
	//
	return min(box.Volume(), overlap)
}
