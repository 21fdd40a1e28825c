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

	"github.com/consensys/go-loopnest/pkg/tiling"
)

// Fold the live state of every level into per-storage-level tiles, outermost
// storage level first.
func (p *NestAnalysis) collectWorkingSets() {
	n := p.workload.NumDataSpaces()
	p.workingSets.DataMovement = make([][]tiling.TileInfo, n)
	//
	for ds := range n {
		tiles := make([]tiling.TileInfo, 0, len(p.storageTiles))
		//
		for s := len(p.storageTiles) - 1; s >= 0; s-- {
			tiles = append(tiles, p.collectTile(s, ds))
		}
		//
		p.workingSets.DataMovement[ds] = tiles
	}
	//
	p.workingSets.Compute = p.bodyInfo
	p.workingSets.Compute.Accesses = slices.Clone(p.bodyInfo.Accesses)
}

func (p *NestAnalysis) collectTile(s int, ds int) tiling.TileInfo {
	var (
		tile = p.storageTiles[s]
		info = tiling.TileInfo{
			StorageLevel: s,
			Fanout:       1,
			Replication:  p.numSpatialElems[tile.hi],
			Subnest:      slices.Clone(p.nest.Levels[tile.lo : tile.hi+1]),
		}
		// Reads from this tile are made by its fan-out when it has one, and
		// otherwise by its innermost loop.
		source = tile.lo
	)
	//
	for _, elem := range p.nestState[tile.hi].LiveState {
		info.Size = max(info.Size, elem.MaxSize[ds])
		info.Fills += elem.Fills[ds]
	}
	//
	if tile.master >= 0 {
		source = tile.master
		info.Fanout = p.spatialFanouts[tile.master]
	}
	//
	info.Accesses = make([]uint64, info.Fanout+1)
	//
	for _, elem := range p.nestState[source].LiveState {
		for k, n := range elem.Accesses[ds] {
			info.Accesses[k] += n
		}
		//
		info.ScatterFactor = max(info.ScatterFactor, elem.ScatterFactor[ds])
		info.CumulativeHops += elem.CumulativeHops[ds]
		info.LinkTransfers += elem.LinkTransfers[ds]
	}
	//
	if tile.master < 0 {
		info.ScatterFactor = 1
	}
	//
	return info
}
