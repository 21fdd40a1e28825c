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
package tiling

import (
	"fmt"
	"slices"
	"strings"

	"github.com/consensys/go-loopnest/pkg/loop"
)

// TileInfo summarises the data movement of one data space at one storage
// level.  Counts are totals over every instance of the tile and every
// iteration of the enclosing loops.
type TileInfo struct {
	// StorageLevel identifies the storage level (0 is innermost).
	StorageLevel int
	// Size is the largest working set held by any instance of this tile.
	Size uint64
	// Accesses is indexed by multicast factor: Accesses[k] counts points read
	// from this tile which were delivered to exactly k consumers.
	Accesses []uint64
	// Fills counts the points written into instances of this tile from its
	// parent (i.e. the sum of its deltas).
	Fills uint64
	// ScatterFactor is the largest number of distinct consumers served by a
	// single evaluation of the tile's spatial fan-out, counted over all reads
	// of that evaluation.  Hence a fan-out of 4 reading 4 distinct points has
	// scatter factor 4 and multicast factor 1.  Tiles without a fan-out have
	// scatter factor 1.
	ScatterFactor uint64
	// CumulativeHops sums, over all reads, the network hops needed to reach
	// the consumers of each read.
	CumulativeHops float64
	// LinkTransfers counts points forwarded between neighbouring consumers
	// over on-chip links, rather than read from this tile.
	LinkTransfers uint64
	// Fanout is the number of consumers fed by each instance of this tile.
	Fanout uint64
	// Replication is the number of instances of this tile.
	Replication uint64
	// Subnest holds the loops of this storage level, innermost first.
	Subnest []loop.Descriptor
}

// TotalAccesses returns the number of reads from this tile, regardless of
// multicast factor.
func (p *TileInfo) TotalAccesses() uint64 {
	total := uint64(0)
	//
	for _, n := range p.Accesses {
		total += n
	}
	//
	return total
}

// Deliveries returns the number of points received by consumers of this tile
// (i.e. accesses weighted by their multicast factor).
func (p *TileInfo) Deliveries() uint64 {
	total := uint64(0)
	//
	for k, n := range p.Accesses {
		total += uint64(k) * n
	}
	//
	return total
}

// MulticastFactor returns the average number of consumers served by each read
// from this tile.  A tile without reads has multicast factor 1.
func (p *TileInfo) MulticastFactor() float64 {
	accesses := p.TotalAccesses()
	//
	if accesses == 0 {
		return 1
	}
	//
	return float64(p.Deliveries()) / float64(accesses)
}

func (p *TileInfo) String() string {
	var builder strings.Builder
	//
	builder.WriteString(fmt.Sprintf("L%d size=%d accesses=%d fills=%d mcast=%.2f scatter=%d", p.StorageLevel,
		p.Size, p.TotalAccesses(), p.Fills, p.MulticastFactor(), p.ScatterFactor))
	//
	if p.LinkTransfers != 0 {
		builder.WriteString(fmt.Sprintf(" links=%d", p.LinkTransfers))
	}
	//
	if p.CumulativeHops != 0 {
		builder.WriteString(fmt.Sprintf(" hops=%.1f", p.CumulativeHops))
	}
	//
	return builder.String()
}

// BodyInfo summarises the compute body executed at the bottom of the nest.
type BodyInfo struct {
	// Operations counts every evaluation of the compute body.
	Operations uint64
	// Accesses counts operand reads made by the compute body, per data space.
	Accesses []uint64
	// ReplicationFactor is the number of compute units working in parallel.
	ReplicationFactor uint64
}

// CompoundTileNest holds the tiles of every data space, outermost storage
// level first, together with the compute body.
type CompoundTileNest struct {
	DataMovement [][]TileInfo
	Compute      BodyInfo
}

// NumStorageLevels returns the number of storage levels described.
func (p *CompoundTileNest) NumStorageLevels() int {
	if len(p.DataMovement) == 0 {
		return 0
	}
	//
	return len(p.DataMovement[0])
}

// Clone returns a deep copy of this nest, such that no slices are shared.
func (p *CompoundTileNest) Clone() CompoundTileNest {
	var nest CompoundTileNest
	//
	if p.DataMovement != nil {
		nest.DataMovement = make([][]TileInfo, len(p.DataMovement))
	}
	//
	for ds, tiles := range p.DataMovement {
		nest.DataMovement[ds] = make([]TileInfo, len(tiles))
		//
		for i, tile := range tiles {
			tile.Accesses = slices.Clone(tile.Accesses)
			tile.Subnest = slices.Clone(tile.Subnest)
			nest.DataMovement[ds][i] = tile
		}
	}
	//
	nest.Compute = p.Compute
	nest.Compute.Accesses = slices.Clone(p.Compute.Accesses)
	//
	return nest
}

// Tile returns the tile of a data space at a given storage level (0 being
// innermost).
func (p *CompoundTileNest) Tile(ds int, storageLevel int) *TileInfo {
	tiles := p.DataMovement[ds]
	//
	return &tiles[len(tiles)-1-storageLevel]
}
