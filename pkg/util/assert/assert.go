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
package assert

import (
	"testing"

	"github.com/consensys/go-loopnest/pkg/tiling"
)

// WellFormedTiles errors if the tiles of a data space (outermost first) are
// inconsistent with one another, or with their own fan-out.
func WellFormedTiles(t *testing.T, tiles []tiling.TileInfo) {
	t.Helper()
	//
	for i := range tiles {
		tile := &tiles[i]
		//
		if expected := len(tiles) - 1 - i; tile.StorageLevel != expected {
			t.Errorf("tile %d: expected storage level %d, actual %d", i, expected, tile.StorageLevel)
		}
		//
		wellFormedTile(t, tile)
	}
	//
	if t.Failed() {
		t.FailNow()
	}
}

func wellFormedTile(t *testing.T, tile *tiling.TileInfo) {
	t.Helper()
	//
	if tile.Fanout == 0 {
		t.Errorf("L%d: zero fan-out", tile.StorageLevel)
		return
	} else if uint64(len(tile.Accesses)) != tile.Fanout+1 {
		t.Errorf("L%d: %d access counts for fan-out %d", tile.StorageLevel, len(tile.Accesses), tile.Fanout)
		return
	}
	// Every read reaches at least one consumer.
	if tile.Accesses[0] != 0 {
		t.Errorf("L%d: %d reads without consumers", tile.StorageLevel, tile.Accesses[0])
	}
	//
	if tile.ScatterFactor > tile.Fanout {
		t.Errorf("L%d: scatter factor %d exceeds fan-out %d", tile.StorageLevel, tile.ScatterFactor, tile.Fanout)
	}
	//
	if mcast := tile.MulticastFactor(); mcast < 1 || mcast > float64(tile.Fanout) {
		t.Errorf("L%d: multicast factor %.2f outside [1,%d]", tile.StorageLevel, mcast, tile.Fanout)
	}
	//
	if tile.Replication == 0 {
		t.Errorf("L%d: zero replication", tile.StorageLevel)
	}
}

// Conserved errors if the points delivered by a parent tile, together with
// those forwarded between its consumers, do not match the points filled into
// its child.  This holds only for exact analyses.
func Conserved(t *testing.T, parent *tiling.TileInfo, child *tiling.TileInfo) {
	t.Helper()
	//
	delivered := parent.Deliveries() + parent.LinkTransfers
	//
	if delivered != child.Fills {
		t.Errorf("L%d delivers %d points (%d forwarded), but L%d fills %d", parent.StorageLevel, delivered,
			parent.LinkTransfers, child.StorageLevel, child.Fills)
		t.FailNow()
	}
}
