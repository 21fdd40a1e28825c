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
	"testing"

	"github.com/consensys/go-loopnest/pkg/loop"
	"github.com/stretchr/testify/require"
)

func Test_TileInfo_00(t *testing.T) {
	tile := TileInfo{StorageLevel: 1, Size: 8, Accesses: []uint64{0, 2, 2, 0}, Fills: 6, ScatterFactor: 3}
	//
	require.Equal(t, uint64(4), tile.TotalAccesses())
	require.Equal(t, uint64(6), tile.Deliveries())
	require.Equal(t, 1.5, tile.MulticastFactor())
	require.Equal(t, "L1 size=8 accesses=4 fills=6 mcast=1.50 scatter=3", tile.String())
	//
	empty := TileInfo{}
	require.Equal(t, 1.0, empty.MulticastFactor())
}

func Test_TileInfo_01(t *testing.T) {
	nest := CompoundTileNest{
		DataMovement: [][]TileInfo{{
			{StorageLevel: 1, Accesses: []uint64{0, 1}, Subnest: []loop.Descriptor{{Bound: 4}}},
			{StorageLevel: 0, Accesses: []uint64{0, 4}},
		}},
		Compute: BodyInfo{Operations: 4, Accesses: []uint64{4}},
	}
	//
	require.Equal(t, 2, nest.NumStorageLevels())
	require.Equal(t, uint64(4), nest.Tile(0, 0).TotalAccesses())
	//
	clone := nest.Clone()
	require.Equal(t, nest, clone)
	// No slices are shared
	clone.DataMovement[0][0].Accesses[1] = 9
	clone.DataMovement[0][0].Subnest[0].Bound = 9
	clone.Compute.Accesses[0] = 9
	require.Equal(t, uint64(1), nest.DataMovement[0][0].Accesses[1])
	require.Equal(t, 4, nest.DataMovement[0][0].Subnest[0].Bound)
	require.Equal(t, uint64(4), nest.Compute.Accesses[0])
}
