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
package loop

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Nest_00(t *testing.T) {
	nest := NewNest(
		Descriptor{Dimension: 0, Bound: 2},
		Descriptor{Dimension: 1, Bound: 3, Spacetime: SpaceX, StorageLevel: 1},
		Descriptor{Dimension: 0, Bound: 2, StorageLevel: 1},
		Descriptor{Dimension: 1, Bound: 2, StorageLevel: 2},
	)
	//
	require.NoError(t, nest.Validate(2))
	require.Equal(t, 4, nest.Len())
	require.Equal(t, 3, nest.NumStorageLevels())
	require.Equal(t, []int{0, 2, 3}, nest.StorageBoundaries())
	require.Contains(t, nest.String(), "spatial_for d1 in [0:3) space-x @L1")
}

func Test_Nest_01(t *testing.T) {
	invalid := []*Nest{
		// Empty
		NewNest(),
		// Unknown dimension
		NewNest(Descriptor{Dimension: 2, Bound: 2}),
		// Zero bound
		NewNest(Descriptor{Dimension: 0, Bound: 0}),
		// Unknown spacetime
		NewNest(Descriptor{Dimension: 0, Bound: 2, Spacetime: 7}),
		// Innermost storage level must be zero
		NewNest(Descriptor{Dimension: 0, Bound: 2, StorageLevel: 1}),
		// Skipped storage level
		NewNest(Descriptor{Dimension: 0, Bound: 2}, Descriptor{Dimension: 1, Bound: 2, StorageLevel: 2}),
		// Storage boundaries not marked
		{Levels: []Descriptor{{Dimension: 0, Bound: 2}, {Dimension: 1, Bound: 2, StorageLevel: 1}}},
		// Spatial above temporal within one storage level
		NewNest(Descriptor{Dimension: 0, Bound: 2}, Descriptor{Dimension: 1, Bound: 2, Spacetime: SpaceY}),
	}
	//
	for i, nest := range invalid {
		require.Error(t, nest.Validate(2), "nest %d", i)
	}
}
