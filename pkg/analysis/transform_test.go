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
	"math/rand"
	"testing"

	"github.com/consensys/go-loopnest/pkg/loop"
	"github.com/consensys/go-loopnest/pkg/problem"
	"github.com/stretchr/testify/require"
)

func Test_Transform_00(t *testing.T) {
	var (
		w    = newWorkload(t, []string{"P", "Q"}, []int{6, 6}, tensor("A", 0, 1))
		nest = loop.NewNest(temporal(0, 2, 0), temporal(1, 3, 0), temporal(0, 3, 1), temporal(1, 2, 1))
		a    = New()
	)
	//
	require.NoError(t, a.Init(w, nest))
	//
	point, err := a.IndexToProblemPoint([]int{1, 2, 2, 1})
	require.NoError(t, err)
	require.Equal(t, problem.Point{5, 5}, point)
	//
	point, err = a.IndexToProblemPoint([]int{1, 0, 1, 1})
	require.NoError(t, err)
	require.Equal(t, problem.Point{3, 3}, point)
}

// Incremental updates agree with direct evaluation over random index walks.
func Test_Transform_01(t *testing.T) {
	var (
		w    = newWorkload(t, []string{"P", "Q", "R"}, []int{12, 6, 4}, tensor("A", 0, 1), tensor("B", 2))
		nest = loop.NewNest(temporal(0, 2, 0), temporal(1, 3, 0), spatial(loop.SpaceX, 2, 4, 1),
			temporal(0, 3, 1), temporal(1, 2, 2), temporal(0, 2, 2))
		a       = New()
		rng     = rand.New(rand.NewSource(1))
		indices = make([]int, nest.Len())
	)
	//
	require.NoError(t, a.Init(w, nest))
	//
	for i := 0; i < 1000; i++ {
		level := rng.Intn(nest.Len())
		indices[level] = rng.Intn(nest.Levels[level].Bound)
		//
		require.NoError(t, a.SetIndices(indices))
		//
		expected, err := a.IndexToProblemPoint(indices)
		require.NoError(t, err)
		require.Equal(t, expected, a.CurrentPoint())
		require.Equal(t, indices, a.CurrentIndices())
	}
	// Unwinding every index restores the origin.
	require.NoError(t, a.SetIndices(make([]int, nest.Len())))
	require.Equal(t, problem.NewPoint(3), a.CurrentPoint())
}

// The traversal leaves every index at zero.
func Test_Transform_02(t *testing.T) {
	var (
		w    = newWorkload(t, []string{"P", "Q"}, []int{4, 3}, tensor("A", 0, 1))
		nest = loop.NewNest(temporal(0, 2, 0), spatial(loop.SpaceY, 1, 3, 1), temporal(0, 2, 1))
		a    = New()
	)
	//
	require.NoError(t, a.Init(w, nest))
	require.NoError(t, a.SetIndices([]int{1, 2, 1}))
	require.Equal(t, problem.Point{3, 2}, a.CurrentPoint())
	require.NoError(t, a.ComputeWorkingSets())
	require.Equal(t, []int{0, 0, 0}, a.CurrentIndices())
	require.Equal(t, problem.Point{0, 0}, a.CurrentPoint())
}
