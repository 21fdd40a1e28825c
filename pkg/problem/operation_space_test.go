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
package problem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_OperationSpace_00(t *testing.T) {
	var (
		w     = matmul(t, 2, 3, 4)
		space = NewOperationSpace(w.Layout(), Exact)
	)
	//
	for ds := range w.NumDataSpaces() {
		require.True(t, space.IsEmpty(ds))
	}
	//
	space.Insert(0, []int{1, 2})
	space.Insert(0, []int{1, 2})
	space.Insert(0, []int{0, 0})
	//
	require.Equal(t, PerDataSpace[uint64]{2, 0, 0}, space.Sizes())
	require.True(t, space.Contains(0, w.Layout().Linearize(0, []int{1, 2})))
	require.Equal(t, Box{[]int{0, 0}, []int{1, 2}}, space.BoundingBox(0))
	//
	space.Remove(0, w.Layout().Linearize(0, []int{0, 0}))
	require.Equal(t, uint64(1), space.Size(0))
	//
	space.Reset()
	require.True(t, space.IsEmpty(0))
}

func Test_OperationSpace_01(t *testing.T) {
	var (
		w   = matmul(t, 4, 4, 4)
		lhs = NewOperationSpace(w.Layout(), Exact)
		rhs = NewOperationSpace(w.Layout(), Exact)
	)
	//
	lhs.InsertBox(1, Box{[]int{0, 0}, []int{1, 3}})
	rhs.InsertBox(1, Box{[]int{1, 0}, []int{2, 3}})
	//
	delta := lhs.Difference(&rhs)
	require.Equal(t, uint64(4), delta.Size(1))
	require.Equal(t, uint64(4), lhs.IntersectionSize(&rhs, 1))
	// Difference leaves its operands untouched
	require.Equal(t, uint64(8), lhs.Size(1))
	//
	union := lhs.Clone()
	union.Union(&rhs)
	require.Equal(t, uint64(12), union.Size(1))
	require.Equal(t, uint64(8), lhs.Size(1))
	//
	var ids []uint
	//
	delta.Points(1, func(id uint) bool {
		ids = append(ids, id)
		return true
	})
	//
	require.Equal(t, []uint{0, 1, 2, 3}, ids)
}

// Bounding boxes always enclose the exact set they stand for.
func Test_OperationSpace_02(t *testing.T) {
	var (
		w     = matmul(t, 4, 4, 4)
		exact = NewOperationSpace(w.Layout(), Exact)
		boxed = NewOperationSpace(w.Layout(), BoundingBox)
	)
	//
	for _, coords := range [][]int{{0, 1}, {2, 3}, {3, 0}} {
		exact.Insert(2, coords)
		boxed.Insert(2, coords)
	}
	//
	require.Equal(t, uint64(3), exact.Size(2))
	require.Equal(t, uint64(16), boxed.Size(2))
	require.Equal(t, exact.BoundingBox(2), boxed.BoundingBox(2))
	//
	exact.Points(2, func(id uint) bool {
		require.True(t, boxed.Contains(2, id))
		return true
	})
	//
	materialised := boxed.Exact()
	require.Equal(t, uint64(16), materialised.Size(2))
	require.Equal(t, uint64(3), materialised.IntersectionSize(&exact, 2))
	require.True(t, materialised.Equal(&boxed, 2))
	require.False(t, exact.Equal(&boxed, 2))
}

func Test_OperationSpace_03(t *testing.T) {
	var (
		w   = matmul(t, 4, 4, 4)
		lhs = NewOperationSpace(w.Layout(), BoundingBox)
		rhs = NewOperationSpace(w.Layout(), BoundingBox)
	)
	//
	lhs.InsertBox(0, Box{[]int{0, 0}, []int{3, 1}})
	rhs.InsertBox(0, Box{[]int{0, 0}, []int{1, 1}})
	//
	delta := lhs.Difference(&rhs)
	require.Equal(t, Box{[]int{2, 0}, []int{3, 1}}, delta.BoundingBox(0))
	require.True(t, delta.IsEmpty(1))
	//
	lhs.Union(&rhs)
	require.Equal(t, uint64(8), lhs.Size(0))
	require.Equal(t, "{[[0 0]..[3 1]]; []; []}", lhs.String())
}

// C[m,n] += A[m,k] * B[k,n]
func matmul(t *testing.T, m, n, k int) *Workload {
	shape := &Shape{
		Name:       "matmul",
		Dimensions: []string{"M", "N", "K"},
		DataSpaces: []DataSpace{
			{Name: "A", Projection: []Expression{{{0, 1}}, {{2, 1}}}},
			{Name: "B", Projection: []Expression{{{2, 1}}, {{1, 1}}}},
			{Name: "C", ReadWrite: true, Projection: []Expression{{{0, 1}}, {{1, 1}}}},
		},
	}
	//
	w, err := NewWorkload(shape, []int{m, n, k})
	require.NoError(t, err)
	//
	return w
}
