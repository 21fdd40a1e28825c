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

func Test_Box_00(t *testing.T) {
	box := Box{[]int{0, 1}, []int{2, 3}}
	//
	require.Equal(t, uint64(9), box.Volume())
	require.Equal(t, uint64(0), EmptyBox().Volume())
	require.True(t, box.Contains([]int{2, 1}))
	require.False(t, box.Contains([]int{3, 1}))
	require.False(t, EmptyBox().Contains([]int{0, 0}))
	require.True(t, box.Encloses(Box{[]int{1, 1}, []int{1, 2}}))
	require.True(t, box.Encloses(EmptyBox()))
	require.Equal(t, "[[0 1]..[2 3]]", box.String())
}

func Test_Box_01(t *testing.T) {
	var (
		lhs = Box{[]int{0, 0}, []int{2, 2}}
		rhs = Box{[]int{1, 2}, []int{4, 5}}
	)
	//
	require.Equal(t, Box{[]int{0, 0}, []int{4, 5}}, lhs.Hull(rhs))
	require.Equal(t, Box{[]int{1, 2}, []int{2, 2}}, lhs.Intersect(rhs))
	require.True(t, lhs.Intersect(Box{[]int{3, 3}, []int{4, 4}}).IsEmpty())
	require.Equal(t, rhs, EmptyBox().Hull(rhs))
	// Hull does not alias its operands
	hull := lhs.Hull(EmptyBox())
	hull.Low[0] = 7
	require.Equal(t, 0, lhs.Low[0])
}

func Test_Box_02(t *testing.T) {
	box := Box{[]int{0, 0}, []int{3, 1}}
	// Single slab remaining
	require.Equal(t, Box{[]int{3, 0}, []int{3, 1}}, box.Difference(Box{[]int{0, 0}, []int{2, 1}}))
	require.Equal(t, Box{[]int{0, 0}, []int{0, 1}}, box.Difference(Box{[]int{1, 0}, []int{5, 3}}))
	// Fully covered
	require.True(t, box.Difference(Box{[]int{0, 0}, []int{3, 1}}).IsEmpty())
	// Disjoint
	require.Equal(t, box, box.Difference(Box{[]int{5, 5}, []int{6, 6}}))
	// Hole in the middle, which cannot be represented
	require.Equal(t, box, box.Difference(Box{[]int{1, 0}, []int{2, 1}}))
	// Differs in two dimensions
	require.Equal(t, box, box.Difference(Box{[]int{1, 1}, []int{5, 5}}))
}

// A difference always encloses the exact set of remaining points.
func Test_Box_03(t *testing.T) {
	var (
		box   = Box{[]int{0, 0}, []int{3, 3}}
		other = []Box{
			{[]int{0, 0}, []int{1, 3}}, {[]int{1, 1}, []int{2, 2}}, {[]int{2, 0}, []int{5, 5}},
			{[]int{0, 2}, []int{3, 3}}, {[]int{4, 4}, []int{5, 5}},
		}
	)
	//
	for _, o := range other {
		diff := box.Difference(o)
		//
		box.Iter(func(coords []int) bool {
			if !o.Contains(coords) {
				require.True(t, diff.Contains(coords), "%v missing from %s - %s", coords, box, o)
			}
			//
			return true
		})
	}
}

func Test_Box_04(t *testing.T) {
	var (
		box    = Box{[]int{1, 0}, []int{2, 2}}
		points [][]int
	)
	//
	box.Iter(func(coords []int) bool {
		points = append(points, append([]int(nil), coords...))
		return true
	})
	//
	require.Equal(t, [][]int{{1, 0}, {1, 1}, {1, 2}, {2, 0}, {2, 1}, {2, 2}}, points)
	// Early exit
	count := 0
	box.Iter(func([]int) bool {
		count++
		return count < 2
	})
	require.Equal(t, 2, count)
}
