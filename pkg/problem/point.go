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
	"fmt"
	"slices"
	"strings"
)

// Point is a coordinate in the iteration space of a workload, holding one
// value per iteration dimension.
type Point []int

// NewPoint constructs the origin of an n-dimensional iteration space.
func NewPoint(n int) Point {
	return make(Point, n)
}

// Clone returns a copy of this point which does not alias it.
func (p Point) Clone() Point {
	return slices.Clone(p)
}

// Equal checks whether two points have identical coordinates.
func (p Point) Equal(other Point) bool {
	return slices.Equal(p, other)
}

func (p Point) String() string {
	var builder strings.Builder
	//
	builder.WriteString("(")
	//
	for i, v := range p {
		if i != 0 {
			builder.WriteString(",")
		}
		//
		builder.WriteString(fmt.Sprintf("%d", v))
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}

// PerDataSpace holds one value for each data space of a workload.
type PerDataSpace[T any] []T

// NewPerDataSpace constructs a zeroed value for each of n data spaces.
func NewPerDataSpace[T any](n int) PerDataSpace[T] {
	return make(PerDataSpace[T], n)
}
