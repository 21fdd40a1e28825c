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
package dse

import (
	"context"
	"fmt"
	"testing"

	"github.com/consensys/go-loopnest/pkg/analysis"
	"github.com/consensys/go-loopnest/pkg/loop"
	"github.com/consensys/go-loopnest/pkg/problem"
	"github.com/stretchr/testify/require"
)

func Test_Driver_00(t *testing.T) {
	var (
		w    = workload(t)
		jobs []Job
	)
	// Every ordering of a 2x2x... split of X and Y.
	for x := 1; x <= 8; x *= 2 {
		for y := 1; y <= 4; y *= 2 {
			nest := loop.NewNest(
				loop.Descriptor{Dimension: 0, Bound: x},
				loop.Descriptor{Dimension: 1, Bound: y},
				loop.Descriptor{Dimension: 0, Bound: 8 / x, StorageLevel: 1},
				loop.Descriptor{Dimension: 1, Bound: 4 / y, StorageLevel: 1},
			)
			jobs = append(jobs, Job{Name: fmt.Sprintf("x%d_y%d", x, y), Workload: w, Nest: nest})
		}
	}
	//
	sequential, err := NewDriver(analysis.DefaultConfig(), 1).Evaluate(context.Background(), jobs)
	require.NoError(t, err)
	parallel, err := NewDriver(analysis.DefaultConfig(), 4).Evaluate(context.Background(), jobs)
	require.NoError(t, err)
	//
	require.Len(t, parallel, len(jobs))
	//
	for i := range jobs {
		require.NoError(t, parallel[i].Err)
		require.Equal(t, jobs[i].Name, parallel[i].Name)
		require.Equal(t, sequential[i].Tiles, parallel[i].Tiles)
		require.Equal(t, sequential[i].Sizes, parallel[i].Sizes)
		require.Equal(t, uint64(32), parallel[i].Tiles.Compute.Operations)
	}
}

func Test_Driver_01(t *testing.T) {
	var (
		w      = workload(t)
		approx = analysis.DefaultConfig().WithMulticast(analysis.Approximate)
		good   = loop.NewNest(loop.Descriptor{Dimension: 0, Bound: 8}, loop.Descriptor{Dimension: 1, Bound: 4,
			StorageLevel: 1})
		// Reaches beyond the bound of X
		bad = loop.NewNest(loop.Descriptor{Dimension: 0, Bound: 16}, loop.Descriptor{Dimension: 1, Bound: 4,
			StorageLevel: 1})
		jobs = []Job{{Name: "good", Workload: w, Nest: good}, {Name: "bad", Workload: w, Nest: bad},
			{Name: "approx", Workload: w, Nest: good, Config: &approx}}
	)
	//
	results, err := NewDriver(analysis.DefaultConfig(), 2).Evaluate(context.Background(), jobs)
	require.NoError(t, err)
	require.NoError(t, results[0].Err)
	require.ErrorIs(t, results[1].Err, analysis.ErrOutOfRange)
	require.NoError(t, results[2].Err)
	require.Equal(t, results[0].Tiles, results[2].Tiles)
	//
	ranked := Rank(results)
	require.Len(t, ranked, 2)
	require.LessOrEqual(t, ranked[0].Traffic(), ranked[1].Traffic())
}

func Test_Driver_02(t *testing.T) {
	var (
		w    = workload(t)
		nest = loop.NewNest(loop.Descriptor{Dimension: 0, Bound: 8}, loop.Descriptor{Dimension: 1, Bound: 4,
			StorageLevel: 1})
		ctx, cancel = context.WithCancel(context.Background())
	)
	//
	cancel()
	//
	results, err := NewDriver(analysis.DefaultConfig(), 1).Evaluate(ctx, []Job{{Name: "x", Workload: w, Nest: nest}})
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 1)
	require.Equal(t, "x", results[0].Name)
	require.ErrorIs(t, results[0].Err, context.Canceled)
	require.Empty(t, Rank(results))
}

// Matrix-vector product: Y[x] += A[x,y] * V[y]
func workload(t *testing.T) *problem.Workload {
	shape := &problem.Shape{
		Name:       "mv",
		Dimensions: []string{"X", "Y"},
		DataSpaces: []problem.DataSpace{
			{Name: "A", Projection: []problem.Expression{{{Dimension: 0, Coefficient: 1}},
				{{Dimension: 1, Coefficient: 1}}}},
			{Name: "V", Projection: []problem.Expression{{{Dimension: 1, Coefficient: 1}}}},
			{Name: "Y", ReadWrite: true, Projection: []problem.Expression{{{Dimension: 0, Coefficient: 1}}}},
		},
	}
	//
	w, err := problem.NewWorkload(shape, []int{8, 4})
	require.NoError(t, err)
	//
	return w
}
