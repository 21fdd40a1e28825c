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
	"bytes"
	"errors"
	"testing"

	"github.com/consensys/go-loopnest/pkg/loop"
	"github.com/stretchr/testify/require"
)

func Test_Errors_00(t *testing.T) {
	var (
		w = newWorkload(t, []string{"X", "Y"}, []int{4, 3}, dataSpace("A", 0))
		a = New()
	)
	// Unknown dimension
	err := a.Init(w, loop.NewNest(temporal(2, 3, 0)))
	require.ErrorIs(t, err, ErrInvalidNest)
	// Storage boundaries left unmarked
	err = a.Init(w, &loop.Nest{Levels: []loop.Descriptor{temporal(0, 4, 0), temporal(1, 3, 1)}})
	require.ErrorIs(t, err, ErrInvalidNest)
	// Master flag on a spatial level which is not outermost in its run
	inner := spatial(loop.SpaceX, 0, 2, 1)
	inner.MasterSpatial = true
	err = a.Init(w, loop.NewNest(temporal(1, 3, 0), inner, spatial(loop.SpaceY, 0, 2, 1)))
	require.ErrorIs(t, err, ErrInvalidNest)
	// Linked flag on a temporal level
	linked := temporal(0, 4, 1)
	linked.LinkedSpatial = true
	err = a.Init(w, loop.NewNest(temporal(1, 3, 0), linked))
	require.ErrorIs(t, err, ErrInvalidNest)
	//
	var aerr *Error
	require.True(t, errors.As(err, &aerr))
	require.Equal(t, InvalidNest, aerr.Kind)
	require.Equal(t, "Init", aerr.Op)
	require.False(t, errors.Is(err, ErrOutOfRange))
}

func Test_Errors_01(t *testing.T) {
	var (
		w = newWorkload(t, []string{"X", "Y"}, []int{4, 3}, dataSpace("A", 0))
		a = New()
	)
	//
	require.ErrorIs(t, a.ComputeWorkingSets(), ErrAnalysisNotReady)
	//
	_, err := a.ProbeOperationSpace(0)
	require.ErrorIs(t, err, ErrAnalysisNotReady)
	//
	require.NoError(t, a.Init(w, loop.NewNest(temporal(1, 3, 0), temporal(0, 4, 1))))
	//
	_, err = a.GetWorkingSets()
	require.ErrorIs(t, err, ErrAnalysisNotReady)
	_, err = a.GetBodyInfo()
	require.ErrorIs(t, err, ErrAnalysisNotReady)
	_, err = a.GetWorkingSetSizes()
	require.ErrorIs(t, err, ErrAnalysisNotReady)
	require.ErrorIs(t, a.Encode(&bytes.Buffer{}), ErrAnalysisNotReady)
	//
	require.NoError(t, a.ComputeWorkingSets())
	require.ErrorIs(t, a.ComputeWorkingSets(), ErrAlreadyComputed)
	// Reset discards the results
	a.Reset()
	_, err = a.GetWorkingSets()
	require.ErrorIs(t, err, ErrAnalysisNotReady)
}

func Test_Errors_02(t *testing.T) {
	var (
		w = newWorkload(t, []string{"X", "Y"}, []int{4, 3}, dataSpace("A", 0))
		a = New()
	)
	// The nest reaches beyond X=3
	err := a.Init(w, loop.NewNest(temporal(1, 3, 0), temporal(0, 5, 1)))
	require.ErrorIs(t, err, ErrOutOfRange)
	//
	require.NoError(t, a.Init(w, loop.NewNest(temporal(1, 3, 0), temporal(0, 4, 1))))
	//
	_, err = a.IndexToProblemPoint([]int{3, 0})
	require.ErrorIs(t, err, ErrOutOfRange)
	require.ErrorIs(t, a.SetIndices([]int{0, -1}), ErrOutOfRange)
	require.ErrorIs(t, a.SetIndices([]int{0}), ErrInvalidNest)
}

func Test_Errors_03(t *testing.T) {
	var (
		w      = newWorkload(t, []string{"X", "K"}, []int{1, 4}, dataSpace("A", 0))
		nest   = loop.NewNest(temporal(0, 1, 0), spatial(loop.SpaceX, 1, 4, 1))
		config = DefaultConfig().WithMaxAccurateElements(2)
	)
	//
	err := NewNestAnalysis(config).Init(w, nest)
	require.ErrorIs(t, err, ErrAccurateTooExpensive)
	// An explicit approximate override is accepted.
	require.NoError(t, NewNestAnalysis(config.WithLevelMulticast(1, Approximate)).Init(w, nest))
	require.NoError(t, NewNestAnalysis(config.WithMulticast(Approximate)).Init(w, nest))
	// Overrides do not alias
	require.Nil(t, config.LevelMulticast)
}

func Test_Errors_04(t *testing.T) {
	var (
		w      = newWorkload(t, []string{"X", "Y"}, []int{4, 3}, dataSpace("A", 0))
		a      = analyse(t, DefaultConfig(), w, loop.NewNest(temporal(1, 3, 0), temporal(0, 4, 1)))
		buffer bytes.Buffer
	)
	//
	require.ErrorIs(t, a.EncodeVersion(&buffer, SERIAL_VERSION+1), ErrUnknownVersion)
	//
	buffer.Reset()
	buffer.Write(LOOPNEST[:])
	buffer.Write([]byte{0xff, 0xff})
	//
	_, err := Decode(&buffer)
	require.ErrorIs(t, err, ErrUnknownVersion)
	//
	_, err = Decode(bytes.NewReader([]byte("notanest")))
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrUnknownVersion))
}
