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
	"testing"

	"github.com/consensys/go-loopnest/pkg/loop"
	"github.com/stretchr/testify/require"
)

func Test_Serialize_00(t *testing.T) {
	checkRoundTrip(t, DefaultConfig(), 0)
}

func Test_Serialize_01(t *testing.T) {
	checkRoundTrip(t, DefaultConfig(), 1)
}

func Test_Serialize_02(t *testing.T) {
	config := DefaultConfig().WithMulticast(Approximate).WithLevelMulticast(1, Accurate)
	restored := checkRoundTrip(t, config, SERIAL_VERSION)
	// Version 1 carries the configuration
	require.Equal(t, config, restored.Config())
}

func Test_Serialize_03(t *testing.T) {
	config := DefaultConfig().WithMulticast(Approximate)
	restored := checkRoundTrip(t, config, 0)
	// Version 0 predates the configuration
	require.Equal(t, DefaultConfig(), restored.Config())
}

func Test_Serialize_04(t *testing.T) {
	var (
		w    = newWorkload(t, []string{"X", "K"}, []int{2, 4}, dataSpace("A", 0), dataSpace("B", 0, 1))
		nest = loop.NewNest(temporal(0, 2, 0), spatial(loop.SpaceX, 1, 4, 1))
		a    = analyse(t, DefaultConfig(), w, nest)
	)
	//
	data, err := a.MarshalBinary()
	require.NoError(t, err)
	//
	var restored NestAnalysis
	require.NoError(t, restored.UnmarshalBinary(data))
	require.Equal(t, workingSets(t, a), workingSets(t, &restored))
}

// Run a linked spatial analysis, then check that decoding it yields identical
// results.
func checkRoundTrip(t *testing.T, config Config, version uint16) *NestAnalysis {
	var (
		w      = newWorkload(t, []string{"X", "K", "T"}, []int{2, 2, 2}, dataSpace("A", 1, 2), tensor("B", 0, 2))
		linked = spatial(loop.SpaceX, 1, 2, 1)
		buffer bytes.Buffer
	)
	//
	linked.LinkedSpatial = true
	//
	a := analyse(t, config, w, loop.NewNest(temporal(0, 2, 0), linked, temporal(2, 2, 1)))
	require.NoError(t, a.EncodeVersion(&buffer, version))
	//
	restored, err := Decode(&buffer)
	require.NoError(t, err)
	//
	expectedBody, err := a.GetBodyInfo()
	require.NoError(t, err)
	actualBody, err := restored.GetBodyInfo()
	require.NoError(t, err)
	expectedSizes, err := a.GetWorkingSetSizes()
	require.NoError(t, err)
	actualSizes, err := restored.GetWorkingSetSizes()
	require.NoError(t, err)
	//
	require.Equal(t, workingSets(t, a), workingSets(t, restored))
	require.Equal(t, expectedBody, actualBody)
	require.Equal(t, expectedSizes, actualSizes)
	//
	return restored
}
