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
package cmd

import (
	"testing"

	"github.com/consensys/go-loopnest/pkg/analysis"
	"github.com/consensys/go-loopnest/pkg/problem"
	"github.com/stretchr/testify/require"
)

func Test_Root_00(t *testing.T) {
	saved := Version
	defer func() { Version = saved }()
	//
	Version = "v1.2.0"
	require.Equal(t, "go-loopnest v1.2.0", versionString())
	//
	Version = ""
	require.Contains(t, versionString(), "go-loopnest ")
}

// Command-line settings override those of a mapping, but only when given.
func Test_Root_01(t *testing.T) {
	base := analysis.DefaultConfig().WithMaxAccurateElements(16)
	//
	require.NoError(t, analyzeCmd.ParseFlags([]string{}))
	require.Equal(t, base, getConfig(analyzeCmd, base))
	//
	require.NoError(t, analyzeCmd.ParseFlags([]string{"--approximate", "--bounding-box", "--max-accurate", "64"}))
	//
	config := getConfig(analyzeCmd, base)
	require.Equal(t, analysis.Approximate, config.Multicast)
	require.Equal(t, problem.BoundingBox, config.Representation)
	require.Equal(t, uint(64), config.MaxAccurateElements)
}
