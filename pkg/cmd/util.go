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
	"fmt"
	"os"

	"github.com/consensys/go-loopnest/pkg/analysis"
	"github.com/consensys/go-loopnest/pkg/mapping"
	"github.com/consensys/go-loopnest/pkg/problem"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetInt gets an expected int, or exits if an error arises.
func GetInt(cmd *cobra.Command, flag string) int {
	r, err := cmd.Flags().GetInt(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected unsigned int, or exits if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// getConfig determines the analysis configuration from the command-line
// flags.  Flags which were not given leave the base configuration untouched,
// such that settings embedded in a mapping file are respected.
func getConfig(cmd *cobra.Command, base analysis.Config) analysis.Config {
	config := base
	//
	if GetFlag(cmd, "approximate") {
		config = config.WithMulticast(analysis.Approximate)
	}
	//
	if GetFlag(cmd, "bounding-box") {
		config = config.WithRepresentation(problem.BoundingBox)
	}
	//
	if n := GetUint(cmd, "max-accurate"); n != 0 {
		config = config.WithMaxAccurateElements(n)
	}
	//
	return config
}

// Read a mapping file, or exit if this fails.
func readMappingFile(filename string) *mapping.Mapping {
	m, err := mapping.Load(filename)
	// Handle error
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return m
}

// Run the analysis of a mapping to completion, or exit if this fails.
func runAnalysis(cmd *cobra.Command, m *mapping.Mapping) *analysis.NestAnalysis {
	engine := analysis.NewNestAnalysis(getConfig(cmd, m.Config))
	//
	if err := engine.Init(m.Workload, m.Nest); err != nil {
		fmt.Printf("%s: %s\n", m.Name, err)
		os.Exit(3)
	} else if err := engine.ComputeWorkingSets(); err != nil {
		fmt.Printf("%s: %s\n", m.Name, err)
		os.Exit(3)
	}
	//
	return engine
}
