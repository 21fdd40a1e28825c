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
	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe [flags] mapping_file",
	Short: "print the operation space of a single loop.",
	Long: `Print the operation space touched by one invocation of a given loop, with
	every enclosing loop at its first iteration.  No statistics are accumulated.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		level := GetInt(cmd, "level")
		m := readMappingFile(args[0])
		engine := analysis.NewNestAnalysis(getConfig(cmd, m.Config))
		//
		if err := engine.Init(m.Workload, m.Nest); err != nil {
			fmt.Printf("%s: %s\n", m.Name, err)
			os.Exit(3)
		}
		// Default to the outermost loop
		if level < 0 {
			level = engine.NumLevels() - 1
		}
		//
		space, err := engine.ProbeOperationSpace(level)
		if err != nil {
			fmt.Printf("%s: %s\n", m.Name, err)
			os.Exit(3)
		}
		//
		fmt.Printf("loop %d: %s\n", level, m.Nest.Levels[level])
		newReporter(cmd).printOperationSpace(dataSpaceNames(m.Workload), &space)
	},
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().IntP("level", "l", -1, "loop to probe (0 is innermost, default outermost)")
}
