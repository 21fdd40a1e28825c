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

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] mapping_file",
	Short: "analyse the working sets of a mapping.",
	Long: `Analyse a given mapping of a workload onto a memory hierarchy, reporting the
	working set, reuse and multicast statistics of each storage level.  Settings
	given on the command-line override those embedded in the mapping file.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		output := GetString(cmd, "out")
		sizes := GetFlag(cmd, "sizes")
		// Run analysis
		m := readMappingFile(args[0])
		engine := runAnalysis(cmd, m)
		report := newReporter(cmd)
		names := dataSpaceNames(m.Workload)
		//
		if sizes {
			ws, err := engine.GetWorkingSetSizes()
			if err != nil {
				fmt.Println(err)
				os.Exit(3)
			}
			//
			report.printSizes(names, ws)
		} else {
			nest, err := engine.GetCompoundTileNest()
			if err != nil {
				fmt.Println(err)
				os.Exit(3)
			}
			//
			report.printTileNest(names, &nest)
		}
		// Serialise (if requested)
		if output != "" {
			writeAnalysisFile(engine, output)
		}
	},
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringP("out", "o", "", "write the completed analysis to a binary file")
	analyzeCmd.Flags().Bool("sizes", false, "report only the working set size of each loop")
}
