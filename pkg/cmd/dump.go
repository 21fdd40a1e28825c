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
	"bufio"
	"fmt"
	"os"

	"github.com/consensys/go-loopnest/pkg/analysis"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] analysis_file",
	Short: "print a serialised analysis.",
	Long: `Print the loop state and tiles of an analysis previously written by
	"analyze --out".  Data spaces are identified by index, since names are not
	retained.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		engine := readAnalysisFile(args[0])
		//
		if GetFlag(cmd, "loops") {
			fmt.Print(engine.String())
			return
		}
		//
		nest, err := engine.GetCompoundTileNest()
		if err != nil {
			fmt.Println(err)
			os.Exit(3)
		}
		//
		config := engine.Config()
		log.Debugf("%s multicast over %s operation spaces", config.Multicast, config.Representation)
		newReporter(cmd).printTileNest(nil, &nest)
	},
}

// Read a serialised analysis, or exit if this fails.
func readAnalysisFile(filename string) *analysis.NestAnalysis {
	file, err := os.Open(filename)
	//
	if err == nil {
		defer file.Close()
		//
		var engine *analysis.NestAnalysis
		//
		if engine, err = analysis.Decode(bufio.NewReader(file)); err == nil {
			return engine
		}
	}
	// Handle error
	fmt.Println(err)
	os.Exit(2)
	// unreachable
	return nil
}

// Write a completed analysis to a binary file, or exit if this fails.
func writeAnalysisFile(engine *analysis.NestAnalysis, filename string) {
	file, err := os.Create(filename)
	//
	if err == nil {
		writer := bufio.NewWriter(file)
		//
		if err = engine.Encode(writer); err == nil {
			err = writer.Flush()
		}
		//
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}
	//
	if err != nil {
		fmt.Println(err)
		os.Exit(4)
	}
	//
	log.Debugf("wrote analysis to %s", filename)
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().Bool("loops", false, "print the state of every loop rather than the tiles")
}
