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
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/consensys/go-loopnest/pkg/analysis"
	"github.com/consensys/go-loopnest/pkg/dse"
	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch [flags] mapping_file(s)",
	Short: "analyse many mappings concurrently.",
	Long: `Analyse a number of mappings concurrently, reporting a one-line summary of
	each, ordered by the number of reads from the outermost storage level.
	Mappings which cannot be analysed are reported separately.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var (
			parallelism = GetInt(cmd, "parallel")
			driver      = dse.NewDriver(getConfig(cmd, analysis.DefaultConfig()), parallelism)
			jobs        = make([]dse.Job, len(args))
			report      = newReporter(cmd)
		)
		//
		for i, filename := range args {
			m := readMappingFile(filename)
			jobs[i] = dse.Job{Name: m.Name, Workload: m.Workload, Nest: m.Nest}
			// Embedded settings apply only to their own mapping
			if m.HasConfig {
				config := getConfig(cmd, m.Config)
				jobs[i].Config = &config
			}
		}
		// Stop starting new analyses on interrupt
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		//
		results, err := driver.Evaluate(ctx, jobs)
		//
		for _, r := range dse.Rank(results) {
			fmt.Fprintf(report.out, "%s: traffic %d in %s\n", r.Name, report.colour.Green(r.Traffic()), r.Elapsed)
		}
		//
		for _, r := range results {
			if r.Err != nil {
				fmt.Fprintf(report.out, "%s: %s\n", r.Name, report.colour.Red(r.Err.Error()))
			}
		}
		//
		if err != nil {
			fmt.Println(err)
			os.Exit(3)
		}
	},
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().IntP("parallel", "j", 0, "number of mappings analysed at once (default one per CPU)")
}
