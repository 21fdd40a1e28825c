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
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is set at link time (e.g. -ldflags "-X ...cmd.Version=v1.2.0").
var Version string

var rootCmd = &cobra.Command{
	Use:   "go-loopnest",
	Short: "A working-set analyser for loop nests.",
	Long: `Analyse how a loop nest mapping moves data through a memory hierarchy,
	reporting working-set sizes, reuse, multicast and network statistics per level.`,
	PersistentPreRun: configureLogging,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !GetFlag(cmd, "version") {
			return cmd.Help()
		}
		//
		fmt.Println(versionString())
		//
		return nil
	},
}

// Execute runs the command selected on the command line, exiting with a
// non-zero status if it fails.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func configureLogging(cmd *cobra.Command, args []string) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05"})
	//
	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}
}

// Determine the version of this executable, preferring one set at link time
// over that recorded by "go install".
func versionString() string {
	version := Version
	//
	if version == "" {
		version = "(unknown version)"
		//
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
			version = info.Main.Version
		}
	}
	//
	return "go-loopnest " + version
}

func init() {
	rootCmd.Flags().Bool("version", false, "report the version of this executable")
	//
	flags := rootCmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "increase logging verbosity")
	flags.Bool("no-colour", false, "disable coloured output")
	// Analysis settings, overriding those of a mapping file.
	flags.Bool("approximate", false, "use approximate multicast analysis")
	flags.Bool("bounding-box", false, "represent operation spaces by bounding boxes")
	flags.Uint("max-accurate", 0, "largest fan-out permitted for accurate multicast")
}
