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
package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path"

	"github.com/consensys/go-loopnest/pkg/analysis"
	"github.com/consensys/go-loopnest/pkg/dse"
	"github.com/consensys/go-loopnest/pkg/mapping"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Uint("count", 8, "Number of mappings to generate")
	rootCmd.Flags().Uint("levels", 3, "Number of storage levels")
	rootCmd.Flags().Uint("max-fanout", 16, "Maximum fan-out of any spatial run")
	rootCmd.Flags().Uint64("seed", 0, "Seed for the random generator")
	rootCmd.Flags().Bool("linked", false, "Link neighbouring spatial elements")
	rootCmd.Flags().Bool("check", false, "Only keep mappings which can be analysed")
	rootCmd.Flags().StringP("out", "o", ".", "Directory to write mappings into")
	rootCmd.Flags().BoolP("verbose", "v", false, "increase logging verbosity")
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nestgen [flags] model",
	Short: "Random mapping generator for go-loopnest.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		if getFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		var cfg NestGenConfig
		// Lookup model
		cfg.model = findModel(args[0])
		cfg.count = getUint(cmd, "count")
		cfg.levels = max(getUint(cmd, "levels"), 1)
		cfg.maxFanout = max(getUint(cmd, "max-fanout"), 1)
		cfg.linked = getFlag(cmd, "linked")
		seed, _ := cmd.Flags().GetUint64("seed")
		output, _ := cmd.Flags().GetString("out")
		// Generate & filter
		rng := rand.New(rand.NewPCG(seed, uint64(cfg.count)))
		mappings := generateMappings(cfg, rng)
		//
		if getFlag(cmd, "check") {
			mappings = checkMappings(mappings)
		}
		// Write out
		writeMappings(output, mappings)
	},
}

// NestGenConfig encapsulates configuration related to mapping generation.
type NestGenConfig struct {
	model     Model
	count     uint
	levels    uint
	maxFanout uint
	linked    bool
}

// Model describes a workload for which mappings are generated.
type Model struct {
	// Name of the model in question
	Name     string
	Workload mapping.WorkloadSpec
}

var models []Model = []Model{
	{"mv", mapping.WorkloadSpec{Name: "mv", Dimensions: []string{"X", "Y"},
		Bounds: map[string]int{"X": 16, "Y": 12},
		DataSpaces: []mapping.DataSpaceSpec{
			{Name: "A", Projection: []string{"X", "Y"}},
			{Name: "V", Projection: []string{"Y"}},
			{Name: "Z", ReadWrite: true, Projection: []string{"X"}},
		}}},
	{"matmul", mapping.WorkloadSpec{Name: "matmul", Dimensions: []string{"M", "N", "K"},
		Bounds: map[string]int{"M": 8, "N": 8, "K": 12},
		DataSpaces: []mapping.DataSpaceSpec{
			{Name: "A", Projection: []string{"M", "K"}},
			{Name: "B", Projection: []string{"K", "N"}},
			{Name: "Z", ReadWrite: true, Projection: []string{"M", "N"}},
		}}},
	{"conv1d", mapping.WorkloadSpec{Name: "conv1d", Dimensions: []string{"P", "R", "K"},
		Bounds: map[string]int{"P": 16, "R": 3, "K": 4},
		DataSpaces: []mapping.DataSpaceSpec{
			{Name: "W", Projection: []string{"R", "K"}},
			{Name: "I", Projection: []string{"P+R"}},
			{Name: "O", ReadWrite: true, Projection: []string{"P", "K"}},
		}}},
}

func findModel(name string) Model {
	for _, m := range models {
		if m.Name == name {
			return m
		}
	}
	// Failure
	fmt.Printf("unknown model \"%s\"\n", name)
	os.Exit(1)
	//
	return Model{}
}

// Generate a number of random mappings of the configured model.  Each
// dimension's bound is split into one factor per storage level, and the
// innermost loops of a storage level (other than the first) may be unrolled in
// space.
func generateMappings(cfg NestGenConfig, rng *rand.Rand) []*mapping.Mapping {
	var mappings []*mapping.Mapping
	//
	for i := uint(0); i < cfg.count; i++ {
		file := mapping.File{Workload: cfg.model.Workload, Nest: generateNest(cfg, rng)}
		//
		m, err := file.Build()
		// Generated nests should always be well-formed.
		if err != nil {
			panic(err)
		}
		//
		m.Name = fmt.Sprintf("%s_%d", cfg.model.Name, i)
		mappings = append(mappings, m)
	}
	//
	return mappings
}

func generateNest(cfg NestGenConfig, rng *rand.Rand) []mapping.LevelSpec {
	var (
		dims    = cfg.model.Workload.Dimensions
		factors = make([][]int, cfg.levels)
		nest    []mapping.LevelSpec
	)
	//
	for s := range factors {
		factors[s] = make([]int, len(dims))
		//
		for d := range dims {
			factors[s][d] = 1
		}
	}
	// Distribute the prime factors of each bound across storage levels.
	for d, dim := range dims {
		for _, f := range primeFactors(cfg.model.Workload.Bounds[dim]) {
			factors[rng.IntN(len(factors))][d] *= f
		}
	}
	//
	for s := range factors {
		var (
			order  = rng.Perm(len(dims))
			fanout = 1
			axis   = 0
			loops  []mapping.LevelSpec
		)
		//
		for _, d := range order {
			if factors[s][d] == 1 {
				continue
			}
			//
			l := mapping.LevelSpec{Dimension: dims[d], Bound: factors[s][d], StorageLevel: s}
			// Spatial loops come first, since they must be innermost.
			if s > 0 && axis < 2 && fanout*l.Bound <= int(cfg.maxFanout) && rng.IntN(2) == 0 {
				l.Spatial = []string{"X", "Y"}[axis]
				fanout *= l.Bound
				axis++
				loops = append([]mapping.LevelSpec{l}, loops...)
			} else {
				loops = append(loops, l)
			}
		}
		// Every storage level ends with a temporal loop, so that spatial runs
		// never touch.
		if len(loops) == 0 || loops[len(loops)-1].Spatial != "" {
			loops = append(loops, mapping.LevelSpec{Dimension: dims[0], Bound: 1, StorageLevel: s})
		}
		// Spatial loops were prepended, hence the outermost is first.
		if cfg.linked && axis > 0 {
			loops[0].Linked = true
		}
		//
		nest = append(nest, orderSpatial(loops, axis)...)
	}
	//
	return nest
}

// Spatial loops are collected outermost first, but nests list loops innermost
// first.  Also, X must sit inside Y.
func orderSpatial(loops []mapping.LevelSpec, n int) []mapping.LevelSpec {
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		loops[i], loops[j] = loops[j], loops[i]
	}
	//
	return loops
}

func primeFactors(n int) []int {
	var factors []int
	//
	for p := 2; p*p <= n; p++ {
		for n%p == 0 {
			factors = append(factors, p)
			n /= p
		}
	}
	//
	if n > 1 {
		factors = append(factors, n)
	}
	//
	return factors
}

// Analyse every mapping, dropping those which fail.
func checkMappings(mappings []*mapping.Mapping) []*mapping.Mapping {
	var (
		jobs   = make([]dse.Job, len(mappings))
		driver = dse.NewDriver(analysis.DefaultConfig(), 0)
		kept   []*mapping.Mapping
	)
	//
	for i, m := range mappings {
		jobs[i] = dse.Job{Name: m.Name, Workload: m.Workload, Nest: m.Nest}
	}
	//
	results, err := driver.Evaluate(context.Background(), jobs)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	for i, r := range results {
		if r.Err != nil {
			log.Infof("dropping %s: %s", r.Name, r.Err)
		} else {
			kept = append(kept, mappings[i])
		}
	}
	//
	return kept
}

func writeMappings(dir string, mappings []*mapping.Mapping) {
	for _, m := range mappings {
		bytes, err := mapping.Marshal(m.Workload, m.Nest)
		//
		if err == nil {
			filename := path.Join(dir, fmt.Sprintf("%s.yaml", m.Name))
			//
			if err = os.WriteFile(filename, bytes, 0644); err == nil {
				log.Debugf("wrote %s", filename)
				continue
			}
		}
		//
		fmt.Println(err)
		os.Exit(2)
	}
}

func getFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

func getUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}
