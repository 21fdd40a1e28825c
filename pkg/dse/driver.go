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
package dse

import (
	"context"
	"runtime"
	"slices"
	"time"

	"github.com/consensys/go-loopnest/pkg/analysis"
	"github.com/consensys/go-loopnest/pkg/loop"
	"github.com/consensys/go-loopnest/pkg/problem"
	"github.com/consensys/go-loopnest/pkg/tiling"
	"github.com/consensys/go-loopnest/pkg/util"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Job identifies one mapping to be evaluated.
type Job struct {
	Name     string
	Workload *problem.Workload
	Nest     *loop.Nest
	// Config overrides the driver's configuration for this job, if given.
	Config *analysis.Config
}

// Result holds the outcome of evaluating one job.  A mapping which failed to
// analyse is reported through Err, and is not retried.
type Result struct {
	Name    string
	Tiles   tiling.CompoundTileNest
	Sizes   []problem.PerDataSpace[uint64]
	Elapsed time.Duration
	Err     error
}

// Traffic returns the number of reads from the outermost storage level, summed
// over all data spaces.
func (p *Result) Traffic() uint64 {
	var total uint64
	//
	for _, tiles := range p.Tiles.DataMovement {
		if len(tiles) > 0 {
			total += tiles[0].TotalAccesses()
		}
	}
	//
	return total
}

// Driver evaluates many independent mappings concurrently.  Each evaluation
// exclusively owns one analysis engine, and engines are recycled between jobs.
type Driver struct {
	config      analysis.Config
	parallelism int
	engines     chan *analysis.NestAnalysis
}

// NewDriver constructs a driver running at most parallelism analyses at once
// (or one per CPU, if parallelism is not positive).
func NewDriver(config analysis.Config, parallelism int) *Driver {
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	//
	return &Driver{config, parallelism, make(chan *analysis.NestAnalysis, parallelism)}
}

// Parallelism returns the number of analyses run concurrently.
func (p *Driver) Parallelism() int {
	return p.parallelism
}

// Evaluate runs every job, returning results in the order of the jobs.  An
// error is returned only if the context is cancelled before every job has
// been started, in which case the jobs not started report that error.
func (p *Driver) Evaluate(ctx context.Context, jobs []Job) ([]Result, error) {
	var (
		results = make([]Result, len(jobs))
		sem     = semaphore.NewWeighted(int64(p.parallelism))
		group   errgroup.Group
		stats   = time.Now()
	)
	//
	for i := range jobs {
		err := ctx.Err()
		//
		if err == nil {
			err = sem.Acquire(ctx, 1)
		}
		//
		if err != nil {
			// Let those already started finish.
			_ = group.Wait()
			//
			for j := i; j < len(jobs); j++ {
				results[j] = Result{Name: jobs[j].Name, Err: err}
			}
			//
			return results, err
		}
		//
		group.Go(func() error {
			defer sem.Release(1)
			//
			results[i] = p.evaluate(&jobs[i])
			//
			return nil
		})
	}
	//
	err := group.Wait()
	log.Debugf("evaluated %d mappings in %s (parallelism %d)", len(jobs), time.Since(stats), p.parallelism)
	//
	return results, err
}

func (p *Driver) evaluate(job *Job) Result {
	var (
		engine = p.acquire()
		result = Result{Name: job.Name}
		stats  = util.NewPerfStats()
		config = p.config
	)
	//
	defer p.release(engine)
	//
	if job.Config != nil {
		config = *job.Config
	}
	//
	engine.Configure(config)
	//
	if result.Err = engine.Init(job.Workload, job.Nest); result.Err != nil {
		log.Debugf("discarding mapping %s: %v", job.Name, result.Err)
		return result
	} else if result.Err = engine.ComputeWorkingSets(); result.Err != nil {
		log.Debugf("discarding mapping %s: %v", job.Name, result.Err)
		return result
	}
	//
	result.Tiles, result.Err = engine.GetCompoundTileNest()
	//
	if result.Err == nil {
		result.Sizes, result.Err = engine.GetWorkingSetSizes()
	}
	//
	result.Elapsed = stats.Elapsed()
	stats.Log(job.Name)
	//
	return result
}

// Take an idle engine, or construct a fresh one.
func (p *Driver) acquire() *analysis.NestAnalysis {
	select {
	case engine := <-p.engines:
		return engine
	default:
		return analysis.NewNestAnalysis(p.config)
	}
}

// Return an engine to the pool, discarding it if the pool is full.
func (p *Driver) release(engine *analysis.NestAnalysis) {
	engine.Reset()
	//
	select {
	case p.engines <- engine:
	default:
	}
}

// Rank orders successful results by increasing outermost traffic, dropping
// any which failed.
func Rank(results []Result) []Result {
	var ranked []Result
	//
	for _, r := range results {
		if r.Err == nil {
			ranked = append(ranked, r)
		}
	}
	//
	slices.SortStableFunc(ranked, func(a, b Result) int {
		ta, tb := a.Traffic(), b.Traffic()
		//
		switch {
		case ta < tb:
			return -1
		case ta > tb:
			return 1
		default:
			return 0
		}
	})
	//
	return ranked
}
