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
	"fmt"
	"strings"

	"github.com/consensys/go-loopnest/pkg/loop"
	"github.com/consensys/go-loopnest/pkg/problem"
	"github.com/consensys/go-loopnest/pkg/tiling"
	"github.com/consensys/go-loopnest/pkg/util"
	log "github.com/sirupsen/logrus"
)

// NestAnalysis computes, for a fixed mapping of a workload onto a memory
// hierarchy, the working sets touched at every level of the hierarchy along
// with the reuse, multicast and network statistics which follow from them.
//
// An instance holds a large amount of mutable state during a traversal, and
// must not be used by more than one goroutine at a time.  Independent
// mappings can be analysed concurrently using one instance each.
type NestAnalysis struct {
	config Config
	// Borrowed for the duration of one Init..query window.
	workload *problem.Workload
	nest     *loop.Nest

	// Live state, one entry per loop level (index 0 innermost).
	nestState []LoopState
	// Identifies the spatial element whose working set is currently being
	// computed.  Updated by recursive calls.
	spatialID uint64

	workingSets tiling.CompoundTileNest
	bodyInfo    tiling.BodyInfo

	// Memoization structures to accelerate the index transform.
	perLevelDimScales [][]int
	curTransform      problem.Point
	moldLow           []problem.Point
	moldHigh          []problem.Point
	highScratch       problem.Point
	// scratch coordinates, per data space, used when projecting points.
	coords [][]int

	// Per-level properties.
	numSpatialElems      []uint64
	spatialFanouts       []uint64
	horizontalSizes      []uint64
	verticalSizes        []uint64
	storageBoundaryLevel []bool
	masterSpatialLevel   []bool
	linkedSpatialLevel   []bool
	strategies           []multicastStrategy
	storageTiles         []storageTile

	initialised         bool
	workingSetsComputed bool
}

// storageTile identifies the range of loop levels making up one storage level.
type storageTile struct {
	lo, hi int
	// master spatial level within this tile, or -1.
	master int
}

// New constructs an analysis engine using the default configuration.
func New() *NestAnalysis {
	return NewNestAnalysis(DefaultConfig())
}

// NewNestAnalysis constructs an analysis engine with a given configuration.
func NewNestAnalysis(config Config) *NestAnalysis {
	return &NestAnalysis{config: config}
}

// Config returns the configuration of this analysis.
func (p *NestAnalysis) Config() Config {
	return p.config
}

// Configure replaces the configuration of this analysis, discarding any live
// state.  This allows one instance to serve mappings with different settings.
func (p *NestAnalysis) Configure(config Config) {
	p.Reset()
	p.config = config
}

// Init prepares this analysis for a given workload and nest, (re)building all
// memoized per-level tables and the live state.  Neither the workload nor the
// nest are retained beyond the next Init or Reset.
func (p *NestAnalysis) Init(workload *problem.Workload, nest *loop.Nest) error {
	p.Reset()
	//
	if workload == nil || nest == nil {
		return invalidNest("Init", "missing workload or nest")
	} else if err := nest.Validate(workload.NumDimensions()); err != nil {
		return &Error{Kind: InvalidNest, Op: "Init", Message: "malformed nest", Err: err}
	}
	//
	p.workload = workload
	p.nest = nest
	//
	if err := p.initializeNestProperties(); err != nil {
		p.Reset()
		return err
	}
	//
	p.initializeLiveState()
	p.initialised = true
	//
	log.Debugf("initialised analysis of %d levels (%d storage levels, fan-outs %v)", nest.Len(),
		len(p.storageTiles), p.spatialFanouts)
	//
	return nil
}

// Reset clears all live and memoized state, retaining allocated storage so
// that this instance can be reused for a different nest.
func (p *NestAnalysis) Reset() {
	p.workload = nil
	p.nest = nil
	p.nestState = p.nestState[:0]
	p.spatialID = 0
	p.workingSets = tiling.CompoundTileNest{}
	p.bodyInfo = tiling.BodyInfo{}
	p.perLevelDimScales = p.perLevelDimScales[:0]
	p.curTransform = p.curTransform[:0]
	p.moldLow = p.moldLow[:0]
	p.moldHigh = p.moldHigh[:0]
	p.highScratch = p.highScratch[:0]
	p.coords = p.coords[:0]
	p.numSpatialElems = p.numSpatialElems[:0]
	p.spatialFanouts = p.spatialFanouts[:0]
	p.horizontalSizes = p.horizontalSizes[:0]
	p.verticalSizes = p.verticalSizes[:0]
	p.storageBoundaryLevel = p.storageBoundaryLevel[:0]
	p.masterSpatialLevel = p.masterSpatialLevel[:0]
	p.linkedSpatialLevel = p.linkedSpatialLevel[:0]
	p.strategies = p.strategies[:0]
	p.storageTiles = p.storageTiles[:0]
	p.initialised = false
	p.workingSetsComputed = false
}

// ComputeWorkingSets runs the full recursive traversal of the nest.  This can
// be called exactly once per Init.
func (p *NestAnalysis) ComputeWorkingSets() error {
	if !p.initialised {
		return newError(AnalysisNotReady, "ComputeWorkingSets", "Init has not been called")
	} else if p.workingSetsComputed {
		return newError(AlreadyComputed, "ComputeWorkingSets", "working sets already computed")
	}
	//
	stats := util.NewPerfStats()
	p.bodyInfo = tiling.BodyInfo{
		Accesses:          make([]uint64, p.workload.NumDataSpaces()),
		ReplicationFactor: p.computeReplicationFactor(),
	}
	//
	if _, _, err := p.computeWorkingSetsRecursive(len(p.nestState)-1, false); err != nil {
		return err
	}
	//
	p.collectWorkingSets()
	p.workingSetsComputed = true
	stats.Log("nest analysis")
	//
	return nil
}

// ProbeOperationSpace returns the operation space touched by a given level at
// the current indices of the levels outer to it, without modifying any
// accumulated statistics.  The indices of the level and those inner to it are
// left at zero.
func (p *NestAnalysis) ProbeOperationSpace(level int) (problem.OperationSpace, error) {
	if !p.initialised {
		return problem.OperationSpace{}, newError(AnalysisNotReady, "ProbeOperationSpace", "Init has not been called")
	} else if level < 0 || level >= len(p.nestState) {
		return problem.OperationSpace{}, invalidNest("ProbeOperationSpace", "no such level %d", level)
	} else if p.nestState[level].Descriptor.IsSpatial() && !p.masterSpatialLevel[level] {
		return problem.OperationSpace{}, invalidNest("ProbeOperationSpace",
			"level %d is not the master of its spatial loops", level)
	}
	//
	p.resetIndices(level)
	pointSet, _, err := p.computeWorkingSetsRecursive(level, true)
	//
	return pointSet, err
}

// GetWorkingSets returns, for every data space, the tile statistics of each
// storage level (outermost first).
func (p *NestAnalysis) GetWorkingSets() (problem.PerDataSpace[[]tiling.TileInfo], error) {
	if !p.workingSetsComputed {
		return nil, newError(AnalysisNotReady, "GetWorkingSets", "working sets not computed")
	}
	//
	nest := p.workingSets.Clone()
	//
	return nest.DataMovement, nil
}

// GetBodyInfo returns statistics of the compute body.
func (p *NestAnalysis) GetBodyInfo() (tiling.BodyInfo, error) {
	if !p.workingSetsComputed {
		return tiling.BodyInfo{}, newError(AnalysisNotReady, "GetBodyInfo", "working sets not computed")
	}
	//
	nest := p.workingSets.Clone()
	//
	return nest.Compute, nil
}

// GetCompoundTileNest returns both the tiles and the compute body.
func (p *NestAnalysis) GetCompoundTileNest() (tiling.CompoundTileNest, error) {
	if !p.workingSetsComputed {
		return tiling.CompoundTileNest{}, newError(AnalysisNotReady, "GetCompoundTileNest", "working sets not computed")
	}
	//
	return p.workingSets.Clone(), nil
}

// GetWorkingSetSizes returns the largest operation space seen at each loop
// level (innermost first), for each data space.  This is a cheap summary for
// screening mappings before the full statistics are examined.
func (p *NestAnalysis) GetWorkingSetSizes() ([]problem.PerDataSpace[uint64], error) {
	if !p.workingSetsComputed {
		return nil, newError(AnalysisNotReady, "GetWorkingSetSizes", "working sets not computed")
	}
	//
	sizes := make([]problem.PerDataSpace[uint64], len(p.nestState))
	//
	for level, cur := range p.nestState {
		for _, elem := range cur.LiveState {
			if sizes[level] == nil {
				sizes[level] = problem.NewPerDataSpace[uint64](len(elem.MaxSize))
			}
			//
			for ds, n := range elem.MaxSize {
				sizes[level][ds] = max(sizes[level][ds], n)
			}
		}
	}
	//
	return sizes, nil
}

// NumLevels returns the number of loop levels under analysis.
func (p *NestAnalysis) NumLevels() int {
	return len(p.nestState)
}

// IsMasterSpatial checks whether a given level is a master spatial level.
func (p *NestAnalysis) IsMasterSpatial(level int) bool {
	return p.masterSpatialLevel[level]
}

// IsLinkedSpatial checks whether a given level is a linked spatial level.
func (p *NestAnalysis) IsLinkedSpatial(level int) bool {
	return p.linkedSpatialLevel[level]
}

// IsStorageBoundary checks whether a given level opens a new storage tile.
func (p *NestAnalysis) IsStorageBoundary(level int) bool {
	return p.storageBoundaryLevel[level]
}

// SpatialFanout returns the fan-out of a given level, which is 1 for temporal
// levels and 0 for spatial levels other than the master.
func (p *NestAnalysis) SpatialFanout(level int) uint64 {
	return p.spatialFanouts[level]
}

// NumSpatialElems returns the number of spatial elements replicating a level.
func (p *NestAnalysis) NumSpatialElems(level int) uint64 {
	return p.numSpatialElems[level]
}

func (p *NestAnalysis) computeReplicationFactor() uint64 {
	n := uint64(1)
	//
	for _, cur := range p.nestState {
		if cur.Descriptor.IsSpatial() {
			n *= uint64(cur.Descriptor.Bound)
		}
	}
	//
	return n
}

func (p *NestAnalysis) String() string {
	var builder strings.Builder
	//
	for level := len(p.nestState) - 1; level >= 0; level-- {
		cur := &p.nestState[level]
		builder.WriteString(fmt.Sprintf("%2d: %s", level, cur.Descriptor))
		//
		if level < len(p.masterSpatialLevel) && p.masterSpatialLevel[level] {
			builder.WriteString(fmt.Sprintf(" [master fanout=%d]", p.spatialFanouts[level]))
		}
		//
		if level < len(p.linkedSpatialLevel) && p.linkedSpatialLevel[level] {
			builder.WriteString(" [linked]")
		}
		//
		builder.WriteString(fmt.Sprintf(" x%d\n", len(cur.LiveState)))
	}
	//
	if p.workingSetsComputed {
		for ds, tiles := range p.workingSets.DataMovement {
			builder.WriteString(fmt.Sprintf("data space %d:\n", ds))
			//
			for i := range tiles {
				builder.WriteString("  ")
				builder.WriteString(tiles[i].String())
				builder.WriteString("\n")
			}
		}
		//
		builder.WriteString(fmt.Sprintf("body: %d operations on %d units\n", p.workingSets.Compute.Operations,
			p.workingSets.Compute.ReplicationFactor))
	}
	//
	return builder.String()
}
