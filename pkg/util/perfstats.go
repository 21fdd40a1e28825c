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
package util

import (
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

// PerfStats records the time and memory consumed by some piece of work, such
// as the analysis of one mapping.
type PerfStats struct {
	start time.Time
	// Total bytes allocated at the start
	alloc uint64
	// Number of heap objects allocated at the start
	mallocs uint64
	// Number of gc cycles at the start
	gcs uint32
}

// NewPerfStats takes a snapshot of the current time and memory usage.
func NewPerfStats() *PerfStats {
	var m runtime.MemStats
	//
	runtime.ReadMemStats(&m)
	//
	return &PerfStats{time.Now(), m.TotalAlloc, m.Mallocs, m.NumGC}
}

// Elapsed returns the time since this snapshot was taken.
func (p *PerfStats) Elapsed() time.Duration {
	return time.Since(p.start)
}

// Log reports (at debug level) the time taken and memory allocated since this
// snapshot was taken.
func (p *PerfStats) Log(prefix string) {
	var m runtime.MemStats
	// Nothing to report
	if !log.IsLevelEnabled(log.DebugLevel) {
		return
	}
	//
	runtime.ReadMemStats(&m)
	//
	alloc := float64(m.TotalAlloc-p.alloc) / (1024 * 1024)
	objects := m.Mallocs - p.mallocs
	gcs := m.NumGC - p.gcs
	//
	log.Debugf("%s took %s allocating %.1f Mb in %d objects (%d GC cycles)", prefix, p.Elapsed(), alloc, objects, gcs)
}
