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
	"maps"

	"github.com/consensys/go-loopnest/pkg/problem"
)

// MulticastMode selects how sharing between spatial elements is computed.
type MulticastMode uint8

const (
	// Accurate computes the exact set of elements requiring each point.
	Accurate MulticastMode = iota
	// Approximate groups elements by the bounding boxes of their deltas.
	Approximate
)

func (m MulticastMode) String() string {
	switch m {
	case Accurate:
		return "accurate"
	case Approximate:
		return "approximate"
	default:
		return fmt.Sprintf("multicast(%d)", m)
	}
}

// DefaultMaxAccurateElements is the largest fan-out for which accurate
// multicast analysis is permitted by default.
const DefaultMaxAccurateElements = 4096

// Config determines the precision / cost trade-offs of an analysis.  The
// multicast mode applies to every master spatial level, unless explicitly
// overridden for a level.
type Config struct {
	Multicast      MulticastMode
	Representation problem.Representation
	// LevelMulticast overrides the multicast mode of specific loop levels.
	LevelMulticast map[int]MulticastMode
	// MaxAccurateElements bounds the fan-out of any level analysed in
	// accurate mode.  Exceeding it is an error, rather than a silent switch
	// to approximate mode.
	MaxAccurateElements uint
}

// DefaultConfig returns a configuration using accurate multicast analysis over
// exact operation spaces.
func DefaultConfig() Config {
	return Config{
		Multicast:           Accurate,
		Representation:      problem.Exact,
		MaxAccurateElements: DefaultMaxAccurateElements,
	}
}

// WithMulticast returns a copy of this configuration using a given default
// multicast mode.
func (c Config) WithMulticast(mode MulticastMode) Config {
	c.Multicast = mode
	return c
}

// WithRepresentation returns a copy of this configuration using a given
// operation space representation.
func (c Config) WithRepresentation(rep problem.Representation) Config {
	c.Representation = rep
	return c
}

// WithLevelMulticast returns a copy of this configuration which overrides the
// multicast mode of a given loop level.
func (c Config) WithLevelMulticast(level int, mode MulticastMode) Config {
	overrides := maps.Clone(c.LevelMulticast)
	//
	if overrides == nil {
		overrides = make(map[int]MulticastMode)
	}
	//
	overrides[level] = mode
	c.LevelMulticast = overrides
	//
	return c
}

// WithMaxAccurateElements returns a copy of this configuration with a given
// limit on accurate fan-out.
func (c Config) WithMaxAccurateElements(n uint) Config {
	c.MaxAccurateElements = n
	return c
}

// MulticastFor determines the multicast mode used at a given loop level.
func (c *Config) MulticastFor(level int) MulticastMode {
	if mode, ok := c.LevelMulticast[level]; ok {
		return mode
	}
	//
	return c.Multicast
}
