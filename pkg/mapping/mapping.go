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
package mapping

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/consensys/go-loopnest/pkg/analysis"
	"github.com/consensys/go-loopnest/pkg/loop"
	"github.com/consensys/go-loopnest/pkg/problem"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// Mapping binds a workload to the nest it is mapped with, along with any
// analysis settings given alongside them.
type Mapping struct {
	// Name identifies the mapping (typically its file).
	Name     string
	Workload *problem.Workload
	Nest     *loop.Nest
	// Config holds the analysis settings, which are the defaults unless
	// HasConfig holds.
	Config    analysis.Config
	HasConfig bool
}

// File is the YAML description of a mapping.
type File struct {
	Workload WorkloadSpec `yaml:"workload"`
	// Nest lists the loops innermost first.
	Nest     []LevelSpec `yaml:"nest"`
	Analysis *ConfigSpec `yaml:"analysis,omitempty"`
}

// WorkloadSpec describes a workload, where each projection is given as a
// list of affine expressions over dimension names (e.g. "2*P+R").
type WorkloadSpec struct {
	Name       string          `yaml:"name"`
	Dimensions []string        `yaml:"dimensions"`
	Bounds     map[string]int  `yaml:"bounds"`
	DataSpaces []DataSpaceSpec `yaml:"data-spaces"`
}

// DataSpaceSpec describes one data space of a workload.
type DataSpaceSpec struct {
	Name       string   `yaml:"name"`
	ReadWrite  bool     `yaml:"read-write,omitempty"`
	Projection []string `yaml:"projection"`
}

// LevelSpec describes one loop of a nest.  Spatial is empty for temporal
// loops, otherwise "X" or "Y".
type LevelSpec struct {
	Dimension    string `yaml:"dim"`
	Bound        int    `yaml:"bound"`
	StorageLevel int    `yaml:"level"`
	Spatial      string `yaml:"spatial,omitempty"`
	Linked       bool   `yaml:"linked,omitempty"`
}

// ConfigSpec describes the analysis settings of a mapping.
type ConfigSpec struct {
	Multicast      string         `yaml:"multicast,omitempty"`
	Representation string         `yaml:"representation,omitempty"`
	MaxAccurate    uint           `yaml:"max-accurate,omitempty"`
	Levels         map[int]string `yaml:"levels,omitempty"`
}

// Load reads a mapping from a given YAML file.
func Load(filename string) (*Mapping, error) {
	bytes, err := os.ReadFile(filename)
	//
	if err != nil {
		return nil, err
	}
	//
	return Parse(filename, bytes)
}

// Parse a mapping from the contents of a YAML file.
func Parse(name string, bytes []byte) (*Mapping, error) {
	var file File
	//
	if err := yaml.UnmarshalStrict(bytes, &file); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	//
	m, err := file.Build()
	//
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	//
	m.Name = name
	log.Debugf("loaded mapping %s (%d dimensions, %d data spaces, %d loops)", name,
		m.Workload.NumDimensions(), m.Workload.NumDataSpaces(), m.Nest.Len())
	//
	return m, nil
}

// Build converts this description into a workload and nest.
func (p *File) Build() (*Mapping, error) {
	shape, err := p.Workload.shape()
	//
	if err != nil {
		return nil, err
	}
	//
	bounds := make([]int, len(shape.Dimensions))
	//
	for i, d := range shape.Dimensions {
		b, ok := p.Workload.Bounds[d]
		if !ok {
			return nil, fmt.Errorf("missing bound for dimension %s", d)
		}
		//
		bounds[i] = b
	}
	//
	if len(p.Workload.Bounds) != len(bounds) {
		return nil, fmt.Errorf("bounds given for unknown dimensions")
	}
	//
	workload, err := problem.NewWorkload(shape, bounds)
	//
	if err != nil {
		return nil, err
	}
	//
	nest, err := p.nest(shape)
	//
	if err != nil {
		return nil, err
	} else if err := nest.Validate(shape.NumDimensions()); err != nil {
		return nil, err
	}
	//
	m := &Mapping{Workload: workload, Nest: nest, Config: analysis.DefaultConfig()}
	//
	if p.Analysis != nil {
		if m.Config, err = p.Analysis.apply(m.Config); err != nil {
			return nil, err
		}
		//
		m.HasConfig = true
	}
	//
	return m, nil
}

func (p *WorkloadSpec) shape() (*problem.Shape, error) {
	shape := &problem.Shape{Name: p.Name, Dimensions: p.Dimensions}
	//
	for _, ds := range p.DataSpaces {
		space := problem.DataSpace{Name: ds.Name, ReadWrite: ds.ReadWrite}
		//
		for _, text := range ds.Projection {
			expr, err := ParseExpression(text, shape)
			if err != nil {
				return nil, fmt.Errorf("data space %s: %w", ds.Name, err)
			}
			//
			space.Projection = append(space.Projection, expr)
		}
		//
		shape.DataSpaces = append(shape.DataSpaces, space)
	}
	//
	return shape, nil
}

func (p *File) nest(shape *problem.Shape) (*loop.Nest, error) {
	levels := make([]loop.Descriptor, len(p.Nest))
	//
	for i, l := range p.Nest {
		dim, ok := shape.DimensionIndex(l.Dimension)
		//
		if !ok {
			return nil, fmt.Errorf("loop %d has unknown dimension %q", i, l.Dimension)
		}
		//
		levels[i] = loop.Descriptor{Dimension: dim, Bound: l.Bound, StorageLevel: l.StorageLevel,
			LinkedSpatial: l.Linked}
		//
		switch strings.ToUpper(l.Spatial) {
		case "":
			levels[i].Spacetime = loop.Time
		case "X":
			levels[i].Spacetime = loop.SpaceX
		case "Y":
			levels[i].Spacetime = loop.SpaceY
		default:
			return nil, fmt.Errorf("loop %d has unknown spatial axis %q", i, l.Spatial)
		}
	}
	//
	return loop.NewNest(levels...), nil
}

func (p *ConfigSpec) apply(config analysis.Config) (analysis.Config, error) {
	if p.Multicast != "" {
		mode, err := ParseMulticast(p.Multicast)
		if err != nil {
			return config, err
		}
		//
		config = config.WithMulticast(mode)
	}
	//
	switch p.Representation {
	case "":
	case "exact":
		config = config.WithRepresentation(problem.Exact)
	case "bounding-box":
		config = config.WithRepresentation(problem.BoundingBox)
	default:
		return config, fmt.Errorf("unknown representation %q", p.Representation)
	}
	//
	if p.MaxAccurate != 0 {
		config = config.WithMaxAccurateElements(p.MaxAccurate)
	}
	//
	for level, text := range p.Levels {
		mode, err := ParseMulticast(text)
		if err != nil {
			return config, err
		}
		//
		config = config.WithLevelMulticast(level, mode)
	}
	//
	return config, nil
}

// ParseMulticast parses the name of a multicast mode.
func ParseMulticast(text string) (analysis.MulticastMode, error) {
	switch text {
	case "accurate":
		return analysis.Accurate, nil
	case "approximate":
		return analysis.Approximate, nil
	default:
		return analysis.Accurate, fmt.Errorf("unknown multicast mode %q", text)
	}
}

// ParseExpression parses an affine expression such as "2*P+R" over the
// dimensions of a given shape.
func ParseExpression(text string, shape *problem.Shape) (problem.Expression, error) {
	var expr problem.Expression
	//
	for _, term := range strings.Split(text, "+") {
		var (
			coefficient = 1
			name        = strings.TrimSpace(term)
		)
		//
		if lhs, rhs, found := strings.Cut(name, "*"); found {
			c, err := strconv.Atoi(strings.TrimSpace(lhs))
			if err != nil {
				return nil, fmt.Errorf("invalid coefficient in %q", text)
			}
			//
			coefficient, name = c, strings.TrimSpace(rhs)
		}
		//
		dim, ok := shape.DimensionIndex(name)
		//
		if !ok {
			return nil, fmt.Errorf("unknown dimension %q in %q", name, text)
		}
		//
		expr = append(expr, problem.Term{Dimension: dim, Coefficient: coefficient})
	}
	//
	return expr, nil
}

// Describe converts a workload and nest back into their YAML description.
func Describe(workload *problem.Workload, nest *loop.Nest) *File {
	var (
		shape = workload.Shape()
		file  = &File{Workload: WorkloadSpec{Name: shape.Name, Dimensions: shape.Dimensions,
			Bounds: make(map[string]int)}}
	)
	//
	for i, d := range shape.Dimensions {
		file.Workload.Bounds[d] = workload.Bound(i)
	}
	//
	for _, ds := range shape.DataSpaces {
		spec := DataSpaceSpec{Name: ds.Name, ReadWrite: ds.ReadWrite}
		//
		for _, expr := range ds.Projection {
			spec.Projection = append(spec.Projection, shape.ExpressionString(expr))
		}
		//
		file.Workload.DataSpaces = append(file.Workload.DataSpaces, spec)
	}
	//
	for _, l := range nest.Levels {
		spec := LevelSpec{Dimension: shape.Dimensions[l.Dimension], Bound: l.Bound, StorageLevel: l.StorageLevel,
			Linked: l.LinkedSpatial}
		//
		switch l.Spacetime {
		case loop.SpaceX:
			spec.Spatial = "X"
		case loop.SpaceY:
			spec.Spatial = "Y"
		}
		//
		file.Nest = append(file.Nest, spec)
	}
	//
	return file
}

// Marshal writes the YAML description of a workload and nest.
func Marshal(workload *problem.Workload, nest *loop.Nest) ([]byte, error) {
	return yaml.Marshal(Describe(workload, nest))
}
