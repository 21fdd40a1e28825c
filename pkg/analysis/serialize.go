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
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"

	"github.com/consensys/go-loopnest/pkg/tiling"
)

// SERIAL_VERSION gives the version written by Encode.  Every earlier version
// remains readable.
const SERIAL_VERSION uint16 = 1

// LOOPNEST is the identifier heading every serialised analysis.  This just
// helps distinguish actual analyses from corrupted (or unrelated) files.
var LOOPNEST [8]byte = [8]byte{'l', 'o', 'o', 'p', 'n', 'e', 's', 't'}

// persistedState holds the fields of version 0.
type persistedState struct {
	NestState           []LoopState
	WorkingSets         tiling.CompoundTileNest
	WorkingSetsComputed bool
}

// Encode writes a completed analysis using the current version.
func (p *NestAnalysis) Encode(w io.Writer) error {
	return p.EncodeVersion(w, SERIAL_VERSION)
}

// EncodeVersion writes a completed analysis using a given version.  A header
// (identifier followed by version) is written directly, whilst the body is a
// sequence of gob values determined by the version:
//
// * Version 0: live loop state, working sets and the completion flag.
//
// * Version 1: as version 0, followed by the configuration.
func (p *NestAnalysis) EncodeVersion(w io.Writer, version uint16) error {
	var versionBytes [2]byte
	//
	if !p.workingSetsComputed {
		return newError(AnalysisNotReady, "Encode", "working sets not computed")
	} else if version > SERIAL_VERSION {
		return newError(UnknownVersion, "Encode", "version %d", version)
	}
	//
	binary.BigEndian.PutUint16(versionBytes[:], version)
	//
	if _, err := w.Write(LOOPNEST[:]); err != nil {
		return err
	} else if _, err := w.Write(versionBytes[:]); err != nil {
		return err
	}
	//
	var (
		encoder = gob.NewEncoder(w)
		state   = persistedState{p.nestState, p.workingSets, p.workingSetsComputed}
	)
	//
	if err := encoder.Encode(&state); err != nil {
		return err
	} else if version >= 1 {
		return encoder.Encode(&p.config)
	}
	//
	return nil
}

// Decode reads an analysis previously written by Encode, of any supported
// version.  The result can be queried, but not traversed again without a
// fresh Init.
func Decode(r io.Reader) (*NestAnalysis, error) {
	var (
		identifier   [8]byte
		versionBytes [2]byte
		state        persistedState
	)
	//
	if _, err := io.ReadFull(r, identifier[:]); err != nil {
		return nil, fmt.Errorf("malformed analysis: %w", err)
	} else if identifier != LOOPNEST {
		return nil, errors.New("malformed analysis: missing identifier")
	} else if _, err := io.ReadFull(r, versionBytes[:]); err != nil {
		return nil, fmt.Errorf("malformed analysis: %w", err)
	}
	//
	version := binary.BigEndian.Uint16(versionBytes[:])
	//
	if version > SERIAL_VERSION {
		return nil, newError(UnknownVersion, "Decode", "version %d (expected at most %d)", version, SERIAL_VERSION)
	}
	//
	decoder := gob.NewDecoder(r)
	analysis := NewNestAnalysis(DefaultConfig())
	//
	if err := decoder.Decode(&state); err != nil {
		return nil, err
	} else if version >= 1 {
		// Decode into a zero value, since gob leaves absent fields untouched.
		var config Config
		//
		if err := decoder.Decode(&config); err != nil {
			return nil, err
		}
		//
		analysis.config = config
	}
	//
	analysis.nestState = state.NestState
	analysis.workingSets = state.WorkingSets
	analysis.workingSetsComputed = state.WorkingSetsComputed
	//
	return analysis, nil
}

// MarshalBinary encodes this analysis using the current version.
func (p *NestAnalysis) MarshalBinary() ([]byte, error) {
	var buffer bytes.Buffer
	//
	if err := p.Encode(&buffer); err != nil {
		return nil, err
	}
	//
	return buffer.Bytes(), nil
}

// UnmarshalBinary replaces this analysis with one decoded from a given set of
// bytes.
func (p *NestAnalysis) UnmarshalBinary(data []byte) error {
	analysis, err := Decode(bytes.NewReader(data))
	//
	if err != nil {
		return err
	}
	//
	p.Reset()
	p.config = analysis.config
	p.nestState = analysis.nestState
	p.workingSets = analysis.workingSets
	p.workingSetsComputed = analysis.workingSetsComputed
	//
	return nil
}
