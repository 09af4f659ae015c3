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
package attribute

import (
	"github.com/consensys/go-classfile/pkg/classfile/codec"
)

// DeprecatedName is the binary name of the Deprecated attribute.
const DeprecatedName = "Deprecated"

// SyntheticName is the binary name of the Synthetic attribute.
const SyntheticName = "Synthetic"

// DeprecatedMapper describes the Deprecated attribute.
var DeprecatedMapper = markerMapper(DeprecatedName)

// SyntheticMapper describes the Synthetic attribute.
var SyntheticMapper = markerMapper(SyntheticName)

func markerMapper(name string) Mapper {
	m := &mapper{name, AtMostOne, Members, nil}
	m.bind = func(record Bound) Attribute { return &BoundMarker{record, m} }
	//
	return m
}

// Marker is an attribute with an empty payload, whose presence alone carries
// meaning.
type Marker struct {
	mapper Mapper
}

// Deprecated constructs a Deprecated marker.
func Deprecated() *Marker { return &Marker{DeprecatedMapper} }

// Synthetic constructs a Synthetic marker.
func Synthetic() *Marker { return &Marker{SyntheticMapper} }

// Name implementation for the Attribute interface.
func (p *Marker) Name() string { return p.mapper.Name() }

// Mapper implementation for the Attribute interface.
func (p *Marker) Mapper() Mapper { return p.mapper }

// WriteTo implementation for the Attribute interface.
func (p *Marker) WriteTo(w *codec.Writer) error {
	return writeRecord(w, p.mapper.Name(), func(*codec.Writer) error { return nil })
}

func (p *Marker) String() string { return p.mapper.Name() }

// BoundMarker is a marker attribute read from a class-file buffer.
type BoundMarker struct {
	Bound
	mapper Mapper
}

// Name implementation for the Attribute interface.
func (p *BoundMarker) Name() string { return p.mapper.Name() }

// Mapper implementation for the Attribute interface.
func (p *BoundMarker) Mapper() Mapper { return p.mapper }

// Check implementation for the Checker interface.  The declared length must be
// zero.
func (p *BoundMarker) Check() error { return p.expectLength(0) }

// WriteTo implementation for the Attribute interface.
func (p *BoundMarker) WriteTo(w *codec.Writer) error {
	if err := p.Check(); err != nil {
		return err
	} else if p.CanWriteDirect(w) {
		p.writeDirect(w)
		return nil
	}
	//
	return writeRecord(w, p.mapper.Name(), func(*codec.Writer) error { return nil })
}

func (p *BoundMarker) String() string { return p.mapper.Name() }
