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
	"math"
	"strings"

	"github.com/consensys/go-classfile/pkg/classfile/codec"
	"github.com/consensys/go-classfile/pkg/fault"
)

// Attribute is a named, variable-length binary record attached to a class,
// field, method or code body.  Every kind of attribute comes in two variants:
// a bound variant, which is a lazy view over a parsed class-file buffer, and an
// unbound variant, which is built in memory from resolved entries.  Both can
// write themselves into an output buffer.
type Attribute interface {
	// Name returns the attribute name, as stored in the attribute_name_index
	// Utf8 entry.
	Name() string
	// Mapper returns the kind of this attribute.
	Mapper() Mapper
	// WriteTo writes the complete attribute record (name index, length and
	// payload) to a given writer, interning any referenced entries into the
	// writer's pool.
	WriteTo(w *codec.Writer) error
	// String returns a human readable rendering of this attribute.
	String() string
}

// Checker is implemented by bound attributes, whose payloads are only decoded
// on demand.  Check decodes the payload in full and reports the first problem
// found.
type Checker interface {
	Check() error
}

// Multiplicity determines whether a given kind of attribute may occur more than
// once in the same container.
type Multiplicity uint8

const (
	// AtMostOne means any later occurrence of the attribute replaces an
	// earlier one when a container is assembled.
	AtMostOne Multiplicity = iota
	// Many means every occurrence is retained.
	Many
)

// Location is a set of containers to which an attribute may be attached.
type Location uint8

// Container kinds.
const (
	ClassLocation Location = 1 << iota
	FieldLocation
	MethodLocation
	CodeLocation
)

// Members is shorthand for the three class-file member containers.
const Members = ClassLocation | FieldLocation | MethodLocation

// AnyLocation permits an attribute anywhere.
const AnyLocation = Members | CodeLocation

// Permits checks whether this location set includes a given container.
func (p Location) Permits(container Location) bool {
	return p&container != 0
}

func (p Location) String() string {
	var parts []string
	//
	for _, l := range []struct {
		loc  Location
		name string
	}{{ClassLocation, "class"}, {FieldLocation, "field"}, {MethodLocation, "method"}, {CodeLocation, "code"}} {
		if p&l.loc != 0 {
			parts = append(parts, l.name)
		}
	}
	//
	return strings.Join(parts, "|")
}

// Mapper describes a kind of attribute: its fixed name, where it may appear,
// how many times, and how to construct a bound view of it.
type Mapper interface {
	// Name returns the fixed binary name of this kind of attribute.
	Name() string
	// Multiplicity determines whether this attribute may occur more than once
	// in a single container.
	Multiplicity() Multiplicity
	// Locations returns the containers in which this attribute may appear.
	Locations() Location
	// Bind constructs a bound attribute over a given record.  This must be
	// O(1) and must not decode the payload.
	Bind(record Bound) Attribute
}

type mapper struct {
	name         string
	multiplicity Multiplicity
	locations    Location
	bind         func(Bound) Attribute
}

// NewMapper constructs a mapper for a kind of attribute.
func NewMapper(name string, multiplicity Multiplicity, locations Location, bind func(Bound) Attribute) Mapper {
	return &mapper{name, multiplicity, locations, bind}
}

func (p *mapper) Name() string               { return p.name }
func (p *mapper) Multiplicity() Multiplicity { return p.multiplicity }
func (p *mapper) Locations() Location        { return p.locations }
func (p *mapper) Bind(record Bound) Attribute {
	return p.bind(record)
}

// Find returns the first attribute of a given type, if there is one.
func Find[T Attribute](attributes []Attribute) (T, bool) {
	for _, attr := range attributes {
		if a, ok := attr.(T); ok {
			return a, true
		}
	}
	//
	var empty T
	//
	return empty, false
}

// FindAll returns all attributes of a given type, in order.
func FindAll[T Attribute](attributes []Attribute) []T {
	var matches []T
	//
	for _, attr := range attributes {
		if a, ok := attr.(T); ok {
			matches = append(matches, a)
		}
	}
	//
	return matches
}

// writeRecord writes an attribute record whose payload is produced by a given
// function.  The length is patched in once the payload is known.
func writeRecord(w *codec.Writer, name string, payload func(*codec.Writer) error) error {
	nameEntry, err := w.Pool().Utf8(name)
	if err != nil {
		return err
	}
	//
	w.U2(nameEntry.Index())
	// Reserve space for the length
	lengthPos := w.Len()
	w.U4(0)
	//
	start := w.Len()
	//
	if err := payload(w); err != nil {
		return err
	}
	//
	length := w.Len() - start
	//
	if uint64(length) > math.MaxUint32 {
		return fault.New(fault.InvalidArgument, "%s attribute exceeds maximum length", name)
	}
	//
	w.PatchU4(lengthPos, uint32(length))
	//
	return nil
}

// inAttribute attributes a codec error to a given attribute name.  Errors from
// elsewhere are returned unchanged.
func inAttribute(name string, err error) error {
	if e, ok := err.(*fault.Error); ok {
		return e.InAttribute(name)
	}
	//
	return err
}
