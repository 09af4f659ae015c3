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
	"slices"
	"strings"
	"sync"

	"github.com/consensys/go-classfile/pkg/classfile/codec"
	"github.com/consensys/go-classfile/pkg/fault"
	log "github.com/sirupsen/logrus"
)

// Registry maps attribute names to the mappers used to bind them.  A registry
// is mutable only during construction; once handed to a parser it should be
// treated as read-only, at which point it is safe for concurrent use.
type Registry struct {
	mappers map[string]Mapper
}

// NewRegistry constructs a registry containing a given set of mappers.  This
// panics if two mappers share the same name.
func NewRegistry(mappers ...Mapper) *Registry {
	r := &Registry{make(map[string]Mapper)}
	//
	for _, m := range mappers {
		if err := r.Register(m); err != nil {
			panic(err.Error())
		}
	}
	//
	return r
}

// Register adds a mapper to this registry.  This fails if a mapper of the same
// name is already present.
func (r *Registry) Register(m Mapper) error {
	if m == nil {
		return fault.New(fault.InvalidArgument, "nil attribute mapper")
	} else if _, ok := r.mappers[m.Name()]; ok {
		return fault.New(fault.InvalidArgument, "duplicate mapper for attribute %s", m.Name())
	}
	//
	r.mappers[m.Name()] = m
	//
	return nil
}

// Lookup returns the mapper registered for a given attribute name, if any.
func (r *Registry) Lookup(name string) (Mapper, bool) {
	m, ok := r.mappers[name]
	return m, ok
}

// Len returns the number of registered mappers.
func (r *Registry) Len() int {
	return len(r.mappers)
}

var (
	standardOnce     sync.Once
	standardRegistry *Registry
)

// Standard returns the registry of all attribute kinds known to this package.
// The result is shared, and must not be modified.
func Standard() *Registry {
	standardOnce.Do(func() {
		standardRegistry = NewRegistry(
			PermittedSubclassesMapper,
			NestMembersMapper,
			NestHostMapper,
			SourceFileMapper,
			SignatureMapper,
			DeprecatedMapper,
			SyntheticMapper,
			ConstantValueMapper,
		)
	})
	//
	return standardRegistry
}

// ReadTable reads an attribute table (a u2 count followed by that many
// attribute records) at a given position, binding each record through this
// registry.  Records whose name is not registered, or whose mapper does not
// permit the given location, are bound as Unknown.  Payloads are not decoded.
// This returns the attributes in order, along with the position following the
// table.
func (r *Registry) ReadTable(reader *codec.Reader, pos int, location Location) ([]Attribute, int, error) {
	count, err := reader.U2(pos)
	if err != nil {
		return nil, pos, err
	}
	//
	pos += 2
	attributes := make([]Attribute, count)
	//
	for i := 0; i < int(count); i++ {
		name, err := reader.Utf8EntryAt(pos)
		if err != nil {
			return nil, pos, classError(pos, "invalid attribute name", err)
		}
		//
		length, err := reader.U4(pos + 2)
		if err != nil {
			return nil, pos, err
		}
		//
		start := pos + HeaderSize
		//
		if !reader.Check(start, int(length)) {
			return nil, pos, fault.Malformed(name.Value(), pos+2,
				"declared length %d exceeds enclosing buffer", length)
		}
		//
		record := NewBound(reader, name, start, int(length))
		//
		if m, ok := r.Lookup(name.Value()); ok && m.Locations().Permits(location) {
			attributes[i] = m.Bind(record)
		} else {
			if ok {
				log.Debugf("attribute %s not permitted on %s, treating as unknown", name.Value(), location)
			}
			//
			attributes[i] = &Unknown{record}
		}
		//
		pos = start + int(length)
	}
	//
	return attributes, pos, nil
}

func classError(pos int, message string, cause error) error {
	return &fault.Error{Code: fault.MalformedClass, Offset: pos, Index: fault.NoIndex, Message: message, Cause: cause}
}

// Mappers returns the registered mappers, sorted by name.
func (r *Registry) Mappers() []Mapper {
	mappers := make([]Mapper, 0, len(r.mappers))
	//
	for _, m := range r.mappers {
		mappers = append(mappers, m)
	}
	//
	slices.SortFunc(mappers, func(a, b Mapper) int { return strings.Compare(a.Name(), b.Name()) })
	//
	return mappers
}
