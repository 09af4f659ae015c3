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
	"github.com/consensys/go-classfile/pkg/classfile/constantpool"
	"github.com/consensys/go-classfile/pkg/classfile/desc"
)

// PermittedSubclassesName is the binary name of the PermittedSubclasses
// attribute.
const PermittedSubclassesName = "PermittedSubclasses"

// PermittedSubclassesMapper describes the PermittedSubclasses attribute, which
// appears on sealed classes to list which classes may extend them.  It does
// not permit multiple instances in a given location: a later occurrence takes
// precedence when a class is built or transformed.
var PermittedSubclassesMapper = NewMapper(PermittedSubclassesName, AtMostOne, ClassLocation,
	func(record Bound) Attribute { return &BoundPermittedSubclasses{record} })

// PermittedSubclasses models the PermittedSubclasses attribute.
type PermittedSubclasses interface {
	Attribute
	// PermittedSubclasses returns the list of permitted subclasses, in the
	// order given.
	PermittedSubclasses() ([]*constantpool.ClassEntry, error)
}

var (
	_ PermittedSubclasses = &BoundPermittedSubclasses{}
	_ PermittedSubclasses = &UnboundPermittedSubclasses{}
)

// NewPermittedSubclasses constructs a PermittedSubclasses attribute from a list
// of Class entries.  The entries may belong to any pool; they are resolved
// against the target pool when written.
func NewPermittedSubclasses(classes []*constantpool.ClassEntry) (*UnboundPermittedSubclasses, error) {
	copied, err := copyClassList(PermittedSubclassesName, classes)
	if err != nil {
		return nil, err
	}
	//
	return &UnboundPermittedSubclasses{copied}, nil
}

// PermittedSubclassesOf is a variadic form of NewPermittedSubclasses.
func PermittedSubclassesOf(classes ...*constantpool.ClassEntry) (*UnboundPermittedSubclasses, error) {
	return NewPermittedSubclasses(classes)
}

// PermittedSubclassesOfSymbols constructs a PermittedSubclasses attribute from
// symbolic class descriptors.  This fails with a SymbolResolution error if any
// descriptor cannot be represented as a Class entry.
func PermittedSubclassesOfSymbols(classes ...desc.ClassDesc) (*UnboundPermittedSubclasses, error) {
	entries, err := resolveClassList(PermittedSubclassesName, classes)
	if err != nil {
		return nil, err
	}
	//
	return &UnboundPermittedSubclasses{entries}, nil
}

// ============================================================================
// Unbound
// ============================================================================

// UnboundPermittedSubclasses is a PermittedSubclasses attribute constructed in
// memory.  It is immutable.
type UnboundPermittedSubclasses struct {
	classes []*constantpool.ClassEntry
}

// Name implementation for the Attribute interface.
func (p *UnboundPermittedSubclasses) Name() string {
	return PermittedSubclassesName
}

// Mapper implementation for the Attribute interface.
func (p *UnboundPermittedSubclasses) Mapper() Mapper {
	return PermittedSubclassesMapper
}

// PermittedSubclasses implementation for the PermittedSubclasses interface.
// This never fails.  The returned slice must not be modified.
func (p *UnboundPermittedSubclasses) PermittedSubclasses() ([]*constantpool.ClassEntry, error) {
	return p.classes, nil
}

// WriteTo implementation for the Attribute interface.
func (p *UnboundPermittedSubclasses) WriteTo(w *codec.Writer) error {
	return writeRecord(w, PermittedSubclassesName, func(w *codec.Writer) error {
		return writeClassList(w, p.classes)
	})
}

func (p *UnboundPermittedSubclasses) String() string {
	return formatClassList(PermittedSubclassesName, p.classes, nil)
}

// ============================================================================
// Bound
// ============================================================================

// BoundPermittedSubclasses is a PermittedSubclasses attribute read from a
// class-file buffer.  The list is decoded on each request.
type BoundPermittedSubclasses struct {
	Bound
}

// Name implementation for the Attribute interface.
func (p *BoundPermittedSubclasses) Name() string {
	return PermittedSubclassesName
}

// Mapper implementation for the Attribute interface.
func (p *BoundPermittedSubclasses) Mapper() Mapper {
	return PermittedSubclassesMapper
}

// PermittedSubclasses implementation for the PermittedSubclasses interface.
// Entries are resolved against the pool of the backing buffer.  This fails
// with a MalformedAttribute error if the declared length is inconsistent with
// the class count, or if any index does not refer to a Class entry.
func (p *BoundPermittedSubclasses) PermittedSubclasses() ([]*constantpool.ClassEntry, error) {
	return decodeClassList(p.Bound)
}

// WriteTo implementation for the Attribute interface.  When the target pool is
// the source pool, the original record is copied verbatim.  Otherwise, the
// list is decoded and each class re-interned into the target pool.
func (p *BoundPermittedSubclasses) WriteTo(w *codec.Writer) error {
	if p.CanWriteDirect(w) {
		p.writeDirect(w)
		return nil
	}
	//
	classes, err := p.PermittedSubclasses()
	if err != nil {
		return err
	}
	//
	return writeRecord(w, PermittedSubclassesName, func(w *codec.Writer) error {
		return writeClassList(w, classes)
	})
}

func (p *BoundPermittedSubclasses) String() string {
	classes, err := p.PermittedSubclasses()
	return formatClassList(PermittedSubclassesName, classes, err)
}

// Check implementation for the Checker interface.
func (p *BoundPermittedSubclasses) Check() error {
	_, err := p.PermittedSubclasses()
	return err
}
