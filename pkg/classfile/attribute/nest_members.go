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

// NestMembersName is the binary name of the NestMembers attribute.
const NestMembersName = "NestMembers"

// NestMembersMapper describes the NestMembers attribute, which appears on a
// nest host to list the other members of its nest.  At most one per class.
var NestMembersMapper = NewMapper(NestMembersName, AtMostOne, ClassLocation,
	func(record Bound) Attribute { return &BoundNestMembers{record} })

// NestMembers models the NestMembers attribute.
type NestMembers interface {
	Attribute
	NestMembers() ([]*constantpool.ClassEntry, error)
}

// NewNestMembers constructs a NestMembers attribute from Class entries.
func NewNestMembers(classes []*constantpool.ClassEntry) (*UnboundNestMembers, error) {
	copied, err := copyClassList(NestMembersName, classes)
	if err != nil {
		return nil, err
	}
	//
	return &UnboundNestMembers{copied}, nil
}

// NestMembersOf is a variadic form of NewNestMembers.
func NestMembersOf(classes ...*constantpool.ClassEntry) (*UnboundNestMembers, error) {
	return NewNestMembers(classes)
}

// NestMembersOfSymbols constructs a NestMembers attribute from symbolic class
// descriptors.
func NestMembersOfSymbols(classes ...desc.ClassDesc) (*UnboundNestMembers, error) {
	entries, err := resolveClassList(NestMembersName, classes)
	if err != nil {
		return nil, err
	}
	//
	return &UnboundNestMembers{entries}, nil
}

// UnboundNestMembers is a NestMembers attribute constructed in memory.
type UnboundNestMembers struct {
	classes []*constantpool.ClassEntry
}

// Name implementation for the Attribute interface.
func (p *UnboundNestMembers) Name() string { return NestMembersName }

// Mapper implementation for the Attribute interface.
func (p *UnboundNestMembers) Mapper() Mapper { return NestMembersMapper }

// NestMembers implementation for the NestMembers interface.
func (p *UnboundNestMembers) NestMembers() ([]*constantpool.ClassEntry, error) {
	return p.classes, nil
}

// WriteTo implementation for the Attribute interface.
func (p *UnboundNestMembers) WriteTo(w *codec.Writer) error {
	return writeRecord(w, NestMembersName, func(w *codec.Writer) error {
		return writeClassList(w, p.classes)
	})
}

func (p *UnboundNestMembers) String() string {
	return formatClassList(NestMembersName, p.classes, nil)
}

// BoundNestMembers is a NestMembers attribute read from a class-file buffer.
type BoundNestMembers struct {
	Bound
}

// Name implementation for the Attribute interface.
func (p *BoundNestMembers) Name() string { return NestMembersName }

// Mapper implementation for the Attribute interface.
func (p *BoundNestMembers) Mapper() Mapper { return NestMembersMapper }

// NestMembers implementation for the NestMembers interface.
func (p *BoundNestMembers) NestMembers() ([]*constantpool.ClassEntry, error) {
	return decodeClassList(p.Bound)
}

// WriteTo implementation for the Attribute interface.
func (p *BoundNestMembers) WriteTo(w *codec.Writer) error {
	if p.CanWriteDirect(w) {
		p.writeDirect(w)
		return nil
	}
	//
	classes, err := p.NestMembers()
	if err != nil {
		return err
	}
	//
	return writeRecord(w, NestMembersName, func(w *codec.Writer) error {
		return writeClassList(w, classes)
	})
}

func (p *BoundNestMembers) String() string {
	classes, err := p.NestMembers()
	return formatClassList(NestMembersName, classes, err)
}

// Check implementation for the Checker interface.
func (p *BoundNestMembers) Check() error {
	_, err := p.NestMembers()
	return err
}
