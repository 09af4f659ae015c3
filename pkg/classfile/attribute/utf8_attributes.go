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
	"fmt"

	"github.com/consensys/go-classfile/pkg/classfile/codec"
	"github.com/consensys/go-classfile/pkg/classfile/constantpool"
	"github.com/consensys/go-classfile/pkg/fault"
)

// SourceFile and Signature both consist of a single Utf8 index, and are
// therefore implemented by the same pair of types parameterised by mapper.

// SourceFileName is the binary name of the SourceFile attribute.
const SourceFileName = "SourceFile"

// SignatureName is the binary name of the Signature attribute.
const SignatureName = "Signature"

// SourceFileMapper describes the SourceFile attribute.
var SourceFileMapper = utf8Mapper(SourceFileName, ClassLocation)

// SignatureMapper describes the Signature attribute, which records generic
// type information for a class, field or method.
var SignatureMapper = utf8Mapper(SignatureName, Members)

func utf8Mapper(name string, locations Location) Mapper {
	m := &mapper{name, AtMostOne, locations, nil}
	m.bind = func(record Bound) Attribute { return &BoundUtf8{record, m} }
	//
	return m
}

// Utf8Attribute models an attribute whose payload is a single Utf8 index.
type Utf8Attribute interface {
	Attribute
	// Value returns the Utf8 entry referenced by this attribute.
	Value() (*constantpool.Utf8Entry, error)
}

// NewSourceFile constructs a SourceFile attribute for a given file name.
func NewSourceFile(file string) (*UnboundUtf8, error) {
	return newUnboundUtf8(SourceFileMapper, file)
}

// NewSignature constructs a Signature attribute for a given signature string.
func NewSignature(signature string) (*UnboundUtf8, error) {
	return newUnboundUtf8(SignatureMapper, signature)
}

func newUnboundUtf8(mapper Mapper, value string) (*UnboundUtf8, error) {
	utf8, err := constantpool.TemporaryUtf8(value)
	if err != nil {
		return nil, inAttribute(mapper.Name(), err)
	}
	//
	return &UnboundUtf8{mapper, utf8}, nil
}

// UnboundUtf8 is a single-Utf8 attribute constructed in memory.
type UnboundUtf8 struct {
	mapper Mapper
	value  *constantpool.Utf8Entry
}

// Name implementation for the Attribute interface.
func (p *UnboundUtf8) Name() string { return p.mapper.Name() }

// Mapper implementation for the Attribute interface.
func (p *UnboundUtf8) Mapper() Mapper { return p.mapper }

// Value implementation for the Utf8Attribute interface.
func (p *UnboundUtf8) Value() (*constantpool.Utf8Entry, error) { return p.value, nil }

// WriteTo implementation for the Attribute interface.
func (p *UnboundUtf8) WriteTo(w *codec.Writer) error {
	return writeRecord(w, p.mapper.Name(), func(w *codec.Writer) error { return w.Index(p.value) })
}

func (p *UnboundUtf8) String() string {
	return fmt.Sprintf("%s[%q]", p.mapper.Name(), p.value.Value())
}

// BoundUtf8 is a single-Utf8 attribute read from a class-file buffer.
type BoundUtf8 struct {
	Bound
	mapper Mapper
}

// Name implementation for the Attribute interface.
func (p *BoundUtf8) Name() string { return p.mapper.Name() }

// Mapper implementation for the Attribute interface.
func (p *BoundUtf8) Mapper() Mapper { return p.mapper }

// Value implementation for the Utf8Attribute interface.
func (p *BoundUtf8) Value() (*constantpool.Utf8Entry, error) {
	if err := p.expectLength(2); err != nil {
		return nil, err
	}
	//
	return p.utf8At(0)
}

// WriteTo implementation for the Attribute interface.
func (p *BoundUtf8) WriteTo(w *codec.Writer) error {
	if p.CanWriteDirect(w) {
		p.writeDirect(w)
		return nil
	}
	//
	value, err := p.Value()
	if err != nil {
		return err
	}
	//
	return writeRecord(w, p.mapper.Name(), func(w *codec.Writer) error { return w.Index(value) })
}

func (p *BoundUtf8) String() string {
	if value, err := p.Value(); err == nil {
		return fmt.Sprintf("%s[%q]", p.mapper.Name(), value.Value())
	} else {
		return fmt.Sprintf("%s[<%s>]", p.mapper.Name(), fault.CodeOf(err))
	}
}

// Check implementation for the Checker interface.
func (p *BoundUtf8) Check() error {
	_, err := p.Value()
	return err
}
