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
	"reflect"

	"github.com/consensys/go-classfile/pkg/classfile/codec"
	"github.com/consensys/go-classfile/pkg/classfile/constantpool"
	"github.com/consensys/go-classfile/pkg/fault"
)

// ConstantValueName is the binary name of the ConstantValue attribute.
const ConstantValueName = "ConstantValue"

// ConstantValueMapper describes the ConstantValue attribute, which gives the
// initial value of a static field.
var ConstantValueMapper = NewMapper(ConstantValueName, AtMostOne, FieldLocation,
	func(record Bound) Attribute { return &BoundConstantValue{record} })

// Kinds of entry which a ConstantValue attribute may reference.
var constantValueTags = []constantpool.Tag{
	constantpool.TagInteger, constantpool.TagFloat, constantpool.TagLong, constantpool.TagDouble,
	constantpool.TagString,
}

// ConstantValue models the ConstantValue attribute.
type ConstantValue interface {
	Attribute
	// Constant returns the referenced Integer, Float, Long, Double or String
	// entry.
	Constant() (constantpool.Entry, error)
}

// NewConstantValue constructs a ConstantValue attribute referencing a given
// entry.  This fails for a nil entry, or one which is not a loadable constant.
func NewConstantValue(constant constantpool.Entry) (*UnboundConstantValue, error) {
	// Every entry kind is a pointer, so a typed nil must be caught as well.
	if constant == nil || reflect.ValueOf(constant).IsNil() {
		return nil, fault.New(fault.InvalidArgument, "nil constant").InAttribute(ConstantValueName)
	}
	//
	for _, tag := range constantValueTags {
		if constant.Tag() == tag {
			return &UnboundConstantValue{constant}, nil
		}
	}
	//
	return nil, fault.New(fault.InvalidArgument, "%s entry is not a loadable constant", constant.Tag()).
		InAttribute(ConstantValueName)
}

// UnboundConstantValue is a ConstantValue attribute constructed in memory.
type UnboundConstantValue struct {
	constant constantpool.Entry
}

// Name implementation for the Attribute interface.
func (p *UnboundConstantValue) Name() string { return ConstantValueName }

// Mapper implementation for the Attribute interface.
func (p *UnboundConstantValue) Mapper() Mapper { return ConstantValueMapper }

// Constant implementation for the ConstantValue interface.
func (p *UnboundConstantValue) Constant() (constantpool.Entry, error) { return p.constant, nil }

// WriteTo implementation for the Attribute interface.
func (p *UnboundConstantValue) WriteTo(w *codec.Writer) error {
	return writeRecord(w, ConstantValueName, func(w *codec.Writer) error { return w.Index(p.constant) })
}

func (p *UnboundConstantValue) String() string {
	return fmt.Sprintf("%s[%s]", ConstantValueName, p.constant)
}

// BoundConstantValue is a ConstantValue attribute read from a class-file buffer.
type BoundConstantValue struct {
	Bound
}

// Name implementation for the Attribute interface.
func (p *BoundConstantValue) Name() string { return ConstantValueName }

// Mapper implementation for the Attribute interface.
func (p *BoundConstantValue) Mapper() Mapper { return ConstantValueMapper }

// Constant implementation for the ConstantValue interface.
func (p *BoundConstantValue) Constant() (constantpool.Entry, error) {
	if err := p.expectLength(2); err != nil {
		return nil, err
	}
	//
	return p.entryAt(0, constantValueTags...)
}

// WriteTo implementation for the Attribute interface.
func (p *BoundConstantValue) WriteTo(w *codec.Writer) error {
	if p.CanWriteDirect(w) {
		p.writeDirect(w)
		return nil
	}
	//
	constant, err := p.Constant()
	if err != nil {
		return err
	}
	//
	return writeRecord(w, ConstantValueName, func(w *codec.Writer) error { return w.Index(constant) })
}

func (p *BoundConstantValue) String() string {
	if constant, err := p.Constant(); err == nil {
		return fmt.Sprintf("%s[%s]", ConstantValueName, constant)
	} else {
		return fmt.Sprintf("%s[<%s>]", ConstantValueName, fault.CodeOf(err))
	}
}

// Check implementation for the Checker interface.
func (p *BoundConstantValue) Check() error {
	_, err := p.Constant()
	return err
}
