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
package classfile

import (
	"fmt"

	"github.com/consensys/go-classfile/pkg/classfile/attribute"
	"github.com/consensys/go-classfile/pkg/classfile/codec"
	"github.com/consensys/go-classfile/pkg/classfile/constantpool"
	"github.com/consensys/go-classfile/pkg/fault"
)

// Field is a field_info structure, either parsed or constructed.
type Field struct {
	member
}

// Method is a method_info structure, either parsed or constructed.  Method
// bodies (i.e. Code attributes) are treated as opaque attributes.
type Method struct {
	member
}

// member holds what fields and methods have in common.
type member struct {
	flags      AccessFlags
	name       *constantpool.Utf8Entry
	descriptor *constantpool.Utf8Entry
	attributes []attribute.Attribute
}

// NewField constructs a field with a given name, descriptor and attributes.
// This fails if an attribute is not permitted on fields.
func NewField(flags AccessFlags, name string, descriptor string, attributes ...attribute.Attribute) (*Field, error) {
	m, err := newMember(attribute.FieldLocation, flags, name, descriptor, attributes)
	if err != nil {
		return nil, err
	}
	//
	return &Field{m}, nil
}

// NewMethod constructs a method with a given name, descriptor and attributes.
// This fails if an attribute is not permitted on methods.
func NewMethod(flags AccessFlags, name string, descriptor string, attributes ...attribute.Attribute) (*Method, error) {
	m, err := newMember(attribute.MethodLocation, flags, name, descriptor, attributes)
	if err != nil {
		return nil, err
	}
	//
	return &Method{m}, nil
}

func newMember(location attribute.Location, flags AccessFlags, name string, descriptor string,
	attributes []attribute.Attribute) (member, error) {
	var (
		m   = member{flags: flags}
		err error
	)
	//
	if m.name, err = constantpool.TemporaryUtf8(name); err != nil {
		return m, err
	} else if m.descriptor, err = constantpool.TemporaryUtf8(descriptor); err != nil {
		return m, err
	}
	//
	for _, attr := range attributes {
		if err := checkLocation(attr, location); err != nil {
			return m, err
		}
	}
	//
	m.attributes = append(m.attributes, attributes...)
	//
	return m, nil
}

// Flags returns the access flags of this member.
func (p *member) Flags() AccessFlags {
	return p.flags
}

// Name returns the name of this member.
func (p *member) Name() *constantpool.Utf8Entry {
	return p.name
}

// Descriptor returns the type descriptor of this member.
func (p *member) Descriptor() *constantpool.Utf8Entry {
	return p.descriptor
}

// Attributes returns the attributes of this member, in order.
func (p *member) Attributes() []attribute.Attribute {
	return p.attributes
}

func (p *member) String() string {
	return fmt.Sprintf("%s%s (%d attributes)", p.name.Value(), p.descriptor.Value(), len(p.attributes))
}

// writeTo writes this member, assembling its attribute table with the same
// rules as for class attributes.
func (p *member) writeTo(w *codec.Writer, admit func(attribute.Attribute) (attribute.Attribute, bool)) error {
	holder := attribute.NewHolder()
	//
	for _, attr := range p.attributes {
		if attr, ok := admit(attr); ok {
			holder.Add(attr)
		}
	}
	//
	w.U2(uint16(p.flags))
	//
	if err := w.Index(p.name); err != nil {
		return err
	} else if err := w.Index(p.descriptor); err != nil {
		return err
	}
	//
	return holder.WriteTo(w)
}

// parseMember reads a field_info or method_info structure at a given position,
// returning the position following it.
func parseMember(r *codec.Reader, registry *attribute.Registry, pos int, location attribute.Location) (member, int, error) {
	var (
		m   member
		err error
	)
	//
	flags, err := r.U2(pos)
	if err != nil {
		return m, pos, err
	}
	//
	m.flags = AccessFlags(flags)
	//
	if m.name, err = r.Utf8EntryAt(pos + 2); err != nil {
		return m, pos, malformedClass(pos+2, "invalid member name", err)
	} else if m.descriptor, err = r.Utf8EntryAt(pos + 4); err != nil {
		return m, pos, malformedClass(pos+4, "invalid member descriptor", err)
	}
	//
	m.attributes, pos, err = registry.ReadTable(r, pos+6, location)
	//
	return m, pos, err
}

// checkLocation checks an attribute may be attached to a given container.
func checkLocation(attr attribute.Attribute, location attribute.Location) error {
	if attr == nil {
		return fault.New(fault.InvalidArgument, "nil attribute")
	} else if !attr.Mapper().Locations().Permits(location) {
		return fault.New(fault.InvalidArgument, "attribute not permitted on %s", location).InAttribute(attr.Name())
	}
	//
	return nil
}

// isUnknown checks whether an attribute is opaque to this package.
func isUnknown(attr attribute.Attribute) bool {
	_, ok := attr.(attribute.Opaque)
	return ok
}

func malformedClass(pos int, message string, cause error) error {
	return &fault.Error{Code: fault.MalformedClass, Offset: pos, Index: fault.NoIndex, Message: message, Cause: cause}
}
