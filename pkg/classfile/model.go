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
	"github.com/consensys/go-classfile/pkg/classfile/attribute"
	"github.com/consensys/go-classfile/pkg/classfile/codec"
	"github.com/consensys/go-classfile/pkg/classfile/constantpool"
	log "github.com/sirupsen/logrus"
)

// Magic is the first four bytes of every class file.
const Magic uint32 = 0xCAFEBABE

// ClassModel is a parsed class file.  The model is a view over the original
// buffer: the constant pool is materialised lazily, and attribute payloads are
// only decoded when asked for.  The buffer must not be modified while the model
// (or anything obtained from it) is in use.  Subject to this, a model is safe
// for concurrent reading.
type ClassModel struct {
	reader     *codec.Reader
	version    Version
	flags      AccessFlags
	thisClass  *constantpool.ClassEntry
	superclass *constantpool.ClassEntry
	interfaces []*constantpool.ClassEntry
	fields     []*Field
	methods    []*Method
	attributes []attribute.Attribute
}

// Parse a class file held in a given buffer.  This checks the overall structure
// of the class (header, constant pool, member tables and attribute tables) but
// decodes no attribute payloads.
func Parse(buf []byte, opts ...Option) (*ClassModel, error) {
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	//
	if len(buf) < 10 {
		return nil, malformedClass(0, "truncated class file header", nil)
	}
	//
	header := codec.NewReader(buf, nil)
	//
	if magic, _ := header.U4(0); magic != Magic {
		return nil, malformedClass(0, "bad magic number", nil)
	}
	//
	var model ClassModel
	//
	model.version.Minor, _ = header.U2(4)
	model.version.Major, _ = header.U2(6)
	//
	pool, err := constantpool.NewReader(buf, 8)
	if err != nil {
		return nil, err
	}
	//
	model.reader = codec.NewReader(buf, pool)
	//
	pos, err := model.parseHeader(pool.End())
	if err != nil {
		return nil, err
	}
	//
	if pos, err = model.parseMembers(o.registry, pos); err != nil {
		return nil, err
	}
	//
	if model.attributes, pos, err = o.registry.ReadTable(model.reader, pos, attribute.ClassLocation); err != nil {
		return nil, err
	}
	//
	if pos != len(buf) {
		return nil, malformedClass(pos, "trailing bytes after class", nil)
	}
	//
	log.Debugf("parsed class %s (%s, %d fields, %d methods, %d attributes)", model.thisClass.InternalName(),
		model.version, len(model.fields), len(model.methods), len(model.attributes))
	//
	return &model, nil
}

// Parse access flags, this class, superclass and interfaces.
func (p *ClassModel) parseHeader(pos int) (int, error) {
	var (
		r   = p.reader
		err error
	)
	//
	flags, err := r.U2(pos)
	if err != nil {
		return pos, err
	}
	//
	p.flags = AccessFlags(flags)
	//
	if p.thisClass, err = r.ClassEntryAt(pos + 2); err != nil {
		return pos, malformedClass(pos+2, "invalid this_class", err)
	} else if p.superclass, err = r.OptionalClassEntryAt(pos + 4); err != nil {
		return pos, malformedClass(pos+4, "invalid super_class", err)
	}
	//
	count, err := r.U2(pos + 6)
	if err != nil {
		return pos, err
	}
	//
	pos += 8
	p.interfaces = make([]*constantpool.ClassEntry, count)
	//
	for i := range p.interfaces {
		if p.interfaces[i], err = r.ClassEntryAt(pos); err != nil {
			return pos, malformedClass(pos, "invalid interface", err)
		}
		//
		pos += 2
	}
	//
	return pos, nil
}

// Parse the field and method tables.
func (p *ClassModel) parseMembers(registry *attribute.Registry, pos int) (int, error) {
	count, err := p.reader.U2(pos)
	if err != nil {
		return pos, err
	}
	//
	pos += 2
	p.fields = make([]*Field, count)
	//
	for i := range p.fields {
		var m member
		//
		if m, pos, err = parseMember(p.reader, registry, pos, attribute.FieldLocation); err != nil {
			return pos, err
		}
		//
		p.fields[i] = &Field{m}
	}
	//
	if count, err = p.reader.U2(pos); err != nil {
		return pos, err
	}
	//
	pos += 2
	p.methods = make([]*Method, count)
	//
	for i := range p.methods {
		var m member
		//
		if m, pos, err = parseMember(p.reader, registry, pos, attribute.MethodLocation); err != nil {
			return pos, err
		}
		//
		p.methods[i] = &Method{m}
	}
	//
	return pos, nil
}

// Bytes returns the buffer from which this class was parsed.
func (p *ClassModel) Bytes() []byte {
	return p.reader.Buffer()
}

// Pool returns the constant pool of this class.
func (p *ClassModel) Pool() *constantpool.Reader {
	return p.reader.Pool()
}

// Version returns the class-file version.
func (p *ClassModel) Version() Version {
	return p.version
}

// Flags returns the access flags of this class.
func (p *ClassModel) Flags() AccessFlags {
	return p.flags
}

// ThisClass returns the Class entry of this class.
func (p *ClassModel) ThisClass() *constantpool.ClassEntry {
	return p.thisClass
}

// Superclass returns the Class entry of the direct superclass, or nil.
func (p *ClassModel) Superclass() *constantpool.ClassEntry {
	return p.superclass
}

// Interfaces returns the direct superinterfaces of this class.
func (p *ClassModel) Interfaces() []*constantpool.ClassEntry {
	return p.interfaces
}

// Fields returns the fields of this class, in order.
func (p *ClassModel) Fields() []*Field {
	return p.fields
}

// Methods returns the methods of this class, in order.
func (p *ClassModel) Methods() []*Method {
	return p.methods
}

// Attributes returns the class attributes, in order.
func (p *ClassModel) Attributes() []attribute.Attribute {
	return p.attributes
}

// Elements returns the elements of this class in traversal order: version,
// access flags, superclass, interfaces, fields, methods and finally class
// attributes.  Feeding these into a ClassBuilder for the same class reproduces
// it.
func (p *ClassModel) Elements() []Element {
	elements := make([]Element, 0, 4+len(p.fields)+len(p.methods)+len(p.attributes))
	//
	elements = append(elements, p.version, p.flags, Superclass{p.superclass}, Interfaces{p.interfaces})
	//
	for _, f := range p.fields {
		elements = append(elements, f)
	}
	//
	for _, m := range p.methods {
		elements = append(elements, m)
	}
	//
	for _, a := range p.attributes {
		elements = append(elements, a)
	}
	//
	return elements
}
