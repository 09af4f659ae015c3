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
	"bytes"
	"encoding/binary"

	"github.com/consensys/go-classfile/pkg/classfile/attribute"
	"github.com/consensys/go-classfile/pkg/classfile/codec"
	"github.com/consensys/go-classfile/pkg/classfile/constantpool"
	"github.com/consensys/go-classfile/pkg/classfile/desc"
	"github.com/consensys/go-classfile/pkg/fault"
	log "github.com/sirupsen/logrus"
)

// ObjectClass is the internal name of the implicit superclass.
const ObjectClass = "java/lang/Object"

// ClassBuilder assembles a class from elements supplied in order.  Fields and
// methods are emitted in the order given.  Later version, access flag,
// superclass and interface elements replace earlier ones.  Attributes are
// collected as described for attribute.Holder, so that for single-instance
// kinds the last one supplied wins.
type ClassBuilder struct {
	pool        *constantpool.Builder
	dropUnknown bool
	copyUnknown bool
	version     Version
	flags       AccessFlags
	thisClass   *constantpool.ClassEntry
	superclass  *constantpool.ClassEntry
	interfaces  []*constantpool.ClassEntry
	fields      []*Field
	methods     []*Method
	attributes  *attribute.Holder
}

func newClassBuilder(pool *constantpool.Builder, thisClass *constantpool.ClassEntry, o options) (*ClassBuilder, error) {
	object, err := constantpool.TemporaryClass(desc.MustOf("java.lang.Object"))
	if err != nil {
		return nil, err
	}
	//
	return &ClassBuilder{
		pool:        pool,
		dropUnknown: o.dropUnknown,
		copyUnknown: o.copyUnknown,
		version:     DefaultVersion,
		flags:       AccPublic | AccSuper,
		thisClass:   thisClass,
		superclass:  object,
		attributes:  attribute.NewHolder(),
	}, nil
}

// Build a class with a given name.  The supplied function is responsible for
// adding the elements of the class.  Unless otherwise specified, the class has
// the default version, is public and extends java/lang/Object.
func Build(thisClass desc.ClassDesc, fn func(*ClassBuilder) error, opts ...Option) ([]byte, error) {
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	//
	class, err := constantpool.TemporaryClass(thisClass)
	if err != nil {
		return nil, err
	}
	//
	pool := o.pool
	if pool == nil {
		pool = constantpool.NewBuilder()
	}
	//
	builder, err := newClassBuilder(pool, class, o)
	if err != nil {
		return nil, err
	} else if err := fn(builder); err != nil {
		return nil, err
	} else if err := builder.With(o.appended...); err != nil {
		return nil, err
	}
	//
	return builder.Finish()
}

// Pool returns the constant pool being built, through which entries for use in
// attributes can be created.
func (p *ClassBuilder) Pool() *constantpool.Builder {
	return p.pool
}

// With adds one or more elements to this class, in order.
func (p *ClassBuilder) With(elements ...Element) error {
	for _, element := range elements {
		if err := p.with(element); err != nil {
			return err
		}
	}
	//
	return nil
}

func (p *ClassBuilder) with(element Element) error {
	switch e := element.(type) {
	case Version:
		p.version = e
	case AccessFlags:
		p.flags = e
	case Superclass:
		p.superclass = e.Class
	case Interfaces:
		p.interfaces = append([]*constantpool.ClassEntry(nil), e.Classes...)
	case *Field:
		p.fields = append(p.fields, e)
	case *Method:
		p.methods = append(p.methods, e)
	case attribute.Attribute:
		return p.withAttribute(e)
	default:
		return fault.New(fault.InvalidArgument, "unknown class element %T", element)
	}
	//
	return nil
}

func (p *ClassBuilder) withAttribute(attr attribute.Attribute) error {
	if err := checkLocation(attr, attribute.ClassLocation); err != nil {
		return err
	}
	//
	attr, ok := p.admit(attr)
	if !ok {
		return nil
	}
	//
	if p.attributes.Add(attr) {
		log.Debugf("attribute %s replaces earlier instance", attr.Name())
	}
	//
	return nil
}

// admit applies the unknown attribute policy to an attribute destined for this
// class, returning false if it is to be dropped.
func (p *ClassBuilder) admit(attr attribute.Attribute) (attribute.Attribute, bool) {
	if !isUnknown(attr) {
		return attr, true
	} else if p.dropUnknown {
		log.Debugf("dropping unknown attribute %s", attr.Name())
		return nil, false
	}
	//
	if u, ok := attr.(*attribute.Unknown); ok && p.copyUnknown && !p.pool.CanWriteDirect(u.Reader().Pool()) {
		return u.Detach(), true
	}
	//
	return attr, true
}

// Finish writes the class.  The constant pool is written last, since writing
// the rest of the class may add entries to it.
func (p *ClassBuilder) Finish() ([]byte, error) {
	body := codec.NewWriter(p.pool)
	//
	if err := p.writeBody(body); err != nil {
		return nil, err
	}
	//
	var out bytes.Buffer
	//
	out.Write(binary.BigEndian.AppendUint32(nil, Magic))
	out.Write(binary.BigEndian.AppendUint16(nil, p.version.Minor))
	out.Write(binary.BigEndian.AppendUint16(nil, p.version.Major))
	//
	if _, err := p.pool.WriteTo(&out); err != nil {
		return nil, err
	} else if _, err := body.WriteTo(&out); err != nil {
		return nil, err
	}
	//
	log.Debugf("assembled class %s (%d pool entries, %d attributes, %d bytes)", p.thisClass.InternalName(),
		p.pool.Size(), p.attributes.Len(), out.Len())
	//
	return out.Bytes(), nil
}

func (p *ClassBuilder) writeBody(w *codec.Writer) error {
	w.U2(uint16(p.flags))
	//
	if err := w.Index(p.thisClass); err != nil {
		return err
	} else if err := w.IndexOrZero(p.superclass); err != nil {
		return err
	} else if err := w.Count(len(p.interfaces)); err != nil {
		return err
	}
	//
	for _, c := range p.interfaces {
		if err := w.Index(c); err != nil {
			return err
		}
	}
	// Fields
	if err := w.Count(len(p.fields)); err != nil {
		return err
	}
	//
	for _, f := range p.fields {
		if err := f.writeTo(w, p.admit); err != nil {
			return err
		}
	}
	// Methods
	if err := w.Count(len(p.methods)); err != nil {
		return err
	}
	//
	for _, m := range p.methods {
		if err := m.writeTo(w, p.admit); err != nil {
			return err
		}
	}
	//
	return p.attributes.WriteTo(w)
}
