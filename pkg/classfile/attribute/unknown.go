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
	log "github.com/sirupsen/logrus"
)

// UnknownMapper returns a mapper for attributes of a given name which have no
// registered mapper.  Such attributes are opaque: any number may appear
// anywhere, and their payload is carried through unchanged.
func UnknownMapper(name string) Mapper {
	return NewMapper(name, Many, AnyLocation, func(record Bound) Attribute { return &Unknown{record} })
}

// Opaque is implemented only by Unknown and Raw, the attributes whose payload
// is not interpreted.
type Opaque interface {
	Attribute
	// Payload returns the raw payload bytes.
	Payload() []byte
	opaque()
}

var (
	_ Opaque = &Unknown{}
	_ Opaque = &Raw{}
)

// Unknown is an attribute read from a class-file buffer which has no registered
// mapper, or which appeared where its mapper does not permit it.
type Unknown struct {
	Bound
}

// Name implementation for the Attribute interface.
func (p *Unknown) Name() string { return p.name.Value() }

// Mapper implementation for the Attribute interface.
func (p *Unknown) Mapper() Mapper { return UnknownMapper(p.name.Value()) }

func (p *Unknown) opaque() {}

// WriteTo implementation for the Attribute interface.  The payload may hold
// pool indices which cannot be remapped, so writing into any pool other than
// the source pool (or one layered over it) fails.  Detach gives an attribute
// which can be written anywhere.
func (p *Unknown) WriteTo(w *codec.Writer) error {
	if !p.CanWriteDirect(w) {
		return fault.New(fault.InvalidArgument, "cannot write unknown attribute into a foreign constant pool").
			InAttribute(p.Name())
	}
	//
	p.writeDirect(w)
	//
	return nil
}

// Detach copies this attribute into memory, such that it no longer refers to
// the source buffer.  The payload is carried over unchanged, so the caller
// takes responsibility for it being meaningful in whichever pool the result is
// written to.
func (p *Unknown) Detach() *Raw {
	log.Debugf("detaching unknown attribute %s (%d bytes)", p.Name(), p.length)
	//
	return &Raw{p.name, append([]byte(nil), p.Payload()...)}
}

func (p *Unknown) String() string {
	return fmt.Sprintf("%s[%d bytes]", p.Name(), p.length)
}

// Raw is an attribute with an uninterpreted payload constructed in memory.
type Raw struct {
	name    *constantpool.Utf8Entry
	payload []byte
}

// NewRaw constructs an opaque attribute with a given name and payload.  The
// payload is copied.
func NewRaw(name string, payload []byte) (*Raw, error) {
	utf8, err := constantpool.TemporaryUtf8(name)
	if err != nil {
		return nil, err
	} else if name == "" {
		return nil, fault.New(fault.InvalidArgument, "empty attribute name")
	}
	//
	return &Raw{utf8, append([]byte(nil), payload...)}, nil
}

// Name implementation for the Attribute interface.
func (p *Raw) Name() string { return p.name.Value() }

// Mapper implementation for the Attribute interface.
func (p *Raw) Mapper() Mapper { return UnknownMapper(p.name.Value()) }

// Payload implementation for the Opaque interface.
func (p *Raw) Payload() []byte { return p.payload }

func (p *Raw) opaque() {}

// WriteTo implementation for the Attribute interface.
func (p *Raw) WriteTo(w *codec.Writer) error {
	return writeRaw(w, p.Name(), p.payload)
}

func (p *Raw) String() string {
	return fmt.Sprintf("%s[%d bytes]", p.Name(), len(p.payload))
}

func writeRaw(w *codec.Writer, name string, payload []byte) error {
	return writeRecord(w, name, func(w *codec.Writer) error {
		w.Raw(payload)
		return nil
	})
}
