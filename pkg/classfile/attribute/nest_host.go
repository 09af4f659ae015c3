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
	"github.com/consensys/go-classfile/pkg/classfile/desc"
	"github.com/consensys/go-classfile/pkg/fault"
)

// NestHostName is the binary name of the NestHost attribute.
const NestHostName = "NestHost"

// NestHostMapper describes the NestHost attribute, which names the host of
// the nest to which a class belongs.
var NestHostMapper = NewMapper(NestHostName, AtMostOne, ClassLocation,
	func(record Bound) Attribute { return &BoundNestHost{record} })

// NestHost models the NestHost attribute.
type NestHost interface {
	Attribute
	NestHost() (*constantpool.ClassEntry, error)
}

// NewNestHost constructs a NestHost attribute.
func NewNestHost(host *constantpool.ClassEntry) (*UnboundNestHost, error) {
	if host == nil {
		return nil, fault.New(fault.InvalidArgument, "nil nest host").InAttribute(NestHostName)
	}
	//
	return &UnboundNestHost{host}, nil
}

// NestHostOfSymbol constructs a NestHost attribute from a symbolic descriptor.
func NestHostOfSymbol(host desc.ClassDesc) (*UnboundNestHost, error) {
	classes, err := resolveClassList(NestHostName, []desc.ClassDesc{host})
	if err != nil {
		return nil, err
	}
	//
	return &UnboundNestHost{classes[0]}, nil
}

// UnboundNestHost is a NestHost attribute constructed in memory.
type UnboundNestHost struct {
	host *constantpool.ClassEntry
}

// Name implementation for the Attribute interface.
func (p *UnboundNestHost) Name() string { return NestHostName }

// Mapper implementation for the Attribute interface.
func (p *UnboundNestHost) Mapper() Mapper { return NestHostMapper }

// NestHost implementation for the NestHost interface.
func (p *UnboundNestHost) NestHost() (*constantpool.ClassEntry, error) { return p.host, nil }

// WriteTo implementation for the Attribute interface.
func (p *UnboundNestHost) WriteTo(w *codec.Writer) error {
	return writeRecord(w, NestHostName, func(w *codec.Writer) error { return w.Index(p.host) })
}

func (p *UnboundNestHost) String() string {
	return fmt.Sprintf("%s[%s]", NestHostName, p.host.InternalName())
}

// BoundNestHost is a NestHost attribute read from a class-file buffer.
type BoundNestHost struct {
	Bound
}

// Name implementation for the Attribute interface.
func (p *BoundNestHost) Name() string { return NestHostName }

// Mapper implementation for the Attribute interface.
func (p *BoundNestHost) Mapper() Mapper { return NestHostMapper }

// NestHost implementation for the NestHost interface.
func (p *BoundNestHost) NestHost() (*constantpool.ClassEntry, error) {
	if err := p.expectLength(2); err != nil {
		return nil, err
	}
	//
	return p.classAt(0)
}

// WriteTo implementation for the Attribute interface.
func (p *BoundNestHost) WriteTo(w *codec.Writer) error {
	if p.CanWriteDirect(w) {
		p.writeDirect(w)
		return nil
	}
	//
	host, err := p.NestHost()
	if err != nil {
		return err
	}
	//
	return writeRecord(w, NestHostName, func(w *codec.Writer) error { return w.Index(host) })
}

func (p *BoundNestHost) String() string {
	if host, err := p.NestHost(); err == nil {
		return fmt.Sprintf("%s[%s]", NestHostName, host.InternalName())
	} else {
		return fmt.Sprintf("%s[<%s>]", NestHostName, fault.CodeOf(err))
	}
}

// Check implementation for the Checker interface.
func (p *BoundNestHost) Check() error {
	_, err := p.NestHost()
	return err
}
