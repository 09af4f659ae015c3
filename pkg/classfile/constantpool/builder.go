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
package constantpool

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/consensys/go-classfile/pkg/classfile/desc"
	"github.com/consensys/go-classfile/pkg/fault"
)

// MaxUtf8Length is the largest number of bytes a Utf8 entry can encode.
const MaxUtf8Length = math.MaxUint16

// Builder assembles a constant pool, interning entries so that requesting the
// same constant twice yields the same slot.  A builder may be layered over a
// parent pool read from a class file, in which case every parent entry keeps
// its index and new entries are appended after them.  This allows attribute
// bytes from the parent to be copied verbatim.
//
// A builder is not safe for concurrent use.  Independent builders share
// nothing and can be used in parallel.
type Builder struct {
	parent *Reader
	// Index of the first slot owned by this builder.
	base uint16
	// Next free index
	size uint16
	// Entries owned by this builder (nil for the second slot of Long/Double).
	entries []Entry
	// Interning table, keyed on content in terms of indices in this pool.
	lookup map[entryKey]Entry
	// Whether or not parent entries have been added to the lookup table.
	indexed bool
}

var _ Pool = &Builder{}

// NewBuilder constructs an empty pool builder.
func NewBuilder() *Builder {
	return &Builder{base: 1, size: 1, lookup: make(map[entryKey]Entry)}
}

// NewBuilderOver constructs a builder layered over a parent pool.  Parent
// entries retain their indices.
func NewBuilderOver(parent *Reader) *Builder {
	base := max(parent.Size(), 1)
	//
	return &Builder{parent: parent, base: base, size: base, lookup: make(map[entryKey]Entry)}
}

// Parent returns the parent pool of this builder, or nil.
func (p *Builder) Parent() *Reader {
	return p.parent
}

// Size implementation for the Pool interface.
func (p *Builder) Size() uint16 {
	return p.size
}

// EntryAt implementation for the Pool interface.
func (p *Builder) EntryAt(index uint16) (Entry, error) {
	if p.parent != nil && index < p.base {
		return p.parent.EntryAt(index)
	} else if index < p.base || index >= p.size || p.entries[index-p.base] == nil {
		return nil, fault.Bounds(int(index), "constant pool index out of bounds (pool size %d)", p.size)
	}
	//
	return p.entries[index-p.base], nil
}

// CanWriteDirect checks whether index values taken from a given pool are valid
// in this builder, meaning raw bytes referencing that pool can be copied
// without re-resolution.
func (p *Builder) CanWriteDirect(pool Pool) bool {
	return pool == Pool(p) || (p.parent != nil && pool == Pool(p.parent))
}

// Contains checks whether a given entry is a member of this pool, in which case
// its index can be used as is.
func (p *Builder) Contains(e Entry) bool {
	return e != nil && p.CanWriteDirect(e.Pool())
}

// Intern returns the entry of this pool equivalent to a given entry, adding it
// (and anything it references) if necessary.  Entries which are already
// members of this pool are returned unchanged.
func (p *Builder) Intern(e Entry) (Entry, error) {
	if e == nil {
		return nil, fault.New(fault.InvalidArgument, "cannot intern nil entry")
	} else if p.Contains(e) {
		return e, nil
	}
	//
	switch e := e.(type) {
	case *Utf8Entry:
		return p.Utf8(e.value)
	case *IntegerEntry:
		return p.Integer(e.value)
	case *FloatEntry:
		return p.floatBits(e.bits)
	case *LongEntry:
		return p.Long(e.value)
	case *DoubleEntry:
		return p.doubleBits(e.bits)
	case *ClassEntry:
		return p.InternClass(e)
	case *StringEntry:
		return p.StringConstant(e.utf8.value)
	case *MethodTypeEntry:
		return p.MethodType(e.descriptor.value)
	case *NamedEntry:
		return p.named(e.tag, e.name.value)
	case *NameAndTypeEntry:
		return p.NameAndType(e.name.value, e.descriptor.value)
	case *MemberRefEntry:
		return p.internMemberRef(e)
	case *MethodHandleEntry:
		ref, err := p.internMemberRef(e.reference)
		if err != nil {
			return nil, err
		}
		//
		return p.MethodHandle(e.kind, ref)
	case *DynamicEntry:
		nat, err := p.NameAndType(e.nat.name.value, e.nat.descriptor.value)
		if err != nil {
			return nil, err
		}
		//
		return p.intern(&DynamicEntry{tag: e.tag, bootstrap: e.bootstrap, nat: nat})
	}
	//
	return nil, fault.New(fault.InvalidArgument, "cannot intern entry of kind %s", e.Tag())
}

// InternClass is a typed variant of Intern for Class entries.
func (p *Builder) InternClass(e *ClassEntry) (*ClassEntry, error) {
	if e == nil {
		return nil, fault.New(fault.InvalidArgument, "cannot intern nil class entry")
	} else if p.Contains(e) {
		return e, nil
	}
	//
	return p.Class(e.name.value)
}

// InternUtf8 is a typed variant of Intern for Utf8 entries.
func (p *Builder) InternUtf8(e *Utf8Entry) (*Utf8Entry, error) {
	if e == nil {
		return nil, fault.New(fault.InvalidArgument, "cannot intern nil Utf8 entry")
	} else if p.Contains(e) {
		return e, nil
	}
	//
	return p.Utf8(e.value)
}

// Utf8 returns a Utf8 entry for a given string.
func (p *Builder) Utf8(s string) (*Utf8Entry, error) {
	if n := modifiedUtf8Length(s); n > MaxUtf8Length {
		return nil, fault.New(fault.InvalidArgument, "string of %d bytes exceeds Utf8 entry limit", n)
	}
	//
	e, err := p.intern(&Utf8Entry{value: s})
	if err != nil {
		return nil, err
	}
	//
	return e.(*Utf8Entry), nil
}

// Class returns a Class entry for a given internal name (or array descriptor).
func (p *Builder) Class(internalName string) (*ClassEntry, error) {
	name, err := p.Utf8(internalName)
	if err != nil {
		return nil, err
	}
	//
	e, err := p.intern(&ClassEntry{name: name})
	if err != nil {
		return nil, err
	}
	//
	return e.(*ClassEntry), nil
}

// ClassFor resolves a symbolic class descriptor into a Class entry.  This
// fails with a SymbolResolution error if the descriptor cannot be represented
// as a Class entry (e.g. it describes a primitive type).
func (p *Builder) ClassFor(d desc.ClassDesc) (*ClassEntry, error) {
	name, err := d.InternalName()
	if err != nil {
		return nil, err
	}
	//
	return p.Class(name)
}

// StringConstant returns a String entry for a given string.
func (p *Builder) StringConstant(s string) (*StringEntry, error) {
	utf8, err := p.Utf8(s)
	if err != nil {
		return nil, err
	}
	//
	e, err := p.intern(&StringEntry{utf8: utf8})
	if err != nil {
		return nil, err
	}
	//
	return e.(*StringEntry), nil
}

// Integer returns an Integer entry for a given value.
func (p *Builder) Integer(value int32) (*IntegerEntry, error) {
	e, err := p.intern(&IntegerEntry{value: value})
	if err != nil {
		return nil, err
	}
	//
	return e.(*IntegerEntry), nil
}

// Float returns a Float entry for a given value.
func (p *Builder) Float(value float32) (*FloatEntry, error) {
	return p.floatBits(math.Float32bits(value))
}

func (p *Builder) floatBits(bits uint32) (*FloatEntry, error) {
	e, err := p.intern(&FloatEntry{bits: bits})
	if err != nil {
		return nil, err
	}
	//
	return e.(*FloatEntry), nil
}

// Long returns a Long entry for a given value.
func (p *Builder) Long(value int64) (*LongEntry, error) {
	e, err := p.intern(&LongEntry{value: value})
	if err != nil {
		return nil, err
	}
	//
	return e.(*LongEntry), nil
}

// Double returns a Double entry for a given value.
func (p *Builder) Double(value float64) (*DoubleEntry, error) {
	return p.doubleBits(math.Float64bits(value))
}

func (p *Builder) doubleBits(bits uint64) (*DoubleEntry, error) {
	e, err := p.intern(&DoubleEntry{bits: bits})
	if err != nil {
		return nil, err
	}
	//
	return e.(*DoubleEntry), nil
}

// MethodType returns a MethodType entry for a given method descriptor.
func (p *Builder) MethodType(descriptor string) (*MethodTypeEntry, error) {
	utf8, err := p.Utf8(descriptor)
	if err != nil {
		return nil, err
	}
	//
	e, err := p.intern(&MethodTypeEntry{descriptor: utf8})
	if err != nil {
		return nil, err
	}
	//
	return e.(*MethodTypeEntry), nil
}

// Module returns a Module entry for a given module name.
func (p *Builder) Module(name string) (*NamedEntry, error) {
	return p.named(TagModule, name)
}

// Package returns a Package entry for a given (internal form) package name.
func (p *Builder) Package(name string) (*NamedEntry, error) {
	return p.named(TagPackage, name)
}

func (p *Builder) named(tag Tag, name string) (*NamedEntry, error) {
	utf8, err := p.Utf8(name)
	if err != nil {
		return nil, err
	}
	//
	e, err := p.intern(&NamedEntry{tag: tag, name: utf8})
	if err != nil {
		return nil, err
	}
	//
	return e.(*NamedEntry), nil
}

// NameAndType returns a NameAndType entry.
func (p *Builder) NameAndType(name string, descriptor string) (*NameAndTypeEntry, error) {
	n, err := p.Utf8(name)
	if err != nil {
		return nil, err
	}
	//
	d, err := p.Utf8(descriptor)
	if err != nil {
		return nil, err
	}
	//
	e, err := p.intern(&NameAndTypeEntry{name: n, descriptor: d})
	if err != nil {
		return nil, err
	}
	//
	return e.(*NameAndTypeEntry), nil
}

// Fieldref returns a Fieldref entry.
func (p *Builder) Fieldref(owner string, name string, descriptor string) (*MemberRefEntry, error) {
	return p.memberRef(TagFieldref, owner, name, descriptor)
}

// Methodref returns a Methodref entry.
func (p *Builder) Methodref(owner string, name string, descriptor string) (*MemberRefEntry, error) {
	return p.memberRef(TagMethodref, owner, name, descriptor)
}

// InterfaceMethodref returns an InterfaceMethodref entry.
func (p *Builder) InterfaceMethodref(owner string, name string, descriptor string) (*MemberRefEntry, error) {
	return p.memberRef(TagInterfaceMethodref, owner, name, descriptor)
}

func (p *Builder) internMemberRef(e *MemberRefEntry) (*MemberRefEntry, error) {
	if p.Contains(e) {
		return e, nil
	}
	//
	return p.memberRef(e.tag, e.owner.name.value, e.nat.name.value, e.nat.descriptor.value)
}

func (p *Builder) memberRef(tag Tag, owner string, name string, descriptor string) (*MemberRefEntry, error) {
	class, err := p.Class(owner)
	if err != nil {
		return nil, err
	}
	//
	nat, err := p.NameAndType(name, descriptor)
	if err != nil {
		return nil, err
	}
	//
	e, err := p.intern(&MemberRefEntry{tag: tag, owner: class, nat: nat})
	if err != nil {
		return nil, err
	}
	//
	return e.(*MemberRefEntry), nil
}

// MethodHandle returns a MethodHandle entry for a given reference kind and
// member.
func (p *Builder) MethodHandle(kind uint8, reference *MemberRefEntry) (*MethodHandleEntry, error) {
	ref, err := p.internMemberRef(reference)
	if err != nil {
		return nil, err
	}
	//
	e, err := p.intern(&MethodHandleEntry{kind: kind, reference: ref})
	if err != nil {
		return nil, err
	}
	//
	return e.(*MethodHandleEntry), nil
}

// WriteTo writes the binary form of this pool (constant_pool_count followed by
// all entries) to a given writer.  Parent entries are copied byte for byte.
func (p *Builder) WriteTo(w io.Writer) (int64, error) {
	bytes := binary.BigEndian.AppendUint16(nil, p.size)
	//
	if p.parent != nil {
		bytes = append(bytes, p.parent.RawEntries()...)
	}
	//
	for _, e := range p.entries {
		if e != nil {
			bytes = e.appendTo(bytes)
		}
	}
	//
	n, err := w.Write(bytes)
	//
	return int64(n), err
}

// intern looks up a (fully resolved) candidate entry, adding it if it is not
// already present.  The candidate's own pool and index are ignored.
func (p *Builder) intern(candidate Entry) (Entry, error) {
	key := candidate.key()
	//
	if e, ok := p.lookup[key]; ok {
		return e, nil
	} else if p.parent != nil && !p.indexed {
		p.indexParent()
		// Retry now the parent is indexed
		if e, ok := p.lookup[key]; ok {
			return e, nil
		}
	}
	//
	width := candidate.Tag().Width()
	//
	if uint32(p.size)+uint32(width) > math.MaxUint16 {
		return nil, fault.New(fault.PoolBounds, "constant pool overflow (%d entries)", p.size)
	}
	// Allocate the slot(s)
	candidate.bind(p, p.size)
	p.entries = append(p.entries, candidate)
	//
	if width == 2 {
		p.entries = append(p.entries, nil)
	}
	//
	p.size += width
	p.lookup[key] = candidate
	//
	return candidate, nil
}

// indexParent adds all (well formed) parent entries to the lookup table.  When
// the parent contains duplicates, the first occurrence is preferred.
func (p *Builder) indexParent() {
	p.indexed = true
	//
	for i := uint16(1); i < p.parent.Size(); i++ {
		e, err := p.parent.EntryAt(i)
		//
		if err != nil {
			continue
		}
		//
		if _, ok := p.lookup[e.key()]; !ok {
			p.lookup[e.key()] = e
		}
	}
}
