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
	"fmt"
	"math"

	"github.com/consensys/go-classfile/pkg/classfile/desc"
)

// Pool provides read access to a constant pool, whether that was parsed from a
// class file or is being assembled by a builder.
type Pool interface {
	// Size returns the constant_pool_count of this pool, which is one more
	// than the largest valid index.
	Size() uint16
	// EntryAt returns the entry at a given index.  This fails with a
	// PoolBounds error if the index is zero, out of range, or refers to the
	// unusable second slot of a Long or Double entry.
	EntryAt(index uint16) (Entry, error)
}

// Entry is a handle onto a single slot of a constant pool.  Handles are
// borrowed references: the pool owns the slot, and two handles denote the same
// entry exactly when they share a pool and an index (see SameEntry).
type Entry interface {
	// Tag returns the kind of this entry.
	Tag() Tag
	// Index returns the slot index of this entry within its pool.
	Index() uint16
	// Pool returns the pool to which this entry belongs.
	Pool() Pool
	// String returns a human readable rendering of this entry.
	String() string
	// key identifies the content of this entry for the purposes of interning.
	key() entryKey
	// appendTo appends the binary form (tag byte included) of this entry.
	appendTo([]byte) []byte
	// bind assigns this entry to a slot of a given pool.
	bind(Pool, uint16)
}

// SameEntry checks whether two handles denote the same pool slot.
func SameEntry(a, b Entry) bool {
	return a.Pool() == b.Pool() && a.Index() == b.Index()
}

// entryKey captures the content of an entry in terms of the indices of the
// entries it references.  Keys are only comparable within a single pool.
type entryKey struct {
	tag  Tag
	text string
	bits uint64
	a, b uint16
}

type entry struct {
	pool  Pool
	index uint16
}

// Index implementation for the Entry interface.
func (p *entry) Index() uint16 {
	return p.index
}

// Pool implementation for the Entry interface.
func (p *entry) Pool() Pool {
	return p.pool
}

func (p *entry) bind(pool Pool, index uint16) {
	p.pool = pool
	p.index = index
}

func appendU2(dst []byte, v uint16) []byte {
	return binary.BigEndian.AppendUint16(dst, v)
}

// ============================================================================
// Utf8
// ============================================================================

// Utf8Entry is a CONSTANT_Utf8 entry.
type Utf8Entry struct {
	entry
	value string
}

// Tag implementation for the Entry interface.
func (p *Utf8Entry) Tag() Tag { return TagUtf8 }

// Value returns the decoded string.
func (p *Utf8Entry) Value() string { return p.value }

// Equals checks whether this entry holds a given string.
func (p *Utf8Entry) Equals(s string) bool { return p.value == s }

func (p *Utf8Entry) String() string { return p.value }

func (p *Utf8Entry) key() entryKey { return entryKey{tag: TagUtf8, text: p.value} }

func (p *Utf8Entry) appendTo(dst []byte) []byte {
	dst = append(dst, byte(TagUtf8))
	dst = appendU2(dst, uint16(modifiedUtf8Length(p.value)))
	//
	return encodeModifiedUtf8(dst, p.value)
}

// ============================================================================
// Numeric constants
// ============================================================================

// IntegerEntry is a CONSTANT_Integer entry.
type IntegerEntry struct {
	entry
	value int32
}

// Tag implementation for the Entry interface.
func (p *IntegerEntry) Tag() Tag { return TagInteger }

// Value returns the integer value.
func (p *IntegerEntry) Value() int32 { return p.value }

func (p *IntegerEntry) String() string { return fmt.Sprintf("%d", p.value) }

func (p *IntegerEntry) key() entryKey { return entryKey{tag: TagInteger, bits: uint64(uint32(p.value))} }

func (p *IntegerEntry) appendTo(dst []byte) []byte {
	return binary.BigEndian.AppendUint32(append(dst, byte(TagInteger)), uint32(p.value))
}

// FloatEntry is a CONSTANT_Float entry.
type FloatEntry struct {
	entry
	bits uint32
}

// Tag implementation for the Entry interface.
func (p *FloatEntry) Tag() Tag { return TagFloat }

// Value returns the float value.
func (p *FloatEntry) Value() float32 { return math.Float32frombits(p.bits) }

func (p *FloatEntry) String() string { return fmt.Sprintf("%gf", p.Value()) }

// Keyed on raw bits, so that distinct NaN payloads are kept apart.
func (p *FloatEntry) key() entryKey { return entryKey{tag: TagFloat, bits: uint64(p.bits)} }

func (p *FloatEntry) appendTo(dst []byte) []byte {
	return binary.BigEndian.AppendUint32(append(dst, byte(TagFloat)), p.bits)
}

// LongEntry is a CONSTANT_Long entry.
type LongEntry struct {
	entry
	value int64
}

// Tag implementation for the Entry interface.
func (p *LongEntry) Tag() Tag { return TagLong }

// Value returns the long value.
func (p *LongEntry) Value() int64 { return p.value }

func (p *LongEntry) String() string { return fmt.Sprintf("%dL", p.value) }

func (p *LongEntry) key() entryKey { return entryKey{tag: TagLong, bits: uint64(p.value)} }

func (p *LongEntry) appendTo(dst []byte) []byte {
	return binary.BigEndian.AppendUint64(append(dst, byte(TagLong)), uint64(p.value))
}

// DoubleEntry is a CONSTANT_Double entry.
type DoubleEntry struct {
	entry
	bits uint64
}

// Tag implementation for the Entry interface.
func (p *DoubleEntry) Tag() Tag { return TagDouble }

// Value returns the double value.
func (p *DoubleEntry) Value() float64 { return math.Float64frombits(p.bits) }

func (p *DoubleEntry) String() string { return fmt.Sprintf("%gd", p.Value()) }

func (p *DoubleEntry) key() entryKey { return entryKey{tag: TagDouble, bits: p.bits} }

func (p *DoubleEntry) appendTo(dst []byte) []byte {
	return binary.BigEndian.AppendUint64(append(dst, byte(TagDouble)), p.bits)
}

// ============================================================================
// Class, String, MethodType, Module, Package
// ============================================================================

// ClassEntry is a CONSTANT_Class entry, naming a class, interface or array
// type.
type ClassEntry struct {
	entry
	name *Utf8Entry
}

// Tag implementation for the Entry interface.
func (p *ClassEntry) Tag() Tag { return TagClass }

// Name returns the Utf8 entry holding the internal name of this class.
func (p *ClassEntry) Name() *Utf8Entry { return p.name }

// InternalName returns the internal name of this class (e.g.
// "java/lang/String").
func (p *ClassEntry) InternalName() string { return p.name.value }

// Desc returns a symbolic descriptor for this class.
func (p *ClassEntry) Desc() (desc.ClassDesc, error) { return desc.OfInternalName(p.name.value) }

func (p *ClassEntry) String() string { return p.name.value }

func (p *ClassEntry) key() entryKey { return entryKey{tag: TagClass, a: p.name.index} }

func (p *ClassEntry) appendTo(dst []byte) []byte {
	return appendU2(append(dst, byte(TagClass)), p.name.index)
}

// StringEntry is a CONSTANT_String entry.
type StringEntry struct {
	entry
	utf8 *Utf8Entry
}

// Tag implementation for the Entry interface.
func (p *StringEntry) Tag() Tag { return TagString }

// Utf8 returns the Utf8 entry holding the string contents.
func (p *StringEntry) Utf8() *Utf8Entry { return p.utf8 }

// Value returns the string contents.
func (p *StringEntry) Value() string { return p.utf8.value }

func (p *StringEntry) String() string { return fmt.Sprintf("%q", p.utf8.value) }

func (p *StringEntry) key() entryKey { return entryKey{tag: TagString, a: p.utf8.index} }

func (p *StringEntry) appendTo(dst []byte) []byte {
	return appendU2(append(dst, byte(TagString)), p.utf8.index)
}

// MethodTypeEntry is a CONSTANT_MethodType entry.
type MethodTypeEntry struct {
	entry
	descriptor *Utf8Entry
}

// Tag implementation for the Entry interface.
func (p *MethodTypeEntry) Tag() Tag { return TagMethodType }

// Descriptor returns the method descriptor.
func (p *MethodTypeEntry) Descriptor() *Utf8Entry { return p.descriptor }

func (p *MethodTypeEntry) String() string { return p.descriptor.value }

func (p *MethodTypeEntry) key() entryKey { return entryKey{tag: TagMethodType, a: p.descriptor.index} }

func (p *MethodTypeEntry) appendTo(dst []byte) []byte {
	return appendU2(append(dst, byte(TagMethodType)), p.descriptor.index)
}

// NamedEntry is either a CONSTANT_Module or CONSTANT_Package entry.
type NamedEntry struct {
	entry
	tag  Tag
	name *Utf8Entry
}

// Tag implementation for the Entry interface.
func (p *NamedEntry) Tag() Tag { return p.tag }

// Name returns the module or package name.
func (p *NamedEntry) Name() *Utf8Entry { return p.name }

func (p *NamedEntry) String() string { return p.name.value }

func (p *NamedEntry) key() entryKey { return entryKey{tag: p.tag, a: p.name.index} }

func (p *NamedEntry) appendTo(dst []byte) []byte {
	return appendU2(append(dst, byte(p.tag)), p.name.index)
}

// ============================================================================
// NameAndType and member references
// ============================================================================

// NameAndTypeEntry is a CONSTANT_NameAndType entry.
type NameAndTypeEntry struct {
	entry
	name       *Utf8Entry
	descriptor *Utf8Entry
}

// Tag implementation for the Entry interface.
func (p *NameAndTypeEntry) Tag() Tag { return TagNameAndType }

// Name returns the member name.
func (p *NameAndTypeEntry) Name() *Utf8Entry { return p.name }

// Descriptor returns the member descriptor.
func (p *NameAndTypeEntry) Descriptor() *Utf8Entry { return p.descriptor }

func (p *NameAndTypeEntry) String() string { return p.name.value + ":" + p.descriptor.value }

func (p *NameAndTypeEntry) key() entryKey {
	return entryKey{tag: TagNameAndType, a: p.name.index, b: p.descriptor.index}
}

func (p *NameAndTypeEntry) appendTo(dst []byte) []byte {
	dst = appendU2(append(dst, byte(TagNameAndType)), p.name.index)
	return appendU2(dst, p.descriptor.index)
}

// MemberRefEntry is a CONSTANT_Fieldref, CONSTANT_Methodref or
// CONSTANT_InterfaceMethodref entry.
type MemberRefEntry struct {
	entry
	tag   Tag
	owner *ClassEntry
	nat   *NameAndTypeEntry
}

// Tag implementation for the Entry interface.
func (p *MemberRefEntry) Tag() Tag { return p.tag }

// Owner returns the class declaring the referenced member.
func (p *MemberRefEntry) Owner() *ClassEntry { return p.owner }

// NameAndType returns the name and descriptor of the referenced member.
func (p *MemberRefEntry) NameAndType() *NameAndTypeEntry { return p.nat }

func (p *MemberRefEntry) String() string { return p.owner.String() + "." + p.nat.String() }

func (p *MemberRefEntry) key() entryKey {
	return entryKey{tag: p.tag, a: p.owner.index, b: p.nat.index}
}

func (p *MemberRefEntry) appendTo(dst []byte) []byte {
	dst = appendU2(append(dst, byte(p.tag)), p.owner.index)
	return appendU2(dst, p.nat.index)
}

// MethodHandleEntry is a CONSTANT_MethodHandle entry.
type MethodHandleEntry struct {
	entry
	kind      uint8
	reference *MemberRefEntry
}

// Tag implementation for the Entry interface.
func (p *MethodHandleEntry) Tag() Tag { return TagMethodHandle }

// Kind returns the reference kind (1-9).
func (p *MethodHandleEntry) Kind() uint8 { return p.kind }

// Reference returns the referenced member.
func (p *MethodHandleEntry) Reference() *MemberRefEntry { return p.reference }

func (p *MethodHandleEntry) String() string { return fmt.Sprintf("%d:%s", p.kind, p.reference) }

func (p *MethodHandleEntry) key() entryKey {
	return entryKey{tag: TagMethodHandle, bits: uint64(p.kind), a: p.reference.index}
}

func (p *MethodHandleEntry) appendTo(dst []byte) []byte {
	return appendU2(append(dst, byte(TagMethodHandle), p.kind), p.reference.index)
}

// DynamicEntry is a CONSTANT_Dynamic or CONSTANT_InvokeDynamic entry.  The
// bootstrap index refers into the BootstrapMethods attribute of the enclosing
// class rather than into the pool, and is therefore carried verbatim between
// pools.
type DynamicEntry struct {
	entry
	tag       Tag
	bootstrap uint16
	nat       *NameAndTypeEntry
}

// Tag implementation for the Entry interface.
func (p *DynamicEntry) Tag() Tag { return p.tag }

// Bootstrap returns the index into the BootstrapMethods table.
func (p *DynamicEntry) Bootstrap() uint16 { return p.bootstrap }

// NameAndType returns the name and descriptor of the dynamic constant or call
// site.
func (p *DynamicEntry) NameAndType() *NameAndTypeEntry { return p.nat }

func (p *DynamicEntry) String() string { return fmt.Sprintf("#%d:%s", p.bootstrap, p.nat) }

func (p *DynamicEntry) key() entryKey {
	return entryKey{tag: p.tag, a: p.bootstrap, b: p.nat.index}
}

func (p *DynamicEntry) appendTo(dst []byte) []byte {
	dst = appendU2(append(dst, byte(p.tag)), p.bootstrap)
	return appendU2(dst, p.nat.index)
}
