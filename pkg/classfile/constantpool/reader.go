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
	"slices"
	"sync/atomic"

	"github.com/consensys/go-classfile/pkg/fault"
)

// Reader is a constant pool bound to a class-file buffer.  Construction scans
// the pool once to record the offset of every entry; entries are then
// materialised lazily on first access.  The buffer is shared and must not be
// mutated for as long as the reader (or anything derived from it) is in use.
// Under that contract a reader may be used concurrently without locking.
type Reader struct {
	buf []byte
	// Offset of constant_pool_count.
	start int
	// Offset of the first byte following the pool.
	end int
	// constant_pool_count
	count uint16
	// offsets[i] is the offset of the tag byte for entry i, or -1 for
	// unusable slots.
	offsets []int
	// Lazily materialised entries.
	cache []atomic.Pointer[slot]
}

type slot struct {
	entry Entry
}

var _ Pool = &Reader{}

// NewReader constructs a bound constant pool over a given buffer, starting at
// the offset of the constant_pool_count item.
func NewReader(buf []byte, offset int) (*Reader, error) {
	if offset < 0 || offset+2 > len(buf) {
		return nil, &fault.Error{Code: fault.MalformedClass, Offset: offset, Index: fault.NoIndex,
			Message: "truncated constant pool count"}
	}
	//
	var (
		count   = binary.BigEndian.Uint16(buf[offset:])
		offsets = make([]int, max(int(count), 1))
		pos     = offset + 2
	)
	//
	offsets[0] = -1
	//
	for i := 1; i < int(count); i++ {
		if pos >= len(buf) {
			return nil, &fault.Error{Code: fault.MalformedClass, Offset: pos, Index: i,
				Message: "truncated constant pool"}
		}
		//
		var (
			tag  = Tag(buf[pos])
			size = tag.payloadSize()
		)
		// Determine payload size
		if tag == TagUtf8 {
			if pos+3 > len(buf) {
				return nil, &fault.Error{Code: fault.MalformedClass, Offset: pos, Index: i,
					Message: "truncated Utf8 entry"}
			}
			//
			size = 2 + int(binary.BigEndian.Uint16(buf[pos+1:]))
		} else if size < 0 {
			return nil, &fault.Error{Code: fault.MalformedClass, Offset: pos, Index: i,
				Message: "unknown constant pool tag " + tag.String()}
		}
		//
		if pos+1+size > len(buf) {
			return nil, &fault.Error{Code: fault.MalformedClass, Offset: pos, Index: i,
				Message: "truncated " + tag.String() + " entry"}
		}
		//
		offsets[i] = pos
		pos += 1 + size
		// Long and Double entries take two slots
		if tag.Width() == 2 {
			i++
			//
			if i < int(count) {
				offsets[i] = -1
			}
		}
	}
	//
	return &Reader{
		buf:     buf,
		start:   offset,
		end:     pos,
		count:   count,
		offsets: offsets,
		cache:   make([]atomic.Pointer[slot], len(offsets)),
	}, nil
}

// Size implementation for the Pool interface.
func (p *Reader) Size() uint16 {
	return p.count
}

// End returns the offset of the first byte following this pool.
func (p *Reader) End() int {
	return p.end
}

// Buffer returns the (shared, read-only) backing buffer.
func (p *Reader) Buffer() []byte {
	return p.buf
}

// RawEntries returns the bytes of all entries in this pool, excluding the
// leading count.  This is a view onto the backing buffer.
func (p *Reader) RawEntries() []byte {
	return p.buf[p.start+2 : p.end]
}

// EntryAt implementation for the Pool interface.
func (p *Reader) EntryAt(index uint16) (Entry, error) {
	if int(index) >= len(p.offsets) || p.offsets[index] < 0 {
		return nil, fault.Bounds(int(index), "constant pool index out of bounds (pool size %d)", p.count)
	} else if s := p.cache[index].Load(); s != nil {
		return s.entry, nil
	}
	//
	e, err := p.materialise(index)
	if err != nil {
		return nil, err
	}
	// Publish, keeping whichever entry won any race.
	p.cache[index].CompareAndSwap(nil, &slot{e})
	//
	return p.cache[index].Load().entry, nil
}

// TagAt returns the tag of the entry at a given index without materialising
// it.
func (p *Reader) TagAt(index uint16) (Tag, error) {
	if int(index) >= len(p.offsets) || p.offsets[index] < 0 {
		return 0, fault.Bounds(int(index), "constant pool index out of bounds (pool size %d)", p.count)
	}
	//
	return Tag(p.buf[p.offsets[index]]), nil
}

// ClassEntryAt returns the Class entry at a given index, failing with a
// PoolBounds error if the index is invalid or refers to another kind of entry.
func (p *Reader) ClassEntryAt(index uint16) (*ClassEntry, error) {
	return readerEntryAs[*ClassEntry](p, index, TagClass)
}

// Utf8EntryAt returns the Utf8 entry at a given index, failing with a
// PoolBounds error if the index is invalid or refers to another kind of entry.
func (p *Reader) Utf8EntryAt(index uint16) (*Utf8Entry, error) {
	return readerEntryAs[*Utf8Entry](p, index, TagUtf8)
}

// Check the kind of an entry before materialising it.  Since entries only ever
// reference entries of "simpler" kinds, this bounds the depth of recursion
// when materialising, even for a maliciously cyclic pool.
func readerEntryAs[T Entry](p *Reader, index uint16, expected ...Tag) (T, error) {
	var empty T
	//
	tag, err := p.TagAt(index)
	if err != nil {
		return empty, err
	} else if !slices.Contains(expected, tag) {
		return empty, fault.Bounds(int(index), "expected %s entry, found %s", expected[0], tag)
	}
	//
	e, err := p.EntryAt(index)
	if err != nil {
		return empty, err
	}
	//
	return e.(T), nil
}

// materialise decodes the entry at a given (valid) index.  References to other
// entries are resolved recursively through EntryAt, so they are shared with
// the cache.
func (p *Reader) materialise(index uint16) (Entry, error) {
	var (
		pos     = p.offsets[index]
		tag     = Tag(p.buf[pos])
		payload = p.buf[pos+1:]
		base    = entry{p, index}
	)
	//
	switch tag {
	case TagUtf8:
		n := int(binary.BigEndian.Uint16(payload))
		//
		value, err := decodeModifiedUtf8(payload[2 : 2+n])
		if err != nil {
			return nil, &fault.Error{Code: fault.MalformedClass, Offset: pos, Index: int(index), Message: err.Error()}
		}
		//
		return &Utf8Entry{base, value}, nil
	case TagInteger:
		return &IntegerEntry{base, int32(binary.BigEndian.Uint32(payload))}, nil
	case TagFloat:
		return &FloatEntry{base, binary.BigEndian.Uint32(payload)}, nil
	case TagLong:
		return &LongEntry{base, int64(binary.BigEndian.Uint64(payload))}, nil
	case TagDouble:
		return &DoubleEntry{base, binary.BigEndian.Uint64(payload)}, nil
	case TagClass:
		name, err := p.Utf8EntryAt(binary.BigEndian.Uint16(payload))
		if err != nil {
			return nil, err
		}
		//
		return &ClassEntry{base, name}, nil
	case TagString:
		utf8, err := p.Utf8EntryAt(binary.BigEndian.Uint16(payload))
		if err != nil {
			return nil, err
		}
		//
		return &StringEntry{base, utf8}, nil
	case TagMethodType:
		descriptor, err := p.Utf8EntryAt(binary.BigEndian.Uint16(payload))
		if err != nil {
			return nil, err
		}
		//
		return &MethodTypeEntry{base, descriptor}, nil
	case TagModule, TagPackage:
		name, err := p.Utf8EntryAt(binary.BigEndian.Uint16(payload))
		if err != nil {
			return nil, err
		}
		//
		return &NamedEntry{base, tag, name}, nil
	case TagNameAndType:
		return p.readNameAndType(base, payload)
	case TagFieldref, TagMethodref, TagInterfaceMethodref:
		owner, err := p.ClassEntryAt(binary.BigEndian.Uint16(payload))
		if err != nil {
			return nil, err
		}
		//
		nat, err := readerEntryAs[*NameAndTypeEntry](p, binary.BigEndian.Uint16(payload[2:]), TagNameAndType)
		if err != nil {
			return nil, err
		}
		//
		return &MemberRefEntry{base, tag, owner, nat}, nil
	case TagMethodHandle:
		member, err := readerEntryAs[*MemberRefEntry](p, binary.BigEndian.Uint16(payload[1:]),
			TagMethodref, TagFieldref, TagInterfaceMethodref)
		if err != nil {
			return nil, err
		}
		//
		return &MethodHandleEntry{base, payload[0], member}, nil
	case TagDynamic, TagInvokeDynamic:
		nat, err := readerEntryAs[*NameAndTypeEntry](p, binary.BigEndian.Uint16(payload[2:]), TagNameAndType)
		if err != nil {
			return nil, err
		}
		//
		return &DynamicEntry{base, tag, binary.BigEndian.Uint16(payload), nat}, nil
	}
	// Unreachable, since tags were checked during the scan.
	return nil, fault.Bounds(int(index), "unknown constant pool tag %s", tag)
}

func (p *Reader) readNameAndType(base entry, payload []byte) (Entry, error) {
	name, err := p.Utf8EntryAt(binary.BigEndian.Uint16(payload))
	if err != nil {
		return nil, err
	}
	//
	descriptor, err := p.Utf8EntryAt(binary.BigEndian.Uint16(payload[2:]))
	if err != nil {
		return nil, err
	}
	//
	return &NameAndTypeEntry{base, name, descriptor}, nil
}
