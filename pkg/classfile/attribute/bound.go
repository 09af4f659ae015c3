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
	"github.com/consensys/go-classfile/pkg/classfile/codec"
	"github.com/consensys/go-classfile/pkg/classfile/constantpool"
	"github.com/consensys/go-classfile/pkg/fault"
)

// HeaderSize is the size of the attribute_name_index and attribute_length
// items which precede every attribute payload.
const HeaderSize = 6

// Bound identifies an attribute record within a parsed class-file buffer.  It
// holds only a reference to the (shared, read-only) buffer and the position of
// the payload; nothing is decoded until asked for.
type Bound struct {
	reader *codec.Reader
	// Utf8 entry holding the attribute name.
	name *constantpool.Utf8Entry
	// Offset of the first payload byte.
	start int
	// Declared payload length.
	length int
}

// NewBound constructs a record for an attribute whose header has already been
// read.  The caller is responsible for checking the payload lies within the
// buffer.
func NewBound(reader *codec.Reader, name *constantpool.Utf8Entry, start int, length int) Bound {
	return Bound{reader, name, start, length}
}

// Reader returns the reader for the backing buffer.
func (p Bound) Reader() *codec.Reader {
	return p.reader
}

// NameEntry returns the Utf8 entry holding the attribute name in the source
// pool.
func (p Bound) NameEntry() *constantpool.Utf8Entry {
	return p.name
}

// Offset returns the offset of the payload within the backing buffer.
func (p Bound) Offset() int {
	return p.start
}

// Length returns the declared payload length.
func (p Bound) Length() int {
	return p.length
}

// Payload returns a view of the payload bytes.
func (p Bound) Payload() []byte {
	return p.reader.Buffer()[p.start : p.start+p.length : p.start+p.length]
}

// Record returns a view of the complete attribute record (header included).
func (p Bound) Record() []byte {
	return p.reader.Buffer()[p.start-HeaderSize : p.start+p.length : p.start+p.length]
}

// CanWriteDirect checks whether this record can be copied byte for byte into a
// given writer, which is the case when the writer's pool is (or extends) the
// pool this record was read against.
func (p Bound) CanWriteDirect(w *codec.Writer) bool {
	return w.Pool().CanWriteDirect(p.reader.Pool())
}

// writeDirect copies the original record verbatim.
func (p Bound) writeDirect(w *codec.Writer) {
	w.Raw(p.Record())
}

// expectLength checks the declared length matches what the payload requires.
func (p Bound) expectLength(expected int) error {
	if p.length != expected {
		return fault.Malformed(p.name.Value(), p.start-4,
			"declared length %d inconsistent with expected length %d", p.length, expected)
	}
	//
	return nil
}

// u2 reads a u2 value at a given offset within the payload.
func (p Bound) u2(offset int) (uint16, error) {
	if offset+2 > p.length {
		return 0, fault.Malformed(p.name.Value(), p.start+offset, "read beyond end of attribute")
	}
	//
	v, err := p.reader.U2(p.start + offset)
	if err != nil {
		return 0, p.malformed(p.start+offset, err)
	}
	//
	return v, nil
}

// classAt reads a u2 Class entry index at a given offset within the payload.
func (p Bound) classAt(offset int) (*constantpool.ClassEntry, error) {
	index, err := p.u2(offset)
	if err != nil {
		return nil, err
	}
	//
	class, err := p.reader.Pool().ClassEntryAt(index)
	if err != nil {
		return nil, p.malformed(p.start+offset, err)
	}
	//
	return class, nil
}

// utf8At reads a u2 Utf8 entry index at a given offset within the payload.
func (p Bound) utf8At(offset int) (*constantpool.Utf8Entry, error) {
	index, err := p.u2(offset)
	if err != nil {
		return nil, err
	}
	//
	utf8, err := p.reader.Pool().Utf8EntryAt(index)
	if err != nil {
		return nil, p.malformed(p.start+offset, err)
	}
	//
	return utf8, nil
}

// entryAt reads a u2 index at a given offset within the payload, and resolves
// it to an entry of one of the given kinds.
func (p Bound) entryAt(offset int, tags ...constantpool.Tag) (constantpool.Entry, error) {
	index, err := p.u2(offset)
	if err != nil {
		return nil, err
	}
	//
	e, err := p.reader.Pool().EntryAt(index)
	if err != nil {
		return nil, p.malformed(p.start+offset, err)
	}
	//
	for _, tag := range tags {
		if e.Tag() == tag {
			return e, nil
		}
	}
	//
	return nil, p.malformed(p.start+offset, fault.Bounds(int(index), "unexpected %s entry", e.Tag()))
}

// malformed reports a decoding failure for this attribute at a given offset.
// The cause is retained, so that (for example) errors.Is(err,
// fault.ErrPoolBounds) holds when the failure was a bad pool reference.
func (p Bound) malformed(offset int, cause error) error {
	err := fault.Malformed(p.name.Value(), offset, "cannot decode attribute")
	err.Cause = cause
	//
	if e, ok := cause.(*fault.Error); ok {
		err.Index = e.Index
	}
	//
	return err
}
