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
package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/consensys/go-classfile/pkg/classfile/constantpool"
	"github.com/consensys/go-classfile/pkg/fault"
)

// Reader provides bounds-checked, big-endian access to a class-file buffer,
// together with resolution of pool indices against the pool of that same
// buffer.  Readers hold only a reference to the buffer; they never copy it.
type Reader struct {
	buf  []byte
	pool *constantpool.Reader
}

// NewReader constructs a reader over a given buffer and its (already parsed)
// constant pool.
func NewReader(buf []byte, pool *constantpool.Reader) *Reader {
	return &Reader{buf, pool}
}

// Buffer returns the backing buffer.
func (r *Reader) Buffer() []byte {
	return r.buf
}

// Pool returns the constant pool bound to this reader.
func (r *Reader) Pool() *constantpool.Reader {
	return r.pool
}

// Len returns the length of the backing buffer.
func (r *Reader) Len() int {
	return len(r.buf)
}

// Check determines whether n bytes are available at a given offset.
func (r *Reader) Check(pos int, n int) bool {
	return pos >= 0 && n >= 0 && pos <= len(r.buf)-n
}

// U1 reads an unsigned byte at a given offset.
func (r *Reader) U1(pos int) (uint8, error) {
	if !r.Check(pos, 1) {
		return 0, truncated(pos, 1)
	}
	//
	return r.buf[pos], nil
}

// U2 reads a big-endian unsigned 16-bit value at a given offset.
func (r *Reader) U2(pos int) (uint16, error) {
	if !r.Check(pos, 2) {
		return 0, truncated(pos, 2)
	}
	//
	return binary.BigEndian.Uint16(r.buf[pos:]), nil
}

// U4 reads a big-endian unsigned 32-bit value at a given offset.
func (r *Reader) U4(pos int) (uint32, error) {
	if !r.Check(pos, 4) {
		return 0, truncated(pos, 4)
	}
	//
	return binary.BigEndian.Uint32(r.buf[pos:]), nil
}

// Slice returns a view of n bytes at a given offset.
func (r *Reader) Slice(pos int, n int) ([]byte, error) {
	if !r.Check(pos, n) {
		return nil, truncated(pos, n)
	}
	//
	return r.buf[pos : pos+n : pos+n], nil
}

// EntryAt reads a u2 pool index at a given offset and resolves it.
func (r *Reader) EntryAt(pos int) (constantpool.Entry, error) {
	index, err := r.U2(pos)
	if err != nil {
		return nil, err
	}
	//
	return r.pool.EntryAt(index)
}

// ClassEntryAt reads a u2 pool index at a given offset and resolves it to a
// Class entry.
func (r *Reader) ClassEntryAt(pos int) (*constantpool.ClassEntry, error) {
	index, err := r.U2(pos)
	if err != nil {
		return nil, err
	}
	//
	return r.pool.ClassEntryAt(index)
}

// OptionalClassEntryAt is like ClassEntryAt, except that an index of zero
// yields nil rather than an error.
func (r *Reader) OptionalClassEntryAt(pos int) (*constantpool.ClassEntry, error) {
	if index, err := r.U2(pos); err != nil {
		return nil, err
	} else if index == 0 {
		return nil, nil
	}
	//
	return r.ClassEntryAt(pos)
}

// Utf8EntryAt reads a u2 pool index at a given offset and resolves it to a
// Utf8 entry.
func (r *Reader) Utf8EntryAt(pos int) (*constantpool.Utf8Entry, error) {
	index, err := r.U2(pos)
	if err != nil {
		return nil, err
	}
	//
	return r.pool.Utf8EntryAt(index)
}

func truncated(pos int, n int) *fault.Error {
	return &fault.Error{Code: fault.MalformedClass, Offset: pos, Index: fault.NoIndex,
		Message: fmt.Sprintf("unexpected end of class file reading %d byte(s)", n)}
}
