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
	"io"
	"math"

	"github.com/consensys/go-classfile/pkg/classfile/constantpool"
	"github.com/consensys/go-classfile/pkg/fault"
)

// Writer accumulates the binary form of class-file structures.  Pool indices
// are always written through the target pool builder, so that entries from
// another pool are re-resolved rather than blindly reused.
type Writer struct {
	bytes []byte
	pool  *constantpool.Builder
}

// NewWriter constructs an empty writer targeting a given pool builder.
func NewWriter(pool *constantpool.Builder) *Writer {
	return &Writer{nil, pool}
}

// Pool returns the target pool builder.
func (w *Writer) Pool() *constantpool.Builder {
	return w.pool
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.bytes)
}

// Bytes returns the bytes written so far.
func (w *Writer) Bytes() []byte {
	return w.bytes
}

// U1 writes an unsigned byte.
func (w *Writer) U1(v uint8) {
	w.bytes = append(w.bytes, v)
}

// U2 writes a big-endian unsigned 16-bit value.
func (w *Writer) U2(v uint16) {
	w.bytes = binary.BigEndian.AppendUint16(w.bytes, v)
}

// U4 writes a big-endian unsigned 32-bit value.
func (w *Writer) U4(v uint32) {
	w.bytes = binary.BigEndian.AppendUint32(w.bytes, v)
}

// Raw writes a sequence of bytes as is.
func (w *Writer) Raw(bytes []byte) {
	w.bytes = append(w.bytes, bytes...)
}

// PatchU4 overwrites a previously written u4 at a given offset.
func (w *Writer) PatchU4(pos int, v uint32) {
	binary.BigEndian.PutUint32(w.bytes[pos:], v)
}

// Index interns a given entry into the target pool (if it is not already a
// member) and writes its u2 index.
func (w *Writer) Index(e constantpool.Entry) error {
	if e == nil {
		return fault.New(fault.InvalidArgument, "cannot write index of nil entry")
	}
	//
	interned, err := w.pool.Intern(e)
	if err != nil {
		return err
	}
	//
	w.U2(interned.Index())
	//
	return nil
}

// IndexOrZero is like Index, except that a nil class is written as index zero.
func (w *Writer) IndexOrZero(e *constantpool.ClassEntry) error {
	if e == nil {
		w.U2(0)
		return nil
	}
	//
	return w.Index(e)
}

// Count writes a u2 element count, checking it is representable.
func (w *Writer) Count(n int) error {
	if n < 0 || n > math.MaxUint16 {
		return fault.New(fault.InvalidArgument, "count %d exceeds u2 range", n)
	}
	//
	w.U2(uint16(n))
	//
	return nil
}

// WriteTo copies everything written so far to a given writer.
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	n, err := out.Write(w.bytes)
	return int64(n), err
}
