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
	"github.com/consensys/go-classfile/pkg/classfile/desc"
	"github.com/consensys/go-classfile/pkg/fault"
)

// Temporary is a pool to which no real slots belong.  Entries created through
// it carry only their contents, and are re-interned by whichever builder they
// are eventually written through.  This is how attributes built from symbolic
// descriptors refer to classes before any target pool exists.
var Temporary Pool = temporaryPool{}

type temporaryPool struct{}

// Size implementation for the Pool interface.
func (p temporaryPool) Size() uint16 {
	return 0
}

// EntryAt implementation for the Pool interface.
func (p temporaryPool) EntryAt(index uint16) (Entry, error) {
	return nil, fault.Bounds(int(index), "temporary pool has no indexed entries")
}

// TemporaryUtf8 constructs a Utf8 entry which belongs to no real pool.
func TemporaryUtf8(s string) (*Utf8Entry, error) {
	if n := modifiedUtf8Length(s); n > MaxUtf8Length {
		return nil, fault.New(fault.InvalidArgument, "string of %d bytes exceeds Utf8 entry limit", n)
	}
	//
	return &Utf8Entry{entry{Temporary, 0}, s}, nil
}

// TemporaryClass resolves a symbolic descriptor into a Class entry which
// belongs to no real pool.
func TemporaryClass(d desc.ClassDesc) (*ClassEntry, error) {
	internalName, err := d.InternalName()
	if err != nil {
		return nil, err
	}
	//
	name, err := TemporaryUtf8(internalName)
	if err != nil {
		return nil, err
	}
	//
	return &ClassEntry{entry{Temporary, 0}, name}, nil
}
