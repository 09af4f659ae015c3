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
	"strings"

	"github.com/consensys/go-classfile/pkg/classfile/codec"
	"github.com/consensys/go-classfile/pkg/classfile/constantpool"
	"github.com/consensys/go-classfile/pkg/classfile/desc"
	"github.com/consensys/go-classfile/pkg/fault"
)

// Several attributes share the same payload layout:
//
//	u2 number_of_classes
//	u2 classes[number_of_classes]
//
// where each element is the index of a Class entry.  The list is order
// significant and may contain duplicates, so it is never normalised.

// decodeClassList decodes a class list payload.
func decodeClassList(p Bound) ([]*constantpool.ClassEntry, error) {
	n, err := p.u2(0)
	if err != nil {
		return nil, err
	}
	// The declared length must account exactly for the list.
	if err := p.expectLength(2 + 2*int(n)); err != nil {
		return nil, err
	}
	//
	classes := make([]*constantpool.ClassEntry, n)
	//
	for i := 0; i < int(n); i++ {
		if classes[i], err = p.classAt(2 + 2*i); err != nil {
			return nil, err
		}
	}
	//
	return classes, nil
}

// writeClassList writes a class list payload, interning each class into the
// target pool.
func writeClassList(w *codec.Writer, classes []*constantpool.ClassEntry) error {
	if err := w.Count(len(classes)); err != nil {
		return err
	}
	//
	for _, class := range classes {
		if err := w.Index(class); err != nil {
			return err
		}
	}
	//
	return nil
}

// copyClassList checks a list of classes supplied by a caller and takes a
// private copy of it.
func copyClassList(attribute string, classes []*constantpool.ClassEntry) ([]*constantpool.ClassEntry, error) {
	copied := make([]*constantpool.ClassEntry, len(classes))
	//
	for i, class := range classes {
		if class == nil {
			err := fault.New(fault.InvalidArgument, "nil class entry at position %d", i)
			return nil, err.InAttribute(attribute)
		}
		//
		copied[i] = class
	}
	//
	return copied, nil
}

// resolveClassList resolves symbolic descriptors into (temporary) Class
// entries.
func resolveClassList(attribute string, descs []desc.ClassDesc) ([]*constantpool.ClassEntry, error) {
	classes := make([]*constantpool.ClassEntry, len(descs))
	//
	for i, d := range descs {
		class, err := constantpool.TemporaryClass(d)
		if err != nil {
			return nil, inAttribute(attribute, err)
		}
		//
		classes[i] = class
	}
	//
	return classes, nil
}

func formatClassList(name string, classes []*constantpool.ClassEntry, err error) string {
	if err != nil {
		return fmt.Sprintf("%s[<%s>]", name, fault.CodeOf(err))
	}
	//
	names := make([]string, len(classes))
	//
	for i, class := range classes {
		names[i] = class.InternalName()
	}
	//
	return fmt.Sprintf("%s[%s]", name, strings.Join(names, ", "))
}
