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
package classfile

import (
	"fmt"
	"strings"

	"github.com/consensys/go-classfile/pkg/classfile/constantpool"
)

// Element is a part of a class, as produced by traversing a ClassModel and as
// consumed by a ClassBuilder.  An element is one of: Version, AccessFlags,
// Superclass, Interfaces, *Field, *Method or an attribute.Attribute.
type Element interface {
	String() string
}

// Version identifies the class-file format version.
type Version struct {
	Major uint16
	Minor uint16
}

// DefaultVersion is used when building a class with no explicit version.  This
// is the first version to support sealed classes.
var DefaultVersion = Version{61, 0}

func (p Version) String() string {
	return fmt.Sprintf("version %d.%d", p.Major, p.Minor)
}

// AccessFlags holds the access_flags item of a class or member.
type AccessFlags uint16

// Class and member access flags.
const (
	AccPublic     AccessFlags = 0x0001
	AccPrivate    AccessFlags = 0x0002
	AccProtected  AccessFlags = 0x0004
	AccStatic     AccessFlags = 0x0008
	AccFinal      AccessFlags = 0x0010
	AccSuper      AccessFlags = 0x0020
	AccInterface  AccessFlags = 0x0200
	AccAbstract   AccessFlags = 0x0400
	AccSynthetic  AccessFlags = 0x1000
	AccAnnotation AccessFlags = 0x2000
	AccEnum       AccessFlags = 0x4000
	AccModule     AccessFlags = 0x8000
)

// Has checks whether all of the given flags are set.
func (p AccessFlags) Has(flags AccessFlags) bool {
	return p&flags == flags
}

func (p AccessFlags) String() string {
	return fmt.Sprintf("flags 0x%04x", uint16(p))
}

// Superclass identifies the direct superclass of a class.  The class is nil
// only for java/lang/Object.
type Superclass struct {
	Class *constantpool.ClassEntry
}

func (p Superclass) String() string {
	if p.Class == nil {
		return "extends <none>"
	}
	//
	return "extends " + p.Class.InternalName()
}

// Interfaces lists the direct superinterfaces of a class, in order.
type Interfaces struct {
	Classes []*constantpool.ClassEntry
}

func (p Interfaces) String() string {
	names := make([]string, len(p.Classes))
	//
	for i, c := range p.Classes {
		names[i] = c.InternalName()
	}
	//
	return "implements [" + strings.Join(names, ", ") + "]"
}
