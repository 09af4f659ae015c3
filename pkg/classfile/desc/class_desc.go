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
package desc

import (
	"strings"

	"github.com/consensys/go-classfile/pkg/fault"
)

// MaxArrayDimensions is the largest number of array dimensions a field
// descriptor may have.
const MaxArrayDimensions = 255

// ClassDesc is a nominal descriptor for a class, interface, array or primitive
// type.  It is a value type holding a validated field descriptor, such as
// "Ljava/lang/String;", "[I" or "Z".
type ClassDesc struct {
	descriptor string
}

// OfDescriptor constructs a class descriptor from a field descriptor string.
func OfDescriptor(descriptor string) (ClassDesc, error) {
	if err := validateFieldDescriptor(descriptor); err != nil {
		return ClassDesc{}, err
	}
	//
	return ClassDesc{descriptor}, nil
}

// OfInternalName constructs a class descriptor from a name as it appears in a
// Class constant pool entry.  That is, either an internal binary name (e.g.
// "java/lang/String") or an array descriptor (e.g. "[Ljava/lang/String;").
func OfInternalName(name string) (ClassDesc, error) {
	if strings.HasPrefix(name, "[") {
		return OfDescriptor(name)
	} else if err := validateInternalName(name); err != nil {
		return ClassDesc{}, err
	}
	//
	return ClassDesc{"L" + name + ";"}, nil
}

// Of constructs a class descriptor from a binary name using dots as package
// separators (e.g. "java.lang.String").
func Of(binaryName string) (ClassDesc, error) {
	if strings.Contains(binaryName, "/") {
		return ClassDesc{}, fault.New(fault.SymbolResolution, "invalid binary class name %q", binaryName)
	}
	//
	return OfInternalName(strings.ReplaceAll(binaryName, ".", "/"))
}

// MustOf is like Of, but panics if the name is invalid.
func MustOf(binaryName string) ClassDesc {
	d, err := Of(binaryName)
	if err != nil {
		panic(err)
	}
	//
	return d
}

// MustOfDescriptor is like OfDescriptor, but panics if the descriptor is
// invalid.
func MustOfDescriptor(descriptor string) ClassDesc {
	d, err := OfDescriptor(descriptor)
	if err != nil {
		panic(err)
	}
	//
	return d
}

// Descriptor returns the field descriptor string of this class descriptor.
func (p ClassDesc) Descriptor() string {
	return p.descriptor
}

// IsZero checks whether this is the zero value (i.e. not a valid descriptor).
func (p ClassDesc) IsZero() bool {
	return p.descriptor == ""
}

// IsPrimitive checks whether this describes a primitive type (or void).
func (p ClassDesc) IsPrimitive() bool {
	return len(p.descriptor) == 1
}

// IsArray checks whether this describes an array type.
func (p ClassDesc) IsArray() bool {
	return strings.HasPrefix(p.descriptor, "[")
}

// IsClassOrInterface checks whether this describes a class or interface type.
func (p ClassDesc) IsClassOrInterface() bool {
	return strings.HasPrefix(p.descriptor, "L")
}

// InternalName returns the name of this descriptor as it should appear in a
// Class constant pool entry.  Primitive types have no such representation and
// produce a SymbolResolution error.
func (p ClassDesc) InternalName() (string, error) {
	switch {
	case p.IsClassOrInterface():
		return p.descriptor[1 : len(p.descriptor)-1], nil
	case p.IsArray():
		return p.descriptor, nil
	case p.IsZero():
		return "", fault.New(fault.SymbolResolution, "empty class descriptor")
	default:
		return "", fault.New(fault.SymbolResolution, "primitive type %s has no class entry", p.descriptor)
	}
}

// DisplayName returns a human readable (Java source style) name.
func (p ClassDesc) DisplayName() string {
	var (
		d    = p.descriptor
		dims = 0
		name string
	)
	//
	for strings.HasPrefix(d, "[") {
		dims++
		d = d[1:]
	}
	//
	if strings.HasPrefix(d, "L") {
		name = strings.ReplaceAll(d[1:len(d)-1], "/", ".")
	} else {
		name = primitiveName(d)
	}
	//
	return name + strings.Repeat("[]", dims)
}

func (p ClassDesc) String() string {
	return p.DisplayName()
}

func primitiveName(d string) string {
	switch d {
	case "B":
		return "byte"
	case "C":
		return "char"
	case "D":
		return "double"
	case "F":
		return "float"
	case "I":
		return "int"
	case "J":
		return "long"
	case "S":
		return "short"
	case "Z":
		return "boolean"
	case "V":
		return "void"
	}
	//
	return d
}

// ============================================================================
// Validation
// ============================================================================

func validateFieldDescriptor(descriptor string) error {
	var (
		d    = descriptor
		dims = 0
	)
	//
	for strings.HasPrefix(d, "[") {
		dims++
		d = d[1:]
	}
	//
	if dims > MaxArrayDimensions {
		return fault.New(fault.SymbolResolution, "descriptor %q exceeds %d array dimensions", descriptor,
			MaxArrayDimensions)
	}
	//
	switch {
	case len(d) == 1 && strings.ContainsAny(d, "BCDFIJSZ"):
		return nil
	case d == "V" && dims == 0:
		return nil
	case len(d) > 2 && d[0] == 'L' && d[len(d)-1] == ';':
		if err := validateInternalName(d[1 : len(d)-1]); err != nil {
			return fault.New(fault.SymbolResolution, "invalid descriptor %q", descriptor)
		}
		//
		return nil
	}
	//
	return fault.New(fault.SymbolResolution, "invalid descriptor %q", descriptor)
}

// Internal names are slash separated sequences of non-empty unqualified names.
func validateInternalName(name string) error {
	if name == "" {
		return fault.New(fault.SymbolResolution, "empty class name")
	}
	//
	for _, segment := range strings.Split(name, "/") {
		if segment == "" || strings.ContainsAny(segment, ".;[") {
			return fault.New(fault.SymbolResolution, "invalid internal class name %q", name)
		}
	}
	//
	return nil
}
