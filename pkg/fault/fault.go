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
package fault

import (
	"errors"
	"fmt"
	"strings"
)

// Code identifies the kind of failure reported by the class-file codec.  All
// codes are non-retriable: the codec performs no recovery of its own.
type Code string

const (
	// InvalidArgument indicates local misuse at construction time, such as a
	// nil entry being passed to an attribute factory.
	InvalidArgument Code = "invalid-argument"
	// SymbolResolution indicates a symbolic descriptor could not be turned
	// into a constant pool entry.
	SymbolResolution Code = "symbol-resolution"
	// MalformedAttribute indicates the declared length or contents of an
	// attribute are inconsistent with its binary format.
	MalformedAttribute Code = "malformed-attribute"
	// PoolBounds indicates a constant pool index is out of range, or refers to
	// an entry of the wrong kind.
	PoolBounds Code = "pool-bounds"
	// MalformedClass indicates the enclosing class-file structure (header,
	// pool or member tables) is truncated or inconsistent.
	MalformedClass Code = "malformed-class"
)

// Sentinels usable with errors.Is.  Matching is performed on the code alone.
var (
	ErrInvalidArgument    = &Error{Code: InvalidArgument}
	ErrSymbolResolution   = &Error{Code: SymbolResolution}
	ErrMalformedAttribute = &Error{Code: MalformedAttribute}
	ErrPoolBounds         = &Error{Code: PoolBounds}
	ErrMalformedClass     = &Error{Code: MalformedClass}
)

// NoOffset and NoIndex mark the corresponding Error fields as not applicable.
const (
	NoOffset = -1
	NoIndex  = -1
)

// Error is a structured failure carrying enough context (attribute name, byte
// offset and pool index) to diagnose a broken class file.
type Error struct {
	Code Code
	// Attribute is the name of the attribute being processed, or empty.
	Attribute string
	// Offset is the byte offset within the backing buffer, or NoOffset.
	Offset int
	// Index is the constant pool index involved, or NoIndex.
	Index int
	// Message is a human readable description.
	Message string
	// Cause is an underlying error (e.g. from a nested decode), or nil.
	Cause error
}

// New constructs an error of a given code with no positional information.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Offset: NoOffset, Index: NoIndex, Message: fmt.Sprintf(format, args...)}
}

// Malformed constructs a MalformedAttribute error for a given attribute at a
// given offset.
func Malformed(attribute string, offset int, format string, args ...any) *Error {
	return &Error{
		Code:      MalformedAttribute,
		Attribute: attribute,
		Offset:    offset,
		Index:     NoIndex,
		Message:   fmt.Sprintf(format, args...),
	}
}

// Bounds constructs a PoolBounds error for a given pool index.
func Bounds(index int, format string, args ...any) *Error {
	return &Error{Code: PoolBounds, Offset: NoOffset, Index: index, Message: fmt.Sprintf(format, args...)}
}

// Error implementation for the error interface.
func (e *Error) Error() string {
	var builder strings.Builder
	//
	builder.WriteString("[")
	builder.WriteString(string(e.Code))
	builder.WriteString("] ")
	//
	if e.Attribute != "" {
		builder.WriteString(e.Attribute)
		builder.WriteString(": ")
	}
	//
	builder.WriteString(e.Message)
	//
	if e.Offset >= 0 {
		fmt.Fprintf(&builder, " (offset %d)", e.Offset)
	}
	//
	if e.Index >= 0 {
		fmt.Fprintf(&builder, " (index %d)", e.Index)
	}
	//
	if e.Cause != nil {
		builder.WriteString(": ")
		builder.WriteString(e.Cause.Error())
	}
	//
	return builder.String()
}

// Unwrap exposes the underlying cause (if any).
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code, which allows the package sentinels
// to be used with errors.Is.
func (e *Error) Is(target error) bool {
	var other *Error
	//
	if errors.As(target, &other) {
		return other.Code == e.Code
	}
	//
	return false
}

// InAttribute returns a copy of this error attributed to the given attribute
// name, unless it already names one.
func (e *Error) InAttribute(name string) *Error {
	if e.Attribute != "" {
		return e
	}
	//
	copied := *e
	copied.Attribute = name
	//
	return &copied
}

// CodeOf returns the code of the first *Error found in err's chain, or the
// empty code if there is none.
func CodeOf(err error) Code {
	var e *Error
	//
	if errors.As(err, &e) {
		return e.Code
	}
	//
	return ""
}
