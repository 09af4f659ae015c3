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
	"github.com/consensys/go-classfile/pkg/classfile/constantpool"
)

// ClassTransform is applied to each element of a class being transformed.  It
// may pass the element on to the builder (possibly after modifying it), drop it
// or add other elements in its place.
type ClassTransform func(builder *ClassBuilder, element Element) error

// Identity is the transform which keeps every element unchanged.
func Identity(builder *ClassBuilder, element Element) error {
	return builder.With(element)
}

// Transform a parsed class by passing each of its elements (in traversal order)
// through a given transform.  By default, the new class is built into a pool
// layered over the original pool, so that unchanged parts of the class are
// copied byte for byte.  The Identity transform therefore reproduces the
// original class exactly.
func Transform(model *ClassModel, fn ClassTransform, opts ...Option) ([]byte, error) {
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	//
	pool := o.pool
	if pool == nil {
		pool = constantpool.NewBuilderOver(model.Pool())
	}
	//
	builder, err := newClassBuilder(pool, model.thisClass, o)
	if err != nil {
		return nil, err
	}
	//
	for _, element := range model.Elements() {
		if err := fn(builder, element); err != nil {
			return nil, err
		}
	}
	//
	if err := builder.With(o.appended...); err != nil {
		return nil, err
	}
	//
	return builder.Finish()
}
