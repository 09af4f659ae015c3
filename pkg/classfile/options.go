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
	"github.com/consensys/go-classfile/pkg/classfile/attribute"
	"github.com/consensys/go-classfile/pkg/classfile/constantpool"
)

// Option configures parsing, building or transforming a class.
type Option func(*options)

type options struct {
	// Registry used to bind attributes when parsing.
	registry *attribute.Registry
	// Mappers to be added to the registry.
	mappers []attribute.Mapper
	// Whether or not unknown attributes are discarded when building.
	dropUnknown bool
	// Whether or not unknown attributes from another pool are copied
	// unchanged when building.
	copyUnknown bool
	// Target pool when building (nil means a fresh or layered pool, as
	// appropriate).
	pool *constantpool.Builder
	// Elements supplied after all others.
	appended []Element
}

// WithRegistry parses attributes using a given registry, rather than the
// standard one.
func WithRegistry(registry *attribute.Registry) Option {
	return func(o *options) { o.registry = registry }
}

// WithMapper adds a mapper for an additional kind of attribute to the registry
// used when parsing.
func WithMapper(mapper attribute.Mapper) Option {
	return func(o *options) { o.mappers = append(o.mappers, mapper) }
}

// WithDropUnknown discards unknown attributes (at every level) when building.
func WithDropUnknown(drop bool) Option {
	return func(o *options) { o.dropUnknown = drop }
}

// WithCopyUnknown copies unknown attributes (at every level) into the pool
// being built, even when it is not the pool they were read against.  Their
// payloads are not remapped, which is only correct when they hold no pool
// indices.  Without this, building such a class fails.
func WithCopyUnknown(enable bool) Option {
	return func(o *options) { o.copyUnknown = enable }
}

// WithConstantPool builds into a given constant pool.  When transforming, this
// overrides the default of layering a new pool over the pool of the original
// class.
func WithConstantPool(pool *constantpool.Builder) Option {
	return func(o *options) { o.pool = pool }
}

// WithAppended supplies additional elements after all others when building or
// transforming a class.  Since they come last, these take precedence over
// earlier attributes of the same single-instance kind.
func WithAppended(elements ...Element) Option {
	return func(o *options) { o.appended = append(o.appended, elements...) }
}

func applyOptions(opts []Option) (options, error) {
	o := options{registry: attribute.Standard()}
	//
	for _, opt := range opts {
		opt(&o)
	}
	// Extend (a copy of) the registry with any additional mappers.
	if len(o.mappers) > 0 {
		registry := attribute.NewRegistry()
		//
		for _, m := range append(o.registry.Mappers(), o.mappers...) {
			if err := registry.Register(m); err != nil {
				return o, err
			}
		}
		//
		o.registry = registry
	}
	//
	return o, nil
}
