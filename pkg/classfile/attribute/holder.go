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
)

// Holder collects the attributes destined for a single container, in the order
// they are supplied.  For kinds which permit at most one instance, a later
// attribute overwrites the earlier one in place: it takes the position of the
// first occurrence, and the earlier payload is discarded.  Kinds which permit
// many instances (including unknown attributes) are simply appended.
type Holder struct {
	attributes []Attribute
	// Position of the surviving instance of each single-instance kind, keyed
	// by attribute name.
	singles map[string]int
}

// NewHolder constructs an empty holder.
func NewHolder() *Holder {
	return &Holder{nil, make(map[string]int)}
}

// Add supplies the next attribute for this container.  This returns true when
// the attribute overwrote an earlier instance of the same kind.
func (p *Holder) Add(attr Attribute) bool {
	if attr.Mapper().Multiplicity() == AtMostOne {
		if i, ok := p.singles[attr.Name()]; ok {
			// Last one wins
			p.attributes[i] = attr
			return true
		}
		//
		p.singles[attr.Name()] = len(p.attributes)
	}
	//
	p.attributes = append(p.attributes, attr)
	//
	return false
}

// Attributes returns the surviving attributes in container order.
func (p *Holder) Attributes() []Attribute {
	return p.attributes
}

// Len returns the number of surviving attributes.
func (p *Holder) Len() int {
	return len(p.attributes)
}

// WriteTo writes an attribute table (a u2 count followed by each record).
func (p *Holder) WriteTo(w *codec.Writer) error {
	return WriteTable(w, p.attributes)
}

// WriteTable writes a given sequence of attributes as an attribute table.
func WriteTable(w *codec.Writer, attributes []Attribute) error {
	if err := w.Count(len(attributes)); err != nil {
		return err
	}
	//
	for _, attr := range attributes {
		if err := attr.WriteTo(w); err != nil {
			return inAttribute(attr.Name(), err)
		}
	}
	//
	return nil
}
