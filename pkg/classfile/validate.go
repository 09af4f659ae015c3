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
	"github.com/pkg/errors"
)

// Validate decodes every recognised attribute of a class (including those of
// its fields and methods), returning the first failure found.  Unknown
// attributes are not checked.
func Validate(model *ClassModel) error {
	if err := checkAll(model.attributes); err != nil {
		return err
	}
	//
	for _, f := range model.fields {
		if err := checkAll(f.attributes); err != nil {
			return errors.Wrapf(err, "field %s", f.name.Value())
		}
	}
	//
	for _, m := range model.methods {
		if err := checkAll(m.attributes); err != nil {
			return errors.Wrapf(err, "method %s%s", m.name.Value(), m.descriptor.Value())
		}
	}
	//
	return nil
}

func checkAll(attributes []attribute.Attribute) error {
	for _, attr := range attributes {
		if c, ok := attr.(attribute.Checker); ok {
			if err := c.Check(); err != nil {
				return err
			}
		}
	}
	//
	return nil
}
