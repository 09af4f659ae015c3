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
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/consensys/go-classfile/pkg/classfile/attribute"
	"github.com/consensys/go-classfile/pkg/classfile/constantpool"
	"github.com/consensys/go-classfile/pkg/classfile/desc"
	"github.com/consensys/go-classfile/pkg/fault"
)

var (
	shapeClass  = desc.MustOf("com.example.Shape")
	circleClass = desc.MustOf("com.example.Circle")
	squareClass = desc.MustOf("com.example.Square")
)

func Test_Build_01(t *testing.T) {
	model := checkParse(t, buildShape(t))
	//
	if model.ThisClass().InternalName() != "com/example/Shape" {
		t.Errorf("unexpected class %s", model.ThisClass())
	} else if model.Superclass().InternalName() != ObjectClass {
		t.Errorf("unexpected superclass %s", model.Superclass())
	} else if model.Version() != DefaultVersion {
		t.Errorf("unexpected version %s", model.Version())
	} else if !model.Flags().Has(AccAbstract | AccPublic) {
		t.Errorf("unexpected flags %s", model.Flags())
	} else if len(model.Interfaces()) != 1 || model.Interfaces()[0].InternalName() != "java/io/Serializable" {
		t.Errorf("unexpected interfaces %v", model.Interfaces())
	}
	//
	checkPermits(t, model.Attributes(), "com/example/Circle", "com/example/Square")
	checkAttributeNames(t, model.Attributes(), attribute.SourceFileName, attribute.PermittedSubclassesName)
}

func Test_Build_02(t *testing.T) {
	model := checkParse(t, buildShape(t))
	//
	if len(model.Fields()) != 1 || len(model.Methods()) != 1 {
		t.Fatalf("unexpected members")
	}
	//
	field := model.Fields()[0]
	//
	if field.Name().Value() != "SIDES" || field.Descriptor().Value() != "I" {
		t.Errorf("unexpected field %s", field)
	} else if cv, ok := attribute.Find[attribute.ConstantValue](field.Attributes()); !ok {
		t.Errorf("missing constant value")
	} else if c, err := cv.Constant(); err != nil || c.String() != "3" {
		t.Errorf("unexpected constant %v (%v)", c, err)
	}
	//
	method := model.Methods()[0]
	//
	if method.Name().Value() != "area" || !method.Flags().Has(AccAbstract) {
		t.Errorf("unexpected method %s", method)
	}
	//
	checkAttributeNames(t, method.Attributes(), attribute.SignatureName, attribute.DeprecatedName)
}

func Test_Build_03(t *testing.T) {
	// Two instances, the last one wins
	first, _ := attribute.PermittedSubclassesOfSymbols(circleClass)
	second, _ := attribute.PermittedSubclassesOfSymbols(squareClass, circleClass)
	//
	buf, err := Build(shapeClass, func(b *ClassBuilder) error {
		source, _ := attribute.NewSourceFile("Shape.java")
		return b.With(first, source, second)
	})
	if err != nil {
		t.Fatal(err)
	}
	//
	model := checkParse(t, buf)
	checkAttributeNames(t, model.Attributes(), attribute.PermittedSubclassesName, attribute.SourceFileName)
	checkPermits(t, model.Attributes(), "com/example/Square", "com/example/Circle")
}

func Test_Build_04(t *testing.T) {
	// Attributes in the wrong place are rejected
	_, err := Build(shapeClass, func(b *ClassBuilder) error {
		i, _ := b.Pool().Integer(1)
		cv, _ := attribute.NewConstantValue(i)
		//
		return b.With(cv)
	})
	checkCode(t, err, fault.InvalidArgument)
	//
	ps, _ := attribute.PermittedSubclassesOfSymbols(circleClass)
	_, err = NewField(AccPublic, "x", "I", ps)
	checkCode(t, err, fault.InvalidArgument)
}

func Test_Build_05(t *testing.T) {
	_, err := Build(desc.MustOfDescriptor("I"), func(b *ClassBuilder) error { return nil })
	checkCode(t, err, fault.SymbolResolution)
}

func Test_Build_06(t *testing.T) {
	// A root class has no superclass
	buf, err := Build(desc.MustOf("java.lang.Object"), func(b *ClassBuilder) error {
		return b.With(Superclass{nil})
	})
	if err != nil {
		t.Fatal(err)
	}
	//
	if model := checkParse(t, buf); model.Superclass() != nil {
		t.Errorf("unexpected superclass %s", model.Superclass())
	}
}

func Test_Transform_01(t *testing.T) {
	original := buildShape(t)
	model := checkParse(t, original)
	//
	output, err := Transform(model, Identity)
	if err != nil {
		t.Fatal(err)
	} else if !bytes.Equal(output, original) {
		t.Errorf("identity transform changed class (%d bytes in, %d bytes out)", len(original), len(output))
	}
}

func Test_Transform_02(t *testing.T) {
	// Rewriting into a fresh pool
	model := checkParse(t, buildShape(t))
	//
	output, err := Transform(model, Identity, WithConstantPool(paddedPool()))
	if err != nil {
		t.Fatal(err)
	}
	//
	rewritten := checkParse(t, output)
	//
	if rewritten.Pool().Size() == model.Pool().Size() {
		t.Errorf("expected different pool")
	} else if err := Validate(rewritten); err != nil {
		t.Error(err)
	}
	//
	checkPermits(t, rewritten.Attributes(), "com/example/Circle", "com/example/Square")
	checkSameElements(t, model, rewritten)
}

func Test_Transform_03(t *testing.T) {
	// Replacing permitted subclasses keeps their position
	model := checkParse(t, buildShape(t))
	permits, _ := attribute.PermittedSubclassesOfSymbols(squareClass)
	//
	output, err := Transform(model, Identity, WithAppended(permits))
	if err != nil {
		t.Fatal(err)
	}
	//
	rewritten := checkParse(t, output)
	checkAttributeNames(t, rewritten.Attributes(), attribute.SourceFileName, attribute.PermittedSubclassesName)
	checkPermits(t, rewritten.Attributes(), "com/example/Square")
	// Parent entries are preserved
	if !bytes.Equal(rewritten.Pool().RawEntries()[:len(model.Pool().RawEntries())], model.Pool().RawEntries()) {
		t.Errorf("expected parent pool to be preserved")
	}
}

func Test_Transform_04(t *testing.T) {
	// Dropping an attribute
	model := checkParse(t, buildShape(t))
	//
	output, err := Transform(model, func(b *ClassBuilder, e Element) error {
		if _, ok := e.(attribute.PermittedSubclasses); ok {
			return nil
		}
		//
		return b.With(e)
	})
	if err != nil {
		t.Fatal(err)
	}
	//
	checkAttributeNames(t, checkParse(t, output).Attributes(), attribute.SourceFileName)
}

func Test_Transform_05(t *testing.T) {
	model := checkParse(t, buildShape(t, custom(t)))
	//
	output, err := Transform(model, Identity, WithDropUnknown(true))
	if err != nil {
		t.Fatal(err)
	}
	//
	rewritten := checkParse(t, output)
	//
	checkAttributeNames(t, rewritten.Attributes(), attribute.SourceFileName, attribute.PermittedSubclassesName)
	checkAttributeNames(t, rewritten.Methods()[0].Attributes(), attribute.SignatureName, attribute.DeprecatedName)
}

func Test_Transform_06(t *testing.T) {
	// Unknown attributes are carried through when asked
	model := checkParse(t, buildShape(t, custom(t)))
	//
	output, err := Transform(model, Identity, WithConstantPool(constantpool.NewBuilder()), WithCopyUnknown(true))
	if err != nil {
		t.Fatal(err)
	}
	//
	rewritten := checkParse(t, output)
	//
	checkAttributeNames(t, rewritten.Attributes(), attribute.SourceFileName, attribute.PermittedSubclassesName,
		"Custom")
	//
	if raw, ok := attribute.Find[attribute.Opaque](rewritten.Attributes()); !ok {
		t.Errorf("missing unknown attribute")
	} else if !bytes.Equal(raw.Payload(), []byte{1, 2, 3}) {
		t.Errorf("unexpected payload %v", raw.Payload())
	}
}

func Test_Transform_07(t *testing.T) {
	// Unknown attributes cannot be silently moved into a foreign pool
	model := checkParse(t, buildShape(t, custom(t)))
	//
	_, err := Transform(model, Identity, WithConstantPool(paddedPool()))
	checkCode(t, err, fault.InvalidArgument)
	// But are fine in a pool layered over the original
	if _, err := Transform(model, Identity, WithCopyUnknown(true)); err != nil {
		t.Error(err)
	}
}

func Test_Transform_08(t *testing.T) {
	// Dropping unknown attributes keeps every recognised one
	model := checkParse(t, buildShape(t))
	//
	if _, ok := attribute.Find[attribute.Opaque](model.Attributes()); ok {
		t.Errorf("recognised attributes reported as unknown")
	}
	//
	output, err := Transform(model, Identity, WithDropUnknown(true))
	if err != nil {
		t.Fatal(err)
	} else if !bytes.Equal(output, model.Bytes()) {
		t.Errorf("dropping unknown attributes changed class")
	}
}

func Test_Parse_01(t *testing.T) {
	original := buildShape(t)
	//
	checkMalformedClass(t, nil)
	checkMalformedClass(t, original[:9])
	checkMalformedClass(t, original[:len(original)-7])
	// The final attribute record overruns the buffer
	_, err := Parse(original[:len(original)-1])
	checkCode(t, err, fault.MalformedAttribute)
	checkMalformedClass(t, append(slices.Clone(original), 0))
	// Bad magic
	bad := slices.Clone(original)
	bad[0] = 0
	checkMalformedClass(t, bad)
}

func Test_Parse_02(t *testing.T) {
	// Attribute payloads are not decoded when parsing
	buf, err := Build(shapeClass, func(b *ClassBuilder) error {
		raw, _ := attribute.NewRaw(attribute.PermittedSubclassesName, []byte{0, 5})
		return b.With(raw)
	})
	if err != nil {
		t.Fatal(err)
	}
	//
	model := checkParse(t, buf)
	checkCode(t, Validate(model), fault.MalformedAttribute)
	// But can still be copied
	if output, err := Transform(model, Identity); err != nil {
		t.Error(err)
	} else if !slices.Equal(output, buf) {
		t.Errorf("identity transform changed class")
	}
}

func Test_Parse_03(t *testing.T) {
	buf, err := Build(shapeClass, func(b *ClassBuilder) error {
		raw, _ := attribute.NewRaw(attribute.ConstantValueName, []byte{0})
		field, err := NewField(AccPublic|AccStatic, "x", "I", raw)
		//
		if err != nil {
			return err
		}
		//
		return b.With(field)
	})
	if err != nil {
		t.Fatal(err)
	}
	//
	err = Validate(checkParse(t, buf))
	checkCode(t, err, fault.MalformedAttribute)
	//
	if err != nil && !strings.Contains(err.Error(), "field x") {
		t.Errorf("expected field context in %q", err.Error())
	}
}

func Test_Parse_04(t *testing.T) {
	// Additional mappers must not clash with standard ones
	_, err := Parse(buildShape(t), WithMapper(attribute.SourceFileMapper))
	checkCode(t, err, fault.InvalidArgument)
	// A custom registry changes how attributes are bound
	model, err := Parse(buildShape(t), WithRegistry(attribute.NewRegistry()))
	if err != nil {
		t.Fatal(err)
	} else if len(attribute.FindAll[attribute.Opaque](model.Attributes())) != 2 {
		t.Errorf("expected all attributes to be unknown")
	}
}

func Test_Parse_05(t *testing.T) {
	mapper := attribute.NewMapper("Custom", attribute.Many, attribute.AnyLocation,
		func(record attribute.Bound) attribute.Attribute { return &attribute.Unknown{Bound: record} })
	//
	model, err := Parse(buildShape(t, custom(t)), WithMapper(mapper))
	if err != nil {
		t.Fatal(err)
	}
	//
	checkAttributeNames(t, model.Attributes(), attribute.SourceFileName, attribute.PermittedSubclassesName,
		"Custom")
}

func Test_Elements_01(t *testing.T) {
	model := checkParse(t, buildShape(t))
	elements := model.Elements()
	//
	if len(elements) != 8 {
		t.Fatalf("expected 8 elements, found %d", len(elements))
	}
	//
	if _, ok := elements[0].(Version); !ok {
		t.Errorf("expected version first, found %T", elements[0])
	} else if _, ok := elements[4].(*Field); !ok {
		t.Errorf("expected field, found %T", elements[4])
	} else if _, ok := elements[5].(*Method); !ok {
		t.Errorf("expected method, found %T", elements[5])
	} else if _, ok := elements[7].(attribute.PermittedSubclasses); !ok {
		t.Errorf("expected permitted subclasses, found %T", elements[7])
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

// Build a sealed class with a field and a method.  Any extra attributes are
// attached to both the method and the class.
func buildShape(t *testing.T, extra ...attribute.Attribute) []byte {
	t.Helper()
	//
	buf, err := Build(shapeClass, func(b *ClassBuilder) error {
		serializable, err := b.Pool().Class("java/io/Serializable")
		if err != nil {
			return err
		}
		//
		three, err := b.Pool().Integer(3)
		if err != nil {
			return err
		}
		//
		cv, err := attribute.NewConstantValue(three)
		if err != nil {
			return err
		}
		//
		field, err := NewField(AccPublic|AccStatic|AccFinal, "SIDES", "I", cv)
		if err != nil {
			return err
		}
		//
		sig, err := attribute.NewSignature("()D")
		if err != nil {
			return err
		}
		//
		method, err := NewMethod(AccPublic|AccAbstract, "area", "()D", append([]attribute.Attribute{sig,
			attribute.Deprecated()}, extra...)...)
		if err != nil {
			return err
		}
		//
		source, err := attribute.NewSourceFile("Shape.java")
		if err != nil {
			return err
		}
		//
		permits, err := attribute.PermittedSubclassesOfSymbols(circleClass, squareClass)
		if err != nil {
			return err
		}
		//
		err = b.With(AccPublic|AccSuper|AccAbstract, Interfaces{[]*constantpool.ClassEntry{serializable}}, field,
			method, source, permits)
		//
		for _, attr := range extra {
			if err == nil {
				err = b.With(attr)
			}
		}
		//
		return err
	})
	//
	if err != nil {
		t.Fatal(err)
	}
	//
	return buf
}

// An attribute which has no mapper in the standard registry.
func custom(t *testing.T) attribute.Attribute {
	t.Helper()
	//
	raw, err := attribute.NewRaw("Custom", []byte{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	//
	return raw
}

func checkParse(t *testing.T, buf []byte) *ClassModel {
	t.Helper()
	//
	model, err := Parse(buf)
	if err != nil {
		t.Fatal(err)
	}
	//
	return model
}

func checkPermits(t *testing.T, attrs []attribute.Attribute, expected ...string) {
	t.Helper()
	//
	ps, ok := attribute.Find[attribute.PermittedSubclasses](attrs)
	if !ok {
		t.Fatalf("missing PermittedSubclasses")
	}
	//
	classes, err := ps.PermittedSubclasses()
	if err != nil {
		t.Fatal(err)
	}
	//
	actual := make([]string, len(classes))
	//
	for i, c := range classes {
		actual[i] = c.InternalName()
	}
	//
	if !slices.Equal(actual, expected) {
		t.Errorf("expected %v, found %v", expected, actual)
	}
}

func checkAttributeNames(t *testing.T, attrs []attribute.Attribute, expected ...string) {
	t.Helper()
	//
	actual := make([]string, len(attrs))
	//
	for i, attr := range attrs {
		actual[i] = attr.Name()
	}
	//
	if !slices.Equal(actual, expected) {
		t.Errorf("expected attributes %v, found %v", expected, actual)
	}
}

func checkSameElements(t *testing.T, expected *ClassModel, actual *ClassModel) {
	t.Helper()
	//
	lhs, rhs := expected.Elements(), actual.Elements()
	//
	if len(lhs) != len(rhs) {
		t.Fatalf("expected %d elements, found %d", len(lhs), len(rhs))
	}
	//
	for i := range lhs {
		if lhs[i].String() != rhs[i].String() {
			t.Errorf("expected %s, found %s", lhs[i], rhs[i])
		}
	}
}

func checkCode(t *testing.T, err error, code fault.Code) {
	t.Helper()
	//
	if fault.CodeOf(err) != code {
		t.Errorf("expected %s error, got %v", code, err)
	}
}

func checkMalformedClass(t *testing.T, buf []byte) {
	t.Helper()
	//
	if _, err := Parse(buf); !errors.Is(err, fault.ErrMalformedClass) {
		t.Errorf("expected malformed class error, got %v", err)
	}
}

func paddedPool() *constantpool.Builder {
	pool := constantpool.NewBuilder()
	pool.Utf8("padding")
	pool.Double(1.0)
	//
	return pool
}
