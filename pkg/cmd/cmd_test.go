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
package cmd

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/consensys/go-classfile/pkg/classfile"
	"github.com/consensys/go-classfile/pkg/classfile/attribute"
	"github.com/consensys/go-classfile/pkg/classfile/desc"
	"github.com/consensys/go-classfile/pkg/fault"
)

func Test_ParseClassNames_01(t *testing.T) {
	classes, err := parseClassNames([]string{"com.example.Circle", "com/example/Square", "[I"})
	//
	if err != nil {
		t.Fatal(err)
	}
	//
	checkInternalNames(t, classes, "com/example/Circle", "com/example/Square", "[I")
}

func Test_ParseClassNames_02(t *testing.T) {
	if _, err := parseClassNames([]string{"com.example.Circle", "com//Square"}); err == nil {
		t.Errorf("expected invalid class name to be rejected")
	}
}

func Test_Check_01(t *testing.T) {
	filename := writeSealedClass(t)
	//
	if err := withClassFile(filename, func(model *classfile.ClassModel) error {
		return checkClass(model, true)
	}); err != nil {
		t.Error(err)
	}
}

func Test_Check_02(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "Broken.class")
	//
	if err := os.WriteFile(filename, []byte{0xCA, 0xFE, 0xBA, 0xBE}, 0644); err != nil {
		t.Fatal(err)
	}
	//
	if err := withClassFile(filename, func(model *classfile.ClassModel) error { return nil }); err == nil {
		t.Errorf("expected truncated class to be rejected")
	}
}

func Test_Inspect_01(t *testing.T) {
	var rows [][]string
	//
	if err := withClassFile(writeSealedClass(t), func(model *classfile.ClassModel) error {
		rows = inspectClass(model, true)
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	//
	checkRow(t, rows, "class", "com/example/Shape")
	checkRow(t, rows, "super", classfile.ObjectClass)
	checkRow(t, rows, "permits", "com/example/Circle")
	checkRow(t, rows, "permits", "com/example/Square")
}

func Test_Rewrite_01(t *testing.T) {
	custom, err := attribute.NewRaw("Custom", []byte{0, 1})
	if err != nil {
		t.Fatal(err)
	}
	//
	filename := writeSealedClass(t, custom)
	// Unknown attributes must be dealt with explicitly
	checkRewrite(t, filename, false, false, fault.InvalidArgument)
	checkRewrite(t, filename, true, false, "", attribute.PermittedSubclassesName)
	checkRewrite(t, filename, false, true, "", attribute.PermittedSubclassesName, "Custom")
}

func Test_Clip_01(t *testing.T) {
	if line := clip("abcdefgh", 6); line != "abc..." {
		t.Errorf("unexpected clipped line %q", line)
	} else if line := clip("abcdefgh", 0); line != "abcdefgh" {
		t.Errorf("unexpected unclipped line %q", line)
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func writeSealedClass(t *testing.T, extra ...attribute.Attribute) string {
	t.Helper()
	//
	permits, err := attribute.PermittedSubclassesOfSymbols(desc.MustOf("com.example.Circle"),
		desc.MustOf("com.example.Square"))
	if err != nil {
		t.Fatal(err)
	}
	//
	buf, err := classfile.Build(desc.MustOf("com.example.Shape"), func(b *classfile.ClassBuilder) error {
		if err := b.With(classfile.AccPublic|classfile.AccAbstract|classfile.AccSuper, permits); err != nil {
			return err
		}
		//
		for _, attr := range extra {
			if err := b.With(attr); err != nil {
				return err
			}
		}
		//
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	//
	filename := filepath.Join(t.TempDir(), "Shape.class")
	//
	if err := writeClassFile(filename, buf); err != nil {
		t.Fatal(err)
	}
	//
	return filename
}

func checkRewrite(t *testing.T, filename string, drop bool, copyUnknown bool, code fault.Code,
	expected ...string) {
	t.Helper()
	//
	var output []byte
	//
	err := withClassFile(filename, func(model *classfile.ClassModel) error {
		var err error
		output, err = rewriteClass(model, drop, copyUnknown)
		//
		return err
	})
	//
	if fault.CodeOf(err) != code {
		t.Fatalf("expected %q error, got %v", code, err)
	} else if err != nil {
		return
	}
	//
	model, err := classfile.Parse(output)
	if err != nil {
		t.Fatal(err)
	}
	//
	names := make([]string, len(model.Attributes()))
	//
	for i, attr := range model.Attributes() {
		names[i] = attr.Name()
	}
	//
	if !slices.Equal(names, expected) {
		t.Errorf("expected attributes %v, found %v", expected, names)
	}
}

func checkInternalNames(t *testing.T, classes []desc.ClassDesc, expected ...string) {
	t.Helper()
	//
	actual := make([]string, len(classes))
	//
	for i, c := range classes {
		name, err := c.InternalName()
		if err != nil {
			t.Fatal(err)
		}
		//
		actual[i] = name
	}
	//
	if !slices.Equal(actual, expected) {
		t.Errorf("expected %v, found %v", expected, actual)
	}
}

func checkRow(t *testing.T, rows [][]string, key string, value string) {
	t.Helper()
	//
	if !slices.ContainsFunc(rows, func(row []string) bool { return slices.Equal(row, []string{key, value}) }) {
		t.Errorf("missing row %s %s", key, value)
	}
}
