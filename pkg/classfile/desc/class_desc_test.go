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
	"errors"
	"strings"
	"testing"

	"github.com/consensys/go-classfile/pkg/fault"
)

func Test_OfDescriptor_01(t *testing.T) {
	checkDescriptor(t, "Ljava/lang/String;", "java/lang/String", "java.lang.String")
}

func Test_OfDescriptor_02(t *testing.T) {
	checkDescriptor(t, "[I", "[I", "int[]")
}

func Test_OfDescriptor_03(t *testing.T) {
	checkDescriptor(t, "[[Ljava/util/List;", "[[Ljava/util/List;", "java.util.List[][]")
}

func Test_OfDescriptor_04(t *testing.T) {
	checkInvalidDescriptor(t, "")
	checkInvalidDescriptor(t, "Q")
	checkInvalidDescriptor(t, "[V")
	checkInvalidDescriptor(t, "L;")
	checkInvalidDescriptor(t, "Ljava/lang/String")
	checkInvalidDescriptor(t, "Ljava//String;")
	checkInvalidDescriptor(t, "Ljava.lang.String;")
	checkInvalidDescriptor(t, strings.Repeat("[", 256)+"I")
}

func Test_OfDescriptor_05(t *testing.T) {
	d, err := OfDescriptor(strings.Repeat("[", 255) + "I")
	//
	if err != nil {
		t.Fatal(err)
	} else if !d.IsArray() {
		t.Errorf("expected array")
	}
}

func Test_OfInternalName_01(t *testing.T) {
	d, err := OfInternalName("com/example/Shape")
	//
	if err != nil {
		t.Fatal(err)
	} else if d.Descriptor() != "Lcom/example/Shape;" {
		t.Errorf("unexpected descriptor %s", d.Descriptor())
	} else if !d.IsClassOrInterface() || d.IsArray() || d.IsPrimitive() {
		t.Errorf("unexpected kind for %s", d)
	}
}

func Test_OfInternalName_02(t *testing.T) {
	d, err := OfInternalName("[Lcom/example/Shape;")
	//
	if err != nil {
		t.Fatal(err)
	} else if !d.IsArray() {
		t.Errorf("expected array")
	}
}

func Test_OfInternalName_03(t *testing.T) {
	for _, name := range []string{"", "/A", "A/", "a;b", "a[b"} {
		if _, err := OfInternalName(name); !errors.Is(err, fault.ErrSymbolResolution) {
			t.Errorf("expected symbol resolution error for %q, got %v", name, err)
		}
	}
}

func Test_Of_01(t *testing.T) {
	d, err := Of("com.example.Circle")
	//
	if err != nil {
		t.Fatal(err)
	} else if name, _ := d.InternalName(); name != "com/example/Circle" {
		t.Errorf("unexpected internal name %s", name)
	}
}

func Test_Of_02(t *testing.T) {
	if _, err := Of("com/example/Circle"); !errors.Is(err, fault.ErrSymbolResolution) {
		t.Errorf("expected symbol resolution error, got %v", err)
	}
}

func Test_InternalName_01(t *testing.T) {
	for _, d := range []string{"I", "Z", "V"} {
		desc := MustOfDescriptor(d)
		//
		if !desc.IsPrimitive() {
			t.Errorf("expected %s to be primitive", d)
		} else if _, err := desc.InternalName(); !errors.Is(err, fault.ErrSymbolResolution) {
			t.Errorf("expected symbol resolution error for %s, got %v", d, err)
		}
	}
}

func Test_InternalName_02(t *testing.T) {
	var zero ClassDesc
	//
	if !zero.IsZero() {
		t.Errorf("expected zero descriptor")
	} else if _, err := zero.InternalName(); !errors.Is(err, fault.ErrSymbolResolution) {
		t.Errorf("expected symbol resolution error, got %v", err)
	}
}

func Test_MustOf_01(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic")
		}
	}()
	//
	MustOf("a/b")
}

// ===================================================================
// Test Helpers
// ===================================================================

func checkDescriptor(t *testing.T, descriptor string, internalName string, displayName string) {
	t.Helper()
	//
	d, err := OfDescriptor(descriptor)
	if err != nil {
		t.Fatal(err)
	}
	//
	if name, err := d.InternalName(); err != nil {
		t.Error(err)
	} else if name != internalName {
		t.Errorf("expected internal name %s, found %s", internalName, name)
	}
	//
	if d.DisplayName() != displayName {
		t.Errorf("expected display name %s, found %s", displayName, d.DisplayName())
	}
	// Descriptors are comparable values
	if d != MustOfDescriptor(descriptor) {
		t.Errorf("descriptors not equal")
	}
}

func checkInvalidDescriptor(t *testing.T, descriptor string) {
	t.Helper()
	//
	if _, err := OfDescriptor(descriptor); !errors.Is(err, fault.ErrSymbolResolution) {
		t.Errorf("expected symbol resolution error for %q, got %v", descriptor, err)
	}
}
