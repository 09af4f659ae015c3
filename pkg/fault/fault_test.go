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
	"testing"
)

func Test_Error_01(t *testing.T) {
	err := New(InvalidArgument, "nil entry at %d", 3)
	checkError(t, err, "[invalid-argument] nil entry at 3")
}

func Test_Error_02(t *testing.T) {
	err := Malformed("PermittedSubclasses", 42, "bad length %d", 7)
	checkError(t, err, "[malformed-attribute] PermittedSubclasses: bad length 7 (offset 42)")
}

func Test_Error_03(t *testing.T) {
	err := Bounds(9, "out of range")
	checkError(t, err, "[pool-bounds] out of range (index 9)")
}

func Test_Error_04(t *testing.T) {
	err := Malformed("NestHost", 10, "cannot decode")
	err.Cause = Bounds(3, "expected Class entry, found Utf8")
	err.Index = 3
	checkError(t, err,
		"[malformed-attribute] NestHost: cannot decode (offset 10) (index 3): [pool-bounds] expected Class entry, found Utf8 (index 3)")
}

func Test_Is_01(t *testing.T) {
	err := Malformed("X", 0, "bad")
	//
	if !errors.Is(err, ErrMalformedAttribute) {
		t.Errorf("expected malformed attribute")
	} else if errors.Is(err, ErrPoolBounds) {
		t.Errorf("unexpected pool bounds")
	}
}

func Test_Is_02(t *testing.T) {
	err := Malformed("X", 0, "bad")
	err.Cause = Bounds(1, "wrong kind")
	// Both the error and its cause match
	if !errors.Is(err, ErrMalformedAttribute) || !errors.Is(err, ErrPoolBounds) {
		t.Errorf("expected malformed attribute caused by pool bounds")
	}
}

func Test_Is_03(t *testing.T) {
	err := fmt.Errorf("context: %w", New(SymbolResolution, "primitive"))
	//
	if !errors.Is(err, ErrSymbolResolution) {
		t.Errorf("expected symbol resolution through wrapping")
	} else if CodeOf(err) != SymbolResolution {
		t.Errorf("expected code %s, found %s", SymbolResolution, CodeOf(err))
	}
}

func Test_CodeOf_01(t *testing.T) {
	if code := CodeOf(errors.New("plain")); code != "" {
		t.Errorf("unexpected code %s", code)
	}
}

func Test_InAttribute_01(t *testing.T) {
	var (
		err     = New(InvalidArgument, "nil entry")
		renamed = err.InAttribute("NestMembers")
	)
	//
	if err.Attribute != "" {
		t.Errorf("original error modified")
	} else if renamed.Attribute != "NestMembers" {
		t.Errorf("expected attribute NestMembers, found %q", renamed.Attribute)
	} else if again := renamed.InAttribute("Other"); again.Attribute != "NestMembers" {
		t.Errorf("attribute overwritten with %q", again.Attribute)
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func checkError(t *testing.T, err *Error, expected string) {
	t.Helper()
	//
	if actual := err.Error(); actual != expected {
		t.Errorf("expected %q, found %q", expected, actual)
	}
}
