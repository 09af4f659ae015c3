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
package constantpool

import (
	"bytes"
	"errors"
	"testing"

	"github.com/consensys/go-classfile/pkg/classfile/desc"
	"github.com/consensys/go-classfile/pkg/fault"
)

func Test_Builder_01(t *testing.T) {
	p := NewBuilder()
	//
	a1 := checkClass(t, p, "com/example/A")
	a2 := checkClass(t, p, "com/example/A")
	// Interning is idempotent
	if a1 != a2 || a1.Index() != 2 {
		t.Errorf("expected one Class entry at index 2, found %d and %d", a1.Index(), a2.Index())
	} else if p.Size() != 3 {
		t.Errorf("expected pool size 3, found %d", p.Size())
	}
}

func Test_Builder_02(t *testing.T) {
	p := NewBuilder()
	//
	long, err := p.Long(1 << 40)
	if err != nil {
		t.Fatal(err)
	}
	//
	next, err := p.Integer(7)
	if err != nil {
		t.Fatal(err)
	}
	// Long entries occupy two slots
	if long.Index() != 1 || next.Index() != 3 {
		t.Errorf("unexpected indices %d and %d", long.Index(), next.Index())
	} else if _, err := p.EntryAt(2); !errors.Is(err, fault.ErrPoolBounds) {
		t.Errorf("expected pool bounds error for second Long slot, got %v", err)
	}
}

func Test_Builder_03(t *testing.T) {
	p := NewBuilder()
	//
	if _, err := p.ClassFor(desc.MustOfDescriptor("I")); !errors.Is(err, fault.ErrSymbolResolution) {
		t.Errorf("expected symbol resolution error, got %v", err)
	}
	//
	c, err := p.ClassFor(desc.MustOfDescriptor("[Ljava/lang/String;"))
	if err != nil {
		t.Fatal(err)
	} else if c.InternalName() != "[Ljava/lang/String;" {
		t.Errorf("unexpected array class name %s", c.InternalName())
	}
}

func Test_Builder_04(t *testing.T) {
	var (
		source = NewBuilder()
		target = NewBuilder()
	)
	// Push some unrelated entries into the target
	target.Utf8("padding")
	target.Integer(1)
	//
	ref, err := source.Methodref("com/example/A", "run", "()V")
	if err != nil {
		t.Fatal(err)
	}
	//
	interned, err := target.Intern(ref)
	if err != nil {
		t.Fatal(err)
	}
	//
	m := interned.(*MemberRefEntry)
	//
	if m.Pool() != Pool(target) || m == ref {
		t.Errorf("entry not re-interned into target pool")
	} else if m.String() != "com/example/A.run:()V" {
		t.Errorf("unexpected entry %s", m)
	} else if target.Contains(ref) || !target.Contains(m) {
		t.Errorf("unexpected pool membership")
	}
}

func Test_Builder_05(t *testing.T) {
	p := NewBuilder()
	//
	if _, err := p.Intern(nil); !errors.Is(err, fault.ErrInvalidArgument) {
		t.Errorf("expected invalid argument, got %v", err)
	}
}

func Test_Reader_01(t *testing.T) {
	p := NewBuilder()
	//
	p.Class("com/example/A")
	p.Long(-5)
	p.Double(2.5)
	p.Float(1.5)
	p.StringConstant("hello\x00world")
	p.Fieldref("com/example/A", "x", "I")
	p.InterfaceMethodref("com/example/I", "m", "()V")
	p.MethodType("(I)V")
	p.Module("java.base")
	p.Package("com/example")
	//
	ref, _ := p.Methodref("com/example/A", "<init>", "()V")
	p.MethodHandle(7, ref)
	//
	r := checkReader(t, p)
	// Every entry should match its counterpart
	for i := uint16(1); i < p.Size(); i++ {
		expected, err1 := p.EntryAt(i)
		actual, err2 := r.EntryAt(i)
		//
		if (err1 == nil) != (err2 == nil) {
			t.Errorf("index %d: mismatched errors %v and %v", i, err1, err2)
		} else if err1 == nil && (expected.Tag() != actual.Tag() || expected.String() != actual.String()) {
			t.Errorf("index %d: expected %s %s, found %s %s", i, expected.Tag(), expected, actual.Tag(), actual)
		}
	}
}

func Test_Reader_02(t *testing.T) {
	p := NewBuilder()
	utf8, _ := p.Utf8("com/example/A")
	class, _ := p.Class("com/example/A")
	r := checkReader(t, p)
	//
	if _, err := r.ClassEntryAt(utf8.Index()); !errors.Is(err, fault.ErrPoolBounds) {
		t.Errorf("expected pool bounds error for wrong kind, got %v", err)
	} else if _, err := r.Utf8EntryAt(class.Index()); !errors.Is(err, fault.ErrPoolBounds) {
		t.Errorf("expected pool bounds error for wrong kind, got %v", err)
	}
	//
	for _, index := range []uint16{0, p.Size(), 1000} {
		if _, err := r.EntryAt(index); !errors.Is(err, fault.ErrPoolBounds) {
			t.Errorf("expected pool bounds error for index %d, got %v", index, err)
		}
	}
}

func Test_Reader_03(t *testing.T) {
	p := NewBuilder()
	p.Class("com/example/A")
	r := checkReader(t, p)
	// Entries are materialised once
	e1, _ := r.EntryAt(2)
	e2, _ := r.EntryAt(2)
	//
	if e1 != e2 {
		t.Errorf("expected identical entries")
	}
}

func Test_Reader_04(t *testing.T) {
	// A Class entry whose name refers to itself
	buf := []byte{0x00, 0x02, byte(TagClass), 0x00, 0x01}
	//
	r, err := NewReader(buf, 0)
	if err != nil {
		t.Fatal(err)
	}
	//
	if _, err := r.ClassEntryAt(1); !errors.Is(err, fault.ErrPoolBounds) {
		t.Errorf("expected pool bounds error, got %v", err)
	}
}

func Test_Reader_05(t *testing.T) {
	checkMalformedPool(t, []byte{0x00})
	checkMalformedPool(t, []byte{0x00, 0x02})
	checkMalformedPool(t, []byte{0x00, 0x02, 0x02, 0x00, 0x00})
	checkMalformedPool(t, []byte{0x00, 0x02, byte(TagUtf8), 0x00, 0x05, 'a'})
	checkMalformedPool(t, []byte{0x00, 0x02, byte(TagInteger), 0x00})
}

func Test_Reader_06(t *testing.T) {
	// Bad modified UTF-8 is only reported on access
	buf := []byte{0x00, 0x02, byte(TagUtf8), 0x00, 0x01, 0x00}
	//
	r, err := NewReader(buf, 0)
	if err != nil {
		t.Fatal(err)
	} else if _, err := r.Utf8EntryAt(1); !errors.Is(err, fault.ErrMalformedClass) {
		t.Errorf("expected malformed class error, got %v", err)
	}
}

func Test_BuilderOver_01(t *testing.T) {
	p := NewBuilder()
	p.Class("com/example/A")
	p.StringConstant("x")
	r := checkReader(t, p)
	//
	q := NewBuilderOver(r)
	// Existing entries retain their indices.
	a := checkClass(t, q, "com/example/A")
	//
	if a.Index() != 2 || a.Pool() != Pool(r) {
		t.Errorf("expected parent entry at index 2, found %d", a.Index())
	} else if q.Size() != r.Size() {
		t.Errorf("expected no new entries, found size %d", q.Size())
	}
	// New entries follow the parent's.
	b := checkClass(t, q, "com/example/B")
	//
	if b.Index() != r.Size()+1 {
		t.Errorf("expected new class at index %d, found %d", r.Size()+1, b.Index())
	} else if !q.CanWriteDirect(r) || !q.CanWriteDirect(q) || q.CanWriteDirect(p) {
		t.Errorf("unexpected direct write compatibility")
	}
	// Serialising the layered pool preserves the parent bytes.
	var out bytes.Buffer
	//
	if _, err := q.WriteTo(&out); err != nil {
		t.Fatal(err)
	}
	//
	r2, err := NewReader(out.Bytes(), 0)
	if err != nil {
		t.Fatal(err)
	} else if !bytes.Equal(r2.RawEntries()[:len(r.RawEntries())], r.RawEntries()) {
		t.Errorf("parent entries not preserved")
	} else if c, err := r2.ClassEntryAt(b.Index()); err != nil || c.InternalName() != "com/example/B" {
		t.Errorf("new class entry not found (%v)", err)
	}
}

func Test_SameEntry_01(t *testing.T) {
	p := NewBuilder()
	a := checkClass(t, p, "com/example/A")
	r := checkReader(t, p)
	//
	ra, err := r.ClassEntryAt(a.Index())
	if err != nil {
		t.Fatal(err)
	}
	// Equality is by pool slot, not by content.
	if !SameEntry(a, a) || SameEntry(a, ra) {
		t.Errorf("entries of different pools must differ")
	}
	// Layered pools hand out the parent's entries.
	q := NewBuilderOver(r)
	qa := checkClass(t, q, "com/example/A")
	//
	if !SameEntry(ra, qa) {
		t.Errorf("expected layered pool to reuse parent entry")
	} else if qb := checkClass(t, q, "com/example/B"); SameEntry(qa, qb) {
		t.Errorf("distinct classes must differ")
	}
}

func Test_Temporary_01(t *testing.T) {
	c, err := TemporaryClass(desc.MustOf("com.example.A"))
	if err != nil {
		t.Fatal(err)
	}
	//
	p := NewBuilder()
	//
	if p.Contains(c) || c.Pool() != Temporary {
		t.Errorf("temporary entry should belong to no real pool")
	}
	//
	interned, err := p.InternClass(c)
	if err != nil {
		t.Fatal(err)
	} else if interned.Pool() != Pool(p) || interned.Index() != 2 {
		t.Errorf("expected interned class at index 2, found %d", interned.Index())
	}
	// Temporary entries are never modified by interning
	if c.Pool() != Temporary {
		t.Errorf("temporary entry rebound")
	}
}

func Test_Temporary_02(t *testing.T) {
	if _, err := TemporaryClass(desc.MustOfDescriptor("J")); !errors.Is(err, fault.ErrSymbolResolution) {
		t.Errorf("expected symbol resolution error, got %v", err)
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func checkClass(t *testing.T, p *Builder, name string) *ClassEntry {
	t.Helper()
	//
	c, err := p.Class(name)
	if err != nil {
		t.Fatal(err)
	} else if c.InternalName() != name {
		t.Errorf("expected class %s, found %s", name, c.InternalName())
	}
	//
	return c
}

// Serialise a builder and read it back.
func checkReader(t *testing.T, p *Builder) *Reader {
	t.Helper()
	//
	var out bytes.Buffer
	//
	if _, err := p.WriteTo(&out); err != nil {
		t.Fatal(err)
	}
	//
	r, err := NewReader(out.Bytes(), 0)
	if err != nil {
		t.Fatal(err)
	} else if r.Size() != p.Size() {
		t.Errorf("expected pool size %d, found %d", p.Size(), r.Size())
	} else if r.End() != out.Len() {
		t.Errorf("expected pool to end at %d, found %d", out.Len(), r.End())
	}
	//
	return r
}

func checkMalformedPool(t *testing.T, buf []byte) {
	t.Helper()
	//
	if _, err := NewReader(buf, 0); !errors.Is(err, fault.ErrMalformedClass) {
		t.Errorf("expected malformed class error for %v, got %v", buf, err)
	}
}
