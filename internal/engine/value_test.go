package engine

import (
	"bytes"
	"testing"
)

func TestValue_ScalarFormats(t *testing.T) {
	h := ValueCreate()
	defer ValueDestroy(h)

	if tag, _ := ValueType(h); tag != TagNull {
		t.Fatalf("Fresh value should be Null, got %d", tag)
	}

	FormatAsBoolean(h, true)
	if tag, _ := ValueType(h); tag != TagBoolean {
		t.Fatal("FormatAsBoolean did not re-tag")
	}
	if v, ok := BooleanGet(h); !ok || !v {
		t.Fatal("BooleanGet mismatch")
	}

	// Re-tagging drops prior contents.
	FormatAsInteger(h, -42)
	if _, ok := BooleanGet(h); ok {
		t.Fatal("BooleanGet succeeded on Integer cell")
	}
	if v, ok := IntegerGet(h); !ok || v != -42 {
		t.Fatal("IntegerGet mismatch")
	}

	FormatAsFloat(h, 3.5)
	if v, ok := FloatGet(h); !ok || v != 3.5 {
		t.Fatal("FloatGet mismatch")
	}

	FormatAsString(h, []byte("hello"))
	if v, ok := StringGet(h); !ok || string(v) != "hello" {
		t.Fatal("StringGet mismatch")
	}
	if n, _ := ValueSize(h); n != 5 {
		t.Fatalf("Expected size 5, got %d", n)
	}

	payload := []byte{0, 1, 2, 0}
	FormatAsBytes(h, payload)
	if v, ok := BytesGet(h); !ok || !bytes.Equal(v, payload) {
		t.Fatal("BytesGet mismatch, NUL bytes must survive")
	}
}

func TestValue_FormatCopiesPayload(t *testing.T) {
	h := ValueCreate()
	defer ValueDestroy(h)

	buf := []byte("abc")
	FormatAsBytes(h, buf)
	buf[0] = 'x'

	got, _ := BytesGet(h)
	if string(got) != "abc" {
		t.Fatal("Engine retained the caller's buffer")
	}
}

func TestValue_ListSlots(t *testing.T) {
	h := ValueCreate()
	defer ValueDestroy(h)

	FormatAsList(h, 3)
	if n, _ := ValueSize(h); n != 3 {
		t.Fatalf("Expected 3 slots, got %d", n)
	}

	slot, ok := ListValue(h, 1)
	if !ok {
		t.Fatal("ListValue failed")
	}
	FormatAsInteger(slot, 7)

	// Slots start Null and fill independently.
	s0, _ := ListValue(h, 0)
	if tag, _ := ValueType(s0); tag != TagNull {
		t.Fatal("Untouched slot should be Null")
	}

	if _, ok := ListValue(h, 3); ok {
		t.Fatal("Out-of-range slot resolved")
	}

	// Interior handles refuse destroy.
	if ValueDestroy(s0) {
		t.Fatal("Interior handle destroy succeeded")
	}
}

func TestValue_InteriorHandlesDieWithRoot(t *testing.T) {
	h := ValueCreate()
	FormatAsList(h, 1)
	slot, _ := ListValue(h, 0)

	ValueDestroy(h)

	if _, ok := ValueType(slot); ok {
		t.Fatal("Interior handle survived root destroy")
	}
}

func TestValue_ReformatInvalidatesInteriors(t *testing.T) {
	h := ValueCreate()
	defer ValueDestroy(h)

	FormatAsList(h, 1)
	slot, _ := ListValue(h, 0)

	FormatAsInteger(h, 1)

	if _, ok := ValueType(slot); ok {
		t.Fatal("Interior handle survived re-format of the root")
	}
}

func TestValue_CopyIsDeepAndIndependent(t *testing.T) {
	src := ValueCreate()
	FormatAsList(src, 1)
	slot, _ := ListValue(src, 0)
	FormatAsString(slot, []byte("inner"))

	dst := ValueCreate()
	defer ValueDestroy(dst)
	if !ValueCopy(dst, src) {
		t.Fatal("ValueCopy failed")
	}

	// Destroying the source must not disturb the copy.
	ValueDestroy(src)

	if tag, _ := ValueType(dst); tag != TagList {
		t.Fatal("Copy lost its tag")
	}
	dslot, _ := ListValue(dst, 0)
	if v, ok := StringGet(dslot); !ok || string(v) != "inner" {
		t.Fatal("Copy lost its children")
	}
}

func TestValue_DictionaryNormalize(t *testing.T) {
	h := ValueCreate()
	defer ValueDestroy(h)

	FormatAsDictionary(h, 2)
	DictionarySetKey(h, 0, []byte("zz"))
	s0, _ := DictionaryValue(h, 0)
	FormatAsInteger(s0, 1)
	DictionarySetKey(h, 1, []byte("aa"))
	s1, _ := DictionaryValue(h, 1)
	FormatAsInteger(s1, 2)

	DictionaryNormalize(h)

	// Canonical order is sorted by key, and values travel with keys.
	k0, _ := DictionaryKey(h, 0)
	if string(k0) != "aa" {
		t.Fatalf("Expected first key 'aa', got %q", k0)
	}
	v0, _ := DictionaryValue(h, 0)
	if n, _ := IntegerGet(v0); n != 2 {
		t.Fatalf("Value did not travel with its key, got %d", n)
	}
}

func TestValue_StructureCode(t *testing.T) {
	h := ValueCreate()
	defer ValueDestroy(h)

	// Any 16-bit code is accepted, it is opaque metadata here.
	FormatAsStructure(h, -32768, 1)
	if code, ok := StructureCode(h); !ok || code != -32768 {
		t.Fatalf("Expected code -32768, got %d", code)
	}
	slot, _ := StructureValue(h, 0)
	FormatAsBoolean(slot, true)
	if n, _ := ValueSize(h); n != 1 {
		t.Fatal("Structure field count wrong")
	}
}

func TestAuthBasic(t *testing.T) {
	h := AuthBasic([]byte("user"), []byte("pass"), nil)
	if h == 0 {
		t.Fatal("AuthBasic failed")
	}
	defer ValueDestroy(h)

	if tag, _ := ValueType(h); tag != TagDictionary {
		t.Fatal("Auth token should be a dictionary")
	}
	if n, _ := ValueSize(h); n != 3 {
		t.Fatalf("Expected 3 entries without realm, got %d", n)
	}

	withRealm := AuthBasic([]byte("user"), []byte("pass"), []byte("acme"))
	defer ValueDestroy(withRealm)
	if n, _ := ValueSize(withRealm); n != 4 {
		t.Fatalf("Expected 4 entries with realm, got %d", n)
	}

	if AuthBasic([]byte("us\x00er"), []byte("pass"), nil) != 0 {
		t.Fatal("NUL-tainted username was accepted")
	}
}

func TestAddress(t *testing.T) {
	h := AddressCreate([]byte("localhost"), []byte("7687"))
	if h == 0 {
		t.Fatal("AddressCreate failed")
	}

	host, _ := AddressHost(h)
	port, _ := AddressPort(h)
	if string(host) != "localhost" || string(port) != "7687" {
		t.Fatalf("Round trip mismatch: %q %q", host, port)
	}

	if !AddressDestroy(h) {
		t.Fatal("AddressDestroy failed")
	}
	if AddressDestroy(h) {
		t.Fatal("Second AddressDestroy succeeded")
	}

	if AddressCreate([]byte("bad\x00host"), []byte("7687")) != 0 {
		t.Fatal("NUL-tainted host was accepted")
	}
}
