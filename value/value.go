package value

import (
	"strings"

	"github.com/graphwire/boltbind/errors"
	"github.com/graphwire/boltbind/internal/engine"
)

// Value owns one engine value cell. Containers own their children;
// assigning a Value into a container copies its contents, so the source
// stays valid and is still the caller's to close.
//
// Typed accessors fail fast on a tag mismatch, and any use after Close
// fails fast too. A Value is not safe for concurrent use.
type Value struct {
	h      engine.Handle
	closed bool
}

func wrap(h engine.Handle) *Value {
	return &Value{h: h}
}

// Wrap adopts ownership of an engine-built value handle. Like Handle,
// this is only callable from inside the module: the handle type is
// internal.
func Wrap(h engine.Handle) *Value {
	return wrap(h)
}

func (v *Value) live(op string) engine.Handle {
	if v.closed {
		errors.Violate(errors.StaleHandle("value." + op))
	}
	return v.h
}

// Handle exposes the engine handle to sibling packages. The handle type
// lives in an internal package, so this is unusable outside the module.
func (v *Value) Handle() engine.Handle {
	return v.live("handle")
}

// New constructs a fresh Null value.
func New() *Value {
	return wrap(engine.ValueCreate())
}

// FromBool constructs a Boolean value.
func FromBool(v bool) *Value {
	h := engine.ValueCreate()
	engine.FormatAsBoolean(h, v)
	return wrap(h)
}

// FromInt constructs an Integer value.
func FromInt(v int64) *Value {
	h := engine.ValueCreate()
	engine.FormatAsInteger(h, v)
	return wrap(h)
}

// FromFloat constructs a Float value.
func FromFloat(v float64) *Value {
	h := engine.ValueCreate()
	engine.FormatAsFloat(h, v)
	return wrap(h)
}

// FromString constructs a String value. The engine boundary is
// C-shaped, so a string with an embedded NUL is rejected here, before
// it can silently truncate on the other side.
func FromString(s string) (*Value, error) {
	if strings.IndexByte(s, 0) >= 0 {
		return nil, errors.NulByte("string")
	}
	h := engine.ValueCreate()
	engine.FormatAsString(h, []byte(s))
	return wrap(h), nil
}

// FromBytes constructs a Bytes value. Any byte content is allowed;
// length is authoritative, not NUL termination.
func FromBytes(b []byte) *Value {
	h := engine.ValueCreate()
	engine.FormatAsBytes(h, b)
	return wrap(h)
}

// FromList constructs a List value by copying each item's current
// contents into an owned slot. The items remain valid and must still be
// closed by the caller.
func FromList(items []*Value) *Value {
	h := engine.ValueCreate()
	engine.FormatAsList(h, int32(len(items)))
	for i, item := range items {
		slot, _ := engine.ListValue(h, int32(i))
		engine.ValueCopy(slot, item.live("list item"))
	}
	return wrap(h)
}

// FromDict constructs a Dictionary value, copying each pair's value
// into an owned slot. Keys with embedded NULs are rejected. The engine
// normalizes slot order; iteration order of the input map is irrelevant
// and not preserved.
func FromDict(pairs map[string]*Value) (*Value, error) {
	for k := range pairs {
		if strings.IndexByte(k, 0) >= 0 {
			return nil, errors.NulByte("dictionary", "key")
		}
	}

	h := engine.ValueCreate()
	engine.FormatAsDictionary(h, int32(len(pairs)))
	i := int32(0)
	for k, item := range pairs {
		engine.DictionarySetKey(h, i, []byte(k))
		slot, _ := engine.DictionaryValue(h, i)
		engine.ValueCopy(slot, item.live("dictionary item"))
		i++
	}
	engine.DictionaryNormalize(h)
	return wrap(h), nil
}

// FromStructure constructs a Structure value with the given code and
// copied fields. The code is opaque 16-bit metadata; no range is
// enforced at this layer.
func FromStructure(code int16, fields []*Value) *Value {
	h := engine.ValueCreate()
	engine.FormatAsStructure(h, code, int32(len(fields)))
	for i, f := range fields {
		slot, _ := engine.StructureValue(h, int32(i))
		engine.ValueCopy(slot, f.live("structure field"))
	}
	return wrap(h)
}

// Type reports the active tag.
func (v *Value) Type() Type {
	tag, ok := engine.ValueType(v.live("type"))
	if !ok {
		errors.Violate(errors.StaleHandle("value.type"))
	}
	return typeFromEngine(tag)
}

func (v *Value) requireType(want Type, op string) engine.Handle {
	h := v.live(op)
	tag, ok := engine.ValueType(h)
	if !ok {
		errors.Violate(errors.StaleHandle("value." + op))
	}
	if got := typeFromEngine(tag); got != want {
		errors.Violate(errors.TypeMismatch(want.String(), got.String()))
	}
	return h
}

// AsBool reads a Boolean value. Any other tag is a contract violation.
func (v *Value) AsBool() bool {
	h := v.requireType(TypeBoolean, "as_bool")
	b, _ := engine.BooleanGet(h)
	return b
}

// AsInt reads an Integer value.
func (v *Value) AsInt() int64 {
	h := v.requireType(TypeInteger, "as_int")
	n, _ := engine.IntegerGet(h)
	return n
}

// AsFloat reads a Float value.
func (v *Value) AsFloat() float64 {
	h := v.requireType(TypeFloat, "as_float")
	f, _ := engine.FloatGet(h)
	return f
}

// AsString reads a String value as an independently owned Go string.
func (v *Value) AsString() string {
	h := v.requireType(TypeString, "as_string")
	b, _ := engine.StringGet(h)
	return string(b)
}

// AsBytes reads a Bytes value. The returned slice is a copy.
func (v *Value) AsBytes() []byte {
	h := v.requireType(TypeBytes, "as_bytes")
	b, _ := engine.BytesGet(h)
	if b == nil {
		b = []byte{}
	}
	return b
}

// AsList returns the list elements as freshly owned Values, deep-copied
// out of the container. Each returned Value is the caller's to close;
// closing the container does not touch them.
func (v *Value) AsList() []*Value {
	h := v.requireType(TypeList, "as_list")
	n, _ := engine.ValueSize(h)
	out := make([]*Value, 0, n)
	for i := int32(0); i < n; i++ {
		slot, _ := engine.ListValue(h, i)
		out = append(out, copyOut(slot))
	}
	return out
}

// AsDict returns the dictionary pairs with freshly owned copied Values.
// Key order inside the engine is normalized and carries no meaning.
func (v *Value) AsDict() map[string]*Value {
	h := v.requireType(TypeDictionary, "as_dict")
	n, _ := engine.ValueSize(h)
	out := make(map[string]*Value, n)
	for i := int32(0); i < n; i++ {
		key, _ := engine.DictionaryKey(h, i)
		slot, _ := engine.DictionaryValue(h, i)
		out[string(key)] = copyOut(slot)
	}
	return out
}

// AsStructure returns the structure code and freshly owned copies of
// its fields.
func (v *Value) AsStructure() (int16, []*Value) {
	h := v.requireType(TypeStructure, "as_structure")
	code, _ := engine.StructureCode(h)
	n, _ := engine.ValueSize(h)
	fields := make([]*Value, 0, n)
	for i := int32(0); i < n; i++ {
		slot, _ := engine.StructureValue(h, i)
		fields = append(fields, copyOut(slot))
	}
	return code, fields
}

func copyOut(slot engine.Handle) *Value {
	fresh := engine.ValueCreate()
	engine.ValueCopy(fresh, slot)
	return wrap(fresh)
}

// Close releases the value and, for containers, everything it owns.
// The first call frees; every later call is a detectable no-op
// returning ErrClosed.
func (v *Value) Close() error {
	if v.closed {
		return errors.ErrClosed
	}
	v.closed = true
	engine.ValueDestroy(v.h)
	return nil
}
