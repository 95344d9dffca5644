package engine

import (
	"bytes"
	"sort"
	"sync"
)

// Wire tags, mirroring the engine's C-level type constants.
const (
	TagNull uint32 = iota
	TagBoolean
	TagInteger
	TagFloat
	TagString
	TagDictionary
	TagList
	TagBytes
	TagStructure
)

// valueCell is the C-style mutable tagged union backing one value
// handle. Exactly one tag is active; formatting re-tags the cell in
// place and drops whatever it held before.
type valueCell struct {
	data     []byte
	keys     [][]byte
	children []*valueCell
	integer  int64
	float    float64
	code     int16
	tag      uint32
	boolean  bool
}

var (
	cellMu sync.Mutex

	// interiors tracks the handles issued for slots inside each root
	// value, so releasing or re-formatting the root can invalidate
	// them. Interior handles alias engine-owned storage and are never
	// independently destroyable.
	interiors = make(map[Handle][]Handle)
)

func (c *valueCell) reset(tag uint32) {
	*c = valueCell{tag: tag}
}

func (c *valueCell) deepCopyFrom(src *valueCell) {
	c.tag = src.tag
	c.boolean = src.boolean
	c.integer = src.integer
	c.float = src.float
	c.code = src.code
	c.data = append([]byte(nil), src.data...)
	if src.data == nil {
		c.data = nil
	}
	c.keys = nil
	for _, k := range src.keys {
		c.keys = append(c.keys, append([]byte(nil), k...))
	}
	c.children = nil
	for _, ch := range src.children {
		dup := &valueCell{}
		dup.deepCopyFrom(ch)
		c.children = append(c.children, dup)
	}
}

func resolveCell(h Handle) (*valueCell, bool) {
	v, ok := tab.get(h, typeValue)
	if !ok {
		return nil, false
	}
	return v.(*valueCell), true
}

func rootOf(h Handle) Handle {
	owner, ok := tab.owner(h)
	if !ok || owner == 0 {
		return h
	}
	return owner
}

// dropInteriors invalidates interior handles issued under root,
// keeping one survivor (the slot currently being written through).
func dropInteriors(root, keep Handle) {
	issued := interiors[root]
	var kept []Handle
	for _, h := range issued {
		if h == keep {
			kept = append(kept, h)
			continue
		}
		tab.destroyOwned(h, root)
	}
	if kept == nil {
		delete(interiors, root)
	} else {
		interiors[root] = kept
	}
}

// ValueCreate allocates a fresh Null-tagged value cell.
func ValueCreate() Handle {
	return tab.create(typeValue, &valueCell{tag: TagNull})
}

// ValueDestroy frees a root value and everything it owns. Interior
// handles and stale handles are refused.
func ValueDestroy(h Handle) bool {
	cellMu.Lock()
	defer cellMu.Unlock()

	_, ok := tab.destroy(h)
	if !ok {
		return false
	}
	dropInteriors(h, 0)
	return true
}

// ValueType reports the active tag of a value.
func ValueType(h Handle) (uint32, bool) {
	cellMu.Lock()
	defer cellMu.Unlock()

	c, ok := resolveCell(h)
	if !ok {
		return 0, false
	}
	return c.tag, true
}

// ValueSize reports the logical size of a value: byte length for
// String/Bytes, element count for containers, 0 for scalars.
func ValueSize(h Handle) (int32, bool) {
	cellMu.Lock()
	defer cellMu.Unlock()

	c, ok := resolveCell(h)
	if !ok {
		return 0, false
	}
	switch c.tag {
	case TagString, TagBytes:
		return int32(len(c.data)), true
	case TagList, TagDictionary, TagStructure:
		return int32(len(c.children)), true
	default:
		return 0, true
	}
}

func formatScalar(h Handle, apply func(*valueCell)) bool {
	cellMu.Lock()
	defer cellMu.Unlock()

	c, ok := resolveCell(h)
	if !ok {
		return false
	}
	dropInteriors(rootOf(h), h)
	apply(c)
	return true
}

// FormatAsNull re-tags a value as Null.
func FormatAsNull(h Handle) bool {
	return formatScalar(h, func(c *valueCell) { c.reset(TagNull) })
}

// FormatAsBoolean re-tags a value as Boolean.
func FormatAsBoolean(h Handle, v bool) bool {
	return formatScalar(h, func(c *valueCell) {
		c.reset(TagBoolean)
		c.boolean = v
	})
}

// FormatAsInteger re-tags a value as Integer.
func FormatAsInteger(h Handle, v int64) bool {
	return formatScalar(h, func(c *valueCell) {
		c.reset(TagInteger)
		c.integer = v
	})
}

// FormatAsFloat re-tags a value as Float.
func FormatAsFloat(h Handle, v float64) bool {
	return formatScalar(h, func(c *valueCell) {
		c.reset(TagFloat)
		c.float = v
	})
}

// FormatAsString re-tags a value as String. The payload is copied; the
// caller's buffer is not retained.
func FormatAsString(h Handle, v []byte) bool {
	return formatScalar(h, func(c *valueCell) {
		c.reset(TagString)
		c.data = append([]byte(nil), v...)
	})
}

// FormatAsBytes re-tags a value as Bytes. The payload is copied.
func FormatAsBytes(h Handle, v []byte) bool {
	return formatScalar(h, func(c *valueCell) {
		c.reset(TagBytes)
		c.data = append([]byte(nil), v...)
	})
}

func formatContainer(h Handle, tag uint32, n int32, code int16) bool {
	if n < 0 {
		return false
	}

	cellMu.Lock()
	defer cellMu.Unlock()

	c, ok := resolveCell(h)
	if !ok {
		return false
	}
	dropInteriors(rootOf(h), h)
	c.reset(tag)
	c.code = code
	c.children = make([]*valueCell, n)
	for i := range c.children {
		c.children[i] = &valueCell{tag: TagNull}
	}
	if tag == TagDictionary {
		c.keys = make([][]byte, n)
	}
	return true
}

// FormatAsList re-tags a value as a List of n Null slots.
func FormatAsList(h Handle, n int32) bool {
	return formatContainer(h, TagList, n, 0)
}

// FormatAsDictionary re-tags a value as a Dictionary with n empty
// key/value slots.
func FormatAsDictionary(h Handle, n int32) bool {
	return formatContainer(h, TagDictionary, n, 0)
}

// FormatAsStructure re-tags a value as a Structure with the given code
// and n Null fields. The code is opaque metadata at this layer.
func FormatAsStructure(h Handle, code int16, n int32) bool {
	return formatContainer(h, TagStructure, n, code)
}

// BooleanGet reads a Boolean cell.
func BooleanGet(h Handle) (bool, bool) {
	cellMu.Lock()
	defer cellMu.Unlock()

	c, ok := resolveCell(h)
	if !ok || c.tag != TagBoolean {
		return false, false
	}
	return c.boolean, true
}

// IntegerGet reads an Integer cell.
func IntegerGet(h Handle) (int64, bool) {
	cellMu.Lock()
	defer cellMu.Unlock()

	c, ok := resolveCell(h)
	if !ok || c.tag != TagInteger {
		return 0, false
	}
	return c.integer, true
}

// FloatGet reads a Float cell.
func FloatGet(h Handle) (float64, bool) {
	cellMu.Lock()
	defer cellMu.Unlock()

	c, ok := resolveCell(h)
	if !ok || c.tag != TagFloat {
		return 0, false
	}
	return c.float, true
}

// StringGet copies out a String payload. The reported length is
// authoritative; the payload may contain anything.
func StringGet(h Handle) ([]byte, bool) {
	return bufGet(h, TagString)
}

// BytesGet copies out a Bytes payload.
func BytesGet(h Handle) ([]byte, bool) {
	return bufGet(h, TagBytes)
}

func bufGet(h Handle, tag uint32) ([]byte, bool) {
	cellMu.Lock()
	defer cellMu.Unlock()

	c, ok := resolveCell(h)
	if !ok || c.tag != tag {
		return nil, false
	}
	return append([]byte(nil), c.data...), true
}

func slotHandle(h Handle, i int32, tag uint32) (Handle, bool) {
	cellMu.Lock()
	defer cellMu.Unlock()

	c, ok := resolveCell(h)
	if !ok || c.tag != tag {
		return 0, false
	}
	if i < 0 || int(i) >= len(c.children) {
		return 0, false
	}

	root := rootOf(h)
	slot := tab.create(typeValue, c.children[i])
	tab.adopt(slot, root)
	interiors[root] = append(interiors[root], slot)
	return slot, true
}

// ListValue returns a non-owning handle to the i-th slot of a List.
// The handle aliases the list's storage and dies with it.
func ListValue(h Handle, i int32) (Handle, bool) {
	return slotHandle(h, i, TagList)
}

// StructureValue returns a non-owning handle to the i-th field of a
// Structure.
func StructureValue(h Handle, i int32) (Handle, bool) {
	return slotHandle(h, i, TagStructure)
}

// StructureCode reads the application-defined code of a Structure.
func StructureCode(h Handle) (int16, bool) {
	cellMu.Lock()
	defer cellMu.Unlock()

	c, ok := resolveCell(h)
	if !ok || c.tag != TagStructure {
		return 0, false
	}
	return c.code, true
}

// DictionarySetKey assigns the key of the i-th dictionary slot. The key
// bytes are copied.
func DictionarySetKey(h Handle, i int32, key []byte) bool {
	cellMu.Lock()
	defer cellMu.Unlock()

	c, ok := resolveCell(h)
	if !ok || c.tag != TagDictionary {
		return false
	}
	if i < 0 || int(i) >= len(c.keys) {
		return false
	}
	c.keys[i] = append([]byte(nil), key...)
	return true
}

// DictionaryKey copies out the key of the i-th dictionary slot.
func DictionaryKey(h Handle, i int32) ([]byte, bool) {
	cellMu.Lock()
	defer cellMu.Unlock()

	c, ok := resolveCell(h)
	if !ok || c.tag != TagDictionary {
		return nil, false
	}
	if i < 0 || int(i) >= len(c.keys) {
		return nil, false
	}
	return append([]byte(nil), c.keys[i]...), true
}

// DictionaryValue returns a non-owning handle to the value of the i-th
// dictionary slot.
func DictionaryValue(h Handle, i int32) (Handle, bool) {
	return slotHandle(h, i, TagDictionary)
}

// DictionaryNormalize reorders dictionary slots into the engine's
// canonical key order. Callers must not assume slot order survives it.
func DictionaryNormalize(h Handle) bool {
	cellMu.Lock()
	defer cellMu.Unlock()

	c, ok := resolveCell(h)
	if !ok || c.tag != TagDictionary {
		return false
	}
	sort.Sort(&dictSlots{keys: c.keys, children: c.children})
	return true
}

type dictSlots struct {
	keys     [][]byte
	children []*valueCell
}

func (d *dictSlots) Len() int           { return len(d.keys) }
func (d *dictSlots) Less(i, j int) bool { return bytes.Compare(d.keys[i], d.keys[j]) < 0 }
func (d *dictSlots) Swap(i, j int) {
	d.keys[i], d.keys[j] = d.keys[j], d.keys[i]
	d.children[i], d.children[j] = d.children[j], d.children[i]
}

// ValueCopy deep-copies the contents of src into dst. Both stay valid
// and independent afterwards; dst's previous contents are dropped.
func ValueCopy(dst, src Handle) bool {
	cellMu.Lock()
	defer cellMu.Unlock()

	dc, ok := resolveCell(dst)
	if !ok {
		return false
	}
	sc, ok := resolveCell(src)
	if !ok {
		return false
	}
	dropInteriors(rootOf(dst), dst)
	dc.deepCopyFrom(sc)
	return true
}
