package nbt

import "math"

// OwnedValue is a mutable, heap-owned value of one of the thirteen NBT
// kinds, built as a boxed tree of ordinarily allocated Go values rather
// than a byte-buffer-with-inline-handles layout. Only the field matching
// tag is meaningful.
type OwnedValue struct {
	tag    TagID
	num    uint64 // Byte/Short/Int/Long (zero-extended from the tag's own width) or Float/Double bit pattern
	raw    []byte // String (MUTF-8 bytes) or ByteArray (reinterpreted as int8)
	ints   []int32
	longs  []int64
	list   *OwnedList
	compnd *OwnedCompound
}

func (v *OwnedValue) Tag() TagID { return v.tag }

func NewOwnedByte(n int8) *OwnedValue   { return &OwnedValue{tag: TagByte, num: uint64(uint8(n))} }
func NewOwnedShort(n int16) *OwnedValue { return &OwnedValue{tag: TagShort, num: uint64(uint16(n))} }
func NewOwnedInt(n int32) *OwnedValue   { return &OwnedValue{tag: TagInt, num: uint64(uint32(n))} }
func NewOwnedLong(n int64) *OwnedValue  { return &OwnedValue{tag: TagLong, num: uint64(n)} }

func NewOwnedFloat(f float32) *OwnedValue {
	return &OwnedValue{tag: TagFloat, num: uint64(math.Float32bits(f))}
}

func NewOwnedDouble(f float64) *OwnedValue {
	return &OwnedValue{tag: TagDouble, num: math.Float64bits(f)}
}

func NewOwnedByteArray(b []int8) *OwnedValue {
	raw := make([]byte, len(b))
	for i, x := range b {
		raw[i] = byte(x)
	}
	return &OwnedValue{tag: TagByteArray, raw: raw}
}

func NewOwnedString(s string) *OwnedValue {
	return &OwnedValue{tag: TagString, raw: Encode(s)}
}

func NewOwnedIntArray(ns []int32) *OwnedValue {
	cp := append([]int32(nil), ns...)
	return &OwnedValue{tag: TagIntArray, ints: cp}
}

func NewOwnedLongArray(ns []int64) *OwnedValue {
	cp := append([]int64(nil), ns...)
	return &OwnedValue{tag: TagLongArray, longs: cp}
}

func NewOwnedList(l *OwnedList) *OwnedValue         { return &OwnedValue{tag: TagList, list: l} }
func NewOwnedCompound(c *OwnedCompound) *OwnedValue { return &OwnedValue{tag: TagCompound, compnd: c} }

func (v *OwnedValue) AsByte() (int8, bool) {
	if v.tag != TagByte {
		return 0, false
	}
	return int8(v.num), true
}

func (v *OwnedValue) AsShort() (int16, bool) {
	if v.tag != TagShort {
		return 0, false
	}
	return int16(v.num), true
}

func (v *OwnedValue) AsInt() (int32, bool) {
	if v.tag != TagInt {
		return 0, false
	}
	return int32(v.num), true
}

func (v *OwnedValue) AsLong() (int64, bool) {
	if v.tag != TagLong {
		return 0, false
	}
	return int64(v.num), true
}

func (v *OwnedValue) AsFloat() (float32, bool) {
	if v.tag != TagFloat {
		return 0, false
	}
	return math.Float32frombits(uint32(v.num)), true
}

func (v *OwnedValue) AsDouble() (float64, bool) {
	if v.tag != TagDouble {
		return 0, false
	}
	return math.Float64frombits(v.num), true
}

func (v *OwnedValue) AsString() (string, bool) {
	if v.tag != TagString {
		return "", false
	}
	return DecodeLossy(v.raw), true
}

func (v *OwnedValue) AsByteArray() ([]int8, bool) {
	if v.tag != TagByteArray {
		return nil, false
	}
	out := make([]int8, len(v.raw))
	for i, b := range v.raw {
		out[i] = int8(b)
	}
	return out, true
}

func (v *OwnedValue) AsIntArray() ([]int32, bool) {
	if v.tag != TagIntArray {
		return nil, false
	}
	return v.ints, true
}

func (v *OwnedValue) AsLongArray() ([]int64, bool) {
	if v.tag != TagLongArray {
		return nil, false
	}
	return v.longs, true
}

func (v *OwnedValue) AsList() (*OwnedList, bool) {
	if v.tag != TagList {
		return nil, false
	}
	return v.list, true
}

func (v *OwnedValue) AsCompound() (*OwnedCompound, bool) {
	if v.tag != TagCompound {
		return nil, false
	}
	return v.compnd, true
}

// Release recursively returns this value's composite children to the
// node pool: every composite reachable from v is returned exactly once.
func (v *OwnedValue) Release() {
	switch v.tag {
	case TagList:
		if v.list != nil {
			v.list.Release()
		}
	case TagCompound:
		if v.compnd != nil {
			v.compnd.Release()
		}
	}
}

// Clone deep-copies v, including any nested list/compound structure.
func (v *OwnedValue) Clone() *OwnedValue {
	cp := *v
	switch v.tag {
	case TagByteArray:
		cp.raw = append([]byte(nil), v.raw...)
	case TagString:
		cp.raw = append([]byte(nil), v.raw...)
	case TagIntArray:
		cp.ints = append([]int32(nil), v.ints...)
	case TagLongArray:
		cp.longs = append([]int64(nil), v.longs...)
	case TagList:
		cp.list = v.list.Clone()
	case TagCompound:
		cp.compnd = v.compnd.Clone()
	}
	return &cp
}

// OwnedCompound is a mutable, insertion-ordered map of MUTF-8-keyed
// values. entries preserves on-the-wire order for Iter; index gives O(1)
// key lookup instead of a linear scan per Get/Insert/Remove.
type OwnedCompound struct {
	entries []compoundEntry
	index   map[string]int
}

type compoundEntry struct {
	name  string
	value *OwnedValue
}

// NewOwnedCompoundNode allocates (or recycles, via the shared node pool)
// an empty OwnedCompound.
func NewOwnedCompoundNode() *OwnedCompound {
	return defaultNodePool.getCompound()
}

// Insert adds or replaces the entry named key. It returns the previous
// value if one existed, or nil otherwise.
func (c *OwnedCompound) Insert(key string, value *OwnedValue) *OwnedValue {
	if c.index == nil {
		c.index = make(map[string]int, 8)
	}
	if i, ok := c.index[key]; ok {
		prev := c.entries[i].value
		c.entries[i].value = value
		return prev
	}
	c.index[key] = len(c.entries)
	c.entries = append(c.entries, compoundEntry{name: key, value: value})
	return nil
}

// Remove deletes the entry named key, if present, and returns its value.
func (c *OwnedCompound) Remove(key string) (*OwnedValue, bool) {
	i, ok := c.index[key]
	if !ok {
		return nil, false
	}
	v := c.entries[i].value
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	delete(c.index, key)
	for j := i; j < len(c.entries); j++ {
		c.index[c.entries[j].name] = j
	}
	return v, true
}

// Get returns the entry named key.
func (c *OwnedCompound) Get(key string) (*OwnedValue, bool) {
	i, ok := c.index[key]
	if !ok {
		return nil, false
	}
	return c.entries[i].value, true
}

// Len returns the number of entries.
func (c *OwnedCompound) Len() int { return len(c.entries) }

// Iter calls fn for each entry in on-the-wire (insertion) order. It
// stops early if fn returns false.
func (c *OwnedCompound) Iter(fn func(name string, value *OwnedValue) bool) {
	for _, e := range c.entries {
		if !fn(e.name, e.value) {
			return
		}
	}
}

// Release returns c, and recursively every composite child it owns, to
// the node pool.
func (c *OwnedCompound) Release() {
	for _, e := range c.entries {
		e.value.Release()
	}
	defaultNodePool.putCompound(c)
}

// Clone deep-copies c and every entry it contains.
func (c *OwnedCompound) Clone() *OwnedCompound {
	cp := NewOwnedCompoundNode()
	cp.entries = make([]compoundEntry, len(c.entries))
	cp.index = make(map[string]int, len(c.entries))
	for i, e := range c.entries {
		cp.entries[i] = compoundEntry{name: e.name, value: e.value.Clone()}
		cp.index[e.name] = i
	}
	return cp
}

// OwnedList is a mutable, homogeneously-tagged sequence of values.
type OwnedList struct {
	elemTag TagID
	items   []*OwnedValue
}

// NewOwnedListNode allocates (or recycles) an empty OwnedList, with
// element-tag End until its first push.
func NewOwnedListNode() *OwnedList {
	l := defaultNodePool.getList()
	l.elemTag = TagEnd
	return l
}

func (l *OwnedList) ElementTag() TagID { return l.elemTag }
func (l *OwnedList) Len() int          { return len(l.items) }

// Push appends value. If the list is empty and untyped (element-tag
// End), value's tag becomes the list's element-tag. A value whose tag
// doesn't match an already-typed list is silently dropped rather than
// returning an error that callers might come to depend on.
func (l *OwnedList) Push(value *OwnedValue) {
	if len(l.items) == 0 && l.elemTag == TagEnd {
		l.elemTag = value.tag
	}
	if value.tag != l.elemTag {
		return
	}
	l.items = append(l.items, value)
}

// Pop removes and returns the last element, if any.
func (l *OwnedList) Pop() (*OwnedValue, bool) {
	if len(l.items) == 0 {
		return nil, false
	}
	v := l.items[len(l.items)-1]
	l.items = l.items[:len(l.items)-1]
	return v, true
}

// Insert places value at index i, shifting later elements up. It panics
// if i > Len().
func (l *OwnedList) Insert(i int, value *OwnedValue) {
	if i > len(l.items) {
		panic("nbt: list insert index out of range")
	}
	if len(l.items) == 0 && l.elemTag == TagEnd {
		l.elemTag = value.tag
	}
	l.items = append(l.items, nil)
	copy(l.items[i+1:], l.items[i:])
	l.items[i] = value
}

// RemoveAt deletes and returns the element at index i. It panics if i is
// out of range.
func (l *OwnedList) RemoveAt(i int) *OwnedValue {
	v := l.items[i]
	l.items = append(l.items[:i], l.items[i+1:]...)
	return v
}

// Get returns the element at index i.
func (l *OwnedList) Get(i int) *OwnedValue { return l.items[i] }

// Iter calls fn for each element in order. It stops early if fn returns
// false.
func (l *OwnedList) Iter(fn func(value *OwnedValue) bool) {
	for _, v := range l.items {
		if !fn(v) {
			return
		}
	}
}

// Release returns l, and recursively every composite element it owns, to
// the node pool.
func (l *OwnedList) Release() {
	for _, v := range l.items {
		v.Release()
	}
	defaultNodePool.putList(l)
}

// Clone deep-copies l and every element it contains.
func (l *OwnedList) Clone() *OwnedList {
	cp := NewOwnedListNode()
	cp.elemTag = l.elemTag
	cp.items = make([]*OwnedValue, len(l.items))
	for i, v := range l.items {
		cp.items[i] = v.Clone()
	}
	return cp
}

// OwnedFromView deep-copies a parsed View into a mutable OwnedValue.
func OwnedFromView(v View) *OwnedValue {
	switch v.tag {
	case TagByte:
		n, _ := v.AsByte()
		return NewOwnedByte(n)
	case TagShort:
		n, _ := v.AsShort()
		return NewOwnedShort(n)
	case TagInt:
		n, _ := v.AsInt()
		return NewOwnedInt(n)
	case TagLong:
		n, _ := v.AsLong()
		return NewOwnedLong(n)
	case TagFloat:
		n, _ := v.AsFloat()
		return NewOwnedFloat(n)
	case TagDouble:
		n, _ := v.AsDouble()
		return NewOwnedDouble(n)
	case TagByteArray:
		b, _ := v.Int8s()
		return NewOwnedByteArray(b)
	case TagString:
		return NewOwnedString(v.Decode())
	case TagIntArray:
		n, _ := v.Int32s()
		return NewOwnedIntArray(n)
	case TagLongArray:
		n, _ := v.Int64s()
		return NewOwnedLongArray(n)
	case TagList:
		l := NewOwnedListNode()
		l.elemTag = v.ElementTag()
		for it := v.Iter(); it.Next(); {
			l.items = append(l.items, OwnedFromView(it.Value()))
		}
		return NewOwnedList(l)
	case TagCompound:
		c := NewOwnedCompoundNode()
		for it := v.CompoundIter(); it.Next(); {
			c.Insert(string(it.Name()), OwnedFromView(it.Value()))
		}
		return NewOwnedCompound(c)
	default:
		return &OwnedValue{tag: TagEnd}
	}
}

// ReadOwned parses src in sourceOrder and returns an OwnedValue holding a
// deep, independent copy of the root. targetOrder is accepted for API
// symmetry with callers that thread source and target byte order through
// the same call; an OwnedValue has no byte order of its own since it is
// only ever serialized through a writer, which is given its own target
// order.
func ReadOwned(sourceOrder, targetOrder ByteOrder, src []byte) (*OwnedValue, error) {
	doc, err := ReadOwnedBuffer(sourceOrder, src)
	if err != nil {
		return nil, err
	}
	return OwnedFromView(doc.Root()), nil
}

func (w *writer) writeOwnedPayload(v *OwnedValue) {
	switch v.tag {
	case TagByte:
		w.putByte(byte(v.num))
	case TagShort:
		w.putU16(uint16(v.num))
	case TagInt, TagFloat:
		w.putU32(uint32(v.num))
	case TagLong, TagDouble:
		w.putU64(v.num)
	case TagByteArray:
		w.putU32(uint32(len(v.raw)))
		w.putBytes(v.raw)
	case TagString:
		w.putU16(uint16(len(v.raw)))
		w.putBytes(v.raw)
	case TagIntArray:
		w.putU32(uint32(len(v.ints)))
		for _, n := range v.ints {
			w.putU32(uint32(n))
		}
	case TagLongArray:
		w.putU32(uint32(len(v.longs)))
		for _, n := range v.longs {
			w.putU64(uint64(n))
		}
	case TagCompound:
		v.compnd.Iter(func(name string, child *OwnedValue) bool {
			w.putByte(byte(child.tag))
			nameBytes := Encode(name)
			w.putU16(uint16(len(nameBytes)))
			w.putBytes(nameBytes)
			w.writeOwnedPayload(child)
			return true
		})
		w.putByte(byte(TagEnd))
	case TagList:
		w.putByte(byte(v.list.elemTag))
		w.putU32(uint32(len(v.list.items)))
		for _, item := range v.list.items {
			w.writeOwnedPayload(item)
		}
	}
}
