package nbt

import "math"

// View navigates a parsed document without copying: it is a pointer and
// length pair into the document's bytes plus a mark-array index, and is
// freely copyable since it never mutates its backing buffer. One View
// type serves all three document variants (Document, SharedDocument,
// OwnedBufferDocument); they all hand out the same struct because the
// navigation rules only need the bytes and marks, never which handle
// owns them.
type View struct {
	buf   []byte
	marks Marks
	order ByteOrder
	tag   TagID

	// dataOff is the offset of this value's payload: right after any
	// tag/name bytes for a compound entry, or at the element-tag byte
	// for a list.
	dataOff int

	// markOff is the index, in marks, of this value's own composite
	// mark. -1 if tag is not composite.
	markOff int
}

func (v View) TagID() TagID { return v.tag }

func (v View) IsByte() bool      { return v.tag == TagByte }
func (v View) IsShort() bool     { return v.tag == TagShort }
func (v View) IsInt() bool       { return v.tag == TagInt }
func (v View) IsLong() bool      { return v.tag == TagLong }
func (v View) IsFloat() bool     { return v.tag == TagFloat }
func (v View) IsDouble() bool    { return v.tag == TagDouble }
func (v View) IsByteArray() bool { return v.tag == TagByteArray }
func (v View) IsString() bool    { return v.tag == TagString }
func (v View) IsList() bool      { return v.tag == TagList }
func (v View) IsCompound() bool  { return v.tag == TagCompound }
func (v View) IsIntArray() bool  { return v.tag == TagIntArray }
func (v View) IsLongArray() bool { return v.tag == TagLongArray }

func (v View) AsByte() (int8, bool) {
	if v.tag != TagByte {
		return 0, false
	}
	return int8(v.buf[v.dataOff]), true
}

func (v View) AsShort() (int16, bool) {
	if v.tag != TagShort {
		return 0, false
	}
	return int16(v.order.Std().Uint16(v.buf[v.dataOff:])), true
}

func (v View) AsInt() (int32, bool) {
	if v.tag != TagInt {
		return 0, false
	}
	return int32(v.order.Std().Uint32(v.buf[v.dataOff:])), true
}

func (v View) AsLong() (int64, bool) {
	if v.tag != TagLong {
		return 0, false
	}
	return int64(v.order.Std().Uint64(v.buf[v.dataOff:])), true
}

func (v View) AsFloat() (float32, bool) {
	if v.tag != TagFloat {
		return 0, false
	}
	return math.Float32frombits(v.order.Std().Uint32(v.buf[v.dataOff:])), true
}

func (v View) AsDouble() (float64, bool) {
	if v.tag != TagDouble {
		return 0, false
	}
	return math.Float64frombits(v.order.Std().Uint64(v.buf[v.dataOff:])), true
}

// arrayLen reads the u32 element count prefixing an array payload.
func (v View) arrayLen() int {
	return int(v.order.Std().Uint32(v.buf[v.dataOff:]))
}

func (v View) Int8s() ([]int8, bool) {
	if v.tag != TagByteArray {
		return nil, false
	}
	n := v.arrayLen()
	raw := v.buf[v.dataOff+4 : v.dataOff+4+n]
	out := make([]int8, n)
	for i, b := range raw {
		out[i] = int8(b)
	}
	return out, true
}

func (v View) Int32s() ([]int32, bool) {
	if v.tag != TagIntArray {
		return nil, false
	}
	n := v.arrayLen()
	out := make([]int32, n)
	off := v.dataOff + 4
	for i := 0; i < n; i++ {
		out[i] = int32(v.order.Std().Uint32(v.buf[off+i*4:]))
	}
	return out, true
}

func (v View) Int64s() ([]int64, bool) {
	if v.tag != TagLongArray {
		return nil, false
	}
	n := v.arrayLen()
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		off := v.dataOff + 4 + i*8
		out[i] = int64(v.order.Std().Uint64(v.buf[off:]))
	}
	return out, true
}

func (v View) AsString() (View, bool) {
	if v.tag != TagString {
		return View{}, false
	}
	return v, true
}

// RawBytes returns a String value's MUTF-8 bytes unchanged.
func (v View) RawBytes() []byte {
	n := v.order.Std().Uint16(v.buf[v.dataOff:])
	return v.buf[v.dataOff+2 : v.dataOff+2+int(n)]
}

// Decode lossily decodes a String value as a Go string.
func (v View) Decode() string {
	return DecodeLossy(v.RawBytes())
}

// ElementTag returns a List's element tag.
func (v View) ElementTag() TagID {
	return TagID(v.buf[v.dataOff])
}

func (v View) listCount() int {
	return int(v.order.Std().Uint32(v.buf[v.dataOff+1:]))
}

// Len returns a List's element count, or a Compound's entry count (the
// latter found by a linear scan, since compounds have no length prefix).
func (v View) Len() int {
	switch v.tag {
	case TagList:
		return v.listCount()
	case TagCompound:
		n := 0
		for it := v.CompoundIter(); it.Next(); {
			n++
		}
		return n
	default:
		return 0
	}
}

func (v View) IsEmpty() bool { return v.Len() == 0 }

// listBase returns the offset of the first element's payload and the
// mark index to use if that element is itself composite.
func (v View) listBase() (dataOff, markIdx int) {
	return v.dataOff + 5, v.markOff + 1
}

// Get returns the i-th element of a List. It panics if i is out of
// range.
func (v View) Get(i int) View {
	count := v.listCount()
	if i < 0 || i >= count {
		panic("nbt: list index out of range")
	}
	elemTag := v.ElementTag()
	dataOff, markIdx := v.listBase()
	for step := 0; step < i; step++ {
		dataOff, markIdx = v.skip(elemTag, dataOff, markIdx)
	}
	return v.childView(elemTag, dataOff, markIdx)
}

// childView builds a View for a value of known tag found at (dataOff,
// markIdx) within the same backing buffer and mark array.
func (v View) childView(tag TagID, dataOff, markIdx int) View {
	mo := -1
	if tag.IsComposite() {
		mo = markIdx
	}
	return View{buf: v.buf, marks: v.marks, order: v.order, tag: tag, dataOff: dataOff, markOff: mo}
}

// skip advances past one value of the given tag, returning the offset
// and mark index of whatever follows it. For composite values this uses
// the mark-stepping rule: the next data pointer is the mark's end
// pointer, the next mark index is this mark's index plus its flat-next
// count.
func (v View) skip(tag TagID, dataOff, markIdx int) (int, int) {
	switch {
	case tag.IsPrimitive():
		size, ok := tag.FixedSize()
		if !ok {
			return dataOff, markIdx
		}
		return dataOff + size, markIdx
	case tag.IsArray():
		n := int(v.order.Std().Uint32(v.buf[dataOff:]))
		return dataOff + 4 + n*tag.arrayElementSize(), markIdx
	case tag == TagString:
		n := int(v.order.Std().Uint16(v.buf[dataOff:]))
		return dataOff + 2 + n, markIdx
	default: // List, Compound
		m := v.marks[markIdx]
		return m.EndOffset(), markIdx + int(m.FlatNext())
	}
}

// ListIter walks a List's elements in on-the-wire order.
type ListIter struct {
	v       View
	elemTag TagID
	remain  int
	dataOff int
	markIdx int
	cur     View
}

func (v View) Iter() ListIter {
	dataOff, markIdx := v.listBase()
	return ListIter{v: v, elemTag: v.ElementTag(), remain: v.listCount(), dataOff: dataOff, markIdx: markIdx}
}

func (it *ListIter) Next() bool {
	if it.remain == 0 {
		return false
	}
	it.cur = it.v.childView(it.elemTag, it.dataOff, it.markIdx)
	it.dataOff, it.markIdx = it.v.skip(it.elemTag, it.dataOff, it.markIdx)
	it.remain--
	return true
}

func (it *ListIter) Value() View { return it.cur }

// CompoundIter walks a Compound's entries in on-the-wire order.
type CompoundIter struct {
	v       View
	dataOff int
	markIdx int
	curName []byte
	curVal  View
}

func (v View) CompoundIter() CompoundIter {
	return CompoundIter{v: v, dataOff: v.dataOff, markIdx: v.markOff + 1}
}

func (it *CompoundIter) Next() bool {
	tag := TagID(it.v.buf[it.dataOff])
	if tag == TagEnd {
		return false
	}
	nameLen := int(it.v.order.Std().Uint16(it.v.buf[it.dataOff+1:]))
	nameStart := it.dataOff + 3
	it.curName = it.v.buf[nameStart : nameStart+nameLen]
	payloadOff := nameStart + nameLen

	markIdx := it.markIdx
	it.curVal = it.v.childView(tag, payloadOff, markIdx)
	nextOff, nextMark := it.v.skip(tag, payloadOff, markIdx)
	it.dataOff = nextOff
	it.markIdx = nextMark
	return true
}

func (it *CompoundIter) Name() []byte { return it.curName }
func (it *CompoundIter) Value() View  { return it.curVal }

// GetKey looks up a Compound entry by key via linear scan in on-the-wire
// order.
func (v View) GetKey(key string) (View, bool) {
	needle := Encode(key)
	for it := v.CompoundIter(); it.Next(); {
		if string(it.Name()) == string(needle) {
			return it.Value(), true
		}
	}
	return View{}, false
}
