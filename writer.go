package nbt

import "io"

// Writable is implemented by both View and *OwnedValue, letting a caller
// serialize either kind of value through one call shape:
// writable.WriteToVec(order) / writable.WriteToWriter(order, sink).
type Writable interface {
	WriteToVec(order ByteOrder) []byte
	WriteToWriter(order ByteOrder, sink io.Writer) error
}

var (
	_ Writable = View{}
	_ Writable = (*OwnedValue)(nil)
)

// writer accumulates a root-form document in memory, then issues a
// single write to the caller's sink, building the value in a buffer
// before any I/O happens.
type writer struct {
	order ByteOrder
	out   []byte
}

func newWriter(order ByteOrder) *writer {
	return &writer{order: order, out: make([]byte, 0, 256)}
}

func (w *writer) putByte(b byte) { w.out = append(w.out, b) }

func (w *writer) putU16(v uint16) {
	var tmp [2]byte
	w.order.Std().PutUint16(tmp[:], v)
	w.out = append(w.out, tmp[:]...)
}

func (w *writer) putU32(v uint32) {
	var tmp [4]byte
	w.order.Std().PutUint32(tmp[:], v)
	w.out = append(w.out, tmp[:]...)
}

func (w *writer) putU64(v uint64) {
	var tmp [8]byte
	w.order.Std().PutUint64(tmp[:], v)
	w.out = append(w.out, tmp[:]...)
}

func (w *writer) putBytes(b []byte) { w.out = append(w.out, b...) }

// putRootHeader writes the root tag and an empty root name. An End root
// is the single End byte, with no name.
func (w *writer) putRootHeader(tag TagID) {
	w.putByte(byte(tag))
	if tag == TagEnd {
		return
	}
	w.putU16(0)
}

// WriteViewTo writes v as a root-form document in the writer's byte
// order, using the fast bulk-copy path (§4.3) whenever v's own byte
// order already matches the target.
func WriteViewTo(order ByteOrder, v View) []byte {
	w := newWriter(order)
	w.putRootHeader(v.tag)
	w.writeViewPayload(v)
	return w.out
}

// WriteToVec serializes v as a root-form document in the given order.
func (v View) WriteToVec(order ByteOrder) []byte { return WriteViewTo(order, v) }

// WriteToWriter serializes v as a root-form document and writes it to
// sink in a single call.
func (v View) WriteToWriter(order ByteOrder, sink io.Writer) error {
	_, err := sink.Write(WriteViewTo(order, v))
	return err
}

// writeViewPayload emits v's payload bytes (no tag/name), recursing into
// composites. When v's source byte order matches the writer's target
// order, composite subtrees are copied with a single bulk copy using the
// mark array's end pointer, rather than walked element by element.
func (w *writer) writeViewPayload(v View) {
	switch {
	case v.tag.IsPrimitive():
		w.copyFixed(v)
	case v.tag.IsArray():
		w.writeArray(v)
	case v.tag == TagString:
		w.putU16(uint16(len(v.RawBytes())))
		w.putBytes(v.RawBytes())
	case v.tag == TagCompound:
		w.writeCompound(v)
	case v.tag == TagList:
		w.writeList(v)
	}
}

// copyFixed handles Byte/Short/Int/Long/Float/Double: a memcpy when
// orders match, otherwise read-then-repack through the target order.
func (w *writer) copyFixed(v View) {
	size, ok := v.tag.FixedSize()
	if !ok {
		return
	}
	if v.order == w.order {
		w.putBytes(v.buf[v.dataOff : v.dataOff+size])
		return
	}
	switch v.tag {
	case TagByte:
		w.putByte(v.buf[v.dataOff])
	case TagShort:
		w.putU16(v.order.Std().Uint16(v.buf[v.dataOff:]))
	case TagInt, TagFloat:
		w.putU32(v.order.Std().Uint32(v.buf[v.dataOff:]))
	case TagLong, TagDouble:
		w.putU64(v.order.Std().Uint64(v.buf[v.dataOff:]))
	}
}

func (w *writer) writeArray(v View) {
	n := v.arrayLen()
	elemSize := v.tag.arrayElementSize()
	w.putU32(uint32(n))
	src := v.buf[v.dataOff+4 : v.dataOff+4+n*elemSize]

	if v.tag == TagByteArray || v.order == w.order {
		w.putBytes(src)
		return
	}
	for i := 0; i < n; i++ {
		off := i * elemSize
		switch elemSize {
		case 4:
			w.putU32(v.order.Std().Uint32(src[off:]))
		case 8:
			w.putU64(v.order.Std().Uint64(src[off:]))
		}
	}
}

func (w *writer) writeCompound(v View) {
	if v.order == w.order {
		w.bulkCopyComposite(v)
		return
	}
	for it := v.CompoundIter(); it.Next(); {
		w.putByte(byte(it.Value().tag))
		w.putU16(uint16(len(it.Name())))
		w.putBytes(it.Name())
		w.writeViewPayload(it.Value())
	}
	w.putByte(byte(TagEnd))
}

func (w *writer) writeList(v View) {
	if v.order == w.order {
		w.bulkCopyComposite(v)
		return
	}
	elemTag := v.ElementTag()
	count := v.listCount()
	w.putByte(byte(elemTag))
	w.putU32(uint32(count))
	for it := v.Iter(); it.Next(); {
		w.writeViewPayload(it.Value())
	}
}

// bulkCopyComposite copies a List or Compound's entire on-the-wire
// payload in one shot, valid only when the source document's byte order
// already matches this writer's target order. The subtree's bytes run
// from v.dataOff to its mark's end pointer.
func (w *writer) bulkCopyComposite(v View) {
	end := v.marks[v.markOff].EndOffset()
	w.putBytes(v.buf[v.dataOff:end])
}

// WriteOwnedTo writes an OwnedValue as a root-form document.
func WriteOwnedTo(order ByteOrder, value *OwnedValue) []byte {
	w := newWriter(order)
	w.putRootHeader(value.Tag())
	w.writeOwnedPayload(value)
	return w.out
}

// WriteToVec serializes v as a root-form document in the given order,
// satisfying Writable.
func (v *OwnedValue) WriteToVec(order ByteOrder) []byte { return WriteOwnedTo(order, v) }

// WriteToWriter serializes v as a root-form document and writes it to
// sink in a single call, satisfying Writable.
func (v *OwnedValue) WriteToWriter(order ByteOrder, sink io.Writer) error {
	_, err := sink.Write(WriteOwnedTo(order, v))
	return err
}

// OwnedToVecBE serializes an OwnedValue as a big-endian root-form
// document.
func OwnedToVecBE(value *OwnedValue) []byte { return WriteOwnedTo(BigEndian, value) }

// OwnedToVecLE serializes an OwnedValue as a little-endian root-form
// document.
func OwnedToVecLE(value *OwnedValue) []byte { return WriteOwnedTo(LittleEndian, value) }

// OwnedToWriterBE writes an OwnedValue as a big-endian root-form
// document to sink.
func OwnedToWriterBE(sink io.Writer, value *OwnedValue) error {
	_, err := sink.Write(WriteOwnedTo(BigEndian, value))
	return err
}

// OwnedToWriterLE writes an OwnedValue as a little-endian root-form
// document to sink.
func OwnedToWriterLE(sink io.Writer, value *OwnedValue) error {
	_, err := sink.Write(WriteOwnedTo(LittleEndian, value))
	return err
}
