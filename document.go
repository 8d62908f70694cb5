package nbt

import "sync/atomic"

// Document is the Borrowed reader variant: its backing slice is supplied
// by the caller and must outlive every View taken from it.
type Document struct {
	order      ByteOrder
	src        []byte
	root       TagID
	name       []byte
	marks      Marks
	payloadOff int
}

// ReadBorrowed parses src as a single-root NBT document. The returned
// Document borrows src directly; the caller must keep src alive and
// unmodified for as long as the Document (and any View derived from it)
// is in use.
func ReadBorrowed(order ByteOrder, src []byte) (*Document, error) {
	root, name, marks, _, err := parseDocument(src, order)
	if err != nil {
		return nil, err
	}
	return &Document{order: order, src: src, root: root, name: name, marks: marks, payloadOff: rootPayloadOff(root, name)}, nil
}

// Root returns a View over the document's root value.
func (d *Document) Root() View {
	return View{buf: d.src, marks: d.marks, order: d.order, tag: d.root, dataOff: d.payloadOff, markOff: rootMarkOffset(d.root)}
}

// RootName returns the MUTF-8-encoded root name (ordinarily empty).
func (d *Document) RootName() []byte { return d.name }

// rootPayloadOff is the offset of the root value's payload: one tag
// byte, a u16 name length, then the name bytes. An End root has no
// payload and the offset is unused.
func rootPayloadOff(root TagID, name []byte) int {
	if root == TagEnd {
		return 1
	}
	return 3 + len(name)
}

// rootMarkOffset is 0 if the root is itself the first (and only
// top-level) composite mark, or -1 (meaning "no mark needed") for a
// primitive/array root.
func rootMarkOffset(root TagID) int {
	if root.IsComposite() {
		return 0
	}
	return -1
}

// sharedBuf is a reference-counted byte buffer, tracked with a plain
// atomic counter rather than introducing a new synchronization
// primitive.
type sharedBuf struct {
	data []byte
	refs int64
}

func newSharedBuf(data []byte) *sharedBuf {
	return &sharedBuf{data: data, refs: 1}
}

// Retain increments the reference count and returns the same buffer, for
// callers handing out another owner of it.
func (b *sharedBuf) Retain() *sharedBuf {
	atomic.AddInt64(&b.refs, 1)
	return b
}

// Release decrements the reference count. It reports true the instant
// the count reaches zero, at which point the caller must not dereference
// b again; there is no separate free step because Go's GC reclaims data
// once nothing references this sharedBuf.
func (b *sharedBuf) Release() bool {
	return atomic.AddInt64(&b.refs, -1) == 0
}

// SharedDocument is the Shared reader variant: the input buffer and the
// document itself are both reference-counted, so a View may outlive the
// call frame that produced it as long as it (or a clone) still holds a
// reference.
type SharedDocument struct {
	buf        *sharedBuf
	order      ByteOrder
	root       TagID
	name       []byte
	marks      Marks
	payloadOff int
}

// ReadShared parses src and wraps it in a reference-counted document.
// Ownership of src passes to the returned SharedDocument; the caller
// must not mutate src afterward.
func ReadShared(order ByteOrder, src []byte) (*SharedDocument, error) {
	root, name, marks, _, err := parseDocument(src, order)
	if err != nil {
		return nil, err
	}
	return &SharedDocument{buf: newSharedBuf(src), order: order, root: root, name: name, marks: marks, payloadOff: rootPayloadOff(root, name)}, nil
}

// Retain returns a new handle to the same underlying document, bumping
// its reference count. Each returned handle must eventually be released.
func (d *SharedDocument) Retain() *SharedDocument {
	d.buf.Retain()
	return &SharedDocument{buf: d.buf, order: d.order, root: d.root, name: d.name, marks: d.marks, payloadOff: d.payloadOff}
}

// Release drops this handle's reference to the underlying buffer.
func (d *SharedDocument) Release() { d.buf.Release() }

func (d *SharedDocument) Root() View {
	return View{buf: d.buf.data, marks: d.marks, order: d.order, tag: d.root, dataOff: d.payloadOff, markOff: rootMarkOffset(d.root)}
}

func (d *SharedDocument) RootName() []byte { return d.name }

// OwnedBufferDocument is the Owned-buffer reader variant: a single
// object owns both the source bytes and the mark array, with no
// reference counting. Views borrow from it and must not outlive it.
type OwnedBufferDocument struct {
	order      ByteOrder
	src        []byte
	root       TagID
	name       []byte
	marks      Marks
	payloadOff int
}

// ReadOwnedBuffer parses src into a document that owns src outright.
func ReadOwnedBuffer(order ByteOrder, src []byte) (*OwnedBufferDocument, error) {
	root, name, marks, _, err := parseDocument(src, order)
	if err != nil {
		return nil, err
	}
	return &OwnedBufferDocument{order: order, src: src, root: root, name: name, marks: marks, payloadOff: rootPayloadOff(root, name)}, nil
}

func (d *OwnedBufferDocument) Root() View {
	return View{buf: d.src, marks: d.marks, order: d.order, tag: d.root, dataOff: d.payloadOff, markOff: rootMarkOffset(d.root)}
}

func (d *OwnedBufferDocument) RootName() []byte { return d.name }
