package nbt

// Mark is one 16-byte (two uint64) side-table entry describing a single
// composite (List or Compound) encountered by the parser, in depth-first
// pre-order of appearance.
//
// The parser tracks open composites on its own stack of frames rather
// than in the marks, so a mark carries nothing until the moment its
// composite closes; at that point w0/w1 are set once and never
// repurposed again.
type Mark struct {
	w0 uint64 // endOffset once closed
	w1 uint64 // flatNext once closed
}

// close finalizes a mark once its composite has been fully parsed:
// endOffset is the byte just past the last payload byte, flatNext is the
// number of marks (including this one) describing the whole subtree.
func (m *Mark) close(endOffset int, flatNext uint32) {
	m.w0 = uint64(endOffset)
	m.w1 = uint64(flatNext)
}

// EndOffset returns the byte offset just past this composite's last
// payload byte. Only meaningful after close has been called.
func (m Mark) EndOffset() int { return int(m.w0) }

// FlatNext returns the number of marks describing this composite's
// entire subtree, itself included. Only meaningful after close.
func (m Mark) FlatNext() uint32 { return uint32(m.w1) }

// Marks is the flat side-table produced by the parser: one entry per
// composite value, in depth-first pre-order.
type Marks []Mark

// newMarks pre-sizes the mark slice at roughly one mark per 32 bytes of
// input, avoiding growing the slice one append at a time on a hot path.
func newMarks(inputLen int) Marks {
	return make(Marks, 0, inputLen/32+1)
}
