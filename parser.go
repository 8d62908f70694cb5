package nbt

// parser validates and indexes an NBT document in a single pass,
// building a side-table of composite marks as it goes. It runs as an
// explicit iterative state machine over an explicit stack of open
// composites (frame), never recursing, so nesting depth is bounded only
// by how large p.stack is allowed to grow rather than by the goroutine
// stack.
type parser struct {
	src       []byte
	order     ByteOrder
	pos       int
	bytesRead int
	marks     Marks
	stack     []frame
}

// frameKind distinguishes the two kinds of open composite a frame can
// describe.
type frameKind uint8

const (
	frameCompound frameKind = iota
	frameList
)

// frame is one open composite on the parser's explicit stack: a
// Compound awaiting its next entry or End tag, or a List awaiting its
// next element.
type frame struct {
	kind      frameKind
	markIdx   int
	elemTag   TagID  // meaningful only for frameList
	remaining uint32 // meaningful only for frameList
}

func newParser(src []byte, order ByteOrder) *parser {
	return &parser{src: src, order: order, marks: newMarks(len(src))}
}

// parseDocument parses a single root-form NBT document out of src and
// returns its root tag, root name, mark array and the offset just past
// the document.
func parseDocument(src []byte, order ByteOrder) (rootTag TagID, rootName []byte, marks Marks, end int, err error) {
	p := newParser(src, order)

	tagByte, err := p.readByte()
	if err != nil {
		return 0, nil, nil, 0, err
	}
	if !validTag(tagByte) {
		return 0, nil, nil, 0, &InvalidTagTypeError{Byte: tagByte}
	}
	rootTag = TagID(tagByte)
	if rootTag == TagEnd {
		return TagEnd, nil, nil, p.pos, nil
	}

	name, err := p.readName()
	if err != nil {
		return 0, nil, nil, 0, err
	}
	rootName = name

	switch {
	case rootTag.IsPrimitive():
		if err := p.skipFixed(rootTag); err != nil {
			return 0, nil, nil, 0, err
		}
	case rootTag.IsArray():
		if err := p.skipArray(rootTag); err != nil {
			return 0, nil, nil, 0, err
		}
	case rootTag == TagString:
		if err := p.skipString(); err != nil {
			return 0, nil, nil, 0, err
		}
	case rootTag == TagCompound:
		p.pushCompound()
		if err := p.run(); err != nil {
			return 0, nil, nil, 0, err
		}
	case rootTag == TagList:
		if err := p.pushList(); err != nil {
			return 0, nil, nil, 0, err
		}
		if err := p.run(); err != nil {
			return 0, nil, nil, 0, err
		}
	default:
		return 0, nil, nil, 0, &InvalidTagTypeError{Byte: tagByte}
	}

	if p.bytesRead != len(src) {
		return 0, nil, nil, 0, &TrailingDataError{N: len(src) - p.bytesRead}
	}
	return rootTag, rootName, p.marks, p.pos, nil
}

func (p *parser) need(k int) error {
	p.bytesRead += k
	if p.bytesRead > len(p.src) {
		return ErrEndOfFile
	}
	return nil
}

func (p *parser) readByte() (byte, error) {
	if err := p.need(1); err != nil {
		return 0, err
	}
	b := p.src[p.pos]
	p.pos++
	return b, nil
}

func (p *parser) readU16() (uint16, error) {
	if err := p.need(2); err != nil {
		return 0, err
	}
	v := p.order.Std().Uint16(p.src[p.pos:])
	p.pos += 2
	return v, nil
}

func (p *parser) readU32() (uint32, error) {
	if err := p.need(4); err != nil {
		return 0, err
	}
	v := p.order.Std().Uint32(p.src[p.pos:])
	p.pos += 4
	return v, nil
}

func (p *parser) readName() ([]byte, error) {
	n, err := p.readU16()
	if err != nil {
		return nil, err
	}
	if err := p.need(int(n)); err != nil {
		return nil, err
	}
	name := p.src[p.pos : p.pos+int(n)]
	p.pos += int(n)
	return name, nil
}

func (p *parser) skipFixed(tag TagID) error {
	size, ok := tag.FixedSize()
	if !ok {
		return nil
	}
	return p.skip(size)
}

func (p *parser) skip(n int) error {
	if err := p.need(n); err != nil {
		return err
	}
	p.pos += n
	return nil
}

func (p *parser) skipString() error {
	n, err := p.readU16()
	if err != nil {
		return err
	}
	return p.skip(int(n))
}

func (p *parser) skipArray(tag TagID) error {
	n, err := p.readU32()
	if err != nil {
		return err
	}
	return p.skip(int(n) * tag.arrayElementSize())
}

// run drives the parser's stack of open composites to completion: one
// iteration handles either the next entry of the compound on top of the
// stack, or the next element of the list on top of the stack, until the
// stack empties.
func (p *parser) run() error {
	for len(p.stack) > 0 {
		top := &p.stack[len(p.stack)-1]
		switch top.kind {
		case frameCompound:
			if err := p.stepCompound(top); err != nil {
				return err
			}
		case frameList:
			if err := p.stepList(top); err != nil {
				return err
			}
		}
	}
	return nil
}

// stepCompound drives one COMP_ITEM/COMP_END transition for the compound
// frame f, which must be the top of p.stack.
func (p *parser) stepCompound(f *frame) error {
	tagByte, err := p.readByte()
	if err != nil {
		return err
	}
	if !validTag(tagByte) {
		return &InvalidTagTypeError{Byte: tagByte}
	}
	tag := TagID(tagByte)

	if tag == TagEnd { // COMP_END
		p.closeMark(f.markIdx)
		p.stack = p.stack[:len(p.stack)-1]
		return nil
	}

	// COMP_ITEM
	if _, err := p.readName(); err != nil {
		return err
	}
	return p.stepValue(tag)
}

// stepList drives one LIST_ITEM/LIST_END transition for the list frame
// f, which must be the top of p.stack.
func (p *parser) stepList(f *frame) error {
	if f.remaining == 0 { // LIST_END
		p.closeMark(f.markIdx)
		p.stack = p.stack[:len(p.stack)-1]
		return nil
	}

	// LIST_ITEM
	f.remaining--
	return p.stepValue(f.elemTag)
}

// stepValue handles one value of known tag that is not itself wrapped in
// a name: a list element, or the already-named payload of a compound
// entry. Composite tags push a new frame (COMP_BEGIN/LIST_BEGIN) rather
// than recursing; everything else is skipped in place.
func (p *parser) stepValue(tag TagID) error {
	switch {
	case tag.IsPrimitive():
		return p.skipFixed(tag)
	case tag.IsArray():
		return p.skipArray(tag)
	case tag == TagString:
		return p.skipString()
	case tag == TagCompound:
		p.pushCompound()
		return nil
	case tag == TagList:
		return p.pushList()
	default:
		return &InvalidTagTypeError{Byte: byte(tag)}
	}
}

// pushCompound opens a new mark and a new frame for a compound whose
// COMP_BEGIN has just been recognized (either the document root, or a
// compound-typed entry/element encountered by stepValue).
func (p *parser) pushCompound() {
	markIdx := len(p.marks)
	p.marks = append(p.marks, Mark{})
	p.stack = append(p.stack, frame{kind: frameCompound, markIdx: markIdx})
}

// pushList opens a new mark for a list whose LIST_BEGIN has just been
// recognized, reading its element tag and length. A list of
// fixed-size-primitive elements is skipped in one bulk read and closes
// its mark immediately without ever pushing a frame; any other element
// tag pushes a frame so its elements are validated and indexed one at a
// time by stepList.
func (p *parser) pushList() error {
	markIdx := len(p.marks)
	p.marks = append(p.marks, Mark{})

	elemTagByte, err := p.readByte()
	if err != nil {
		return err
	}
	if !validTag(elemTagByte) && elemTagByte != uint8(TagEnd) {
		return &InvalidTagTypeError{Byte: elemTagByte}
	}
	elemTag := TagID(elemTagByte)

	count, err := p.readU32()
	if err != nil {
		return err
	}

	if elemTag.IsPrimitive() {
		if size, ok := elemTag.FixedSize(); ok {
			if err := p.skip(int(count) * size); err != nil {
				return err
			}
		}
		p.closeMark(markIdx)
		return nil
	}

	p.stack = append(p.stack, frame{kind: frameList, markIdx: markIdx, elemTag: elemTag, remaining: count})
	return nil
}

// closeMark finalizes the mark at markIdx now that everything between it
// and the current end of p.marks describes its subtree.
func (p *parser) closeMark(markIdx int) {
	flatNext := uint32(len(p.marks) - markIdx)
	p.marks[markIdx].close(p.pos, flatNext)
}
