package nbt

import (
	"fmt"
	"strconv"
	"strings"
)

// DebugString returns a human-readable recursive dump of v, for
// interactive use (debuggers, test failure messages), not wired into
// any hot path.
func (v View) DebugString() string {
	var b strings.Builder
	dumpView(&b, v, "", 0)
	return b.String()
}

func dumpView(b *strings.Builder, v View, name string, level int) {
	indent := strings.Repeat("  ", level)
	label := name
	if label != "" {
		label += ": "
	}

	switch v.tag {
	case TagCompound:
		fmt.Fprintf(b, "%s%sCompound {\n", indent, label)
		for it := v.CompoundIter(); it.Next(); {
			dumpView(b, it.Value(), string(it.Name()), level+1)
		}
		fmt.Fprintf(b, "%s}\n", indent)
	case TagList:
		fmt.Fprintf(b, "%s%sList<%s>[%d] [\n", indent, label, v.ElementTag(), v.listCount())
		for it := v.Iter(); it.Next(); {
			dumpView(b, it.Value(), "", level+1)
		}
		fmt.Fprintf(b, "%s]\n", indent)
	default:
		fmt.Fprintf(b, "%s%s%s\n", indent, label, dumpScalarView(v))
	}
}

func dumpScalarView(v View) string {
	switch v.tag {
	case TagByte:
		n, _ := v.AsByte()
		return "Byte(" + strconv.Itoa(int(n)) + ")"
	case TagShort:
		n, _ := v.AsShort()
		return "Short(" + strconv.Itoa(int(n)) + ")"
	case TagInt:
		n, _ := v.AsInt()
		return "Int(" + strconv.Itoa(int(n)) + ")"
	case TagLong:
		n, _ := v.AsLong()
		return "Long(" + strconv.FormatInt(n, 10) + ")"
	case TagFloat:
		n, _ := v.AsFloat()
		return "Float(" + strconv.FormatFloat(float64(n), 'g', -1, 32) + ")"
	case TagDouble:
		n, _ := v.AsDouble()
		return "Double(" + strconv.FormatFloat(n, 'g', -1, 64) + ")"
	case TagString:
		return "String(" + strconv.Quote(v.Decode()) + ")"
	case TagByteArray:
		n, _ := v.Int8s()
		return fmt.Sprintf("ByteArray[%d]", len(n))
	case TagIntArray:
		n, _ := v.Int32s()
		return fmt.Sprintf("IntArray[%d]", len(n))
	case TagLongArray:
		n, _ := v.Int64s()
		return fmt.Sprintf("LongArray[%d]", len(n))
	default:
		return v.tag.String()
	}
}

// DebugString returns a human-readable recursive dump of an OwnedValue.
func (v *OwnedValue) DebugString() string {
	var b strings.Builder
	dumpOwned(&b, v, "", 0)
	return b.String()
}

func dumpOwned(b *strings.Builder, v *OwnedValue, name string, level int) {
	indent := strings.Repeat("  ", level)
	label := name
	if label != "" {
		label += ": "
	}

	switch v.tag {
	case TagCompound:
		fmt.Fprintf(b, "%s%sCompound {\n", indent, label)
		v.compnd.Iter(func(name string, child *OwnedValue) bool {
			dumpOwned(b, child, name, level+1)
			return true
		})
		fmt.Fprintf(b, "%s}\n", indent)
	case TagList:
		fmt.Fprintf(b, "%s%sList<%s>[%d] [\n", indent, label, v.list.ElementTag(), v.list.Len())
		v.list.Iter(func(item *OwnedValue) bool {
			dumpOwned(b, item, "", level+1)
			return true
		})
		fmt.Fprintf(b, "%s]\n", indent)
	default:
		fmt.Fprintf(b, "%s%s%s\n", indent, label, dumpScalarOwned(v))
	}
}

func dumpScalarOwned(v *OwnedValue) string {
	switch v.tag {
	case TagByte:
		n, _ := v.AsByte()
		return "Byte(" + strconv.Itoa(int(n)) + ")"
	case TagShort:
		n, _ := v.AsShort()
		return "Short(" + strconv.Itoa(int(n)) + ")"
	case TagInt:
		n, _ := v.AsInt()
		return "Int(" + strconv.Itoa(int(n)) + ")"
	case TagLong:
		n, _ := v.AsLong()
		return "Long(" + strconv.FormatInt(n, 10) + ")"
	case TagFloat:
		n, _ := v.AsFloat()
		return "Float(" + strconv.FormatFloat(float64(n), 'g', -1, 32) + ")"
	case TagDouble:
		n, _ := v.AsDouble()
		return "Double(" + strconv.FormatFloat(n, 'g', -1, 64) + ")"
	case TagString:
		s, _ := v.AsString()
		return "String(" + strconv.Quote(s) + ")"
	case TagByteArray:
		return fmt.Sprintf("ByteArray[%d]", len(v.raw))
	case TagIntArray:
		return fmt.Sprintf("IntArray[%d]", len(v.ints))
	case TagLongArray:
		return fmt.Sprintf("LongArray[%d]", len(v.longs))
	default:
		return v.tag.String()
	}
}
