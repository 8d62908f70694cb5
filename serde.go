package nbt

import "reflect"

// IntArray and LongArray let a caller opt a slice into NBT's flat
// IntArray/LongArray payload instead of the default List-of-Int /
// List-of-Long encoding, matched by reflect.Type identity against the
// field's declared type.
type IntArray []int32
type LongArray []int64

// Enum lets a Go value control its own NBT encoding: a unit variant
// becomes its discriminant (Int); any other variant becomes a
// single-entry Compound keyed by the variant name, wrapping payload's
// own encoding.
type Enum interface {
	EnumTag() (variant string, discriminant int32, payload interface{}, isUnit bool)
}

var (
	intArrayType  = reflect.TypeOf(IntArray(nil))
	longArrayType = reflect.TypeOf(LongArray(nil))
	byteSliceType = reflect.TypeOf([]byte(nil))
)

// Marshal converts a Go value into the mutable tree.
func Marshal(v interface{}) (*OwnedValue, error) {
	return marshalValue(reflect.ValueOf(v))
}

func marshalValue(rv reflect.Value) (*OwnedValue, error) {
	if !rv.IsValid() {
		return NewOwnedCompound(NewOwnedCompoundNode()), nil
	}

	if en, ok := rv.Interface().(Enum); ok {
		return marshalEnum(en)
	}

	switch rv.Kind() {
	case reflect.Pointer:
		return marshalOption(rv)
	case reflect.Bool:
		n := int8(0)
		if rv.Bool() {
			n = 1
		}
		return NewOwnedByte(n), nil
	case reflect.Int8:
		return NewOwnedByte(int8(rv.Int())), nil
	case reflect.Uint8:
		return NewOwnedByte(int8(rv.Uint())), nil
	case reflect.Int16:
		return NewOwnedShort(int16(rv.Int())), nil
	case reflect.Uint16:
		return NewOwnedShort(int16(rv.Uint())), nil
	case reflect.Int32:
		return NewOwnedInt(int32(rv.Int())), nil
	case reflect.Uint32:
		return NewOwnedInt(int32(rv.Uint())), nil
	case reflect.Int, reflect.Int64:
		return NewOwnedLong(rv.Int()), nil
	case reflect.Uint, reflect.Uint64:
		return NewOwnedLong(int64(rv.Uint())), nil
	case reflect.Float32:
		return NewOwnedFloat(float32(rv.Float())), nil
	case reflect.Float64:
		return NewOwnedDouble(rv.Float()), nil
	case reflect.String:
		return NewOwnedString(rv.String()), nil
	case reflect.Slice, reflect.Array:
		return marshalSequence(rv)
	case reflect.Map:
		return marshalMap(rv)
	case reflect.Struct:
		return marshalStruct(rv)
	default:
		return nil, &InvalidTagTypeError{Byte: 0}
	}
}

func marshalOption(rv reflect.Value) (*OwnedValue, error) {
	if rv.IsNil() {
		return NewOwnedCompound(NewOwnedCompoundNode()), nil
	}
	inner, err := marshalValue(rv.Elem())
	if err != nil {
		return nil, err
	}
	c := NewOwnedCompoundNode()
	c.Insert("", inner)
	return NewOwnedCompound(c), nil
}

func marshalEnum(en Enum) (*OwnedValue, error) {
	variant, discriminant, payload, isUnit := en.EnumTag()
	if isUnit {
		return NewOwnedInt(discriminant), nil
	}
	inner, err := marshalValue(reflect.ValueOf(payload))
	if err != nil {
		return nil, err
	}
	c := NewOwnedCompoundNode()
	c.Insert(variant, inner)
	return NewOwnedCompound(c), nil
}

func marshalSequence(rv reflect.Value) (*OwnedValue, error) {
	if rv.Type() == byteSliceType {
		return NewOwnedByteArray(int8SliceFromBytes(rv.Bytes())), nil
	}
	if rv.Type() == intArrayType {
		return NewOwnedIntArray(rv.Interface().(IntArray)), nil
	}
	if rv.Type() == longArrayType {
		return NewOwnedLongArray(rv.Interface().(LongArray)), nil
	}

	n := rv.Len()
	if n > int(^uint32(0)) {
		return nil, &ListTooLongError{N: n}
	}

	l := NewOwnedListNode()
	for i := 0; i < n; i++ {
		elem, err := marshalValue(rv.Index(i))
		if err != nil {
			return nil, err
		}
		if i > 0 && elem.tag != l.elemTag {
			return nil, &TagMismatchError{Want: l.elemTag, Got: elem.tag}
		}
		l.Push(elem)
	}
	return NewOwnedList(l), nil
}

func marshalMap(rv reflect.Value) (*OwnedValue, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return nil, ErrNonStringKey
	}
	c := NewOwnedCompoundNode()
	iter := rv.MapRange()
	for iter.Next() {
		key := iter.Key().String()
		if n := len(Encode(key)); n > 0xFFFF {
			return nil, &KeyTooLongError{Len: n}
		}
		val, err := marshalValue(iter.Value())
		if err != nil {
			return nil, err
		}
		c.Insert(key, val)
	}
	return NewOwnedCompound(c), nil
}

func marshalStruct(rv reflect.Value) (*OwnedValue, error) {
	t := rv.Type()
	c := NewOwnedCompoundNode()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if tag, ok := field.Tag.Lookup("nbt"); ok && tag != "" {
			name = tag
		}
		if n := len(Encode(name)); n > 0xFFFF {
			return nil, &KeyTooLongError{Len: n}
		}
		val, err := marshalValue(rv.Field(i))
		if err != nil {
			return nil, err
		}
		c.Insert(name, val)
	}
	return NewOwnedCompound(c), nil
}

func int8SliceFromBytes(b []byte) []int8 {
	out := make([]int8, len(b))
	for i, x := range b {
		out[i] = int8(x)
	}
	return out
}

// ToVecBE serializes v as a big-endian root-form document.
func ToVecBE[T any](v T) ([]byte, error) {
	return toVec(BigEndian, v)
}

// ToVecLE serializes v as a little-endian root-form document.
func ToVecLE[T any](v T) ([]byte, error) {
	return toVec(LittleEndian, v)
}

func toVec[T any](order ByteOrder, v T) ([]byte, error) {
	owned, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	defer owned.Release()
	return WriteOwnedTo(order, owned), nil
}

// FromSliceBE deserializes a big-endian root-form document into a T.
func FromSliceBE[T any](b []byte) (T, error) {
	return fromSlice[T](BigEndian, b)
}

// FromSliceLE deserializes a little-endian root-form document into a T.
func FromSliceLE[T any](b []byte) (T, error) {
	return fromSlice[T](LittleEndian, b)
}

func fromSlice[T any](order ByteOrder, b []byte) (T, error) {
	var zero T
	doc, err := ReadOwnedBuffer(order, b)
	if err != nil {
		return zero, err
	}
	owned := OwnedFromView(doc.Root())
	defer owned.Release()

	out := reflect.New(reflect.TypeOf(zero))
	if err := unmarshalInto(owned, out.Elem()); err != nil {
		return zero, err
	}
	return out.Elem().Interface().(T), nil
}

func unmarshalInto(v *OwnedValue, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Bool:
		n, _ := v.AsByte()
		rv.SetBool(n != 0)
	case reflect.Int8:
		n, _ := v.AsByte()
		rv.SetInt(int64(n))
	case reflect.Uint8:
		n, _ := v.AsByte()
		rv.SetUint(uint64(uint8(n)))
	case reflect.Int16:
		n, _ := v.AsShort()
		rv.SetInt(int64(n))
	case reflect.Uint16:
		n, _ := v.AsShort()
		rv.SetUint(uint64(uint16(n)))
	case reflect.Int32:
		n, _ := v.AsInt()
		rv.SetInt(int64(n))
	case reflect.Uint32:
		n, _ := v.AsInt()
		rv.SetUint(uint64(uint32(n)))
	case reflect.Int, reflect.Int64:
		n, _ := v.AsLong()
		rv.SetInt(n)
	case reflect.Uint, reflect.Uint64:
		n, _ := v.AsLong()
		rv.SetUint(uint64(n))
	case reflect.Float32:
		n, _ := v.AsFloat()
		rv.SetFloat(float64(n))
	case reflect.Float64:
		n, _ := v.AsDouble()
		rv.SetFloat(n)
	case reflect.String:
		s, _ := v.AsString()
		rv.SetString(s)
	case reflect.Slice:
		return unmarshalSlice(v, rv)
	case reflect.Map:
		return unmarshalMap(v, rv)
	case reflect.Struct:
		return unmarshalStruct(v, rv)
	case reflect.Pointer:
		return unmarshalOption(v, rv)
	}
	return nil
}

func unmarshalSlice(v *OwnedValue, rv reflect.Value) error {
	switch rv.Type() {
	case byteSliceType:
		b, _ := v.AsByteArray()
		rv.SetBytes(bytesFromInt8Slice(b))
		return nil
	case intArrayType:
		n, _ := v.AsIntArray()
		rv.Set(reflect.ValueOf(IntArray(append([]int32(nil), n...))))
		return nil
	case longArrayType:
		n, _ := v.AsLongArray()
		rv.Set(reflect.ValueOf(LongArray(append([]int64(nil), n...))))
		return nil
	}

	list, _ := v.AsList()
	if list == nil {
		return nil
	}
	out := reflect.MakeSlice(rv.Type(), list.Len(), list.Len())
	for i := 0; i < list.Len(); i++ {
		if err := unmarshalInto(list.Get(i), out.Index(i)); err != nil {
			return err
		}
	}
	rv.Set(out)
	return nil
}

func unmarshalMap(v *OwnedValue, rv reflect.Value) error {
	if rv.Type().Key().Kind() != reflect.String {
		return ErrNonStringKey
	}
	compnd, _ := v.AsCompound()
	out := reflect.MakeMap(rv.Type())
	if compnd != nil {
		var outerErr error
		compnd.Iter(func(name string, child *OwnedValue) bool {
			elem := reflect.New(rv.Type().Elem()).Elem()
			if err := unmarshalInto(child, elem); err != nil {
				outerErr = err
				return false
			}
			out.SetMapIndex(reflect.ValueOf(name), elem)
			return true
		})
		if outerErr != nil {
			return outerErr
		}
	}
	rv.Set(out)
	return nil
}

func unmarshalStruct(v *OwnedValue, rv reflect.Value) error {
	compnd, ok := v.AsCompound()
	if !ok {
		return nil
	}
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if tag, ok := field.Tag.Lookup("nbt"); ok && tag != "" {
			name = tag
		}
		child, ok := compnd.Get(name)
		if !ok {
			continue
		}
		if err := unmarshalInto(child, rv.Field(i)); err != nil {
			return err
		}
	}
	return nil
}

func unmarshalOption(v *OwnedValue, rv reflect.Value) error {
	compnd, ok := v.AsCompound()
	if !ok || compnd.Len() == 0 {
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	}
	inner, ok := compnd.Get("")
	if !ok {
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	}
	elemType := rv.Type().Elem()
	out := reflect.New(elemType)
	if err := unmarshalInto(inner, out.Elem()); err != nil {
		return err
	}
	rv.Set(out)
	return nil
}

func bytesFromInt8Slice(b []int8) []byte {
	out := make([]byte, len(b))
	for i, x := range b {
		out[i] = byte(x)
	}
	return out
}

