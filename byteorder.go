package nbt

import "encoding/binary"

// ByteOrder selects the wire byte order of an NBT document: big-endian
// for Java Edition, little-endian for Bedrock Edition.
//
// This carries byte order as a runtime value rather than a compile-time
// marker type; the cost is an observable but not contract-relevant
// performance difference against a generics-based design.
type ByteOrder uint8

const (
	BigEndian ByteOrder = iota
	LittleEndian
)

// Std returns the stdlib encoding/binary.ByteOrder matching o.
func (o ByteOrder) Std() binary.ByteOrder {
	if o == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func (o ByteOrder) String() string {
	if o == LittleEndian {
		return "LittleEndian"
	}
	return "BigEndian"
}
