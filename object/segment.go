package object

import (
	"encoding/binary"
)

// segment is one type's window into an instance or class state block.
// Field offsets are relative to the start of the window.
type segment struct {
	block  *[]byte
	offset int // Start of the window.
	size   int // Bytes in the window.
	extent int // Bytes from the block start to the end of the window.
}

func (seg segment) data() []byte {
	data := *seg.block
	if data == nil {
		panic(ErrUseAfterFree)
	}

	return data
}

// Offset is the byte offset of the segment within its block.
func (seg segment) Offset() int {
	return seg.offset
}

// Size is the number of bytes in the segment.
func (seg segment) Size() int {
	return seg.size
}

// State returns the segment's own bytes.
func (seg segment) State() []byte {
	end := seg.offset + seg.size
	return seg.data()[seg.offset:end:end]
}

// Bytes returns the block from its start to the end of the segment. This is
// the whole layout of the viewed type, its ancestors included.
func (seg segment) Bytes() []byte {
	return seg.data()[:seg.extent:seg.extent]
}

func (seg segment) Uint8(off int) uint8 {
	return seg.State()[off]
}

func (seg segment) SetUint8(off int, value uint8) {
	seg.State()[off] = value
}

func (seg segment) Uint16(off int) uint16 {
	return binary.LittleEndian.Uint16(seg.State()[off:])
}

func (seg segment) SetUint16(off int, value uint16) {
	binary.LittleEndian.PutUint16(seg.State()[off:], value)
}

func (seg segment) Uint32(off int) uint32 {
	return binary.LittleEndian.Uint32(seg.State()[off:])
}

func (seg segment) SetUint32(off int, value uint32) {
	binary.LittleEndian.PutUint32(seg.State()[off:], value)
}

func (seg segment) Uint64(off int) uint64 {
	return binary.LittleEndian.Uint64(seg.State()[off:])
}

func (seg segment) SetUint64(off int, value uint64) {
	binary.LittleEndian.PutUint64(seg.State()[off:], value)
}
