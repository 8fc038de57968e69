package scanner

import "encoding/binary"

// SerializedSize is the length of an encoded State.
const SerializedSize = 4

// SerializeTo writes s into buf, which must hold SerializedSize bytes, and
// returns the number of bytes written.
//
//	byte 0    InExecutableCell (0/1)
//	byte 1    AtCellStart (0/1)
//	byte 2-3  FenceLength, little-endian
func (s State) SerializeTo(buf []byte) int {
	_ = buf[SerializedSize-1]
	buf[0] = boolByte(s.InExecutableCell)
	buf[1] = boolByte(s.AtCellStart)
	binary.LittleEndian.PutUint16(buf[2:4], s.FenceLength)
	return SerializedSize
}

// Encode returns the 4-byte checkpoint record for s.
func Encode(s State) []byte {
	buf := make([]byte, SerializedSize)
	s.SerializeTo(buf)
	return buf
}

// Decode restores a State from a checkpoint record. Records shorter than
// SerializedSize decode to the zero State; extra trailing bytes are ignored.
func Decode(buf []byte) State {
	if len(buf) < SerializedSize {
		return State{}
	}
	return State{
		InExecutableCell: buf[0] != 0,
		AtCellStart:      buf[1] != 0,
		FenceLength:      binary.LittleEndian.Uint16(buf[2:4]),
	}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
