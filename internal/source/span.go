package source

import (
	"fmt"
)

type Span struct {
	File  FileID
	Start uint32 // inclusive byte offset
	End   uint32 // exclusive byte offset
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Contains reports whether off lies inside the span.
func (s Span) Contains(off uint32) bool {
	return off >= s.Start && off < s.End
}

func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Shift moves the span by delta bytes. Offsets never go below zero.
func (s Span) Shift(delta int64) Span {
	return Span{
		File:  s.File,
		Start: shiftOffset(s.Start, delta),
		End:   shiftOffset(s.End, delta),
	}
}

func shiftOffset(off uint32, delta int64) uint32 {
	v := int64(off) + delta
	if v < 0 {
		return 0
	}
	return uint32(v)
}
