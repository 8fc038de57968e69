package scanner_test

import (
	"bytes"
	"testing"

	"qmdscan/internal/scanner"
)

func reachableStates() []scanner.State {
	states := []scanner.State{{}}
	for _, n := range []uint16{3, 4, 7, 255, 256, 1000, 65535} {
		states = append(states,
			scanner.State{InExecutableCell: true, AtCellStart: true, FenceLength: n},
			scanner.State{InExecutableCell: true, FenceLength: n},
		)
	}
	return states
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	for _, st := range reachableStates() {
		if got := scanner.Decode(scanner.Encode(st)); got != st {
			t.Fatalf("Decode(Encode(%v)) = %v", st, got)
		}
		if err := st.Validate(); err != nil {
			t.Fatalf("reachable state rejected: %v", err)
		}
	}
}

func TestEncodeDecodeRecords(t *testing.T) {
	records := [][]byte{
		{0, 0, 0, 0},
		{1, 1, 3, 0},
		{1, 0, 0x34, 0x12},
		{0, 1, 0xff, 0xff},
	}
	for _, rec := range records {
		if got := scanner.Encode(scanner.Decode(rec)); !bytes.Equal(got, rec) {
			t.Fatalf("Encode(Decode(%v)) = %v", rec, got)
		}
	}
}

func TestEncodeLayout(t *testing.T) {
	st := scanner.State{InExecutableCell: true, AtCellStart: false, FenceLength: 0x0104}
	want := []byte{1, 0, 0x04, 0x01}
	if got := scanner.Encode(st); !bytes.Equal(got, want) {
		t.Fatalf("Encode = %v, want %v", got, want)
	}

	buf := make([]byte, 8)
	if n := st.SerializeTo(buf); n != scanner.SerializedSize {
		t.Fatalf("SerializeTo wrote %d bytes", n)
	}
	if !bytes.Equal(buf[:4], want) {
		t.Fatalf("SerializeTo = %v", buf[:4])
	}
}

func TestDecodeShortBufferIsZero(t *testing.T) {
	inputs := [][]byte{nil, {}, {1}, {1, 1}, {1, 1, 9}, {0xff, 0xff, 0xff}}
	for _, in := range inputs {
		if got := scanner.Decode(in); !got.IsZero() {
			t.Fatalf("Decode(%v) = %v, want zero state", in, got)
		}
	}
}

func TestDecodeNonZeroBytesAreTrue(t *testing.T) {
	got := scanner.Decode([]byte{7, 2, 5, 0, 0xAA})
	want := scanner.State{InExecutableCell: true, AtCellStart: true, FenceLength: 5}
	if got != want {
		t.Fatalf("Decode = %v, want %v", got, want)
	}
}

func TestScannerSerializeDeserialize(t *testing.T) {
	s := scanner.New()
	s.Deserialize([]byte{1, 1, 4, 0})
	if want := (scanner.State{InExecutableCell: true, AtCellStart: true, FenceLength: 4}); s.State() != want {
		t.Fatalf("Deserialize: got %v", s.State())
	}
	buf := make([]byte, scanner.SerializedSize)
	s.Serialize(buf)
	if !bytes.Equal(buf, []byte{1, 1, 4, 0}) {
		t.Fatalf("Serialize = %v", buf)
	}
	s.Deserialize([]byte{1})
	if !s.State().IsZero() {
		t.Fatalf("short checkpoint must reset the scanner")
	}
}

func TestValidateRejectsBrokenStates(t *testing.T) {
	bad := []scanner.State{
		{AtCellStart: true},
		{InExecutableCell: true},
		{FenceLength: 3},
		{InExecutableCell: true, FenceLength: 2},
	}
	for _, st := range bad {
		if err := st.Validate(); err == nil {
			t.Fatalf("expected %v to be invalid", st)
		}
	}
}
