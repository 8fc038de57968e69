package checkpoint

import (
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"

	"qmdscan/internal/scanner"
)

func TestEntryRoundTrip(t *testing.T) {
	st := scanner.State{InExecutableCell: true, AtCellStart: true, FenceLength: 4}
	e := NewEntry(3, 40, st, false)
	if got := e.ScannerState(); got != st {
		t.Fatalf("ScannerState() = %v, want %v", got, st)
	}
	if e.State != [4]byte{1, 1, 4, 0} {
		t.Fatalf("encoded state = %x", e.State)
	}
	moved := e.Shift(-5, 1)
	if moved.Offset != 35 || moved.Line != 4 || !moved.Same(e) {
		t.Fatalf("Shift = %+v", moved)
	}
}

func TestTableLookup(t *testing.T) {
	tbl := Table{Entries: []Entry{
		{Line: 1, Offset: 0},
		{Line: 2, Offset: 10},
		{Line: 4, Offset: 25},
	}}
	if e, ok := tbl.At(10); !ok || e.Line != 2 {
		t.Fatalf("At(10) = %+v, %v", e, ok)
	}
	if _, ok := tbl.At(11); ok {
		t.Fatalf("At(11) should miss")
	}
	if got := tbl.Before(4); got != 1 {
		t.Fatalf("Before(4) = %d, want 1", got)
	}
	if got := tbl.Before(1); got != 0 {
		t.Fatalf("Before(1) = %d, want 0", got)
	}
}

func TestCachePutGet(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	hash := sha256.Sum256([]byte("```{r}\n```\n"))
	tbl := &Table{
		Path: "a.qmd",
		Hash: hash,
		Entries: []Entry{
			NewEntry(1, 0, scanner.State{}, false),
			NewEntry(2, 7, scanner.State{InExecutableCell: true, AtCellStart: true, FenceLength: 3}, false),
		},
	}
	if err := c.Put(tbl); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := c.Get(hash)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got.Path != "a.qmd" || len(got.Entries) != 2 || got.Entries[1] != tbl.Entries[1] {
		t.Fatalf("Get = %+v", got)
	}

	if _, ok, _ := c.Get(sha256.Sum256([]byte("other"))); ok {
		t.Fatalf("unexpected hit for unknown hash")
	}

	if err := c.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if _, ok, _ := c.Get(hash); ok {
		t.Fatalf("hit after DropAll")
	}
}

func TestCacheCorruptEntry(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	hash := sha256.Sum256([]byte("x"))
	p := c.pathFor(hash)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte{0xc1}, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := c.Get(hash); ok || err == nil {
		t.Fatalf("corrupt entry: ok=%v err=%v", ok, err)
	}
}

func TestNilCache(t *testing.T) {
	var c *Cache
	if err := c.Put(&Table{}); err != nil {
		t.Fatalf("nil Put: %v", err)
	}
	if _, ok, err := c.Get([32]byte{}); ok || err != nil {
		t.Fatalf("nil Get: ok=%v err=%v", ok, err)
	}
}
