package fuzztests

import (
	"context"
	"testing"

	"qmdscan/internal/driver"
	"qmdscan/internal/lexer"
	"qmdscan/internal/scanner"
	"qmdscan/internal/source"
	"qmdscan/internal/testkit"
	"qmdscan/internal/token"
)

const maxFuzzInput = 1 << 14 // 16 KiB; FuzzScanner is quadratic in input size

func clampInput(input []byte, limit int) []byte {
	if len(input) > limit {
		return append([]byte(nil), input[:limit]...)
	}
	return append([]byte(nil), input...)
}

// FuzzScanner runs every candidate subset from every offset, starting from
// each reachable state, and checks the resulting states.
func FuzzScanner(f *testing.F) {
	addCorpusSeeds(f)
	starts := []scanner.State{
		{},
		{InExecutableCell: true, AtCellStart: true, FenceLength: 3},
		{InExecutableCell: true, FenceLength: 4},
	}
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input, 1<<10)
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.qmd", input))
		cur := lexer.NewCursor(file)

		for off := 0; off <= len(input); off++ {
			for mask := token.Set(0); mask < 1<<3; mask++ {
				var valid token.Set
				for i, k := range token.ExternalKinds {
					if mask&(1<<i) != 0 {
						valid = valid.With(k)
					}
				}
				for _, st := range starts {
					cur.Begin(uint32(off)) //nolint:gosec // bounded by clampInput
					next, kind, ok := scanner.Scan(st, &cur, valid)
					if ok && !valid.Has(kind) {
						t.Fatalf("off %d: matched %s outside %s", off, kind, valid)
					}
					if !ok && kind != token.Invalid {
						t.Fatalf("off %d: failed scan reported %s", off, kind)
					}
					if err := testkit.CheckStateInvariants(next); err != nil {
						t.Fatalf("off %d from %v with %s: %v", off, st, valid, err)
					}
					if ok {
						sp := cur.TokenSpan()
						if sp.Start < uint32(off) || sp.End > uint32(len(input)) { //nolint:gosec // bounded by clampInput
							t.Fatalf("off %d: token span %v out of range", off, sp)
						}
					}
				}
			}
		}
	})
}

// FuzzDriver tokenizes arbitrary documents and checks the token stream and
// checkpoints, then relexes after deleting the first half.
func FuzzDriver(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input, maxFuzzInput)
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.qmd", input))

		s := driver.NewSession(fs, file, driver.Options{MaxDiagnostics: 64})
		if err := s.Run(context.Background()); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if err := testkit.CheckTokenInvariants(s.Tokens(), s.File()); err != nil {
			t.Fatalf("tokens: %v", err)
		}
		if err := testkit.CheckCheckpoints(s.Checkpoints(), s.File()); err != nil {
			t.Fatalf("checkpoints: %v", err)
		}

		half := uint32(len(input) / 2) //nolint:gosec // bounded by clampInput
		if _, err := s.Relex(context.Background(), driver.Edit{Start: 0, End: half}); err != nil {
			t.Fatalf("Relex: %v", err)
		}
		if err := testkit.CheckTokenInvariants(s.Tokens(), s.File()); err != nil {
			t.Fatalf("tokens after relex: %v", err)
		}
		if err := testkit.CheckCheckpoints(s.Checkpoints(), s.File()); err != nil {
			t.Fatalf("checkpoints after relex: %v", err)
		}
	})
}
