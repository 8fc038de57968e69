package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"qmdscan/internal/diagfmt"
)

func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	var out, errOut bytes.Buffer
	err = newCLI().run(append([]string{"--color", "off"}, args...), &out, &errOut)
	return out.String(), errOut.String(), err
}

func writeDoc(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestStateEncode(t *testing.T) {
	out, _, err := runCLI(t, "state", "encode", "--cell", "--start", "--fence", "3")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if out != "01010300\n" {
		t.Fatalf("encode = %q", out)
	}
}

func TestStateEncodeRejectsInvalid(t *testing.T) {
	if _, _, err := runCLI(t, "state", "encode", "--start"); err == nil {
		t.Fatalf("cell start outside a cell was encoded")
	}
}

func TestStateDecode(t *testing.T) {
	out, _, err := runCLI(t, "state", "decode", "01000500")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out != "{cell=true start=false fence=5}\n" {
		t.Fatalf("decode = %q", out)
	}

	out, errOut, err := runCLI(t, "state", "decode", "0101")
	if err != nil {
		t.Fatalf("decode short: %v", err)
	}
	if out != "{cell=false start=false fence=0}\n" || !strings.Contains(errOut, "shorter than 4 bytes") {
		t.Fatalf("short decode = %q / %q", out, errOut)
	}

	if _, _, err := runCLI(t, "state", "decode", "zz"); err == nil {
		t.Fatalf("bad hex accepted")
	}
}

func TestTokenizeFileJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "doc.qmd", "```{python}\n#| echo: false\nx = 1\n```\n")

	out, _, err := runCLI(t, "tokenize", "--cache=false", "--format", "json", path)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	var toks []diagfmt.TokenOutput
	if err := json.Unmarshal([]byte(out), &toks); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	kinds := make([]string, 0, len(toks))
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	want := "CellBoundary Text Newline ChunkOptionMarker ChunkOption Newline CellContent Newline CellBoundary Newline EOF"
	if got := strings.Join(kinds, " "); got != want {
		t.Fatalf("kinds:\n got %s\nwant %s", got, want)
	}
}

func TestTokenizeFileReportsDiagnostics(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "open.qmd", "```{r}\nx <- 1\n")

	out, errOut, err := runCLI(t, "tokenize", "--cache=false", path)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if !strings.Contains(out, "CellBoundary") {
		t.Fatalf("pretty tokens missing:\n%s", out)
	}
	if !strings.Contains(errOut, "WARNING QMD1001") {
		t.Fatalf("unclosed cell not reported:\n%s", errOut)
	}

	_, errOut, err = runCLI(t, "--quiet", "tokenize", "--cache=false", path)
	if err != nil || errOut != "" {
		t.Fatalf("quiet run: err=%v stderr=%q", err, errOut)
	}
}

func TestTokenizeDirJSON(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.qmd", "Hello\n")
	writeDoc(t, dir, "b.qmd", "```{r}\nx\n```\n")
	writeDoc(t, dir, "notes.txt", "ignored\n")

	out, _, err := runCLI(t, "tokenize", "--cache=false", "--ui", "off", "--format", "json", dir)
	if err != nil {
		t.Fatalf("tokenize dir: %v", err)
	}
	var docs []documentSummary
	if err := json.Unmarshal([]byte(out), &docs); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
	if filepath.Base(docs[0].Path) != "a.qmd" || filepath.Base(docs[1].Path) != "b.qmd" {
		t.Fatalf("paths = %s, %s", docs[0].Path, docs[1].Path)
	}
	if docs[0].Tokens != 3 || docs[1].Final != "{cell=false start=false fence=0}" {
		t.Fatalf("docs = %+v", docs)
	}
}

func TestTokenizeRejectsBadFlags(t *testing.T) {
	if _, _, err := runCLI(t, "tokenize", "--format", "xml", "."); err == nil {
		t.Fatalf("unknown format accepted")
	}
	if _, _, err := runCLI(t, "tokenize", "--ui", "maybe", "."); err == nil {
		t.Fatalf("unknown ui mode accepted")
	}
}

func TestCheckpointsUseCache(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "qmdscan.toml", "[cache]\nenabled = true\ndir = \"cache\"\n")
	path := writeDoc(t, dir, "doc.qmd", "```{python}\nx = 1\n```\n")

	var first, second checkpointsJSON
	for i, dst := range []*checkpointsJSON{&first, &second} {
		out, _, err := runCLI(t, "checkpoints", "--format", "json", path)
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if err := json.Unmarshal([]byte(out), dst); err != nil {
			t.Fatalf("run %d: unmarshal: %v\n%s", i, err, out)
		}
	}
	if first.Cached || !second.Cached {
		t.Fatalf("cached = %t then %t", first.Cached, second.Cached)
	}
	if len(second.Checkpoints) != 3 || second.Checkpoints[1].State != "01010300" {
		t.Fatalf("checkpoints = %+v", second.Checkpoints)
	}
	if _, err := os.Stat(filepath.Join(dir, "cache")); err != nil {
		t.Fatalf("cache directory not created: %v", err)
	}
}

func TestCheckpointsTable(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "doc.qmd", "| a |\n|---|\n| 1 |\n")

	out, _, err := runCLI(t, "checkpoints", "--cache=false", path)
	if err != nil {
		t.Fatalf("checkpoints: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if !strings.HasPrefix(lines[0], "LINE") || len(lines) < 3 {
		t.Fatalf("table:\n%s", out)
	}
}

func TestVersionJSON(t *testing.T) {
	out, _, err := runCLI(t, "version", "--format", "json", "--full")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Tool != "qmdscan" || payload.Language != "quarto" || len(payload.Externals) != 3 {
		t.Fatalf("payload = %+v", payload)
	}
	if payload.GitCommit != "unknown" {
		t.Fatalf("git commit = %q", payload.GitCommit)
	}
}

func TestProfilingFlags(t *testing.T) {
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.pprof")
	heap := filepath.Join(dir, "heap.pprof")
	if _, _, err := runCLI(t, "--cpuprofile", cpu, "--memprofile", heap, "state", "encode"); err != nil {
		t.Fatalf("encode with profiling: %v", err)
	}
	for _, p := range []string{cpu, heap} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("profile %s not written: %v", p, err)
		}
	}
}
