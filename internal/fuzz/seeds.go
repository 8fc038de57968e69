package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB
)

var inlineSeeds = []string{
	"",
	"```{python}\n#| label: x\n#| echo: false\nprint(1)\n```\n",
	"````{r}\n```\n````\n",
	"| a | b |\n|---|---|\n| 1 | 2 |\n",
	"| a |\n\n",
	"```{r}\r\n#| echo: false\r\n```\r\n",
	"```{r}\rx\r```\r",
	"   ```{ojs}\n   #| echo: true\n   ```\n",
	"#| outside\n```\n`\n``\n",
	"|:-:|\n|\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// Walk errors only shrink the corpus.
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error { //nolint:errcheck
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".qmd" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
