package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10

var declSeeds = []string{
	"",
	"[target]\nname = \"ilp32\"\n",
	"[[integral]]\nname = \"word_t\"\npacked = [[31, 0]]\n",
	"[[integral]]\nname = \"mem_t\"\nfour_state = true\npacked = [[7, 0]]\nunpacked = [[0, 15]]\n",
	"[[enum]]\nname = \"state_t\"\nbase = \"int\"\n[[enum.member]]\nname = \"A\"\n[[enum.member]]\nname = \"B\"\nvalue = 5\n",
	"[[typedef]]\nname = \"fwd_t\"\nkind = \"class\"\n",
	"[[typedef]]\nname = \"a_t\"\ntarget = \"b_t\"\n[[typedef]]\nname = \"b_t\"\ntarget = \"a_t\"\n",
	"[[real]]\nname = \"r_t\"\nprecision = \"short\"\n",
	"[[integral]]\nname = \"huge\"\npacked = [[9223372036854775807, -9223372036854775808]]\n",
	"[[integral]\nname = ",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range declSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".toml" {
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
	if len(src) > maxSeedBytes {
		src = src[:maxSeedBytes]
	}
	return append([]byte(nil), src...)
}
