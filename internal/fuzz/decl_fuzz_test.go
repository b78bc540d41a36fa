package fuzztests

import (
	"testing"

	"svcore/internal/decl"
	"svcore/internal/testkit"
)

const maxFuzzInput = 64 << 10

func FuzzDeclParse(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		if len(input) > maxFuzzInput {
			input = input[:maxFuzzInput]
		}
		res := decl.Parse("fuzz.toml", append([]byte(nil), input...), decl.Options{MaxDiagnostics: 64})
		if res == nil || res.Bag == nil {
			t.Fatalf("Parse returned no result")
		}
		if res.Catalog == nil {
			if !res.Bag.HasErrors() {
				t.Fatalf("no catalog and no error")
			}
			return
		}
		file, ok := res.Files.Get(0)
		if !ok {
			t.Fatalf("file set lost the input")
		}
		if err := testkit.CheckCatalogOrigins(res.Catalog, file); err != nil {
			t.Fatalf("origins: %v", err)
		}
	})
}
