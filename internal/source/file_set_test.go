package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("test.sv", []byte("module a;"), 0)
	id2 := fs.Add("test.sv", []byte("module b;"), 0)
	if id1 == id2 {
		t.Fatal("each Add must allocate a new FileID")
	}
	latest, ok := fs.GetLatest("test.sv")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d,%v, want %d", latest, ok, id2)
	}
	f1, ok := fs.Get(id1)
	if !ok || string(f1.Content) != "module a;" {
		t.Fatalf("old version must stay reachable, got %+v", f1)
	}
	if _, ok := fs.Get(FileID(42)); ok {
		t.Fatal("unknown id must not resolve")
	}
}

func TestFileSetOrigin(t *testing.T) {
	fs := NewFileSet()
	content := []byte("typedef enum {A, B} e_t;\nlogic [7:0] data;\n")
	id := fs.AddVirtual("top.sv", content)

	tests := []struct {
		name string
		span Span
		want Origin
	}{
		{
			name: "first line word",
			span: Span{File: id, Start: 0, End: 7},
			want: Origin{Path: "top.sv", BeginLine: 1, BeginColumn: 1, EndLine: 1, EndColumn: 7},
		},
		{
			name: "second line declaration",
			span: Span{File: id, Start: 25, End: 42},
			want: Origin{Path: "top.sv", BeginLine: 2, BeginColumn: 1, EndLine: 2, EndColumn: 17},
		},
		{
			name: "across lines",
			span: Span{File: id, Start: 15, End: 30},
			want: Origin{Path: "top.sv", BeginLine: 1, BeginColumn: 16, EndLine: 2, EndColumn: 5},
		},
		{
			name: "empty span",
			span: Span{File: id, Start: 25, End: 25},
			want: Origin{Path: "top.sv", BeginLine: 2, BeginColumn: 1, EndLine: 2, EndColumn: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fs.Origin(tt.span)
			if err != nil {
				t.Fatalf("Origin: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Origin(%s) = %+v, want %+v", tt.span, got, tt.want)
			}
		})
	}

	if _, err := fs.Origin(Span{File: id, Start: 0, End: 500}); err == nil {
		t.Fatal("span past the end of file must fail")
	}
	if _, err := fs.Origin(Span{File: 9, Start: 0, End: 1}); err == nil {
		t.Fatal("span in unknown file must fail")
	}
}

func TestFileSetLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.sv")
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("bit a;\r\nbit b;\r\n")...)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	f, _ := fs.Get(id)
	if string(f.Content) != "bit a;\nbit b;\n" {
		t.Fatalf("content not normalized: %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags = %b, want BOM and CRLF bits", f.Flags)
	}
	if got := f.GetLine(2); got != "bit b;" {
		t.Fatalf("GetLine(2) = %q", got)
	}
	if got := f.GetLine(9); got != "" {
		t.Fatalf("GetLine(9) = %q, want empty", got)
	}
}
