package snapshot

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"svcore/internal/layout"
	"svcore/internal/types"
)

func sampleCatalog(t *testing.T) *types.Catalog {
	t.Helper()
	c := types.NewCatalog(layout.Word32())
	word := types.NewIntegral("word_t", nil, layout.Vector{
		FourState: true,
		Sized:     true,
		Packed:    layout.Ranges(layout.Dim(44, 0)),
	})
	if _, err := c.Declare(word); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	one := int64(1)
	e, err := types.NewEnum("state_t", nil, nil, c.Target(), []types.EnumMemberSpec{
		{Name: "IDLE"},
		{Name: "BUSY", Value: &one},
	})
	if err != nil {
		t.Fatalf("NewEnum: %v", err)
	}
	if _, err := c.Declare(e); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	if _, err := c.Define("state_alias_t", nil, e); err != nil {
		t.Fatalf("Define: %v", err)
	}
	if _, err := c.Forward("later_t", nil, types.KindClass); err != nil {
		t.Fatalf("Forward: %v", err)
	}
	return c
}

func TestBuildListsDeclarations(t *testing.T) {
	s := Build("decls.toml", sampleCatalog(t), Options{})
	if len(s.Entries) != 4 {
		t.Fatalf("entries = %d, want 4", len(s.Entries))
	}
	word, ok := s.Lookup("word_t")
	if !ok {
		t.Fatalf("word_t missing")
	}
	if word.Bits != 45 || word.Words != 4 || !word.FourState {
		t.Fatalf("word_t = %+v", word)
	}
	state, _ := s.Lookup("state_t")
	if state.Base != "int" || len(state.Members) != 2 || state.Members[1].Value != 1 {
		t.Fatalf("state_t = %+v", state)
	}
	alias, _ := s.Lookup("state_alias_t")
	if !alias.Resolved || alias.Alias != "state_t" {
		t.Fatalf("state_alias_t = %+v", alias)
	}
	later, _ := s.Lookup("later_t")
	if later.Resolved || later.Expect != "class" {
		t.Fatalf("later_t = %+v", later)
	}

	all := Build("decls.toml", sampleCatalog(t), Options{IncludeBuiltins: true})
	if b, ok := all.Lookup("longint"); !ok || !b.Builtin || b.Words != 2 {
		t.Fatalf("longint = %+v", b)
	}
}

func TestEncodeDecode(t *testing.T) {
	s := Build("decls.toml", sampleCatalog(t), Options{})
	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Target.WordBits != 32 || len(got.Entries) != len(s.Entries) {
		t.Fatalf("decoded %+v", got)
	}
	if e, _ := got.Lookup("state_t"); len(e.Members) != 2 || e.Members[0].Name != "IDLE" {
		t.Fatalf("members lost: %+v", e)
	}
}

func TestDecodeRejectsOtherSchema(t *testing.T) {
	raw, err := msgpack.Marshal(&Snapshot{Schema: SchemaVersion + 1})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if _, err := Decode(bytes.NewReader(raw)); !errors.Is(err, ErrSchema) {
		t.Fatalf("expected ErrSchema, got %v", err)
	}
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "decls.mp")
	s := Build("decls.toml", sampleCatalog(t), Options{})
	if err := WriteFile(path, s); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got.Source != "decls.toml" {
		t.Fatalf("source = %q", got.Source)
	}
	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(path), "tmp-*"))
	if len(matches) != 0 {
		t.Fatalf("temporary files left behind: %v", matches)
	}
}

func TestEntryKeepsDeclaredEmptyLists(t *testing.T) {
	c := types.NewCatalog(layout.Word64())
	vectors := map[string]layout.Vector{
		"plain_t": {Sized: true},
		"empty_t": {Sized: true, Unpacked: layout.Ranges()},
	}
	for name, v := range vectors {
		if _, err := c.Declare(types.NewIntegral(name, nil, v)); err != nil {
			t.Fatalf("Declare %s: %v", name, err)
		}
	}
	var buf bytes.Buffer
	if err := Encode(&buf, Build("decls.toml", c, Options{})); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for name, want := range vectors {
		e, ok := got.Lookup(name)
		if !ok {
			t.Fatalf("%s missing", name)
		}
		if v := e.Vector(); !v.Equal(want) {
			t.Errorf("%s: Vector() = %+v, want %+v", name, v, want)
		}
	}
	if e, _ := got.Lookup("empty_t"); !e.UnpackedDeclared || e.PackedDeclared {
		t.Fatalf("declared flags = %+v", e)
	}
}
