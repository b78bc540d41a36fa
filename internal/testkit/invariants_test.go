package testkit

import (
	"testing"

	"svcore/internal/layout"
	"svcore/internal/source"
	"svcore/internal/types"
)

func TestCheckShapeInvariants(t *testing.T) {
	v := layout.Vector{
		FourState: true,
		Sized:     true,
		Packed:    layout.Ranges(layout.Dim(3, 0), layout.Dim(40, 0)),
		Unpacked:  layout.Ranges(layout.Dim(0, 2)),
	}
	s, err := layout.Compute(layout.Word32(), v)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if err := CheckShapeInvariants(s); err != nil {
		t.Fatalf("valid shape rejected: %v", err)
	}
	s.TotalWords++
	if err := CheckShapeInvariants(s); err == nil {
		t.Fatalf("corrupted shape accepted")
	}
}

func TestCheckCatalogOrigins(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("decls.toml", []byte("a\nb\n"))
	f, _ := fs.Get(id)

	c := types.NewCatalog(layout.Word64())
	inside, _ := source.NewOrigin("decls.toml", 2, 1, 2, 2)
	if _, err := c.Declare(types.NewEvent("ok_e", &inside)); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	elsewhere, _ := source.NewOrigin("other.sv", 90, 1, 90, 4)
	if _, err := c.Declare(types.NewEvent("far_e", &elsewhere)); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	if err := CheckCatalogOrigins(c, f); err != nil {
		t.Fatalf("valid origins rejected: %v", err)
	}

	beyond, _ := source.NewOrigin("decls.toml", 9, 1, 9, 2)
	if _, err := c.Declare(types.NewEvent("bad_e", &beyond)); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	if err := CheckCatalogOrigins(c, f); err == nil {
		t.Fatalf("origin beyond the file accepted")
	}
}
