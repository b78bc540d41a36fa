// Package snapshot serializes a flattened listing of a type catalog with
// msgpack. Tools use it to cache the result of loading declaration files;
// it is not an interchange format for values.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"svcore/internal/layout"
	"svcore/internal/types"
)

// SchemaVersion is bumped whenever Snapshot changes shape.
const SchemaVersion uint16 = 1

// ErrSchema reports a snapshot written by an incompatible version.
var ErrSchema = errors.New("snapshot: schema version mismatch")

// Snapshot is the listing of one catalog.
type Snapshot struct {
	Schema  uint16
	Source  string
	Target  Target
	Entries []Entry
}

// Target mirrors layout.Target.
type Target struct {
	Name     string
	WordBits int
	PtrBytes int
}

// Range is one declared dimension.
type Range struct {
	Left  int64
	Right int64
}

// Member is one enum member.
type Member struct {
	Name  string
	Value int64
}

// Entry describes a catalog slot. Fields that do not apply to the entry's
// kind stay at their zero value and are omitted on the wire.
type Entry struct {
	ID     uint32
	Name   string
	Kind   string
	Origin string `msgpack:",omitempty"`

	FourState bool    `msgpack:",omitempty"`
	Signed    bool    `msgpack:",omitempty"`
	Sized     bool    `msgpack:",omitempty"`
	Packed    []Range `msgpack:",omitempty"`
	Unpacked  []Range `msgpack:",omitempty"`
	Bits      uint64  `msgpack:",omitempty"`
	Words     int     `msgpack:",omitempty"`

	// A declared list may be empty; the flags keep it apart from no list.
	PackedDeclared   bool `msgpack:",omitempty"`
	UnpackedDeclared bool `msgpack:",omitempty"`

	Precision string   `msgpack:",omitempty"`
	Base      string   `msgpack:",omitempty"`
	Members   []Member `msgpack:",omitempty"`

	// Typedef state: Alias names the resolved target, Expect the kind a
	// forward declaration promised.
	Resolved bool   `msgpack:",omitempty"`
	Alias    string `msgpack:",omitempty"`
	Expect   string `msgpack:",omitempty"`

	Builtin bool `msgpack:",omitempty"`
}

// Options selects what Build includes.
type Options struct {
	IncludeBuiltins bool
}

// Build lists c in declaration order.
func Build(source string, c *types.Catalog, opts Options) *Snapshot {
	t := c.Target()
	s := &Snapshot{
		Schema: SchemaVersion,
		Source: source,
		Target: Target{Name: t.Name, WordBits: t.WordBits, PtrBytes: t.PtrBytes},
	}
	for id, entry := range c.Entries() {
		builtin := c.IsBuiltin(id)
		if builtin && !opts.IncludeBuiltins {
			continue
		}
		e := types.Visit[Entry](entry, lister{target: t})
		e.ID = uint32(id)
		e.Name = entry.Name()
		e.Kind = entry.Kind().String()
		e.Builtin = builtin
		if o := entry.Origin(); o != nil {
			e.Origin = o.String()
		}
		s.Entries = append(s.Entries, e)
	}
	return s
}

// Lookup returns the entry named name.
func (s *Snapshot) Lookup(name string) (Entry, bool) {
	for _, e := range s.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Encode writes s to w.
func Encode(w io.Writer, s *Snapshot) error {
	return msgpack.NewEncoder(w).Encode(s)
}

// Decode reads a snapshot and checks its schema version.
func Decode(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return nil, err
	}
	if s.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchema, s.Schema, SchemaVersion)
	}
	return &s, nil
}

// WriteFile stores s at path, replacing any previous file atomically.
func WriteFile(path string, s *Snapshot) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()
	if err = Encode(f, s); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// ReadFile loads a snapshot written by WriteFile.
func ReadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Vector rebuilds the layout vector of an integral or enum entry.
func (e Entry) Vector() layout.Vector {
	v := layout.Vector{FourState: e.FourState, Signed: e.Signed, Sized: e.Sized}
	if e.PackedDeclared || len(e.Packed) > 0 {
		v.Packed = layout.Ranges(dims(e.Packed)...)
	}
	if e.UnpackedDeclared || len(e.Unpacked) > 0 {
		v.Unpacked = layout.Ranges(dims(e.Unpacked)...)
	}
	return v
}

func dims(rs []Range) []layout.Dimension {
	out := make([]layout.Dimension, len(rs))
	for i, r := range rs {
		out[i] = layout.Dim(r.Left, r.Right)
	}
	return out
}

type lister struct {
	target layout.Target
}

func ranges(d layout.Dimensions) []Range {
	if d.Len() == 0 {
		return nil
	}
	out := make([]Range, 0, d.Len())
	for _, r := range d.List() {
		out = append(out, Range{Left: r.Left, Right: r.Right})
	}
	return out
}

func (l lister) vector(v layout.Vector) Entry {
	e := Entry{
		FourState: v.FourState,
		Signed:    v.Signed,
		Sized:     v.Sized,
		Packed:    ranges(v.Packed),
		Unpacked:  ranges(v.Unpacked),

		PackedDeclared:   v.Packed.Declared(),
		UnpackedDeclared: v.Unpacked.Declared(),
	}
	if shape, err := layout.Compute(l.target, v); err == nil {
		e.Bits = shape.Bits
		e.Words = shape.TotalWords
	}
	return e
}

func (l lister) Integral(t *types.Integral) Entry { return l.vector(t.Vector()) }

func (l lister) Real(t *types.Real) Entry {
	return Entry{Precision: t.Precision().String()}
}

func (l lister) Void(*types.Void) Entry       { return Entry{} }
func (l lister) Chandle(*types.Chandle) Entry { return Entry{} }
func (l lister) Class(*types.Class) Entry     { return Entry{} }
func (l lister) String(*types.String) Entry   { return Entry{} }
func (l lister) Event(*types.Event) Entry     { return Entry{} }

func (l lister) Typedef(t *types.Typedef) Entry {
	switch st := t.State().(type) {
	case types.Resolved:
		return Entry{Resolved: true, Alias: st.Target.Name()}
	case types.Unresolved:
		e := Entry{}
		if st.Expect != types.KindInvalid {
			e.Expect = st.Expect.String()
		}
		return e
	}
	return Entry{}
}

func (l lister) Enum(t *types.Enum) Entry {
	base := t.Base()
	e := l.vector(base.Vector())
	e.Base = base.Name()
	members := t.Members()
	e.Members = make([]Member, 0, len(members))
	for _, m := range members {
		e.Members = append(e.Members, Member{Name: m.Name, Value: m.Int64()})
	}
	return e
}
