package layout

import (
	_ "embed"
	"fmt"
	"math/bits"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed targets.yaml
var rawTargets []byte

type targetEntry struct {
	Name     string   `yaml:"name"`
	Aliases  []string `yaml:"aliases"`
	WordBits int      `yaml:"word_bits"`
	PtrBytes int      `yaml:"ptr_bytes"`
}

var targetTable []targetEntry

func init() {
	var t struct {
		Targets []targetEntry `yaml:"targets"`
	}
	if err := yaml.Unmarshal(rawTargets, &t); err != nil {
		panic(fmt.Errorf("layout: embedded targets.yaml: %w", err))
	}
	targetTable = t.Targets
}

// Target describes the machine word used for value storage and the native
// pointer size used for chandle values.
type Target struct {
	Name     string // e.g. "lp64"
	WordBits int    // bits used in each storage word: 8, 16, 32 or 64
	PtrBytes int    // bytes in a native pointer
}

// Word64 is a 64-bit host with 64-bit storage words.
func Word64() Target {
	return Target{Name: "lp64", WordBits: 64, PtrBytes: 8}
}

// Word32 is a 32-bit host with 32-bit storage words.
func Word32() Target {
	return Target{Name: "ilp32", WordBits: 32, PtrBytes: 4}
}

// Host matches the machine the tool runs on.
func Host() Target {
	if bits.UintSize == 32 {
		return Word32()
	}
	return Word64()
}

// Targets lists the predefined targets in table order.
func Targets() []Target {
	out := make([]Target, len(targetTable))
	for i, e := range targetTable {
		out[i] = e.target()
	}
	return out
}

// TargetByName returns a predefined target by name or alias. "host" and the
// empty name select Host.
func TargetByName(name string) (Target, bool) {
	if name == "host" || name == "" {
		return Host(), true
	}
	for _, e := range targetTable {
		if e.Name == name || slices.Contains(e.Aliases, name) {
			return e.target(), true
		}
	}
	return Target{}, false
}

func (e targetEntry) target() Target {
	return Target{Name: e.Name, WordBits: e.WordBits, PtrBytes: e.PtrBytes}
}

// Validate checks the word and pointer sizes.
func (t Target) Validate() error {
	switch t.WordBits {
	case 8, 16, 32, 64:
	default:
		return fmt.Errorf("target %q: unsupported word width %d", t.Name, t.WordBits)
	}
	if t.PtrBytes <= 0 || t.PtrBytes > 8 {
		return fmt.Errorf("target %q: unsupported pointer size %d", t.Name, t.PtrBytes)
	}
	return nil
}
