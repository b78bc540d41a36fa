package decl

// File is the decoded form of a declaration file.
//
//	[target]
//	name = "lp64"            # or word_bits / ptr_bytes
//
//	[[integral]]
//	name = "word_t"
//	four_state = true
//	signed = false
//	packed = [[31, 0]]
//	unpacked = [[0, 3]]
//	value = "xxxx_0101"      # optional, MSB first
//
//	[[enum]]
//	name = "state_t"
//	base = "logic2_t"
//	[[enum.member]]
//	name = "IDLE"
//	value = 0
//
//	[[typedef]]
//	name = "alias_t"
//	target = "word_t"        # absent: forward declaration
//	kind = "enum"            # optional kind promised by a forward
type File struct {
	Target   TargetSpec     `toml:"target"`
	Integral []IntegralSpec `toml:"integral"`
	Real     []RealSpec     `toml:"real"`
	String   []ValueSpec    `toml:"string"`
	Event    []NamedSpec    `toml:"event"`
	Chandle  []NamedSpec    `toml:"chandle"`
	Class    []NamedSpec    `toml:"class"`
	Enum     []EnumSpec     `toml:"enum"`
	Typedef  []TypedefSpec  `toml:"typedef"`
}

type TargetSpec struct {
	Name     string `toml:"name"`
	WordBits int    `toml:"word_bits"`
	PtrBytes int    `toml:"ptr_bytes"`
}

// NamedSpec is the part shared by every declaration.
type NamedSpec struct {
	Name   string `toml:"name"`
	Origin string `toml:"origin"`
}

type IntegralSpec struct {
	NamedSpec
	FourState bool      `toml:"four_state"`
	Signed    bool      `toml:"signed"`
	Sized     *bool     `toml:"sized"`
	Packed    [][]int64 `toml:"packed"`
	Unpacked  [][]int64 `toml:"unpacked"`
	Value     string    `toml:"value"`
	Int       *int64    `toml:"int"`
}

type RealSpec struct {
	NamedSpec
	Precision string   `toml:"precision"`
	Value     *float64 `toml:"value"`
}

type ValueSpec struct {
	NamedSpec
	Value *string `toml:"value"`
}

type EnumSpec struct {
	NamedSpec
	Base    string       `toml:"base"`
	Members []MemberSpec `toml:"member"`
}

type MemberSpec struct {
	Name   string `toml:"name"`
	Origin string `toml:"origin"`
	Value  *int64 `toml:"value"`
}

type TypedefSpec struct {
	NamedSpec
	Target string `toml:"target"`
	Kind   string `toml:"kind"`
}
