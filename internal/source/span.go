package source

import "fmt"

// Span is a half-open byte range [Start, End) in one file of a FileSet.
// The declaration loader maps TOML key positions to spans before turning
// them into origins.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}
