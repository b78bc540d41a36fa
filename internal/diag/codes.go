package diag

import (
	"fmt"

	"svcore/internal/typeerr"
)

type Code uint16

const (
	UnknownCode Code = 0

	// type layer, one code per typeerr.Kind (TypBase + kind)
	TypBase                 Code = 4000
	TypMalformedDimension   Code = TypBase + Code(typeerr.KindMalformedDimension)
	TypUnsizedWidth         Code = TypBase + Code(typeerr.KindUnsizedWidth)
	TypIndexOutOfRange      Code = TypBase + Code(typeerr.KindIndexOutOfRange)
	TypUninitializedValue   Code = TypBase + Code(typeerr.KindUninitializedValue)
	TypTwoStateOverflow     Code = TypBase + Code(typeerr.KindTwoStateOverflow)
	TypDuplicateEnumMember  Code = TypBase + Code(typeerr.KindDuplicateEnumMember)
	TypUnsizedEnumBase      Code = TypBase + Code(typeerr.KindUnsizedEnumBase)
	TypUnresolvedTypedef    Code = TypBase + Code(typeerr.KindUnresolvedTypedef)
	TypShapeMismatch        Code = TypBase + Code(typeerr.KindShapeMismatch)
	TypEnumValueOverflow    Code = TypBase + Code(typeerr.KindEnumValueOverflow)
	TypDuplicateEnumValue   Code = TypBase + Code(typeerr.KindDuplicateEnumValue)
	TypInvalidEnumBase      Code = TypBase + Code(typeerr.KindInvalidEnumBase)
	TypTypedefCycle         Code = TypBase + Code(typeerr.KindTypedefCycle)
	TypAlreadyResolved      Code = TypBase + Code(typeerr.KindAlreadyResolved)
	TypUnknownType          Code = TypBase + Code(typeerr.KindUnknownType)
	TypDuplicateDeclaration Code = TypBase + Code(typeerr.KindDuplicateDeclaration)
	TypIndeterminate        Code = TypBase + Code(typeerr.KindIndeterminate)
	TypForwardMismatch      Code = TypBase + Code(typeerr.KindForwardMismatch)

	// declaration files
	DclInfo            Code = 5000
	DclSyntax          Code = 5001
	DclUnknownField    Code = 5002
	DclMissingName     Code = 5003
	DclBadOrigin       Code = 5004
	DclBadValue        Code = 5005
	DclBadTarget       Code = 5006
	DclUnresolvedAtEOF Code = 5007
	DclBadKind         Code = 5008

	// observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001

	IOLoadFileError  Code = 9001
	IOWriteFileError Code = 9002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:             "Unknown error",
		TypMalformedDimension:   "Malformed dimension",
		TypUnsizedWidth:         "Unsized type has no width",
		TypIndexOutOfRange:      "Index out of range",
		TypUninitializedValue:   "Value is uninitialized",
		TypTwoStateOverflow:     "X or Z stored in a two-state type",
		TypDuplicateEnumMember:  "Duplicate enum member",
		TypUnsizedEnumBase:      "Enum base type is unsized",
		TypUnresolvedTypedef:    "Typedef is not resolved",
		TypShapeMismatch:        "Value does not match the layout",
		TypEnumValueOverflow:    "Enum value does not fit its base",
		TypDuplicateEnumValue:   "Duplicate enum value",
		TypInvalidEnumBase:      "Invalid enum base type",
		TypTypedefCycle:         "Typedef refers to itself",
		TypAlreadyResolved:      "Typedef already resolved",
		TypUnknownType:          "Unknown type",
		TypDuplicateDeclaration: "Duplicate declaration",
		TypIndeterminate:        "Value holds X or Z",
		TypForwardMismatch:      "Typedef differs from its forward declaration",
		DclInfo:                 "Declaration file information",
		DclSyntax:               "Declaration file is not valid TOML",
		DclUnknownField:         "Unknown field in declaration file",
		DclMissingName:          "Declaration without a name",
		DclBadOrigin:            "Malformed origin",
		DclBadValue:             "Malformed value literal",
		DclBadTarget:            "Unknown storage target",
		DclUnresolvedAtEOF:      "Forward typedef never resolved",
		DclBadKind:              "Unknown type kind",
		ObsInfo:                 "Observability information",
		ObsTimings:              "Pipeline timings",
		IOLoadFileError:         "I/O load file error",
		IOWriteFileError:        "I/O write file error",
	}
)

// CodeFor maps an error kind to its diagnostic code.
func CodeFor(kind typeerr.Kind) Code {
	if kind == typeerr.KindUnknown {
		return UnknownCode
	}
	return TypBase + Code(kind)
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("TYP%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("DCL%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
