package layout

import (
	"svcore/internal/typeerr"
)

func errMalformed(d Dimension, detail string) error {
	return typeerr.New(typeerr.KindMalformedDimension).
		Op("layout").
		Detail("%s: %s", d, detail).
		Build()
}

func errUnsized() error {
	return typeerr.New(typeerr.KindUnsizedWidth).
		Op("layout").
		Detail("$bits is undefined for an unsized type").
		Build()
}

func errTooLarge(words uint64) error {
	return typeerr.New(typeerr.KindMalformedDimension).
		Op("layout").
		Detail("storage of %d words exceeds the limit of %d", words, MaxWords).
		Build()
}

func errIndex(op, detail string, args ...any) error {
	return typeerr.New(typeerr.KindIndexOutOfRange).Op(op).Detail(detail, args...).Build()
}

func errUninitialized(op string) error {
	return typeerr.New(typeerr.KindUninitializedValue).
		Op(op).
		Detail("value is declared but was never assigned").
		Build()
}

func errTwoState(op string, s State) error {
	return typeerr.New(typeerr.KindTwoStateOverflow).
		Op(op).
		Detail("cannot store %s in a two-state vector", s).
		Build()
}

func errShape(op, detail string, args ...any) error {
	return typeerr.New(typeerr.KindShapeMismatch).Op(op).Detail(detail, args...).Build()
}

func errIndeterminate(op string, bit uint64, s State) error {
	return typeerr.New(typeerr.KindIndeterminate).
		Op(op).
		Detail("bit %d is %s", bit, s).
		Build()
}
