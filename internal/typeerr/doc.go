// Package typeerr provides the structured error type returned by the layout
// engine and the type catalog.
//
// Every failure carries a Kind naming the violated contract, the operation
// that detected it, an optional detail message and, when known, the Origin of
// the declaration involved:
//
//	err := typeerr.New(typeerr.KindDuplicateEnumMember).
//		Op("enum").
//		At(origin).
//		Detail("member %q declared twice", name).
//		Build()
//
// All errors are recoverable. Callers match them with errors.Is against the
// exported sentinels (errors.Is(err, typeerr.ErrUnresolvedTypedef)) or pull
// the kind out with KindOf.
package typeerr
