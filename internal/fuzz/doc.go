// Package fuzztests holds fuzz harnesses for the declaration loader and the
// storage layout. They feed arbitrary input through decl.Parse and
// layout.Compute and check that nothing panics and that every produced
// catalog and shape satisfies the invariants in internal/testkit.
package fuzztests
