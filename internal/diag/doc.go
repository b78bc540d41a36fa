// Package diag defines the diagnostic model shared by every consumer of the
// type layer.
//
// Diagnostic is the central record: a Severity, a stable Code, a short
// Message, the primary source.Origin and optional Notes. Codes in the TYP
// range map one to one onto typeerr kinds (see CodeFor), DCL codes cover
// declaration files and IO codes file access.
//
// Producers emit through a Reporter, usually a BagReporter feeding a Bag, or
// chain a ReportBuilder. FromError converts a typeerr.Error, cause chain
// included, into a Diagnostic.
//
// Package diag does no formatting or IO; rendering lives in internal/diagfmt.
package diag
