// Package meta defines the value model and codec for meta attributes.
//
// Values form a closed, sealed union: String, Int, Float, Bool, Strings,
// and Object. Each kind has a stable type tag stored next to its encoded
// text form, so a stored value decodes back to exactly the value that was
// written - a numeric string comes back as a number, never as a string.
//
// Decoding a tag outside the set is an UnsupportedKindError, not a silent
// pass-through.
package meta
