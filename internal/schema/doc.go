// Package schema declares the front-matter shape of each content collection and
// validates raw front-matter maps against it.
//
// A Schema is plain data: an ordered list of Field descriptors (name, kind,
// required). Validate checks a map against the descriptors and Decode turns a
// valid map into a typed record through its yaml struct tags. A document either
// fully satisfies its schema or is rejected with a *Violation; there is no
// partial admission.
package schema
