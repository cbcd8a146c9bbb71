package ogre

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024–2026 The OGRE Authors

*/

import (
	"fmt"

	"github.com/cnf/structhash"
)

// --- A general purpose type for operation kinds ----------------------------

// OpKind is a category type for graph operations. We do not define any constants
// here, as it is up to applications to define their operation sets. The graph
// core never interprets operation kinds; it only compares them.
//
// An example would be a small arithmetic operation set:
//
//    const (
//        Add OpKind = iota + 1
//        Multiply
//        Subtract
//    )
//
// Operation semantics (kernels, shape inference, …) live entirely outside of
// this module; operator builders construct nodes carrying a kind and the graph
// core treats the kind as an opaque tag.
type OpKind int

// OpKindStringer is a type to be provided by applications to be able to print
// out operation kinds.
type OpKindStringer func(OpKind) string

// --- Operation attributes --------------------------------------------------

// Attrs carries the static attributes of an operation (axis numbers, padding,
// scale factors, …). The graph core never interprets attribute values; they
// are matched and compared by fingerprint only.
type Attrs map[string]interface{}

// Fingerprint returns a stable content hash over the attribute map. An empty
// or nil map fingerprints to the empty string.
func (a Attrs) Fingerprint() string {
	if len(a) == 0 {
		return ""
	}
	return fmt.Sprintf("%x", structhash.Md5(a, 1))
}

// Equals compares two attribute maps by fingerprint.
func (a Attrs) Equals(other Attrs) bool {
	return a.Fingerprint() == other.Fingerprint()
}
