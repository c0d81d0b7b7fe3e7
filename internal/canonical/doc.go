// Package canonical produces deterministic JSON and content fingerprints.
//
// MarshalCanonical follows RFC 8785: object keys sorted by UTF-16 code
// units, no insignificant whitespace, no HTML escaping, NFC-normalized
// strings, and no floats or nulls. Golden traces and history fingerprints
// are built on it so identical timelines always produce identical bytes.
package canonical
