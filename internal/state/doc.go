// Package state owns the persisted configuration document: the State,
// AppConfig, and Profile model with insertion-ordered maps, the JSON codec
// that round-trips unknown fields, load/save at a per-user path, invariant
// validation with silent self-healing, and an advisory JSON-schema check
// for hand-edited documents.
package state
