// Package store provides the typed key-value store behind codika contexts.
//
// KVStore keeps Go values with their concrete types and remembers the order
// in which keys were first written, so snapshots and merges stay
// deterministic. Values are never cloned: a value copied from one store to
// another is shared, matching the shallow hand-off between pipeline steps.
//
// Core features include:
//   - Type-safe reads using generics (Get, GetOrDefault, KeysByType)
//   - Presence checks that treat nil values as present (Has, Lookup)
//   - Ordered overwrite-merge between stores (CopyFromWithOverwrite)
//   - JSON Schema descriptions of stored types (GetTypeSchema, TypeToSchema)
package store
