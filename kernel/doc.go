// Package kernel implements the object-model kernel of the GAP runtime.
//
// This package contains:
//   - NaN-boxed value representation (immediates and bag handles)
//   - Bag layout, slot access and the keep-alive registry
//   - Type-tag dispatch tables for the generic object operations
//   - The structural deep-copy engine and its clean pass
//   - Cycle-safe recursive printing and viewing
//   - Region ownership, identity exchange and in-place freezing
//   - Per-tag save/load bodies for the snapshot framer
package kernel
