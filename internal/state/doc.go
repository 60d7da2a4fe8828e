// Package state defines the StateGraph model: an immutable snapshot of one
// data structure's complete contents and topology at one step.
//
// All five supported variants (array, singly linked list, doubly linked
// list, stack, queue) share a single addressing discipline: every node or
// slot is an entry in an arena-style map keyed by an opaque ElemID. Links
// between nodes are identifier lookups, never language references. A
// dangling "pointer" is therefore just an identifier that fails lookup,
// and cycle/leak detection reduce to graph reachability over the arena.
//
// DETERMINISM:
//
// Committed snapshots must be byte-identical for a given step index across
// navigation and replay. Two mechanisms enforce this:
//
//   - Element identifiers are allocated from a counter carried inside the
//     snapshot itself (NextID), so re-executing a plan from genesis always
//     produces the same identifiers.
//   - MarshalCanonical produces RFC 8785 canonical JSON (UTF-16 sorted
//     keys, NFC normalized strings, no floats, no null), and Hash derives
//     a domain-separated SHA-256 content address from it.
//
// Snapshots are value types from the caller's perspective: Clone produces
// a deep copy, and every component that hands a snapshot across a boundary
// hands a clone.
package state
