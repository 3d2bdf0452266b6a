// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package grammar holds the command grammar graph: the node arena, the
// matching and acceptability predicates, the tab-completion engine, and the
// declarative builder that turns command specs into graph nodes.
//
// The graph is a digraph, not a tree. Repeatable parameters and named
// parameter aliases introduce deliberate cycles: a parameter node's
// successor set is the union of its owning command's successors and its own,
// which re-offers the parameter itself on later steps. Traversal only ever
// inspects the immediate successors of the current node, so cycles never
// recurse.
//
// Nodes live in an arena and are addressed by NodeID, a stable index into
// the arena. Successor lists are index sequences and node identity is index
// equality, which keeps the "have we seen this node before" bookkeeping
// trivial. Node kinds are a tagged variant; every predicate is an exhaustive
// switch over Kind.
//
// A graph is built once, then treated as read-only. Any number of parsers
// may traverse it concurrently as long as construction finished first;
// mutating a successor list after parsers have started is undefined
// behavior.
package grammar
