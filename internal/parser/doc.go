// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package parser drives one invocation through the grammar graph.
//
// A Parser is created per input line and holds all mutable parse state: the
// current graph position, the ordered (token, node) history, the stack of
// matched commands, and the captured parameter values. The grammar itself
// is never mutated, which is what allows one graph to serve any number of
// concurrent parsers.
//
// The machine has no state enum; its state is "current node plus history".
// Advance moves one Word token at a time, Verify collects validation
// problems without raising them, Execute dispatches exactly one matched
// handler, and Complete asks the graph what could come next.
package parser
