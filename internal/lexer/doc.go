// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package lexer turns a raw console line into a flat sequence of tokens.
//
// The lexer is a small hand-written state machine. It understands three
// things beyond plain words: runs of whitespace (coalesced into a single
// token), the one-character specials ';', '|' and '?', and double-quoted
// regions with backslash escapes. Token text is always the exact source
// substring, quotes and escapes included, so downstream completion and help
// can round-trip what the user actually typed.
//
// Tokenize is all-or-nothing: it either returns the full token sequence or a
// *LexError describing the offending position.
//
//	tokens, err := lexer.Tokenize(`connect rig-07 --port 9001`)
//
// Every token carries its inclusive start/end character offsets within the
// source line.
package lexer
