// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lexer

import "fmt"

// =============================================================================
// TOKEN
// =============================================================================

// TokenType classifies a token produced by the lexer.
type TokenType int

const (
	// Word is a run of non-whitespace characters, possibly containing
	// quoted regions and escapes.
	Word TokenType = iota

	// Whitespace is a coalesced run of spaces and tabs.
	Whitespace

	// Special is a single ';', '|' or '?' character.
	Special
)

// String returns a human-readable name for the token type.
func (t TokenType) String() string {
	switch t {
	case Word:
		return "word"
	case Whitespace:
		return "whitespace"
	case Special:
		return "special"
	default:
		return "unknown"
	}
}

// Token is one lexical unit of a console line. Tokens are immutable; they
// are created by Tokenize and only ever read afterwards.
type Token struct {
	// Text is the exact source substring, including any quote and escape
	// characters.
	Text string

	// Type classifies the token.
	Type TokenType

	// Start is the inclusive character offset of the first character.
	Start int

	// End is the inclusive character offset of the last character.
	End int
}

// String returns a debug representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)[%d,%d]", t.Type, t.Text, t.Start, t.End)
}
