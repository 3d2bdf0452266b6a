// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lexer

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrInvalidCharacter indicates a control character in the input.
	ErrInvalidCharacter = errors.New("invalid character")

	// ErrDanglingEscape indicates a backslash at the end of the input.
	ErrDanglingEscape = errors.New("dangling escape")

	// ErrUnterminatedQuote indicates an unclosed double-quoted region.
	ErrUnterminatedQuote = errors.New("unterminated quote")
)

// LexError is a fatal tokenization failure. No partial token sequence is
// ever returned alongside one.
type LexError struct {
	// Pos is the character index the lexer had reached when it failed.
	Pos int

	// Err is one of the sentinel errors above.
	Err error
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%v at character %d", e.Err, e.Pos)
}

func (e *LexError) Unwrap() error {
	return e.Err
}

// =============================================================================
// STATE MACHINE
// =============================================================================

type lexState int

const (
	stateInitial lexState = iota
	stateWhitespace
	stateWord
	stateWordEscape
	stateQuoted
	stateQuotedEscape
)

// Tokenize converts a console line into its full token sequence.
//
// Whitespace runs coalesce into one token. ';', '|' and '?' are emitted
// immediately as one-character Special tokens and terminate whatever token
// was being accumulated. A double quote opens a quoted region whose closing
// quote is part of the token text; a backslash inside a word or quoted
// region escapes exactly one following character, kept verbatim. No
// unescaping or quote-stripping happens here.
func Tokenize(input string) ([]Token, error) {
	runes := []rune(input)

	var tokens []Token
	st := stateInitial
	start := 0

	emit := func(typ TokenType, end int) {
		tokens = append(tokens, Token{
			Text:  string(runes[start : end+1]),
			Type:  typ,
			Start: start,
			End:   end,
		})
	}

	// Enter the accumulating state for the first character of a new token.
	openToken := func(ch rune, i int) lexState {
		start = i
		switch ch {
		case '"':
			return stateQuoted
		case '\\':
			return stateWordEscape
		default:
			return stateWord
		}
	}

	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		if isControl(ch) {
			return nil, &LexError{Pos: i, Err: ErrInvalidCharacter}
		}

		switch st {
		case stateInitial:
			switch {
			case isSpace(ch):
				start = i
				st = stateWhitespace
			case isSpecial(ch):
				start = i
				emit(Special, i)
			default:
				st = openToken(ch, i)
			}

		case stateWhitespace:
			switch {
			case isSpace(ch):
				// Coalesce.
			case isSpecial(ch):
				emit(Whitespace, i-1)
				start = i
				emit(Special, i)
				st = stateInitial
			default:
				emit(Whitespace, i-1)
				st = openToken(ch, i)
			}

		case stateWord:
			switch {
			case isSpace(ch):
				emit(Word, i-1)
				start = i
				st = stateWhitespace
			case isSpecial(ch):
				emit(Word, i-1)
				start = i
				emit(Special, i)
				st = stateInitial
			case ch == '"':
				st = stateQuoted
			case ch == '\\':
				st = stateWordEscape
			}

		case stateWordEscape:
			// The escaped character is kept verbatim, whatever it is.
			st = stateWord

		case stateQuoted:
			switch ch {
			case '"':
				// Closing quote stays in the token text.
				st = stateWord
			case '\\':
				st = stateQuotedEscape
			}

		case stateQuotedEscape:
			st = stateQuoted
		}
	}

	switch st {
	case stateWord:
		emit(Word, len(runes)-1)
	case stateWhitespace:
		emit(Whitespace, len(runes)-1)
	case stateWordEscape:
		return nil, &LexError{Pos: len(runes), Err: ErrDanglingEscape}
	case stateQuoted, stateQuotedEscape:
		return nil, &LexError{Pos: len(runes), Err: ErrUnterminatedQuote}
	}

	return tokens, nil
}

// =============================================================================
// CHARACTER CLASSES
// =============================================================================

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\t'
}

func isSpecial(ch rune) bool {
	return ch == ';' || ch == '|' || ch == '?'
}

// isControl reports whether ch may never appear in a console line. Tab is
// whitespace; everything else below U+0020, and DEL, is rejected even inside
// quotes since input is a single line.
func isControl(ch rune) bool {
	return (ch < 0x20 && ch != '\t') || ch == 0x7f
}
