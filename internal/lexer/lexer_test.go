// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lexer

import (
	"errors"
	"testing"
)

// TestTokenizeWords tests plain word and whitespace tokenization with
// source offsets.
func TestTokenizeWords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "single character word",
			input: "a",
			want: []Token{
				{Text: "a", Type: Word, Start: 0, End: 0},
			},
		},
		{
			name:  "word surrounded by whitespace",
			input: " a ",
			want: []Token{
				{Text: " ", Type: Whitespace, Start: 0, End: 0},
				{Text: "a", Type: Word, Start: 1, End: 1},
				{Text: " ", Type: Whitespace, Start: 2, End: 2},
			},
		},
		{
			name:  "whitespace runs coalesce",
			input: "show \t  targets",
			want: []Token{
				{Text: "show", Type: Word, Start: 0, End: 3},
				{Text: " \t  ", Type: Whitespace, Start: 4, End: 7},
				{Text: "targets", Type: Word, Start: 8, End: 14},
			},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "only whitespace",
			input: "   ",
			want: []Token{
				{Text: "   ", Type: Whitespace, Start: 0, End: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("Tokenize(%q) error: %v", tt.input, err)
			}
			assertTokens(t, got, tt.want)
		})
	}
}

// TestTokenizeSpecials tests that ';', '|' and '?' are emitted immediately
// as one-character tokens.
func TestTokenizeSpecials(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "special terminates a word",
			input: "show;quit",
			want: []Token{
				{Text: "show", Type: Word, Start: 0, End: 3},
				{Text: ";", Type: Special, Start: 4, End: 4},
				{Text: "quit", Type: Word, Start: 5, End: 8},
			},
		},
		{
			name:  "question mark on its own",
			input: "show ?",
			want: []Token{
				{Text: "show", Type: Word, Start: 0, End: 3},
				{Text: " ", Type: Whitespace, Start: 4, End: 4},
				{Text: "?", Type: Special, Start: 5, End: 5},
			},
		},
		{
			name:  "pipe between whitespace runs",
			input: " | ",
			want: []Token{
				{Text: " ", Type: Whitespace, Start: 0, End: 0},
				{Text: "|", Type: Special, Start: 1, End: 1},
				{Text: " ", Type: Whitespace, Start: 2, End: 2},
			},
		},
		{
			name:  "adjacent specials each emit",
			input: ";;",
			want: []Token{
				{Text: ";", Type: Special, Start: 0, End: 0},
				{Text: ";", Type: Special, Start: 1, End: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("Tokenize(%q) error: %v", tt.input, err)
			}
			assertTokens(t, got, tt.want)
		})
	}
}

// TestTokenizeQuotes tests quoted regions. Quotes and escapes are retained
// verbatim in the token text.
func TestTokenizeQuotes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "quoted region is one word with quotes kept",
			input: ` "a b" `,
			want: []Token{
				{Text: " ", Type: Whitespace, Start: 0, End: 0},
				{Text: `"a b"`, Type: Word, Start: 1, End: 5},
				{Text: " ", Type: Whitespace, Start: 6, End: 6},
			},
		},
		{
			name:  "escaped quote inside quotes kept verbatim",
			input: `"a\"b"`,
			want: []Token{
				{Text: `"a\"b"`, Type: Word, Start: 0, End: 5},
			},
		},
		{
			name:  "quoted region glues into surrounding word",
			input: `pre"a b"post`,
			want: []Token{
				{Text: `pre"a b"post`, Type: Word, Start: 0, End: 11},
			},
		},
		{
			name:  "specials are literal inside quotes",
			input: `"a;b|c?"`,
			want: []Token{
				{Text: `"a;b|c?"`, Type: Word, Start: 0, End: 7},
			},
		},
		{
			name:  "escaped space keeps word together",
			input: `a\ b`,
			want: []Token{
				{Text: `a\ b`, Type: Word, Start: 0, End: 3},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("Tokenize(%q) error: %v", tt.input, err)
			}
			assertTokens(t, got, tt.want)
		})
	}
}

// TestTokenizeErrors tests the fatal error cases.
func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		wantPos int
	}{
		{
			name:    "unterminated quote",
			input:   `show "half`,
			wantErr: ErrUnterminatedQuote,
			wantPos: 10,
		},
		{
			name:    "unterminated quote in escape state",
			input:   `"a\`,
			wantErr: ErrUnterminatedQuote,
			wantPos: 3,
		},
		{
			name:    "dangling escape",
			input:   `abc\`,
			wantErr: ErrDanglingEscape,
			wantPos: 4,
		},
		{
			name:    "control character",
			input:   "ab\ncd",
			wantErr: ErrInvalidCharacter,
			wantPos: 2,
		},
		{
			name:    "control character inside quotes",
			input:   "\"a\rb\"",
			wantErr: ErrInvalidCharacter,
			wantPos: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			if err == nil {
				t.Fatalf("Tokenize(%q) = %v, want error", tt.input, tokens)
			}
			if tokens != nil {
				t.Errorf("Tokenize(%q) returned partial tokens alongside error", tt.input)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			var lexErr *LexError
			if !errors.As(err, &lexErr) {
				t.Fatalf("error is not a *LexError: %v", err)
			}
			if lexErr.Pos != tt.wantPos {
				t.Errorf("Pos = %d, want %d", lexErr.Pos, tt.wantPos)
			}
		})
	}
}

// assertTokens compares two token sequences field by field.
func assertTokens(t *testing.T, got, want []Token) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d tokens %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
}
