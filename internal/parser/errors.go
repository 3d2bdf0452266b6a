// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jeranaias/rigsh/internal/lexer"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNoMatch indicates a token no successor of the current node
	// accepts.
	ErrNoMatch = errors.New("no match")

	// ErrAmbiguousMatch indicates two sibling nodes both accept the same
	// token. This is a grammar-construction defect, surfaced rather than
	// resolved; the engine never backtracks or tie-breaks.
	ErrAmbiguousMatch = errors.New("ambiguous match")

	// ErrNoCommand indicates Execute was called before any command
	// matched.
	ErrNoCommand = errors.New("no command")
)

// NoMatchError reports the token the grammar could not place.
type NoMatchError struct {
	Token lexer.Token
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no match for %q at character %d", e.Token.Text, e.Token.Start)
}

func (e *NoMatchError) Unwrap() error {
	return ErrNoMatch
}

// AmbiguousMatchError reports a token matched by several siblings at once,
// along with the candidates' help symbols.
type AmbiguousMatchError struct {
	Token      lexer.Token
	Candidates []string
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("ambiguous match for %q: %s",
		e.Token.Text, strings.Join(e.Candidates, ", "))
}

func (e *AmbiguousMatchError) Unwrap() error {
	return ErrAmbiguousMatch
}
