// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package parser

import (
	"fmt"

	"github.com/jeranaias/rigsh/internal/grammar"
	"github.com/jeranaias/rigsh/internal/lexer"
)

// =============================================================================
// PARSER STATE
// =============================================================================

// HistoryEntry is one accepted (token, node) pair of an invocation.
type HistoryEntry struct {
	Token lexer.Token
	Node  grammar.NodeID
}

// Parser holds the mutable state of one invocation. Create one per input
// line with New and discard it after use; the underlying graph is shared
// and read-only.
type Parser struct {
	graph    *grammar.Graph
	current  grammar.NodeID
	history  []HistoryEntry
	commands []grammar.NodeID
	values   map[string]any
}

// New creates a parser positioned at the graph's root.
func New(g *grammar.Graph) *Parser {
	return &Parser{
		graph:   g,
		current: g.Root(),
		values:  make(map[string]any),
	}
}

// Graph returns the grammar the parser traverses.
func (p *Parser) Graph() *grammar.Graph {
	return p.graph
}

// CurrentNode returns the parser's position in the graph.
func (p *Parser) CurrentNode() grammar.NodeID {
	return p.current
}

// History returns the accepted (token, node) pairs in order. The returned
// slice is the parser's own; callers must not mutate it.
func (p *Parser) History() []HistoryEntry {
	return p.history
}

// MatchedCommands returns the stack of matched command nodes, outermost
// first.
func (p *Parser) MatchedCommands() []grammar.NodeID {
	return p.commands
}

// =============================================================================
// ADVANCE / PARSE
// =============================================================================

// Advance feeds one Word token to the machine. Exactly one acceptable,
// matching successor moves the parser forward and applies the node's side
// effect; zero yields a *NoMatchError; several yield an
// *AmbiguousMatchError. Alias spellings of one named parameter may prefix
// each other ("--p" matches both "--p" and "--port"); they all introduce
// the same parameter, so those collapse to one match instead of raising
// ambiguity. Node priorities are deliberately not consulted.
func (p *Parser) Advance(tok lexer.Token) error {
	seen := p.seenNodes()

	var matches []grammar.NodeID
	for _, s := range p.graph.Successors(p.current) {
		if p.graph.Acceptable(s, seen) && p.graph.Match(s, tok.Text) {
			matches = append(matches, s)
		}
	}

	if len(matches) == 0 {
		return &NoMatchError{Token: tok}
	}
	m, ok := collapseAliases(p.graph, matches, tok.Text)
	if !ok {
		candidates := make([]string, len(matches))
		for i, c := range matches {
			candidates[i] = p.graph.HelpSymbol(c)
		}
		return &AmbiguousMatchError{Token: tok, Candidates: candidates}
	}

	p.graph.Accept(m, tok, p)
	p.history = append(p.history, HistoryEntry{Token: tok, Node: m})
	p.current = m
	return nil
}

// collapseAliases reduces a match set to a single node when every match is
// a parameter-name spelling of the same parameter. The exact spelling wins
// when the token spells one out in full; otherwise the first declared
// spelling stands in, since all of them capture identically. Matches that
// reach distinct nodes remain a genuine ambiguity.
func collapseAliases(g *grammar.Graph, matches []grammar.NodeID, text string) (grammar.NodeID, bool) {
	if len(matches) == 1 {
		return matches[0], true
	}

	shared := grammar.NoNode
	for _, id := range matches {
		param := g.ParameterOf(id)
		if param == grammar.NoNode {
			return grammar.NoNode, false
		}
		if shared == grammar.NoNode {
			shared = param
		} else if param != shared {
			return grammar.NoNode, false
		}
	}

	for _, id := range matches {
		if g.Node(id).Symbol == text {
			return id, true
		}
	}
	return matches[0], true
}

// Parse feeds every Word token to Advance in order, skipping Whitespace and
// Special tokens, and stops at the first failure.
func (p *Parser) Parse(tokens []lexer.Token) error {
	for _, tok := range tokens {
		if tok.Type != lexer.Word {
			continue
		}
		if err := p.Advance(tok); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// VERIFY / EXECUTE
// =============================================================================

// Verify checks the invocation for completeness, appending one message per
// problem to errs. Every missing required parameter of the matched command
// is reported, not just the first. Verify never raises; the caller decides
// what to do with the collected problems.
func (p *Parser) Verify(errs *[]string) bool {
	cmd, ok := p.dispatchTarget()
	if !ok {
		*errs = append(*errs, "Incomplete command.")
		return false
	}

	complete := true
	for _, pid := range p.graph.Parameters(cmd) {
		n := p.graph.Node(pid)
		if !n.Required {
			continue
		}
		if _, captured := p.values[n.Name]; !captured {
			*errs = append(*errs, fmt.Sprintf("Missing required parameter %q.", n.Name))
			complete = false
		}
	}
	return complete
}

// Execute invokes the handler of the dispatch target exactly once, passing
// the parser so the handler can read captured parameters. Dispatch picks
// the outermost matched wrapper when one is present — a wrapper exists to
// borrow another command's grammar while supplying its own behavior — and
// the innermost matched command otherwise, so a leaf command is never
// shadowed by a prefix command it was reached through.
func (p *Parser) Execute() error {
	cmd, ok := p.dispatchTarget()
	if !ok {
		return ErrNoCommand
	}
	return p.graph.Node(cmd).Handler(p)
}

// dispatchTarget picks the command Execute and Verify operate on.
func (p *Parser) dispatchTarget() (grammar.NodeID, bool) {
	if len(p.commands) == 0 {
		return grammar.NoNode, false
	}
	for _, id := range p.commands {
		if p.graph.Node(id).Kind == grammar.KindWrapper {
			return id, true
		}
	}
	return p.commands[len(p.commands)-1], true
}

// =============================================================================
// PARAMETERS
// =============================================================================

// GetParameter returns the captured value for name, or def when absent.
// Repeatable parameters yield an ordered []any of captures.
func (p *Parser) GetParameter(name string, def any) any {
	if v, ok := p.values[name]; ok {
		return v
	}
	return def
}

// PushCommand implements grammar.Sink.
func (p *Parser) PushCommand(id grammar.NodeID) {
	p.commands = append(p.commands, id)
}

// CaptureParameter implements grammar.Sink.
func (p *Parser) CaptureParameter(name string, value any, repeatable bool) {
	if !repeatable {
		p.values[name] = value
		return
	}
	list, _ := p.values[name].([]any)
	p.values[name] = append(list, value)
}

// =============================================================================
// COMPLETION
// =============================================================================

// Complete returns the completions the current position offers for an
// optional partial token: one Completion per acceptable, non-hidden
// successor that matches the partial text. Hidden nodes stay matchable but
// are never offered here.
func (p *Parser) Complete(partial *lexer.Token) []grammar.Completion {
	seen := p.seenNodes()

	var out []grammar.Completion
	for _, s := range p.graph.Successors(p.current) {
		n := p.graph.Node(s)
		if n.Hidden || !p.graph.Acceptable(s, seen) {
			continue
		}
		if partial != nil && !p.graph.Match(s, partial.Text) {
			continue
		}
		out = append(out, p.graph.Complete(s, partial))
	}
	return out
}

// seenNodes returns the node ids accepted so far.
func (p *Parser) seenNodes() []grammar.NodeID {
	seen := make([]grammar.NodeID, len(p.history))
	for i, h := range p.history {
		seen[i] = h.Node
	}
	return seen
}
