// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package grammar

import (
	"strings"

	"github.com/jeranaias/rigsh/internal/lexer"
)

// =============================================================================
// COMPLETION TYPES
// =============================================================================

// CompletionOption is one candidate continuation. Complete options are
// whole valid values; incomplete options are hints, such as the user's own
// partial text or the longest unambiguous fill.
type CompletionOption struct {
	// Value is the candidate text.
	Value string

	// Complete is true when Value is a whole valid value rather than a
	// fill hint.
	Complete bool
}

// Completion describes the continuations one grammar node offers for an
// optional partial token.
type Completion struct {
	// HelpSymbol is the node's token-shaped label, e.g. "show" or
	// "<target>".
	HelpSymbol string

	// HelpText is the node's description.
	HelpText string

	// Exhaustive is true when Options is the closed set of valid values
	// (fixed keywords). Open parameters accept arbitrary values and only
	// offer hints.
	Exhaustive bool

	// Options lists the candidates, complete options first.
	Options []CompletionOption
}

// =============================================================================
// COMPLETION CONSTRUCTION
// =============================================================================

// Complete builds the Completion id offers for an optional partial token.
// Completing the root is a programming error; callers complete the root's
// successors, never the root itself.
func (g *Graph) Complete(id NodeID, tok *lexer.Token) Completion {
	n := &g.nodes[id]

	var (
		exhaustive bool
		complete   []string
	)
	switch n.Kind {
	case KindRoot:
		panic("grammar: root node cannot be completed")
	case KindSymbol, KindCommand, KindWrapper, KindParameterName:
		exhaustive = true
		complete = []string{n.Symbol}
	case KindParameter:
		if n.ParamKind == ParamFlag {
			exhaustive = true
			complete = []string{flagSymbol(n.Name)}
		}
		// Open parameters declare no options; the partial input itself
		// becomes the hint below.
	}

	return buildCompletion(g.HelpSymbol(id), g.HelpText(id), exhaustive, complete, nil, tok)
}

// buildCompletion assembles one Completion from a node's declared complete
// and other options plus an optional partial token:
//
//  1. filter both lists to options the partial token prefixes
//  2. for open option sets, add the partial text itself as an incomplete
//     option when it is not already present
//  3. add the longest common prefix of all options as an incomplete option
//     when it is non-empty, differs from the partial text, and is new —
//     the classic "fill as far as unambiguous" hint
//  4. complete options first, then incomplete ones
func buildCompletion(helpSymbol, helpText string, exhaustive bool, complete, others []string, tok *lexer.Token) Completion {
	text := ""
	if tok != nil {
		text = tok.Text
		complete = filterByPrefix(complete, text)
		others = filterByPrefix(others, text)
		if !exhaustive && !containsString(complete, text) && !containsString(others, text) {
			others = append(others, text)
		}
	}

	all := make([]string, 0, len(complete)+len(others))
	all = append(all, complete...)
	all = append(all, others...)
	if lcp := LongestCommonPrefix(all); lcp != "" && lcp != text &&
		!containsString(complete, lcp) && !containsString(others, lcp) {
		others = append(others, lcp)
	}

	options := make([]CompletionOption, 0, len(complete)+len(others))
	for _, v := range complete {
		options = append(options, CompletionOption{Value: v, Complete: true})
	}
	for _, v := range others {
		options = append(options, CompletionOption{Value: v, Complete: false})
	}

	return Completion{
		HelpSymbol: helpSymbol,
		HelpText:   helpText,
		Exhaustive: exhaustive,
		Options:    options,
	}
}

// LongestCommonPrefix returns the longest prefix shared by all strings, or
// "" for an empty input. The shortest string bounds the result.
func LongestCommonPrefix(strs []string) string {
	if len(strs) == 0 {
		return ""
	}
	first := strs[0]
	for i := 0; i < len(first); i++ {
		for _, s := range strs[1:] {
			if i >= len(s) || s[i] != first[i] {
				return first[:i]
			}
		}
	}
	return first
}

func filterByPrefix(values []string, prefix string) []string {
	var out []string
	for _, v := range values {
		if strings.HasPrefix(v, prefix) {
			out = append(out, v)
		}
	}
	return out
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
