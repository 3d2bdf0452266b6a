// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package grammar

import (
	"strings"

	"github.com/jeranaias/rigsh/internal/lexer"
)

// =============================================================================
// IDENTIFIERS AND KINDS
// =============================================================================

// NodeID is a stable index into a graph's node arena. Two NodeIDs from the
// same graph are the same node iff they are equal.
type NodeID int

// NoNode is the absent-node sentinel for optional references.
const NoNode NodeID = -1

// Kind discriminates the node variants of the grammar graph.
type Kind int

const (
	// KindRoot is the entry point of a grammar. It only holds the
	// top-level successors and must never be matched or completed.
	KindRoot Kind = iota

	// KindSymbol is a fixed keyword matched by non-empty prefix, such as
	// the "show" in "show targets".
	KindSymbol

	// KindCommand is a symbol that, when accepted, registers itself as
	// the matched command for the invocation.
	KindCommand

	// KindParameter captures a typed value (positional, named value, or
	// flag).
	KindParameter

	// KindParameterName is the literal token that introduces a named
	// parameter, e.g. "--port". Several aliases may point at one
	// parameter node.
	KindParameterName

	// KindWrapper is a command whose successor set is borrowed wholesale
	// from another node, letting a meta-command such as "help" traverse
	// the same grammar as the commands it wraps.
	KindWrapper
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindSymbol:
		return "symbol"
	case KindCommand:
		return "command"
	case KindParameter:
		return "parameter"
	case KindParameterName:
		return "parameter-name"
	case KindWrapper:
		return "wrapper"
	default:
		return "unknown"
	}
}

// ParamKind determines how a parameter is introduced and converted.
type ParamKind int

const (
	// ParamSimple is a positional parameter that consumes whatever token
	// is offered.
	ParamSimple ParamKind = iota

	// ParamFlag matches its literal "--name" spelling and always captures
	// the value true, ignoring the token text.
	ParamFlag

	// ParamNamed is introduced by one of its "--name"/"--alias" literal
	// tokens; the following token is the captured value.
	ParamNamed
)

// Priority is reserved for breaking ties between sibling nodes that match
// the same token. No matching code consults it today; ambiguous matches are
// always a hard error.
type Priority int

const (
	PriorityDefault Priority = iota
	PriorityHigh
)

// =============================================================================
// HANDLER CONTRACT
// =============================================================================

// Invocation is the read surface a handler gets for the parse that invoked
// it. It is implemented by the command parser.
type Invocation interface {
	// GetParameter returns the captured value for name, or def if the
	// parameter was never captured. Repeatable parameters yield an
	// ordered slice of captures.
	GetParameter(name string, def any) any
}

// Handler executes a matched command. It is invoked exactly once per
// successful Execute.
type Handler func(inv Invocation) error

// Sink receives the side effects of accepting a node. It is implemented by
// the command parser; graph code never touches parser state directly.
type Sink interface {
	// PushCommand registers a matched command for the invocation.
	PushCommand(id NodeID)

	// CaptureParameter records a converted parameter value. Repeatable
	// captures append in order; non-repeatable captures store a scalar.
	CaptureParameter(name string, value any, repeatable bool)
}

// =============================================================================
// NODE
// =============================================================================

// Node is one element of the grammar graph. The exported fields are the
// read-only description of the node; all graph wiring (successor lists,
// delegation, ownership) is held as NodeIDs in unexported fields and
// resolved through Graph methods.
type Node struct {
	// Kind discriminates the variant; it decides which predicate arms and
	// which of the remaining fields apply.
	Kind Kind

	// Symbol is the literal matched by prefix (symbols, commands,
	// wrappers, parameter names).
	Symbol string

	// Path is the full space-separated command path, set by the builder
	// for commands and wrappers. Used by help output.
	Path string

	// Help is the human-readable description.
	Help string

	// Hidden excludes the node from completion. It can still be matched
	// when typed verbatim.
	Hidden bool

	// Priority is carried but never consulted by matching.
	Priority Priority

	// Handler runs the command (commands and wrappers only).
	Handler Handler

	// ParamKind, Name, Required and Repeatable describe parameter nodes.
	ParamKind  ParamKind
	Name       string
	Required   bool
	Repeatable bool

	successors   []NodeID
	delegate     NodeID // wrapper: node whose successors we borrow
	params       []NodeID
	paramEntries []NodeID
	repeatMarker NodeID // node whose appearance disqualifies this one
	owner        NodeID // parameter: owning command
	parameter    NodeID // parameter name: the parameter it introduces
}

// =============================================================================
// GRAPH
// =============================================================================

// Graph is an arena of grammar nodes. The zero node is always the root.
type Graph struct {
	nodes []Node
}

// NewGraph creates a graph containing only a root node.
func NewGraph() *Graph {
	g := &Graph{}
	g.add(Node{
		Kind:         KindRoot,
		delegate:     NoNode,
		repeatMarker: NoNode,
		owner:        NoNode,
		parameter:    NoNode,
	})
	return g
}

// Root returns the graph's entry node.
func (g *Graph) Root() NodeID {
	return 0
}

// Node returns the node for id. The returned pointer is valid until the
// next node is added.
func (g *Graph) Node(id NodeID) *Node {
	return &g.nodes[id]
}

// Len returns the number of nodes in the arena.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// AddSuccessor appends to as a direct successor of from. Successor lists
// are closed once parsing begins.
func (g *Graph) AddSuccessor(from, to NodeID) {
	n := &g.nodes[from]
	n.successors = append(n.successors, to)
}

// add appends a node to the arena and returns its id. Callers are expected
// to have set the wiring references (delegate, repeatMarker, owner,
// parameter) to a real node or NoNode.
func (g *Graph) add(n Node) NodeID {
	g.nodes = append(g.nodes, n)
	return NodeID(len(g.nodes) - 1)
}

// =============================================================================
// SUCCESSORS
// =============================================================================

// Successors returns the effective successor set of id, in order. Commands
// offer their child symbols plus their parameter entry nodes; parameters
// offer their owning command's successors plus their own (the deliberate
// cycle); wrappers borrow their delegate's successors verbatim.
func (g *Graph) Successors(id NodeID) []NodeID {
	n := &g.nodes[id]
	switch n.Kind {
	case KindRoot, KindSymbol, KindParameterName:
		return n.successors
	case KindCommand:
		return concatIDs(n.successors, n.paramEntries)
	case KindWrapper:
		return g.Successors(n.delegate)
	case KindParameter:
		return concatIDs(g.Successors(n.owner), n.successors)
	default:
		return nil
	}
}

// Parameters returns the declared parameter nodes of a command or wrapper,
// in declaration order.
func (g *Graph) Parameters(id NodeID) []NodeID {
	return g.nodes[id].params
}

// ParameterOf returns the parameter node a parameter-name node introduces,
// or NoNode for any other kind.
func (g *Graph) ParameterOf(id NodeID) NodeID {
	if g.nodes[id].Kind != KindParameterName {
		return NoNode
	}
	return g.nodes[id].parameter
}

// =============================================================================
// PREDICATES
// =============================================================================

// Match reports whether id can consume a token with the given text. Symbols
// (and everything symbol-like) match any non-empty prefix of their literal,
// which is what lets "sho" reach "show". Open parameters match
// unconditionally. Matching the root is a programming error.
func (g *Graph) Match(id NodeID, text string) bool {
	n := &g.nodes[id]
	switch n.Kind {
	case KindRoot:
		panic("grammar: root node cannot be matched")
	case KindSymbol, KindCommand, KindWrapper, KindParameterName:
		return text != "" && strings.HasPrefix(n.Symbol, text)
	case KindParameter:
		if n.ParamKind == ParamFlag {
			return text != "" && strings.HasPrefix(flagSymbol(n.Name), text)
		}
		return true
	default:
		return false
	}
}

// Acceptable reports whether id may legally match given the nodes already
// seen in this invocation. The default rule is "never the same node twice".
// Repeatable-capable nodes (parameters and parameter names) are always
// acceptable when repeatable; otherwise they additionally require their
// repeat marker to be unseen, which is how capturing a named parameter
// through one alias retires all of its aliases.
func (g *Graph) Acceptable(id NodeID, seen []NodeID) bool {
	n := &g.nodes[id]
	switch n.Kind {
	case KindParameter, KindParameterName:
		if n.Repeatable {
			return true
		}
		if containsID(seen, id) {
			return false
		}
		return n.repeatMarker == NoNode || !containsID(seen, n.repeatMarker)
	default:
		return !containsID(seen, id)
	}
}

// Accept applies the side effect of matching id against tok: commands and
// wrappers register themselves, parameters capture their converted value,
// plain symbols and parameter names do nothing.
func (g *Graph) Accept(id NodeID, tok lexer.Token, sink Sink) {
	n := &g.nodes[id]
	switch n.Kind {
	case KindRoot:
		panic("grammar: root node cannot be accepted")
	case KindCommand, KindWrapper:
		sink.PushCommand(id)
	case KindParameter:
		sink.CaptureParameter(n.Name, g.Convert(id, tok), n.Repeatable)
	}
}

// Convert turns a matched token into the parameter's captured value. Flags
// ignore the token text and yield true; everything else captures the raw
// token text, quotes and escapes included.
func (g *Graph) Convert(id NodeID, tok lexer.Token) any {
	if g.nodes[id].ParamKind == ParamFlag {
		return true
	}
	return tok.Text
}

// =============================================================================
// HELP SURFACE
// =============================================================================

// HelpSymbol returns the token-shaped label for id: the literal for symbols
// and parameter names, "--name" for flags, "<name>" (or "<name>..." when
// repeatable) for open parameters.
func (g *Graph) HelpSymbol(id NodeID) string {
	n := &g.nodes[id]
	switch n.Kind {
	case KindSymbol, KindCommand, KindWrapper, KindParameterName:
		return n.Symbol
	case KindParameter:
		if n.ParamKind == ParamFlag {
			return flagSymbol(n.Name)
		}
		sym := "<" + n.Name + ">"
		if n.Repeatable {
			sym += "..."
		}
		return sym
	default:
		return ""
	}
}

// HelpText returns the description for id. Parameter names delegate to the
// parameter they introduce.
func (g *Graph) HelpText(id NodeID) string {
	n := &g.nodes[id]
	if n.Kind == KindParameterName {
		return g.nodes[n.parameter].Help
	}
	return n.Help
}

// =============================================================================
// HELPERS
// =============================================================================

func flagSymbol(name string) string {
	return "--" + name
}

func containsID(ids []NodeID, id NodeID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func concatIDs(a, b []NodeID) []NodeID {
	if len(b) == 0 {
		return a
	}
	out := make([]NodeID, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}
