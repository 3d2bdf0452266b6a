// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package grammar

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrBadCommandName indicates an empty or malformed dotted name.
	ErrBadCommandName = errors.New("bad command name")

	// ErrCommandExists indicates the terminal word already names a
	// command.
	ErrCommandExists = errors.New("command already exists")

	// ErrNilHandler indicates a command spec without a handler.
	ErrNilHandler = errors.New("nil handler")

	// ErrBadParameter indicates an invalid parameter spec.
	ErrBadParameter = errors.New("bad parameter")
)

// =============================================================================
// SPECS
// =============================================================================

// ParamSpec declares one parameter of a command.
type ParamSpec struct {
	// Name is the capture key, and for flags and named parameters the
	// basis of the "--name" spelling.
	Name string

	// Kind selects positional, flag, or named behavior.
	Kind ParamKind

	// Help describes the parameter.
	Help string

	// Required parameters are reported by Verify when absent.
	Required bool

	// Repeatable parameters may be captured any number of times; their
	// values accumulate in capture order.
	Repeatable bool

	// Aliases are additional spellings for named parameters ("-p" style
	// aliases are written without the leading dashes: "p" becomes "--p").
	Aliases []string
}

// CommandSpec declares a command to attach.
type CommandSpec struct {
	// Help describes the command.
	Help string

	// Handler runs the command. Required.
	Handler Handler

	// Hidden commands are matchable but never offered by completion.
	Hidden bool

	// Parameters declares the command's parameters in order.
	Parameters []ParamSpec
}

// =============================================================================
// ATTACH
// =============================================================================

// AttachCommand walks the dotted name from root, reusing symbol nodes that
// already spell a shared prefix (so "show" is created once and shared
// between "show.targets" and "show.sessions"), and creates exactly one
// command node at the terminal word. A symbol node already sitting at the
// terminal word is upgraded in place, which makes attach order irrelevant.
func (g *Graph) AttachCommand(root NodeID, name string, spec CommandSpec) (NodeID, error) {
	words, err := splitCommandName(name)
	if err != nil {
		return NoNode, err
	}
	if spec.Handler == nil {
		return NoNode, fmt.Errorf("%w for %q", ErrNilHandler, name)
	}

	current := root
	for _, word := range words[:len(words)-1] {
		child := g.findChildSymbol(current, word)
		if child == NoNode {
			child = g.add(Node{
				Kind:         KindSymbol,
				Symbol:       word,
				delegate:     NoNode,
				repeatMarker: NoNode,
				owner:        NoNode,
				parameter:    NoNode,
			})
			g.AddSuccessor(current, child)
		}
		current = child
	}

	terminal := words[len(words)-1]
	path := strings.Join(words, " ")

	id := g.findChildSymbol(current, terminal)
	switch {
	case id == NoNode:
		id = g.add(Node{
			Kind:         KindCommand,
			Symbol:       terminal,
			Path:         path,
			Help:         spec.Help,
			Hidden:       spec.Hidden,
			Handler:      spec.Handler,
			delegate:     NoNode,
			repeatMarker: NoNode,
			owner:        NoNode,
			parameter:    NoNode,
		})
		g.AddSuccessor(current, id)
	case g.nodes[id].Kind == KindSymbol:
		// "show" was created as a shared prefix earlier; promote it.
		n := &g.nodes[id]
		n.Kind = KindCommand
		n.Path = path
		n.Help = spec.Help
		n.Hidden = spec.Hidden
		n.Handler = spec.Handler
	default:
		return NoNode, fmt.Errorf("%w: %q", ErrCommandExists, name)
	}

	if err := g.attachParameters(id, spec.Parameters); err != nil {
		return NoNode, err
	}
	return id, nil
}

// AttachWrapper attaches a command under root whose successor set is
// borrowed from delegate. The wrapper matches and completes exactly like
// the node it wraps but carries its own handler; "help" wrapping the root
// is the canonical use. Because the successor set is borrowed wholesale, a
// wrapper cannot declare parameters: entries of its own would be
// unreachable.
func (g *Graph) AttachWrapper(root NodeID, name string, delegate NodeID, spec CommandSpec) (NodeID, error) {
	if name == "" || strings.ContainsAny(name, ". \t") {
		return NoNode, fmt.Errorf("%w: %q", ErrBadCommandName, name)
	}
	if spec.Handler == nil {
		return NoNode, fmt.Errorf("%w for %q", ErrNilHandler, name)
	}
	if len(spec.Parameters) > 0 {
		return NoNode, fmt.Errorf("%w: wrapper %q cannot declare parameters", ErrBadParameter, name)
	}
	if g.findChildSymbol(root, name) != NoNode {
		return NoNode, fmt.Errorf("%w: %q", ErrCommandExists, name)
	}

	id := g.add(Node{
		Kind:         KindWrapper,
		Symbol:       name,
		Path:         name,
		Help:         spec.Help,
		Hidden:       spec.Hidden,
		Handler:      spec.Handler,
		delegate:     delegate,
		repeatMarker: NoNode,
		owner:        NoNode,
		parameter:    NoNode,
	})
	g.AddSuccessor(root, id)
	return id, nil
}

// =============================================================================
// PARAMETER WIRING
// =============================================================================

// attachParameters creates the parameter nodes for cmd. Positional and
// flag parameters are offered directly as successors; named parameters are
// reached through one parameter-name node per spelling, each pointing at
// the shared parameter node and carrying it as repeat marker so a value
// supplied through any alias retires them all.
func (g *Graph) attachParameters(cmd NodeID, specs []ParamSpec) error {
	seen := make(map[string]bool, len(specs))

	for _, ps := range specs {
		if ps.Name == "" {
			return fmt.Errorf("%w: empty name", ErrBadParameter)
		}
		if seen[ps.Name] {
			return fmt.Errorf("%w: duplicate name %q", ErrBadParameter, ps.Name)
		}
		seen[ps.Name] = true
		if ps.Kind != ParamNamed && len(ps.Aliases) > 0 {
			return fmt.Errorf("%w: %q: aliases require a named parameter", ErrBadParameter, ps.Name)
		}

		pid := g.add(Node{
			Kind:         KindParameter,
			Name:         ps.Name,
			Help:         ps.Help,
			ParamKind:    ps.Kind,
			Required:     ps.Required,
			Repeatable:   ps.Repeatable,
			delegate:     NoNode,
			repeatMarker: NoNode,
			owner:        cmd,
			parameter:    NoNode,
		})
		g.nodes[cmd].params = append(g.nodes[cmd].params, pid)

		switch ps.Kind {
		case ParamSimple, ParamFlag:
			g.nodes[cmd].paramEntries = append(g.nodes[cmd].paramEntries, pid)
		case ParamNamed:
			for _, spelling := range append([]string{ps.Name}, ps.Aliases...) {
				nameID := g.add(Node{
					Kind:         KindParameterName,
					Symbol:       flagSymbol(spelling),
					Repeatable:   ps.Repeatable,
					delegate:     NoNode,
					repeatMarker: pid,
					owner:        NoNode,
					parameter:    pid,
					successors:   []NodeID{pid},
				})
				g.nodes[cmd].paramEntries = append(g.nodes[cmd].paramEntries, nameID)
			}
		default:
			return fmt.Errorf("%w: %q: unknown kind %d", ErrBadParameter, ps.Name, ps.Kind)
		}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// findChildSymbol looks for a direct successor of id spelling word. Only
// symbol-like nodes participate; parameter entries never collide with
// sub-command names.
func (g *Graph) findChildSymbol(id NodeID, word string) NodeID {
	for _, s := range g.nodes[id].successors {
		switch g.nodes[s].Kind {
		case KindSymbol, KindCommand, KindWrapper:
			if g.nodes[s].Symbol == word {
				return s
			}
		}
	}
	return NoNode
}

// splitCommandName validates and splits a dotted command name.
func splitCommandName(name string) ([]string, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty", ErrBadCommandName)
	}
	words := strings.Split(name, ".")
	for _, w := range words {
		if w == "" || strings.ContainsAny(w, " \t") {
			return nil, fmt.Errorf("%w: %q", ErrBadCommandName, name)
		}
	}
	return words, nil
}
