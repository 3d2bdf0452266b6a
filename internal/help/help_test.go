// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package help

import (
	"strings"
	"testing"

	"github.com/jeranaias/rigsh/internal/grammar"
)

func buildGraph(t *testing.T) (*grammar.Graph, grammar.NodeID) {
	t.Helper()
	g := grammar.NewGraph()
	nop := func(grammar.Invocation) error { return nil }

	connect, err := g.AttachCommand(g.Root(), "connect", grammar.CommandSpec{
		Help:    "Open a session to a target",
		Handler: nop,
		Parameters: []grammar.ParamSpec{
			{Name: "target", Kind: grammar.ParamSimple, Help: "target identifier", Required: true},
			{Name: "port", Kind: grammar.ParamNamed, Help: "port to dial"},
		},
	})
	if err != nil {
		t.Fatalf("AttachCommand: %v", err)
	}
	if _, err := g.AttachCommand(g.Root(), "show.targets", grammar.CommandSpec{
		Help:    "List known targets",
		Handler: nop,
	}); err != nil {
		t.Fatalf("AttachCommand: %v", err)
	}
	if _, err := g.AttachCommand(g.Root(), "exit", grammar.CommandSpec{
		Handler: nop,
		Hidden:  true,
	}); err != nil {
		t.Fatalf("AttachCommand: %v", err)
	}
	return g, connect
}

func TestCommandHelp(t *testing.T) {
	g, connect := buildGraph(t)
	r := NewRenderer(g, false)

	out := r.Command(connect)
	if !strings.Contains(out, "Usage: connect <target> [--port <port>]") {
		t.Errorf("usage line missing or wrong:\n%s", out)
	}
	if !strings.Contains(out, "Open a session to a target") {
		t.Errorf("description missing:\n%s", out)
	}
	if !strings.Contains(out, "<target>") || !strings.Contains(out, "target identifier") {
		t.Errorf("parameter table missing:\n%s", out)
	}
}

func TestOverview(t *testing.T) {
	g, _ := buildGraph(t)
	r := NewRenderer(g, false)

	out := r.Overview()
	if !strings.Contains(out, "connect") || !strings.Contains(out, "show") {
		t.Errorf("overview missing commands:\n%s", out)
	}
	if strings.Contains(out, "exit") {
		t.Errorf("hidden command leaked into overview:\n%s", out)
	}
}

func TestCompletionsDisplay(t *testing.T) {
	g, _ := buildGraph(t)
	r := NewRenderer(g, false)

	comps := []grammar.Completion{
		{
			HelpSymbol: "<mode>",
			HelpText:   "operating mode",
			Options: []grammar.CompletionOption{
				{Value: "standby", Complete: true},
				{Value: "started", Complete: true},
				{Value: "st", Complete: false},
			},
		},
	}

	out := r.Completions(comps, 0)
	if !strings.Contains(out, "<mode>") || !strings.Contains(out, "operating mode") {
		t.Errorf("completion header missing:\n%s", out)
	}
	if !strings.Contains(out, "standby") || !strings.Contains(out, "started") {
		t.Errorf("option values missing:\n%s", out)
	}
	if strings.Contains(out, "\n    st\n") {
		t.Errorf("incomplete option leaked into value list:\n%s", out)
	}

	// The cap limits printed values.
	out = r.Completions(comps, 1)
	if strings.Contains(out, "started") {
		t.Errorf("cap of 1 still printed the second value:\n%s", out)
	}
}
