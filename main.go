// rigsh - an interactive console with a grammar-driven command line.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jeranaias/rigsh/internal/config"
	"github.com/jeranaias/rigsh/internal/grammar"
	"github.com/jeranaias/rigsh/internal/history"
	"github.com/jeranaias/rigsh/internal/parser"
	"github.com/jeranaias/rigsh/internal/shell"
	"github.com/jeranaias/rigsh/internal/util"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "rigsh: %v\n", err)
		os.Exit(1)
	}

	var hist *history.Store
	if dbPath, err := cfg.HistoryDBPath(); err == nil {
		if hist, err = history.Open(dbPath); err != nil {
			fmt.Fprintf(os.Stderr, "rigsh: history disabled: %v\n", err)
			hist = nil
		}
	}
	if hist != nil {
		defer hist.Close()
	}

	// Console state mutated by the command handlers.
	console := &consoleState{settings: make(map[string]string)}

	g, err := buildGrammar(console)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rigsh: bad grammar: %v\n", err)
		os.Exit(1)
	}

	sh := shell.New(cfg, g, hist)
	console.shell = sh

	if err := sh.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "rigsh: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// CONSOLE STATE
// =============================================================================

// consoleState is the mutable state behind the demo command set: the target
// connection and the key/value settings the set command maintains.
type consoleState struct {
	shell     *shell.Shell
	target    string
	port      string
	settings  map[string]string
	sessionNo int
}

// =============================================================================
// GRAMMAR
// =============================================================================

// buildGrammar assembles the console's command set.
func buildGrammar(console *consoleState) (*grammar.Graph, error) {
	g := grammar.NewGraph()

	attach := func(name string, spec grammar.CommandSpec) error {
		_, err := g.AttachCommand(g.Root(), name, spec)
		return err
	}

	specs := []struct {
		name string
		spec grammar.CommandSpec
	}{
		{"show.targets", grammar.CommandSpec{
			Help:    "List the targets this console knows about",
			Handler: console.showTargets,
		}},
		{"show.sessions", grammar.CommandSpec{
			Help:    "List open sessions",
			Handler: console.showSessions,
		}},
		{"show.version", grammar.CommandSpec{
			Help:    "Print version information",
			Handler: console.showVersion,
		}},
		{"connect", grammar.CommandSpec{
			Help:    "Open a session to a target",
			Handler: console.connect,
			Parameters: []grammar.ParamSpec{
				{Name: "target", Kind: grammar.ParamSimple, Help: "target identifier", Required: true},
				{Name: "port", Kind: grammar.ParamNamed, Help: "port to dial", Aliases: []string{"p"}},
			},
		}},
		{"disconnect", grammar.CommandSpec{
			Help:    "Close the current session",
			Handler: console.disconnect,
		}},
		{"set", grammar.CommandSpec{
			Help:    "Set a console variable",
			Handler: console.set,
			Parameters: []grammar.ParamSpec{
				{Name: "key", Kind: grammar.ParamSimple, Help: "variable name", Required: true},
				{Name: "value", Kind: grammar.ParamSimple, Help: "variable value", Required: true},
			},
		}},
		{"send", grammar.CommandSpec{
			Help:    "Send a payload to the current session",
			Handler: console.send,
			Parameters: []grammar.ParamSpec{
				// The positional payload must come before --verbose: an
				// uncaptured open parameter would swallow the flag token.
				{Name: "payload", Kind: grammar.ParamSimple, Help: "payload to send, quote to include spaces", Required: true},
				{Name: "verbose", Kind: grammar.ParamFlag, Help: "echo the payload before sending"},
			},
		}},
		{"ping", grammar.CommandSpec{
			Help:    "Probe one or more targets",
			Handler: console.ping,
			Parameters: []grammar.ParamSpec{
				{Name: "target", Kind: grammar.ParamSimple, Help: "targets to probe", Required: true, Repeatable: true},
			},
		}},
		{"history", grammar.CommandSpec{
			Help:    "Show recently executed commands",
			Handler: console.history,
			Parameters: []grammar.ParamSpec{
				{Name: "count", Kind: grammar.ParamSimple, Help: "number of entries to show"},
			},
		}},
		{"quit", grammar.CommandSpec{
			Help:    "Leave the console",
			Handler: func(grammar.Invocation) error { return shell.ErrExit },
		}},
		{"exit", grammar.CommandSpec{
			Handler: func(grammar.Invocation) error { return shell.ErrExit },
			Hidden:  true,
		}},
	}
	for _, s := range specs {
		if err := attach(s.name, s.spec); err != nil {
			return nil, fmt.Errorf("attach %s: %w", s.name, err)
		}
	}

	// help borrows the whole top-level grammar: "help connect" traverses
	// the same nodes "connect" would, then explains instead of executing.
	if _, err := g.AttachWrapper(g.Root(), "help", g.Root(), grammar.CommandSpec{
		Help:    "Explain a command",
		Handler: console.helpCommand(g),
	}); err != nil {
		return nil, fmt.Errorf("attach help: %w", err)
	}

	return g, nil
}

// =============================================================================
// HANDLERS
// =============================================================================

// demo target inventory
var knownTargets = []string{"rig-01", "rig-02", "bench-sim"}

func (c *consoleState) showTargets(grammar.Invocation) error {
	for _, t := range knownTargets {
		marker := " "
		if t == c.target {
			marker = "*"
		}
		fmt.Printf("%s %s\n", marker, t)
	}
	return nil
}

func (c *consoleState) showSessions(grammar.Invocation) error {
	if c.target == "" {
		fmt.Println("No open sessions.")
		return nil
	}
	port := c.port
	if port == "" {
		port = "default"
	}
	fmt.Printf("session %d: %s (port %s)\n", c.sessionNo, c.target, port)
	return nil
}

func (c *consoleState) showVersion(grammar.Invocation) error {
	fmt.Printf("rigsh %s (%s, built %s)\n", Version, GitCommit, BuildDate)
	return nil
}

func (c *consoleState) connect(inv grammar.Invocation) error {
	target := inv.GetParameter("target", "").(string)
	port, _ := inv.GetParameter("port", "").(string)
	if port != "" {
		if _, err := strconv.Atoi(port); err != nil {
			return fmt.Errorf("port must be a number, got %q", port)
		}
	}

	c.target = target
	c.port = port
	c.sessionNo++
	fmt.Printf("Connected to %s.\n", target)
	return nil
}

func (c *consoleState) disconnect(grammar.Invocation) error {
	if c.target == "" {
		return fmt.Errorf("no open session")
	}
	fmt.Printf("Disconnected from %s.\n", c.target)
	c.target = ""
	c.port = ""
	return nil
}

func (c *consoleState) set(inv grammar.Invocation) error {
	key := inv.GetParameter("key", "").(string)
	value := inv.GetParameter("value", "").(string)
	c.settings[key] = value
	fmt.Printf("%s = %s\n", key, value)
	return nil
}

func (c *consoleState) send(inv grammar.Invocation) error {
	if c.target == "" {
		return fmt.Errorf("no open session; connect first")
	}

	payload := inv.GetParameter("payload", "").(string)
	if inv.GetParameter("verbose", false) == true {
		fmt.Printf("payload: %s\n", payload)
	}
	fmt.Printf("Sent %d byte(s) to %s.\n", len(payload), c.target)
	return nil
}

func (c *consoleState) ping(inv grammar.Invocation) error {
	captured, _ := inv.GetParameter("target", nil).([]any)
	for _, t := range captured {
		fmt.Printf("%s: ok\n", t)
	}
	return nil
}

func (c *consoleState) history(inv grammar.Invocation) error {
	store := c.shell.History()
	if store == nil {
		return fmt.Errorf("history is disabled")
	}

	count := 10
	if raw, ok := inv.GetParameter("count", "").(string); ok && raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return fmt.Errorf("count must be a positive number, got %q", raw)
		}
		count = n
	}

	entries, err := store.Recent(count)
	if err != nil {
		return err
	}
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		status := ""
		if e.Error != "" {
			status = "  [failed: " + util.TruncateRunes(e.Error, 40) + "]"
		}
		fmt.Printf("%s  %s%s\n", e.CreatedAt.Format("15:04:05"), util.TruncateRunes(e.Line, 80), status)
	}
	return nil
}

// commandLister is the slice of the parser the help handler needs.
type commandLister interface {
	MatchedCommands() []grammar.NodeID
}

// helpCommand renders help for whatever the wrapper traversed: the overview
// for a bare "help", the full command block otherwise.
func (c *consoleState) helpCommand(g *grammar.Graph) grammar.Handler {
	return func(inv grammar.Invocation) error {
		r := c.shell.Help()

		lister, ok := inv.(commandLister)
		if !ok {
			fmt.Print(r.Overview())
			return nil
		}

		// The wrapper itself is on the stack; anything after it is the
		// command the user asked about.
		cmds := lister.MatchedCommands()
		if len(cmds) <= 1 {
			fmt.Print(r.Overview())
			return nil
		}
		fmt.Println(r.Command(cmds[len(cmds)-1]))
		return nil
	}
}

var _ commandLister = (*parser.Parser)(nil)
