// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jeranaias/rigsh/internal/config"
	"github.com/jeranaias/rigsh/internal/grammar"
	"github.com/jeranaias/rigsh/internal/history"
)

// newTestShell builds a shell over a small grammar with buffered output.
func newTestShell(t *testing.T, calls map[string]int) (*Shell, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	g := grammar.NewGraph()

	count := func(name string) grammar.Handler {
		return func(grammar.Invocation) error {
			calls[name]++
			return nil
		}
	}

	if _, err := g.AttachCommand(g.Root(), "show.targets", grammar.CommandSpec{
		Help:    "List targets",
		Handler: count("show targets"),
	}); err != nil {
		t.Fatalf("AttachCommand: %v", err)
	}
	if _, err := g.AttachCommand(g.Root(), "connect", grammar.CommandSpec{
		Help:    "Open a session",
		Handler: count("connect"),
		Parameters: []grammar.ParamSpec{
			{Name: "target", Kind: grammar.ParamSimple, Required: true},
		},
	}); err != nil {
		t.Fatalf("AttachCommand: %v", err)
	}
	if _, err := g.AttachCommand(g.Root(), "quit", grammar.CommandSpec{
		Help:    "Leave the shell",
		Handler: func(grammar.Invocation) error { return ErrExit },
	}); err != nil {
		t.Fatalf("AttachCommand: %v", err)
	}

	s := New(config.Default(), g, nil)
	var out, errOut bytes.Buffer
	s.SetOutput(&out, &errOut)
	return s, &out, &errOut
}

func TestEvalExecutes(t *testing.T) {
	calls := make(map[string]int)
	s, _, errOut := newTestShell(t, calls)

	if err := s.Eval("show targets"); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if calls["show targets"] != 1 {
		t.Errorf("handler ran %d times, want once", calls["show targets"])
	}
	if errOut.Len() != 0 {
		t.Errorf("unexpected error output: %s", errOut.String())
	}
}

func TestEvalUnknownCommand(t *testing.T) {
	s, _, errOut := newTestShell(t, make(map[string]int))

	if err := s.Eval("frobnicate"); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !strings.Contains(errOut.String(), "no match") {
		t.Errorf("error output = %q, want a no-match message", errOut.String())
	}
}

func TestEvalVerifyProblems(t *testing.T) {
	calls := make(map[string]int)
	s, _, errOut := newTestShell(t, calls)

	if err := s.Eval("connect"); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !strings.Contains(errOut.String(), `Missing required parameter "target".`) {
		t.Errorf("error output = %q", errOut.String())
	}
	if calls["connect"] != 0 {
		t.Error("incomplete command still executed")
	}
}

func TestEvalExit(t *testing.T) {
	s, _, _ := newTestShell(t, make(map[string]int))

	if err := s.Eval("quit"); !errors.Is(err, ErrExit) {
		t.Errorf("Eval(quit) = %v, want ErrExit", err)
	}
}

func TestQueryOverview(t *testing.T) {
	s, out, _ := newTestShell(t, make(map[string]int))

	if err := s.Eval("?"); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	for _, want := range []string{"show", "connect", "quit"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("overview missing %q:\n%s", want, out.String())
		}
	}
}

func TestQueryContinuations(t *testing.T) {
	s, out, _ := newTestShell(t, make(map[string]int))

	if err := s.Eval("show ?"); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !strings.Contains(out.String(), "targets") {
		t.Errorf("query output missing continuation:\n%s", out.String())
	}
}

func TestQueryPartialWord(t *testing.T) {
	s, out, _ := newTestShell(t, make(map[string]int))

	if err := s.Eval("conn?"); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !strings.Contains(out.String(), "connect") {
		t.Errorf("partial query missing match:\n%s", out.String())
	}
	if strings.Contains(out.String(), "quit") {
		t.Errorf("partial query leaked non-matching command:\n%s", out.String())
	}
}

func TestCompleteWord(t *testing.T) {
	s, _, _ := newTestShell(t, make(map[string]int))

	head, words, tail := s.completeWord("sh", 2)
	if head != "" || tail != "" {
		t.Errorf("head/tail = %q/%q, want empty", head, tail)
	}
	if len(words) != 1 || words[0] != "show" {
		t.Errorf("words = %v, want [show]", words)
	}

	// Completing after a finished word offers the next level.
	_, words, _ = s.completeWord("show ", 5)
	found := false
	for _, w := range words {
		if w == "targets" {
			found = true
		}
	}
	if !found {
		t.Errorf("words after 'show ' = %v, want targets present", words)
	}
}

func TestEvalRecordsHistory(t *testing.T) {
	calls := make(map[string]int)
	s, _, _ := newTestShell(t, calls)

	hist, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	defer hist.Close()
	s.hist = hist

	if err := s.Eval("show targets"); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	entries, err := hist.Recent(1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 1 || entries[0].Command != "show targets" {
		t.Errorf("recorded entries = %+v", entries)
	}
}

func TestRunScript(t *testing.T) {
	calls := make(map[string]int)
	s, _, _ := newTestShell(t, calls)

	script := "show targets\n\nquit\nshow targets\n"
	if err := s.runScript(strings.NewReader(script)); err != nil {
		t.Fatalf("runScript: %v", err)
	}
	if calls["show targets"] != 1 {
		t.Errorf("handler ran %d times; quit should stop the script", calls["show targets"])
	}
}
