// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/jeranaias/rigsh/internal/config"
	"github.com/jeranaias/rigsh/internal/grammar"
	"github.com/jeranaias/rigsh/internal/help"
	"github.com/jeranaias/rigsh/internal/history"
	"github.com/jeranaias/rigsh/internal/lexer"
	"github.com/jeranaias/rigsh/internal/parser"
)

// ErrExit is returned by a handler to stop the read-eval loop cleanly.
var ErrExit = errors.New("exit requested")

// =============================================================================
// SHELL
// =============================================================================

// Shell drives the interactive loop over one grammar graph.
type Shell struct {
	cfg    *config.Config
	graph  *grammar.Graph
	hist   *history.Store // optional
	help   *help.Renderer
	out    io.Writer
	errOut io.Writer
}

// New creates a shell. hist may be nil to skip persistent history.
func New(cfg *config.Config, g *grammar.Graph, hist *history.Store) *Shell {
	return &Shell{
		cfg:    cfg,
		graph:  g,
		hist:   hist,
		help:   help.NewRenderer(g, cfg.Color),
		out:    os.Stdout,
		errOut: os.Stderr,
	}
}

// SetOutput redirects the shell's output streams.
func (s *Shell) SetOutput(out, errOut io.Writer) {
	s.out = out
	s.errOut = errOut
	// Styled output only makes sense on a real terminal.
	s.help = help.NewRenderer(s.graph, false)
}

// Help returns the shell's help renderer for use by command handlers.
func (s *Shell) Help() *help.Renderer {
	return s.help
}

// History returns the persistent history store, or nil.
func (s *Shell) History() *history.Store {
	return s.hist
}

// =============================================================================
// RUN LOOP
// =============================================================================

// Run reads and evaluates lines until EOF or a handler requests exit. A
// terminal gets line editing, history navigation and tab completion via
// liner; piped input is consumed line by line.
func (s *Shell) Run() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return s.runScript(os.Stdin)
	}

	ed := liner.NewLiner()
	defer ed.Close()
	ed.SetCtrlCAborts(true)
	ed.SetTabCompletionStyle(liner.TabPrints)
	ed.SetWordCompleter(s.completeWord)

	histPath, pathErr := s.cfg.HistoryFilePath()
	if pathErr == nil {
		if f, err := os.Open(histPath); err == nil {
			ed.ReadHistory(f)
			f.Close()
		}
	}

	for {
		input, err := ed.Prompt(s.cfg.Prompt)
		if err != nil {
			// Ctrl+C or Ctrl+D ends the session.
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Fprintln(s.out)
				break
			}
			return err
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		ed.AppendHistory(input)

		if err := s.Eval(input); errors.Is(err, ErrExit) {
			break
		}
	}

	if pathErr == nil {
		s.saveEditorHistory(ed, histPath)
	}
	return nil
}

// runScript evaluates piped input line by line, without prompts.
func (s *Shell) runScript(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := s.Eval(line); errors.Is(err, ErrExit) {
			return nil
		}
	}
	return scanner.Err()
}

// saveEditorHistory persists line-editor history with owner-only
// permissions.
func (s *Shell) saveEditorHistory(ed *liner.State, path string) {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	ed.WriteHistory(f)
}

// =============================================================================
// EVALUATION
// =============================================================================

// Eval runs one input line: tokenize, parse, verify, execute. Problems are
// printed rather than returned; the only error callers see is ErrExit.
func (s *Shell) Eval(line string) error {
	tokens, err := lexer.Tokenize(line)
	if err != nil {
		fmt.Fprintf(s.errOut, "Error: %v\n", err)
		return nil
	}

	if rest, ok := splitQuery(tokens); ok {
		s.query(rest)
		return nil
	}

	p := parser.New(s.graph)
	if err := p.Parse(tokens); err != nil {
		fmt.Fprintf(s.errOut, "Error: %v\n", err)
		s.record(line, p, err)
		return nil
	}

	var problems []string
	if !p.Verify(&problems) {
		for _, msg := range problems {
			fmt.Fprintln(s.errOut, msg)
		}
		return nil
	}

	execErr := p.Execute()
	s.record(line, p, execErr)
	if errors.Is(execErr, ErrExit) {
		return ErrExit
	}
	if execErr != nil {
		fmt.Fprintf(s.errOut, "Error: %v\n", execErr)
	}
	return nil
}

// record appends the line to the persistent history store, when present.
// Exit requests are recorded as clean runs.
func (s *Shell) record(line string, p *parser.Parser, execErr error) {
	if s.hist == nil {
		return
	}
	if errors.Is(execErr, ErrExit) {
		execErr = nil
	}
	if err := s.hist.Append(line, s.commandPath(p), execErr); err != nil {
		fmt.Fprintf(s.errOut, "Warning: could not record history: %v\n", err)
	}
}

// commandPath names the deepest matched command for the history record.
func (s *Shell) commandPath(p *parser.Parser) string {
	cmds := p.MatchedCommands()
	if len(cmds) == 0 {
		return ""
	}
	return s.graph.Node(cmds[len(cmds)-1]).Path
}

// =============================================================================
// QUERIES
// =============================================================================

// splitQuery reports whether the token stream ends in a "?" special and
// returns the tokens before it.
func splitQuery(tokens []lexer.Token) ([]lexer.Token, bool) {
	for i := len(tokens) - 1; i >= 0; i-- {
		switch tokens[i].Type {
		case lexer.Whitespace:
			continue
		case lexer.Special:
			if tokens[i].Text == "?" {
				return tokens[:i], true
			}
			return nil, false
		default:
			return nil, false
		}
	}
	return nil, false
}

// query prints the continuations of a partial line. A word glued to the
// "?" is treated as a partial token and filters the options.
func (s *Shell) query(tokens []lexer.Token) {
	var partial *lexer.Token
	if n := len(tokens); n > 0 && tokens[n-1].Type == lexer.Word {
		partial = &tokens[n-1]
		tokens = tokens[:n-1]
	}

	p := parser.New(s.graph)
	if err := p.Parse(tokens); err != nil {
		fmt.Fprintf(s.errOut, "Error: %v\n", err)
		return
	}

	cur := p.CurrentNode()
	if partial == nil {
		if cur == s.graph.Root() {
			fmt.Fprint(s.out, s.help.Overview())
			return
		}
		n := s.graph.Node(cur)
		if n.Kind == grammar.KindCommand || n.Kind == grammar.KindWrapper {
			fmt.Fprintln(s.out, s.help.Command(cur))
		}
	}

	comps := p.Complete(partial)
	if len(comps) == 0 {
		fmt.Fprintln(s.out, "No completions.")
		return
	}
	fmt.Fprint(s.out, s.help.Completions(comps, s.cfg.MaxCompletions))
}

// =============================================================================
// TAB COMPLETION
// =============================================================================

// completeWord bridges the grammar's completion engine to liner's word
// completer: the text up to the cursor is tokenized, complete words are
// replayed through a fresh parser, and the finished option values of the
// resulting completions become the candidate words.
func (s *Shell) completeWord(line string, pos int) (string, []string, string) {
	// pos and the lexer's token offsets are both rune indices.
	runes := []rune(line)
	head, tail := string(runes[:pos]), string(runes[pos:])

	tokens, err := lexer.Tokenize(head)
	if err != nil {
		return head, nil, tail
	}

	var partial *lexer.Token
	start := pos
	if n := len(tokens); n > 0 && tokens[n-1].Type == lexer.Word && tokens[n-1].End == pos-1 {
		partial = &tokens[n-1]
		start = partial.Start
		tokens = tokens[:n-1]
	}

	p := parser.New(s.graph)
	if err := p.Parse(tokens); err != nil {
		return head, nil, tail
	}

	var words []string
	for _, c := range p.Complete(partial) {
		for _, opt := range c.Options {
			if opt.Complete {
				words = append(words, opt.Value)
			}
		}
	}
	return string(runes[:start]), words, tail
}
