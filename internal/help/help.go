// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package help

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigsh/internal/grammar"
	"github.com/jeranaias/rigsh/internal/util"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	usageStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")) // Cyan

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")) // White

	symbolStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")) // Green

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")) // Light gray
)

// Renderer formats help text for grammar nodes.
type Renderer struct {
	graph *grammar.Graph
	color bool
}

// NewRenderer creates a renderer over g. With color disabled all styling is
// skipped and plain text comes out.
func NewRenderer(g *grammar.Graph, color bool) *Renderer {
	return &Renderer{graph: g, color: color}
}

func (r *Renderer) styled(s lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return s.Render(text)
}

// =============================================================================
// COMMAND HELP
// =============================================================================

// Command renders the full help block for a command or wrapper node: usage
// line, description, sub-commands, and a parameter table.
func (r *Renderer) Command(id grammar.NodeID) string {
	n := r.graph.Node(id)
	var b strings.Builder

	b.WriteString(r.styled(usageStyle, "Usage: "+r.usageLine(id)))
	b.WriteString("\n")
	if n.Help != "" {
		b.WriteString("\n" + n.Help + "\n")
	}

	if subs := r.subCommands(id); len(subs) > 0 {
		b.WriteString("\n" + r.styled(sectionStyle, "Commands:") + "\n")
		b.WriteString(r.table(subs))
	}
	if params := r.parameterRows(id); len(params) > 0 {
		b.WriteString("\n" + r.styled(sectionStyle, "Parameters:") + "\n")
		b.WriteString(r.table(params))
	}
	return b.String()
}

// Overview renders the top-level command list for a grammar.
func (r *Renderer) Overview() string {
	var b strings.Builder
	b.WriteString(r.styled(sectionStyle, "Commands:") + "\n")
	b.WriteString(r.table(r.subCommands(r.graph.Root())))
	b.WriteString("\n" + r.styled(dimStyle, `Append "?" to any partial command to see what can come next.`) + "\n")
	return b.String()
}

// usageLine assembles "path <param> [--flag]" for a command.
func (r *Renderer) usageLine(id grammar.NodeID) string {
	n := r.graph.Node(id)
	parts := []string{n.Path}
	for _, pid := range r.graph.Parameters(id) {
		p := r.graph.Node(pid)
		sym := r.graph.HelpSymbol(pid)
		if p.ParamKind == grammar.ParamNamed {
			sym = "--" + p.Name + " " + sym
		}
		if p.Required {
			parts = append(parts, sym)
		} else {
			parts = append(parts, "["+sym+"]")
		}
	}
	return strings.Join(parts, " ")
}

// row is one aligned symbol/description pair.
type row struct {
	symbol string
	help   string
}

// subCommands collects the visible command successors of id, sorted by
// symbol.
func (r *Renderer) subCommands(id grammar.NodeID) []row {
	var rows []row
	for _, s := range r.graph.Successors(id) {
		n := r.graph.Node(s)
		if n.Hidden {
			continue
		}
		switch n.Kind {
		case grammar.KindSymbol, grammar.KindCommand, grammar.KindWrapper:
			rows = append(rows, row{symbol: n.Symbol, help: r.graph.HelpText(s)})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].symbol < rows[j].symbol })
	return rows
}

// parameterRows collects the declared parameters of a command, in
// declaration order.
func (r *Renderer) parameterRows(id grammar.NodeID) []row {
	var rows []row
	for _, pid := range r.graph.Parameters(id) {
		rows = append(rows, row{
			symbol: r.graph.HelpSymbol(pid),
			help:   r.graph.HelpText(pid),
		})
	}
	return rows
}

// table renders aligned two-column output. Width accounting is
// display-width aware so CJK symbols stay aligned.
func (r *Renderer) table(rows []row) string {
	width := 0
	for _, row := range rows {
		if w := util.StringWidth(row.symbol); w > width {
			width = w
		}
	}

	var b strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&b, "  %s  %s\n",
			r.styled(symbolStyle, util.PadWidth(row.symbol, width)),
			row.help)
	}
	return b.String()
}

// =============================================================================
// COMPLETION DISPLAY
// =============================================================================

// Completions renders the option lists produced by a `?` query, one line
// per continuation. max caps the number of option values shown per line;
// zero means unlimited.
func (r *Renderer) Completions(comps []grammar.Completion, max int) string {
	var b strings.Builder

	width := 0
	for _, c := range comps {
		if w := util.StringWidth(c.HelpSymbol); w > width {
			width = w
		}
	}

	for _, c := range comps {
		line := "  " + r.styled(symbolStyle, util.PadWidth(c.HelpSymbol, width))
		if c.HelpText != "" {
			line += "  " + c.HelpText
		}
		b.WriteString(line + "\n")

		values := completeValues(c, max)
		if len(values) > 1 {
			b.WriteString("    " + r.styled(dimStyle, strings.Join(values, "  ")) + "\n")
		}
	}
	return b.String()
}

// completeValues extracts the finished option values of a completion,
// capped at max when max is positive.
func completeValues(c grammar.Completion, max int) []string {
	var values []string
	for _, opt := range c.Options {
		if !opt.Complete {
			continue
		}
		if max > 0 && len(values) == max {
			break
		}
		values = append(values, opt.Value)
	}
	return values
}
