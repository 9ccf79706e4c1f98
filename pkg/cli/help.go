package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/replicate/sigcli/pkg/core"
	"github.com/replicate/sigcli/pkg/util/console"
)

const (
	argumentsPanel = "Arguments"
	optionsPanel   = "Options"
	commandsPanel  = "Commands"

	// Help text is never wrapped narrower than this.
	minHelpWidth = 20
)

// usageLine is e.g. "greet hello [OPTIONS] NAME [FILES]...".
func usageLine(n *node) string {
	parts := []string{n.cmd.CommandPath(), "[OPTIONS]"}
	for _, p := range n.params {
		if p.IsOption() || p.Hidden {
			continue
		}
		parts = append(parts, argumentMetavar(p))
	}
	if n.isGroup() {
		parts = append(parts, "COMMAND [ARGS]...")
	}
	return strings.Join(parts, " ")
}

func argumentMetavar(p *core.Parameter) string {
	mv := p.Metavar
	if mv == "" {
		mv = strings.ToUpper(p.Name)
	}
	if !p.Required {
		mv = "[" + mv + "]"
	}
	if p.Nargs != 1 {
		mv += "..."
	}
	return mv
}

// panel is one titled section of the help page.
type panel struct {
	title string
	rows  [][]string
}

type panels struct {
	order []string
	byKey map[string]*panel
}

func (ps *panels) add(title string, row []string) {
	ps.ensure(title)
	ps.byKey[title].rows = append(ps.byKey[title].rows, row)
}

// ensure reserves the position of a panel before any row is added.
func (ps *panels) ensure(title string) {
	if ps.byKey == nil {
		ps.byKey = map[string]*panel{}
	}
	if _, ok := ps.byKey[title]; !ok {
		ps.byKey[title] = &panel{title: title}
		ps.order = append(ps.order, title)
	}
}

// renderHelp writes the help page of n: usage, description, then the
// parameters and subcommands grouped by panel.
func (r *runner) renderHelp(w io.Writer, n *node) {
	fmt.Fprintf(w, "Usage: %s\n", usageLine(n))
	if n.cmd.Short != "" {
		fmt.Fprintf(w, "\n  %s\n", n.cmd.Short)
	}
	if n.cmd.Long != "" {
		for _, line := range strings.Split(n.cmd.Long, "\n") {
			if line == "" {
				fmt.Fprintln(w)
				continue
			}
			fmt.Fprintf(w, "  %s\n", line)
		}
	}

	var ps panels
	for _, p := range n.params {
		if p.IsOption() {
			continue
		}
		rec, ok := p.HelpRecord(nil)
		if !ok {
			continue
		}
		ps.add(firstNonEmpty(p.Panel, argumentsPanel), []string{rec.Name, p.TypeName(), rec.Help})
	}
	ps.ensure(optionsPanel)
	var ctx *core.Context
	for _, x := range n.ancestry() {
		ctx = r.context(ctx, x, true)
	}
	for _, p := range n.params {
		if !p.IsOption() {
			continue
		}
		rec, ok := p.HelpRecord(ctx)
		if !ok {
			continue
		}
		ps.add(firstNonEmpty(p.Panel, optionsPanel), []string{rec.Name, rec.Help})
	}
	if n.parent == nil && n.cmd.Version != "" {
		ps.add(optionsPanel, []string{"--version", "Show the version and exit."})
	}
	ps.add(optionsPanel, []string{"--help", "Show this message and exit."})

	for _, c := range n.cmd.Commands() {
		child, ok := r.nodes[c]
		if !ok || c.Hidden {
			continue
		}
		ps.add(firstNonEmpty(child.panel, commandsPanel), []string{c.Name(), c.Short})
	}

	for _, title := range ps.order {
		p := ps.byKey[title]
		if len(p.rows) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", console.Bold(p.title+":"))
		writeRows(w, p.rows)
	}
}

func writeRows(w io.Writer, rows [][]string) {
	for _, row := range rows {
		row[0] = "  " + row[0]
	}
	table := tablewriter.NewWriter(w)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	if width := console.Width(w); width > 0 {
		first := 0
		for _, row := range rows {
			first = max(first, len(row[0]))
		}
		table.SetAutoWrapText(true)
		table.SetColWidth(max(width-first-2, minHelpWidth))
	}
	table.SetAutoFormatHeaders(false)
	table.SetHeaderLine(false)
	table.SetColumnSeparator("")
	table.SetCenterSeparator("")
	table.SetRowSeparator("")
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk(rows)
	table.Render()
}
