package main

import (
	"fmt"
	"strings"

	"psl-tools/cmd/pslc/psl"
	"psl-tools/cmd/pslc/pslyaml"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	traceFrame = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("62")).
			PaddingLeft(1)

	traceDetail = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

// traceModel browses the rewrite steps of one translation: a table of steps
// and the before/after terms of the selected one.
type traceModel struct {
	table table.Model
	prop  pslyaml.Property
	res   *psl.Result
	st    styles
	width int
}

func newTraceModel(p pslyaml.Property, res *psl.Result, st styles) traceModel {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "RULE", Width: 28},
		{Title: "PHASE", Width: 10},
		{Title: "ITER", Width: 5},
		{Title: "SIZE", Width: 6},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(stepRows(res.Steps)),
		table.WithFocused(true),
		table.WithHeight(min(max(len(res.Steps), 1), 15)),
	)

	ts := table.DefaultStyles()
	ts.Header = st.Rule.Underline(true).Padding(0, 1)
	ts.Selected = st.Name.Reverse(true)
	t.SetStyles(ts)

	return traceModel{table: t, prop: p, res: res, st: st, width: 80}
}

func stepRows(steps []psl.Step) []table.Row {
	rows := make([]table.Row, len(steps))
	for i, s := range steps {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			s.Rule,
			string(s.Phase),
			fmt.Sprintf("%d", s.Iteration),
			fmt.Sprintf("%d", psl.CountOps(s.After, everyNode)),
		}
	}
	return rows
}

func everyNode(*psl.Node) bool { return true }

func (m traceModel) Init() tea.Cmd {
	return nil
}

func (m traceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m traceModel) View() string {
	title := m.st.Title.Render(fmt.Sprintf("%s  [%s]  %d rewrites", m.prop.Name, m.res.Fragment, len(m.res.Steps)))
	help := m.st.Help.Render("↑/↓  navigate    q  quit")
	if len(m.res.Steps) == 0 {
		return title + "\n" + m.detail("input", m.res.Input, "output", m.res.Output) + "\n" + help
	}
	s := m.res.Steps[m.table.Cursor()]
	return title + "\n" + traceFrame.Render(m.table.View()) + "\n" + m.detail("before", s.Before, "after", s.After) + "\n" + help
}

func (m traceModel) detail(l1 string, n1 *psl.Node, l2 string, n2 *psl.Node) string {
	w := max(m.width-4, 20)
	body := m.st.Rule.Render(l1) + "\n" + psl.Print(n1) + "\n\n" +
		m.st.Rule.Render(l2) + "\n" + psl.Print(n2)
	return traceDetail.Width(w).Render(strings.TrimSpace(body))
}
