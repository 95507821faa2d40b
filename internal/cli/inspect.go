package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/swapmapper/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		flags routeFlags
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Step through the swaps inserted by a routing run",
		Long: `Route a circuit and browse its trace: one entry per two-qubit gate that
needed swaps, with the chosen path, the swaps and, for the stochastic
strategy, the winning trial and its score.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, opts, err := flags.prepare(c, cmd, args[0])
			if err != nil {
				return err
			}
			runner, res, err := c.execute(cmd.Context(), cfg, opts, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			if len(res.Report.Trace) == 0 {
				printSuccess("No swaps needed for %s", StyleHighlight.Render(res.Report.Source))
				return nil
			}
			if plain {
				fmt.Fprintln(cmd.OutOrStdout(), traceTable(res.Report.Trace, -1, 0, len(res.Report.Trace)))
				return nil
			}

			p := tea.NewProgram(NewTraceModel(res.Report),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err = p.Run()
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&plain, "plain", false, "print the trace as a table instead of the interactive viewer")
	return cmd
}

// =============================================================================
// TraceModel - Interactive trace viewer
// =============================================================================

// TraceModel is the bubbletea model for browsing a routing trace.
type TraceModel struct {
	Report pipeline.Report
	Cursor int
	Height int
	Offset int
}

// NewTraceModel creates a trace viewer for rep.
func NewTraceModel(rep pipeline.Report) TraceModel {
	return TraceModel{Report: rep, Height: 10}
}

func (m TraceModel) Init() tea.Cmd {
	return nil
}

func (m TraceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	last := len(m.Report.Trace) - 1
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < last {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(last, 0)
		}
	case tea.WindowSizeMsg:
		// Leave room for the title, summary, detail panel and table borders.
		m.Height = max(msg.Height-16, 3)
	}

	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m, nil
}

func (m TraceModel) View() string {
	var b strings.Builder
	rep := m.Report

	b.WriteString(StyleTitle.Render("Routing trace"))
	b.WriteString(" ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%s on %s", rep.Source, rep.Coupling)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%s · %s layers · %d swaps in %d layers",
		rep.Strategy, rep.LayerMode, rep.Swaps, rep.Layers)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(rep.Trace))
	b.WriteString(traceTable(rep.Trace, m.Cursor, m.Offset, end))
	b.WriteString("\n\n")

	if m.Cursor < len(rep.Trace) {
		b.WriteString(stepDetail(rep.Trace[m.Cursor]))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(rep.Trace))))

	return b.String()
}

// traceTable renders trace[from:to]; the row at cursor is highlighted.
// A negative cursor highlights nothing.
func traceTable(trace []pipeline.TraceStep, cursor, from, to int) string {
	rows := make([][]string, 0, to-from)
	for i := from; i < to; i++ {
		st := trace[i]
		mark := "  "
		if i == cursor {
			mark = "▸ "
		}
		rows = append(rows, []string{
			mark + strconv.Itoa(i),
			strconv.Itoa(st.Layer),
			st.Gate,
			formatPath(st.Path),
			strconv.Itoa(len(st.Swaps)),
		})
	}

	t := newTable("Step", "Layer", "Gate", "Path", "Swaps").Rows(rows...)
	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == -1 {
			return styleTableHeader.Padding(0, 1)
		}
		base := listNormalStyle.Padding(0, 1)
		if col == 1 || col == 4 {
			base = StyleNumber.Padding(0, 1)
		}
		if from+row == cursor {
			return base.Foreground(colorGreen).Bold(true)
		}
		return base
	})
	return t.Render()
}

// stepDetail renders the selected step below the table.
func stepDetail(st pipeline.TraceStep) string {
	var b strings.Builder
	b.WriteString(listSelectedStyle.Render(st.Gate))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  physical %d %s %d", st.From, iconArrow, st.To)))
	b.WriteString("\n")
	for _, sw := range st.Swaps {
		b.WriteString("  " + StyleHighlight.Render(sw) + "\n")
	}
	if st.Trial > 0 || st.Score > 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  trial %d · score %d", st.Trial, st.Score)))
		b.WriteString("\n")
	}
	return b.String()
}

func formatPath(path []int) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, " "+iconArrow+" ")
}
