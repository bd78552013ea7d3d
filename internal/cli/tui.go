package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/evdash/pkg/errors"
	"github.com/matzehuels/evdash/pkg/hierarchy"
	"github.com/matzehuels/evdash/pkg/render/tree/reconcile"
	"github.com/matzehuels/evdash/pkg/render/tree/sink"
	"github.com/matzehuels/evdash/pkg/treediagram"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listCollapsed     = lipgloss.NewStyle().Foreground(lipgloss.Color("111"))
	listErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// TreeModel - Interactive vehicle tree
// =============================================================================

// TreeModel is the bubbletea model for browsing the vehicle tree. Every
// toggle goes through the diagram, so the footer shows the same
// enter/update/exit counts a browser would animate.
type TreeModel struct {
	ctx     context.Context
	diagram *treediagram.Diagram

	Rows   []*hierarchy.Node
	Cursor int
	Offset int
	Height int
	Frame  reconcile.Frame
	Err    error

	Searching bool
	Query     string
}

// NewTreeModel creates a tree model showing d's current state.
func NewTreeModel(ctx context.Context, d *treediagram.Diagram) TreeModel {
	m := TreeModel{ctx: ctx, diagram: d, Height: 20, Frame: d.Frame()}
	m.refresh()
	return m
}

func (m *TreeModel) refresh() {
	m.Rows = m.diagram.Tree().Visible()
	if m.Cursor >= len(m.Rows) {
		m.Cursor = len(m.Rows) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	m.scroll()
}

func (m *TreeModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// moveTo puts the cursor on the node with id, if visible.
func (m *TreeModel) moveTo(id int) {
	for i, n := range m.Rows {
		if n.ID == id {
			m.Cursor = i
			m.scroll()
			return
		}
	}
}

func (m TreeModel) Init() tea.Cmd {
	return nil
}

func (m TreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Searching {
			return m.updateSearch(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				m.scroll()
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				m.scroll()
			}
		case "enter", " ":
			if len(m.Rows) == 0 {
				return m, nil
			}
			id := m.Rows[m.Cursor].ID
			m.Frame, m.Err = m.diagram.Click(m.ctx, id)
			m.refresh()
			m.moveTo(id)
		case "c":
			t := m.diagram.Tree()
			t.CollapseAll()
			m.Frame = m.diagram.Render(m.ctx, t.Root)
			m.Err = nil
			m.Cursor = 0
			m.refresh()
		case "/":
			m.Searching = true
			m.Query = ""
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		m.scroll()
	}
	return m, nil
}

func (m TreeModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.Searching = false
	case tea.KeyEnter:
		m.Searching = false
		leaf, f, err := m.diagram.RevealPath(m.ctx, m.Query)
		m.Err = err
		if err == nil {
			m.Frame = f
			m.refresh()
			m.moveTo(leaf.ID)
		}
	case tea.KeyBackspace:
		if r := []rune(m.Query); len(r) > 0 {
			m.Query = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.Query += string(msg.Runes)
	}
	return m, nil
}

func (m TreeModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Vehicle models"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ toggle  / find model  c collapse all  q quit"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(m.breadcrumb()))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Rows))
	for i := m.Offset; i < end; i++ {
		n := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := cursor + strings.Repeat("  ", n.Depth) + nodeIcon(n) + " " + n.Label()

		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case n.IsCollapsed():
			b.WriteString(listCollapsed.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		if n.IsLeaf() {
			b.WriteString(listDimStyle.Render("  $ " + sink.FormatPrice(n.Vehicle.Price)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.Searching {
		b.WriteString("Model: " + m.Query + "█")
	} else if m.Err != nil {
		b.WriteString(listErrorStyle.Render(errors.UserMessage(m.Err)))
	} else {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  +%d ~%d -%d",
			m.Cursor+1, len(m.Rows),
			m.Frame.Count(reconcile.Enter), m.Frame.Count(reconcile.Update), m.Frame.Count(reconcile.Exit))))
	}
	return b.String()
}

// breadcrumb names the categories above the cursor row.
func (m TreeModel) breadcrumb() string {
	if len(m.Rows) == 0 {
		return ""
	}
	n := m.Rows[m.Cursor]
	var parts []string
	for _, a := range m.diagram.Tree().Ancestors(n) {
		parts = append(parts, a.Label())
	}
	return strings.Join(append(parts, n.Label()), " › ")
}

func nodeIcon(n *hierarchy.Node) string {
	switch {
	case n.IsLeaf():
		return "•"
	case n.IsCollapsed():
		return "+"
	default:
		return "-"
	}
}

// =============================================================================
// browse command
// =============================================================================

func (c *CLI) browseCommand() *cobra.Command {
	var data dataFlags
	var reveal string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the vehicle tree in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.resolve(&data)
			ctx := cmd.Context()
			d, err := c.loadDiagram(ctx, data.vehicles, data.sales)
			if err != nil {
				return err
			}
			if reveal != "" {
				if _, _, err := d.RevealPath(ctx, reveal); err != nil {
					return err
				}
			}
			_, err = tea.NewProgram(NewTreeModel(ctx, d), tea.WithContext(ctx), tea.WithAltScreen()).Run()
			return err
		},
	}

	data.register(cmd, false, true)
	cmd.Flags().StringVar(&reveal, "reveal", "", "start with the tree opened down to this model")
	return cmd
}
