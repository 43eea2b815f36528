package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/skysurvey/ssc-view/internal/query"
)

// DataViewModel shows the raw fetched vertices as a scrollable table.
type DataViewModel struct {
	width  int
	height int

	params query.Params
	result *query.Result
	labels []string

	scroll int
}

// NewDataViewModel creates an empty data view.
func NewDataViewModel() DataViewModel {
	return DataViewModel{}
}

// SetSize updates the viewport size.
func (m DataViewModel) SetSize(width, height int) DataViewModel {
	m.width = width
	m.height = height
	return m
}

// SetResult replaces the displayed result.
func (m DataViewModel) SetResult(p query.Params, r *query.Result) DataViewModel {
	m.params = p
	m.result = r
	m.labels = r.Labels
	m.scroll = 0
	return m
}

// SetLabels swaps in upgraded display names without touching the result.
func (m DataViewModel) SetLabels(labels []string) DataViewModel {
	if m.result != nil && len(labels) == len(m.result.Vertices) {
		m.labels = labels
	}
	return m
}

// Update handles input messages.
func (m DataViewModel) Update(msg tea.Msg) (DataViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.scroll > 0 {
				m.scroll--
			}
		case "down", "j":
			if m.scroll < m.maxScroll() {
				m.scroll++
			}
		case "pgup":
			m.scroll -= m.pageSize()
			if m.scroll < 0 {
				m.scroll = 0
			}
		case "pgdown":
			m.scroll += m.pageSize()
			if max := m.maxScroll(); m.scroll > max {
				m.scroll = max
			}
		case "home", "g":
			m.scroll = 0
		case "end", "G":
			m.scroll = m.maxScroll()
		}
	}
	return m, nil
}

func (m DataViewModel) pageSize() int {
	n := m.height - 6
	if n < 1 {
		return 1
	}
	return n
}

func (m DataViewModel) maxScroll() int {
	if m.result == nil {
		return 0
	}
	max := len(m.result.Vertices) - m.pageSize()
	if max < 0 {
		return 0
	}
	return max
}

// View renders the table.
func (m DataViewModel) View() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	if m.result == nil {
		return "\n  " + dimStyle.Render("No data yet. Submit a query first.")
	}

	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#2DD4BF")).Bold(true)
	headStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("46"))

	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(titleStyle.Render(fmt.Sprintf("Fetched points · %s · %s",
		strings.Join(m.params.ObservatoryCodes(), ","), strings.ToUpper(m.params.System))))
	b.WriteString("\n\n")

	if m.result.Empty() {
		msg := m.result.Message
		if msg == "" {
			msg = "No data points."
		}
		b.WriteString("  " + dimStyle.Render(msg) + "\n")
		return b.String()
	}

	b.WriteString("  ")
	b.WriteString(headStyle.Render(fmt.Sprintf("%-5s %-16s %12s %12s %12s", "#", "satellite", "x", "y", "z")))
	b.WriteString("\n")

	end := m.scroll + m.pageSize()
	if end > len(m.result.Vertices) {
		end = len(m.result.Vertices)
	}
	for i := m.scroll; i < end; i++ {
		v := m.result.Vertices[i]
		label := ""
		if i < len(m.labels) {
			label = m.labels[i]
		}
		b.WriteString("  ")
		b.WriteString(rowStyle.Render(fmt.Sprintf("%-5d ", i)))
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-16s", label)))
		b.WriteString(rowStyle.Render(fmt.Sprintf(" %12.6f %12.6f %12.6f", v[0], v[1], v[2])))
		b.WriteString("\n")
	}

	b.WriteString("  ")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d-%d of %d", m.scroll+1, end, len(m.result.Vertices))))
	b.WriteString("\n")

	return b.String()
}
