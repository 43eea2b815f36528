package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/skysurvey/ssc-view/internal/query"
)

// Form field indices, in focus order.
const (
	fieldObservatories = iota
	fieldStart
	fieldEnd
	fieldSystem
	fieldCount
)

// Defaults pre-filled into the form on startup.
const (
	defaultFormObservatories = "ace,wind,goes17,goes16"
	defaultFormStart         = "2024-01-01T00:00"
	defaultFormEnd           = "2024-01-01T01:00"
	defaultFormSystem        = "GSE"
)

// FormModel is the query form: satellite list, time window and
// coordinate system, with inline validation.
type FormModel struct {
	inputs  []textinput.Model
	focus   int
	editing bool

	width   int
	height  int
	loading bool
	errMsg  string
}

// NewFormModel builds the form with defaults filled in.
func NewFormModel() FormModel {
	labels := []struct {
		placeholder string
		value       string
		limit       int
	}{
		{"comma-separated satellite codes", defaultFormObservatories, 200},
		{query.InputTimeLayout, defaultFormStart, 20},
		{query.InputTimeLayout, defaultFormEnd, 20},
		{"GSE, GSM, GEO, SM, ...", defaultFormSystem, 10},
	}

	inputs := make([]textinput.Model, fieldCount)
	for i, l := range labels {
		in := textinput.New()
		in.Placeholder = l.placeholder
		in.SetValue(l.value)
		in.CharLimit = l.limit
		in.Width = 40
		inputs[i] = in
	}
	inputs[fieldObservatories].Focus()

	return FormModel{
		inputs:  inputs,
		focus:   fieldObservatories,
		editing: true,
	}
}

// Init implements the sub-model convention.
func (m FormModel) Init() tea.Cmd {
	return textinput.Blink
}

// Editing reports whether a field currently has focus, which means the
// form owns tab and letter keys.
func (m FormModel) Editing() bool {
	return m.editing
}

// SetSize updates the viewport size.
func (m FormModel) SetSize(width, height int) FormModel {
	m.width = width
	m.height = height
	return m
}

// SetLoading toggles the submit lock while a fetch is in flight.
func (m FormModel) SetLoading(loading bool) FormModel {
	m.loading = loading
	return m
}

// SetError sets the inline error line, empty to clear.
func (m FormModel) SetError(msg string) FormModel {
	m.errMsg = msg
	return m
}

// Update handles input messages.
func (m FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.editing = false
			m.inputs[m.focus].Blur()
			return m, nil

		case "tab", "down":
			if !m.editing {
				break
			}
			return m.moveFocus(1), nil
		case "shift+tab", "up":
			if !m.editing {
				break
			}
			return m.moveFocus(-1), nil

		case "enter":
			return m.submit()

		default:
			if !m.editing {
				// Any plain key re-enters the form.
				m.editing = true
				m.inputs[m.focus].Focus()
			}
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m FormModel) moveFocus(delta int) FormModel {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + fieldCount) % fieldCount
	m.inputs[m.focus].Focus()
	return m
}

// submit validates the form and emits a SubmitMsg, or records the first
// problem inline.
func (m FormModel) submit() (FormModel, tea.Cmd) {
	if m.loading {
		m.errMsg = "a request is already in flight"
		return m, nil
	}

	params, err := m.params()
	if err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	if err := params.Validate(); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}

	m.errMsg = ""
	return m, func() tea.Msg {
		return SubmitMsg{Params: params}
	}
}

// params assembles the form values, parsing the time fields.
func (m FormModel) params() (query.Params, error) {
	p := query.Params{
		Observatories: strings.TrimSpace(m.inputs[fieldObservatories].Value()),
		System:        strings.TrimSpace(m.inputs[fieldSystem].Value()),
	}

	if raw := strings.TrimSpace(m.inputs[fieldStart].Value()); raw != "" {
		t, err := query.ParseLocalTime(raw)
		if err != nil {
			return p, fmt.Errorf("start time: expected %s", query.InputTimeLayout)
		}
		p.Start = t
	}
	if raw := strings.TrimSpace(m.inputs[fieldEnd].Value()); raw != "" {
		t, err := query.ParseLocalTime(raw)
		if err != nil {
			return p, fmt.Errorf("end time: expected %s", query.InputTimeLayout)
		}
		p.End = t
	}

	return p, nil
}

// View renders the form.
func (m FormModel) View() string {
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#2DD4BF")).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(20)
	focusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Width(20)
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	names := []string{"Satellites", "Start (local)", "End (local)", "Coordinate system"}

	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(titleStyle.Render("Query satellite locations"))
	b.WriteString("\n\n")

	for i, in := range m.inputs {
		style := labelStyle
		if i == m.focus && m.editing {
			style = focusStyle
		}
		b.WriteString("  ")
		b.WriteString(style.Render(names[i]))
		b.WriteString(in.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.loading:
		b.WriteString("  " + dimStyle.Render("Fetching locations..."))
	case m.errMsg != "":
		b.WriteString("  " + errorStyle.Render(m.errMsg))
	default:
		b.WriteString("  " + dimStyle.Render("Press enter to fetch"))
	}
	b.WriteString("\n")

	return b.String()
}
