// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/skysurvey/ssc-view/internal/query"
	"github.com/skysurvey/ssc-view/internal/scene"
	"github.com/skysurvey/ssc-view/internal/state"
	"github.com/skysurvey/ssc-view/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewQuery ViewMode = iota
	ViewScene
	ViewData
)

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic status refreshes.
	TickMsg time.Time

	// AnimTickMsg drives the scene animation loop.
	AnimTickMsg time.Time

	// SubmitMsg carries a validated query from the form.
	SubmitMsg struct {
		Params query.Params
	}

	// fetchDoneMsg carries the outcome of an async location fetch.
	fetchDoneMsg struct {
		params   query.Params
		result   *query.Result
		duration time.Duration
		err      error
	}

	// catalogMsg carries the observatory name catalog, tagged with the
	// scene generation it was requested for.
	catalogMsg struct {
		generation uint64
		list       []query.Observatory
		err        error
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	state  *state.Manager
	client *query.Client

	// UI state
	viewMode  ViewMode
	width     int
	height    int
	ready     bool
	statusMsg string
	animTick  int

	// Sub-models
	form      FormModel
	sceneView SceneViewModel
	dataView  DataViewModel

	// Current scene and the state generation it was built from. Late
	// catalog results for an older generation are discarded.
	scene    *scene.Scene
	sceneGen uint64

	snapshot state.Snapshot
}

// New creates the root UI model.
func New(stateMgr *state.Manager, client *query.Client) Model {
	return Model{
		state:     stateMgr,
		client:    client,
		viewMode:  ViewQuery,
		form:      NewFormModel(),
		sceneView: NewSceneViewModel(),
		dataView:  NewDataViewModel(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		animTickCmd(),
		m.form.Init(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			// The form owns plain letter keys while editing.
			if m.viewMode != ViewQuery {
				return m, tea.Quit
			}
			cmds = append(cmds, m.updateActiveView(msg))

		case "tab":
			if m.viewMode == ViewQuery && m.form.Editing() {
				// Tab cycles fields inside the form.
				cmds = append(cmds, m.updateActiveView(msg))
			} else {
				m.viewMode = (m.viewMode + 1) % 3
			}

		case "1":
			if m.viewMode != ViewQuery {
				m.viewMode = ViewQuery
			} else {
				cmds = append(cmds, m.updateActiveView(msg))
			}
		case "2":
			if m.viewMode != ViewQuery {
				m.viewMode = ViewScene
			} else {
				cmds = append(cmds, m.updateActiveView(msg))
			}
		case "3":
			if m.viewMode != ViewQuery {
				m.viewMode = ViewData
			} else {
				cmds = append(cmds, m.updateActiveView(msg))
			}

		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Header takes ~8 lines, footer ~2.
		contentHeight := msg.Height - 10
		m.form = m.form.SetSize(msg.Width, contentHeight)
		m.sceneView = m.sceneView.SetSize(msg.Width, contentHeight)
		m.dataView = m.dataView.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd())
		m.snapshot = m.state.Snapshot()

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++
		if m.scene != nil {
			m.scene.Advance()
		}

	case SubmitMsg:
		if cmd := m.beginFetch(msg.Params); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case fetchDoneMsg:
		gen := m.state.FinishFetch(msg.params, msg.result, msg.duration, msg.err)
		m.snapshot = m.state.Snapshot()
		m.form = m.form.SetLoading(false)

		if msg.err != nil {
			m.form = m.form.SetError(fetchErrorMessage(msg.err))
			m.viewMode = ViewQuery
			break
		}

		m.form = m.form.SetError("")
		m.dataView = m.dataView.SetResult(msg.params, msg.result)

		if msg.result.Empty() {
			// Nothing to look at; discard any old scene, stay on the
			// form and surface the note.
			m.scene = nil
			m.sceneGen = gen
			m.sceneView = m.sceneView.SetScene(nil)
			m.statusMsg = msg.result.Message
			m.viewMode = ViewQuery
		} else {
			m.scene = scene.Build(msg.result.Vertices, msg.result.Labels)
			m.sceneGen = gen
			m.sceneView = m.sceneView.SetScene(m.scene)
			m.statusMsg = fmt.Sprintf("%d points in %s", len(msg.result.Vertices),
				msg.duration.Round(time.Millisecond))
			m.viewMode = ViewScene
			// Upgrade raw request codes to catalog display names.
			cmds = append(cmds, m.fetchCatalog(gen))
		}

	case catalogMsg:
		// A newer fetch owns the scene now.
		if msg.generation != m.sceneGen || m.scene == nil {
			break
		}
		if msg.err != nil {
			// Raw codes stay; the catalog is cosmetic.
			break
		}
		names := make(map[string]string, len(msg.list))
		for _, obs := range msg.list {
			names[strings.ToLower(obs.ID)] = obs.Name
		}
		for i, sat := range m.scene.Satellites {
			if name, ok := names[strings.ToLower(sat.Label)]; ok {
				m.scene.SetLabel(i, name)
			}
		}
		m.dataView = m.dataView.SetLabels(sceneLabels(m.scene))

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

// beginFetch starts an async fetch unless one is already running.
func (m *Model) beginFetch(p query.Params) tea.Cmd {
	if !m.state.TryBeginFetch() {
		m.statusMsg = "a request is already in flight"
		return nil
	}

	m.form = m.form.SetLoading(true)
	m.form = m.form.SetError("")
	m.statusMsg = ""

	client := m.client
	return func() tea.Msg {
		start := time.Now()
		result, err := client.Fetch(context.Background(), p)
		return fetchDoneMsg{
			params:   p,
			result:   result,
			duration: time.Since(start),
			err:      err,
		}
	}
}

// fetchCatalog requests observatory display names for the given scene
// generation.
func (m Model) fetchCatalog(gen uint64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		list, err := client.Observatories(context.Background())
		return catalogMsg{generation: gen, list: list, err: err}
	}
}

// fetchErrorMessage maps a fetch failure to the message shown inline on
// the form.
func fetchErrorMessage(err error) string {
	switch {
	case errors.Is(err, query.ErrTimeout), errors.Is(err, query.ErrUnreachable):
		return err.Error()
	}
	var se *query.ServerError
	if errors.As(err, &se) {
		return se.Error()
	}
	return err.Error()
}

func sceneLabels(s *scene.Scene) []string {
	labels := make([]string, len(s.Satellites))
	for i, sat := range s.Satellites {
		labels[i] = sat.Label
	}
	return labels
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewQuery:
		m.form, cmd = m.form.Update(msg)
	case ViewScene:
		m.sceneView, cmd = m.sceneView.Update(msg)
	case ViewData:
		m.dataView, cmd = m.dataView.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewQuery:
		content = m.form.View()
	case ViewScene:
		content = m.sceneView.View()
	case ViewData:
		content = m.dataView.View()
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	logo := []string{
		` ███████╗███████╗ ██████╗      ██╗   ██╗██╗███████╗██╗    ██╗`,
		` ██╔════╝██╔════╝██╔════╝      ██║   ██║██║██╔════╝██║    ██║`,
		` ███████╗███████╗██║     █████╗██║   ██║██║█████╗  ██║ █╗ ██║`,
		` ╚════██║╚════██║██║     ╚════╝╚██╗ ██╔╝██║██╔══╝  ██║███╗██║`,
		` ███████║███████║╚██████╗       ╚████╔╝ ██║███████╗╚███╔███╔╝`,
		` ╚══════╝╚══════╝ ╚═════╝        ╚═══╝  ╚═╝╚══════╝ ╚══╝╚══╝ `,
	}

	var b strings.Builder
	b.WriteString("\n")
	for row, line := range logo {
		runes := []rune(line)
		for col, r := range runes {
			color := gradientColor(col, row, len(runes), len(logo))
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(r)))
		}
		b.WriteString("\n")
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render(fmt.Sprintf(" Satellite Location Viewer · NASA SSC Web Services | v%s", version.Version)))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	return b.String()
}

// gradientColor returns a hex color for a position in the logo gradient:
// blue left to teal right, fading toward the bottom.
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	r := 59 + xRatio*(45-59)
	g := 130 + xRatio*(212-130)
	b := 246 + xRatio*(191-246)

	fade := 1.0 - yRatio*0.45
	return fmt.Sprintf("#%02X%02X%02X", clamp8(r*fade), clamp8(g*fade), clamp8(b*fade))
}

func clamp8(v float64) int {
	n := int(v)
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return n
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Query", "[2] Scene", "[3] Data"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#2DD4BF")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#0E7490"))

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	var status string
	switch {
	case m.snapshot.Loading:
		status = accentStyle.Render(spinner) + dimStyle.Render(" fetching locations...")
	case m.snapshot.LastError != nil:
		status = errorStyle.Render("ERROR: " + m.snapshot.LastError.Error())
	case !m.snapshot.LastFetch.IsZero():
		status = dimStyle.Render(fmt.Sprintf("last fetch %s (%s)",
			m.snapshot.LastFetch.Format("15:04:05"),
			m.snapshot.FetchDuration.Round(time.Millisecond)))
	default:
		status = dimStyle.Render("no data yet, submit a query")
	}

	var help string
	switch m.viewMode {
	case ViewQuery:
		help = dimStyle.Render("tab: next field | enter: submit | ctrl+c: quit")
	case ViewScene:
		help = dimStyle.Render("l: labels | t: stars | +/-: zoom | arrows: pan | r: reset | q: quit")
	case ViewData:
		help = dimStyle.Render("↑↓: scroll | q: quit")
	}

	footer := "  " + status + "  " + dimStyle.Render("|") + "  " + help
	if m.statusMsg != "" {
		footer += "\n  " + dimStyle.Render(m.statusMsg)
	}
	return footer
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}
