package ui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/skysurvey/ssc-view/internal/scene"
)

// LabelMode controls which satellite labels are drawn.
type LabelMode int

const (
	LabelAll LabelMode = iota
	LabelFocused
	LabelNone
)

// Discrete zoom levels for clean stepping.
var zoomLevels = []float64{0.5, 0.75, 1.0, 1.5, 2.0, 3.0, 5.0}

// charAspect compensates for terminal cells being taller than wide.
const charAspect = 0.5

// SceneViewModel renders the 3D scene onto a character grid using a
// perspective projection from the scene camera.
type SceneViewModel struct {
	width  int
	height int

	scn *scene.Scene

	focusIdx  int // focused satellite index
	zoomLevel int
	panX      float64 // pan offset in screen cells
	panY      float64
	labelMode LabelMode
	showStars bool
}

// NewSceneViewModel creates the scene view with defaults.
func NewSceneViewModel() SceneViewModel {
	return SceneViewModel{
		zoomLevel: 2, // 1.0x
		labelMode: LabelAll,
		showStars: true,
	}
}

func (m SceneViewModel) zoom() float64 {
	if m.zoomLevel < 0 || m.zoomLevel >= len(zoomLevels) {
		return 1.0
	}
	return zoomLevels[m.zoomLevel]
}

// SetSize updates the viewport size.
func (m SceneViewModel) SetSize(width, height int) SceneViewModel {
	m.width = width
	m.height = height
	return m
}

// SetScene replaces the rendered scene and resets view state.
func (m SceneViewModel) SetScene(s *scene.Scene) SceneViewModel {
	m.scn = s
	m.focusIdx = 0
	m.panX, m.panY = 0, 0
	return m
}

// Update handles input messages.
func (m SceneViewModel) Update(msg tea.Msg) (SceneViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "]":
			m.focusNext()
		case "k", "[":
			m.focusPrev()

		case "up":
			m.panY -= 2
		case "down":
			m.panY += 2
		case "left":
			m.panX -= 4
		case "right":
			m.panX += 4

		case "+", "=":
			if m.zoomLevel < len(zoomLevels)-1 {
				m.zoomLevel++
			}
		case "-":
			if m.zoomLevel > 0 {
				m.zoomLevel--
			}

		case "l":
			m.labelMode = (m.labelMode + 1) % 3
		case "t":
			m.showStars = !m.showStars

		case "r":
			m.panX, m.panY = 0, 0
			m.zoomLevel = 2
		}
	}
	return m, nil
}

func (m *SceneViewModel) focusNext() {
	if m.scn == nil || len(m.scn.Satellites) == 0 {
		return
	}
	m.focusIdx = (m.focusIdx + 1) % len(m.scn.Satellites)
}

func (m *SceneViewModel) focusPrev() {
	if m.scn == nil || len(m.scn.Satellites) == 0 {
		return
	}
	m.focusIdx--
	if m.focusIdx < 0 {
		m.focusIdx = len(m.scn.Satellites) - 1
	}
}

// projector maps scene-space points into screen cells through the scene
// camera.
type projector struct {
	pos         scene.Vec3
	forward     scene.Vec3
	right       scene.Vec3
	up          scene.Vec3
	focal       float64
	cx, cy      float64
	unitsPerNDC float64
	panX, panY  float64
	canvasW     int
	canvasH     int
}

// fov of roughly 60 degrees, expressed as focal length.
const projectorFocal = 1.732

func newProjector(cam scene.Camera, canvasW, canvasH int, zoom, panX, panY float64) projector {
	forward := cam.Target.Sub(cam.Position).Normalized()

	worldUp := scene.Vec3{Y: 1}
	if math.Abs(forward.Dot(worldUp)) > 0.999 {
		worldUp = scene.Vec3{Z: 1}
	}
	right := forward.Cross(worldUp).Normalized()
	up := right.Cross(forward)

	// The shorter screen dimension bounds the projected volume. Height
	// counts double because cells are half as wide as they are tall.
	extent := math.Min(float64(canvasW)/2, float64(canvasH)/charAspect/2)

	return projector{
		pos:         cam.Position,
		forward:     forward,
		right:       right,
		up:          up,
		focal:       projectorFocal * zoom,
		cx:          float64(canvasW) / 2,
		cy:          float64(canvasH) / 2,
		unitsPerNDC: extent * 0.9,
		panX:        panX,
		panY:        panY,
		canvasW:     canvasW,
		canvasH:     canvasH,
	}
}

// project returns the screen cell for a scene point, the depth along the
// camera axis, and whether the point is in front of the camera.
func (p projector) project(v scene.Vec3) (int, int, float64, bool) {
	rel := v.Sub(p.pos)
	depth := rel.Dot(p.forward)
	if depth < 1e-6 {
		return 0, 0, 0, false
	}

	ndcX := rel.Dot(p.right) / depth * p.focal
	ndcY := rel.Dot(p.up) / depth * p.focal

	sx := int(p.cx + ndcX*p.unitsPerNDC + p.panX)
	sy := int(p.cy - ndcY*p.unitsPerNDC*charAspect + p.panY)
	return sx, sy, depth, true
}

// projectedRadius returns a sphere's apparent radius in screen cells.
func (p projector) projectedRadius(r, depth float64) float64 {
	return r / depth * p.focal * p.unitsPerNDC
}

func (p projector) inBounds(x, y int) bool {
	return x >= 0 && x < p.canvasW && y >= 0 && y < p.canvasH
}

// View renders the scene.
func (m SceneViewModel) View() string {
	if m.width < 40 || m.height < 10 {
		return "Terminal too small for scene view"
	}
	if m.scn == nil {
		dim := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
		return "\n  " + dim.Render("No scene yet. Submit a query first.")
	}

	canvas := m.buildCanvas()
	hud := m.renderHUD()
	return lipgloss.JoinVertical(lipgloss.Left, canvas, hud)
}

// satPos tracks a satellite's screen cell for label rendering.
type satPos struct {
	x, y      int
	label     string
	isFocused bool
}

func (m SceneViewModel) buildCanvas() string {
	canvasH := m.height - 4
	if canvasH < 5 {
		canvasH = 5
	}
	canvasW := m.width

	grid := make([][]rune, canvasH)
	for y := range grid {
		grid[y] = make([]rune, canvasW)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	s := m.scn
	proj := newProjector(s.Camera, canvasW, canvasH, m.zoom(), m.panX, m.panY)

	if m.showStars {
		m.drawStars(grid, proj, s.Stars)
	}

	// Back-to-front-ish draw order: glow, moon, clouds, earth, marker,
	// then satellites so data points always win their cell.
	m.drawSphere(grid, proj, s.MoonGlow.Pos, s.MoonGlow.Radius, '·', true)
	m.drawSphere(grid, proj, s.Moon.Pos, s.Moon.Radius, '▓', false)
	m.drawSphere(grid, proj, s.Clouds.Pos, s.Clouds.Radius, '~', true)
	m.drawSphere(grid, proj, s.Earth.Pos, s.Earth.Radius, '█', false)
	m.drawMarker(grid, proj)

	var positions []satPos
	for i, sat := range s.Satellites {
		sx, sy, _, ok := proj.project(sat.Pos)
		if !ok || !proj.inBounds(sx, sy) {
			continue
		}
		glyph := '◇'
		if i == m.focusIdx {
			glyph = '◆'
		}
		grid[sy][sx] = glyph
		positions = append(positions, satPos{
			x:         sx,
			y:         sy,
			label:     sat.Label,
			isFocused: i == m.focusIdx,
		})
	}

	m.renderLabels(grid, canvasW, canvasH, positions)

	return m.renderGrid(grid)
}

// drawSphere fills the projected disc of a sphere. Sparse spheres only
// write every third cell, which reads as translucency.
func (m SceneViewModel) drawSphere(grid [][]rune, proj projector, pos scene.Vec3, radius float64, glyph rune, sparse bool) {
	cx, cy, depth, ok := proj.project(pos)
	if !ok {
		return
	}

	rx := proj.projectedRadius(radius, depth)
	ry := rx * charAspect
	if rx < 0.5 {
		// Too small to fill; a single cell if visible.
		if proj.inBounds(cx, cy) && grid[cy][cx] == ' ' {
			grid[cy][cx] = glyph
		}
		return
	}

	minY := cy - int(ry) - 1
	maxY := cy + int(ry) + 1
	minX := cx - int(rx) - 1
	maxX := cx + int(rx) + 1

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if !proj.inBounds(x, y) {
				continue
			}
			dx := float64(x-cx) / rx
			dy := float64(y-cy) / ry
			if dx*dx+dy*dy > 1 {
				continue
			}
			if sparse {
				if (x+2*y)%3 != 0 {
					continue
				}
				if grid[y][x] != ' ' {
					continue
				}
			}
			grid[y][x] = glyph
		}
	}
}

// drawMarker draws the surface reference marker and its label when it
// faces the camera.
func (m SceneViewModel) drawMarker(grid [][]rune, proj projector) {
	s := m.scn

	// Hidden while on the far side of the planet.
	toCamera := proj.pos.Sub(s.Marker.Pos).Normalized()
	if s.MarkerLabel.Normal.Dot(toCamera) <= 0 {
		return
	}

	sx, sy, _, ok := proj.project(s.Marker.Pos)
	if !ok || !proj.inBounds(sx, sy) {
		return
	}
	grid[sy][sx] = '✚'

	if m.labelMode == LabelNone {
		return
	}
	m.writeLabel(grid, sx+2, sy, s.MarkerLabel.Text)
}

func (m SceneViewModel) drawStars(grid [][]rune, proj projector, stars []scene.Vec3) {
	for _, star := range stars {
		sx, sy, _, ok := proj.project(star)
		if !ok || !proj.inBounds(sx, sy) {
			continue
		}
		if grid[sy][sx] == ' ' {
			grid[sy][sx] = '˙'
		}
	}
}

func (m SceneViewModel) renderLabels(grid [][]rune, width, height int, positions []satPos) {
	if m.labelMode == LabelNone {
		return
	}

	for _, pos := range positions {
		if m.labelMode == LabelFocused && !pos.isFocused {
			continue
		}
		text := pos.label
		if pos.isFocused {
			text = "◄ " + pos.label
		}
		m.writeLabel(grid, pos.x+2, pos.y, text)
	}
}

func (m SceneViewModel) writeLabel(grid [][]rune, x, y int, text string) {
	if y < 0 || y >= len(grid) {
		return
	}
	width := len(grid[y])
	for i, r := range []rune(text) {
		cx := x + i
		if cx < 0 {
			continue
		}
		if cx >= width {
			break
		}
		if grid[y][cx] == ' ' || grid[y][cx] == '˙' || grid[y][cx] == '·' {
			grid[y][cx] = r
		}
	}
}

func (m SceneViewModel) renderGrid(grid [][]rune) string {
	starStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	glowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("230"))
	earthStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("26"))
	cloudStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	moonStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	markerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	satStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	focusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("249"))

	var b strings.Builder
	for _, row := range grid {
		for _, ch := range row {
			switch ch {
			case ' ':
				b.WriteRune(ch)
				continue
			case '˙':
				b.WriteString(starStyle.Render(string(ch)))
			case '·':
				b.WriteString(glowStyle.Render(string(ch)))
			case '█':
				b.WriteString(earthStyle.Render(string(ch)))
			case '~':
				b.WriteString(cloudStyle.Render(string(ch)))
			case '▓':
				b.WriteString(moonStyle.Render(string(ch)))
			case '✚':
				b.WriteString(markerStyle.Render(string(ch)))
			case '◇':
				b.WriteString(satStyle.Render(string(ch)))
			case '◆', '◄':
				b.WriteString(focusStyle.Render(string(ch)))
			default:
				b.WriteString(labelStyle.Render(string(ch)))
			}
		}
		b.WriteRune('\n')
	}
	return b.String()
}

func (m SceneViewModel) renderHUD() string {
	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#2DD4BF")).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	var b strings.Builder

	if m.scn != nil && m.focusIdx >= 0 && m.focusIdx < len(m.scn.Satellites) {
		sat := m.scn.Satellites[m.focusIdx]
		b.WriteString(headerStyle.Render("◆ " + sat.Label))
		b.WriteString("  ")
		b.WriteString(labelStyle.Render("pos: "))
		b.WriteString(valueStyle.Render(fmt.Sprintf("(%.1f, %.1f, %.1f)", sat.Pos.X, sat.Pos.Y, sat.Pos.Z)))
		b.WriteString("  ")
		b.WriteString(labelStyle.Render("points: "))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%d", len(m.scn.Satellites))))
	}
	b.WriteString("\n")

	labelName := [...]string{"all", "focus", "off"}[m.labelMode]
	starsName := "off"
	if m.showStars {
		starsName = "on"
	}
	b.WriteString(dimStyle.Render("Zoom:"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.2gx", m.zoom())))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Labels:"))
	b.WriteString(valueStyle.Render(labelName))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Stars:"))
	b.WriteString(valueStyle.Render(starsName))

	return b.String()
}
