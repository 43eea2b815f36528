package ui

import (
	"math"
	"strings"
	"testing"

	"github.com/skysurvey/ssc-view/internal/scene"
)

func TestProjectorCentersTarget(t *testing.T) {
	cam := scene.Camera{
		Position: scene.Vec3{Z: 300},
		Target:   scene.Vec3{},
	}
	proj := newProjector(cam, 80, 24, 1.0, 0, 0)

	x, y, depth, ok := proj.project(cam.Target)
	if !ok {
		t.Fatal("target should be in front of the camera")
	}
	if x != 40 || y != 12 {
		t.Errorf("target projected to (%d,%d), want (40,12)", x, y)
	}
	if math.Abs(depth-300) > 1e-9 {
		t.Errorf("depth = %v, want 300", depth)
	}
}

func TestProjectorRejectsBehindCamera(t *testing.T) {
	cam := scene.Camera{
		Position: scene.Vec3{Z: 300},
		Target:   scene.Vec3{},
	}
	proj := newProjector(cam, 80, 24, 1.0, 0, 0)

	if _, _, _, ok := proj.project(scene.Vec3{Z: 400}); ok {
		t.Error("point behind camera should be rejected")
	}
}

func TestProjectorOffsetsScaleWithDepth(t *testing.T) {
	cam := scene.Camera{
		Position: scene.Vec3{Z: 300},
		Target:   scene.Vec3{},
	}
	proj := newProjector(cam, 200, 60, 1.0, 0, 0)

	nearX, _, _, _ := proj.project(scene.Vec3{X: 10, Z: 150})
	farX, _, _, _ := proj.project(scene.Vec3{X: 10, Z: 0})

	center := 100
	if nearX <= center || farX <= center {
		t.Fatalf("offsets should be right of center: near=%d far=%d", nearX, farX)
	}
	if nearX-center <= farX-center {
		t.Errorf("nearer point should project further out: near=%d far=%d", nearX, farX)
	}
}

func TestProjectorCameraAlongY(t *testing.T) {
	// Looking straight down the world up axis must not degenerate.
	cam := scene.Camera{
		Position: scene.Vec3{Y: 300},
		Target:   scene.Vec3{},
	}
	proj := newProjector(cam, 80, 24, 1.0, 0, 0)

	if proj.right.Norm() < 0.99 {
		t.Errorf("right vector degenerate: %+v", proj.right)
	}
	if _, _, _, ok := proj.project(scene.Vec3{X: 5}); !ok {
		t.Error("point in view should project")
	}
}

func buildTestScene() *scene.Scene {
	return scene.Build([][3]float64{
		{1.2, -0.3, 0.05},
		{0.9, 0.1, -0.2},
	}, []string{"ace", "wind"})
}

func TestSceneViewRendersSatellites(t *testing.T) {
	m := NewSceneViewModel().SetSize(120, 40).SetScene(buildTestScene())

	out := m.View()
	if !strings.Contains(out, "◆") {
		t.Error("focused satellite glyph missing")
	}
	if !strings.Contains(out, "ace") {
		t.Error("satellite label missing")
	}
	if !strings.Contains(out, "█") {
		t.Error("planet disc missing")
	}
}

func TestSceneViewNoScene(t *testing.T) {
	m := NewSceneViewModel().SetSize(120, 40)
	if !strings.Contains(m.View(), "No scene yet") {
		t.Error("expected empty-state message")
	}
}

func TestSceneViewLabelModeCycle(t *testing.T) {
	m := NewSceneViewModel().SetSize(120, 40).SetScene(buildTestScene())

	if m.labelMode != LabelAll {
		t.Fatalf("initial label mode = %d", m.labelMode)
	}
	m, _ = m.Update(keyMsg("l"))
	if m.labelMode != LabelFocused {
		t.Errorf("after one toggle, mode = %d", m.labelMode)
	}
	m, _ = m.Update(keyMsg("l"))
	m, _ = m.Update(keyMsg("l"))
	if m.labelMode != LabelAll {
		t.Errorf("mode did not wrap, got %d", m.labelMode)
	}
}

func TestSceneViewStarToggle(t *testing.T) {
	m := NewSceneViewModel().SetSize(120, 40).SetScene(buildTestScene())

	withStars := m.View()
	m, _ = m.Update(keyMsg("t"))
	withoutStars := m.View()

	if strings.Count(withoutStars, "˙") >= strings.Count(withStars, "˙") {
		t.Error("star toggle did not reduce star glyphs")
	}
}

func TestSceneViewFocusWraps(t *testing.T) {
	m := NewSceneViewModel().SetSize(120, 40).SetScene(buildTestScene())

	m, _ = m.Update(keyMsg("j"))
	if m.focusIdx != 1 {
		t.Fatalf("focus = %d, want 1", m.focusIdx)
	}
	m, _ = m.Update(keyMsg("j"))
	if m.focusIdx != 0 {
		t.Errorf("focus did not wrap, got %d", m.focusIdx)
	}
}

func TestSceneViewZoomBounds(t *testing.T) {
	m := NewSceneViewModel()

	for i := 0; i < 20; i++ {
		m, _ = m.Update(keyMsg("+"))
	}
	if m.zoomLevel != len(zoomLevels)-1 {
		t.Errorf("zoom level = %d, want max", m.zoomLevel)
	}
	for i := 0; i < 20; i++ {
		m, _ = m.Update(keyMsg("-"))
	}
	if m.zoomLevel != 0 {
		t.Errorf("zoom level = %d, want 0", m.zoomLevel)
	}
}
