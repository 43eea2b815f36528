package scene

import (
	"fmt"
	"math"
)

// Display and decoration constants. DisplayRadius and the camera distance
// factor define the normalized display volume; the rest are scene tuning
// values for the fixed Earth/Moon decoration set.
const (
	// DisplayRadius is the fixed extent the furthest vertex is scaled to.
	DisplayRadius = 150.0

	// cameraDistanceFactor sets camera distance as a multiple of the
	// bounding volume's largest dimension.
	cameraDistanceFactor = 2.0

	// EarthRadius is the radius of the Earth sphere in scene units.
	EarthRadius = 10.0

	// cloudRadius is slightly above the Earth surface.
	cloudRadius = 10.35

	// MoonOrbitRadius is the fixed radius of the Moon's orbit around the
	// scene center.
	MoonOrbitRadius = 60.0

	moonRadius     = 2.7
	moonGlowRadius = 3.6

	markerRadius    = 0.35
	satelliteRadius = 0.8

	// labelOffset raises labels above their anchor along +Y.
	labelOffset = 2.2

	// Per-frame angular increments in radians.
	earthSpinStep     = 0.0015
	satelliteSpinStep = 0.0008
	moonOrbitStep     = 0.004
)

// Reference surface marker: Goddard Space Flight Center, home of SSC Web
// Services.
const (
	referenceName = "GSFC"
	referenceLat  = 38.9967
	referenceLon  = -76.8480
)

// BodyKind categorizes scene bodies for rendering.
type BodyKind int

const (
	BodyEarth BodyKind = iota
	BodyClouds
	BodyMoon
	BodyMoonGlow
	BodyMarker
)

// Body is a sphere node in the scene.
type Body struct {
	Kind   BodyKind
	Name   string
	Pos    Vec3
	Radius float64
}

// Satellite is a data-driven marker with its label.
type Satellite struct {
	Pos   Vec3
	Label string
}

// Label is a text node anchored in scene space.
type Label struct {
	Text string
	Pos  Vec3
	// Normal is the outward direction the label faces (local radius vector
	// for surface-anchored labels).
	Normal Vec3
}

// Camera is a perspective camera looking at Target from Position.
type Camera struct {
	Position Vec3
	Target   Vec3
}

// Scene is the full static scene plus its animation state. It is rebuilt
// from scratch for every new vertex set; nothing carries over between
// builds.
type Scene struct {
	Camera      Camera
	Bounds      Bounds
	Scale       float64
	Earth       Body
	Clouds      Body
	Moon        Body
	MoonGlow    Body
	Marker      Body
	MarkerLabel Label
	Satellites  []Satellite
	Stars       []Vec3

	earthAngle float64
	moonAngle  float64
	frame      int
}

// FitScale returns the uniform factor that maps the furthest coordinate of
// the vertex list onto DisplayRadius. All-zero (or empty) input has no
// defined extent, so the scale falls back to 1.
func FitScale(vertices []Vec3) float64 {
	maxAbs := 0.0
	for _, v := range vertices {
		maxAbs = math.Max(maxAbs, math.Abs(v.X))
		maxAbs = math.Max(maxAbs, math.Abs(v.Y))
		maxAbs = math.Max(maxAbs, math.Abs(v.Z))
	}
	if maxAbs == 0 {
		return 1
	}
	return DisplayRadius / maxAbs
}

// ScaleVertices applies a single scalar to every vertex, preserving
// relative geometry.
func ScaleVertices(vertices []Vec3, s float64) []Vec3 {
	out := make([]Vec3, len(vertices))
	for i, v := range vertices {
		out[i] = v.Scale(s)
	}
	return out
}

// CameraFor places a camera along the outward normal from the bounding
// volume's center, at a distance proportional to its largest dimension,
// aimed at the center. A volume centered at the origin has no outward
// direction, so the camera backs off along +Z.
func CameraFor(b Bounds) Camera {
	center := b.Center()
	dir := center.Normalized()
	if dir.Norm() == 0 {
		dir = Vec3{Z: 1}
	}

	dist := cameraDistanceFactor * b.MaxDim()
	if dist == 0 {
		dist = cameraDistanceFactor * DisplayRadius
	}

	return Camera{
		Position: center.Add(dir.Scale(dist)),
		Target:   center,
	}
}

// LabelFor returns the label for vertex i: labels[i] when present and
// non-empty, otherwise a generated placeholder. Count mismatches between
// labels and vertices never drop an entry.
func LabelFor(labels []string, i int) string {
	if i < len(labels) && labels[i] != "" {
		return labels[i]
	}
	return fmt.Sprintf("Satellite %d", i+1)
}

// FromTriples converts raw [x y z] triples into vectors.
func FromTriples(triples [][3]float64) []Vec3 {
	out := make([]Vec3, len(triples))
	for i, t := range triples {
		out[i] = Vec3{X: t[0], Y: t[1], Z: t[2]}
	}
	return out
}

// Build constructs a scene from raw position triples and their parallel
// label list. The vertex list is normalized to the display volume; the
// decoration set (Earth, clouds, Moon, surface marker, starfield) is fixed.
func Build(triples [][3]float64, labels []string) *Scene {
	raw := FromTriples(triples)
	scale := FitScale(raw)
	vertices := ScaleVertices(raw, scale)
	bounds := BoundsOf(vertices)

	sats := make([]Satellite, len(vertices))
	for i, v := range vertices {
		sats[i] = Satellite{Pos: v, Label: LabelFor(labels, i)}
	}

	markerPos := LatLonToCartesian(referenceLat, referenceLon, EarthRadius)
	moonPos := Vec3{X: MoonOrbitRadius}

	return &Scene{
		Camera:   CameraFor(bounds),
		Bounds:   bounds,
		Scale:    scale,
		Earth:    Body{Kind: BodyEarth, Name: "Earth", Radius: EarthRadius},
		Clouds:   Body{Kind: BodyClouds, Name: "Clouds", Radius: cloudRadius},
		Moon:     Body{Kind: BodyMoon, Name: "Moon", Pos: moonPos, Radius: moonRadius},
		MoonGlow: Body{Kind: BodyMoonGlow, Name: "Moon glow", Pos: moonPos, Radius: moonGlowRadius},
		Marker:   Body{Kind: BodyMarker, Name: referenceName, Pos: markerPos, Radius: markerRadius},
		MarkerLabel: Label{
			Text:   referenceName,
			Pos:    markerPos.Add(markerPos.Normalized().Scale(labelOffset)),
			Normal: markerPos.Normalized(),
		},
		Satellites: sats,
		Stars:      Starfield(starCount, starCubeHalf, starSeed),
	}
}

// SetLabel replaces the label of satellite i. Used when the observatory
// name catalog resolves after the scene was built.
func (s *Scene) SetLabel(i int, text string) {
	if i < 0 || i >= len(s.Satellites) || text == "" {
		return
	}
	s.Satellites[i].Label = text
}

// EarthAngle returns the current Earth rotation angle in radians.
func (s *Scene) EarthAngle() float64 {
	return s.earthAngle
}

// Frame returns the number of Advance calls since the scene was built.
func (s *Scene) Frame() int {
	return s.frame
}

// Advance steps the animation by one frame: Earth, clouds and the marker
// rotate together, the satellite group rotates at its own rate, and the
// Moon advances along its fixed-radius orbit.
func (s *Scene) Advance() {
	s.frame++
	s.earthAngle += earthSpinStep

	s.Marker.Pos = s.Marker.Pos.RotateY(earthSpinStep)
	s.MarkerLabel.Pos = s.MarkerLabel.Pos.RotateY(earthSpinStep)
	s.MarkerLabel.Normal = s.MarkerLabel.Normal.RotateY(earthSpinStep)

	for i := range s.Satellites {
		s.Satellites[i].Pos = s.Satellites[i].Pos.RotateY(satelliteSpinStep)
	}

	s.moonAngle += moonOrbitStep
	sin, cos := math.Sincos(s.moonAngle)
	s.Moon.Pos = Vec3{X: MoonOrbitRadius * cos, Z: MoonOrbitRadius * sin}
	s.MoonGlow.Pos = s.Moon.Pos
}
