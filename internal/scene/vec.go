// Package scene builds the 3D scene shown by the viewer: scaled satellite
// markers with labels, the Earth/Moon decoration set, and a background
// starfield, plus the per-frame animation step.
package scene

import "math"

// Vec3 represents a 3D position in scene units.
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the magnitude of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalized returns a unit vector in the same direction.
func (v Vec3) Normalized() Vec3 {
	n := v.Norm()
	if n == 0 {
		return Vec3{}
	}
	return Vec3{X: v.X / n, Y: v.Y / n, Z: v.Z / n}
}

// Scale returns the vector scaled by a factor.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Add returns the sum of two vectors.
func (v Vec3) Add(u Vec3) Vec3 {
	return Vec3{X: v.X + u.X, Y: v.Y + u.Y, Z: v.Z + u.Z}
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{X: v.X - u.X, Y: v.Y - u.Y, Z: v.Z - u.Z}
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(u Vec3) float64 {
	return v.X*u.X + v.Y*u.Y + v.Z*u.Z
}

// Cross returns the cross product v x u.
func (v Vec3) Cross(u Vec3) Vec3 {
	return Vec3{
		X: v.Y*u.Z - v.Z*u.Y,
		Y: v.Z*u.X - v.X*u.Z,
		Z: v.X*u.Y - v.Y*u.X,
	}
}

// RotateY returns the vector rotated around the Y axis by angle radians.
func (v Vec3) RotateY(angle float64) Vec3 {
	sin, cos := math.Sincos(angle)
	return Vec3{
		X: v.X*cos + v.Z*sin,
		Y: v.Y,
		Z: -v.X*sin + v.Z*cos,
	}
}

// Bounds is an axis-aligned bounding volume.
type Bounds struct {
	Min, Max Vec3
}

// BoundsOf computes the axis-aligned bounding volume of a vertex list.
// An empty list yields a zero-volume bounds at the origin.
func BoundsOf(vertices []Vec3) Bounds {
	if len(vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: vertices[0], Max: vertices[0]}
	for _, v := range vertices[1:] {
		b.Min.X = math.Min(b.Min.X, v.X)
		b.Min.Y = math.Min(b.Min.Y, v.Y)
		b.Min.Z = math.Min(b.Min.Z, v.Z)
		b.Max.X = math.Max(b.Max.X, v.X)
		b.Max.Y = math.Max(b.Max.Y, v.Y)
		b.Max.Z = math.Max(b.Max.Z, v.Z)
	}
	return b
}

// Center returns the geometric center of the bounds.
func (b Bounds) Center() Vec3 {
	return Vec3{
		X: (b.Min.X + b.Max.X) / 2,
		Y: (b.Min.Y + b.Max.Y) / 2,
		Z: (b.Min.Z + b.Max.Z) / 2,
	}
}

// MaxDim returns the largest edge length of the bounds.
func (b Bounds) MaxDim() float64 {
	dx := b.Max.X - b.Min.X
	dy := b.Max.Y - b.Min.Y
	dz := b.Max.Z - b.Min.Z
	return math.Max(dx, math.Max(dy, dz))
}

// LatLonToCartesian projects a latitude/longitude pair onto a sphere of
// radius r centered at the origin. Uses the colatitude and longitude+180°
// convention so that the result lines up with the Earth mesh orientation.
func LatLonToCartesian(latDeg, lonDeg, r float64) Vec3 {
	phi := degToRad(90 - latDeg)
	theta := degToRad(lonDeg + 180)

	return Vec3{
		X: -r * math.Sin(phi) * math.Cos(theta),
		Y: r * math.Cos(phi),
		Z: r * math.Sin(phi) * math.Sin(theta),
	}
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
