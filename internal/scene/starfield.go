package scene

import "math/rand"

// Starfield parameters: a fixed-size random point cloud inside a fixed cube
// of space, well outside the display volume. The seed is fixed so every
// rebuild produces the same sky.
const (
	starCount    = 600
	starCubeHalf = 1000.0
	starSeed     = 0x5343 // "SC"
)

// Starfield generates n points uniformly distributed in the cube
// [-half, half]^3.
func Starfield(n int, half float64, seed int64) []Vec3 {
	rng := rand.New(rand.NewSource(seed))
	stars := make([]Vec3, n)
	for i := range stars {
		stars[i] = Vec3{
			X: (rng.Float64()*2 - 1) * half,
			Y: (rng.Float64()*2 - 1) * half,
			Z: (rng.Float64()*2 - 1) * half,
		}
	}
	return stars
}
