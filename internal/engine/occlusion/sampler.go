package occlusion

import (
	gomath "math"
	"math/rand"

	"github.com/strata3d/strata/pkg/math"
)

// Hemisphere returns rayCount cosine-weighted directions around +Z. The
// unit square is stratified into a near-square grid and jittered by the
// seeded generator, then mapped with r = sqrt(u1), theta = 2*pi*u2,
// z = sqrt(1-u1). A fixed seed yields an identical sample set; one set is
// built per bake and rotated to each vertex normal.
func Hemisphere(rayCount int, seed int64) []math.Vec3 {
	if rayCount <= 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(seed))

	cols := int(gomath.Ceil(gomath.Sqrt(float64(rayCount))))
	rows := (rayCount + cols - 1) / cols

	dirs := make([]math.Vec3, 0, rayCount)
	for i := 0; i < rows && len(dirs) < rayCount; i++ {
		for j := 0; j < cols && len(dirs) < rayCount; j++ {
			u1 := (float64(i) + rng.Float64()) / float64(rows)
			u2 := (float64(j) + rng.Float64()) / float64(cols)

			r := gomath.Sqrt(u1)
			theta := 2 * gomath.Pi * u2
			dirs = append(dirs, math.Vec3{
				X: float32(r * gomath.Cos(theta)),
				Y: float32(r * gomath.Sin(theta)),
				Z: float32(gomath.Sqrt(1 - u1)),
			})
		}
	}
	return dirs
}
