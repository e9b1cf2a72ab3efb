package integrator

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// Background supplies the environment radiance seen by rays that escape the scene
type Background interface {
	Color(ray core.Ray) core.Vec3
}

// GradientBackground blends from a ground color straight down to a sky color straight up
type GradientBackground struct {
	Ground core.Vec3 // Bottom gradient color
	Sky    core.Vec3 // Top gradient color
}

// NewGradientBackground creates a new gradient background
func NewGradientBackground(ground, sky core.Vec3) GradientBackground {
	return GradientBackground{Ground: ground, Sky: sky}
}

// NewSkyBackground returns the classic white-to-blue sky
func NewSkyBackground() GradientBackground {
	return NewGradientBackground(core.NewVec3(1.0, 1.0, 1.0), core.NewVec3(0.5, 0.7, 1.0))
}

// Color implements Background
func (g GradientBackground) Color(ray core.Ray) core.Vec3 {
	direction := ray.Direction.Normalize()
	t := 0.5 * (direction.Y + 1.0) // Map Y from [-1,1] to [0,1]
	return g.Ground.Lerp(g.Sky, t)
}

// FlatBackground returns the same color in every direction
type FlatBackground struct {
	Emission core.Vec3
}

// NewFlatBackground creates a new flat background
func NewFlatBackground(emission core.Vec3) FlatBackground {
	return FlatBackground{Emission: emission}
}

// Color implements Background
func (f FlatBackground) Color(ray core.Ray) core.Vec3 {
	return f.Emission
}
