package integrator

import (
	"math"
	"math/rand"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// ShadowEpsilon offsets the start of every ray so it does not re-hit the surface it left
const ShadowEpsilon = 0.001

// DefaultMaxDepth is the default recursion bound for scattered rays
const DefaultMaxDepth = 50

// PathTracingIntegrator implements recursive unidirectional path tracing
type PathTracingIntegrator struct {
	MaxDepth   int
	Background Background
}

// NewPathTracingIntegrator creates a new path tracing integrator.
// A nil background is treated as black.
func NewPathTracingIntegrator(maxDepth int, background Background) *PathTracingIntegrator {
	if background == nil {
		background = NewFlatBackground(core.Vec3{})
	}
	return &PathTracingIntegrator{
		MaxDepth:   maxDepth,
		Background: background,
	}
}

// RayColor computes the color for a camera ray, starting at depth zero
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world geometry.Shape, random *rand.Rand) core.Vec3 {
	return pt.RayColorAtDepth(ray, world, random, 0)
}

// RayColorAtDepth computes the color for a ray that has already bounced depth times
func (pt *PathTracingIntegrator) RayColorAtDepth(ray core.Ray, world geometry.Shape, random *rand.Rand, depth int) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth >= pt.MaxDepth {
		return core.Vec3{}
	}

	hit, isHit := world.Hit(ray, ShadowEpsilon, math.Inf(1))
	if !isHit {
		return pt.Background.Color(ray)
	}

	scatter, didScatter := hit.Material.Scatter(ray, hit, random)
	if !didScatter {
		// Absorbed, or a pure emitter
		return material.Emitted(ray, hit)
	}

	return scatter.Attenuation.MultiplyVec(
		pt.RayColorAtDepth(scatter.Scattered, world, random, depth+1))
}
