package scene

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
	"github.com/df07/go-weekend-raytracer/pkg/material"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// CornellBoxSize is the edge length of the Cornell box
const CornellBoxSize = 555.0

// NewCornellScene creates a classic Cornell box scene with quad walls, a ceiling light and two blocks
func NewCornellScene() *Scene {
	config := renderer.CameraConfig{
		LookFrom:      core.NewVec3(278, 278, -425), // Outside the open front of the box
		LookAt:        core.NewVec3(278, 278, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          60.0,
		AspectRatio:   1.0,
		Aperture:      2.0,
		FocusDistance: 1000.0,
		Time0:         0.0,
		Time1:         1.0,
	}

	// Create materials
	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewLambertian(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewLambertian(core.NewVec3(0.12, 0.45, 0.15))
	light := material.NewDiffuseLight(core.NewVec3(15.0, 15.0, 15.0))

	boxSize := CornellBoxSize
	world := geometry.NewHittableList()

	// Floor and ceiling - XZ planes
	world.Add(geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize), white))
	world.Add(geometry.NewQuad(core.NewVec3(0, boxSize, 0), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize), white))

	// Back wall - XY plane at z=boxSize
	world.Add(geometry.NewQuad(core.NewVec3(0, 0, boxSize), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, boxSize, 0), white))

	// Left (red) and right (green) walls - YZ planes
	world.Add(geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, boxSize), core.NewVec3(0, boxSize, 0), red))
	world.Add(geometry.NewQuad(core.NewVec3(boxSize, 0, 0), core.NewVec3(0, boxSize, 0), core.NewVec3(0, 0, boxSize), green))

	// Ceiling light, slightly below the ceiling
	lightSize := 130.0
	lightOffset := (boxSize - lightSize) / 2.0
	world.Add(geometry.NewQuad(
		core.NewVec3(lightOffset, boxSize-1, lightOffset),
		core.NewVec3(lightSize, 0, 0),
		core.NewVec3(0, 0, lightSize),
		light,
	))

	// Short and tall blocks
	world.Add(geometry.NewBox(core.NewVec3(130, 0, 65), core.NewVec3(295, 165, 230), white))
	world.Add(geometry.NewBox(core.NewVec3(265, 0, 295), core.NewVec3(430, 330, 460), white))

	return &Scene{
		Name:         "cornell",
		World:        world,
		CameraConfig: config,
		Background:   integrator.NewFlatBackground(core.Vec3{}), // Enclosed: nothing escapes but darkness
	}
}
