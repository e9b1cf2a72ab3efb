package scene

import (
	"fmt"
	"sort"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
	"github.com/df07/go-weekend-raytracer/pkg/material"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name         string
	World        *geometry.HittableList // Objects in the scene, tested exhaustively
	CameraConfig renderer.CameraConfig
	Background   integrator.Background // Radiance for rays that escape the world
}

// Toggles are the render switches that change how a scene is lit and focused
type Toggles struct {
	GlobalIllumination bool // Sky gradient instead of a black environment
	DepthOfField       bool // Keep the scene's aperture; otherwise render as a pinhole
}

// Apply adjusts the scene for the given toggles
func (s *Scene) Apply(t Toggles) {
	if t.GlobalIllumination {
		s.Background = integrator.NewSkyBackground()
	} else {
		s.Background = integrator.NewFlatBackground(core.Vec3{})
	}
	if !t.DepthOfField {
		s.CameraConfig.Aperture = 0
	}
}

// Info describes a built-in scene
type Info struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
}

type provider struct {
	info  Info
	build func(seed int64) *Scene
}

var providers = map[string]provider{
	"cornell": {
		info:  Info{ID: "cornell", DisplayName: "Cornell Box", Description: "Enclosed box lit by a ceiling panel"},
		build: func(int64) *Scene { return NewCornellScene() },
	},
	"random": {
		info:  Info{ID: "random", DisplayName: "Random Spheres", Description: "Field of random spheres, some in motion"},
		build: NewRandomScene,
	},
	"empty": {
		info:  Info{ID: "empty", DisplayName: "Empty", Description: "No objects, background only"},
		build: func(int64) *Scene { return NewEmptyScene() },
	},
}

// ByName builds the named scene. seed only affects randomized scenes.
func ByName(name string, seed int64) (*Scene, error) {
	p, ok := providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (available: %v)", name, Names())
	}
	return p.build(seed), nil
}

// Names returns the built-in scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns the built-in scenes in name order
func List() []Info {
	var infos []Info
	for _, name := range Names() {
		infos = append(infos, providers[name].info)
	}
	return infos
}

// NewGroundSphere creates the huge sphere used as a ground plane
func NewGroundSphere(y float64, mat material.Material) *geometry.Sphere {
	const radius = 1000.0
	return geometry.NewSphere(core.NewVec3(0, y-radius, 0), radius, mat)
}
