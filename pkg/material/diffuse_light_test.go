package material

import (
	"math/rand"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

func TestDiffuseLight(t *testing.T) {
	tests := []struct {
		name     string
		emission core.Vec3
	}{
		{"Red emission", core.NewVec3(1.0, 0.0, 0.0)},
		{"White emission", core.NewVec3(1.0, 1.0, 1.0)},
		{"Zero emission", core.NewVec3(0.0, 0.0, 0.0)},
		{"High intensity emission", core.NewVec3(15.0, 15.0, 15.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			light := NewDiffuseLight(tt.emission)
			ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0))
			hit := &HitRecord{
				Point:    core.NewVec3(1, 0, 0),
				Normal:   core.NewVec3(-1, 0, 0),
				T:        1.0,
				Material: light,
			}

			if _, scattered := light.Scatter(ray, hit, rand.New(rand.NewSource(42))); scattered {
				t.Error("Diffuse light should not scatter rays")
			}
			if got := Emitted(ray, hit); got != tt.emission {
				t.Errorf("Expected emission %v, got %v", tt.emission, got)
			}
		})
	}
}
