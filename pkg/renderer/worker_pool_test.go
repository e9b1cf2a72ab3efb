package renderer

import (
	"bytes"
	"image/color"
	"sync"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
	"github.com/df07/go-weekend-raytracer/pkg/material"
	"github.com/google/go-cmp/cmp"
)

// emitterWorld encloses the camera in a glowing sphere so every ray returns the same radiance
func emitterWorld(emission core.Vec3) geometry.Shape {
	return geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, 0, 0), 10, material.NewDiffuseLight(emission)),
	)
}

func newTestPool(world geometry.Shape, bg integrator.Background, width, height, workers int, config PoolConfig) *RenderPool {
	props := NewRenderProperties(width, height, BytesPerPixelBGR, 2, integrator.DefaultMaxDepth)
	cameraConfig := testCameraConfig()
	cameraConfig.AspectRatio = props.AspectRatio()
	config.Workers = workers
	return NewRenderPool(world, NewCamera(cameraConfig), integrator.NewPathTracingIntegrator(props.MaxDepth, bg), props, config)
}

func uniformPixels(n int, bgr ...byte) []byte {
	return bytes.Repeat(bgr, n)
}

func TestRenderPool_EmitterEndToEnd(t *testing.T) {
	pool := newTestPool(emitterWorld(core.NewVec3(0.25, 1, 0)), nil, 2, 2, 2, PoolConfig{MasterSeed: 42})
	frame := pool.Render()

	// sqrt(0.25)=0.5 -> 127, sqrt(1)=1 -> 255, stored B,G,R
	want := uniformPixels(4, 0, 255, 127)
	if diff := cmp.Diff(want, frame.Pixels); diff != "" {
		t.Errorf("Frame mismatch (-want +got):\n%s", diff)
	}
	if frame.Width != 2 || frame.Height != 2 || frame.BytesPerPixel != 3 {
		t.Errorf("Unexpected frame shape %dx%dx%d", frame.Width, frame.Height, frame.BytesPerPixel)
	}
}

func TestRenderPool_EmitterSingleBounce(t *testing.T) {
	props := NewRenderProperties(2, 2, BytesPerPixelBGR, 1, 1)
	cameraConfig := testCameraConfig()
	cameraConfig.AspectRatio = props.AspectRatio()
	pool := NewRenderPool(emitterWorld(core.NewVec3(0.25, 1, 0)), NewCamera(cameraConfig),
		integrator.NewPathTracingIntegrator(props.MaxDepth, nil), props, PoolConfig{Workers: 1, MasterSeed: 7})
	frame := pool.Render()

	if len(pool.Workers()) != 1 {
		t.Fatalf("Expected a single worker, got %d", len(pool.Workers()))
	}
	// The camera ray is the only one traced; it returns the emission unchanged
	want := uniformPixels(4, 0, 255, 127)
	if diff := cmp.Diff(want, frame.Pixels); diff != "" {
		t.Errorf("Frame mismatch (-want +got):\n%s", diff)
	}
	if stats := pool.Stats(); stats.TotalSamples != 4 {
		t.Errorf("Expected 4 samples, got %d", stats.TotalSamples)
	}
}

func TestRenderPool_EmptyWorldFlatBackground(t *testing.T) {
	bg := integrator.NewFlatBackground(core.NewVec3(0.25, 0.25, 0.25))
	pool := newTestPool(geometry.NewHittableList(), bg, 4, 4, 3, PoolConfig{MasterSeed: 1})
	frame := pool.Render()

	want := uniformPixels(16, 127, 127, 127)
	if diff := cmp.Diff(want, frame.Pixels); diff != "" {
		t.Errorf("Frame mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderPool_EmptyWorldGradient(t *testing.T) {
	render := func() *Frame {
		return newTestPool(nil, integrator.NewSkyBackground(), 4, 4, 2, PoolConfig{MasterSeed: 9}).Render()
	}
	frame := render()

	if len(frame.Pixels) != 4*4*3 {
		t.Fatalf("Expected 48 bytes, got %d", len(frame.Pixels))
	}
	// The sky blends white into (0.5,0.7,1.0): blue saturates, red never drops below sqrt(0.5)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			c := frame.At(x, y)
			if c.B != 255 {
				t.Errorf("Pixel (%d,%d) expected full blue, got %v", x, y, c)
			}
			if c.R < 180 || c.R > c.G || c.G > c.B {
				t.Errorf("Pixel (%d,%d) outside the sky gradient: %v", x, y, c)
			}
		}
	}
	// Looking up means more sky, so the top row is never redder than the bottom row
	if frame.At(0, 0).R > frame.At(0, 3).R {
		t.Errorf("Expected top row bluer than bottom row: top %v bottom %v", frame.At(0, 0), frame.At(0, 3))
	}

	if diff := cmp.Diff(frame, render()); diff != "" {
		t.Errorf("Same seed should reproduce the frame (-first +second):\n%s", diff)
	}
}

func TestRenderPool_WorkerCountIndependent(t *testing.T) {
	world := geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, 0, 0), 10, material.NewDiffuseLight(core.NewVec3(0.5, 0.1, 0.9))),
	)
	reference := newTestPool(world, nil, 5, 7, 1, PoolConfig{}).Render()

	for _, workers := range []int{2, 3, 4, 7, 16} {
		frame := newTestPool(world, nil, 5, 7, workers, PoolConfig{}).Render()
		if diff := cmp.Diff(reference.Pixels, frame.Pixels); diff != "" {
			t.Errorf("%d workers differ from 1 worker (-1 +%d):\n%s", workers, workers, diff)
		}
	}
}

func TestRenderPool_Handshake(t *testing.T) {
	var finishedStates []WorkerState
	var pool *RenderPool
	pool = newTestPool(emitterWorld(core.NewVec3(1, 1, 1)), nil, 3, 6, 3, PoolConfig{
		OnFinished: func(frame *Frame) {
			for _, h := range pool.Workers() {
				finishedStates = append(finishedStates, h.State())
			}
		},
	})

	for _, h := range pool.Workers() {
		if h.State() != WorkerIdle {
			t.Errorf("Worker %d should be idle before Render, got %v", h.ID, h.State())
		}
	}

	first := pool.Render()

	want := []WorkerState{WorkerFinished, WorkerFinished, WorkerFinished}
	if diff := cmp.Diff(want, finishedStates); diff != "" {
		t.Errorf("States during OnFinished (-want +got):\n%s", diff)
	}
	for _, h := range pool.Workers() {
		if h.State() != WorkerExited {
			t.Errorf("Worker %d should have exited after Render, got %v", h.ID, h.State())
		}
	}

	if second := pool.Render(); second != first {
		t.Errorf("Render should return the same frame when called twice")
	}
}

func TestRenderPool_Stats(t *testing.T) {
	pool := newTestPool(emitterWorld(core.NewVec3(1, 1, 1)), nil, 4, 5, 2, PoolConfig{})
	pool.Render()
	stats := pool.Stats()

	if stats.Workers != 2 {
		t.Errorf("Expected 2 workers, got %d", stats.Workers)
	}
	if stats.TotalPixels != 20 {
		t.Errorf("Expected 20 pixels, got %d", stats.TotalPixels)
	}
	if stats.TotalSamples != 40 {
		t.Errorf("Expected 40 samples, got %d", stats.TotalSamples)
	}
	if stats.PerWorker[0].Rows != 2 || stats.PerWorker[1].Rows != 3 {
		t.Errorf("Unexpected per-worker rows: %+v", stats.PerWorker)
	}
}

type recordingSink struct {
	mu     sync.Mutex
	pixels map[[2]int]color.RGBA
}

func (s *recordingSink) SetPixel(x, y int, c color.RGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pixels[[2]int{x, y}] = c
}

func TestRenderPool_SinkReceivesEveryPixel(t *testing.T) {
	sink := &recordingSink{pixels: make(map[[2]int]color.RGBA)}
	bg := integrator.NewFlatBackground(core.NewVec3(0.01, 0.09, 0.36))
	frame := newTestPool(nil, bg, 3, 4, 2, PoolConfig{Sink: sink}).Render()

	if len(sink.pixels) != 12 {
		t.Fatalf("Expected 12 pixels in the sink, got %d", len(sink.pixels))
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 3; x++ {
			if got, want := sink.pixels[[2]int{x, y}], frame.At(x, y); got != want {
				t.Errorf("Pixel (%d,%d): sink %v, frame %v", x, y, got, want)
			}
		}
	}
}
