package renderer

import (
	"image/color"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
	"github.com/golang/glog"
)

// WorkerState is the lifecycle position of a render worker
type WorkerState int32

const (
	WorkerIdle     WorkerState = iota // Created, waiting for start
	WorkerRunning                     // Rendering its rows
	WorkerFinished                    // Buffer complete, waiting for exit
	WorkerExited                      // Returned
)

func (s WorkerState) String() string {
	switch s {
	case WorkerIdle:
		return "idle"
	case WorkerRunning:
		return "running"
	case WorkerFinished:
		return "finished"
	case WorkerExited:
		return "exited"
	default:
		return "unknown"
	}
}

// WorkerImageBuffer holds the pixels of one worker's band of rows, top-down
type WorkerImageBuffer struct {
	ID            int
	RowOffset     int // First image row of the band
	Rows          int
	Width         int
	BytesPerPixel int
	Pixels        []byte
}

// NewWorkerImageBuffer allocates a zeroed buffer for a band of rows
func NewWorkerImageBuffer(id int, band RowRange, props RenderProperties) *WorkerImageBuffer {
	return &WorkerImageBuffer{
		ID:            id,
		RowOffset:     band.Offset,
		Rows:          band.Rows,
		Width:         props.Width,
		BytesPerPixel: props.BytesPerPixel,
		Pixels:        make([]byte, band.Rows*props.Width*props.BytesPerPixel),
	}
}

// SetPixel stores a display color at a row local to the band, in BGR(A) order
func (b *WorkerImageBuffer) SetPixel(localRow, x int, c color.RGBA) {
	i := (localRow*b.Width + x) * b.BytesPerPixel
	b.Pixels[i] = c.B
	b.Pixels[i+1] = c.G
	b.Pixels[i+2] = c.R
	if b.BytesPerPixel == BytesPerPixelBGRA {
		b.Pixels[i+3] = c.A
	}
}

// ToDisplayColor converts a linear averaged color to 8-bit display values:
// gamma 2 followed by scaling with 255.99, saturating at 255.
func ToDisplayColor(linear core.Vec3) color.RGBA {
	c := linear.Sqrt()
	return color.RGBA{R: channelByte(c.X), G: channelByte(c.Y), B: channelByte(c.Z), A: 255}
}

func channelByte(v float64) uint8 {
	scaled := 255.99 * v
	if !(scaled > 0) { // NaN too
		return 0
	}
	if scaled >= 255 {
		return 255
	}
	return uint8(scaled)
}

// WorkerHandle owns one render worker and its start/done/exit handshake.
// Each transition fires once; Start and Exit are idempotent.
type WorkerHandle struct {
	ID     int
	buffer *WorkerImageBuffer
	random *rand.Rand
	state  atomic.Int32
	stats  WorkerStats

	start     chan struct{}
	done      chan struct{}
	exit      chan struct{}
	startOnce sync.Once
	exitOnce  sync.Once
}

func newWorkerHandle(id int, band RowRange, props RenderProperties, masterSeed int64) *WorkerHandle {
	return &WorkerHandle{
		ID:     id,
		buffer: NewWorkerImageBuffer(id, band, props),
		random: core.NewWorkerRandom(masterSeed, id),
		start:  make(chan struct{}),
		done:   make(chan struct{}),
		exit:   make(chan struct{}),
	}
}

// Start releases the worker to render
func (h *WorkerHandle) Start() {
	h.startOnce.Do(func() { close(h.start) })
}

// Exit releases a finished worker to return
func (h *WorkerHandle) Exit() {
	h.exitOnce.Do(func() { close(h.exit) })
}

// Done is closed once the worker's buffer is complete
func (h *WorkerHandle) Done() <-chan struct{} {
	return h.done
}

// State returns the worker's current lifecycle state
func (h *WorkerHandle) State() WorkerState {
	return WorkerState(h.state.Load())
}

// Buffer returns the worker's pixels. Only read it after Done is closed.
func (h *WorkerHandle) Buffer() *WorkerImageBuffer {
	return h.buffer
}

// Stats returns the worker's statistics. Only valid after Done is closed.
func (h *WorkerHandle) Stats() WorkerStats {
	return h.stats
}

// workerContext is the read-only state shared by every worker
type workerContext struct {
	world      geometry.Shape
	camera     Camera
	integrator integrator.Integrator
	props      RenderProperties
	sink       PixelSink
	logger     core.Logger
}

// run is the worker lifecycle: wait for start, render, signal done, wait for exit
func (h *WorkerHandle) run(wc workerContext) {
	<-h.start
	h.state.Store(int32(WorkerRunning))
	if glog.V(1) {
		glog.Infof("worker %d: rendering rows %d..%d", h.ID, h.buffer.RowOffset, h.buffer.RowOffset+h.buffer.Rows-1)
	}

	startTime := time.Now()
	h.renderRows(wc)
	h.stats.Elapsed = time.Since(startTime)
	wc.logger.Printf("Worker %d finished %d rows in %v\n", h.ID, h.buffer.Rows, h.stats.Elapsed)

	h.state.Store(int32(WorkerFinished))
	close(h.done)

	<-h.exit
	h.state.Store(int32(WorkerExited))
}

// renderRows fills the buffer. Rows are sampled from the bottom of the band
// upwards and columns left to right.
func (h *WorkerHandle) renderRows(wc workerContext) {
	props := wc.props
	b := h.buffer
	width := float64(props.Width)
	height := float64(props.Height)

	h.stats = WorkerStats{ID: h.ID, Rows: b.Rows}
	for y := b.RowOffset + b.Rows - 1; y >= b.RowOffset; y-- {
		// Image rows run top-down, camera t runs bottom-up
		row := float64(props.Height - 1 - y)
		for x := 0; x < props.Width; x++ {
			var sum core.Vec3
			for s := 0; s < props.SamplesPerPixel; s++ {
				u := (float64(x) + h.random.Float64()) / width
				v := (row + h.random.Float64()) / height
				ray := wc.camera.GetRay(u, v, h.random)
				sum = sum.Add(wc.integrator.RayColor(ray, wc.world, h.random))
			}
			c := ToDisplayColor(sum.Divide(float64(props.SamplesPerPixel)))
			b.SetPixel(y-b.RowOffset, x, c)
			wc.sink.SetPixel(x, y, c)
			h.stats.Pixels++
		}
	}
	h.stats.Samples = h.stats.Pixels * props.SamplesPerPixel
}
