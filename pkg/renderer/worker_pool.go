package renderer

import (
	"sync"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"
)

// PoolConfig holds the optional collaborators of a render pool
type PoolConfig struct {
	Workers    int         // Number of workers, clamped to [1, height]
	MasterSeed int64       // Worker i draws from a generator seeded MasterSeed+i
	Sink       PixelSink   // Receives finished pixels (nil = none)
	Logger     core.Logger // Progress logging (nil = silent)

	// OnFinished runs after the frame is assembled and before the workers
	// are released, e.g. to keep a preview alive.
	OnFinished func(frame *Frame)
}

// RenderPool renders one image with a fixed set of workers, each owning a
// static band of rows. Workers are created idle by NewRenderPool and only
// begin tracing when Render starts them.
type RenderPool struct {
	world      geometry.Shape
	camera     Camera
	integrator integrator.Integrator
	props      RenderProperties
	config     PoolConfig
	handles    []*WorkerHandle
	group      errgroup.Group

	once  sync.Once
	frame *Frame
	stats RenderStats
}

// NewRenderPool partitions the image and spawns one idle worker per band
func NewRenderPool(world geometry.Shape, camera Camera, integ integrator.Integrator, props RenderProperties, config PoolConfig) *RenderPool {
	if config.Sink == nil {
		config.Sink = discardSink{}
	}
	if config.Logger == nil {
		config.Logger = nopLogger{}
	}
	if world == nil {
		world = geometry.NewHittableList()
	}

	bands := PartitionRows(props.Height, config.Workers)
	config.Workers = len(bands)

	pool := &RenderPool{
		world:      world,
		camera:     camera,
		integrator: integ,
		props:      props,
		config:     config,
		handles:    make([]*WorkerHandle, len(bands)),
	}

	wc := workerContext{
		world:      world,
		camera:     camera,
		integrator: integ,
		props:      props,
		sink:       config.Sink,
		logger:     config.Logger,
	}
	for i, band := range bands {
		h := newWorkerHandle(i, band, props, config.MasterSeed)
		pool.handles[i] = h
		pool.group.Go(func() error {
			h.run(wc)
			return nil
		})
	}
	return pool
}

// Workers returns the worker handles in band order
func (p *RenderPool) Workers() []*WorkerHandle {
	return p.handles
}

// Render runs the whole handshake: start every worker, wait for each to
// finish, assemble the frame, run OnFinished, release the workers and join
// them. Calling Render again returns the same frame.
func (p *RenderPool) Render() *Frame {
	p.once.Do(p.render)
	return p.frame
}

func (p *RenderPool) render() {
	p.config.Logger.Printf("Rendering %dx%d, %d samples/pixel, %d workers\n",
		p.props.Width, p.props.Height, p.props.SamplesPerPixel, len(p.handles))

	startTime := time.Now()
	for _, h := range p.handles {
		h.Start()
	}

	workerStats := make([]WorkerStats, len(p.handles))
	buffers := make([]*WorkerImageBuffer, len(p.handles))
	for i, h := range p.handles {
		<-h.Done()
		workerStats[i] = h.Stats()
		buffers[i] = h.Buffer()
	}
	p.stats = combineStats(workerStats, time.Since(startTime))
	p.frame = Assemble(p.props, buffers)

	if p.config.OnFinished != nil {
		p.config.OnFinished(p.frame)
	}

	for _, h := range p.handles {
		h.Exit()
	}
	if err := p.group.Wait(); err != nil {
		glog.Errorf("render worker failed: %v", err)
	}

	p.world = nil
	p.config.Logger.Printf("Render completed in %v (%d samples)\n", p.stats.Elapsed, p.stats.TotalSamples)
}

// Stats returns render statistics; only meaningful after Render
func (p *RenderPool) Stats() RenderStats {
	return p.stats
}
