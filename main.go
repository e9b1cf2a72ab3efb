package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/config"
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
	"github.com/df07/go-weekend-raytracer/pkg/output"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
	"github.com/df07/go-weekend-raytracer/web/server"
	"github.com/golang/glog"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "Weekend Raytracer")
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options]\n\nOptions:\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintln(flag.CommandLine.Output(), "\nAvailable scenes:")
		for _, info := range scene.List() {
			fmt.Fprintf(flag.CommandLine.Output(), "  %-8s - %s\n", info.ID, info.Description)
		}
	}

	cfg, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		glog.Exitf("Invalid configuration: %v", err)
	}
	defer glog.Flush()

	cfg.Normalize(nil)
	stats, err := run(cfg, renderer.NewDefaultLogger())
	if err != nil {
		glog.Exitf("Render failed: %v", err)
	}
	glog.Infof("Rendered %d pixels with %d samples using %d workers in %v (imbalance %.2f)",
		stats.TotalPixels, stats.TotalSamples, stats.Workers, stats.Elapsed, stats.Imbalance())
}

// holdInput is read for the Enter key that dismisses a finished preview
var holdInput io.Reader = os.Stdin

// createScene builds the configured scene and applies the render toggles
func createScene(cfg config.Config) (*scene.Scene, error) {
	sceneObj, err := scene.ByName(strings.ToLower(cfg.Scene), cfg.Seed)
	if err != nil {
		return nil, err
	}
	sceneObj.Apply(scene.Toggles{
		GlobalIllumination: cfg.GlobalIllumination,
		DepthOfField:       cfg.DepthOfField,
	})
	return sceneObj, nil
}

// run renders one image as configured and writes it to cfg.Output
func run(cfg config.Config, logger core.Logger) (renderer.RenderStats, error) {
	sceneObj, err := createScene(cfg)
	if err != nil {
		return renderer.RenderStats{}, err
	}

	props := renderer.NewRenderProperties(cfg.Width, cfg.Height, cfg.BytesPerPixel, cfg.Samples, cfg.MaxDepth)
	cameraConfig := sceneObj.CameraConfig
	cameraConfig.AspectRatio = props.AspectRatio()
	camera := renderer.NewCamera(cameraConfig)
	integ := integrator.NewPathTracingIntegrator(props.MaxDepth, sceneObj.Background)

	poolConfig := renderer.PoolConfig{
		Workers:    cfg.Workers,
		MasterSeed: cfg.Seed,
		Logger:     logger,
	}

	// The preview is best effort: if it cannot start the render goes on without it
	var previewServer *server.Server
	if cfg.PreviewAddr != "" {
		preview := server.NewPreview(props.Width, props.Height)
		console := server.NewConsole(0)
		previewServer = server.NewServer(cfg.PreviewAddr, preview, console)
		if err := previewServer.Start(); err != nil {
			glog.Warningf("Preview disabled: %v", err)
			previewServer = nil
		} else {
			previewServer.SetScene(sceneObj, camera)
			poolConfig.Sink = preview
			poolConfig.Logger = console
			poolConfig.OnFinished = preview.MarkComplete
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := previewServer.Shutdown(ctx); err != nil {
					glog.Warningf("Preview shutdown: %v", err)
				}
			}()
		}
	}

	logger.Printf("Scene %s: %d objects, %dx%d, %d samples/pixel, depth %d\n",
		sceneObj.Name, sceneObj.World.Len(), props.Width, props.Height, props.SamplesPerPixel, props.MaxDepth)
	pool := renderer.NewRenderPool(sceneObj.World, camera, integ, props, poolConfig)

	if previewServer != nil && cfg.PreviewDelay > 0 {
		logger.Printf("Waiting %v for the preview at http://%s\n", cfg.PreviewDelay, previewServer.Addr())
		time.Sleep(cfg.PreviewDelay)
	}

	frame := pool.Render()

	// Workers are joined; drop the world
	if previewServer != nil {
		previewServer.SetScene(nil, camera)
	}
	sceneObj.World = nil

	if err := output.Write(cfg.Output, frame); err != nil {
		return pool.Stats(), err
	}
	logger.Printf("Render saved as %s\n", cfg.Output)

	if previewServer != nil {
		holdPreview(cfg.PreviewHold, holdInput, logger, previewServer.Addr())
	}
	return pool.Stats(), nil
}

// holdPreview keeps the finished preview up until Enter is read from input,
// the process is interrupted, or hold elapses when it is positive
func holdPreview(hold time.Duration, input io.Reader, logger core.Logger, addr string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if hold > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, hold)
		defer cancel()
		logger.Printf("Final image at http://%s for %v, hit Enter to exit...\n", addr, hold)
	} else {
		logger.Printf("Final image at http://%s, hit Enter to exit...\n", addr)
	}

	pressed := make(chan struct{})
	go func() {
		// EOF ends the hold too, so a closed stdin never blocks the exit
		_, _ = bufio.NewReader(input).ReadString('\n')
		close(pressed)
	}()

	select {
	case <-pressed:
	case <-ctx.Done():
	}
}
