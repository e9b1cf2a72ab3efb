// Package config holds the render settings: defaults, minimums, command line
// flags and an optional JSON file.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/golang/glog"
	"github.com/shirou/gopsutil/v3/cpu"
)

// Defaults and enforced minimums
const (
	DefaultWidth         = 600
	DefaultHeight        = 600
	DefaultSamples       = 1
	DefaultMaxDepth      = 50
	DefaultBytesPerPixel = 3
	DefaultScene         = "cornell"
	DefaultOutput        = "output/render.bmp"
	DefaultPreviewDelay  = 5 * time.Second

	MinWidth   = 16
	MinHeight  = 16
	MinSamples = 1
	MinDepth   = 1
)

// Config holds every render setting
type Config struct {
	Width              int    `json:"width"`
	Height             int    `json:"height"`
	Samples            int    `json:"samples"`
	MaxDepth           int    `json:"maxDepth"`
	Workers            int    `json:"workers"`
	BytesPerPixel      int    `json:"bytesPerPixel,omitempty"`
	Scene              string `json:"scene"`
	Seed               int64  `json:"seed"`
	GlobalIllumination bool   `json:"globalIllumination,omitempty"`
	DepthOfField       bool   `json:"depthOfField,omitempty"`
	Output             string `json:"output"`

	// Live preview; empty address disables it. After the output is written
	// the preview stays up until Enter is pressed, or for PreviewHold when
	// that is positive.
	PreviewAddr    string        `json:"previewAddr,omitempty"`
	PreviewDelay   time.Duration `json:"-"`
	PreviewDelayMs int           `json:"previewDelayMs,omitempty"`
	PreviewHold    time.Duration `json:"-"`
	PreviewHoldMs  int           `json:"previewHoldMs,omitempty"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		Samples:        DefaultSamples,
		MaxDepth:       DefaultMaxDepth,
		Workers:        DefaultWorkers(),
		BytesPerPixel:  DefaultBytesPerPixel,
		Scene:          DefaultScene,
		Seed:           1,
		Output:         DefaultOutput,
		PreviewDelay:   DefaultPreviewDelay,
		PreviewDelayMs: int(DefaultPreviewDelay / time.Millisecond),
	}
}

// DefaultWorkers returns the number of logical CPUs
func DefaultWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		return runtime.NumCPU()
	}
	return n
}

// Load reads a JSON configuration file. Missing fields keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.PreviewDelay = time.Duration(cfg.PreviewDelayMs) * time.Millisecond
	cfg.PreviewHold = time.Duration(cfg.PreviewHoldMs) * time.Millisecond
	return cfg, nil
}

// RegisterFlags binds the configuration fields to command line flags,
// using the current values as defaults
func RegisterFlags(fs *flag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.Width, "width", cfg.Width, "Image width in pixels")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "Image height in pixels")
	fs.IntVar(&cfg.Samples, "samples", cfg.Samples, "Samples per pixel")
	fs.IntVar(&cfg.MaxDepth, "depth", cfg.MaxDepth, "Maximum ray bounce depth")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Number of render workers")
	fs.IntVar(&cfg.BytesPerPixel, "bpp", cfg.BytesPerPixel, "Bytes per pixel: 3 (BGR) or 4 (BGRA)")
	fs.StringVar(&cfg.Scene, "scene", cfg.Scene, "Scene to render")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Master random seed")
	fs.BoolVar(&cfg.GlobalIllumination, "gi", cfg.GlobalIllumination, "Light the scene with a sky gradient")
	fs.BoolVar(&cfg.DepthOfField, "dof", cfg.DepthOfField, "Enable depth of field")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "Output file (.bmp or .png)")
	fs.StringVar(&cfg.PreviewAddr, "preview", cfg.PreviewAddr, "Address for the live preview server, e.g. :8080")
	fs.DurationVar(&cfg.PreviewDelay, "preview-delay", cfg.PreviewDelay, "Wait before rendering so a viewer can connect")
	fs.DurationVar(&cfg.PreviewHold, "preview-hold", cfg.PreviewHold, "Keep the finished preview up this long (0 = until Enter)")
}

// Parse builds a configuration from the command line. Values from a file
// named by -config are applied first, then any flags given explicitly.
func Parse(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Default()
	path := fs.String("config", "", "JSON configuration file")
	RegisterFlags(fs, &cfg)
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if *path == "" {
		return cfg, nil
	}

	explicit := map[string]string{}
	fs.Visit(func(f *flag.Flag) {
		if f.Name != "config" {
			explicit[f.Name] = f.Value.String()
		}
	})

	loaded, err := Load(*path)
	if err != nil {
		return cfg, err
	}
	cfg = loaded
	for name, value := range explicit {
		if err := fs.Set(name, value); err != nil {
			return cfg, fmt.Errorf("failed to reapply flag -%s: %w", name, err)
		}
	}
	return cfg, nil
}

// Normalize raises values below their minimums and fills in unset fields.
// Each adjustment is logged as a warning; nothing is rejected.
func (c *Config) Normalize(logger core.Logger) {
	warn := func(format string, args ...interface{}) {
		if logger != nil {
			logger.Printf("Warning: "+format+"\n", args...)
		} else {
			glog.Warningf(format, args...)
		}
	}

	if c.Width < MinWidth {
		warn("width %d below minimum, using %d", c.Width, MinWidth)
		c.Width = MinWidth
	}
	if c.Height < MinHeight {
		warn("height %d below minimum, using %d", c.Height, MinHeight)
		c.Height = MinHeight
	}
	if c.Samples < MinSamples {
		warn("samples %d below minimum, using %d", c.Samples, MinSamples)
		c.Samples = MinSamples
	}
	if c.MaxDepth < MinDepth {
		warn("depth %d below minimum, using %d", c.MaxDepth, MinDepth)
		c.MaxDepth = MinDepth
	}
	if c.Workers < 1 {
		n := DefaultWorkers()
		warn("workers %d invalid, using %d", c.Workers, n)
		c.Workers = n
	}
	if c.BytesPerPixel != 3 && c.BytesPerPixel != 4 {
		warn("bytes per pixel %d unsupported, using %d", c.BytesPerPixel, DefaultBytesPerPixel)
		c.BytesPerPixel = DefaultBytesPerPixel
	}
	if c.PreviewDelay < 0 {
		c.PreviewDelay = 0
	}
	if c.PreviewHold < 0 {
		c.PreviewHold = 0
	}
	if c.Scene == "" {
		c.Scene = DefaultScene
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
}
