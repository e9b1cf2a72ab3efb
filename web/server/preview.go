package server

import (
	"image"
	"image/color"
	"sync/atomic"

	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// placeholderSquare is the checker size drawn before any pixel arrives
const placeholderSquare = 20

// Preview is a live copy of the image being rendered. It implements
// renderer.PixelSink without locks so workers never wait on viewers.
type Preview struct {
	width, height int
	pixels        []atomic.Uint32 // Packed RGBA
	written       atomic.Int64
	complete      atomic.Bool
}

var _ renderer.PixelSink = (*Preview)(nil)

// NewPreview creates a preview filled with a white and gray checkerboard
func NewPreview(width, height int) *Preview {
	p := &Preview{
		width:  max(0, width),
		height: max(0, height),
	}
	p.pixels = make([]atomic.Uint32, p.width*p.height)

	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	gray := color.RGBA{R: 192, G: 192, B: 192, A: 255}
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			c := white
			if (x/placeholderSquare+y/placeholderSquare)%2 == 1 {
				c = gray
			}
			p.pixels[y*p.width+x].Store(pack(c))
		}
	}
	return p
}

// SetPixel implements renderer.PixelSink. Out of range pixels are ignored.
func (p *Preview) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || y < 0 || x >= p.width || y >= p.height {
		return
	}
	p.pixels[y*p.width+x].Store(pack(c))
	p.written.Add(1)
}

// MarkComplete records that the render finished; it has the signature of
// renderer.PoolConfig.OnFinished
func (p *Preview) MarkComplete(frame *renderer.Frame) {
	p.complete.Store(true)
}

// Complete reports whether the render has finished
func (p *Preview) Complete() bool {
	return p.complete.Load()
}

// Progress returns pixels received and the total expected
func (p *Preview) Progress() (written, total int) {
	total = p.width * p.height
	return min(int(p.written.Load()), total), total
}

// Bounds returns the preview size
func (p *Preview) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// At returns the current color of a pixel
func (p *Preview) At(x, y int) color.RGBA {
	return unpack(p.pixels[y*p.width+x].Load())
}

// Snapshot copies the current state into an image, scaled up by an integer factor
func (p *Preview) Snapshot(scale int) *image.RGBA {
	scale = max(1, scale)
	img := image.NewRGBA(image.Rect(0, 0, p.width*scale, p.height*scale))
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			c := p.At(x, y)
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.SetRGBA(x*scale+dx, y*scale+dy, c)
				}
			}
		}
	}
	return img
}

func pack(c color.RGBA) uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

func unpack(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
}
