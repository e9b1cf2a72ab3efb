package renderer

import (
	"image"
	"image/color"
)

// Frame is the assembled framebuffer, rows top-down in BGR(A) order
type Frame struct {
	Width         int
	Height        int
	BytesPerPixel int
	Pixels        []byte
}

// AssembleInto copies worker buffers into dst in index order. Bytes that
// would land past the end of dst are dropped. Returns the bytes written.
func AssembleInto(dst []byte, buffers []*WorkerImageBuffer) int {
	written := 0
	for _, b := range buffers {
		if written >= len(dst) {
			break
		}
		if b == nil {
			continue
		}
		written += copy(dst[written:], b.Pixels)
	}
	return written
}

// Assemble allocates a frame of props.BufferSize bytes and fills it from the worker buffers
func Assemble(props RenderProperties, buffers []*WorkerImageBuffer) *Frame {
	frame := &Frame{
		Width:         props.Width,
		Height:        props.Height,
		BytesPerPixel: props.BytesPerPixel,
		Pixels:        make([]byte, props.BufferSize),
	}
	AssembleInto(frame.Pixels, buffers)
	return frame
}

// At returns the color of pixel (x, y), with y counted from the top
func (f *Frame) At(x, y int) color.RGBA {
	i := (y*f.Width + x) * f.BytesPerPixel
	c := color.RGBA{R: f.Pixels[i+2], G: f.Pixels[i+1], B: f.Pixels[i], A: 255}
	if f.BytesPerPixel == BytesPerPixelBGRA {
		c.A = f.Pixels[i+3]
	}
	return c
}

// ToRGBA converts the frame to a standard image
func (f *Frame) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			img.SetRGBA(x, y, f.At(x, y))
		}
	}
	return img
}
