package renderer

import "image/color"

// PixelSink receives finished pixels as they are produced, e.g. a live preview.
// Implementations must be safe for concurrent use and must not block: the
// render never waits on a sink.
type PixelSink interface {
	SetPixel(x, y int, c color.RGBA)
}

type discardSink struct{}

func (discardSink) SetPixel(x, y int, c color.RGBA) {}
