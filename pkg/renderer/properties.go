package renderer

// Supported framebuffer layouts
const (
	BytesPerPixelBGR  = 3
	BytesPerPixelBGRA = 4
)

// RenderProperties describes the output image. It is computed once and
// passed by value to every worker.
type RenderProperties struct {
	Width           int // Image width in pixels
	Height          int // Image height in pixels
	BytesPerPixel   int // 3 (BGR) or 4 (BGRA)
	SamplesPerPixel int // Jittered samples averaged per pixel
	MaxDepth        int // Recursion bound for scattered rays
	BufferSize      int // Width * Height * BytesPerPixel
}

// NewRenderProperties computes the render properties. Non-positive sizes
// become zero and any pixel layout other than BGRA falls back to BGR.
func NewRenderProperties(width, height, bytesPerPixel, samplesPerPixel, maxDepth int) RenderProperties {
	width = max(0, width)
	height = max(0, height)
	if bytesPerPixel != BytesPerPixelBGRA {
		bytesPerPixel = BytesPerPixelBGR
	}
	return RenderProperties{
		Width:           width,
		Height:          height,
		BytesPerPixel:   bytesPerPixel,
		SamplesPerPixel: max(1, samplesPerPixel),
		MaxDepth:        maxDepth,
		BufferSize:      width * height * bytesPerPixel,
	}
}

// AspectRatio returns width / height, or 1 for an empty image
func (p RenderProperties) AspectRatio() float64 {
	if p.Height == 0 {
		return 1
	}
	return float64(p.Width) / float64(p.Height)
}
