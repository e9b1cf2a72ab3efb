package renderer

import (
	"image/color"
	"math"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/google/go-cmp/cmp"
)

func TestAssembleInto(t *testing.T) {
	buffers := []*WorkerImageBuffer{
		{ID: 0, Pixels: []byte{1, 2, 3}},
		{ID: 1, Pixels: []byte{4, 5}},
		{ID: 2, Pixels: []byte{6, 7, 8, 9}},
	}

	tests := []struct {
		name    string
		size    int
		want    []byte
		written int
	}{
		{"exact", 9, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9}, 9},
		{"truncated mid buffer", 4, []byte{1, 2, 3, 4}, 4},
		{"truncated at boundary", 5, []byte{1, 2, 3, 4, 5}, 5},
		{"larger destination", 11, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 0}, 9},
		{"empty destination", 0, []byte{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]byte, tt.size)
			written := AssembleInto(dst, buffers)
			if written != tt.written {
				t.Errorf("Expected %d bytes written, got %d", tt.written, written)
			}
			if diff := cmp.Diff(tt.want, dst); diff != "" {
				t.Errorf("Assembled bytes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAssemble_MapsBandsTopDown(t *testing.T) {
	props := NewRenderProperties(2, 3, BytesPerPixelBGR, 1, 1)
	var buffers []*WorkerImageBuffer
	for i, band := range PartitionRows(props.Height, 2) {
		b := NewWorkerImageBuffer(i, band, props)
		for row := 0; row < band.Rows; row++ {
			for x := 0; x < props.Width; x++ {
				b.SetPixel(row, x, color.RGBA{R: uint8(band.Offset + row), G: uint8(x), B: 200, A: 255})
			}
		}
		buffers = append(buffers, b)
	}

	frame := Assemble(props, buffers)
	for y := 0; y < 3; y++ {
		for x := 0; x < 2; x++ {
			want := color.RGBA{R: uint8(y), G: uint8(x), B: 200, A: 255}
			if got := frame.At(x, y); got != want {
				t.Errorf("Pixel (%d,%d): expected %v, got %v", x, y, want, got)
			}
		}
	}

	img := frame.ToRGBA()
	if got := img.RGBAAt(1, 2); got != (color.RGBA{R: 2, G: 1, B: 200, A: 255}) {
		t.Errorf("ToRGBA pixel (1,2) = %v", got)
	}
}

func TestWorkerImageBuffer_BGRA(t *testing.T) {
	props := NewRenderProperties(1, 1, BytesPerPixelBGRA, 1, 1)
	b := NewWorkerImageBuffer(0, RowRange{Offset: 0, Rows: 1}, props)
	b.SetPixel(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	if diff := cmp.Diff([]byte{30, 20, 10, 255}, b.Pixels); diff != "" {
		t.Errorf("BGRA layout mismatch (-want +got):\n%s", diff)
	}
}

func TestToDisplayColor(t *testing.T) {
	tests := []struct {
		name   string
		linear core.Vec3
		want   color.RGBA
	}{
		{"black", core.NewVec3(0, 0, 0), color.RGBA{0, 0, 0, 255}},
		{"white", core.NewVec3(1, 1, 1), color.RGBA{255, 255, 255, 255}},
		{"saturates", core.NewVec3(4, 100, 1.5), color.RGBA{255, 255, 255, 255}},
		{"gamma", core.NewVec3(0.25, 0.0625, 0.01), color.RGBA{127, 63, 25, 255}},
		{"negative", core.NewVec3(-1, 0, 0), color.RGBA{0, 0, 0, 255}},
		{"nan", core.NewVec3(math.NaN(), 1, 0), color.RGBA{0, 255, 0, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToDisplayColor(tt.linear); got != tt.want {
				t.Errorf("ToDisplayColor(%v) = %v, expected %v", tt.linear, got, tt.want)
			}
		})
	}
}

func TestNewRenderProperties(t *testing.T) {
	tests := []struct {
		name  string
		props RenderProperties
		want  RenderProperties
	}{
		{
			"bgr",
			NewRenderProperties(600, 400, 3, 4, 50),
			RenderProperties{Width: 600, Height: 400, BytesPerPixel: 3, SamplesPerPixel: 4, MaxDepth: 50, BufferSize: 720000},
		},
		{
			"bgra",
			NewRenderProperties(2, 2, 4, 1, 5),
			RenderProperties{Width: 2, Height: 2, BytesPerPixel: 4, SamplesPerPixel: 1, MaxDepth: 5, BufferSize: 16},
		},
		{
			"unsupported layout",
			NewRenderProperties(2, 2, 5, 0, 5),
			RenderProperties{Width: 2, Height: 2, BytesPerPixel: 3, SamplesPerPixel: 1, MaxDepth: 5, BufferSize: 12},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.props); diff != "" {
				t.Errorf("RenderProperties mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
