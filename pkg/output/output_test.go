package output

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"golang.org/x/image/bmp"
)

func testFrame() *renderer.Frame {
	// 2x2 BGR: top row red, green; bottom row blue, white
	return &renderer.Frame{
		Width:         2,
		Height:        2,
		BytesPerPixel: 3,
		Pixels: []byte{
			0, 0, 255, 0, 255, 0,
			255, 0, 0, 255, 255, 255,
		},
	}
}

var wantColors = map[[2]int]color.RGBA{
	{0, 0}: {R: 255, A: 255},
	{1, 0}: {G: 255, A: 255},
	{0, 1}: {B: 255, A: 255},
	{1, 1}: {R: 255, G: 255, B: 255, A: 255},
}

func checkImage(t *testing.T, img image.Image) {
	t.Helper()
	if img.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("Unexpected bounds %v", img.Bounds())
	}
	for p, want := range wantColors {
		got := color.RGBAModel.Convert(img.At(p[0], p[1])).(color.RGBA)
		if got != want {
			t.Errorf("Pixel %v: expected %v, got %v", p, want, got)
		}
	}
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"render.bmp", FormatBMP, false},
		{"out/RENDER.BMP", FormatBMP, false},
		{"render.png", FormatPNG, false},
		{"render.jpg", "", true},
		{"render", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFor(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FormatFor(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("FormatFor(%q) = %q, expected %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	t.Run("bmp", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Encode(&buf, testFrame(), FormatBMP); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		img, err := bmp.Decode(&buf)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		checkImage(t, img)
	})

	t.Run("png", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Encode(&buf, testFrame(), FormatPNG); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		img, err := png.Decode(&buf)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		checkImage(t, img)
	})
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "render.png")
	if err := Write(path, testFrame()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Output file missing: %v", err)
	}
	defer file.Close()
	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("Output is not a PNG: %v", err)
	}
	checkImage(t, img)

	if err := Write(filepath.Join(t.TempDir(), "render.gif"), testFrame()); err == nil {
		t.Errorf("Expected an error for an unsupported extension")
	}
}
