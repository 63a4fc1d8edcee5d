package photo

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestPNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 128, 255})
		}
	}
	path := filepath.Join(t.TempDir(), "survey.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPNG(t *testing.T) {
	path := writeTestPNG(t, 64, 48)
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Width() != 64 || p.Height() != 48 {
		t.Errorf("size = %dx%d, want 64x48", p.Width(), p.Height())
	}
	if !p.Visible || p.Opacity != 1.0 {
		t.Error("loaded photo should default to visible at full opacity")
	}
	if p.DPI != 0 {
		t.Errorf("DPI = %v for PNG, want 0", p.DPI)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.png")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestPixelAtOutOfRange(t *testing.T) {
	p, err := Load(writeTestPNG(t, 8, 8))
	if err != nil {
		t.Fatal(err)
	}
	if got := p.PixelAt(-1, 3); got != color.Black {
		t.Errorf("out of range pixel = %v, want black", got)
	}
}

func TestIsSupportedFormat(t *testing.T) {
	cases := map[string]bool{
		"scan.tif":   true,
		"scan.TIFF":  true,
		"photo.jpeg": true,
		"photo.png":  true,
		"notes.txt":  false,
		"model.heic": false,
	}
	for path, want := range cases {
		if got := IsSupportedFormat(path); got != want {
			t.Errorf("IsSupportedFormat(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestPixelsPerMeter(t *testing.T) {
	p := &Photo{DPI: 300}
	got := p.PixelsPerMeter()
	if got < 11811 || got > 11812 {
		t.Errorf("PixelsPerMeter at 300 DPI = %v, want ~11811", got)
	}
	if (&Photo{}).PixelsPerMeter() != 0 {
		t.Error("unknown DPI should give 0 pixels per meter")
	}
}
