package willowvr

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-enter", "after-enter"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"back\\slash", "back_slash"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"MixedCase123", "MixedCase123"},
	}
	for _, tt := range tests {
		got := sanitizeLabel(tt.in)
		if got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScreenshotQueueAppend(t *testing.T) {
	rt := NewRuntime(nil, RuntimeOptions{})
	rt.Screenshot("a")
	rt.Screenshot("b")
	rt.Screenshot("c")
	if len(rt.screenshotQueue) != 3 {
		t.Fatalf("queue len = %d, want 3", len(rt.screenshotQueue))
	}
	if rt.screenshotQueue[0] != "a" || rt.screenshotQueue[1] != "b" || rt.screenshotQueue[2] != "c" {
		t.Errorf("queue = %v, want [a b c]", rt.screenshotQueue)
	}
}

func TestPremultipliedToNRGBA(t *testing.T) {
	pixels := []byte{
		255, 0, 0, 255, // opaque red
		64, 32, 0, 128, // half-alpha
		0, 0, 0, 0, // transparent
	}
	img := premultipliedToNRGBA(pixels, 3, 1)

	tests := []struct {
		x    int
		want color.NRGBA
	}{
		{0, color.NRGBA{255, 0, 0, 255}},
		{1, color.NRGBA{127, 63, 0, 128}},
		{2, color.NRGBA{0, 0, 0, 0}},
	}
	for _, tt := range tests {
		if got := img.NRGBAAt(tt.x, 0); got != tt.want {
			t.Errorf("pixel %d = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(1, 1, color.NRGBA{10, 20, 30, 255})

	if err := writePNG(path, src); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	r, g, b, _ := img.At(1, 1).RGBA()
	if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Errorf("pixel = (%d, %d, %d), want (10, 20, 30)", r>>8, g>>8, b>>8)
	}

	if err := writePNG(filepath.Join(t.TempDir(), "missing", "x.png"), src); err == nil {
		t.Error("expected error for missing directory")
	}
}
