package willowvr

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Screenshot queues a labeled screenshot to be captured at the end of the
// next Draw in Run. The PNG is written to ScreenshotDir with a timestamped
// filename.
func (rt *Runtime) Screenshot(label string) {
	rt.screenshotQueue = append(rt.screenshotQueue, label)
}

// flushScreenshots captures img for every queued label and writes each as
// a PNG file.
func (rt *Runtime) flushScreenshots(img *ebiten.Image) {
	if len(rt.screenshotQueue) == 0 {
		return
	}
	defer func() { rt.screenshotQueue = rt.screenshotQueue[:0] }()

	if err := os.MkdirAll(rt.ScreenshotDir, 0o755); err != nil {
		Logger().Warn("screenshot: mkdir failed", "dir", rt.ScreenshotDir, "err", err)
		return
	}

	nrgba := readNRGBA(img)
	stamp := time.Now().Format("20060102_150405")
	for _, label := range rt.screenshotQueue {
		path := fmt.Sprintf("%s/%s_%s.png", rt.ScreenshotDir, stamp, sanitizeLabel(label))
		if err := writePNG(path, nrgba); err != nil {
			Logger().Warn("screenshot failed", "err", err)
		}
	}
}

// readNRGBA reads an ebiten image back as straight-alpha NRGBA.
func readNRGBA(src *ebiten.Image) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	pixels := make([]byte, 4*w*h)
	src.ReadPixels(pixels)
	return premultipliedToNRGBA(pixels, w, h)
}

// premultipliedToNRGBA converts premultiplied RGBA bytes to straight alpha.
func premultipliedToNRGBA(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(pixels) && i+3 < len(img.Pix); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
