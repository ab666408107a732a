package preprocess

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"testing"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// stripes draws horizontal dark bars, optionally sheared to simulate skew.
func stripes(skewDeg float64) *image.RGBA {
	const w, h = 200, 200
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	tan := math.Tan(skewDeg * math.Pi / 180)
	for y := 20; y < h-20; y += 20 {
		for x := 10; x < w-10; x++ {
			sy := y + int(math.Round(float64(x)*tan))
			if sy >= 0 && sy < h {
				img.Set(x, sy, color.Black)
				img.Set(x, sy+1, color.Black)
			}
		}
	}
	return img
}

func TestNormalizeProducesGrayPNG(t *testing.T) {
	n := NewNormalizer()
	out, err := n.Normalize(encodePNG(t, stripes(0)), false)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a decodable PNG: %v", err)
	}
	if _, ok := img.(*image.Gray); !ok {
		t.Fatalf("output is %T, want *image.Gray", img)
	}
	b := img.Bounds()
	if b.Dx() != 200 || b.Dy() != 200 {
		t.Fatalf("output dimensions = %dx%d", b.Dx(), b.Dy())
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	n := NewNormalizer()
	if _, err := n.Normalize([]byte("not an image"), true); err == nil {
		t.Fatalf("Normalize accepted garbage input")
	}
}

func TestEstimateSkewStraightImage(t *testing.T) {
	gray := toGray(stripes(0))
	if angle := estimateSkew(gray); math.Abs(angle) > 0.6 {
		t.Fatalf("estimateSkew on straight stripes = %v, want ~0", angle)
	}
}

func TestEstimateSkewDetectsTilt(t *testing.T) {
	gray := toGray(stripes(2))
	angle := estimateSkew(gray)
	if math.Abs(angle-2) > 1 {
		t.Fatalf("estimateSkew on 2-degree stripes = %v", angle)
	}
}

func TestEstimateSkewTinyImage(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 4))
	if angle := estimateSkew(gray); angle != 0 {
		t.Fatalf("tiny image skew = %v, want 0", angle)
	}
}

func TestNormalizeDeskewKeepsDimensions(t *testing.T) {
	n := NewNormalizer()
	out, err := n.Normalize(encodePNG(t, stripes(3)), true)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 200 || b.Dy() != 200 {
		t.Fatalf("deskewed dimensions = %dx%d, want 200x200", b.Dx(), b.Dy())
	}
}
