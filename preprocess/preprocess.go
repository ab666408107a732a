package preprocess

// Package preprocess normalizes scanned images before recognition: grayscale
// conversion and small-angle deskew via a projection-profile estimate. It is
// best-effort by design; callers fall back to the original bytes on failure.

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

const (
	// maxSkewDegrees bounds the deskew search; document scans rarely tilt
	// further than this.
	maxSkewDegrees  = 5.0
	skewStepDegrees = 0.5
	// minCorrection below which rotation is skipped; resampling noise would
	// outweigh the gain.
	minCorrection = 0.25
	darkThreshold = 128
)

// Normalizer converts images to grayscale and optionally deskews them.
// The zero value is ready to use.
type Normalizer struct{}

// NewNormalizer returns a ready Normalizer.
func NewNormalizer() *Normalizer { return &Normalizer{} }

// Normalize decodes the image, converts it to grayscale, optionally rotates
// out the estimated skew, and re-encodes as PNG.
func (n *Normalizer) Normalize(data []byte, deskew bool) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	gray := toGray(img)
	if deskew {
		if angle := estimateSkew(gray); math.Abs(angle) >= minCorrection {
			gray = rotate(gray, -angle)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func toGray(src image.Image) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
	return dst
}

// estimateSkew returns the text skew in degrees. For each candidate angle the
// image rows are counted along sheared scanlines; the angle maximizing the
// variance of dark-pixel counts per row aligns the scanlines with the text
// baselines.
func estimateSkew(img *image.Gray) float64 {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w < 16 || h < 16 {
		return 0
	}
	best, bestScore := 0.0, -1.0
	for angle := -maxSkewDegrees; angle <= maxSkewDegrees; angle += skewStepDegrees {
		if score := shearScore(img, angle); score > bestScore {
			bestScore = score
			best = angle
		}
	}
	return best
}

func shearScore(img *image.Gray, angleDeg float64) float64 {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	tan := math.Tan(angleDeg * math.Pi / 180)
	counts := make([]float64, h)
	for y := 0; y < h; y++ {
		n := 0
		for x := 0; x < w; x++ {
			sy := y + int(math.Round(float64(x)*tan))
			if sy < 0 || sy >= h {
				continue
			}
			if img.GrayAt(img.Rect.Min.X+x, img.Rect.Min.Y+sy).Y < darkThreshold {
				n++
			}
		}
		counts[y] = float64(n)
	}
	var sum, sumSq float64
	for _, c := range counts {
		sum += c
		sumSq += c * c
	}
	mean := sum / float64(h)
	return sumSq/float64(h) - mean*mean
}

// rotate applies a rotation about the image center, filling uncovered corners
// with white.
func rotate(src *image.Gray, angleDeg float64) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for i := range dst.Pix {
		dst.Pix[i] = 0xff
	}
	sin, cos := math.Sincos(angleDeg * math.Pi / 180)
	cx, cy := float64(b.Dx())/2, float64(b.Dy())/2
	m := f64.Aff3{
		cos, -sin, cx - cos*cx + sin*cy,
		sin, cos, cy - sin*cx - cos*cy,
	}
	xdraw.BiLinear.Transform(dst, m, src, b, xdraw.Src, nil)
	return dst
}
