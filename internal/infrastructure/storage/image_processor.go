package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

// DefaultMaxDimension bounds the longest side of stored cover images
const DefaultMaxDimension = 1600

// ImageProcessor shrinks oversized images before they are stored.
type ImageProcessor struct {
	MaxDimension int
}

func NewImageProcessor(maxDimension int) *ImageProcessor {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	return &ImageProcessor{MaxDimension: maxDimension}
}

// Fit returns data scaled down to MaxDimension, keeping the aspect ratio and
// the encoding format. Images already small enough, and formats the image
// package cannot decode (webp, svg...), come back untouched with resized=false.
// Animated GIFs are also kept as they are; re-encoding would keep only the
// first frame.
func (p *ImageProcessor) Fit(data []byte) (out []byte, resized bool, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return data, false, nil
	}
	if cfg.Width <= p.MaxDimension && cfg.Height <= p.MaxDimension {
		return data, false, nil
	}

	var target imaging.Format
	switch format {
	case "jpeg":
		target = imaging.JPEG
	case "png":
		target = imaging.PNG
	case "gif":
		if isAnimatedGIF(data) {
			return data, false, nil
		}
		target = imaging.GIF
	default:
		return data, false, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("cannot decode image: %w", err)
	}

	fitted := imaging.Fit(img, p.MaxDimension, p.MaxDimension, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, fitted, target, imaging.JPEGQuality(90)); err != nil {
		return nil, false, fmt.Errorf("cannot encode %s: %w", format, err)
	}
	return buf.Bytes(), true, nil
}

func isAnimatedGIF(data []byte) bool {
	anim, err := gif.DecodeAll(bytes.NewReader(data))
	return err == nil && len(anim.Image) > 1
}
