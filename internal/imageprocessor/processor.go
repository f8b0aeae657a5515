package imageprocessor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrTooManyPixels     = errors.New("image dimensions exceed the pixel limit")
)

// DefaultMaxPixels - 40 Мп, около 160 МБ в RGBA после декодирования
const DefaultMaxPixels = 40_000_000

// Result - перекодированная фотография
type Result struct {
	Data        []byte
	Format      string // jpeg | png
	ContentType string
	Width       int
	Height      int
}

// Processor уменьшает фото объявлений до maxDimension по большей стороне
type Processor struct {
	maxDimension int
	quality      int // JPEG 1-100
	maxPixels    int64
}

// NewProcessor; maxPixels ограничивает ширину*высоту до декодирования
func NewProcessor(maxDimension, quality int, maxPixels int64) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	if maxDimension <= 0 {
		maxDimension = 1600
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &Processor{maxDimension: maxDimension, quality: quality, maxPixels: maxPixels}
}

// Process декодирует фото, при необходимости уменьшает и кодирует в исходный формат.
// Ширина*высота из заголовка проверяется до image.Decode (ErrTooManyPixels).
func (p *Processor) Process(reader io.Reader) (*Result, error) {
	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > p.maxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooManyPixels, cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	img = p.fit(img)
	bounds := img.Bounds()

	var buf bytes.Buffer
	res := &Result{Width: bounds.Dx(), Height: bounds.Dy()}
	switch format {
	case "jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		res.Format, res.ContentType = "jpeg", "image/jpeg"
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode PNG: %w", err)
		}
		res.Format, res.ContentType = "png", "image/png"
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	res.Data = buf.Bytes()
	return res, nil
}

// fit сохраняет пропорции; маленькие изображения не увеличиваются
func (p *Processor) fit(img image.Image) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= p.maxDimension && height <= p.maxDimension {
		return img
	}

	newWidth, newHeight := p.maxDimension, p.maxDimension
	if width >= height {
		newHeight = height * p.maxDimension / width
	} else {
		newWidth = width * p.maxDimension / height
	}
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
