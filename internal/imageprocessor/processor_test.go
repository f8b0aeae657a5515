package imageprocessor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestProcess_DownscalesLargeImage(t *testing.T) {
	p := NewProcessor(100, 80, 0)

	res, err := p.Process(pngOf(t, 400, 200))
	require.NoError(t, err)
	assert.Equal(t, "png", res.Format)
	assert.Equal(t, "image/png", res.ContentType)
	assert.Equal(t, 100, res.Width)
	assert.Equal(t, 50, res.Height)
	assert.NotEmpty(t, res.Data)
}

func TestProcess_KeepsSmallImage(t *testing.T) {
	p := NewProcessor(100, 80, 0)

	res, err := p.Process(pngOf(t, 40, 60))
	require.NoError(t, err)
	assert.Equal(t, 40, res.Width)
	assert.Equal(t, 60, res.Height)
}

func TestProcess_RejectsGarbage(t *testing.T) {
	p := NewProcessor(0, 0, 0)

	_, err := p.Process(strings.NewReader("not an image"))
	assert.Error(t, err)
}

// заголовок PNG с огромными размерами: сам файл маленький, пиксели не декодируются
func TestProcess_RejectsTooManyPixels(t *testing.T) {
	p := NewProcessor(1600, 85, 1_000_000)

	img := image.NewGray(image.Rect(0, 0, 2000, 1000))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	assert.Less(t, buf.Len(), 64*1024)

	_, err := p.Process(&buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTooManyPixels)
}

func TestProcess_PixelLimitInclusive(t *testing.T) {
	p := NewProcessor(1600, 85, 40*20)

	res, err := p.Process(pngOf(t, 40, 20))
	require.NoError(t, err)
	assert.Equal(t, 40, res.Width)

	_, err = p.Process(pngOf(t, 41, 20))
	assert.ErrorIs(t, err, ErrTooManyPixels)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestProcess_ReadError(t *testing.T) {
	_, err := NewProcessor(0, 0, 0).Process(failingReader{})
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
