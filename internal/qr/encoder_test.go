package qr

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/makiuchi-d/gozxing"
	gzqr "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, img image.Image) string {
	t.Helper()
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	require.NoError(t, err)
	result, err := gzqr.NewQRCodeReader().Decode(bmp, nil)
	require.NoError(t, err)
	return result.GetText()
}

func TestEncodePNGRoundTrip(t *testing.T) {
	payloads := []string{
		"https://cdn.example/abc123.jpg",
		"https://res.cloudinary.com/demo/image/upload/v1700000000/transform/abc123.jpg",
		"a",
	}

	for _, payload := range payloads {
		t.Run(payload, func(t *testing.T) {
			data, err := EncodePNG(payload)
			require.NoError(t, err)

			img, err := png.Decode(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, payload, decode(t, img))
		})
	}
}

func TestEncodeEmptyPayload(t *testing.T) {
	_, err := Encode("")
	assert.ErrorIs(t, err, ErrEmptyPayload)

	_, err = EncodePNG("")
	assert.ErrorIs(t, err, ErrEmptyPayload)
}

func TestSymbolGeometry(t *testing.T) {
	sym, err := Encode("https://cdn.example/abc123.jpg")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example/abc123.jpg", sym.Content())
	require.GreaterOrEqual(t, sym.Version(), 1)

	wantSize := 4*sym.Version() + 17 + 2*QuietZone
	assert.Equal(t, wantSize, sym.Size())

	bitmap := sym.Bitmap()
	require.Len(t, bitmap, wantSize)
	for i := 0; i < QuietZone; i++ {
		assert.False(t, bitmap[i][i], "quiet zone module (%d,%d) must be light", i, i)
	}
	// 左上角定位圖案的外框
	assert.True(t, bitmap[QuietZone][QuietZone])
}

func TestShortPayloadUsesVersionOne(t *testing.T) {
	sym, err := Encode("abc")
	require.NoError(t, err)
	assert.Equal(t, 1, sym.Version())
	assert.Equal(t, 21+2*QuietZone, sym.Size())
}

func TestRendererScale(t *testing.T) {
	sym, err := Encode("https://cdn.example/abc123.jpg")
	require.NoError(t, err)

	img := NewRenderer().Image(sym)
	side := sym.Size() * DefaultModuleSize
	assert.Equal(t, image.Rect(0, 0, side, side), img.Bounds())

	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0xffff, 0xffff}, [3]uint32{r, g, b}, "background must be white")

	x := QuietZone*DefaultModuleSize + DefaultModuleSize/2
	r, g, b, _ = img.At(x, x).RGBA()
	assert.Equal(t, [3]uint32{0, 0, 0}, [3]uint32{r, g, b}, "finder module must be black")
}

func TestRendererCustomModuleSize(t *testing.T) {
	sym, err := Encode("abc")
	require.NoError(t, err)

	r := NewRenderer()
	r.ModuleSize = 3
	data, err := r.PNG(sym)
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, sym.Size()*3, cfg.Width)
	assert.Equal(t, sym.Size()*3, cfg.Height)
}
