package worker

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

func encodedImage(t *testing.T, w, h int, format imaging.Format) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, format))
	return buf.Bytes()
}

func TestTransformer_Transform_OK(t *testing.T) {
	ctx := context.Background()

	strg := newMemStorage()
	require.NoError(t, strg.Put(ctx, "uploads/abc_cat.png", 0, "image/png", bytes.NewReader(encodedImage(t, 600, 300, imaging.PNG))))

	tr := NewTransformer(strg, DefaultSizes)
	require.NoError(t, tr.Transform(ctx, "uploads/abc_cat.png"))

	// все деривативы на месте, именование {base}_{suffix}{ext}
	for _, key := range []string{
		"uploads/abc_cat_100x100.png",
		"uploads/abc_cat_500x500.png",
		"uploads/abc_cat_grayscale.png",
	} {
		data, ok := strg.object(key)
		require.True(t, ok, "missing derivative %s", key)
		require.NotEmpty(t, data)
	}

	// тамбнейл вписан в рамку с сохранением пропорций
	thumb, _ := strg.object("uploads/abc_cat_100x100.png")
	img, err := imaging.Decode(bytes.NewReader(thumb))
	require.NoError(t, err)
	require.Equal(t, 100, img.Bounds().Dx())
	require.Equal(t, 50, img.Bounds().Dy())

	// грейскейл сохраняет размеры исходника
	gray, _ := strg.object("uploads/abc_cat_grayscale.png")
	img, err = imaging.Decode(bytes.NewReader(gray))
	require.NoError(t, err)
	require.Equal(t, 600, img.Bounds().Dx())
	require.Equal(t, 300, img.Bounds().Dy())
}

func TestTransformer_Transform_NoUpscale(t *testing.T) {
	ctx := context.Background()

	strg := newMemStorage()
	require.NoError(t, strg.Put(ctx, "uploads/small.jpg", 0, "image/jpeg", bytes.NewReader(encodedImage(t, 100, 100, imaging.JPEG))))

	tr := NewTransformer(strg, DefaultSizes)
	require.NoError(t, tr.Transform(ctx, "uploads/small.jpg"))

	// исходник меньше рамки 500x500 - дериватив не растягивается
	data, ok := strg.object("uploads/small_500x500.jpg")
	require.True(t, ok)

	img, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 100, img.Bounds().Dx())
	require.Equal(t, 100, img.Bounds().Dy())
}

func TestTransformer_Transform_Idempotent(t *testing.T) {
	ctx := context.Background()

	strg := newMemStorage()
	require.NoError(t, strg.Put(ctx, "uploads/pic.png", 0, "image/png", bytes.NewReader(encodedImage(t, 300, 200, imaging.PNG))))

	tr := NewTransformer(strg, DefaultSizes)

	require.NoError(t, tr.Transform(ctx, "uploads/pic.png"))
	first := map[string][]byte{}
	for _, key := range []string{"uploads/pic_100x100.png", "uploads/pic_500x500.png", "uploads/pic_grayscale.png"} {
		data, ok := strg.object(key)
		require.True(t, ok)
		first[key] = data
	}

	// повторный запуск перезаписывает деривативы байт-в-байт
	require.NoError(t, tr.Transform(ctx, "uploads/pic.png"))
	for key, want := range first {
		data, ok := strg.object(key)
		require.True(t, ok)
		require.Equal(t, want, data, "derivative %s changed between runs", key)
	}
}

func TestTransformer_Transform_Errors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		setup func(*memStorage)
		path  string
	}{
		{
			name:  "source missing in storage",
			setup: func(s *memStorage) {},
			path:  "uploads/nope.png",
		},
		{
			name: "storage get error",
			setup: func(s *memStorage) {
				s.getErr = errors.New("storage is down")
			},
			path: "uploads/pic.png",
		},
		{
			name: "unknown extension",
			setup: func(s *memStorage) {
				_ = s.Put(ctx, "uploads/pic.raw", 0, "application/octet-stream", bytes.NewReader([]byte("data")))
			},
			path: "uploads/pic.raw",
		},
		{
			name: "broken source bytes",
			setup: func(s *memStorage) {
				_ = s.Put(ctx, "uploads/pic.png", 0, "image/png", bytes.NewReader([]byte("not-an-image")))
			},
			path: "uploads/pic.png",
		},
		{
			name: "storage put error",
			setup: func(s *memStorage) {
				_ = s.Put(ctx, "uploads/pic.png", 0, "image/png", bytes.NewReader(encodedImage(t, 50, 50, imaging.PNG)))
				s.putErr = errors.New("storage is down")
			},
			path: "uploads/pic.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strg := newMemStorage()
			tt.setup(strg)

			tr := NewTransformer(strg, DefaultSizes)
			require.Error(t, tr.Transform(ctx, tt.path))
		})
	}
}

func TestDerivedKey(t *testing.T) {
	require.Equal(t, "uploads/a_100x100.jpg", derivedKey("uploads/a.jpg", "100x100"))
	require.Equal(t, "uploads/a_grayscale.png", derivedKey("uploads/a.png", "grayscale"))
	require.Equal(t, "noext_grayscale", derivedKey("noext", "grayscale"))
}
