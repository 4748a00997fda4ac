// Package worker contains the background transformer producing image derivatives off the request path
package worker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/UnendingLoop/ImageManager/internal/imageproc"
	"github.com/disintegration/imaging"
)

// BlobStorage - контракт для работы с хранилищем
type BlobStorage interface {
	Get(ctx context.Context, key string) (output io.ReadCloser, ctype string, err error)
	Put(ctx context.Context, key string, size int64, contentType string, r io.Reader) error
}

// Size - целевая рамка тамбнейла
type Size struct {
	W int
	H int
}

type Transformer struct {
	storage BlobStorage
	sizes   []Size
}

// DefaultSizes - фиксированный набор тамбнейлов
var DefaultSizes = []Size{{W: 100, H: 100}, {W: 500, H: 500}}

func NewTransformer(strg BlobStorage, sizes []Size) *Transformer {
	return &Transformer{storage: strg, sizes: sizes}
}

// Transform - генерирует деривативы для исходника по ключу filePath:
// тамбнейлы {base}_{W}x{H}{ext} и грейскейл {base}_grayscale{ext}.
// Идемпотентна: повторный запуск детерминированно перезаписывает прежние деривативы.
func (t *Transformer) Transform(ctx context.Context, filePath string) error {
	// достать из storage исходник
	src, cType, err := t.storage.Get(ctx, filePath)
	if err != nil {
		return fmt.Errorf("transformer failed to fetch base-image from storage: %w", err)
	}
	defer closeFileFlow(src)

	data, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("transformer failed to read base-image: %w", err)
	}

	// формат выходных файлов определяем по расширению исходного ключа
	ext := filepath.Ext(filePath)
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return fmt.Errorf("transformer failed to resolve output format for %q: %w", filePath, err)
	}

	for _, size := range t.sizes {
		result, n, err := imageproc.Thumbnailer(bytes.NewReader(data), size.W, size.H, format)
		if err != nil {
			return fmt.Errorf("transformer failed to generate %dx%d thumbnail: %w", size.W, size.H, err)
		}

		key := derivedKey(filePath, fmt.Sprintf("%dx%d", size.W, size.H))
		if err := t.storage.Put(ctx, key, n, cType, result); err != nil {
			return fmt.Errorf("transformer failed to put %dx%d thumbnail to storage: %w", size.W, size.H, err)
		}
	}

	result, n, err := imageproc.Grayscaler(bytes.NewReader(data), format)
	if err != nil {
		return fmt.Errorf("transformer failed to generate grayscale copy: %w", err)
	}
	if err := t.storage.Put(ctx, derivedKey(filePath, "grayscale"), n, cType, result); err != nil {
		return fmt.Errorf("transformer failed to put grayscale copy to storage: %w", err)
	}

	return nil
}

// derivedKey: uploads/abc.jpg + "100x100" -> uploads/abc_100x100.jpg
func derivedKey(filePath, suffix string) string {
	ext := filepath.Ext(filePath)
	base := strings.TrimSuffix(filePath, ext)
	return base + "_" + suffix + ext
}

func closeFileFlow(res io.ReadCloser) {
	if res == nil {
		return
	}

	if err := res.Close(); err != nil {
		log.Println("Transformer failed to close fileflow:", err)
	}
}
