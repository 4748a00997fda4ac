package imageproc

import (
	"errors"
	"fmt"
	"image"
	"io"

	// регистрация декодеров jpeg/png/gif для image.DecodeConfig
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Metadata - вычитывает разрешение картинки без полного декодирования пикселей
func Metadata(r io.Reader) (resolution string, err error) {
	if r == nil {
		return "", errors.New("nil-reader provided to Metadata")
	}

	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return "", fmt.Errorf("failed to decode image config: %w", err)
	}

	return fmt.Sprintf("%dx%d", cfg.Width, cfg.Height), nil
}
