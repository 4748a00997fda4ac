package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
)

func Grayscaler(r io.Reader, format imaging.Format) (io.Reader, int64, error) {
	if r == nil {
		return nil, -1, errors.New("nil-reader baseIMG provided to Grayscaler")
	}
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to DEcode baseIMG in Grayscaler: %w", err)
	}
	gray := imaging.Grayscale(img)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, gray, format); err != nil {
		return nil, 0, fmt.Errorf("failed to ENcode resultIMG in Grayscaler: %w", err)
	}
	return &buf, int64(buf.Len()), nil
}
