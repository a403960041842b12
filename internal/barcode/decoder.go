// Package barcode wraps the external decode capability for uploaded
// images. Camera frames enter the arbiter through its FrameSource
// interface; this package covers the single-shot path.
package barcode

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// ErrNoCode means the image decoded fine but held no readable barcode.
// For single-shot uploads this is surfaced to the operator; for camera
// frames the equivalent condition is swallowed by the frame loop.
var ErrNoCode = errors.New("no barcode found in image")

// ImageDecoder decodes QR and 1D barcodes from still images.
type ImageDecoder struct {
	readers []gozxing.Reader
}

func NewImageDecoder() *ImageDecoder {
	return &ImageDecoder{
		readers: []gozxing.Reader{
			qrcode.NewQRCodeReader(),
			oned.NewMultiFormatOneDReader(nil),
		},
	}
}

// Decode reads one image and returns the text of the first code found.
func (d *ImageDecoder) Decode(r io.Reader) (string, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("prepare bitmap: %w", err)
	}

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	for _, reader := range d.readers {
		if result, err := reader.Decode(bmp, hints); err == nil {
			return result.GetText(), nil
		}
	}
	return "", ErrNoCode
}
