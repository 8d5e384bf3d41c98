// Package qr encodes registration ids into QR images and decodes QR
// photos sent by organizers during check-in.
package qr

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"favor-bot/util/common"

	"github.com/makiuchi-d/gozxing"
	zxqrcode "github.com/makiuchi-d/gozxing/qrcode"
	qrcode "github.com/skip2/go-qrcode"
)

// Encode renders text as a 256x256 PNG with medium error correction.
func Encode(text string) ([]byte, error) {
	return qrcode.Encode(text, qrcode.Medium, 256)
}

// Decode extracts the QR payload from a PNG or JPEG image. Telegram
// re-encodes photos as JPEG, so both formats are registered.
func Decode(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", common.Wrap("qr.Decode", err)
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", common.Wrap("qr.Decode", err)
	}

	result, err := zxqrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", common.ErrQRNotRecognized
	}
	return result.GetText(), nil
}
