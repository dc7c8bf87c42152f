// Package imaging normalizes uploaded avatars: only real images are
// accepted and every avatar is stored as a bounded webp.
package imaging

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/BruksfildServices01/tour-guide-api/internal/httperr"
)

const (
	AvatarMaxSide     = 400
	AvatarContentType = "image/webp"
	AvatarExtension   = ".webp"

	// MaxPixels bounds the decoded size of an upload, whatever its byte size.
	MaxPixels = 25_000_000

	webpQuality = 80
)

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Sniff checks the content, not the declared type, against the allowed
// image formats.
func Sniff(data []byte) (string, error) {
	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		if allowedTypes[m.String()] {
			return m.String(), nil
		}
	}
	return "", httperr.ErrBusiness(httperr.CodeUnsupportedFileType)
}

// ProcessAvatar validates the upload and returns it re-encoded as webp,
// scaled down so neither side exceeds AvatarMaxSide.
func ProcessAvatar(data []byte, maxBytes int64) ([]byte, error) {
	if len(data) == 0 {
		return nil, httperr.ErrBusiness(httperr.CodeFileRequired)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, httperr.ErrBusiness(httperr.CodeFileTooLarge)
	}
	if _, err := Sniff(data); err != nil {
		return nil, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, httperr.ErrBusinessf(httperr.CodeUnsupportedFileType, "Image could not be decoded")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, httperr.ErrBusinessf(httperr.CodeUnsupportedFileType, "Image dimensions are too large")
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, httperr.ErrBusinessf(httperr.CodeUnsupportedFileType, "Image could not be decoded")
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, Fit(src, AvatarMaxSide), &webp.Options{Quality: webpQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Fit scales img down to fit in a side x side square keeping the aspect
// ratio. Smaller images are returned unchanged.
func Fit(img image.Image, side int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= side && h <= side {
		return img
	}

	nw, nh := side, side
	if w > h {
		nh = h * side / w
	} else {
		nw = w * side / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
