// Package qrcard renders a digest as a QR code on a coloured card. The card
// gradient runs from the colour of the digest's first three bytes to the
// colour of its last three, so different digests are easy to tell apart at a
// glance.
package qrcard

import (
	"encoding/hex"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"RipeDigest/enc"

	"github.com/decred/dcrwallet/errors/v2"
	"github.com/skip2/go-qrcode"
)

const (
	Scale  = 8
	Margin = 32
)

// Valid reports whether s is a well-formed digest.
func Valid(s string) bool {
	if len(s) != 2*enc.Size {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

func fillGradient(img *image.NRGBA, top, bottom color.NRGBA) {
	b := img.Bounds()
	h := b.Dy()
	for y := 0; y < h; y++ {
		t := float64(y) / float64(h-1)
		mix := func(a, b uint8) uint8 {
			return uint8(float64(a)*(1-t) + float64(b)*t)
		}
		col := color.NRGBA{
			R: mix(top.R, bottom.R),
			G: mix(top.G, bottom.G),
			B: mix(top.B, bottom.B),
			A: 0xff,
		}
		for x := 0; x < b.Dx(); x++ {
			img.SetNRGBA(x, y, col)
		}
	}
}

// Card returns the card image for digest.
func Card(digest string) (*image.NRGBA, error) {
	const op errors.Op = "qrcard.Card"
	if !Valid(digest) {
		return nil, errors.E(op, errors.Invalid, errors.Errorf("not a digest: %q", digest))
	}
	raw, _ := hex.DecodeString(digest)

	qr, err := qrcode.New(digest, qrcode.Medium)
	if err != nil {
		return nil, errors.E(op, errors.Encoding, err)
	}
	bitmap := qr.Bitmap()
	qrSize := len(bitmap) * Scale
	side := qrSize + 2*Margin

	img := image.NewNRGBA(image.Rect(0, 0, side, side))
	top := color.NRGBA{R: raw[0], G: raw[1], B: raw[2], A: 0xff}
	bottom := color.NRGBA{R: raw[enc.Size-3], G: raw[enc.Size-2], B: raw[enc.Size-1], A: 0xff}
	fillGradient(img, top, bottom)

	black := color.NRGBA{A: 0xff}
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	for y, row := range bitmap {
		for x, set := range row {
			col := white
			if set {
				col = black
			}
			for yy := 0; yy < Scale; yy++ {
				for xx := 0; xx < Scale; xx++ {
					img.SetNRGBA(Margin+x*Scale+xx, Margin+y*Scale+yy, col)
				}
			}
		}
	}
	return img, nil
}

// EncodePNG writes the card for digest to w as a PNG.
func EncodePNG(digest string, w io.Writer) error {
	img, err := Card(digest)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return errors.E(errors.Op("qrcard.EncodePNG"), errors.IO, err)
	}
	return nil
}

// WriteFile writes the card for digest to a PNG file at path.
func WriteFile(digest, path string) error {
	const op errors.Op = "qrcard.WriteFile"
	f, err := os.Create(path)
	if err != nil {
		return errors.E(op, errors.IO, err)
	}
	if err := EncodePNG(digest, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.E(op, errors.IO, err)
	}
	return nil
}
