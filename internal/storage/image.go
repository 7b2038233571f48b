package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/disintegration/imaging"
)

// ProfileImageSize bounds both sides of a stored profile image.
const ProfileImageSize = 256

// MaxImageDimension bounds the declared width and height of an upload so a
// small compressed file cannot expand into a huge bitmap.
const MaxImageDimension = 4096

// NormalizeImage decodes r, fits it into ProfileImageSize x ProfileImageSize
// and re-encodes it in the format implied by name. Non-images are rejected
// with ErrInvalidImage.
func NormalizeImage(r io.Reader, name string) ([]byte, string, error) {
	format, err := imaging.FormatFromFilename(name)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if cfg.Width > MaxImageDimension || cfg.Height > MaxImageDimension {
		return nil, "", fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalidImage, cfg.Width, cfg.Height, MaxImageDimension)
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	img = imaging.Fit(img, ProfileImageSize, ProfileImageSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(85)); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), contentTypes[format], nil
}

var contentTypes = map[imaging.Format]string{
	imaging.JPEG: "image/jpeg",
	imaging.PNG:  "image/png",
	imaging.GIF:  "image/gif",
}

var defaultImage = sync.OnceValue(func() []byte {
	img := imaging.New(ProfileImageSize, ProfileImageSize, color.NRGBA{R: 0xd0, G: 0xd5, B: 0xdd, A: 0xff})
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG); err != nil {
		panic(err)
	}
	return buf.Bytes()
})

// DefaultImage is the JPEG served for users without an uploaded image.
func DefaultImage() []byte {
	return defaultImage()
}
