// Package artwork answers the only questions aur asks of cover images: can
// the file be decoded, and how big is it.
package artwork

import (
	"image"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"os"
	"path/filepath"
	"strings"

	"aur/internal/aurerr"
)

const (
	// CoverName is the only image file expected in a FLAC album directory.
	CoverName = "front.jpg"
	MinSize   = 350
	MaxSize   = 750
)

// Dimensions is the decoded size of an image.
type Dimensions struct {
	Width  int
	Height int
}

// Square reports whether width equals height.
func (d Dimensions) Square() bool {
	return d.Width == d.Height
}

// Decoder reads image dimensions.
type Decoder interface {
	Decode(path string) (Dimensions, error)
}

// FileDecoder decodes images from the local file system.
type FileDecoder struct{}

// Decode reads only the image header.
func (FileDecoder) Decode(path string) (Dimensions, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dimensions{}, aurerr.Wrap(aurerr.ErrIO, "", "", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return Dimensions{}, aurerr.Wrap(aurerr.ErrFormat, "", "", err)
	}
	return Dimensions{Width: cfg.Width, Height: cfg.Height}, nil
}

// ImageFile reports whether name has an image extension aur recognises.
func ImageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp":
		return true
	default:
		return false
	}
}
