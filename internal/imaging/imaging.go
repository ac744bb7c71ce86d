// Package imaging validates and recompresses user-supplied images before
// they are uploaded.
package imaging

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"math"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // registers the WebP decoder
)

// MaxFileSize is the upload ceiling in bytes.
const MaxFileSize = 5 * 1024 * 1024

const (
	DefaultMaxWidth = 800
	DefaultQuality  = 0.8
)

// AllowedTypes is the media-type allow-list for uploads.
var AllowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

// File is an in-memory upload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Size returns the file length in bytes.
func (f *File) Size() int64 { return int64(len(f.Data)) }

// ValidationError describes why an upload was rejected. Message is meant to
// be shown to the user as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var (
	errInvalidType = &ValidationError{Message: "Please upload a valid image file (JPEG, PNG, or WebP)"}
	errTooLarge    = &ValidationError{Message: "File size must be less than 5MB"}
)

// Validate checks the media type first and then the size.
func Validate(f *File) error {
	if f == nil || !AllowedTypes[f.ContentType] {
		return errInvalidType
	}
	if f.Size() > MaxFileSize {
		return errTooLarge
	}
	return nil
}

// Compress downscales images wider than maxWidth, preserving the aspect
// ratio, and re-encodes them in their original format. quality is in (0,1]
// and only affects JPEG output. WebP is re-encoded losslessly.
//
// Compression is best effort. Undecodable input and re-encodes of an
// unresized image that come out larger yield the original file.
func Compress(f *File, maxWidth int, quality float64) *File {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if quality <= 0 || quality > 1 {
		quality = DefaultQuality
	}

	src, _, err := image.Decode(bytes.NewReader(f.Data))
	if err != nil {
		return f
	}

	img := src
	b := src.Bounds()
	resized := false
	if b.Dx() > maxWidth {
		height := int(math.Round(float64(b.Dy()) * float64(maxWidth) / float64(b.Dx())))
		if height < 1 {
			height = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
		img = dst
		resized = true
	}

	var buf bytes.Buffer
	switch f.ContentType {
	case "image/jpeg", "image/jpg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: int(math.Round(quality * 100))})
	case "image/png":
		err = (&png.Encoder{CompressionLevel: png.BestCompression}).Encode(&buf, img)
	case "image/webp":
		err = nativewebp.Encode(&buf, img, nil)
	default:
		return f
	}
	if err != nil {
		return f
	}
	if !resized && buf.Len() >= len(f.Data) {
		return f
	}
	return &File{Name: f.Name, ContentType: f.ContentType, Data: buf.Bytes()}
}
