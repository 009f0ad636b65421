package ocr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageFormat is the MIME type of an input image.
type ImageFormat string

const (
	ImageFormatPNG  ImageFormat = "image/png"
	ImageFormatJPEG ImageFormat = "image/jpeg"
	ImageFormatGIF  ImageFormat = "image/gif"
	ImageFormatBMP  ImageFormat = "image/bmp"
	ImageFormatTIFF ImageFormat = "image/tiff"
	ImageFormatWebP ImageFormat = "image/webp"
)

var formatsByName = map[string]ImageFormat{
	"png":  ImageFormatPNG,
	"jpeg": ImageFormatJPEG,
	"gif":  ImageFormatGIF,
	"bmp":  ImageFormatBMP,
	"tiff": ImageFormatTIFF,
	"webp": ImageFormatWebP,
}

// ImageInfo describes an encoded image without decoding its pixels.
type ImageInfo struct {
	Format ImageFormat
	Width  int
	Height int
}

// DetectImage reads the header of an encoded image.
func DetectImage(data []byte) (ImageInfo, error) {
	if len(data) == 0 {
		return ImageInfo{}, ErrNoImage
	}
	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageInfo{}, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	format, ok := formatsByName[name]
	if !ok {
		return ImageInfo{}, fmt.Errorf("%w: %s", ErrUnsupportedImage, name)
	}
	return ImageInfo{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}
