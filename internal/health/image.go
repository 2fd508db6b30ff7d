package health

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder
)

// InspectImage validates an uploaded file and reads its dimensions. The
// content type is sniffed from the bytes; the file name is not trusted.
func InspectImage(name string, data []byte) (Image, error) {
	if len(data) > MaxImageBytes {
		return Image{}, fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrImageTooLarge, name, len(data), MaxImageBytes)
	}
	if len(data) == 0 {
		return Image{}, fmt.Errorf("%w: %s is empty", ErrUnsupportedImage, name)
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return Image{}, fmt.Errorf("%w: %s is %s", ErrUnsupportedImage, name, mt.String())
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %s (%s): %v", ErrUnsupportedImage, name, mt.String(), err)
	}

	return Image{
		Name:     name,
		MIMEType: "image/" + format,
		Size:     len(data),
		Width:    cfg.Width,
		Height:   cfg.Height,
		Data:     data,
	}, nil
}

// CheckCount validates the number of images in one submission.
func CheckCount(n int) error {
	switch {
	case n == 0:
		return ErrNoImages
	case n > MaxImages:
		return fmt.Errorf("%w: %d submitted, limit is %d", ErrTooManyImages, n, MaxImages)
	}
	return nil
}
