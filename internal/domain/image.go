package domain

import "fmt"

var ErrUnsupportedImage = fmt.Errorf("%w: only JPEG and PNG images are supported", ErrValidation)

// imageExtensions lists the accepted upload types and the file extension stored for each.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// ImageExtension returns the file extension for a supported image MIME type.
func ImageExtension(mimeType string) (string, bool) {
	ext, ok := imageExtensions[mimeType]
	return ext, ok
}

// IsSupportedImage reports whether mimeType is JPEG or PNG.
func IsSupportedImage(mimeType string) bool {
	_, ok := imageExtensions[mimeType]
	return ok
}
