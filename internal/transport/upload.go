package transport

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"eatup/internal/domain"
)

// MaxImageBytes bounds a single uploaded image.
const MaxImageBytes = 10 << 20

// multipart framing allowance on top of the image itself
const multipartOverhead = 1 << 20

var (
	ErrMissingFile   = fmt.Errorf("%w: multipart field \"file\" is required", domain.ErrValidation)
	ErrImageTooLarge = fmt.Errorf("%w: image exceeds %d bytes", domain.ErrValidation, MaxImageBytes)
)

// readImage pulls the "file" part out of a multipart request and returns its
// bytes with the media type the client declared for the part.
func readImage(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxImageBytes+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", ErrImageTooLarge
		}
		return nil, "", ErrMissingFile
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxImageBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to read upload: %v", domain.ErrValidation, err)
	}
	if len(data) > MaxImageBytes {
		return nil, "", ErrImageTooLarge
	}

	mediaType, _, err := mime.ParseMediaType(header.Header.Get("Content-Type"))
	if err != nil {
		mediaType = ""
	}

	return data, mediaType, nil
}
