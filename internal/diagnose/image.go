package diagnose

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// Attachment is binary input sent alongside the prompt.
type Attachment struct {
	MIMEType string
	Data     []byte
}

const defaultImageMIME = "image/jpeg"

var allowedImageMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/heic": true,
	"image/heif": true,
}

// DecodeImage accepts raw base64 or a "data:<mime>;base64,<payload>" URL.
// Without a data URL header the type is sniffed from the bytes, and
// unrecognized content is sent as JPEG.
func DecodeImage(s string) (Attachment, error) {
	payload := strings.TrimSpace(s)
	mime := ""
	if head, body, ok := strings.Cut(payload, ","); ok && strings.HasPrefix(head, "data:") {
		meta, isBase64 := strings.CutSuffix(strings.TrimPrefix(head, "data:"), ";base64")
		if !isBase64 {
			return Attachment{}, fmt.Errorf("%w: data URL must be base64 encoded", ErrUnsupportedImage)
		}
		mime = strings.ToLower(strings.TrimSpace(meta))
		payload = body
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
	}
	if err != nil {
		return Attachment{}, fmt.Errorf("%w: invalid base64: %w", ErrUnsupportedImage, err)
	}
	if len(data) == 0 {
		return Attachment{}, fmt.Errorf("%w: empty image", ErrUnsupportedImage)
	}

	if mime == "" {
		mime = http.DetectContentType(data)
		if !allowedImageMIME[mime] {
			mime = defaultImageMIME
		}
	}
	if !allowedImageMIME[mime] {
		return Attachment{}, fmt.Errorf("%w: %s", ErrUnsupportedImage, mime)
	}
	return Attachment{MIMEType: mime, Data: data}, nil
}
