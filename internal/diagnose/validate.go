package diagnose

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/agriguard/agriguard/internal/locale"
)

var (
	ErrMissingAPIKey      = errors.New("server configuration error: GEMINI_API_KEY is missing")
	ErrNoInput            = errors.New("please provide crop description or image")
	ErrDescriptionTooLong = errors.New("description is too long")
	ErrSuspiciousInput    = errors.New("description contains instructions to the model")
	ErrUnsupportedImage   = errors.New("unsupported image")
	ErrProvider           = errors.New("failed to analyze crop problem")
)

// Request is one diagnosis request from a farmer.
type Request struct {
	Description string          `json:"description"`
	ImageBase64 string          `json:"image_base64,omitempty"`
	Language    locale.Language `json:"language"`
}

var injectionPattern = regexp.MustCompile(
	`(?i)(ignore\s+(previous|all|above)|system\s*prompt|you\s+are\s+now|` +
		`act\s+as\s+|pretend\s+|forget\s+(everything|all)|` +
		`new\s+instructions)`,
)

// ValidateRequest checks a request before any model call and decodes its
// image. maxChars limits the description length in characters; zero or less
// disables the limit.
func ValidateRequest(req Request, maxChars int) ([]Attachment, error) {
	desc := strings.TrimSpace(req.Description)
	img := strings.TrimSpace(req.ImageBase64)
	if desc == "" && img == "" {
		return nil, ErrNoInput
	}
	if maxChars > 0 && utf8.RuneCountInString(desc) > maxChars {
		return nil, fmt.Errorf("%w: limit is %d characters", ErrDescriptionTooLong, maxChars)
	}
	if injectionPattern.MatchString(desc) {
		return nil, ErrSuspiciousInput
	}
	if img == "" {
		return nil, nil
	}
	a, err := DecodeImage(img)
	if err != nil {
		return nil, err
	}
	return []Attachment{a}, nil
}
