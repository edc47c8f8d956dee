package usecase

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/GoArmGo/Foodgram/internal/domain"
	_ "golang.org/x/image/webp"
)

// MaxImageBytes ограничивает размер декодированной картинки рецепта.
const MaxImageBytes = 5 << 20

var errImageTooLarge = errors.New("image is too large")

var imageFormats = map[string]struct {
	contentType string
	extension   string
}{
	"png":  {"image/png", "png"},
	"jpeg": {"image/jpeg", "jpg"},
	"gif":  {"image/gif", "gif"},
	"webp": {"image/webp", "webp"},
}

// DecodeImage разбирает картинку, пришедшую строкой base64.
// Принимается как data URI (data:image/png;base64,...), так и голый base64.
// Формат определяется по содержимому, а не по заявленному MIME-типу.
func DecodeImage(raw string) (*domain.DecodedImage, error) {
	payload := strings.TrimSpace(raw)
	if strings.HasPrefix(payload, "data:") {
		header, data, ok := strings.Cut(payload, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, fmt.Errorf("malformed data URI")
		}
		payload = data
	}
	if payload == "" {
		return nil, fmt.Errorf("empty image")
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageBytes+3 {
		return nil, errImageTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	if len(data) > MaxImageBytes {
		return nil, errImageTooLarge
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	kind, ok := imageFormats[format]
	if !ok {
		return nil, fmt.Errorf("unsupported image format %q", format)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("image has no pixels")
	}

	return &domain.DecodedImage{
		Data:        data,
		ContentType: kind.contentType,
		Extension:   kind.extension,
		Width:       cfg.Width,
		Height:      cfg.Height,
	}, nil
}
