package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strings"

	"golang.org/x/image/webp"
)

// MaxUploadBytes caps asset uploads at 10 MiB.
const MaxUploadBytes = 10 << 20

// Info describes an uploaded image after inspection.
type Info struct {
	ContentType string
	Width       int
	Height      int
	HasAlpha    bool
}

var allowedContentTypes = map[string]bool{
	"image/png":     true,
	"image/jpeg":    true,
	"image/webp":    true,
	"image/svg+xml": true,
}

// AllowedContentType reports whether ct is an accepted asset type.
func AllowedContentType(ct string) bool {
	return allowedContentTypes[normalizeContentType(ct)]
}

func normalizeContentType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}

// Inspect validates an uploaded image and extracts its metadata. The
// sniffed content type wins over the declared one, except for SVG, which
// sniffs as XML/plain text and so relies on the declared type.
func Inspect(data []byte, declaredContentType string) (*Info, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	if len(data) > MaxUploadBytes {
		return nil, fmt.Errorf("file exceeds %d byte limit", MaxUploadBytes)
	}

	declared := normalizeContentType(declaredContentType)
	sniffed := normalizeContentType(http.DetectContentType(data))

	ct := sniffed
	if !allowedContentTypes[sniffed] && declared == "image/svg+xml" && looksLikeSVG(data) {
		ct = "image/svg+xml"
	}
	if !allowedContentTypes[ct] {
		return nil, fmt.Errorf("unsupported content type %q", ct)
	}

	info := &Info{ContentType: ct}
	switch ct {
	case "image/svg+xml":
		// Vector; no intrinsic pixel dimensions, alpha assumed.
		info.HasAlpha = true
	case "image/webp":
		cfg, err := webp.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode webp: %w", err)
		}
		info.Width, info.Height = cfg.Width, cfg.Height
		info.HasAlpha = true
	default:
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode image: %w", err)
		}
		info.Width, info.Height = cfg.Width, cfg.Height
		if ct == "image/png" {
			info.HasAlpha = PNGHasAlpha(data)
		}
	}
	return info, nil
}

func looksLikeSVG(data []byte) bool {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	return bytes.Contains(bytes.ToLower(head), []byte("<svg"))
}
