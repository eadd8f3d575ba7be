package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestInspectPNGWithAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 6))
	img.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 128})
	data := encodePNG(t, img)

	info, err := Inspect(data, "image/png")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if info.ContentType != "image/png" {
		t.Fatalf("content type: got=%s", info.ContentType)
	}
	if info.Width != 8 || info.Height != 6 {
		t.Fatalf("dimensions: got=%dx%d", info.Width, info.Height)
	}
	if !info.HasAlpha {
		t.Fatalf("NRGBA png should report alpha")
	}
}

func TestInspectJPEGNoAlpha(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4)), nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}

	info, err := Inspect(buf.Bytes(), "image/jpeg")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if info.ContentType != "image/jpeg" {
		t.Fatalf("content type: got=%s", info.ContentType)
	}
	if info.HasAlpha {
		t.Fatalf("jpeg cannot carry alpha")
	}
}

func TestInspectSniffWinsOverDeclared(t *testing.T) {
	data := encodePNG(t, image.NewGray(image.Rect(0, 0, 2, 2)))

	info, err := Inspect(data, "image/jpeg")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if info.ContentType != "image/png" {
		t.Fatalf("sniffed type should win: got=%s", info.ContentType)
	}
}

func TestInspectSVGUsesDeclaredType(t *testing.T) {
	data := []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"></svg>`)

	info, err := Inspect(data, "image/svg+xml")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if info.ContentType != "image/svg+xml" {
		t.Fatalf("content type: got=%s", info.ContentType)
	}
	if !info.HasAlpha {
		t.Fatalf("svg is assumed transparent")
	}
	if info.Width != 0 || info.Height != 0 {
		t.Fatalf("svg has no intrinsic dimensions: %dx%d", info.Width, info.Height)
	}
}

func TestInspectDeclaredSVGButNotSVGContent(t *testing.T) {
	if _, err := Inspect([]byte("plain text, nothing vectorial"), "image/svg+xml"); err == nil {
		t.Fatalf("expected rejection for non-svg payload")
	}
}

func TestInspectRejectsUnsupportedType(t *testing.T) {
	gif := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")
	if _, err := Inspect(gif, "image/gif"); err == nil {
		t.Fatalf("expected rejection for gif")
	}
}

func TestInspectRejectsEmpty(t *testing.T) {
	if _, err := Inspect(nil, "image/png"); err == nil {
		t.Fatalf("expected rejection for empty input")
	}
}

func TestAllowedContentTypeNormalizes(t *testing.T) {
	if !AllowedContentType("IMAGE/PNG; charset=binary") {
		t.Fatalf("normalized png should be allowed")
	}
	if AllowedContentType("application/pdf") {
		t.Fatalf("pdf is not an asset type")
	}
}
