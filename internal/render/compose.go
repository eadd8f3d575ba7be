package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"

	types "github.com/stagekit/stageplot-backend/internal/domain"
	"github.com/stagekit/stageplot-backend/internal/platform/logger"
)

// NodeSprite ties a plot node to its drawable image. Image may be nil,
// in which case a labeled placeholder box is drawn instead.
type NodeSprite struct {
	Node  types.PlotNode
	Image image.Image
	Name  string
}

// Composer rasterizes a plot's node list onto a stage canvas.
type Composer struct {
	log      *logger.Logger
	theme    Theme
	fontFace font.Face
}

func NewComposer(baseLog *logger.Logger, theme Theme) (*Composer, error) {
	c := &Composer{
		log:   baseLog.With("component", "Composer"),
		theme: theme,
	}
	if path := strings.TrimSpace(theme.FontPath); path != "" {
		face, err := loadFontFace(path, theme.Node.LabelSize)
		if err != nil {
			return nil, fmt.Errorf("load render font: %w", err)
		}
		c.fontFace = face
	}
	return c, nil
}

func loadFontFace(fontPath string, size float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parse TTF: %w", err)
	}
	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}

// ComposePNG draws the stage and returns it PNG-encoded.
func (c *Composer) ComposePNG(sprites []NodeSprite) ([]byte, error) {
	w, h := c.theme.Stage.Width, c.theme.Stage.Height
	dc := gg.NewContext(w, h)

	dc.SetColor(ParseHexColor(c.theme.Stage.Background, color.NRGBA{R: 30, G: 30, B: 36, A: 255}))
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.Fill()
	c.drawGrid(dc)

	if c.fontFace != nil {
		dc.SetFontFace(c.fontFace)
	}

	for _, sp := range sprites {
		c.drawSprite(dc, sp)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode stage png: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *Composer) drawGrid(dc *gg.Context) {
	step := c.theme.Stage.GridStep
	if step <= 0 {
		return
	}
	dc.SetColor(ParseHexColor(c.theme.Stage.Grid, color.NRGBA{R: 42, G: 42, B: 51, A: 255}))
	dc.SetLineWidth(1)
	for x := step; x < c.theme.Stage.Width; x += step {
		dc.DrawLine(float64(x), 0, float64(x), float64(c.theme.Stage.Height))
		dc.Stroke()
	}
	for y := step; y < c.theme.Stage.Height; y += step {
		dc.DrawLine(0, float64(y), float64(c.theme.Stage.Width), float64(y))
		dc.Stroke()
	}
}

func (c *Composer) drawSprite(dc *gg.Context, sp NodeSprite) {
	n := sp.Node
	size := float64(c.theme.Node.BaseSize) * n.Scale
	if size <= 0 {
		size = float64(c.theme.Node.BaseSize)
	}

	dc.Push()
	dc.RotateAbout(gg.Radians(n.Rotation), n.X, n.Y)
	if n.Flipped {
		dc.ScaleAbout(-1, 1, n.X, n.Y)
	}

	if sp.Image != nil {
		dc.DrawImageAnchored(scaleImage(sp.Image, int(size)), int(n.X), int(n.Y), 0.5, 0.5)
	} else {
		c.drawPlaceholder(dc, n, sp.Name, size)
	}
	dc.Pop()

	label := strings.TrimSpace(n.Label)
	if label != "" {
		dc.SetColor(ParseHexColor(c.theme.Node.LabelColor, color.NRGBA{R: 255, G: 255, B: 255, A: 255}))
		dc.DrawStringAnchored(label, n.X, n.Y+size/2+14, 0.5, 0.5)
	}
}

// drawPlaceholder stands in for assets whose image bytes are missing so
// an export never fails on a dangling asset reference.
func (c *Composer) drawPlaceholder(dc *gg.Context, n types.PlotNode, name string, size float64) {
	x0, y0 := n.X-size/2, n.Y-size/2
	dc.SetColor(ParseHexColor(c.theme.Node.Placeholder, color.NRGBA{R: 68, G: 68, B: 78, A: 255}))
	dc.DrawRectangle(x0, y0, size, size)
	dc.Fill()
	dc.SetColor(ParseHexColor(c.theme.Node.PlaceholderBorder, color.NRGBA{R: 154, G: 154, B: 165, A: 255}))
	dc.SetLineWidth(2)
	dc.DrawRectangle(x0, y0, size, size)
	dc.Stroke()
	dc.DrawLine(x0, y0, x0+size, y0+size)
	dc.Stroke()
	dc.DrawLine(x0+size, y0, x0, y0+size)
	dc.Stroke()
	if name != "" {
		dc.DrawStringAnchored(name, n.X, n.Y, 0.5, 0.5)
	}
}

func scaleImage(img image.Image, target int) image.Image {
	if target <= 0 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return img
	}
	// Fit the longest edge to target, preserving aspect ratio.
	dw, dh := target, target
	if w > h {
		dh = target * h / w
	} else if h > w {
		dw = target * w / h
	}
	if dw == w && dh == h {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
