package render

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/board2video/internal/compose"
	"github.com/ivlev/board2video/internal/scene"
	"github.com/ivlev/board2video/internal/storyboard"
	"github.com/ivlev/board2video/internal/system"
)

// Rasterizer draws preview pixels for a frame spec. The host player owns
// the real presentation; this raster exists so the engine can produce a
// watchable video (and PNG snapshots) on its own.
type Rasterizer struct {
	Width  int
	Height int
	Style  storyboard.StyleConfig
}

// Rasterize renders one frame into a pooled buffer. The caller must
// return it with Release when the pixels have been consumed.
func (r *Rasterizer) Rasterize(spec *compose.FrameSpec) *image.RGBA {
	bounds := image.Rect(0, 0, r.Width, r.Height)
	frame := system.GetImage(bounds)
	bg := parseHexColor(r.Style.BackgroundColor, color.RGBA{15, 15, 26, 255})
	draw.Draw(frame, bounds, image.NewUniform(bg), image.Point{}, draw.Src)

	content := system.GetImage(bounds)
	defer system.PutImage(content)
	draw.Draw(content, bounds, image.Transparent, image.Point{}, draw.Src)
	r.drawVisual(content, spec.Visual)

	r.composite(frame, content, spec)
	return frame
}

// Release returns a rasterized frame to the buffer pool.
func (r *Rasterizer) Release(img *image.RGBA) {
	system.PutImage(img)
}

// composite places the content layer onto the frame with the transition
// transform applied: scale about the center, fractional translation,
// right-edge clip and uniform opacity.
func (r *Rasterizer) composite(frame, content *image.RGBA, spec *compose.FrameSpec) {
	tr := spec.Transform
	if tr.Opacity <= 0 {
		return
	}

	w, h := float64(r.Width), float64(r.Height)
	scaledW := w * tr.Scale
	scaledH := h * tr.Scale
	x0 := (w-scaledW)/2 + tr.TranslateX*w
	y0 := (h-scaledH)/2 + tr.TranslateY*h

	srcW := r.Width
	if tr.ClipRight > 0 {
		srcW = int(w * (1 - tr.ClipRight))
		if srcW <= 0 {
			return
		}
	}
	srcRect := image.Rect(0, 0, srcW, r.Height)
	dstRect := image.Rect(
		int(x0), int(y0),
		int(x0+scaledW*float64(srcW)/w), int(y0+scaledH),
	)

	opts := &xdraw.Options{}
	if tr.Opacity < 1 {
		opts.SrcMask = image.NewUniform(color.Alpha{A: uint8(tr.Opacity*255 + 0.5)})
	}
	xdraw.ApproxBiLinear.Scale(frame, dstRect, content, srcRect, xdraw.Over, opts)
}

func (r *Rasterizer) drawVisual(dst *image.RGBA, node scene.Node) {
	primary := parseHexColor(r.Style.PrimaryColor, color.RGBA{0, 217, 255, 255})
	accent := parseHexColor(r.Style.AccentColor, color.RGBA{0, 255, 136, 255})

	cx := r.Width / 2
	switch node.Component {
	case "MissingScene":
		// Defects must be visible: magenta banner naming the tag.
		magenta := color.RGBA{255, 0, 255, 255}
		banner := image.Rect(0, r.Height/2-40, r.Width, r.Height/2+40)
		draw.Draw(dst, banner, image.NewUniform(color.RGBA{60, 0, 60, 255}), image.Point{}, draw.Src)
		tag, _ := node.Props["type"].(string)
		drawTextCentered(dst, cx, r.Height/2, "MISSING SCENE: "+tag, magenta)
	case "BulletList":
		title, _ := node.Props["title"].(string)
		drawTextCentered(dst, cx, r.Height/4, title, primary)
		y := r.Height/4 + 40
		for _, child := range node.Children {
			if visible, _ := child.Props["visible"].(bool); !visible {
				continue
			}
			text, _ := child.Props["text"].(string)
			drawTextCentered(dst, cx, y, "- "+text, color.White)
			y += 24
		}
	case "Endcard":
		title, _ := node.Props["title"].(string)
		drawTextCentered(dst, cx, r.Height/2-20, title, accent)
		if url, ok := node.Props["url"].(string); ok {
			drawTextCentered(dst, cx, r.Height/2+20, url, color.White)
		}
	default:
		title, _ := node.Props["title"].(string)
		if title == "" {
			title = node.Component
		}
		drawTextCentered(dst, cx, r.Height/2, title, primary)
		if sub, ok := node.Props["subtitle"].(string); ok {
			drawTextCentered(dst, cx, r.Height/2+28, sub, color.White)
		}
	}
}

func drawTextCentered(dst *image.RGBA, cx, cy int, text string, c color.Color) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(cx-width/2, cy),
	}
	d.DrawString(text)
}

// parseHexColor reads "#rrggbb" (and "#rgb") theme colors.
func parseHexColor(s string, fallback color.RGBA) color.RGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	var r, g, b uint8
	switch len(s) {
	case 6:
		r = hexByte(s[0], s[1])
		g = hexByte(s[2], s[3])
		b = hexByte(s[4], s[5])
	case 3:
		r = hexByte(s[0], s[0])
		g = hexByte(s[1], s[1])
		b = hexByte(s[2], s[2])
	default:
		return fallback
	}
	return color.RGBA{r, g, b, 255}
}

func hexByte(hi, lo byte) uint8 {
	return hexNibble(hi)<<4 | hexNibble(lo)
}

func hexNibble(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
