// Package render draws swipe feedback for the touch strip and the pad window.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/phinze/swipedeck/internal/swipe"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Colors
var (
	ColorBackground = color.RGBA{25, 25, 25, 255}
	ColorCardinal   = color.RGBA{100, 149, 237, 255} // Cornflower blue
	ColorDiagonal   = color.RGBA{255, 200, 50, 255}  // Gold
	ColorNone       = color.RGBA{110, 110, 110, 255}
	colorWhite      = color.RGBA{255, 255, 255, 255}
	colorGray       = color.RGBA{160, 160, 160, 255}
)

// arrowUp is an upward arrow in a 24x24 viewBox.
var arrowUp = [][2]float64{
	{12, 2}, {22, 12}, {15, 12}, {15, 20}, {9, 20}, {9, 12}, {2, 12},
}

const noneSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24">` +
	`<circle cx="12" cy="12" r="4" fill="currentColor"/></svg>`

// DirectionSVG returns an SVG arrow pointing in dir, or a dot for None.
// The fill is "currentColor".
func DirectionSVG(dir swipe.Direction) string {
	v := dir.Vector()
	if v.IsZero() {
		return noneSVG
	}

	// Clockwise screen angle from straight up.
	theta := math.Atan2(v.X, v.Y)
	sin, cos := math.Sincos(theta)

	var b strings.Builder
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24"><path fill="currentColor" d="`)
	for i, p := range arrowUp {
		dx, dy := p[0]-12, p[1]-12
		x := 12 + dx*cos - dy*sin
		y := 12 + dx*sin + dy*cos
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&b, "%s%.3f %.3f ", cmd, x, y)
	}
	b.WriteString(`Z"/></svg>`)
	return b.String()
}

// DirectionColor returns the accent color for dir.
func DirectionColor(dir swipe.Direction) color.Color {
	switch {
	case dir == swipe.None:
		return ColorNone
	case dir.IsDiagonal():
		return ColorDiagonal
	default:
		return ColorCardinal
	}
}

// DirectionIcon renders the icon for dir at size x size pixels.
func DirectionIcon(dir swipe.Direction, size int, iconColor color.Color) image.Image {
	return renderSVGIcon(DirectionSVG(dir), size, iconColor)
}

// renderSVGIcon renders an SVG string to an image with the given size and color.
func renderSVGIcon(svgContent string, size int, iconColor color.Color) image.Image {
	// Replace currentColor with the actual color
	r, g, b, _ := iconColor.RGBA()
	hexColor := fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
	svgContent = strings.ReplaceAll(svgContent, "currentColor", hexColor)

	img := image.NewRGBA(image.Rect(0, 0, size, size))

	icon, err := oksvg.ReadIconStream(strings.NewReader(svgContent))
	if err != nil {
		zap.L().Warn("failed to parse SVG", zap.Error(err))
		return img
	}

	icon.SetTarget(0, 0, float64(size), float64(size))

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	return img
}

// Status is what the strip and pad display.
type Status struct {
	Last  swipe.Result
	Total int
	// Hint replaces the velocity line when non-empty.
	Hint string
}

// Strip renders status into an image of the given rectangle.
func Strip(rect image.Rectangle, st Status) image.Image {
	img := image.NewRGBA(rect)
	draw.Draw(img, rect, &image.Uniform{ColorBackground}, image.Point{}, draw.Src)

	h := rect.Dy()
	iconSize := h * 7 / 10
	if iconSize < 8 {
		return img
	}

	dir := st.Last.Direction
	icon := DirectionIcon(dir, iconSize, DirectionColor(dir))
	iconX := rect.Min.X + (h-iconSize)/2
	iconY := rect.Min.Y + (h-iconSize)/2
	draw.Draw(img, image.Rect(iconX, iconY, iconX+iconSize, iconY+iconSize), icon, image.Point{}, draw.Over)

	face := basicfont.Face7x13
	textX := iconX + iconSize + 16
	lineH := face.Metrics().Height.Ceil() + 4
	y := rect.Min.Y + h/2 - lineH/2

	drawText(img, "SWIPE "+strings.ToUpper(dir.String()), textX, y, face, colorWhite)

	detail := st.Hint
	if detail == "" {
		detail = "velocity " + st.Last.Velocity.String()
	}
	drawText(img, detail, textX, y+lineH, face, colorGray)

	if st.Total > 0 {
		count := fmt.Sprintf("%d swipes", st.Total)
		w := font.MeasureString(face, count).Ceil()
		drawText(img, count, rect.Max.X-w-12, y, face, colorGray)
	}

	return img
}

// drawText draws text at the given position.
func drawText(img *image.RGBA, text string, x, y int, face font.Face, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
