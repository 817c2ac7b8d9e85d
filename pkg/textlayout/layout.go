package textlayout

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/tauraamui/dragonrender/pkg/telemetry"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

var textColor = color.RGBA{R: 240, G: 240, B: 240, A: 255}

// DefaultFont is the embedded Go Regular face, used when no font file is configured.
func DefaultFont() *truetype.Font {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
	return f
}

// PixelSize rescales a 1080p relative scale to the given frame height.
func PixelSize(scale float64, frameHeight int) float64 {
	return scale * float64(frameHeight) / ReferenceHeight
}

// NewFace builds a face whose em size is scale rescaled to frameHeight pixels.
func NewFace(f *truetype.Font, scale float64, frameHeight int) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    PixelSize(scale, frameHeight),
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Measure is the horizontal advance of s when drawn with face.
func Measure(face font.Face) func(string) fixed.Int26_6 {
	return func(s string) fixed.Int26_6 {
		return font.MeasureString(face, s)
	}
}

// Wrap packs the whitespace separated tokens of text onto at most two lines
// no wider than maxWidth. A token that overflows line one starts line two.
// Once a token overflows line two, it and every later token are dropped.
func Wrap(text string, maxWidth fixed.Int26_6, measure func(string) fixed.Int26_6) (string, string) {
	var line1, line2 string
	onFirstLine := true

	for _, word := range strings.Fields(text) {
		current := &line1
		if !onFirstLine {
			current = &line2
		}

		candidate := word
		if len(*current) > 0 {
			candidate = *current + " " + word
		}

		if measure(candidate) <= maxWidth {
			*current = candidate
			continue
		}

		if !onFirstLine {
			break
		}
		onFirstLine = false
		line2 = word
	}

	return line1, line2
}

// Anchor converts the percentage position into pixel coordinates of the text's top left.
func Anchor(bounds image.Rectangle, pos Position) image.Point {
	return image.Point{
		X: bounds.Min.X + int(math.Round(pos.X/100*float64(bounds.Dx()))),
		Y: bounds.Min.Y + int(math.Round(pos.Y/100*float64(bounds.Dy()))),
	}
}

// LineHeight is the vertical distance between stacked lines, one font size.
func LineHeight(opts Options, frameHeight int) int {
	return int(PixelSize(opts.Scale, frameHeight))
}

// DrawData draws the regular readout on one line, without width checks.
// It returns the number of lines drawn.
func DrawData(dst *image.RGBA, d telemetry.FrameData, face font.Face, opts Options) int {
	return drawData(dst, d, face, opts, 0)
}

func drawData(dst *image.RGBA, d telemetry.FrameData, face font.Face, opts Options, lineOffset int) int {
	s := FormatData(d, opts)
	if len(s) == 0 {
		return 0
	}
	top := Anchor(dst.Bounds(), opts.Position)
	top.Y += lineOffset * LineHeight(opts, dst.Bounds().Dy())
	drawLine(dst, face, top, s)
	return 1
}

// DrawDebug draws the extended readout wrapped onto up to two lines.
// It returns the number of lines drawn.
func DrawDebug(dst *image.RGBA, d telemetry.DebugFrameData, face font.Face, opts Options) int {
	return drawDebug(dst, d, face, opts, 0)
}

func drawDebug(dst *image.RGBA, d telemetry.DebugFrameData, face font.Face, opts Options, lineOffset int) int {
	line1, line2 := Wrap(FormatDebug(d, opts), fixed.I(dst.Bounds().Dx()), Measure(face))

	top := Anchor(dst.Bounds(), opts.Position)
	top.Y += lineOffset * LineHeight(opts, dst.Bounds().Dy())

	drawn := 0
	if len(line1) > 0 {
		drawLine(dst, face, top, line1)
		drawn++
	}
	if len(line2) > 0 {
		top.Y += LineHeight(opts, dst.Bounds().Dy())
		drawLine(dst, face, top, line2)
		drawn++
	}
	return drawn
}

// DrawFrame draws whichever readouts the telemetry frame carries. The debug
// readout goes underneath the regular one when both are present.
func DrawFrame(dst *image.RGBA, f *telemetry.Frame, face font.Face, opts Options) {
	if f == nil {
		return
	}
	lines := 0
	if f.Data != nil {
		lines += drawData(dst, *f.Data, face, opts, 0)
	}
	if f.Debug != nil {
		drawDebug(dst, *f.Debug, face, opts, lines)
	}
}

func drawLine(dst *image.RGBA, face font.Face, top image.Point, s string) {
	drawer := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(textColor),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(top.X),
			Y: fixed.I(top.Y) + face.Metrics().Ascent,
		},
	}
	drawer.DrawString(s)
}
