package overlay

import (
	"errors"
	"image"
	"io"

	"github.com/golang/freetype/truetype"
	"github.com/tauraamui/dragonrender/pkg/log"
	"github.com/tauraamui/dragonrender/pkg/message"
	"github.com/tauraamui/dragonrender/pkg/osd"
	"github.com/tauraamui/dragonrender/pkg/telemetry"
	"github.com/tauraamui/dragonrender/pkg/textlayout"
	"github.com/tauraamui/dragonrender/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
)

// Source yields packed RGBA frames in decode order.
type Source interface {
	// ReadFrame fills dst with the next frame, returning io.EOF once the
	// stream is exhausted.
	ReadFrame(dst []byte) error
	// Stop abandons the stream before it is exhausted.
	Stop() error
}

type Config struct {
	Dimensions videoframe.Dimensions
	FrameRate  float64

	OSDFrames  []osd.Frame
	OSDOptions osd.Options

	Telemetry   telemetry.Frames
	TextOptions textlayout.Options
	Font        *truetype.Font

	UseChromaKey       bool
	ChromaKey          [4]float64
	ChromaKeyTolerance uint8

	Controls <-chan message.Control
}

// Compositor draws the OSD and telemetry overlays onto each frame read from
// a Source. It makes a single pass and cannot be restarted.
type Compositor struct {
	src      Source
	cfg      Config
	controls <-chan message.Control
	pool     *videoframe.Pool
	face     font.Face
	key      chromaKey

	osdCursor       *osd.Cursor
	telemetryCursor *telemetry.Cursor

	preparedIdx int
	prepared    *image.RGBA

	index     int
	done      bool
	cancelled bool
}

func New(src Source, cfg Config) (*Compositor, error) {
	if cfg.Dimensions.W <= 0 || cfg.Dimensions.H <= 0 {
		return nil, xerror.Errorf("invalid frame dimensions %dx%d", cfg.Dimensions.W, cfg.Dimensions.H)
	}
	if cfg.FrameRate <= 0 {
		return nil, xerror.Errorf("invalid frame rate %f", cfg.FrameRate)
	}

	f := cfg.Font
	if f == nil {
		f = textlayout.DefaultFont()
	}

	return &Compositor{
		src:             src,
		cfg:             cfg,
		controls:        cfg.Controls,
		pool:            videoframe.NewPool(cfg.Dimensions),
		face:            textlayout.NewFace(f, cfg.TextOptions.Scale, cfg.Dimensions.H),
		key:             newChromaKey(cfg.ChromaKey, cfg.ChromaKeyTolerance),
		osdCursor:       osd.NewCursor(cfg.OSDFrames),
		telemetryCursor: telemetry.NewCursor(cfg.Telemetry),
		preparedIdx:     -1,
	}, nil
}

// Next returns the next composited frame, or false once the source is
// exhausted or a Cancel control has been received. The caller owns the
// returned frame and must Close it.
func (c *Compositor) Next() (*videoframe.RawFrame, bool) {
	if c.done {
		return nil, false
	}

	if c.pollControls() {
		c.done, c.cancelled = true, true
		if err := c.src.Stop(); err != nil {
			log.Debug("Stopping frame source failed: %v", err)
		}
		return nil, false
	}

	frame := c.pool.Get(c.index)
	if err := c.src.ReadFrame(frame.Data); err != nil {
		frame.Close()
		c.done = true
		if !errors.Is(err, io.EOF) {
			log.Warn("Frame source ended early after %d frames: %v", c.index, err)
		}
		return nil, false
	}

	elapsed := float64(c.index) / c.cfg.FrameRate
	c.index++

	img := frame.Image()
	if !c.cfg.OSDOptions.Disabled {
		if f, idx := c.osdCursor.At(elapsed); f != nil {
			c.drawOSD(img, f, idx)
		}
	}
	textlayout.DrawFrame(img, c.telemetryCursor.At(elapsed), c.face, c.cfg.TextOptions)

	return frame, true
}

// Frames is the number of frames produced so far.
func (c *Compositor) Frames() int {
	return c.index
}

// Cancelled reports whether the sequence ended because of a Cancel control.
func (c *Compositor) Cancelled() bool {
	return c.cancelled
}

// pollControls consumes every pending control without blocking, reporting
// whether the render should stop.
func (c *Compositor) pollControls() bool {
	for {
		select {
		case ctl, ok := <-c.controls:
			if !ok {
				c.controls = nil
				return false
			}
			switch ctl.(type) {
			case message.Cancel:
				return true
			case message.Pause:
				log.Info("Render paused at frame %d", c.index)
				if c.waitForResume() {
					return true
				}
				log.Info("Render resumed at frame %d", c.index)
			case message.Resume:
			}
		default:
			return false
		}
	}
}

func (c *Compositor) waitForResume() bool {
	for ctl := range c.controls {
		switch ctl.(type) {
		case message.Cancel:
			return true
		case message.Resume:
			return false
		}
	}
	c.controls = nil
	return false
}

func (c *Compositor) drawOSD(dst *image.RGBA, f *osd.Frame, idx int) {
	if idx != c.preparedIdx {
		c.prepared = c.prepare(f.Image)
		c.preparedIdx = idx
	}

	r := c.prepared.Bounds().Add(c.cfg.OSDOptions.Offset)
	draw.Draw(dst, r, c.prepared, c.prepared.Bounds().Min, draw.Over)
}

// prepare scales an OSD image to the frame size and keys out its chroma
// colour. The loaded image is never modified.
func (c *Compositor) prepare(src *image.RGBA) *image.RGBA {
	dims := c.cfg.Dimensions
	if src.Bounds().Dx() == dims.W && src.Bounds().Dy() == dims.H && !c.cfg.UseChromaKey {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, dims.W, dims.H))
	if src.Bounds().Dx() == dims.W && src.Bounds().Dy() == dims.H {
		draw.Copy(dst, image.Point{}, src, src.Bounds(), draw.Src, nil)
	} else {
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	}

	if c.cfg.UseChromaKey {
		c.key.apply(dst)
	}
	return dst
}
