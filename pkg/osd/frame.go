package osd

import (
	"image"
	"sort"
)

// Frame is a pre-rendered overlay shown from Time (seconds) until the next frame's time.
type Frame struct {
	Time  float64
	Image *image.RGBA
}

type Options struct {
	Disabled bool        `json:"disabled"`
	Offset   image.Point `json:"offset"`
}

// Sort orders frames by display time, keeping the input order of equal times.
func Sort(frames []Frame) {
	sort.SliceStable(frames, func(i, j int) bool { return frames[i].Time < frames[j].Time })
}

// Cursor walks time sorted OSD frames forward only.
type Cursor struct {
	frames []Frame
	idx    int
}

func NewCursor(frames []Frame) *Cursor {
	return &Cursor{frames: frames}
}

// At returns the latest frame whose time is not after t, along with its
// index, or nil before the first frame. t must not decrease between calls.
func (c *Cursor) At(t float64) (*Frame, int) {
	if len(c.frames) == 0 {
		return nil, -1
	}
	for c.idx+1 < len(c.frames) && c.frames[c.idx+1].Time <= t {
		c.idx++
	}
	if f := &c.frames[c.idx]; f.Time <= t {
		return f, c.idx
	}
	return nil, -1
}
