package telemetry

// Cursor walks a Frames sequence with monotonically increasing timestamps.
// It never moves backwards, so a full render costs O(frames + records).
type Cursor struct {
	frames Frames
	idx    int
}

func NewCursor(frames Frames) *Cursor {
	return &Cursor{frames: frames}
}

// At advances to t and returns the record whose interval contains t, or nil
// if t falls in a gap or past the end. t must not decrease between calls.
func (c *Cursor) At(t float64) *Frame {
	for c.idx < len(c.frames) && c.frames[c.idx].End <= t {
		c.idx++
	}
	if c.idx >= len(c.frames) {
		return nil
	}
	if f := &c.frames[c.idx]; f.Contains(t) {
		return f
	}
	return nil
}
