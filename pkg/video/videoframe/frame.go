package videoframe

import (
	"image"
	"sync"
)

// BytesPerPixel of the packed RGBA format exchanged with ffmpeg.
const BytesPerPixel = 4

type Dimensions struct {
	W, H int
}

// FrameSize is the byte length of one packed RGBA frame.
func (d Dimensions) FrameSize() int {
	return d.W * d.H * BytesPerPixel
}

// RawFrame is one decoded video frame. Exactly one stage owns it at a time;
// whoever holds it last calls Close to hand the buffer back to its pool.
type RawFrame struct {
	Index int
	Data  []byte

	dims Dimensions
	pool *Pool
}

func (f *RawFrame) Dimensions() Dimensions {
	return f.dims
}

// Image views the frame's bytes as an RGBA image without copying.
func (f *RawFrame) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    f.Data,
		Stride: f.dims.W * BytesPerPixel,
		Rect:   image.Rect(0, 0, f.dims.W, f.dims.H),
	}
}

func (f *RawFrame) Close() {
	if f.pool == nil || f.Data == nil {
		return
	}
	f.pool.put(f.Data)
	f.Data = nil
}

// Pool hands out frame buffers of one fixed size.
type Pool struct {
	dims Dimensions
	bufs sync.Pool
}

func NewPool(dims Dimensions) *Pool {
	p := Pool{dims: dims}
	p.bufs.New = func() interface{} {
		b := make([]byte, dims.FrameSize())
		return &b
	}
	return &p
}

func (p *Pool) Dimensions() Dimensions {
	return p.dims
}

// Get returns a frame with an uninitialised buffer of the pool's size.
func (p *Pool) Get(index int) *RawFrame {
	b := p.bufs.Get().(*[]byte)
	return &RawFrame{Index: index, Data: *b, dims: p.dims, pool: p}
}

func (p *Pool) put(b []byte) {
	if len(b) != p.dims.FrameSize() {
		return
	}
	p.bufs.Put(&b)
}
