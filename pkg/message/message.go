// Package message holds the closed sets of values exchanged with a running
// render: controls flow in, events flow out.
package message

import (
	"fmt"

	"github.com/tauraamui/dragonrender/pkg/ffmpeg"
)

// Control is a command accepted by a running render.
type Control interface {
	isControl()
}

// Cancel stops the render before the next frame is composited.
type Cancel struct{}

// Pause holds the frame writer until Resume or Cancel arrives.
type Pause struct{}

type Resume struct{}

func (Cancel) isControl() {}
func (Pause) isControl()  {}
func (Resume) isControl() {}

// Event is reported by a running render.
type Event interface {
	isEvent()
	fmt.Stringer
}

// Progress is the decoder's latest status line.
type Progress struct {
	ffmpeg.Progress
}

type DecoderFinished struct{}

type DecoderFatalError struct {
	Msg string
}

type EncoderFinished struct{}

type EncoderFatalError struct {
	Msg string
}

func (Progress) isEvent()          {}
func (DecoderFinished) isEvent()   {}
func (DecoderFatalError) isEvent() {}
func (EncoderFinished) isEvent()   {}
func (EncoderFatalError) isEvent() {}

func (p Progress) String() string {
	return fmt.Sprintf("progress: frame %d, %.1f fps, speed %.2fx", p.Frame, p.FPS, p.Speed)
}

func (DecoderFinished) String() string { return "decoder finished" }

func (e DecoderFatalError) String() string { return "decoder fatal error: " + e.Msg }

func (EncoderFinished) String() string { return "encoder finished" }

func (e EncoderFatalError) String() string { return "encoder fatal error: " + e.Msg }

// IsFatal reports whether evt means the render has failed.
func IsFatal(evt Event) bool {
	switch evt.(type) {
	case DecoderFatalError, EncoderFatalError:
		return true
	}
	return false
}
