package telemetry

import (
	"errors"
	"math"

	"github.com/tauraamui/xerror"
)

var (
	ErrEmptyInterval = errors.New("telemetry frame must end after it starts")
	ErrUnsorted      = errors.New("telemetry frames must be sorted by start time")
	ErrOverlap       = errors.New("telemetry frame intervals must not overlap")
)

// FrameData is the regular flight readout.
type FrameData struct {
	FlightTime  uint32  `json:"flight_time"`
	SkyBat      float64 `json:"sky_bat"`
	GroundBat   float64 `json:"ground_bat"`
	Signal      uint8   `json:"signal"`
	Latency     uint32  `json:"latency"`
	BitrateMbps float64 `json:"bitrate_mbps"`
	Distance    uint32  `json:"distance"`
}

// DebugFrameData is the extended sensor readout some goggles firmware emits.
type DebugFrameData struct {
	Channel uint32  `json:"channel"`
	GSNR    float64 `json:"gsnr"`
	SSNR    float64 `json:"ssnr"`
	GTemp   float64 `json:"gtemp"`
	STemp   float64 `json:"stemp"`
	Frame   uint32  `json:"frame"`
	GErr    int32   `json:"gerr"`
	SErr    int32   `json:"serr"`
	SErrExt int32   `json:"serr_ext"`
	ISO     uint32  `json:"iso"`
	ISOMode uint32  `json:"iso_mode"`
	ISOExp  uint32  `json:"iso_exp"`
	Gain    float64 `json:"gain"`
	GainExp float64 `json:"gain_exp"`
	GainLx  uint32  `json:"gain_lx"`
	CCT     uint32  `json:"cct"`
	RB      float64 `json:"rb"`
	RBExt   float64 `json:"rb_ext"`
}

// Frame is active over the half open interval [Start, End), in seconds.
type Frame struct {
	Start float64         `json:"start"`
	End   float64         `json:"end"`
	Data  *FrameData      `json:"data,omitempty"`
	Debug *DebugFrameData `json:"debug,omitempty"`
}

func (f Frame) Contains(t float64) bool {
	return f.Start <= t && t < f.End
}

// Frames is an immutable, start sorted, non-overlapping sequence.
type Frames []Frame

func (fs Frames) Validate() error {
	for i, f := range fs {
		if !(f.Start < f.End) || math.IsNaN(f.Start) || math.IsNaN(f.End) {
			return xerror.Errorf("frame %d [%v, %v): %w", i, f.Start, f.End, ErrEmptyInterval)
		}
		if i == 0 {
			continue
		}
		prev := fs[i-1]
		if f.Start < prev.Start {
			return xerror.Errorf("frame %d starts at %v before frame %d at %v: %w", i, f.Start, i-1, prev.Start, ErrUnsorted)
		}
		if f.Start < prev.End {
			return xerror.Errorf("frame %d starts at %v before frame %d ends at %v: %w", i, f.Start, i-1, prev.End, ErrOverlap)
		}
	}
	return nil
}

// HasDistance reports whether any frame carries a non-zero distance reading.
func (fs Frames) HasDistance() bool {
	for _, f := range fs {
		if f.Data != nil && f.Data.Distance > 0 {
			return true
		}
	}
	return false
}

func (fs Frames) HasDebug() bool {
	for _, f := range fs {
		if f.Debug != nil {
			return true
		}
	}
	return false
}

// Duration is the end time of the last frame, in seconds.
func (fs Frames) Duration() float64 {
	if len(fs) == 0 {
		return 0
	}
	return fs[len(fs)-1].End
}
