package configdef

import (
	"errors"
	"fmt"

	"github.com/tauraamui/dragonrender/pkg/ffmpeg"
	"github.com/tauraamui/dragonrender/pkg/osd"
	"github.com/tauraamui/dragonrender/pkg/textlayout"
	"gopkg.in/dealancer/validate.v2"
)

type Telemetry struct {
	Disabled bool `json:"disabled"`
	textlayout.Options
}

type Values struct {
	FFmpegPath  string                `json:"ffmpeg_path" validate:"empty=false"`
	FFprobePath string                `json:"ffprobe_path" validate:"empty=false"`
	FontPath    string                `json:"font_path"`
	Render      ffmpeg.RenderSettings `json:"render"`
	Telemetry   Telemetry             `json:"telemetry"`
	OSD         osd.Options           `json:"osd"`
}

// RunValidate checks the field tags and then the cross field rules.
func (v Values) RunValidate() error {
	if err := validate.Validate(&v); err != nil {
		return err
	}
	return v.Validate()
}

func (v Values) Validate() error {
	const validationErrorHeader = "validation failed: %w"
	if !chromaKeyInRange(v.Render.ChromaKey) {
		return fmt.Errorf(validationErrorHeader, errors.New("chroma key components must be between 0 and 1"))
	}
	if v.OSD.Offset.X < -8192 || v.OSD.Offset.X > 8192 || v.OSD.Offset.Y < -8192 || v.OSD.Offset.Y > 8192 {
		return fmt.Errorf(validationErrorHeader, errors.New("osd offset out of range"))
	}
	return nil
}

func chromaKeyInRange(key [4]float64) bool {
	for _, c := range key {
		if c < 0 || c > 1 {
			return false
		}
	}
	return true
}
