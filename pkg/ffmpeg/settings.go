package ffmpeg

import (
	"path/filepath"
	"strings"
)

// Encoder is an ffmpeg video codec name plus the codec specific arguments
// that follow it on the command line.
type Encoder struct {
	Name      string   `json:"name" validate:"empty=false"`
	ExtraArgs []string `json:"extra_args"`
}

// IsGPU reports whether the encoder runs on an NVIDIA GPU, which lets the
// upscale filter run there as well.
func (e Encoder) IsGPU() bool {
	return strings.Contains(e.Name, "nvenc")
}

// IsProRes reports whether the codec belongs to the ProRes family, which
// only muxes into a QuickTime container.
func (e Encoder) IsProRes() bool {
	return strings.HasPrefix(e.Name, "prores")
}

type RenderSettings struct {
	BitrateMbps        uint32     `json:"bitrate_mbps" validate:"gte=1 & lte=160"`
	Encoder            Encoder    `json:"encoder"`
	Upscale            bool       `json:"upscale"`
	RescaleTo4x3Aspect bool       `json:"rescale_to_4x3_aspect"`
	UseChromaKey       bool       `json:"use_chroma_key"`
	ChromaKey          [4]float64 `json:"chroma_key"`
	ChromaKeyTolerance uint8      `json:"chroma_key_tolerance"`
}

// VideoInfo describes the source video as reported by ffprobe.
type VideoInfo struct {
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	FrameRate float64 `json:"frame_rate"`
	TimeBase  uint32  `json:"time_base"`
	Duration  float64 `json:"duration"`
}

// TotalFrames estimates the decoded frame count from duration and frame rate.
func (v VideoInfo) TotalFrames() int {
	return int(v.Duration * v.FrameRate)
}

// OutputPath swaps the extension of out for codecs that dictate their container.
func OutputPath(out string, enc Encoder) string {
	if enc.IsProRes() {
		return strings.TrimSuffix(out, filepath.Ext(out)) + ".mov"
	}
	return out
}
