package ffmpeg

import (
	"fmt"
	"strconv"
)

const (
	gpuUpscaleFilter = "format=rgb24,hwupload_cuda,scale_cuda=-2:1440:4"
	cpuUpscaleFilter = "scale=-2:1440:flags=lanczos"
)

// logArgs make every stderr line carry its severity tag.
var logArgs = []string{"-hide_banner", "-loglevel", "level+info"}

// DecoderArgs decodes input to packed RGBA frames on stdout.
func DecoderArgs(input string) []string {
	args := append([]string{}, logArgs...)
	return append(args,
		"-nostdin",
		"-i", input,
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-",
	)
}

// EncoderArgs encodes RGBA frames from stdin into output, copying any audio
// stream of the original file across untouched.
func EncoderArgs(info VideoInfo, settings RenderSettings, original, output string) []string {
	args := append([]string{}, logArgs...)
	args = append(args,
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", info.Width, info.Height),
		"-r", strconv.FormatFloat(info.FrameRate, 'f', -1, 64),
		"-i", "-",
		"-i", original,
		"-map", "0",
		"-map", "1:a?",
		"-c:a", "copy",
	)

	if settings.Upscale {
		if settings.Encoder.IsGPU() {
			args = append(args, "-vf", gpuUpscaleFilter)
		} else {
			args = append(args, "-vf", cpuUpscaleFilter)
		}
	}

	if settings.RescaleTo4x3Aspect {
		// container level only, the stored resolution is unchanged
		args = append(args, "-aspect", "4:3")
	}

	args = append(args,
		"-c:v", settings.Encoder.Name,
		"-b:v", fmt.Sprintf("%dM", settings.BitrateMbps),
	)
	args = append(args, settings.Encoder.ExtraArgs...)
	args = append(args,
		"-video_track_timescale", strconv.FormatUint(uint64(info.TimeBase), 10),
		"-y", OutputPath(output, settings.Encoder),
	)
	return args
}
