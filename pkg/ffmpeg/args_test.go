package ffmpeg_test

import (
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/tauraamui/dragonrender/pkg/ffmpeg"
)

var testInfo = ffmpeg.VideoInfo{Width: 1280, Height: 720, FrameRate: 59.94, TimeBase: 90000}

func TestDecoderArgs(t *testing.T) {
	assert.Equal(t, []string{
		"-hide_banner", "-loglevel", "level+info", "-nostdin",
		"-i", "in.mp4", "-f", "rawvideo", "-pix_fmt", "rgba", "-",
	}, ffmpeg.DecoderArgs("in.mp4"))
}

func TestEncoderArgsPlain(t *testing.T) {
	settings := ffmpeg.RenderSettings{
		BitrateMbps: 40,
		Encoder:     ffmpeg.Encoder{Name: "libx264", ExtraArgs: []string{"-preset", "fast"}},
	}

	assert.Equal(t, []string{
		"-hide_banner", "-loglevel", "level+info",
		"-f", "rawvideo", "-pix_fmt", "rgba", "-s", "1280x720", "-r", "59.94", "-i", "-",
		"-i", "in.mp4", "-map", "0", "-map", "1:a?", "-c:a", "copy",
		"-c:v", "libx264", "-b:v", "40M", "-preset", "fast",
		"-video_track_timescale", "90000",
		"-y", "out.mp4",
	}, ffmpeg.EncoderArgs(testInfo, settings, "in.mp4", "out.mp4"))
}

func TestEncoderArgsCPUUpscaleAndAspect(t *testing.T) {
	settings := ffmpeg.RenderSettings{
		BitrateMbps:        25,
		Encoder:            ffmpeg.Encoder{Name: "libx265"},
		Upscale:            true,
		RescaleTo4x3Aspect: true,
	}

	args := ffmpeg.EncoderArgs(testInfo, settings, "in.mp4", "out.mp4")
	assert.Subset(t, args, []string{"-vf", "scale=-2:1440:flags=lanczos", "-aspect", "4:3"})
	assert.NotContains(t, args, "format=rgb24,hwupload_cuda,scale_cuda=-2:1440:4")
}

func TestEncoderArgsGPUUpscale(t *testing.T) {
	is := is.New(t)
	settings := ffmpeg.RenderSettings{
		BitrateMbps: 25,
		Encoder:     ffmpeg.Encoder{Name: "hevc_nvenc"},
		Upscale:     true,
	}

	args := ffmpeg.EncoderArgs(testInfo, settings, "in.mp4", "out.mp4")
	idx := indexOf(args, "-vf")
	is.True(idx >= 0)
	is.Equal(args[idx+1], "format=rgb24,hwupload_cuda,scale_cuda=-2:1440:4")
	is.Equal(indexOf(args, "-aspect"), -1)
}

func TestEncoderArgsProResForcesMov(t *testing.T) {
	is := is.New(t)
	settings := ffmpeg.RenderSettings{BitrateMbps: 100, Encoder: ffmpeg.Encoder{Name: "prores_ks"}}

	args := ffmpeg.EncoderArgs(testInfo, settings, "in.mp4", "/renders/out.mp4")
	is.Equal(args[len(args)-1], "/renders/out.mov")
}

func TestOutputPath(t *testing.T) {
	is := is.New(t)
	is.Equal(ffmpeg.OutputPath("a/b.mp4", ffmpeg.Encoder{Name: "libx264"}), "a/b.mp4")
	is.Equal(ffmpeg.OutputPath("a/b.mp4", ffmpeg.Encoder{Name: "prores"}), "a/b.mov")
	is.Equal(ffmpeg.OutputPath("a/b", ffmpeg.Encoder{Name: "prores_aw"}), "a/b.mov")
}

func TestVideoInfoTotalFrames(t *testing.T) {
	is := is.New(t)
	is.Equal(ffmpeg.VideoInfo{FrameRate: 60, Duration: 2.5}.TotalFrames(), 150)
}

func indexOf(args []string, s string) int {
	for i, a := range args {
		if a == s {
			return i
		}
	}
	return -1
}
