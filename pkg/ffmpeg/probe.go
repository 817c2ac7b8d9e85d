package ffmpeg

import (
	"encoding/json"
	"os/exec"
	"strconv"
	"strings"

	"github.com/tauraamui/xerror"
)

type probeOutput struct {
	Streams []struct {
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		RFrameRate   string `json:"r_frame_rate"`
		AvgFrameRate string `json:"avg_frame_rate"`
		TimeBase     string `json:"time_base"`
		Duration     string `json:"duration"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

var runProbe = func(ffprobe string, args ...string) ([]byte, error) {
	return exec.Command(ffprobe, args...).Output()
}

// Probe asks ffprobe for the first video stream's geometry and timing.
func Probe(ffprobe, input string) (VideoInfo, error) {
	out, err := runProbe(ffprobe,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate,avg_frame_rate,time_base,duration:format=duration",
		"-of", "json",
		input,
	)
	if err != nil {
		return VideoInfo{}, xerror.Errorf("unable to probe %s: %w", input, err)
	}
	return parseProbe(out)
}

func parseProbe(out []byte) (VideoInfo, error) {
	var probed probeOutput
	if err := json.Unmarshal(out, &probed); err != nil {
		return VideoInfo{}, xerror.Errorf("unable to parse ffprobe output: %w", err)
	}
	if len(probed.Streams) == 0 {
		return VideoInfo{}, xerror.New("no video stream found")
	}

	stream := probed.Streams[0]
	frameRate, err := parseRatio(stream.RFrameRate)
	if err != nil || frameRate == 0 {
		if frameRate, err = parseRatio(stream.AvgFrameRate); err != nil {
			return VideoInfo{}, xerror.Errorf("unable to read frame rate: %w", err)
		}
	}

	timeBase, err := parseTimeBase(stream.TimeBase)
	if err != nil {
		return VideoInfo{}, err
	}

	duration := stream.Duration
	if len(duration) == 0 || duration == "N/A" {
		duration = probed.Format.Duration
	}
	seconds, _ := strconv.ParseFloat(duration, 64)

	return VideoInfo{
		Width:     stream.Width,
		Height:    stream.Height,
		FrameRate: frameRate,
		TimeBase:  timeBase,
		Duration:  seconds,
	}, nil
}

func parseRatio(s string) (float64, error) {
	num, den, found := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, xerror.Errorf("invalid ratio %q: %w", s, err)
	}
	if !found {
		return n, nil
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil {
		return 0, xerror.Errorf("invalid ratio %q: %w", s, err)
	}
	if d == 0 {
		return 0, xerror.Errorf("invalid ratio %q: zero denominator", s)
	}
	return n / d, nil
}

// parseTimeBase turns "1/90000" into the timescale 90000.
func parseTimeBase(s string) (uint32, error) {
	_, den, found := strings.Cut(s, "/")
	if !found {
		return 0, xerror.Errorf("invalid time base %q", s)
	}
	v, err := strconv.ParseUint(den, 10, 32)
	if err != nil {
		return 0, xerror.Errorf("invalid time base %q: %w", s, err)
	}
	return uint32(v), nil
}
