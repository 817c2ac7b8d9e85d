package config

import (
	"github.com/tauraamui/dragonrender/pkg/configdef"
	"github.com/tauraamui/dragonrender/pkg/ffmpeg"
	"github.com/tauraamui/dragonrender/pkg/textlayout"
)

type defaultSettingKey uint

const (
	FFMPEGPATH         defaultSettingKey = 0x0
	FFPROBEPATH        defaultSettingKey = 0x1
	BITRATEMBPS        defaultSettingKey = 0x2
	ENCODER            defaultSettingKey = 0x3
	CHROMAKEY          defaultSettingKey = 0x4
	CHROMAKEYTOLERANCE defaultSettingKey = 0x5
)

var defaultSettings = map[defaultSettingKey]interface{}{
	FFMPEGPATH:         "ffmpeg",
	FFPROBEPATH:        "ffprobe",
	BITRATEMBPS:        uint32(40),
	ENCODER:            ffmpeg.Encoder{Name: "libx264", ExtraArgs: []string{"-preset", "medium"}},
	CHROMAKEY:          [4]float64{0, 1, 0, 1},
	CHROMAKEYTOLERANCE: uint8(8),
}

func defaultValues() configdef.Values {
	encoder := defaultSettings[ENCODER].(ffmpeg.Encoder)
	encoder.ExtraArgs = append([]string{}, encoder.ExtraArgs...)

	return configdef.Values{
		FFmpegPath:  defaultSettings[FFMPEGPATH].(string),
		FFprobePath: defaultSettings[FFPROBEPATH].(string),
		Render: ffmpeg.RenderSettings{
			BitrateMbps:        defaultSettings[BITRATEMBPS].(uint32),
			Encoder:            encoder,
			ChromaKey:          defaultSettings[CHROMAKEY].([4]float64),
			ChromaKeyTolerance: defaultSettings[CHROMAKEYTOLERANCE].(uint8),
		},
		Telemetry: configdef.Telemetry{Options: textlayout.DefaultOptions()},
	}
}
