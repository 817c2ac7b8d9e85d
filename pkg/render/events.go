package render

import (
	"strings"

	"github.com/tauraamui/dragonrender/pkg/ffmpeg"
	"github.com/tauraamui/dragonrender/pkg/log"
	"github.com/tauraamui/dragonrender/pkg/message"
)

// ffmpeg reports these failures below fatal severity even though the
// encoder cannot recover from them.
var misreportedFatalPatterns = []string{
	"error initializing output stream",
	"[error] cannot load",
}

func isMisreportedFatal(line string) bool {
	line = strings.ToLower(line)
	for _, pattern := range misreportedFatalPatterns {
		if strings.Contains(line, pattern) {
			return true
		}
	}
	return false
}

func handleDecoderEvent(id string, evt ffmpeg.Event) (message.Event, bool) {
	switch e := evt.(type) {
	case ffmpeg.ProgressEvent:
		return message.Progress{Progress: e.Progress}, true
	case ffmpeg.LogEOFEvent:
		return message.DecoderFinished{}, true
	case ffmpeg.LogEvent:
		switch e.Level {
		case ffmpeg.LevelFatal:
			log.Error("[%s] decoder: %s", id, e.Line)
			return message.DecoderFatalError{Msg: e.Line}, true
		case ffmpeg.LevelWarning, ffmpeg.LevelError:
			log.Warn("[%s] decoder: %s", id, e.Line)
		default:
			log.Debug("[%s] decoder: %s", id, e.Line)
		}
	}
	return nil, false
}

func handleEncoderEvent(id string, evt ffmpeg.Event) (message.Event, bool) {
	switch e := evt.(type) {
	case ffmpeg.LogEOFEvent:
		return message.EncoderFinished{}, true
	case ffmpeg.ProgressEvent:
		log.Debug("[%s] encoder: %s", id, e.Progress.RawLine)
	case ffmpeg.LogEvent:
		if e.Level == ffmpeg.LevelFatal || isMisreportedFatal(e.Line) {
			log.Error("[%s] encoder: %s", id, e.Line)
			return message.EncoderFatalError{Msg: e.Line}, true
		}
		switch e.Level {
		case ffmpeg.LevelWarning, ffmpeg.LevelError:
			log.Warn("[%s] encoder: %s", id, e.Line)
		default:
			log.Debug("[%s] encoder: %s", id, e.Line)
		}
	}
	return nil, false
}
