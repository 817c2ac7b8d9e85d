package ffmpeg

import (
	"strconv"
	"strings"
)

type LogLevel int

const (
	LevelUnknown LogLevel = iota
	LevelTrace
	LevelDebug
	LevelVerbose
	LevelInfo
	LevelWarning
	LevelError
	LevelFatal
)

func (l LogLevel) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelVerbose:
		return "verbose"
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	}
	return "unknown"
}

var levelTags = []struct {
	tag   string
	level LogLevel
}{
	{"[panic]", LevelFatal},
	{"[fatal]", LevelFatal},
	{"[error]", LevelError},
	{"[warning]", LevelWarning},
	{"[info]", LevelInfo},
	{"[verbose]", LevelVerbose},
	{"[debug]", LevelDebug},
	{"[trace]", LevelTrace},
}

// ParseLogLevel reads the severity tag ffmpeg prints with -loglevel level+...
func ParseLogLevel(line string) LogLevel {
	for _, lt := range levelTags {
		if strings.Contains(line, lt.tag) {
			return lt.level
		}
	}
	return LevelUnknown
}

// Event is anything read off an ffmpeg process's diagnostic stream.
type Event interface {
	isEvent()
}

type LogEvent struct {
	Level LogLevel
	Line  string
}

type ProgressEvent struct {
	Progress Progress
}

// LogEOFEvent is the last event of every process: its log stream closed.
type LogEOFEvent struct{}

func (LogEvent) isEvent()      {}
func (ProgressEvent) isEvent() {}
func (LogEOFEvent) isEvent()   {}

// Progress is one parsed "frame=... fps=... time=..." status line.
type Progress struct {
	Frame       uint32
	FPS         float64
	Q           float64
	SizeKB      uint64
	Time        string
	BitrateKbps float64
	Speed       float64
	RawLine     string
}

// ParseProgress parses a status line, reporting false for anything else.
func ParseProgress(line string) (Progress, bool) {
	idx := strings.Index(line, "frame=")
	if idx < 0 || !strings.Contains(line, "time=") {
		return Progress{}, false
	}

	p := Progress{RawLine: line}
	for key, value := range progressFields(line[idx:]) {
		switch key {
		case "frame":
			if v, err := strconv.ParseUint(value, 10, 32); err == nil {
				p.Frame = uint32(v)
			}
		case "fps":
			p.FPS, _ = strconv.ParseFloat(value, 64)
		case "q":
			p.Q, _ = strconv.ParseFloat(value, 64)
		case "size", "Lsize":
			v := strings.TrimSuffix(strings.TrimSuffix(value, "kB"), "KiB")
			p.SizeKB, _ = strconv.ParseUint(v, 10, 64)
		case "time":
			p.Time = value
		case "bitrate":
			v := strings.TrimSuffix(value, "kbits/s")
			p.BitrateKbps, _ = strconv.ParseFloat(v, 64)
		case "speed":
			p.Speed, _ = strconv.ParseFloat(strings.TrimSuffix(value, "x"), 64)
		}
	}
	return p, true
}

// progressFields splits "key=  value key2=value2" pairs, tolerating the
// padding ffmpeg puts after the equals sign.
func progressFields(s string) map[string]string {
	fields := map[string]string{}
	tokens := strings.Fields(strings.ReplaceAll(s, "=", "= "))
	for i := 0; i < len(tokens); i++ {
		key := tokens[i]
		if !strings.HasSuffix(key, "=") {
			continue
		}
		key = strings.TrimSuffix(key, "=")
		if i+1 < len(tokens) && !strings.HasSuffix(tokens[i+1], "=") {
			fields[key] = tokens[i+1]
			i++
			continue
		}
		fields[key] = ""
	}
	return fields
}

// ParseLine turns one stderr line into a progress or log event.
func ParseLine(line string) Event {
	if p, ok := ParseProgress(line); ok {
		return ProgressEvent{Progress: p}
	}
	return LogEvent{Level: ParseLogLevel(line), Line: line}
}
