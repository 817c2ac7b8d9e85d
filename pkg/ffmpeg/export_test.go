package ffmpeg

func OverloadRunProbe(o func(string, ...string) ([]byte, error)) func() {
	ref := runProbe
	runProbe = o
	return func() { runProbe = ref }
}

var ScanLogLines = scanLogLines
