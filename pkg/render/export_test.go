package render

import "github.com/spf13/afero"

type Process = process

func OverloadSpawnDecoder(o func(string, string) (process, error)) func() {
	ref := spawnDecoder
	spawnDecoder = o
	return func() { spawnDecoder = ref }
}

func OverloadSpawnEncoder(o func(string, []string) (process, error)) func() {
	ref := spawnEncoder
	spawnEncoder = o
	return func() { spawnEncoder = ref }
}

func OverloadFS(o afero.Fs) func() {
	ref := fs
	fs = o
	return func() { fs = ref }
}

var (
	HandleDecoderEvent = handleDecoderEvent
	HandleEncoderEvent = handleEncoderEvent
)
