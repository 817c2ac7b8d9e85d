package message_test

import (
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/dragonrender/pkg/ffmpeg"
	"github.com/tauraamui/dragonrender/pkg/message"
)

func TestIsFatal(t *testing.T) {
	is := is.New(t)

	is.True(message.IsFatal(message.DecoderFatalError{Msg: "boom"}))
	is.True(message.IsFatal(message.EncoderFatalError{Msg: "boom"}))
	is.True(!message.IsFatal(message.DecoderFinished{}))
	is.True(!message.IsFatal(message.EncoderFinished{}))
	is.True(!message.IsFatal(message.Progress{}))
}

func TestEventStrings(t *testing.T) {
	is := is.New(t)

	is.Equal(message.EncoderFatalError{Msg: "Error initializing output stream"}.String(),
		"encoder fatal error: Error initializing output stream")
	is.Equal(message.DecoderFinished{}.String(), "decoder finished")
	is.Equal(
		message.Progress{Progress: ffmpeg.Progress{Frame: 12, FPS: 29.97, Speed: 1.5}}.String(),
		"progress: frame 12, 30.0 fps, speed 1.50x",
	)
}
