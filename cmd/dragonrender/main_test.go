package main

import (
	"testing"

	"github.com/matryer/is"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"golang.org/x/image/font/gofont/goregular"
)

func TestRunWithoutCommandPrintsUsage(t *testing.T) {
	is := is.New(t)
	is.Equal(run(nil), 2)
	is.Equal(run([]string{"fly"}), 2)
}

func TestParseRenderFlags(t *testing.T) {
	is := is.New(t)
	rf, err := parseRenderFlags([]string{
		"-i", "flights/DJIG0001.mp4", "--telemetry", "flights/DJIG0001.json", "--osd-dir", "flights/osd",
	})
	is.NoErr(err)
	is.Equal(rf.input, "flights/DJIG0001.mp4")
	is.Equal(rf.output, "flights/DJIG0001_overlay.mp4")
	is.Equal(rf.telemetry, "flights/DJIG0001.json")
	is.Equal(rf.osdDir, "flights/osd")
}

func TestParseRenderFlagsRequiresInput(t *testing.T) {
	_, err := parseRenderFlags([]string{"-o", "out.mp4"})
	assert.EqualError(t, err, "--input is required")
}

func TestLoadFont(t *testing.T) {
	is := is.New(t)
	ref := fs
	fs = afero.NewMemMapFs()
	defer func() { fs = ref }()

	font, err := loadFont("")
	is.NoErr(err)
	is.True(font == nil)

	is.NoErr(afero.WriteFile(fs, "/fonts/regular.ttf", goregular.TTF, 0644))
	font, err = loadFont("/fonts/regular.ttf")
	is.NoErr(err)
	is.True(font != nil)

	is.NoErr(afero.WriteFile(fs, "/fonts/broken.ttf", []byte("not a font"), 0644))
	_, err = loadFont("/fonts/broken.ttf")
	is.True(err != nil)

	_, err = loadFont("/fonts/missing.ttf")
	is.True(err != nil)
}

func TestLogReporterTracksLatestFrame(t *testing.T) {
	is := is.New(t)
	r := &logReporter{total: 100, every: 0}
	r.update(10)
	r.update(20)
	is.Equal(r.latest, uint32(20))
}
