package osd

import (
	"image"
	"image/draw"
	"image/png"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/tauraamui/dragonrender/pkg/log"
	"github.com/tauraamui/xerror"
)

var fs afero.Fs = afero.NewOsFs()

// LoadDir reads every <milliseconds>.png in dir as an OSD frame shown from
// that offset into the video. Other files are skipped.
func LoadDir(dir string) ([]Frame, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, xerror.Errorf("unable to list OSD frame directory %s: %w", dir, err)
	}

	frames := []Frame{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".png") {
			continue
		}

		millis, err := strconv.ParseUint(strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())), 10, 64)
		if err != nil {
			log.Warn("Skipping OSD file with non numeric name: %s", entry.Name())
			continue
		}

		img, err := readPNG(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		frames = append(frames, Frame{Time: float64(millis) / 1000, Image: img})
	}

	Sort(frames)
	log.Info("Loaded %d OSD frames from %s", len(frames), dir)
	return frames, nil
}

func readPNG(path string) (*image.RGBA, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, xerror.Errorf("unable to open OSD frame %s: %w", path, err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		return nil, xerror.Errorf("unable to decode OSD frame %s: %w", path, err)
	}
	return toRGBA(img), nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
