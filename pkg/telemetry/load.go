package telemetry

import (
	"encoding/json"

	"github.com/spf13/afero"
	"github.com/tauraamui/dragonrender/pkg/log"
	"github.com/tauraamui/xerror"
)

var fs afero.Fs = afero.NewOsFs()

// Load reads a JSON array of already parsed telemetry frames and checks
// they are ordered and non-overlapping.
func Load(path string) (Frames, error) {
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, xerror.Errorf("unable to read telemetry file %s: %w", path, err)
	}

	var frames Frames
	if err := json.Unmarshal(content, &frames); err != nil {
		return nil, xerror.Errorf("unable to parse telemetry file %s: %w", path, err)
	}

	if err := frames.Validate(); err != nil {
		return nil, err
	}

	log.Info("Loaded %d telemetry frames from %s (debug: %t, distance: %t)", len(frames), path, frames.HasDebug(), frames.HasDistance())
	return frames, nil
}
