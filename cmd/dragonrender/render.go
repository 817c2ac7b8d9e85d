package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/golang/freetype/truetype"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/tauraamui/dragonrender/pkg/configdef"
	"github.com/tauraamui/dragonrender/pkg/ffmpeg"
	"github.com/tauraamui/dragonrender/pkg/log"
	"github.com/tauraamui/dragonrender/pkg/message"
	"github.com/tauraamui/dragonrender/pkg/osd"
	"github.com/tauraamui/dragonrender/pkg/render"
	"github.com/tauraamui/dragonrender/pkg/telemetry"
	"github.com/tauraamui/xerror"
)

var fs afero.Fs = afero.NewOsFs()

type renderFlags struct {
	input      string
	output     string
	telemetry  string
	osdDir     string
	configPath string
}

func parseRenderFlags(args []string) (renderFlags, error) {
	var rf renderFlags
	flags := pflag.NewFlagSet("render", pflag.ContinueOnError)
	flags.StringVarP(&rf.input, "input", "i", "", "source video file")
	flags.StringVarP(&rf.output, "output", "o", "", "rendered video file (default <input>_overlay.<ext>)")
	flags.StringVarP(&rf.telemetry, "telemetry", "t", "", "parsed telemetry JSON file")
	flags.StringVar(&rf.osdDir, "osd-dir", "", "directory of <milliseconds>.png OSD frames")
	flags.StringVarP(&rf.configPath, "config", "c", "", "config file location")

	if err := flags.Parse(args); err != nil {
		return rf, err
	}
	if len(rf.input) == 0 {
		return rf, xerror.New("--input is required")
	}
	if len(rf.output) == 0 {
		rf.output = defaultOutputPath(rf.input)
	}
	return rf, nil
}

func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_overlay" + ext
}

func runRender(args []string) int {
	rf, err := parseRenderFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 2
	}

	values, err := resolveConfig(rf.configPath)
	if err != nil {
		log.Error("unable to load config: %v", err)
		return 1
	}

	params, err := buildParams(values, rf)
	if err != nil {
		log.Error(err.Error())
		return 1
	}

	session, err := render.Start(params)
	if err != nil {
		log.Error(err.Error())
		return 1
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	return watch(session, interrupt, newReporter(params.VideoInfo.TotalFrames()))
}

func buildParams(values configdef.Values, rf renderFlags) (render.Params, error) {
	info, err := ffmpeg.Probe(values.FFprobePath, rf.input)
	if err != nil {
		return render.Params{}, err
	}
	log.Info("Source video: %dx%d @ %.3f fps, %.1fs", info.Width, info.Height, info.FrameRate, info.Duration)

	font, err := loadFont(values.FontPath)
	if err != nil {
		return render.Params{}, err
	}

	params := render.Params{
		FFmpegPath:  values.FFmpegPath,
		Input:       rf.input,
		Output:      rf.output,
		OSDOptions:  values.OSD,
		TextOptions: values.Telemetry.Options,
		Font:        font,
		VideoInfo:   info,
		Settings:    values.Render,
	}

	if len(rf.telemetry) > 0 && !values.Telemetry.Disabled {
		if params.Telemetry, err = telemetry.Load(rf.telemetry); err != nil {
			return render.Params{}, err
		}
	}

	if len(rf.osdDir) > 0 && !values.OSD.Disabled {
		if params.OSDFrames, err = osd.LoadDir(rf.osdDir); err != nil {
			return render.Params{}, err
		}
	}

	return params, nil
}

// loadFont parses the configured TTF, or returns nil for the default face.
func loadFont(path string) (*truetype.Font, error) {
	if len(path) == 0 {
		return nil, nil
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, xerror.Errorf("unable to read font file %s: %w", path, err)
	}
	font, err := truetype.Parse(data)
	if err != nil {
		return nil, xerror.Errorf("unable to parse font file %s: %w", path, err)
	}
	return font, nil
}

// watch reports events until the session ends. A fatal event cancels the
// render and makes the exit code non zero.
func watch(session *render.Session, interrupt <-chan os.Signal, reporter progressReporter) int {
	exitCode := 0
	events := session.Events()
	for {
		select {
		case sig := <-interrupt:
			fmt.Fprint(os.Stderr, "\r")
			log.Error("Received signal: %s, cancelling render", sig)
			session.Cancel()
			exitCode = 130
		case evt, ok := <-events:
			if !ok {
				reporter.finish()
				if exitCode == 0 {
					fmt.Printf("Rendered %s\n", session.Output())
				}
				return exitCode
			}
			switch e := evt.(type) {
			case message.Progress:
				reporter.update(e.Frame)
			case message.DecoderFinished, message.EncoderFinished:
				log.Info("[%s] %s", session.ID(), e)
			case message.DecoderFatalError, message.EncoderFatalError:
				log.Error("[%s] %s", session.ID(), e)
				session.Cancel()
				exitCode = 1
			}
		}
	}
}
