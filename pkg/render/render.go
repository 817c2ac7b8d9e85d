// Package render runs one video through decode, overlay compositing and
// encode. Start spawns both ffmpeg processes and returns a Session that the
// caller drives with controls and observes through events.
package render

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/tauraamui/dragonrender/pkg/ffmpeg"
	"github.com/tauraamui/dragonrender/pkg/log"
	"github.com/tauraamui/dragonrender/pkg/mailbox"
	"github.com/tauraamui/dragonrender/pkg/message"
	"github.com/tauraamui/dragonrender/pkg/osd"
	"github.com/tauraamui/dragonrender/pkg/overlay"
	"github.com/tauraamui/dragonrender/pkg/telemetry"
	"github.com/tauraamui/dragonrender/pkg/textlayout"
	"github.com/tauraamui/dragonrender/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

var fs afero.Fs = afero.NewOsFs()

// process is the part of a running ffmpeg child the pipeline drives.
type process interface {
	Stdin() io.WriteCloser
	Stdout() io.Reader
	Events() <-chan ffmpeg.Event
	Kill() error
	Wait() error
}

var spawnDecoder = func(ffmpegPath, input string) (process, error) {
	child, err := ffmpeg.Spawn(ffmpegPath, ffmpeg.DecoderArgs(input), false)
	if err != nil {
		return nil, err
	}
	return child, nil
}

var spawnEncoder = func(ffmpegPath string, args []string) (process, error) {
	child, err := ffmpeg.Spawn(ffmpegPath, args, true)
	if err != nil {
		return nil, err
	}
	return child, nil
}

type Params struct {
	FFmpegPath string
	Input      string
	Output     string

	OSDFrames  []osd.Frame
	OSDOptions osd.Options

	Telemetry   telemetry.Frames
	TextOptions textlayout.Options
	Font        *truetype.Font

	VideoInfo ffmpeg.VideoInfo
	Settings  ffmpeg.RenderSettings
}

// Session is one running render.
type Session struct {
	id       string
	output   string
	controls *mailbox.Unbounded[message.Control]
	events   *mailbox.Unbounded[message.Event]
	done     chan struct{}
}

// Start spawns the decoder and encoder and begins moving frames between them
// on two goroutines. It does not wait for the render to finish.
func Start(params Params) (*Session, error) {
	info := params.VideoInfo
	if info.Width <= 0 || info.Height <= 0 || info.FrameRate <= 0 {
		return nil, xerror.Errorf("invalid video info %dx%d @ %f fps", info.Width, info.Height, info.FrameRate)
	}

	output := ffmpeg.OutputPath(params.Output, params.Settings.Encoder)
	if err := fs.MkdirAll(filepath.Dir(output), os.ModePerm); err != nil {
		return nil, xerror.Errorf("unable to create output directory: %w", err)
	}

	id := uuid.NewString()

	decoder, err := spawnDecoder(params.FFmpegPath, params.Input)
	if err != nil {
		return nil, xerror.Errorf("unable to spawn decoder: %w", err)
	}

	encoder, err := spawnEncoder(params.FFmpegPath, ffmpeg.EncoderArgs(info, params.Settings, params.Input, params.Output))
	if err != nil {
		abandon(decoder)
		return nil, xerror.Errorf("unable to spawn encoder: %w", err)
	}

	stdin := encoder.Stdin()
	if stdin == nil {
		log.Fatal("[%s] Encoder spawned without a stdin pipe", id)
		return nil, xerror.New("encoder has no stdin")
	}
	stdout := decoder.Stdout()
	if stdout == nil {
		log.Fatal("[%s] Decoder spawned without a stdout pipe", id)
		return nil, xerror.New("decoder has no stdout")
	}

	s := Session{
		id:       id,
		output:   output,
		controls: mailbox.New[message.Control](),
		events:   mailbox.New[message.Event](),
		done:     make(chan struct{}),
	}

	src := decoderSource{
		id:     s.id,
		proc:   decoder,
		stdout: stdout,
		events: s.events,
	}
	compositor, err := overlay.New(&src, overlay.Config{
		Dimensions:         videoframe.Dimensions{W: info.Width, H: info.Height},
		FrameRate:          info.FrameRate,
		OSDFrames:          params.OSDFrames,
		OSDOptions:         params.OSDOptions,
		Telemetry:          params.Telemetry,
		TextOptions:        params.TextOptions,
		Font:               params.Font,
		UseChromaKey:       params.Settings.UseChromaKey,
		ChromaKey:          params.Settings.ChromaKey,
		ChromaKeyTolerance: params.Settings.ChromaKeyTolerance,
		Controls:           s.controls.Receive(),
	})
	if err != nil {
		abandon(decoder)
		abandon(encoder)
		s.controls.Close()
		s.events.Close()
		return nil, err
	}

	log.Info("[%s] Rendering %s to %s", s.id, params.Input, output)

	wg := sync.WaitGroup{}
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.writeFrames(compositor, stdin)
	}()
	go func() {
		defer wg.Done()
		s.drainEncoder(encoder)
	}()
	go func() {
		wg.Wait()
		s.events.Close()
		close(s.done)
		log.Info("[%s] Render finished", s.id)
	}()

	return &s, nil
}

func (s *Session) ID() string {
	return s.id
}

// Output is the path actually written, after any container override.
func (s *Session) Output() string {
	return s.output
}

// Send delivers a control to the frame writer. It reports false once the
// writer has stopped taking controls.
func (s *Session) Send(ctl message.Control) bool {
	return s.controls.Send(ctl)
}

func (s *Session) Cancel() bool {
	return s.Send(message.Cancel{})
}

// Events yields progress, completion and fatal errors. It is closed once
// both workers have exited.
func (s *Session) Events() <-chan message.Event {
	return s.events.Receive()
}

// Done is closed once both workers have exited.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) writeFrames(compositor *overlay.Compositor, stdin io.WriteCloser) {
	failedWrites := 0
	for {
		frame, ok := compositor.Next()
		if !ok {
			break
		}
		if _, err := stdin.Write(frame.Data); err != nil {
			failedWrites++
			log.Debug("[%s] Unable to write frame %d to encoder (%d failed so far): %v", s.id, frame.Index, failedWrites, err)
		}
		frame.Close()
	}

	if err := stdin.Close(); err != nil {
		log.Debug("[%s] Closing encoder stdin: %v", s.id, err)
	}

	s.controls.Close()
	for range s.controls.Receive() {
	}

	if compositor.Cancelled() {
		log.Info("[%s] Render cancelled after %d frames", s.id, compositor.Frames())
		return
	}
	log.Info("[%s] Wrote %d frames to encoder", s.id, compositor.Frames())
}

func (s *Session) drainEncoder(encoder process) {
	for evt := range encoder.Events() {
		if msg, ok := handleEncoderEvent(s.id, evt); ok {
			s.events.Send(msg)
		}
	}

	if _, err := io.Copy(io.Discard, encoder.Stdout()); err != nil {
		log.Debug("[%s] Draining encoder stdout: %v", s.id, err)
	}
	if err := encoder.Wait(); err != nil {
		log.Warn("[%s] Encoder exited: %v", s.id, err)
	}
}

// abandon kills a child that will never be used and reaps it in the background.
func abandon(p process) {
	if err := p.Kill(); err != nil {
		log.Debug("Unable to kill abandoned ffmpeg process: %v", err)
	}
	go func() {
		for range p.Events() {
		}
		if err := p.Wait(); err != nil {
			log.Debug("Abandoned ffmpeg process exited: %v", err)
		}
	}()
}
