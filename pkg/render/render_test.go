package render_test

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tauraamui/dragonrender/pkg/ffmpeg"
	"github.com/tauraamui/dragonrender/pkg/message"
	"github.com/tauraamui/dragonrender/pkg/render"
	"github.com/tauraamui/dragonrender/pkg/textlayout"
)

const (
	testWidth     = 4
	testHeight    = 4
	testFrameSize = testWidth * testHeight * 4
)

type mockStdin struct {
	mu       sync.Mutex
	written  int
	writeErr error
	onWrite  func(count int)
	closed   chan struct{}
	once     sync.Once
}

func (m *mockStdin) Write(p []byte) (int, error) {
	m.mu.Lock()
	m.written++
	count := m.written
	m.mu.Unlock()

	if m.onWrite != nil {
		m.onWrite(count)
	}
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	return len(p), nil
}

func (m *mockStdin) Close() error {
	m.once.Do(func() { close(m.closed) })
	return nil
}

func (m *mockStdin) Written() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.written
}

type mockProcess struct {
	stdin  *mockStdin
	stdout io.Reader
	events chan ffmpeg.Event

	mu     sync.Mutex
	killed bool
	waited bool
}

func (m *mockProcess) Stdin() io.WriteCloser {
	if m.stdin == nil {
		return nil
	}
	return m.stdin
}

func (m *mockProcess) Stdout() io.Reader           { return m.stdout }
func (m *mockProcess) Events() <-chan ffmpeg.Event { return m.events }

func (m *mockProcess) Kill() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.killed = true
	return nil
}

func (m *mockProcess) Wait() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.waited = true
	return nil
}

func (m *mockProcess) Killed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.killed
}

// newMockDecoder produces frames packed frames and has already logged evts.
func newMockDecoder(frames int, evts ...ffmpeg.Event) *mockProcess {
	events := make(chan ffmpeg.Event, len(evts)+1)
	for _, e := range evts {
		events <- e
	}
	events <- ffmpeg.LogEOFEvent{}
	close(events)

	return &mockProcess{
		stdout: bytes.NewReader(make([]byte, frames*testFrameSize)),
		events: events,
	}
}

// newMockEncoder logs evts once its stdin is closed, then exits.
func newMockEncoder(evts ...ffmpeg.Event) *mockProcess {
	p := mockProcess{
		stdin:  &mockStdin{closed: make(chan struct{})},
		stdout: bytes.NewReader(nil),
		events: make(chan ffmpeg.Event),
	}
	go func() {
		<-p.stdin.closed
		for _, e := range evts {
			p.events <- e
		}
		p.events <- ffmpeg.LogEOFEvent{}
		close(p.events)
	}()
	return &p
}

func overloadProcesses(decoder, encoder *mockProcess) func() {
	resetDecoder := render.OverloadSpawnDecoder(func(string, string) (render.Process, error) {
		return decoder, nil
	})
	resetEncoder := render.OverloadSpawnEncoder(func(string, []string) (render.Process, error) {
		return encoder, nil
	})
	resetFS := render.OverloadFS(afero.NewMemMapFs())
	return func() {
		resetDecoder()
		resetEncoder()
		resetFS()
	}
}

func testParams() render.Params {
	return render.Params{
		FFmpegPath:  "ffmpeg",
		Input:       "in.mp4",
		Output:      "renders/out.mp4",
		TextOptions: textlayout.DefaultOptions(),
		VideoInfo:   ffmpeg.VideoInfo{Width: testWidth, Height: testHeight, FrameRate: 10, TimeBase: 90000},
		Settings: ffmpeg.RenderSettings{
			BitrateMbps: 10,
			Encoder:     ffmpeg.Encoder{Name: "libx264"},
		},
	}
}

func collectEvents(t *testing.T, session *render.Session) []message.Event {
	t.Helper()
	events := []message.Event{}
	timeout := time.After(3 * time.Second)
	for {
		select {
		case evt, ok := <-session.Events():
			if !ok {
				<-session.Done()
				return events
			}
			events = append(events, evt)
		case <-timeout:
			t.Fatal("test timeout 3s limit exceeded")
		}
	}
}

func count(events []message.Event, match func(message.Event) bool) int {
	n := 0
	for _, e := range events {
		if match(e) {
			n++
		}
	}
	return n
}

func isDecoderFinished(e message.Event) bool { _, ok := e.(message.DecoderFinished); return ok }
func isEncoderFinished(e message.Event) bool { _, ok := e.(message.EncoderFinished); return ok }
func isProgress(e message.Event) bool        { _, ok := e.(message.Progress); return ok }
func isEncoderFatal(e message.Event) bool    { _, ok := e.(message.EncoderFatalError); return ok }

func TestRenderWritesEveryDecodedFrame(t *testing.T) {
	is := is.New(t)
	decoder := newMockDecoder(10,
		ffmpeg.ProgressEvent{Progress: ffmpeg.Progress{Frame: 5}},
		ffmpeg.LogEvent{Level: ffmpeg.LevelWarning, Line: "[warning] something odd"},
	)
	encoder := newMockEncoder()
	defer overloadProcesses(decoder, encoder)()

	session, err := render.Start(testParams())
	is.NoErr(err)
	is.True(len(session.ID()) > 0)

	events := collectEvents(t, session)

	is.Equal(encoder.stdin.Written(), 10)
	is.Equal(count(events, isDecoderFinished), 1)
	is.Equal(count(events, isEncoderFinished), 1)
	is.Equal(count(events, isProgress), 1)
	is.Equal(len(events), 3)
	is.True(!decoder.Killed())
	is.True(decoder.waited)
	is.True(encoder.waited)
}

func TestRenderCancelStopsWritingFrames(t *testing.T) {
	is := is.New(t)
	decoder := newMockDecoder(1000)
	encoder := newMockEncoder()
	defer overloadProcesses(decoder, encoder)()

	var session *render.Session
	ready := make(chan struct{})
	encoder.stdin.onWrite = func(count int) {
		if count == 3 {
			<-ready
			session.Cancel()
		}
	}

	var err error
	session, err = render.Start(testParams())
	is.NoErr(err)
	close(ready)

	events := collectEvents(t, session)

	is.Equal(encoder.stdin.Written(), 3)
	is.True(decoder.Killed())
	is.Equal(count(events, isDecoderFinished), 1)
	is.Equal(count(events, isEncoderFinished), 1)
	is.Equal(count(events, func(e message.Event) bool { return message.IsFatal(e) }), 0)
	is.True(!session.Cancel())
}

func TestRenderReportsMisreportedEncoderFailure(t *testing.T) {
	is := is.New(t)
	decoder := newMockDecoder(2)
	encoder := newMockEncoder(
		ffmpeg.LogEvent{Level: ffmpeg.LevelInfo, Line: "[info] Error initializing output stream 0:0"},
	)
	defer overloadProcesses(decoder, encoder)()

	session, err := render.Start(testParams())
	is.NoErr(err)

	events := collectEvents(t, session)
	is.Equal(count(events, isEncoderFatal), 1)
	is.Equal(count(events, isEncoderFinished), 1)
}

func TestRenderSwallowsFrameWriteErrors(t *testing.T) {
	is := is.New(t)
	decoder := newMockDecoder(5)
	encoder := newMockEncoder()
	encoder.stdin.writeErr = errors.New("broken pipe")
	defer overloadProcesses(decoder, encoder)()

	session, err := render.Start(testParams())
	is.NoErr(err)

	events := collectEvents(t, session)
	is.Equal(encoder.stdin.Written(), 5)
	is.Equal(count(events, func(e message.Event) bool { return message.IsFatal(e) }), 0)
	is.Equal(count(events, isEncoderFinished), 1)
}

func TestRenderDecoderSpawnFailure(t *testing.T) {
	resetDecoder := render.OverloadSpawnDecoder(func(string, string) (render.Process, error) {
		return nil, errors.New("exec: \"ffmpeg\": executable file not found in $PATH")
	})
	defer resetDecoder()
	defer render.OverloadFS(afero.NewMemMapFs())()

	session, err := render.Start(testParams())
	assert.Nil(t, session)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to spawn decoder")
}

func TestRenderEncoderSpawnFailureKillsDecoder(t *testing.T) {
	is := is.New(t)
	decoder := newMockDecoder(1)
	resetDecoder := render.OverloadSpawnDecoder(func(string, string) (render.Process, error) {
		return decoder, nil
	})
	defer resetDecoder()
	resetEncoder := render.OverloadSpawnEncoder(func(string, []string) (render.Process, error) {
		return nil, errors.New("exec format error")
	})
	defer resetEncoder()
	defer render.OverloadFS(afero.NewMemMapFs())()

	session, err := render.Start(testParams())
	is.True(session == nil)
	is.True(err != nil)
	is.True(decoder.Killed())
}

func TestRenderRejectsInvalidVideoInfo(t *testing.T) {
	is := is.New(t)
	params := testParams()
	params.VideoInfo.FrameRate = 0

	_, err := render.Start(params)
	is.True(err != nil)
}

func TestRenderCreatesOutputDirAndUsesContainerOverride(t *testing.T) {
	is := is.New(t)
	decoder := newMockDecoder(1)
	encoder := newMockEncoder()
	memFS := afero.NewMemMapFs()

	var encoderArgs []string
	resetDecoder := render.OverloadSpawnDecoder(func(string, string) (render.Process, error) {
		return decoder, nil
	})
	defer resetDecoder()
	resetEncoder := render.OverloadSpawnEncoder(func(_ string, args []string) (render.Process, error) {
		encoderArgs = args
		return encoder, nil
	})
	defer resetEncoder()
	defer render.OverloadFS(memFS)()

	params := testParams()
	params.Output = "renders/today/out.mp4"
	params.Settings.Encoder = ffmpeg.Encoder{Name: "prores_ks", ExtraArgs: []string{"-profile:v", "3"}}

	session, err := render.Start(params)
	is.NoErr(err)
	collectEvents(t, session)

	is.Equal(session.Output(), "renders/today/out.mov")
	is.Equal(encoderArgs[len(encoderArgs)-1], "renders/today/out.mov")

	exists, err := afero.DirExists(memFS, "renders/today")
	is.NoErr(err)
	is.True(exists)
}
