package ffmpeg

import (
	"bufio"
	"bytes"
	"io"
	"os/exec"

	"github.com/tauraamui/dragonrender/pkg/log"
	"github.com/tauraamui/dragonrender/pkg/mailbox"
	"github.com/tauraamui/xerror"
)

// Child is a running ffmpeg process. Its stdin and stdout halves are meant to
// be handed to exactly one goroutine each; Events may be read by a third.
type Child struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	events *mailbox.Unbounded[Event]
}

// Spawn starts binary with args. stdout is always piped; stdin only when withStdin.
func Spawn(binary string, args []string, withStdin bool) (*Child, error) {
	cmd := exec.Command(binary, args...)
	child := Child{cmd: cmd, events: mailbox.New[Event]()}

	var err error
	if withStdin {
		if child.stdin, err = cmd.StdinPipe(); err != nil {
			return nil, xerror.Errorf("unable to open stdin pipe: %w", err)
		}
	}
	if child.stdout, err = cmd.StdoutPipe(); err != nil {
		return nil, xerror.Errorf("unable to open stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, xerror.Errorf("unable to open stderr pipe: %w", err)
	}

	log.Debug("Spawning: %s %v", binary, args)
	if err := cmd.Start(); err != nil {
		child.events.Close()
		return nil, xerror.Errorf("unable to start %s: %w", binary, err)
	}

	go readEvents(stderr, child.events)
	return &child, nil
}

// Stdin is nil unless the child was spawned with stdin.
func (c *Child) Stdin() io.WriteCloser { return c.stdin }

func (c *Child) Stdout() io.Reader { return c.stdout }

// Events yields parsed stderr lines and ends with LogEOFEvent before closing.
func (c *Child) Events() <-chan Event { return c.events.Receive() }

func (c *Child) Kill() error {
	if c.cmd.Process == nil {
		return nil
	}
	return c.cmd.Process.Kill()
}

// Wait blocks until the process exits. Only call it once stdout reads are done.
func (c *Child) Wait() error {
	return c.cmd.Wait()
}

func readEvents(stderr io.Reader, events *mailbox.Unbounded[Event]) {
	defer events.Close()

	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(scanLogLines)
	for scanner.Scan() {
		line := string(bytes.TrimSpace(scanner.Bytes()))
		if len(line) == 0 {
			continue
		}
		events.Send(ParseLine(line))
	}
	if err := scanner.Err(); err != nil {
		log.Warn("ffmpeg log stream read failed: %v", err)
	}
	events.Send(LogEOFEvent{})
}

// scanLogLines splits on \n and on the bare \r ffmpeg uses to redraw its
// status line.
func scanLogLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
