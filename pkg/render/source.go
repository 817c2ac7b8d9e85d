package render

import (
	"errors"
	"io"

	"github.com/tauraamui/dragonrender/pkg/ffmpeg"
	"github.com/tauraamui/dragonrender/pkg/log"
	"github.com/tauraamui/dragonrender/pkg/mailbox"
	"github.com/tauraamui/dragonrender/pkg/message"
	"github.com/tauraamui/xerror"
)

// decoderSource reads packed frames off the decoder's stdout and forwards
// the decoder's events between reads. It is owned by the frame writer.
type decoderSource struct {
	id     string
	proc   process
	stdout io.Reader
	events *mailbox.Unbounded[message.Event]
	reaped bool
}

func (d *decoderSource) ReadFrame(dst []byte) error {
	d.forwardPending()

	if _, err := io.ReadFull(d.stdout, dst); err != nil {
		d.reap()
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return xerror.Errorf("decoder ended mid frame: %w", err)
		}
		return err
	}
	return nil
}

// Stop kills the decoder. Its remaining events are still forwarded, so
// DecoderFinished is reported either way.
func (d *decoderSource) Stop() error {
	err := d.proc.Kill()
	d.reap()
	return err
}

func (d *decoderSource) forwardPending() {
	for {
		select {
		case evt, ok := <-d.proc.Events():
			if !ok {
				return
			}
			d.forward(evt)
		default:
			return
		}
	}
}

func (d *decoderSource) forward(evt ffmpeg.Event) {
	if msg, ok := handleDecoderEvent(d.id, evt); ok {
		d.events.Send(msg)
	}
}

func (d *decoderSource) reap() {
	if d.reaped {
		return
	}
	d.reaped = true

	for evt := range d.proc.Events() {
		d.forward(evt)
	}
	if err := d.proc.Wait(); err != nil {
		log.Debug("[%s] Decoder exited: %v", d.id, err)
	}
}
