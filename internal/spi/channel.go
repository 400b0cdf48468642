package spi

import (
	"context"
	"fmt"
)

// WriteIB transmits buf on ch, one element at a time.
// Each element waits (bounded) for the unit to be ready to transmit.
func (e *Engine) WriteIB(ctx context.Context, ch ChannelID, buf []byte) error {
	tr, err := e.channelTransceiver(ch, buf)
	if err != nil {
		return err
	}
	if err := e.writeIB(ctx, tr, buf, nil); err != nil {
		return fmt.Errorf("spi: write channel %d: %w", ch, err)
	}
	return nil
}

// ReadIB fills out from ch, one element at a time.
// Each element waits (bounded) for received data.
func (e *Engine) ReadIB(ctx context.Context, ch ChannelID, out []byte) error {
	tr, err := e.channelTransceiver(ch, out)
	if err != nil {
		return err
	}
	if err := e.readIB(ctx, tr, out); err != nil {
		return fmt.Errorf("spi: read channel %d: %w", ch, err)
	}
	return nil
}

// SetupEB performs length full-duplex exchanges on ch:
// src[i] is written, then dst[i] is read, for i in [0, length).
// It has no knowledge of jobs or sequences.
func (e *Engine) SetupEB(ctx context.Context, ch ChannelID, src, dst []byte, length int) error {
	if _, _, err := e.current(); err != nil {
		return err
	}
	if src == nil || dst == nil || length <= 0 {
		return fmt.Errorf("%w: setup requires both buffers and a non-zero length", ErrInvalidArgument)
	}
	if len(src) < length || len(dst) < length {
		return fmt.Errorf("%w: length %d exceeds buffers (src=%d dst=%d)",
			ErrInvalidArgument, length, len(src), len(dst))
	}

	tr, err := e.channelTransceiver(ch, src)
	if err != nil {
		return err
	}

	for i := 0; i < length; i++ {
		if err := e.writeIB(ctx, tr, src[i:i+1], nil); err != nil {
			return fmt.Errorf("spi: setup channel %d index %d: %w", ch, i, err)
		}
		if err := e.readIB(ctx, tr, dst[i:i+1]); err != nil {
			return fmt.Errorf("spi: setup channel %d index %d: %w", ch, i, err)
		}
	}
	return nil
}

// channelTransceiver checks the shared preconditions of channel I/O.
func (e *Engine) channelTransceiver(ch ChannelID, buf []byte) (Transceiver, error) {
	t, _, err := e.current()
	if err != nil {
		return nil, err
	}
	if len(buf) == 0 {
		return nil, fmt.Errorf("%w: empty buffer", ErrInvalidArgument)
	}
	return t.transceiverFor(ch)
}

func (e *Engine) writeIB(ctx context.Context, tr Transceiver, buf []byte, abort func() bool) error {
	for _, b := range buf {
		if err := e.waitUntil(ctx, tr.ReadyToTransmit, abort); err != nil {
			return err
		}
		if err := tr.Transmit(b); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) readIB(ctx context.Context, tr Transceiver, out []byte) error {
	for i := range out {
		if err := e.waitUntil(ctx, tr.DataAvailable, nil); err != nil {
			return err
		}
		b, err := tr.Receive()
		if err != nil {
			return err
		}
		out[i] = b
	}
	return nil
}
