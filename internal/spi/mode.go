package spi

import (
	"errors"
	"fmt"

	"github.com/tamzrod/spi-handler/internal/status"
)

// SetAsyncMode switches completion detection.
// Polling disables completion interrupts on every unit that supports them,
// Interrupt enables them. Either resets the driver state to Idle.
// On any unit error the units already switched are restored to the current
// mode and the mode is left unchanged.
func (e *Engine) SetAsyncMode(mode status.AsyncMode) error {
	t, _, err := e.current()
	if err != nil {
		return err
	}
	if !mode.Valid() {
		return fmt.Errorf("%w: async mode %d", ErrInvalidArgument, mode)
	}

	enable := mode == status.InterruptMode
	restore := e.Mode() == status.InterruptMode

	var switched []HWUnit
	var errs []error
	for _, u := range t.units {
		ic, ok := u.Transceiver.(InterruptController)
		if !ok {
			continue
		}
		if err := ic.SetInterrupts(enable); err != nil {
			errs = append(errs, fmt.Errorf("unit %d: %w", u.ID, err))
			continue
		}
		switched = append(switched, u)
	}

	if len(errs) > 0 {
		for _, u := range switched {
			if err := u.Transceiver.(InterruptController).SetInterrupts(restore); err != nil {
				errs = append(errs, fmt.Errorf("unit %d: restore: %w", u.ID, err))
			}
		}
		return fmt.Errorf("spi: set %s mode: %w", mode, errors.Join(errs...))
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == status.Uninit {
		return ErrNotInitialized
	}
	e.mode = mode
	e.state = status.Idle

	e.opts.logger.Printf("spi: async mode %s", mode)
	return nil
}
