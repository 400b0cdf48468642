package spi

import "errors"

var (
	// ErrNotInitialized: the engine is Uninit.
	ErrNotInitialized = errors.New("spi: not initialized")

	// ErrAlreadyInitialized: Init called twice without DeInit.
	ErrAlreadyInitialized = errors.New("spi: already initialized")

	// ErrInvalidID: channel, job, sequence or unit id outside the configured range.
	ErrInvalidID = errors.New("spi: invalid id")

	// ErrInvalidArgument: missing buffer, zero length, unknown mode.
	ErrInvalidArgument = errors.New("spi: invalid argument")

	// ErrTimeout: a bounded wait on a ready flag or result expired.
	ErrTimeout = errors.New("spi: timeout")

	// ErrTransferFailed: a job or sequence resolved to failed.
	ErrTransferFailed = errors.New("spi: transfer failed")

	// ErrCanceled: the sequence was canceled before completion.
	ErrCanceled = errors.New("spi: canceled")

	// ErrSequencePending: the sequence is already being dispatched.
	ErrSequencePending = errors.New("spi: sequence pending")
)
