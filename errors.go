package relay

import (
	"errors"
	"fmt"
)

// ErrQuotaExceeded reports that the user's daily allowance for a gated
// resource is spent. An expected condition, not a fault.
var ErrQuotaExceeded = errors.New("daily quota exhausted")

// ErrEmptyPrompt reports a missing image prompt, rejected before any store
// or provider call.
var ErrEmptyPrompt = errors.New("empty image prompt")

// StorageError wraps a failure of the durable store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage %s: %v", e.Op, e.Err) }

func (e *StorageError) Unwrap() error { return e.Err }

// GenerationError wraps a failure or timeout of the remote provider.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string { return fmt.Sprintf("generation %s: %v", e.Op, e.Err) }

func (e *GenerationError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

func generationErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &GenerationError{Op: op, Err: err}
}
