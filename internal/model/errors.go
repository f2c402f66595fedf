package model

import (
	"errors"
	"fmt"
)

// ErrInsufficientData marks a ticker whose price history is too short for
// the RSI window. It excludes the one ticker, never the batch.
var ErrInsufficientData = errors.New("insufficient price history")

// LoadError is a fatal failure while parsing the uploaded asset list.
type LoadError struct {
	Sheet string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load asset list (sheet %q): %v", e.Sheet, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// FetchError is a per-call provider failure, isolated to its key.
type FetchError struct {
	Provider string
	Key      string
	Err      error
}

func (e *FetchError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s fetch: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s fetch %s: %v", e.Provider, e.Key, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
