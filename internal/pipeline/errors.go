package pipeline

import "errors"

var (
	// ErrNoSink is returned when upload is requested but no delivery sink is configured
	ErrNoSink = errors.New("upload requested but no delivery sink is configured")

	// ErrMissingRow is returned when a numbered order has no source row to write back to
	ErrMissingRow = errors.New("order has no source row")
)
