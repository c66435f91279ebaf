package model

import (
	"errors"
)

var (
	// ErrNotFound reports a source file that does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrTooLarge reports a source file above the configured size ceiling.
	ErrTooLarge = errors.New("file exceeds size limit")
	// ErrParseFailure reports text the syntax tree provider could not turn into a tree.
	ErrParseFailure = errors.New("parse failure")
	// ErrIO reports any other read or write failure.
	ErrIO = errors.New("io failure")
	// ErrComponentNotFound reports a component name with no matching declaration.
	ErrComponentNotFound = errors.New("component not found")
)

// Error kinds reported in batch results.
const (
	KindNotFound          = "not-found"
	KindTooLarge          = "too-large"
	KindParseFailure      = "parse-failure"
	KindIO                = "io-failure"
	KindComponentNotFound = "component-not-found"
	KindUnknown           = "unknown"
)

// KindOf maps an error onto its taxonomy label.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrTooLarge):
		return KindTooLarge
	case errors.Is(err, ErrParseFailure):
		return KindParseFailure
	case errors.Is(err, ErrComponentNotFound):
		return KindComponentNotFound
	case errors.Is(err, ErrIO):
		return KindIO
	default:
		return KindUnknown
	}
}
