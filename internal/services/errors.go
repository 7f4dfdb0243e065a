package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIO marks failures opening, reading or writing input and output resources.
	ErrIO = errors.New("io error")
	// ErrFormat marks malformed timestamps or subtitle structure.
	ErrFormat = errors.New("format error")
	// ErrSynthesis marks failures returned by the speech synthesis service.
	ErrSynthesis = errors.New("synthesis error")
	// ErrDecode marks synthesized audio whose duration cannot be determined.
	ErrDecode = errors.New("decode error")
	// ErrConfiguration marks invalid or incomplete run configuration.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes the failing operation and its
// context while tagging it with the provided marker for later classification.
// The marker should be one of the exported sentinel errors above.
func Wrap(marker error, operation, detail string, err error) error {
	msg := buildDetail(operation, detail)
	if marker == nil {
		marker = ErrIO
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, msg, err)
	}
	return fmt.Errorf("%w: %s", marker, msg)
}

// Kind returns the marker carried by err, or nil when err is untagged.
func Kind(err error) error {
	for _, marker := range []error{ErrFormat, ErrSynthesis, ErrDecode, ErrConfiguration, ErrIO} {
		if errors.Is(err, marker) {
			return marker
		}
	}
	return nil
}

func buildDetail(operation, detail string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if detail = strings.TrimSpace(detail); detail != "" {
		parts = append(parts, detail)
	}
	if len(parts) == 0 {
		return "run failure"
	}
	return strings.Join(parts, ": ")
}
