package domain

import (
	"context"
	"errors"
	"net"
)

var (
	// ErrValidation signals a missing or empty required request field.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrImageSearchUnavailable signals a live image search failure.
	ErrImageSearchUnavailable = errors.New("image search unavailable")
)

// IsTimeout reports whether err is a deadline or network timeout, the only
// failure class the live fetch retries.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
