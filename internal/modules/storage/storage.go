package storage

import (
	"context"
	"errors"
	"time"
)

// Storage is an object store that can hand out time-limited GET URLs.
type Storage interface {
	PutObject(ctx context.Context, key string, body []byte, contentType string) error
	PresignURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// Upload errors are wrapped with one of these so callers can tell why a
// put failed without knowing the backend.
var (
	ErrAuth = errors.New("storage authentication failed")
	ErrHTTP = errors.New("storage request failed")
)

// Reason names the class of an upload error for logging.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrAuth):
		return "auth"
	case errors.Is(err, ErrHTTP):
		return "http"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "other"
	}
}
