package platform

import (
	"errors"
	"fmt"
)

// Sentinel errors for channel failures.
var (
	// ErrUnsupported is returned when the host lacks a capability.
	ErrUnsupported = errors.New("platform: capability unsupported")

	// ErrPlaybackRejected is a transient refusal to start playback.
	ErrPlaybackRejected = errors.New("platform: playback rejected")

	// ErrResourceNotFound means a referenced sound never loads. It is permanent.
	ErrResourceNotFound = errors.New("platform: resource not found")
)

// ChannelError wraps an error with the channel and key it came from.
type ChannelError struct {
	Channel string
	Key     string
	Err     error
}

// Error implements the error interface.
func (e *ChannelError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s [%s]: %v", e.Channel, e.Key, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Channel, e.Err)
}

// Unwrap returns the underlying error.
func (e *ChannelError) Unwrap() error {
	return e.Err
}

// Wrap attaches channel context to err. A nil err stays nil.
func Wrap(channel, key string, err error) error {
	if err == nil {
		return nil
	}
	return &ChannelError{Channel: channel, Key: key, Err: err}
}

// IsTransient reports whether a retry on a later tick may succeed.
func IsTransient(err error) bool {
	return err != nil && !errors.Is(err, ErrResourceNotFound) && !errors.Is(err, ErrUnsupported)
}
