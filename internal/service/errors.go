// Package service contains the business logic for the fertilizer service.
package service

import (
	"errors"
	"fmt"
)

// Error kinds. Use errors.Is against these; a *Error unwraps to its kind.
var (
	ErrUnsupportedCrop     = errors.New("unsupported crop")
	ErrInvalidInput        = errors.New("invalid input")
	ErrTooManyCrops        = errors.New("too many crops")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrCropNotTracked      = errors.New("crop not tracked")
	ErrChatUnavailable     = errors.New("chat unavailable")
)

// Machine-readable codes for each kind.
const (
	KindUnsupportedCrop     = "unsupported_crop"
	KindInvalidInput        = "invalid_input"
	KindTooManyCrops        = "too_many_crops"
	KindUpstreamUnavailable = "upstream_unavailable"
	KindCropNotTracked      = "crop_not_tracked"
	KindChatUnavailable     = "chat_unavailable"
	KindInternal            = "internal_error"
)

// Error is a domain failure with a machine-checkable kind and a readable
// message.
type Error struct {
	Kind    error
	Crop    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes both the kind and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// KindOf returns the code for the first known kind in err's chain.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedCrop):
		return KindUnsupportedCrop
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrTooManyCrops):
		return KindTooManyCrops
	case errors.Is(err, ErrUpstreamUnavailable):
		return KindUpstreamUnavailable
	case errors.Is(err, ErrCropNotTracked):
		return KindCropNotTracked
	case errors.Is(err, ErrChatUnavailable):
		return KindChatUnavailable
	default:
		return KindInternal
	}
}

func unsupportedCropError(crop string) *Error {
	return &Error{Kind: ErrUnsupportedCrop, Crop: crop, Message: "unsupported crop: " + crop}
}

func invalidInputError(format string, args ...any) *Error {
	return &Error{Kind: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func tooManyCropsError(n, limit int) *Error {
	return &Error{Kind: ErrTooManyCrops, Message: fmt.Sprintf("%d crops requested, at most %d allowed", n, limit)}
}

func upstreamUnavailableError(crop string, cause error) *Error {
	return &Error{Kind: ErrUpstreamUnavailable, Crop: crop, Message: "prescription unavailable for " + crop, Err: cause}
}

func cropNotTrackedError(crop string) *Error {
	return &Error{Kind: ErrCropNotTracked, Crop: crop, Message: "crop is not tracked: " + crop}
}

func chatUnavailableError(cause error) *Error {
	return &Error{Kind: ErrChatUnavailable, Message: "chat assistant is unavailable", Err: cause}
}
