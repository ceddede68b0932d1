package chat

import "errors"

var (
	ErrThreadNotFound    = errors.New("thread not found")
	ErrThreadUnavailable = errors.New("thread is not available until staff is assigned")
	ErrEmptyMessage      = errors.New("message text is required")
	ErrForbidden         = errors.New("access denied")
)
