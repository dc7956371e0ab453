package domain

import "errors"

var (
	// ErrNotFound indicates resource not found
	ErrNotFound = errors.New("resource not found")
	// ErrUnauthorized indicates unauthorized access
	ErrUnauthorized = errors.New("unauthorized")
	// ErrIndexNotReady indicates the index did not reach the expected state in time
	ErrIndexNotReady = errors.New("index not ready")
	// ErrEmptyCompletion indicates the model returned no choices
	ErrEmptyCompletion = errors.New("model returned no choices")
)
