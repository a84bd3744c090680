package service

import "errors"

var (
	ErrUserExists         = errors.New("user with this phone number already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid phone number or password")
	ErrSelfRequest        = errors.New("cannot send a connection request to yourself")
	ErrRequestExists      = errors.New("a connection request is already pending")
	ErrAlreadyConnected   = errors.New("users are already connected")
	ErrNoPendingRequest   = errors.New("no pending connection request between these users")
	ErrNoDeviceToken      = errors.New("user has no registered device token")
	ErrInternal           = errors.New("internal server error")

	// ErrPartialWrite marks a two-document relation transition where the
	// first write committed, the second failed, and the compensating undo
	// also failed. The pair is left inconsistent.
	ErrPartialWrite = errors.New("relation update partially applied")
)
