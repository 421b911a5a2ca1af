package service

import "errors"

// Sentinel errors mapped to HTTP statuses by the handlers
var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrPlanLimitReached = errors.New("plan limit reached")
	ErrEmailTaken       = errors.New("email already registered")
	ErrInvalidInput     = errors.New("invalid input")
)
