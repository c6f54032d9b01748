package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and the backend API client
// return these (optionally wrapped) so services can translate them into domain
// errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist (store miss, backend 404)
// - ErrExpired: session or token has expired
// - ErrInvalidState: entity in wrong state for requested operation
// - ErrUnavailable: backend or resource temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrExpired      = errors.New("expired")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
