package services

import "errors"

// Sentinel errors for expected, caller-recoverable outcomes. The API layer
// maps these onto transport status codes; none of them is a server fault and
// none should be logged as one.
var (
	ErrNotFound     = errors.New("record not found")
	ErrForbidden    = errors.New("requester is not the author")
	ErrValidation   = errors.New("validation failed")
	ErrAlreadyLiked = errors.New("post already liked")
	ErrNotLiked     = errors.New("post not liked")
)
