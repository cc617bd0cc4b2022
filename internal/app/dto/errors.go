package dto

import "errors"

// Editor errors
var (
	ErrConnectionRejected = errors.New("connection rejected")
	ErrNothingSelected    = errors.New("no node selected")
)
