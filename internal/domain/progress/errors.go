package progress

import "errors"

var (
	ErrInvalidAmount   = errors.New("invalid amount: must be greater than zero")
	ErrUnknownCategory = errors.New("unknown category")
	ErrNegativeField   = errors.New("progress fields cannot be negative")
	ErrDecreasingField = errors.New("progress fields cannot decrease")
	ErrMissingUserID   = errors.New("user id is required")
)
