package domain

import "errors"

// ErrBusy is returned when a submission arrives while an exchange is in flight.
var ErrBusy = errors.New("an exchange is already in flight")

// ErrEmptyPrompt is returned when the submitted text is empty after trimming.
var ErrEmptyPrompt = errors.New("prompt is empty")

// ErrOutOfOrder is returned when an exchange would break the history ordering.
var ErrOutOfOrder = errors.New("exchange out of order")

// ErrUnknownProvider is returned when no agent provider matches the requested name.
var ErrUnknownProvider = errors.New("unknown provider")
