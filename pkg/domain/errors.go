package domain

import "errors"

// ErrMalformedScript is returned when a script fails structural validation.
// The wrapped error is a *schema.AggregateError listing every problem found.
var ErrMalformedScript = errors.New("malformed script")

// ErrEmptyScript is returned by the parser when the input holds no script document at all.
var ErrEmptyScript = errors.New("empty script")
