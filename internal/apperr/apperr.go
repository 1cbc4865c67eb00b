// Package apperr categorises the fatal errors a run can end with.
package apperr

import (
	"errors"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// Category names the stage that failed.
type Category string

const (
	CategoryLoad   Category = "load"
	CategoryParse  Category = "parse"
	CategoryConfig Category = "config"
)

// Error wraps an errbuilder error with the failing stage.
type Error struct {
	*errbuilder.ErrBuilder
	Category Category
}

func (e *Error) Error() string {
	if cause := e.ErrBuilder.Unwrap(); cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.ErrBuilder.Msg, cause)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.ErrBuilder.Msg)
}

func (e *Error) Unwrap() error {
	return e.ErrBuilder.Unwrap()
}

func newError(b *errbuilder.ErrBuilder, category Category, cause error) *Error {
	if cause != nil {
		b = b.WithCause(cause)
	}
	return &Error{ErrBuilder: b, Category: category}
}

// Load reports a calendar file that could not be read.
func Load(path string, cause error) *Error {
	return newError(errbuilder.New().
		WithCode(errbuilder.CodeUnavailable).
		WithMsg("cannot read calendar file "+path), CategoryLoad, cause)
}

// Parse reports calendar content the ICS parser rejected.
func Parse(path string, cause error) *Error {
	return newError(errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("malformed calendar "+path), CategoryParse, cause)
}

// Config reports an unusable configuration value.
func Config(msg string, cause error) *Error {
	return newError(errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(msg), CategoryConfig, cause)
}

// CategoryOf returns the category of err, or "" if err is not an *Error.
func CategoryOf(err error) Category {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return ""
}
