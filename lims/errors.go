package lims

import (
	"errors"
	"fmt"
)

// NotFoundError is returned when a resource does not exist remotely.
type NotFoundError struct {
	URI string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.URI)
}

// ParseError is returned when a resource body is malformed XML or lacks the
// structure the entity model expects.
type ParseError struct {
	URI string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse resource %s: %v", e.URI, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// RemoteUpdateError is returned when the remote system rejects a save. It
// carries the HTTP status and response body so callers can inspect or retry.
type RemoteUpdateError struct {
	URI    string
	Status int
	Body   string
}

func (e *RemoteUpdateError) Error() string {
	return fmt.Sprintf("update of %s rejected with status %d: %s", e.URI, e.Status, e.Body)
}

// EmptyResultError is returned when a query expected to yield exactly one
// match yielded none.
type EmptyResultError struct {
	What string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("no item found for %s", e.What)
}

// AmbiguousResultError is returned when a query expected to yield exactly
// one match yielded several. The caller decides; nothing is picked silently.
type AmbiguousResultError struct {
	What  string
	Count int
}

func (e *AmbiguousResultError) Error() string {
	return fmt.Sprintf("%d items found for %s", e.Count, e.What)
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// IsParseError returns true if the error is a ParseError.
func IsParseError(err error) bool {
	var e *ParseError
	return errors.As(err, &e)
}

// IsRemoteUpdate returns true if the error is a RemoteUpdateError.
func IsRemoteUpdate(err error) bool {
	var e *RemoteUpdateError
	return errors.As(err, &e)
}

// IsEmptyResult returns true if the error is an EmptyResultError.
func IsEmptyResult(err error) bool {
	var e *EmptyResultError
	return errors.As(err, &e)
}

// IsAmbiguousResult returns true if the error is an AmbiguousResultError.
func IsAmbiguousResult(err error) bool {
	var e *AmbiguousResultError
	return errors.As(err, &e)
}
