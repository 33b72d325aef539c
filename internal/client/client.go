package client

import (
	"context"
	"errors"
	"fmt"

	"recordweb/internal/model"
)

// ErrRequestFailed is the single failure kind of the record API: transport errors,
// non-2xx responses and undecodable bodies all match it with errors.Is.
var ErrRequestFailed = errors.New("request failed")

// Result is the envelope returned by create and update calls.
type Result struct {
	Record  model.Record
	Message string
}

// Client issues one HTTP call per operation against a record collection.
type Client interface {
	// List returns the collection in server order.
	List(ctx context.Context) ([]model.Record, error)

	// Get returns a single record by its ID.
	Get(ctx context.Context, id string) (model.Record, error)

	// Create posts rec and returns the stored record with the server message.
	Create(ctx context.Context, rec model.Record) (*Result, error)

	// Update replaces the record under id with rec.
	Update(ctx context.Context, id string, rec model.Record) (*Result, error)

	// Delete removes the record under id and returns the server message.
	Delete(ctx context.Context, id string) (string, error)

	// Ping checks that the collection endpoint answers.
	Ping(ctx context.Context) error
}

// RequestError describes a failed call. StatusCode is 0 when no response was received.
type RequestError struct {
	Method     string
	URL        string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("request failed: %s %s: status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("request failed: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// Is makes every RequestError match ErrRequestFailed.
func (e *RequestError) Is(target error) bool { return target == ErrRequestFailed }

// StatusCode returns the upstream status carried by err, or 0.
func StatusCode(err error) int {
	var re *RequestError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}
