package core

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrNotFound = errors.New("bodensee: not found")

var ErrInvalidPattern = errors.New("bodensee: invalid route pattern")

// SerializationError reports a handler value the serializer cannot encode.
type SerializationError struct {
	Value any
	Err   error
}

func (e *SerializationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bodensee: cannot serialize %T: %v", e.Value, e.Err)
	}
	return fmt.Sprintf("bodensee: cannot serialize %T", e.Value)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsSerializationError(err error) bool {
	var serr *SerializationError
	return errors.As(err, &serr)
}

// StatusFor maps a dispatch error to the HTTP status the host should send.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsNotFoundError(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
