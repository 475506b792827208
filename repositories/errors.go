package repositories

import (
  "errors"
  "fmt"
)

var (
  ErrForbidden = errors.New("forbidden")
  ErrConflict  = errors.New("conflict")
)

type NotFoundError struct {
  Kind string
}

func (e *NotFoundError) Error() string {
  return fmt.Sprintf("%s not found", e.Kind)
}

type ValidationError struct {
  Message string
}

func (e *ValidationError) Error() string {
  return e.Message
}

type SigningError struct {
  Err error
}

func (e *SigningError) Error() string {
  return fmt.Sprintf("storage signing failed: %v", e.Err)
}

func (e *SigningError) Unwrap() error {
  return e.Err
}
