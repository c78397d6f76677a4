package services

import (
  "errors"
)

// ErrValidation marks client input errors. Handlers map anything wrapping it to
// a 400; every other service error is a store failure and maps to a 500.
var ErrValidation = errors.New("validation error")
