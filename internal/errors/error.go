package errors

import (
	"errors"
)

var (
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrProductNotFound    = errors.New("product not found")
	ErrKeyNotFound        = errors.New("key not found")
	ErrSessionInvalid     = errors.New("invalid session token")
)
