package core

import (
	"errors"
)

var (
	ErrNotFound = errors.New("resource not found")
	ErrUnknown  = errors.New("unknown")
)
