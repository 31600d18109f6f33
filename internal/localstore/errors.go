package localstore

import (
	"errors"
)

var (
	ErrRecordNotFound = errors.New("catalog record not found")
	ErrInvalidKind    = errors.New("unknown entity kind")
	ErrInvalidColumn  = errors.New("column not updatable")
)
