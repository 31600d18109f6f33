package remotestore

import (
	"errors"
)

var (
	ErrRemoteUnavailable = errors.New("shared team store is unavailable")
	ErrRemoteGeneric     = errors.New("shared team store error occurred while processing request")
	ErrInvalidKind       = errors.New("unknown entity kind")
)
