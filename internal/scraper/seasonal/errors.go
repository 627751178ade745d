package seasonal

import "errors"

var (
	// ErrNavigation means the listing page never loaded or never showed entries.
	ErrNavigation = errors.New("listing page unavailable")

	// ErrDetailTimeout means the detail panel never became visible.
	ErrDetailTimeout = errors.New("detail panel did not open")

	// ErrDetailUnreadable means the detail container could not be read at all.
	ErrDetailUnreadable = errors.New("detail container unreadable")

	// ErrInvalidRange is returned for a negative start or an end before start.
	ErrInvalidRange = errors.New("invalid index range")
)
