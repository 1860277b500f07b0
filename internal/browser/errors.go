package browser

import "errors"

// ErrClosed is returned when a closed [Session] is used.
var ErrClosed = errors.New("browser: session is closed")
