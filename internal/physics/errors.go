package physics

import "errors"

// ErrInvalidConfig marks a precondition violation in solver configuration.
var ErrInvalidConfig = errors.New("physics: invalid configuration")
