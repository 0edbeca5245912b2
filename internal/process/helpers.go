package process

import "errors"

// ErrEmptyCommand is returned when a spec carries no executable.
var ErrEmptyCommand = errors.New("command is empty")
