package topology

import "errors"

// Error definitions for the topology package.
var (
	ErrNotFound  = errors.New("topology not found")
	ErrParse     = errors.New("topology is not valid JSON")
	ErrWrite     = errors.New("topology could not be written")
	ErrDuplicate = errors.New("topology id is already loaded")
)
