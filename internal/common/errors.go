package common

import goerrors "github.com/go-errors/errors"

// ErrBadVerbosity is returned by NewLogger for an out-of-range verbosity.
var ErrBadVerbosity = goerrors.Errorf("verbosity must be in [-1, 2]")
