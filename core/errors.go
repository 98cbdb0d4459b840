package core

import (
	"errors"

	"github.com/huangsam/gamerank/core/source"
)

// Structural errors. Each one aborts the affected list only.
var (
	ErrListNotFound  = source.ErrListNotFound
	ErrMissingColumn = source.ErrMissingColumn
	ErrNoSources     = errors.New("no sources selected")
	ErrBatchFailed   = errors.New("one or more lists failed")
)
