package combine

import (
	"errors"
	"fmt"
)

var (
	// ErrNotRegularFile is reported for discovered paths that do not resolve to a regular file.
	ErrNotRegularFile = errors.New("not a regular file")
	// ErrNotUTF8 is reported for files whose content is not valid UTF-8 text.
	ErrNotUTF8 = errors.New("content is not valid UTF-8")
)

// OutputError is returned when the output artifact cannot be created or
// appended to. It aborts the run.
type OutputError struct {
	Op   string // "create" or "append"
	Path string
	Err  error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("output %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *OutputError) Unwrap() error { return e.Err }
