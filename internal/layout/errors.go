package layout

import "errors"

var (
	// ErrTruncated indicates a record shorter than its fixed header or its
	// declared length.
	ErrTruncated = errors.New("layout: truncated record")

	// ErrCorrupt indicates a record whose fields contradict each other, such
	// as a negative length or a missing NUL terminator.
	ErrCorrupt = errors.New("layout: corrupt record")
)
