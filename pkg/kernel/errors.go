package kernel

import "fmt"

// GeometryError reports a construction or boolean failure in the kernel,
// typically degenerate input such as a non-positive dimension or a polygon
// with too few vertices. Construction is deterministic, so retrying the same
// call cannot succeed.
type GeometryError struct {
	Op  string // kernel operation, e.g. "box"
	Err error
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("geometry: %s: %v", e.Op, e.Err)
}

func (e *GeometryError) Unwrap() error {
	return e.Err
}

// NewGeometryError builds a *GeometryError with a formatted cause.
func NewGeometryError(op, format string, args ...any) *GeometryError {
	return &GeometryError{Op: op, Err: fmt.Errorf(format, args...)}
}
