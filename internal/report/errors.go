package report

import (
	"errors"
	"fmt"
)

// Node kinds used in lookup errors.
const (
	KindFeature  = "feature"
	KindScenario = "scenario"
	KindStep     = "step"
)

var (
	// ErrNotFound is matched by every *NotFoundError.
	ErrNotFound = errors.New("node not found")
	// ErrParentNotFound is matched by every *ParentNotFoundError.
	ErrParentNotFound = errors.New("parent not found")
)

// NotFoundError is returned by the locator functions when no node has the
// requested id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ParentNotFoundError is returned by a handler whose event references a
// feature or scenario that has not been introduced in the context's tree.
type ParentNotFoundError struct {
	ContextID string
	Kind      string // kind of the missing parent
	ID        string
}

func (e *ParentNotFoundError) Error() string {
	return fmt.Sprintf("context %q: parent %s %q not found", e.ContextID, e.Kind, e.ID)
}

// Is reports whether target is ErrParentNotFound.
func (e *ParentNotFoundError) Is(target error) bool {
	return target == ErrParentNotFound
}

func parentNotFound(cid string, err error) error {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return &ParentNotFoundError{ContextID: cid, Kind: nf.Kind, ID: nf.ID}
	}
	return err
}
