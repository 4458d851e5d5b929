package treeview

import (
	"errors"
	"fmt"
)

// Configuration errors. Options that fail validation are rejected and the view
// keeps its last valid options.
var (
	ErrInvalidWrap      = errors.New("treeview: invalid wrap argument")
	ErrInvalidIncrement = errors.New("treeview: invalid scroll increment")
	ErrInvalidItemSize  = errors.New("treeview: invalid item size")
	ErrInvalidOption    = errors.New("treeview: invalid option")
)

// ErrConsistency is matched by every *ConsistencyError.
var ErrConsistency = errors.New("treeview: layout consistency violation")

// ErrDestroyed is returned by a render pass that was aborted because the view
// was destroyed.
var ErrDestroyed = errors.New("treeview: view destroyed")

// ConsistencyError reports a broken layout invariant, for example a display
// entry that refers to a range item which no longer exists. It is raised with
// panic inside the pipeline and recovered at the end of the render pass.
type ConsistencyError struct {
	Op   string
	Item ItemID
	Msg  string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("treeview: %s: item %d: %s", e.Op, e.Item, e.Msg)
}

// Is makes errors.Is(err, ErrConsistency) true.
func (e *ConsistencyError) Is(target error) bool {
	return target == ErrConsistency
}

func consistencyPanic(op string, item ItemID, format string, args ...any) {
	panic(&ConsistencyError{Op: op, Item: item, Msg: fmt.Sprintf(format, args...)})
}

// DrawError wraps an error returned by an item draw callback. The item stays
// dirty and is drawn again on the next pass.
type DrawError struct {
	Item ItemID
	Err  error
}

func (e *DrawError) Error() string {
	return fmt.Sprintf("treeview: draw item %d: %v", e.Item, e.Err)
}

func (e *DrawError) Unwrap() error {
	return e.Err
}
