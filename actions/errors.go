package actions

import (
	"errors"
	"fmt"
)

// ErrDuplicateActionType is matched by every DuplicateActionTypeError.
var ErrDuplicateActionType = errors.New("duplicate action type")

// DuplicateActionTypeError reports a second registration of a fully-qualified type.
type DuplicateActionTypeError struct {
	Type string
}

func (e *DuplicateActionTypeError) Error() string {
	return fmt.Sprintf("%v: %s", ErrDuplicateActionType, e.Type)
}

func (e *DuplicateActionTypeError) Is(target error) bool {
	return target == ErrDuplicateActionType
}
