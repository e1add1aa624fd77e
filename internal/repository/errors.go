package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// unique constraint violated
	ErrDuplicate = errors.New("duplicate")
	// parent row still referenced by a RESTRICT foreign key
	ErrReferenced = errors.New("referenced by other rows")
)
