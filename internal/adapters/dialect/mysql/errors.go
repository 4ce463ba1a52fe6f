package mysql

import "errors"

var (
	ErrIndexNotFound   = errors.New("index not found")
	ErrPrimaryKeyIndex = errors.New("the primary key index cannot be renamed")
	ErrServerVersion   = errors.New("cannot determine server version")
)
