package domain

import "errors"

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidStatus   = errors.New("invalid project status")
	ErrNameRequired    = errors.New("project name required")
)
