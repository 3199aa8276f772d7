package domain

import "errors"

var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrMissingSourceImage = errors.New("project is missing a source image")
)
