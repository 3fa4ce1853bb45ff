package component

import "errors"

var (
	ErrComponentNotFound        = errors.New("salary component not found")
	ErrComponentCodeExists      = errors.New("salary component code already exists")
	ErrInvalidComponentType     = errors.New("invalid component type")
	ErrInvalidCalculationType   = errors.New("invalid calculation type")
	ErrComponentAlreadyInactive = errors.New("salary component already inactive")
)
