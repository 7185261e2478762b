package models

import "errors"

var (
	// ErrDuplicate is returned when the remote service rejects a create because the entity
	// (label name, initiative link) already exists
	ErrDuplicate = errors.New("entity already exists")

	// ErrNotFound is returned when a referenced entity does not resolve
	ErrNotFound = errors.New("entity not found")
)
