package store

import "errors"

// ErrFolderNotFound is returned when a write references a folder the caller
// does not own.
var ErrFolderNotFound = errors.New("folder not found")

// ErrEmailTaken is returned by UserStore.Create for a duplicate email.
var ErrEmailTaken = errors.New("email already registered")
