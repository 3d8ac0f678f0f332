package service

import "errors"

// ErrNotOwner is returned when an entity exists but belongs to another user.
// Handlers map it to 403 rather than leaking existence through a 404.
var ErrNotOwner = errors.New("unauthorized: entity does not belong to user")
