// Package repository contains data access logic separated from HTTP
// handlers.  Sentinel values defined here let handlers distinguish
// failure scenarios without inspecting driver errors: ErrConflict
// signals an operation blocked by dependent records (e.g. deleting a
// room that still has active reservations), the *Exists values signal
// unique-key violations.  Not-found conditions for rooms and
// reservations use the booking package's sentinels, since the
// repositories implement its store contracts.
package repository

import "errors"

// ErrConflict is returned when a delete cannot proceed because of
// conflicting state.  Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrRoomNumberExists is returned when creating or renumbering a room
// would duplicate an existing room number.
var ErrRoomNumberExists = errors.New("room number already exists")

// ErrUsernameExists is returned when creating a user with a taken
// username.
var ErrUsernameExists = errors.New("username already exists")

// ErrUserNotFound is returned when a referenced user does not exist.
var ErrUserNotFound = errors.New("user not found")
