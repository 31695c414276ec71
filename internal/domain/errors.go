package domain

import "errors"

// Validation errors surfaced to API callers as 400 Bad Request.
var (
	ErrEmptyName        = errors.New("name must not be empty")
	ErrInvalidHost      = errors.New("host is not a valid address or hostname")
	ErrEmptyCredentials = errors.New("username and password must not be empty")
	ErrEmptyRoomIDs     = errors.New("room_ids must not be empty")
	ErrEmptyPlugIDs     = errors.New("plug_ids must not be empty")
	ErrEmptyDays        = errors.New("days must not be empty")
	ErrEmptyWindows     = errors.New("time windows must not be empty")
	ErrEmptyTemps       = errors.New("at least one price level temperature must be set")
	ErrInvalidWindow    = errors.New("window 'from' must be before 'to'")
	ErrOverlappingWindow = errors.New("schedule has overlapping time windows")
	ErrInvalidTempAction = errors.New("starts_at must be before or equal to expires_at")
	ErrExpiredTempAction = errors.New("expires_at must be in the future")
)
