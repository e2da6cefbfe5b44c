package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound        = errors.New("player not found")
	ErrInvalidName           = errors.New("player name is empty")
	ErrInvalidCountry        = errors.New("country is not supported")
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrUnknownBuilding       = errors.New("unknown building type")

	// Technology errors
	ErrTechNotFound        = errors.New("technology not found")
	ErrTechAlreadyOwned    = errors.New("technology already researched")
	ErrMissingPrerequisite = errors.New("missing prerequisite technology")

	// Room errors
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomFull     = errors.New("room is full")
	ErrNotInRoom    = errors.New("player is not in room")
)
