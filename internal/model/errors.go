package model

import "errors"

// Common errors used across the application
var (
	// Game errors
	ErrGameNotFound         = errors.New("game not found")
	ErrGameAlreadyCompleted = errors.New("game is already completed")

	// Roster errors
	ErrPlayerNotInWaitlist = errors.New("player not found in waitlist")
	ErrPlayerNotInList     = errors.New("player not found in list")
	ErrInvalidRosterList   = errors.New("invalid roster list")

	// User errors
	ErrUserNotFound = errors.New("user not found")

	// Pass errors
	ErrPassNotFound    = errors.New("pass not found")
	ErrInvalidPassType = errors.New("invalid pass type")

	// City errors
	ErrCityNotFound = errors.New("city not found")
)
