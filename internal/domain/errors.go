package domain

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrGenerationNotFound  = errors.New("generation not found")
	ErrWarningNotFound     = errors.New("warning not found")
	ErrDeviceBlockNotFound = errors.New("device block not found")
	ErrSessionNotFound     = errors.New("session not found")

	ErrDuplicateEmail        = errors.New("email already in use")
	ErrDuplicateUsername     = errors.New("username already in use")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrConsoleForbidden      = errors.New("account has no console access")
	ErrAccountSuspended      = errors.New("account is suspended")
	ErrAccountBanned         = errors.New("account is banned")
	ErrDeviceBlocked         = errors.New("device is blocked")
	ErrInsufficientCredits   = errors.New("adjustment would make balance negative")
	ErrLastAdmin             = errors.New("cannot remove the last admin")
	ErrInvalidCursor         = errors.New("invalid pagination cursor")
	ErrLoginThrottled        = errors.New("too many login attempts")
	ErrInvalidScore          = errors.New("score must be between 0 and 100")
	ErrSelfModeration        = errors.New("cannot apply this action to your own account")
)
