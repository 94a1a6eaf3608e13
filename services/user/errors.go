package user

import (
	"errors"

	userRepo "slotbook/database/repository/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserExists         = userRepo.ErrDuplicate
	ErrUserNotFound       = userRepo.ErrNotFound
	ErrMasterNotFound     = errors.New("master not found")
	ErrNotMaster          = errors.New("only masters can use the bot")
)

// ValidationError reports a profile field that breaks a registration rule.
type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Msg
}
