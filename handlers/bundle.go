package handlers

import (
	userRepo "slotbook/database/repository/user"
	"slotbook/services/session"
)

// HandlerBundle groups the endpoint handlers and what the auth middleware needs.
type HandlerBundle struct {
	UserRepo userRepo.UserRepository
	Sessions session.Store

	User     *UserHandler
	Schedule *ScheduleHandler
	Booking  *BookingHandler
	Review   *ReviewHandler
	Media    *MediaHandler
}
