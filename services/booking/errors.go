package booking

import (
	"errors"

	appointmentRepo "slotbook/database/repository/appointment"
)

var (
	ErrSelfBooking       = errors.New("cannot book an appointment with yourself")
	ErrNotAMaster        = errors.New("target user is not a master")
	ErrPastTime          = errors.New("appointment time must be in the future")
	ErrMasterUnavailable = errors.New("master is not available at this time")
	ErrNotParty          = errors.New("only the client or the master can cancel this appointment")
	ErrNotFound          = appointmentRepo.ErrNotFound
	ErrSlotTaken         = appointmentRepo.ErrSlotTaken
	ErrAlreadyCancelled  = errors.New("appointment is already cancelled")
)
