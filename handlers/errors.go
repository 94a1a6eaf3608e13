package handlers

import (
	"errors"
	"net/http"

	appointmentRepo "slotbook/database/repository/appointment"
	userRepo "slotbook/database/repository/user"
	"slotbook/services/availability"
	"slotbook/services/booking"
	"slotbook/services/media"
	"slotbook/services/review"
	"slotbook/services/schedule"
	"slotbook/services/user"
	"slotbook/services/verification"
	"slotbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type errorStatus struct {
	err    error
	status int
}

// errorStatuses maps service errors to HTTP statuses. The first match wins.
var errorStatuses = []errorStatus{
	{user.ErrInvalidCredentials, http.StatusUnauthorized},
	{verification.ErrInvalidCode, http.StatusUnauthorized},

	{booking.ErrNotAMaster, http.StatusBadRequest},
	{booking.ErrSelfBooking, http.StatusBadRequest},
	{booking.ErrPastTime, http.StatusBadRequest},
	{review.ErrInvalidRating, http.StatusBadRequest},
	{review.ErrCommentTooLong, http.StatusBadRequest},
	{review.ErrSelfReview, http.StatusBadRequest},
	{media.ErrInvalidImage, http.StatusBadRequest},

	{schedule.ErrNotMaster, http.StatusForbidden},
	{media.ErrNotMaster, http.StatusForbidden},
	{user.ErrNotMaster, http.StatusForbidden},
	{booking.ErrNotParty, http.StatusForbidden},
	{review.ErrNoPastAppointments, http.StatusForbidden},
	{review.ErrNotAuthor, http.StatusForbidden},

	{schedule.ErrMasterNotFound, http.StatusNotFound},
	{user.ErrMasterNotFound, http.StatusNotFound},
	{review.ErrMasterNotFound, http.StatusNotFound},
	{review.ErrReviewNotFound, http.StatusNotFound},
	{media.ErrNoAvatar, http.StatusNotFound},
	{media.ErrWorkNotFound, http.StatusNotFound},
	{appointmentRepo.ErrNotFound, http.StatusNotFound},
	{userRepo.ErrNotFound, http.StatusNotFound},

	{userRepo.ErrDuplicate, http.StatusConflict},
	{booking.ErrSlotTaken, http.StatusConflict},
	{booking.ErrMasterUnavailable, http.StatusConflict},
	{booking.ErrAlreadyCancelled, http.StatusConflict},
}

// respondError writes the status and message that match err.
func respondError(c *gin.Context, err error) {
	var slotErr availability.ValidationError
	if errors.As(err, &slotErr) {
		utils.JSONError(c, http.StatusBadRequest, slotErr.Msg, "")
		return
	}
	var fieldErr user.ValidationError
	if errors.As(err, &fieldErr) {
		utils.JSONError(c, http.StatusBadRequest, fieldErr.Error(), fieldErr.Field)
		return
	}
	for _, m := range errorStatuses {
		if errors.Is(err, m.err) {
			utils.JSONError(c, m.status, m.err.Error(), "")
			return
		}
	}
	getLogger(c).Error("Unhandled service error", zap.Error(err))
	utils.JSONError(c, http.StatusInternalServerError, "Internal server error", "")
}

func badRequest(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
}
