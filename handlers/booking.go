package handlers

import (
	"net/http"

	"slotbook/models"
	"slotbook/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	BookingService booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{BookingService: svc}
}

// CreateAppointmentHandler handles POST /appointments.
func (h *BookingHandler) CreateAppointmentHandler(c *gin.Context) {
	var req models.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	appt, err := h.BookingService.Book(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("Appointment booked",
		zap.String("appointmentID", appt.ID), zap.String("masterID", appt.MasterID))
	c.JSON(http.StatusCreated, models.CreateAppointmentResponse{ID: appt.ID})
}

// ListAppointmentsHandler handles GET /appointments for the caller as client or master.
func (h *BookingHandler) ListAppointmentsHandler(c *gin.Context) {
	var filter models.AppointmentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, err)
		return
	}
	appts, err := h.BookingService.List(c.Request.Context(), currentUserID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appts)
}

// CancelAppointmentHandler handles DELETE /appointments/:id.
func (h *BookingHandler) CancelAppointmentHandler(c *gin.Context) {
	if _, err := h.BookingService.Cancel(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
