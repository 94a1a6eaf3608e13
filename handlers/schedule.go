package handlers

import (
	"net/http"

	"slotbook/models"
	"slotbook/services/schedule"
	"slotbook/utils"

	"github.com/gin-gonic/gin"
)

type ScheduleHandler struct {
	ScheduleService schedule.ScheduleService
}

func NewScheduleHandler(svc schedule.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{ScheduleService: svc}
}

type slotsResponse struct {
	Slots []string `json:"slots"`
}

// GetScheduleHandler handles GET /schedule/:id?date=YYYY-MM-DD.
func (h *ScheduleHandler) GetScheduleHandler(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, "missing 'date' query parameter", "")
		return
	}
	day, err := h.ScheduleService.GetSchedule(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

// SetDayOffHandler handles PUT /schedule/dayoff.
func (h *ScheduleHandler) SetDayOffHandler(c *gin.Context) {
	var req models.SetDayOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.ScheduleService.SetDayOff(c.Request.Context(), currentUserID(c), req.Date, req.IsDayOff); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// SetWeekdaySlotsHandler handles PUT /schedule/hours/weekday.
func (h *ScheduleHandler) SetWeekdaySlotsHandler(c *gin.Context) {
	var req models.SetWeekdaySlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	slots, err := h.ScheduleService.SetWeekdaySlots(c.Request.Context(), currentUserID(c), req.DayOfWeek, req.Slots)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slotsResponse{Slots: slots})
}

// SetDateSlotsHandler handles PUT /schedule/hours/date.
func (h *ScheduleHandler) SetDateSlotsHandler(c *gin.Context) {
	var req models.SetDateSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	slots, err := h.ScheduleService.SetDateSlots(c.Request.Context(), currentUserID(c), req.Date, req.Slots)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slotsResponse{Slots: slots})
}

// DeleteDateSlotsHandler handles DELETE /schedule/hours/date?date=YYYY-MM-DD.
func (h *ScheduleHandler) DeleteDateSlotsHandler(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, "missing 'date' query parameter", "")
		return
	}
	if err := h.ScheduleService.DeleteDateSlots(c.Request.Context(), currentUserID(c), date); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
