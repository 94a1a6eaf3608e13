package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"slotbook/models"
	"slotbook/services/availability"
	"slotbook/services/booking"
	"slotbook/services/review"
	"slotbook/services/schedule"
	"slotbook/services/user"
	"slotbook/services/verification"
	"slotbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

func TestRespondError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"bad credentials", user.ErrInvalidCredentials, http.StatusUnauthorized},
		{"bad code", verification.ErrInvalidCode, http.StatusUnauthorized},
		{"slot validation", availability.ValidationError{Msg: "invalid slot"}, http.StatusBadRequest},
		{"field validation", user.ValidationError{Field: "username", Msg: "too short"}, http.StatusBadRequest},
		{"past time", booking.ErrPastTime, http.StatusBadRequest},
		{"not a master", schedule.ErrNotMaster, http.StatusForbidden},
		{"no past visit", review.ErrNoPastAppointments, http.StatusForbidden},
		{"unknown master", schedule.ErrMasterNotFound, http.StatusNotFound},
		{"slot taken", booking.ErrSlotTaken, http.StatusConflict},
		{"wrapped conflict", fmt.Errorf("book: %w", booking.ErrMasterUnavailable), http.StatusConflict},
		{"unmapped", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, tc.err)

			assert.Equal(t, tc.status, w.Code)
			var body utils.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestRespondErrorHidesInternalDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondError(c, errors.New("mongo: connection refused"))

	assert.NotContains(t, w.Body.String(), "mongo")
}

func TestRegisterValidators(t *testing.T) {
	RegisterValidators()
	RegisterValidators()

	assert.NoError(t, binding.Validator.ValidateStruct(models.SetDateSlotsRequest{
		Date: "2030-06-03", Slots: []string{"09:00", "23:30"},
	}))
	assert.Error(t, binding.Validator.ValidateStruct(models.SetDateSlotsRequest{
		Date: "2030-06-03", Slots: []string{"9:00"},
	}))
	assert.Error(t, binding.Validator.ValidateStruct(models.SetDayOffRequest{Date: "2030-02-30"}))
}
