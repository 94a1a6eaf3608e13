package models

import "time"

// Appointment lifecycle: none -> active -> cancelled.
const (
	AppointmentActive    = "active"
	AppointmentCancelled = "cancelled"
)

// AppointmentTimeLayout is the wire format of a booked time ("2025-06-02 09:00").
const AppointmentTimeLayout = "2006-01-02 15:04"

// Appointment is a client's booking of one master slot.
type Appointment struct {
	ID          string     `bson:"id" json:"id"`
	ClientID    string     `bson:"clientId" json:"user_id"`
	MasterID    string     `bson:"masterId" json:"master_id"`
	Date        string     `bson:"date" json:"date"` // "YYYY-MM-DD"
	Time        string     `bson:"time" json:"time"` // "HH:MM"
	ScheduledAt time.Time  `bson:"scheduledAt" json:"scheduled_at"`
	Status      string     `bson:"status" json:"status"`
	CreatedAt   time.Time  `bson:"createdAt" json:"created_at"`
	CancelledAt *time.Time `bson:"cancelledAt,omitempty" json:"cancelled_at,omitempty"`
	CancelledBy string     `bson:"cancelledBy,omitempty" json:"cancelled_by,omitempty"`
}

// IsActive reports whether the appointment still occupies its slot.
func (a *Appointment) IsActive() bool {
	return a.Status == AppointmentActive
}

// CreateAppointmentRequest is the body of POST /appointments.
type CreateAppointmentRequest struct {
	MasterID string `json:"master_id" binding:"required"`
	Time     string `json:"time" binding:"required"` // AppointmentTimeLayout
}

// CreateAppointmentResponse is returned with 201.
type CreateAppointmentResponse struct {
	ID string `json:"id"`
}

// AppointmentFilter narrows GET /appointments.
type AppointmentFilter struct {
	Date   string `form:"date"`
	Status string `form:"status"`
}
