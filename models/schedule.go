package models

import "time"

// DayOff marks one date as non-working for a master.
type DayOff struct {
	MasterID  string    `bson:"masterId" json:"master_id"`
	Date      string    `bson:"date" json:"date"`
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
}

// WeekdayTemplate is a master's recurring slot set for one weekday.
type WeekdayTemplate struct {
	MasterID  string    `bson:"masterId" json:"master_id"`
	DayOfWeek string    `bson:"dayOfWeek" json:"day_of_week"` // "monday".."sunday"
	Slots     []string  `bson:"slots" json:"slots"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updated_at"`
}

// DateOverride replaces the weekday template for one date. An empty Slots list is a real override.
type DateOverride struct {
	MasterID  string    `bson:"masterId" json:"master_id"`
	Date      string    `bson:"date" json:"date"`
	Slots     []string  `bson:"slots" json:"slots"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updated_at"`
}

// DaySchedule is the resolved view returned by GET /schedule/{id}.
type DaySchedule struct {
	MasterID string   `json:"master_id"`
	Date     string   `json:"date"`
	IsDayOff bool     `json:"is_day_off"`
	Slots    []string `json:"slots"`
	Booked   []string `json:"booked"`
}

// SetDayOffRequest is the body of PUT /schedule/dayoff.
type SetDayOffRequest struct {
	Date     string `json:"date" binding:"required,isodate"`
	IsDayOff bool   `json:"is_day_off"`
}

// SetWeekdaySlotsRequest is the body of PUT /schedule/hours/weekday.
type SetWeekdaySlotsRequest struct {
	DayOfWeek string   `json:"day_of_week" binding:"required"`
	Slots     []string `json:"slots" binding:"dive,hhmm"`
}

// SetDateSlotsRequest is the body of PUT /schedule/hours/date.
type SetDateSlotsRequest struct {
	Date  string   `json:"date" binding:"required,isodate"`
	Slots []string `json:"slots" binding:"dive,hhmm"`
}
