// Package availability combines a master's day-off flags, weekly template, date overrides and
// appointments into the set of slots offered on one calendar date.
package availability

import (
	"sort"

	"slotbook/models"
)

// DayInput carries everything needed to resolve one (master, date) pair.
type DayInput struct {
	MasterID string
	Date     string // "YYYY-MM-DD"
	DayOff   bool
	// Template holds the weekday's recurring slots; nil when the weekday has none.
	Template []string
	// Override is non-nil when a date override exists, including an empty one.
	Override     *[]string
	Appointments []models.Appointment
}

// Resolve computes the schedule for in.Date. It performs no I/O and does not validate slot
// strings; setters are responsible for keeping them in zero-padded "HH:MM" form.
func Resolve(in DayInput) models.DaySchedule {
	out := models.DaySchedule{
		MasterID: in.MasterID,
		Date:     in.Date,
		Slots:    []string{},
		Booked:   []string{},
	}
	if in.DayOff {
		out.IsDayOff = true
		return out
	}

	var source []string
	if in.Override != nil {
		source = *in.Override
	} else {
		source = in.Template
	}
	out.Slots = sortedUnique(source)
	out.Booked = bookedTimes(in.Date, in.Appointments)
	return out
}

// bookedTimes returns the times of active appointments on date, sorted. Times outside the slot
// list are kept.
func bookedTimes(date string, appointments []models.Appointment) []string {
	times := make([]string, 0, len(appointments))
	for _, a := range appointments {
		if !a.IsActive() || appointmentDate(a) != date {
			continue
		}
		times = append(times, appointmentTime(a))
	}
	return sortedUnique(times)
}

func appointmentDate(a models.Appointment) string {
	if a.Date != "" {
		return a.Date
	}
	return a.ScheduledAt.Format(DateLayout)
}

func appointmentTime(a models.Appointment) string {
	if a.Time != "" {
		return a.Time
	}
	return a.ScheduledAt.Format(SlotLayout)
}

func sortedUnique(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// SlotView is one offered slot with its bookability.
type SlotView struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// Views splits a resolved schedule into offered slots and anomalies: booked times that are no
// longer offered (for example after the template changed).
func Views(s models.DaySchedule) (slots []SlotView, anomalies []string) {
	booked := make(map[string]struct{}, len(s.Booked))
	for _, b := range s.Booked {
		booked[b] = struct{}{}
	}
	offered := make(map[string]struct{}, len(s.Slots))
	slots = make([]SlotView, 0, len(s.Slots))
	for _, t := range s.Slots {
		offered[t] = struct{}{}
		_, taken := booked[t]
		slots = append(slots, SlotView{Time: t, Available: !taken})
	}
	for _, b := range s.Booked {
		if _, ok := offered[b]; !ok {
			anomalies = append(anomalies, b)
		}
	}
	return slots, anomalies
}

// Bookable reports whether t is offered and free in s.
func Bookable(s models.DaySchedule, t string) bool {
	if s.IsDayOff {
		return false
	}
	offered := false
	for _, slot := range s.Slots {
		if slot == t {
			offered = true
			break
		}
	}
	if !offered {
		return false
	}
	for _, b := range s.Booked {
		if b == t {
			return false
		}
	}
	return true
}
