package masterbot

import (
	"fmt"
	"strings"

	"slotbook/models"
	"slotbook/services/availability"
)

func listOrNone(slots []string) string {
	if len(slots) == 0 {
		return "no slots"
	}
	return strings.Join(slots, ", ")
}

// renderDay prints one line per slot. clients maps a booked time to the client's handle.
func renderDay(s models.DaySchedule, clients map[string]string) string {
	var b strings.Builder
	weekday, _ := availability.WeekdayOf(s.Date)
	fmt.Fprintf(&b, "%s (%s)\n", s.Date, weekday)

	if s.IsDayOff {
		b.WriteString("Day off")
		return b.String()
	}

	views, anomalies := availability.Views(s)
	if len(views) == 0 && len(anomalies) == 0 {
		b.WriteString("No slots")
		return b.String()
	}
	for _, v := range views {
		if v.Available {
			fmt.Fprintf(&b, "%s free\n", v.Time)
			continue
		}
		fmt.Fprintf(&b, "%s %s\n", v.Time, booked(clients[v.Time]))
	}
	for _, t := range anomalies {
		fmt.Fprintf(&b, "%s %s (outside your hours)\n", t, booked(clients[t]))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func booked(client string) string {
	if client == "" {
		return "booked"
	}
	return "booked by " + client
}
