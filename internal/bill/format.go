package bill

import (
	"fmt"
	"time"
)

// frMonths holds the three-letter French month abbreviations used in the
// bills table, indexed by time.Month.
var frMonths = [...]string{
	time.January:   "Jan",
	time.February:  "Fév",
	time.March:     "Mar",
	time.April:     "Avr",
	time.May:       "Mai",
	time.June:      "Jui",
	time.July:      "Jui",
	time.August:    "Aoû",
	time.September: "Sep",
	time.October:   "Oct",
	time.November:  "Nov",
	time.December:  "Déc",
}

// FormatDate renders an ISO date ("2004-04-04") in the localized display
// form used by the bills table ("4 Avr. 04").
func FormatDate(date string) (string, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", fmt.Errorf("formatting date %q: %w", date, err)
	}
	return fmt.Sprintf("%d %s. %02d", t.Day(), frMonths[t.Month()], t.Year()%100), nil
}

// FormatStatus renders a bill status for display.
func FormatStatus(status string) string {
	switch status {
	case StatusPending:
		return "En attente"
	case StatusAccepted:
		return "Accepté"
	case StatusRefused:
		return "Refusé"
	}
	return status
}
