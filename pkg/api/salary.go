package api

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var jaPrinter = message.NewPrinter(language.Japanese)

// SalaryUnitLabel maps the stored unit to its display suffix.
func SalaryUnitLabel(unit string) string {
	switch unit {
	case "hourly":
		return "円／時"
	case "monthly":
		return "円／月"
	default:
		return ""
	}
}

// SalaryText formats the salary range with Japanese digit grouping:
// "1,000〜1,200円／時" for a range, "200,000円／月〜" for a lower bound only,
// "" when no minimum is stored.
func (r Recruit) SalaryText() string {
	unit := SalaryUnitLabel(r.SalaryUnit)
	switch {
	case r.SalaryMin != nil && r.SalaryMax != nil:
		return jaPrinter.Sprintf("%d〜%d", *r.SalaryMin, *r.SalaryMax) + unit
	case r.SalaryMin != nil:
		return jaPrinter.Sprintf("%d", *r.SalaryMin) + unit + "〜"
	default:
		return ""
	}
}
