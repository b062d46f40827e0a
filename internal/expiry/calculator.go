// Package expiry derives expiry dates, remaining days and status for stock records.
//
// All arithmetic is anchored to a fixed reference zone so every caller agrees on
// the same expiry day regardless of the host's local time zone.
package expiry

import (
	"math"
	"time"

	"github.com/tuanvumaihuynh/shelflife/internal/model"
)

// Calculator computes expiry state in a fixed reference zone. It holds no
// other state and is safe for concurrent use.
type Calculator struct {
	loc *time.Location
}

// NewCalculator returns a calculator anchored to loc.
func NewCalculator(loc *time.Location) Calculator {
	return Calculator{loc: loc}
}

// Location returns the reference zone.
func (c Calculator) Location() *time.Location {
	return c.loc
}

// Compute returns the expiry state of a batch produced on productionDate.
//
// RemainingDays is the calendar-day distance from today in the reference zone
// to the expiry date: 0 on the expiry day itself, negative afterwards.
// A non-positive shelf life yields StatusUnset and zero dates.
func (c Calculator) Compute(productionDate model.Date, shelfLifeDays, reminderDays int, now time.Time) model.Expiry {
	if shelfLifeDays <= 0 {
		return model.Expiry{Status: model.StatusUnset}
	}

	expiryDate := productionDate.AddDays(shelfLifeDays)
	remaining := c.Today(now).DaysUntil(expiryDate)

	return model.Expiry{
		ExpiryDate:       expiryDate,
		ReminderDate:     expiryDate.AddDays(-reminderDays),
		RemainingDays:    remaining,
		Status:           Classify(remaining, reminderDays),
		ShelfLifePercent: shelfLifePercent(remaining, shelfLifeDays),
	}
}

// Today returns the calendar date of now in the reference zone.
func (c Calculator) Today(now time.Time) model.Date {
	return model.DateOf(now, c.loc)
}

// Classify maps a remaining-day count to a status. A reminder window of zero
// days is empty, so the status goes straight from normal to expired.
func Classify(remainingDays, reminderDays int) model.Status {
	switch {
	case remainingDays <= 0:
		return model.StatusExpired
	case remainingDays <= reminderDays:
		return model.StatusWarning
	default:
		return model.StatusNormal
	}
}

func shelfLifePercent(remainingDays, shelfLifeDays int) int {
	p := int(math.Round(float64(remainingDays) / float64(shelfLifeDays) * 100))
	return max(0, min(100, p))
}
