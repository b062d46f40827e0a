package model

import "fmt"

// Status classifies a stock record by how close it is to expiry.
type Status string

const (
	StatusNormal  Status = "normal"
	StatusWarning Status = "warning"
	StatusExpired Status = "expired"
	// StatusUnset is reported when the shelf life is not a positive number of days.
	StatusUnset Status = "unset"
)

func (s Status) Validate() error {
	switch s {
	case StatusNormal, StatusWarning, StatusExpired, StatusUnset:
		return nil
	default:
		return fmt.Errorf("invalid status: %q", string(s))
	}
}

// Expiry is the derived, never stored, shelf-life state of a record.
type Expiry struct {
	ExpiryDate       Date   `json:"expiry_date,omitzero"`
	ReminderDate     Date   `json:"reminder_date,omitzero"`
	RemainingDays    int    `json:"remaining_days"`
	Status           Status `json:"status"`
	ShelfLifePercent int    `json:"shelf_life_percent"`
}
