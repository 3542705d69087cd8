package entity

import "time"

// RestaurantRef identifies the restaurant a table belongs to.
type RestaurantRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TableRef identifies a physical table.
type TableRef struct {
	ID          string `json:"id"`
	TableNumber string `json:"tableNumber"`
}

// TableSession binds the customer to one table until checkout.
type TableSession struct {
	Restaurant RestaurantRef `json:"restaurant"`
	Table      TableRef      `json:"table"`
	StartTime  time.Time     `json:"startTime"`
	Active     bool          `json:"active"`
}

// Duration reports how long the table has been occupied at now.
func (t *TableSession) Duration(now time.Time) time.Duration {
	if t == nil || t.StartTime.IsZero() || now.Before(t.StartTime) {
		return 0
	}

	return now.Sub(t.StartTime)
}
