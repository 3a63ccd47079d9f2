package domain

import "fmt"

type CarStatus string

const (
	CarStatusAvailable   CarStatus = "AVAILABLE"
	CarStatusRented      CarStatus = "RENTED"
	CarStatusMaintenance CarStatus = "MAINTENANCE"
)

type Car struct {
	ID              int32     `json:"id"`
	Brand           string    `json:"brand"`
	Model           string    `json:"model"`
	CarClass        string    `json:"car_class"`
	Year            int32     `json:"year"`
	DailyPriceCents int64     `json:"daily_price_cents"`
	Status          CarStatus `json:"status"`
	CreatedOn       string    `json:"created_on,omitempty"`
	UpdatedOn       string    `json:"updated_on,omitempty"`
}

// Display returns the human-readable label used in lists and reports.
func (c *Car) Display() string {
	return fmt.Sprintf("%s %s (%d)", c.Brand, c.Model, c.Year)
}
