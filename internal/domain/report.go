package domain

// CarOccupancy is one row of the occupancy report: the car's effective
// status on the target date plus the expected return date of the rental
// occupying it, if any.
type CarOccupancy struct {
	CarID              int32     `json:"car_id"`
	Car                string    `json:"car"`
	Status             CarStatus `json:"status"`
	ExpectedReturnDate *string   `json:"expected_return_date"`
}

// CarFinancials is one row of the financial report, aggregated per car over
// rentals issued inside the reporting window.
type CarFinancials struct {
	CarID               int32 `json:"car_id"`
	RevenueCents        int64 `json:"revenue_cents"`
	RentalsCount        int32 `json:"rentals_count"`
	PenaltiesTotalCents int64 `json:"penalties_total_cents"`
	NetAmountCents      int64 `json:"net_amount_cents"`
}
