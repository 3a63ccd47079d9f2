// Package pricing computes the authoritative rental charge applied when a
// return is settled. Strategies multiply a base days-times-rate total;
// multipliers are expressed in basis points to keep all money math in
// integer cents.
package pricing

import (
	"sort"
	"time"
)

const fullRateBps int64 = 10000

// Strategy contributes one multiplier to the final charge.
type Strategy interface {
	MultiplierBps(days int, carYear int32, issueDate time.Time) int64
}

// BaseStrategy charges the flat daily rate.
type BaseStrategy struct{}

func (BaseStrategy) MultiplierBps(int, int32, time.Time) int64 {
	return fullRateBps
}

// DiscountTier grants DiscountBps off once a rental reaches MinDays.
type DiscountTier struct {
	MinDays     int
	DiscountBps int64
}

// DurationDiscountStrategy applies the deepest tier the duration reaches.
type DurationDiscountStrategy struct {
	Tiers []DiscountTier
}

func (s DurationDiscountStrategy) MultiplierBps(days int, _ int32, _ time.Time) int64 {
	tiers := make([]DiscountTier, len(s.Tiers))
	copy(tiers, s.Tiers)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].MinDays < tiers[j].MinDays })

	multiplier := fullRateBps
	for _, tier := range tiers {
		if days >= tier.MinDays {
			multiplier = fullRateBps - tier.DiscountBps
		}
	}
	return multiplier
}

// AgeFactorStrategy discounts older cars 2% per year of age at issue time,
// capped at 10 years and floored at 80% of the base rate.
type AgeFactorStrategy struct{}

func (AgeFactorStrategy) MultiplierBps(_ int, carYear int32, issueDate time.Time) int64 {
	age := int64(issueDate.Year()) - int64(carYear)
	if age < 0 {
		age = 0
	}
	if age > 10 {
		age = 10
	}
	factor := fullRateBps - age*200
	if factor < 8000 {
		factor = 8000
	}
	return factor
}

// CompositeStrategy multiplies all of its strategies together.
type CompositeStrategy struct {
	Strategies []Strategy
}

// ChargeCents is the final charge for renting at dailyPriceCents over the
// given duration.
func (c CompositeStrategy) ChargeCents(dailyPriceCents int64, days int, carYear int32, issueDate time.Time) int64 {
	total := dailyPriceCents * int64(days)
	for _, s := range c.Strategies {
		total = total * s.MultiplierBps(days, carYear, issueDate) / fullRateBps
	}
	return total
}

// Default is the production strategy set: 5% off from a week, 10% off from
// two weeks, plus the car-age factor.
func Default() CompositeStrategy {
	return CompositeStrategy{
		Strategies: []Strategy{
			BaseStrategy{},
			DurationDiscountStrategy{Tiers: []DiscountTier{
				{MinDays: 7, DiscountBps: 500},
				{MinDays: 14, DiscountBps: 1000},
			}},
			AgeFactorStrategy{},
		},
	}
}
