// Package lifecycle decides which rental mutations are legal in a given
// state and computes the advisory charge and penalty estimates shown to
// operators before the authoritative call. Everything here is a pure
// function; the server's return flow and the operations client share it.
package lifecycle

import (
	"fmt"
	"time"

	"rentaldesk-backend/internal/access"
	"rentaldesk-backend/internal/domain"
)

// Penalty constants, in cents. LateFeePerDayCents is $50 per late day and
// BadConditionFeeCents is a flat $100. The return flow applies these when
// building the invoice; anywhere else they are a preview only and the
// server's invoice total is the figure to trust.
const (
	LateFeePerDayCents   int64 = 5000
	BadConditionFeeCents int64 = 10000
)

const dateLayout = "2006-01-02"

// ParseDate parses an ISO calendar date (yyyy-mm-dd).
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected yyyy-mm-dd", s)
	}
	return t, nil
}

// FormatDate renders t as an ISO calendar date.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// CanEditDates reports whether role may change the rental's dates. Once a
// rental is ACTIVE its dates anchor billing and must not change.
func CanEditDates(status domain.RentalStatus, role domain.Role) bool {
	return access.CanManageRentals(role) && status == domain.RentalStatusDraft
}

// CanReturn reports whether role may process the return. A DRAFT rental may
// be returned too (administrative closure); CLOSED is terminal.
func CanReturn(status domain.RentalStatus, role domain.Role) bool {
	return access.CanManageRentals(role) && status != domain.RentalStatusClosed
}

// DurationDays is the whole-day span from issue to end, rounded up and
// clamped to a minimum of one day. Zero or negative spans come from
// malformed input or clock skew and must not produce a zero charge.
func DurationDays(issue, end time.Time) int {
	days := ceilDays(end.Sub(issue))
	if days < 1 {
		return 1
	}
	return days
}

// LateDays is the whole-day count past the expected return date, never
// negative.
func LateDays(expected, actual time.Time) int {
	days := ceilDays(actual.Sub(expected))
	if days < 0 {
		return 0
	}
	return days
}

func ceilDays(d time.Duration) int {
	const day = 24 * time.Hour
	days := d / day
	if d%day > 0 {
		days++
	}
	return int(days)
}

// ChargeAtStatus is the informational rental charge at the rental's current
// status: actual return date once closed, expected return date otherwise.
// It is a flat days-times-rate figure, not the authoritative invoice amount.
func ChargeAtStatus(r *domain.Rental, dailyPriceCents int64) (int64, error) {
	issue, err := ParseDate(r.IssueDate)
	if err != nil {
		return 0, err
	}
	endStr := r.ExpectedReturnDate
	if r.ActualReturnDate != nil {
		endStr = *r.ActualReturnDate
	}
	end, err := ParseDate(endStr)
	if err != nil {
		return 0, err
	}
	return int64(DurationDays(issue, end)) * dailyPriceCents, nil
}

// ReturnEstimate is the advisory penalty breakdown recomputed on every edit
// of the return form. Never persisted.
type ReturnEstimate struct {
	LateDays             int   `json:"late_days"`
	LateFeeCents         int64 `json:"late_fee_cents"`
	BadConditionFeeCents int64 `json:"bad_condition_fee_cents"`
	TotalCents           int64 `json:"total_cents"`
}

// EstimateReturn computes the penalty preview for returning on actual given
// the expected return date.
func EstimateReturn(expected, actual time.Time, badCondition bool) ReturnEstimate {
	est := ReturnEstimate{LateDays: LateDays(expected, actual)}
	if est.LateDays > 0 {
		est.LateFeeCents = int64(est.LateDays) * LateFeePerDayCents
	}
	if badCondition {
		est.BadConditionFeeCents = BadConditionFeeCents
	}
	est.TotalCents = est.LateFeeCents + est.BadConditionFeeCents
	return est
}
