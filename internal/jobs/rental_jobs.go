package jobs

import (
	"context"
	"time"

	"rentaldesk-backend/internal/lifecycle"
	"rentaldesk-backend/internal/logger"
)

// ActivateDueRentals promotes DRAFT rentals whose issue date has arrived to
// ACTIVE and marks their cars RENTED.
func (jr *JobRunner) ActivateDueRentals() {
	jr.runWithRecovery("ActivateDueRentals", func() {
		ctx := context.Background()
		today := time.Now().UTC().Format("2006-01-02")

		query := `
			UPDATE rentals
			SET status = 'ACTIVE',
			    updated_on = NOW()
			WHERE status = 'DRAFT'
			  AND issue_date <= $1
			RETURNING id, car_id
		`

		rows, err := jr.db.QueryContext(ctx, query, today)
		if err != nil {
			logger.Error("Failed to activate due rentals", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		var carIDs []int32
		for rows.Next() {
			var rentalID, carID int32
			if err := rows.Scan(&rentalID, &carID); err != nil {
				logger.Error("Failed to scan activated rental", "error", err)
				continue
			}
			carIDs = append(carIDs, carID)
			logger.Debug("Activated rental", "rental_id", rentalID, "car_id", carID)
			count++
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating activated rentals", "error", err)
			return
		}

		for _, carID := range carIDs {
			if _, err := jr.db.ExecContext(ctx, `UPDATE cars SET status = 'RENTED', updated_on = NOW() WHERE id = $1`, carID); err != nil {
				logger.Error("Failed to mark car rented", "car_id", carID, "error", err)
			}
		}

		logger.Info("Activated due rentals", "count", count)
	})
}

// SendOverdueReminders emails customers whose ACTIVE rental is past its
// expected return date.
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery("SendOverdueReminders", func() {
		ctx := context.Background()
		today := time.Now().UTC().Format("2006-01-02")

		query := `
			SELECT r.id, r.expected_return_date, u.email, u.full_name
			FROM rentals r
			JOIN users u ON u.id = r.customer_id
			WHERE r.status = 'ACTIVE'
			  AND r.expected_return_date < $1
		`

		rows, err := jr.db.QueryContext(ctx, query, today)
		if err != nil {
			logger.Error("Failed to find overdue rentals", "error", err)
			return
		}
		defer rows.Close()

		type overdue struct {
			rentalID int32
			expected string
			email    string
			name     string
		}
		var due []overdue
		for rows.Next() {
			var o overdue
			if err := rows.Scan(&o.rentalID, &o.expected, &o.email, &o.name); err != nil {
				logger.Error("Failed to scan overdue rental", "error", err)
				continue
			}
			due = append(due, o)
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating overdue rentals", "error", err)
			return
		}

		now, _ := lifecycle.ParseDate(today)
		sent := 0
		for _, o := range due {
			expected, err := lifecycle.ParseDate(o.expected)
			if err != nil {
				logger.Error("Bad expected return date on rental", "rental_id", o.rentalID, "value", o.expected)
				continue
			}
			lateDays := lifecycle.LateDays(expected, now)
			if err := jr.emailSvc.SendOverdueReminder(ctx, o.email, o.name, o.rentalID, o.expected, lateDays); err != nil {
				logger.Error("Failed to send overdue reminder", "rental_id", o.rentalID, "error", err)
				continue
			}
			sent++
		}

		logger.Info("Sent overdue reminders", "count", sent)
	})
}
