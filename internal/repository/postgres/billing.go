package postgres

import (
	"context"
	"database/sql"
	"time"

	"rentaldesk-backend/internal/domain"
	"rentaldesk-backend/internal/repository"
)

type billingRepository struct {
	db *sql.DB
}

func NewBillingRepository(db *sql.DB) repository.BillingRepository {
	return &billingRepository{db: db}
}

func (r *billingRepository) CreateDeposit(ctx context.Context, d *domain.Deposit) error {
	query := `INSERT INTO deposits (rental_id, amount_cents, status) VALUES ($1, $2, $3) RETURNING id`
	return r.db.QueryRowContext(ctx, query, d.RentalID, d.AmountCents, d.Status).Scan(&d.ID)
}

func (r *billingRepository) GetDepositByRental(ctx context.Context, rentalID int32) (*domain.Deposit, error) {
	d := &domain.Deposit{}
	query := `SELECT id, rental_id, amount_cents, status FROM deposits WHERE rental_id = $1`
	err := r.db.QueryRowContext(ctx, query, rentalID).Scan(&d.ID, &d.RentalID, &d.AmountCents, &d.Status)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *billingRepository) UpdateDeposit(ctx context.Context, d *domain.Deposit) error {
	query := `UPDATE deposits SET status=$1 WHERE id=$2`
	_, err := r.db.ExecContext(ctx, query, d.Status, d.ID)
	return err
}

func (r *billingRepository) CreatePenalty(ctx context.Context, p *domain.Penalty) error {
	query := `INSERT INTO penalties (rental_id, type, amount_cents, comment) VALUES ($1, $2, $3, $4) RETURNING id`
	return r.db.QueryRowContext(ctx, query, p.RentalID, p.Type, p.AmountCents, p.Comment).Scan(&p.ID)
}

func (r *billingRepository) ListPenaltiesByRental(ctx context.Context, rentalID int32) ([]domain.Penalty, error) {
	query := `SELECT id, rental_id, type, amount_cents, comment FROM penalties WHERE rental_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, rentalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var penalties []domain.Penalty
	for rows.Next() {
		var p domain.Penalty
		if err := rows.Scan(&p.ID, &p.RentalID, &p.Type, &p.AmountCents, &p.Comment); err != nil {
			return nil, err
		}
		penalties = append(penalties, p)
	}
	return penalties, rows.Err()
}

func (r *billingRepository) CreateTransaction(ctx context.Context, tx *domain.PaymentTransaction) error {
	query := `INSERT INTO payment_transactions (rental_id, transaction_type, amount_cents, note, created_on)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	return r.db.QueryRowContext(ctx, query, tx.RentalID, tx.Type, tx.AmountCents, tx.Note, time.Now()).Scan(&tx.ID)
}

func (r *billingRepository) ListTransactionsByRental(ctx context.Context, rentalID int32) ([]domain.PaymentTransaction, error) {
	query := `SELECT id, rental_id, transaction_type, amount_cents, note, created_on FROM payment_transactions WHERE rental_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, rentalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.PaymentTransaction
	for rows.Next() {
		var tx domain.PaymentTransaction
		if err := rows.Scan(&tx.ID, &tx.RentalID, &tx.Type, &tx.AmountCents, &tx.Note, &tx.CreatedOn); err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

func (r *billingRepository) FinancialByCar(ctx context.Context, dateFrom, dateTo string) ([]domain.CarFinancials, error) {
	// Open-ended bounds collapse to the full calendar range.
	if dateFrom == "" {
		dateFrom = "0001-01-01"
	}
	if dateTo == "" {
		dateTo = "9999-12-31"
	}

	query := `SELECT r.car_id,
	                 COALESCE(SUM(pt.amount_cents) FILTER (WHERE pt.transaction_type = 'RENTAL_CHARGE'), 0) AS revenue_cents,
	                 COUNT(DISTINCT r.id) AS rentals_count,
	                 COALESCE(SUM(pt.amount_cents) FILTER (WHERE pt.transaction_type = 'PENALTY_CHARGE'), 0) AS penalties_cents
	          FROM rentals r
	          JOIN payment_transactions pt ON pt.rental_id = r.id
	          WHERE r.issue_date >= $1 AND r.issue_date <= $2
	          GROUP BY r.car_id
	          ORDER BY r.car_id`
	rows, err := r.db.QueryContext(ctx, query, dateFrom, dateTo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var report []domain.CarFinancials
	for rows.Next() {
		var row domain.CarFinancials
		if err := rows.Scan(&row.CarID, &row.RevenueCents, &row.RentalsCount, &row.PenaltiesTotalCents); err != nil {
			return nil, err
		}
		// Penalties are settled against the held deposit, so net tracks
		// rental revenue only.
		row.NetAmountCents = row.RevenueCents
		report = append(report, row)
	}
	return report, rows.Err()
}
