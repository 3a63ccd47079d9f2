package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"rentaldesk-backend/internal/domain"
	"rentaldesk-backend/internal/repository"
)

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	query := `INSERT INTO rentals (customer_id, car_id, issue_date, expected_return_date, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	return r.db.QueryRowContext(ctx, query, rt.CustomerID, rt.CarID, rt.IssueDate, rt.ExpectedReturnDate, rt.Status, time.Now(), time.Now()).Scan(&rt.ID)
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	rt := &domain.Rental{}
	query := `SELECT id, customer_id, car_id, issue_date, expected_return_date, actual_return_date, status, created_on, updated_on
	          FROM rentals WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&rt.ID, &rt.CustomerID, &rt.CarID, &rt.IssueDate, &rt.ExpectedReturnDate, &rt.ActualReturnDate, &rt.Status, &rt.CreatedOn, &rt.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *rentalRepository) Update(ctx context.Context, rt *domain.Rental) error {
	query := `UPDATE rentals SET issue_date=$1, expected_return_date=$2, actual_return_date=$3, status=$4, updated_on=$5 WHERE id=$6`
	_, err := r.db.ExecContext(ctx, query, rt.IssueDate, rt.ExpectedReturnDate, rt.ActualReturnDate, rt.Status, time.Now(), rt.ID)
	return err
}

func (r *rentalRepository) List(ctx context.Context, f repository.RentalFilter) ([]domain.Rental, error) {
	query := `SELECT id, customer_id, car_id, issue_date, expected_return_date, actual_return_date, status, created_on, updated_on
	          FROM rentals WHERE 1=1`

	var args []interface{}
	argIdx := 1
	addArg := func(clause string, value interface{}) {
		query += fmt.Sprintf(" AND %s $%d", clause, argIdx)
		args = append(args, value)
		argIdx++
	}

	if f.Status != "" {
		addArg("status =", f.Status)
	}
	if f.CustomerID != 0 {
		addArg("customer_id =", f.CustomerID)
	}
	if f.CarID != 0 {
		addArg("car_id =", f.CarID)
	}
	if f.DateFrom != "" {
		addArg("issue_date >=", f.DateFrom)
	}
	if f.DateTo != "" {
		addArg("issue_date <=", f.DateTo)
	}
	query += " ORDER BY issue_date DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		var rt domain.Rental
		if err := rows.Scan(&rt.ID, &rt.CustomerID, &rt.CarID, &rt.IssueDate, &rt.ExpectedReturnDate, &rt.ActualReturnDate, &rt.Status, &rt.CreatedOn, &rt.UpdatedOn); err != nil {
			return nil, err
		}
		rentals = append(rentals, rt)
	}
	return rentals, rows.Err()
}

func (r *rentalRepository) CountByCar(ctx context.Context, carID int32) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM rentals WHERE car_id = $1`, carID).Scan(&count)
	return count, err
}
