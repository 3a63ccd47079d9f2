package postgres

import (
	"context"
	"database/sql"
	"time"

	"rentaldesk-backend/internal/domain"
	"rentaldesk-backend/internal/repository"
)

type carRepository struct {
	db *sql.DB
}

func NewCarRepository(db *sql.DB) repository.CarRepository {
	return &carRepository{db: db}
}

func (r *carRepository) Create(ctx context.Context, c *domain.Car) error {
	query := `INSERT INTO cars (brand, model, car_class, year, daily_price_cents, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	return r.db.QueryRowContext(ctx, query, c.Brand, c.Model, c.CarClass, c.Year, c.DailyPriceCents, c.Status, time.Now(), time.Now()).Scan(&c.ID)
}

func (r *carRepository) GetByID(ctx context.Context, id int32) (*domain.Car, error) {
	c := &domain.Car{}
	query := `SELECT id, brand, model, car_class, year, daily_price_cents, status, created_on, updated_on FROM cars WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Brand, &c.Model, &c.CarClass, &c.Year, &c.DailyPriceCents, &c.Status, &c.CreatedOn, &c.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *carRepository) Update(ctx context.Context, c *domain.Car) error {
	query := `UPDATE cars SET brand=$1, model=$2, car_class=$3, year=$4, daily_price_cents=$5, status=$6, updated_on=$7 WHERE id=$8`
	_, err := r.db.ExecContext(ctx, query, c.Brand, c.Model, c.CarClass, c.Year, c.DailyPriceCents, c.Status, time.Now(), c.ID)
	return err
}

func (r *carRepository) Delete(ctx context.Context, id int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cars WHERE id = $1`, id)
	return err
}

func (r *carRepository) List(ctx context.Context, search string) ([]domain.Car, error) {
	query := `SELECT id, brand, model, car_class, year, daily_price_cents, status, created_on, updated_on FROM cars`
	var args []interface{}
	if search != "" {
		query += ` WHERE brand ILIKE $1 OR model ILIKE $1 OR car_class ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY brand, model`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cars []domain.Car
	for rows.Next() {
		var c domain.Car
		if err := rows.Scan(&c.ID, &c.Brand, &c.Model, &c.CarClass, &c.Year, &c.DailyPriceCents, &c.Status, &c.CreatedOn, &c.UpdatedOn); err != nil {
			return nil, err
		}
		cars = append(cars, c)
	}
	return cars, rows.Err()
}

func (r *carRepository) SetStatus(ctx context.Context, id int32, status domain.CarStatus) error {
	query := `UPDATE cars SET status=$1, updated_on=$2 WHERE id=$3`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	return err
}

func (r *carRepository) OccupancyOn(ctx context.Context, date string) ([]domain.CarOccupancy, error) {
	// One active rental per car at a time, so the join yields at most one row
	// per car.
	query := `SELECT c.id, c.brand, c.model, c.year, c.status, r.expected_return_date
	          FROM cars c
	          LEFT JOIN rentals r ON r.car_id = c.id AND r.status = 'ACTIVE' AND r.expected_return_date >= $1
	          ORDER BY c.id`
	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var report []domain.CarOccupancy
	for rows.Next() {
		var (
			car      domain.Car
			expected sql.NullString
		)
		if err := rows.Scan(&car.ID, &car.Brand, &car.Model, &car.Year, &car.Status, &expected); err != nil {
			return nil, err
		}
		row := domain.CarOccupancy{
			CarID:  car.ID,
			Car:    car.Display(),
			Status: car.Status,
		}
		if expected.Valid {
			row.Status = domain.CarStatusRented
			row.ExpectedReturnDate = &expected.String
		}
		report = append(report, row)
	}
	return report, rows.Err()
}
