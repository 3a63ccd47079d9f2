package repository

import (
	"context"

	"rentaldesk-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	CreateProfile(ctx context.Context, profile *domain.CustomerProfile) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
}

type CarRepository interface {
	Create(ctx context.Context, car *domain.Car) error
	GetByID(ctx context.Context, id int32) (*domain.Car, error)
	Update(ctx context.Context, car *domain.Car) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, search string) ([]domain.Car, error)
	SetStatus(ctx context.Context, id int32, status domain.CarStatus) error
	OccupancyOn(ctx context.Context, date string) ([]domain.CarOccupancy, error)
}

// RentalFilter narrows rental listings. Zero values mean "no filter".
type RentalFilter struct {
	Status     domain.RentalStatus
	CustomerID int32
	CarID      int32
	DateFrom   string // issue_date >= DateFrom
	DateTo     string // issue_date <= DateTo
}

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id int32) (*domain.Rental, error)
	Update(ctx context.Context, rental *domain.Rental) error
	List(ctx context.Context, filter RentalFilter) ([]domain.Rental, error)
	CountByCar(ctx context.Context, carID int32) (int32, error)
}

type BillingRepository interface {
	CreateDeposit(ctx context.Context, deposit *domain.Deposit) error
	GetDepositByRental(ctx context.Context, rentalID int32) (*domain.Deposit, error)
	UpdateDeposit(ctx context.Context, deposit *domain.Deposit) error
	CreatePenalty(ctx context.Context, penalty *domain.Penalty) error
	ListPenaltiesByRental(ctx context.Context, rentalID int32) ([]domain.Penalty, error)
	CreateTransaction(ctx context.Context, tx *domain.PaymentTransaction) error
	ListTransactionsByRental(ctx context.Context, rentalID int32) ([]domain.PaymentTransaction, error)
	FinancialByCar(ctx context.Context, dateFrom, dateTo string) ([]domain.CarFinancials, error)
}
