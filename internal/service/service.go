package service

import (
	"context"
	"errors"

	"rentaldesk-backend/internal/domain"
	"rentaldesk-backend/internal/repository"
)

var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidToken         = errors.New("invalid token")
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("operation not permitted for this role")
	ErrRentalClosed         = errors.New("rental is already closed")
	ErrDatesLocked          = errors.New("rental dates can no longer be edited")
	ErrInvalidDates         = errors.New("expected return date must not precede issue date")
	ErrCarHasRentals        = errors.New("car has linked rentals and cannot be deleted")
	ErrCustomerRoleRequired = errors.New("rental customer must have the CUSTOMER role")
)

type RegisterInput struct {
	Email    string
	FullName string
	Password string
	Address  string
	Phone    string
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
	Me(ctx context.Context, userID int32) (*domain.User, error)
}

type UserService interface {
	ListCustomers(ctx context.Context, actor domain.Role) ([]domain.User, error)
}

type CarService interface {
	Create(ctx context.Context, actor domain.Role, car *domain.Car) error
	Get(ctx context.Context, id int32) (*domain.Car, error)
	Update(ctx context.Context, actor domain.Role, car *domain.Car) error
	Delete(ctx context.Context, actor domain.Role, id int32) error
	List(ctx context.Context, search string) ([]domain.Car, error)
}

type CreateRentalInput struct {
	CustomerID         int32
	CarID              int32
	IssueDate          string
	ExpectedReturnDate string
	DepositCents       int64
}

type ReturnInput struct {
	ActualReturnDate string // empty means today
	BadCondition     bool
}

// ReturnResult carries the closed rental and the authoritative invoice. The
// invoice total is the figure clients must display, superseding any local
// estimate.
type ReturnResult struct {
	Rental  *domain.Rental
	Invoice *domain.Invoice
}

type RentalService interface {
	Create(ctx context.Context, actor domain.Role, input CreateRentalInput) (*domain.Rental, error)
	Get(ctx context.Context, actor domain.Role, actorID, id int32) (*domain.Rental, error)
	List(ctx context.Context, actor domain.Role, actorID int32, filter repository.RentalFilter) ([]domain.Rental, error)
	UpdateDates(ctx context.Context, actor domain.Role, id int32, issueDate, expectedReturnDate string) (*domain.Rental, error)
	Return(ctx context.Context, actor domain.Role, id int32, input ReturnInput) (*ReturnResult, error)
}

type ReportService interface {
	Occupancy(ctx context.Context, date string) ([]domain.CarOccupancy, error)
	Financial(ctx context.Context, actor domain.Role, dateFrom, dateTo string) ([]domain.CarFinancials, error)
}

type EmailService interface {
	SendReturnReceipt(ctx context.Context, to, name string, rentalID int32, invoiceTotalCents int64) error
	SendOverdueReminder(ctx context.Context, to, name string, rentalID int32, expectedReturnDate string, lateDays int) error
}
