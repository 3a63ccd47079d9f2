package service_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"rentaldesk-backend/internal/domain"
	"rentaldesk-backend/internal/repository"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) CreateProfile(ctx context.Context, profile *domain.CustomerProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]domain.User), args.Error(1)
}

// MockCarRepo
type MockCarRepo struct {
	mock.Mock
}

func (m *MockCarRepo) Create(ctx context.Context, car *domain.Car) error {
	args := m.Called(ctx, car)
	return args.Error(0)
}
func (m *MockCarRepo) GetByID(ctx context.Context, id int32) (*domain.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}
func (m *MockCarRepo) Update(ctx context.Context, car *domain.Car) error {
	args := m.Called(ctx, car)
	return args.Error(0)
}
func (m *MockCarRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockCarRepo) List(ctx context.Context, search string) ([]domain.Car, error) {
	args := m.Called(ctx, search)
	return args.Get(0).([]domain.Car), args.Error(1)
}
func (m *MockCarRepo) SetStatus(ctx context.Context, id int32, status domain.CarStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockCarRepo) OccupancyOn(ctx context.Context, date string) ([]domain.CarOccupancy, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]domain.CarOccupancy), args.Error(1)
}

// MockRentalRepo
type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) Create(ctx context.Context, rental *domain.Rental) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}
func (m *MockRentalRepo) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) Update(ctx context.Context, rental *domain.Rental) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}
func (m *MockRentalRepo) List(ctx context.Context, filter repository.RentalFilter) ([]domain.Rental, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) CountByCar(ctx context.Context, carID int32) (int32, error) {
	args := m.Called(ctx, carID)
	return args.Get(0).(int32), args.Error(1)
}

// MockBillingRepo
type MockBillingRepo struct {
	mock.Mock
}

func (m *MockBillingRepo) CreateDeposit(ctx context.Context, deposit *domain.Deposit) error {
	args := m.Called(ctx, deposit)
	return args.Error(0)
}
func (m *MockBillingRepo) GetDepositByRental(ctx context.Context, rentalID int32) (*domain.Deposit, error) {
	args := m.Called(ctx, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deposit), args.Error(1)
}
func (m *MockBillingRepo) UpdateDeposit(ctx context.Context, deposit *domain.Deposit) error {
	args := m.Called(ctx, deposit)
	return args.Error(0)
}
func (m *MockBillingRepo) CreatePenalty(ctx context.Context, penalty *domain.Penalty) error {
	args := m.Called(ctx, penalty)
	return args.Error(0)
}
func (m *MockBillingRepo) ListPenaltiesByRental(ctx context.Context, rentalID int32) ([]domain.Penalty, error) {
	args := m.Called(ctx, rentalID)
	return args.Get(0).([]domain.Penalty), args.Error(1)
}
func (m *MockBillingRepo) CreateTransaction(ctx context.Context, tx *domain.PaymentTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
func (m *MockBillingRepo) ListTransactionsByRental(ctx context.Context, rentalID int32) ([]domain.PaymentTransaction, error) {
	args := m.Called(ctx, rentalID)
	return args.Get(0).([]domain.PaymentTransaction), args.Error(1)
}
func (m *MockBillingRepo) FinancialByCar(ctx context.Context, dateFrom, dateTo string) ([]domain.CarFinancials, error) {
	args := m.Called(ctx, dateFrom, dateTo)
	return args.Get(0).([]domain.CarFinancials), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendReturnReceipt(ctx context.Context, to, name string, rentalID int32, invoiceTotalCents int64) error {
	args := m.Called(ctx, to, name, rentalID, invoiceTotalCents)
	return args.Error(0)
}
func (m *MockEmailService) SendOverdueReminder(ctx context.Context, to, name string, rentalID int32, expectedReturnDate string, lateDays int) error {
	args := m.Called(ctx, to, name, rentalID, expectedReturnDate, lateDays)
	return args.Error(0)
}
