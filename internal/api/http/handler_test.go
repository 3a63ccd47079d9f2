package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apihttp "rentaldesk-backend/internal/api/http"
	"rentaldesk-backend/internal/domain"
	"rentaldesk-backend/internal/repository"
	"rentaldesk-backend/internal/security"
	"rentaldesk-backend/internal/service"
)

// MockAuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, input service.RegisterInput) (*domain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockAuthService) Login(ctx context.Context, email, password string) (service.TokenPair, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(service.TokenPair), args.Error(1)
}
func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (service.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	return args.Get(0).(service.TokenPair), args.Error(1)
}
func (m *MockAuthService) Me(ctx context.Context, userID int32) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockUserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) ListCustomers(ctx context.Context, actor domain.Role) ([]domain.User, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

// MockCarService
type MockCarService struct {
	mock.Mock
}

func (m *MockCarService) Create(ctx context.Context, actor domain.Role, car *domain.Car) error {
	args := m.Called(ctx, actor, car)
	return args.Error(0)
}
func (m *MockCarService) Get(ctx context.Context, id int32) (*domain.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}
func (m *MockCarService) Update(ctx context.Context, actor domain.Role, car *domain.Car) error {
	args := m.Called(ctx, actor, car)
	return args.Error(0)
}
func (m *MockCarService) Delete(ctx context.Context, actor domain.Role, id int32) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}
func (m *MockCarService) List(ctx context.Context, search string) ([]domain.Car, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Car), args.Error(1)
}

// MockRentalService
type MockRentalService struct {
	mock.Mock
}

func (m *MockRentalService) Create(ctx context.Context, actor domain.Role, input service.CreateRentalInput) (*domain.Rental, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) Get(ctx context.Context, actor domain.Role, actorID, id int32) (*domain.Rental, error) {
	args := m.Called(ctx, actor, actorID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) List(ctx context.Context, actor domain.Role, actorID int32, filter repository.RentalFilter) ([]domain.Rental, error) {
	args := m.Called(ctx, actor, actorID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalService) UpdateDates(ctx context.Context, actor domain.Role, id int32, issueDate, expectedReturnDate string) (*domain.Rental, error) {
	args := m.Called(ctx, actor, id, issueDate, expectedReturnDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) Return(ctx context.Context, actor domain.Role, id int32, input service.ReturnInput) (*service.ReturnResult, error) {
	args := m.Called(ctx, actor, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReturnResult), args.Error(1)
}

// MockReportService
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Occupancy(ctx context.Context, date string) ([]domain.CarOccupancy, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CarOccupancy), args.Error(1)
}
func (m *MockReportService) Financial(ctx context.Context, actor domain.Role, dateFrom, dateTo string) ([]domain.CarFinancials, error) {
	args := m.Called(ctx, actor, dateFrom, dateTo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CarFinancials), args.Error(1)
}

type testServer struct {
	handler   http.Handler
	tokens    security.TokenManager
	authSvc   *MockAuthService
	userSvc   *MockUserService
	carSvc    *MockCarService
	rentalSvc *MockRentalService
	reportSvc *MockReportService
}

func newTestServer() *testServer {
	ts := &testServer{
		tokens:    security.NewTokenManager("test-secret", 15, 1440),
		authSvc:   new(MockAuthService),
		userSvc:   new(MockUserService),
		carSvc:    new(MockCarService),
		rentalSvc: new(MockRentalService),
		reportSvc: new(MockReportService),
	}
	ts.handler = apihttp.NewRouter(ts.tokens, ts.authSvc, ts.userSvc, ts.carSvc, ts.rentalSvc, ts.reportSvc)
	return ts
}

func (ts *testServer) request(t *testing.T, method, path string, body any, asRole domain.Role) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		assert.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if asRole != "" {
		token, err := ts.tokens.GenerateAccessToken(1, "user@test.com", asRole)
		assert.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Login(t *testing.T) {
	ts := newTestServer()
	ts.authSvc.On("Login", mock.Anything, "user@test.com", "secret").
		Return(service.TokenPair{Access: "a", Refresh: "r"}, nil)

	rec := ts.request(t, http.MethodPost, "/api/auth/login/", map[string]string{
		"email":    "user@test.com",
		"password": "secret",
	}, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "a", resp["access"])
	assert.Equal(t, "r", resp["refresh"])
}

func TestRouter_LoginRejected(t *testing.T) {
	ts := newTestServer()
	ts.authSvc.On("Login", mock.Anything, "user@test.com", "wrong").
		Return(service.TokenPair{}, service.ErrInvalidCredentials)

	rec := ts.request(t, http.MethodPost, "/api/auth/login/", map[string]string{
		"email":    "user@test.com",
		"password": "wrong",
	}, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_MeRestoresSession(t *testing.T) {
	ts := newTestServer()
	ts.authSvc.On("Me", mock.Anything, int32(1)).
		Return(&domain.User{ID: 1, Email: "user@test.com", Role: domain.RoleStaff}, nil)

	rec := ts.request(t, http.MethodGet, "/api/auth/me/", nil, domain.RoleStaff)
	assert.Equal(t, http.StatusOK, rec.Code)

	var user domain.User
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, domain.RoleStaff, user.Role)
}

func TestRouter_MeWithoutToken(t *testing.T) {
	ts := newTestServer()
	rec := ts.request(t, http.MethodGet, "/api/auth/me/", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_GarbageBearerToken(t *testing.T) {
	ts := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_RoleGates(t *testing.T) {
	t.Run("Customer cannot create cars", func(t *testing.T) {
		ts := newTestServer()
		rec := ts.request(t, http.MethodPost, "/api/cars/", domain.Car{Brand: "Honda", Model: "Civic"}, domain.RoleCustomer)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		ts.carSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Customer cannot return rentals", func(t *testing.T) {
		ts := newTestServer()
		rec := ts.request(t, http.MethodPost, "/api/rentals/1/return/", map[string]any{}, domain.RoleCustomer)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Customer cannot read the financial report", func(t *testing.T) {
		ts := newTestServer()
		rec := ts.request(t, http.MethodGet, "/api/reports/financial/", nil, domain.RoleCustomer)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Customer can read occupancy", func(t *testing.T) {
		ts := newTestServer()
		ret := "2024-02-10"
		ts.reportSvc.On("Occupancy", mock.Anything, "").
			Return([]domain.CarOccupancy{
				{CarID: 2, Car: "Toyota Corolla (2021)", Status: domain.CarStatusRented, ExpectedReturnDate: &ret},
			}, nil)
		rec := ts.request(t, http.MethodGet, "/api/reports/occupancy/", nil, domain.RoleCustomer)
		assert.Equal(t, http.StatusOK, rec.Code)

		var rows []domain.CarOccupancy
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
		assert.Len(t, rows, 1)
		assert.Equal(t, domain.CarStatusRented, rows[0].Status)
	})

	t.Run("Anonymous occupancy gets 401", func(t *testing.T) {
		ts := newTestServer()
		rec := ts.request(t, http.MethodGet, "/api/reports/occupancy/", nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Anonymous gets 401 not 403", func(t *testing.T) {
		ts := newTestServer()
		rec := ts.request(t, http.MethodGet, "/api/reports/financial/", nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Staff passes the gate", func(t *testing.T) {
		ts := newTestServer()
		ts.reportSvc.On("Financial", mock.Anything, domain.RoleStaff, "", "").
			Return([]domain.CarFinancials{}, nil)
		rec := ts.request(t, http.MethodGet, "/api/reports/financial/", nil, domain.RoleStaff)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRouter_PatchCar(t *testing.T) {
	t.Run("Status-only patch keeps the other fields", func(t *testing.T) {
		ts := newTestServer()
		stored := &domain.Car{
			ID: 2, Brand: "Toyota", Model: "Corolla", CarClass: "COMPACT",
			Year: 2021, DailyPriceCents: 4000, Status: domain.CarStatusAvailable,
		}
		ts.carSvc.On("Get", mock.Anything, int32(2)).Return(stored, nil)
		ts.carSvc.On("Update", mock.Anything, domain.RoleStaff, mock.MatchedBy(func(car *domain.Car) bool {
			return car.ID == 2 && car.Status == domain.CarStatusMaintenance &&
				car.Brand == "Toyota" && car.DailyPriceCents == 4000
		})).Return(nil)

		rec := ts.request(t, http.MethodPatch, "/api/cars/2/", map[string]string{
			"status": "MAINTENANCE",
		}, domain.RoleStaff)

		assert.Equal(t, http.StatusOK, rec.Code)
		var got domain.Car
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, domain.CarStatusMaintenance, got.Status)
		assert.Equal(t, "Corolla", got.Model)
		ts.carSvc.AssertExpectations(t)
	})

	t.Run("Customer cannot patch cars", func(t *testing.T) {
		ts := newTestServer()
		rec := ts.request(t, http.MethodPatch, "/api/cars/2/", map[string]string{
			"status": "MAINTENANCE",
		}, domain.RoleCustomer)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		ts.carSvc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Unknown car is 404", func(t *testing.T) {
		ts := newTestServer()
		ts.carSvc.On("Get", mock.Anything, int32(99)).Return(nil, service.ErrNotFound)
		rec := ts.request(t, http.MethodPatch, "/api/cars/99/", map[string]string{
			"status": "MAINTENANCE",
		}, domain.RoleStaff)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRouter_ReturnRental(t *testing.T) {
	ts := newTestServer()
	actual := "2024-01-13"
	closed := &domain.Rental{ID: 1, CustomerID: 5, CarID: 2, Status: domain.RentalStatusClosed, ActualReturnDate: &actual}
	invoice := &domain.Invoice{Items: []domain.LineItem{
		{Description: "Rental charge", AmountCents: 45600},
		{Description: "Late return penalty", AmountCents: 15000},
		{Description: "Bad condition penalty", AmountCents: 10000},
	}}
	ts.rentalSvc.On("Return", mock.Anything, domain.RoleStaff, int32(1), service.ReturnInput{
		ActualReturnDate: "2024-01-13",
		BadCondition:     true,
	}).Return(&service.ReturnResult{Rental: closed, Invoice: invoice}, nil)

	rec := ts.request(t, http.MethodPost, "/api/rentals/1/return/", map[string]any{
		"actual_return_date": "2024-01-13",
		"bad_condition":      true,
	}, domain.RoleStaff)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Rental  domain.Rental  `json:"rental"`
		Invoice domain.Invoice `json:"invoice"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.RentalStatusClosed, resp.Rental.Status)
	assert.Equal(t, int64(70600), resp.Invoice.TotalCents())
}

func TestRouter_ErrorMapping(t *testing.T) {
	t.Run("Closed rental conflicts", func(t *testing.T) {
		ts := newTestServer()
		ts.rentalSvc.On("Return", mock.Anything, domain.RoleStaff, int32(1), mock.Anything).
			Return(nil, service.ErrRentalClosed)
		rec := ts.request(t, http.MethodPost, "/api/rentals/1/return/", map[string]any{}, domain.RoleStaff)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Locked dates conflict", func(t *testing.T) {
		ts := newTestServer()
		ts.rentalSvc.On("UpdateDates", mock.Anything, domain.RoleStaff, int32(1), "2024-03-02", "2024-03-08").
			Return(nil, service.ErrDatesLocked)
		rec := ts.request(t, http.MethodPatch, "/api/rentals/1/", updatePayload("2024-03-02", "2024-03-08"), domain.RoleStaff)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Missing rental is 404", func(t *testing.T) {
		ts := newTestServer()
		ts.rentalSvc.On("Get", mock.Anything, domain.RoleStaff, int32(1), int32(99)).
			Return(nil, service.ErrNotFound)
		rec := ts.request(t, http.MethodGet, "/api/rentals/99/", nil, domain.RoleStaff)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Car with history is 409 on delete", func(t *testing.T) {
		ts := newTestServer()
		ts.carSvc.On("Delete", mock.Anything, domain.RoleAdmin, int32(2)).
			Return(service.ErrCarHasRentals)
		rec := ts.request(t, http.MethodDelete, "/api/cars/2/", nil, domain.RoleAdmin)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func updatePayload(issue, expected string) map[string]string {
	return map[string]string{"issue_date": issue, "expected_return_date": expected}
}
