// Package client is a typed Go client for the rentaldesk REST API. It is
// the programmatic surface operator tooling builds on: every call returns
// decoded domain values or an *APIError carrying the server's status code.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"rentaldesk-backend/internal/domain"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

// IsAuthError reports whether err is a 401 or 403 from the server.
func IsAuthError(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden)
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Client talks to one rentaldesk server. The zero value is not usable;
// construct with New. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client, e.g. for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken installs the bearer credential used on subsequent requests. An
// empty token makes requests anonymous.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Error  string `json:"error"`
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			apiErr.Message = payload.Error
			apiErr.Detail = payload.Detail
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodPost, "/api/auth/register/", nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for a token pair. It does not install the
// token; Session owns credential state.
func (c *Client) Login(ctx context.Context, email, password string) (TokenPair, error) {
	body := map[string]string{"email": email, "password": password}
	var pair TokenPair
	if err := c.do(ctx, http.MethodPost, "/api/auth/login/", nil, body, &pair); err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

func (c *Client) RefreshToken(ctx context.Context, refresh string) (TokenPair, error) {
	body := map[string]string{"refresh": refresh}
	var pair TokenPair
	if err := c.do(ctx, http.MethodPost, "/api/auth/refresh/", nil, body, &pair); err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

// Me returns the account behind the installed token.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me/", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ListCars(ctx context.Context, search string) ([]domain.Car, error) {
	var query url.Values
	if search != "" {
		query = url.Values{"search": {search}}
	}
	var cars []domain.Car
	if err := c.do(ctx, http.MethodGet, "/api/cars/", query, nil, &cars); err != nil {
		return nil, err
	}
	return cars, nil
}

func (c *Client) GetCar(ctx context.Context, id int32) (*domain.Car, error) {
	var car domain.Car
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/cars/%d/", id), nil, nil, &car); err != nil {
		return nil, err
	}
	return &car, nil
}

func (c *Client) CreateCar(ctx context.Context, car *domain.Car) (*domain.Car, error) {
	var created domain.Car
	if err := c.do(ctx, http.MethodPost, "/api/cars/", nil, car, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateCar(ctx context.Context, car *domain.Car) (*domain.Car, error) {
	var updated domain.Car
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/cars/%d/", car.ID), nil, car, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// CarPatch carries a partial car update; nil fields are left untouched
// server-side.
type CarPatch struct {
	Brand           *string           `json:"brand,omitempty"`
	Model           *string           `json:"model,omitempty"`
	CarClass        *string           `json:"car_class,omitempty"`
	Year            *int32            `json:"year,omitempty"`
	DailyPriceCents *int64            `json:"daily_price_cents,omitempty"`
	Status          *domain.CarStatus `json:"status,omitempty"`
}

func (c *Client) PatchCar(ctx context.Context, id int32, patch CarPatch) (*domain.Car, error) {
	var updated domain.Car
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/cars/%d/", id), nil, patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteCar(ctx context.Context, id int32) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/cars/%d/", id), nil, nil, nil)
}

// RentalListFilter narrows ListRentals. Zero values mean "no filter".
type RentalListFilter struct {
	Status     domain.RentalStatus
	CustomerID int32
	CarID      int32
	DateFrom   string
	DateTo     string
}

func (c *Client) ListRentals(ctx context.Context, filter RentalListFilter) ([]domain.Rental, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.CustomerID != 0 {
		query.Set("customer", strconv.FormatInt(int64(filter.CustomerID), 10))
	}
	if filter.CarID != 0 {
		query.Set("car", strconv.FormatInt(int64(filter.CarID), 10))
	}
	if filter.DateFrom != "" {
		query.Set("date_from", filter.DateFrom)
	}
	if filter.DateTo != "" {
		query.Set("date_to", filter.DateTo)
	}

	var rentals []domain.Rental
	if err := c.do(ctx, http.MethodGet, "/api/rentals/", query, nil, &rentals); err != nil {
		return nil, err
	}
	return rentals, nil
}

func (c *Client) GetRental(ctx context.Context, id int32) (*domain.Rental, error) {
	var rental domain.Rental
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/rentals/%d/", id), nil, nil, &rental); err != nil {
		return nil, err
	}
	return &rental, nil
}

type CreateRentalRequest struct {
	Customer           int32  `json:"customer"`
	Car                int32  `json:"car"`
	IssueDate          string `json:"issue_date"`
	ExpectedReturnDate string `json:"expected_return_date"`
	DepositCents       int64  `json:"deposit_cents"`
}

func (c *Client) CreateRental(ctx context.Context, req CreateRentalRequest) (*domain.Rental, error) {
	var rental domain.Rental
	if err := c.do(ctx, http.MethodPost, "/api/rentals/", nil, req, &rental); err != nil {
		return nil, err
	}
	return &rental, nil
}

func (c *Client) UpdateRentalDates(ctx context.Context, id int32, issueDate, expectedReturnDate string) (*domain.Rental, error) {
	body := map[string]string{
		"issue_date":           issueDate,
		"expected_return_date": expectedReturnDate,
	}
	var rental domain.Rental
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/rentals/%d/", id), nil, body, &rental); err != nil {
		return nil, err
	}
	return &rental, nil
}

// ReturnOutcome is the server's settlement of a return. The invoice total
// is authoritative and supersedes any locally computed estimate.
type ReturnOutcome struct {
	Rental            *domain.Rental  `json:"rental"`
	Invoice           *domain.Invoice `json:"invoice"`
	InvoiceTotalCents int64           `json:"invoice_total_cents"`
}

func (c *Client) ReturnRental(ctx context.Context, id int32, actualReturnDate string, badCondition bool) (*ReturnOutcome, error) {
	body := map[string]any{
		"actual_return_date": actualReturnDate,
		"bad_condition":      badCondition,
	}
	var outcome ReturnOutcome
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/rentals/%d/return/", id), nil, body, &outcome); err != nil {
		return nil, err
	}
	return &outcome, nil
}

func (c *Client) ListCustomers(ctx context.Context) ([]domain.User, error) {
	var customers []domain.User
	if err := c.do(ctx, http.MethodGet, "/api/customers/", nil, nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (c *Client) OccupancyReport(ctx context.Context, date string) ([]domain.CarOccupancy, error) {
	var query url.Values
	if date != "" {
		query = url.Values{"date": {date}}
	}
	var rows []domain.CarOccupancy
	if err := c.do(ctx, http.MethodGet, "/api/reports/occupancy/", query, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) FinancialReport(ctx context.Context, dateFrom, dateTo string) ([]domain.CarFinancials, error) {
	query := url.Values{}
	if dateFrom != "" {
		query.Set("date_from", dateFrom)
	}
	if dateTo != "" {
		query.Set("date_to", dateTo)
	}
	var rows []domain.CarFinancials
	if err := c.do(ctx, http.MethodGet, "/api/reports/financial/", query, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
