package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"rentaldesk-backend/internal/access"
	"rentaldesk-backend/internal/domain"
	"rentaldesk-backend/internal/repository"
	"rentaldesk-backend/internal/service"
)

type RentalHandler struct {
	rentalSvc service.RentalService
	userSvc   service.UserService
}

func NewRentalHandler(rentalSvc service.RentalService, userSvc service.UserService) *RentalHandler {
	return &RentalHandler{rentalSvc: rentalSvc, userSvc: userSvc}
}

type createRentalRequest struct {
	Customer           int32  `json:"customer"`
	Car                int32  `json:"car"`
	IssueDate          string `json:"issue_date"`
	ExpectedReturnDate string `json:"expected_return_date"`
	DepositCents       int64  `json:"deposit_cents"`
}

type updateDatesRequest struct {
	IssueDate          string `json:"issue_date"`
	ExpectedReturnDate string `json:"expected_return_date"`
}

type returnRequest struct {
	ActualReturnDate string `json:"actual_return_date"`
	BadCondition     bool   `json:"bad_condition"`
}

type returnResponse struct {
	Rental            *domain.Rental  `json:"rental"`
	Invoice           *domain.Invoice `json:"invoice"`
	InvoiceTotalCents int64           `json:"invoice_total_cents"`
}

func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	q := r.URL.Query()

	filter := repository.RentalFilter{
		Status:   domain.RentalStatus(q.Get("status")),
		DateFrom: q.Get("date_from"),
		DateTo:   q.Get("date_to"),
	}
	if raw := q.Get("customer"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 32); err == nil {
			filter.CustomerID = int32(id)
		}
	}
	if raw := q.Get("car"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 32); err == nil {
			filter.CarID = int32(id)
		}
	}

	rentals, err := h.rentalSvc.List(r.Context(), claims.Role, claims.UserID, filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rentals)
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid rental id")
		return
	}

	claims := ClaimsFromContext(r.Context())
	rental, err := h.rentalSvc.Get(r.Context(), claims.Role, claims.UserID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRentalRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Customer == 0 || req.Car == 0 || req.IssueDate == "" || req.ExpectedReturnDate == "" {
		writeError(w, http.StatusBadRequest, "customer, car, issue_date and expected_return_date are required")
		return
	}

	claims := ClaimsFromContext(r.Context())
	rental, err := h.rentalSvc.Create(r.Context(), claims.Role, service.CreateRentalInput{
		CustomerID:         req.Customer,
		CarID:              req.Car,
		IssueDate:          req.IssueDate,
		ExpectedReturnDate: req.ExpectedReturnDate,
		DepositCents:       req.DepositCents,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rental)
}

func (h *RentalHandler) UpdateDates(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid rental id")
		return
	}

	var req updateDatesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	claims := ClaimsFromContext(r.Context())
	rental, err := h.rentalSvc.UpdateDates(r.Context(), claims.Role, id, req.IssueDate, req.ExpectedReturnDate)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

// Return settles the rental server-side. The invoice in the response is the
// authoritative amount; clients show it verbatim, replacing any estimate.
func (h *RentalHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid rental id")
		return
	}

	var req returnRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	claims := ClaimsFromContext(r.Context())
	result, err := h.rentalSvc.Return(r.Context(), claims.Role, id, service.ReturnInput{
		ActualReturnDate: req.ActualReturnDate,
		BadCondition:     req.BadCondition,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, returnResponse{
		Rental:            result.Rental,
		Invoice:           result.Invoice,
		InvoiceTotalCents: result.Invoice.TotalCents(),
	})
}

func (h *RentalHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	customers, err := h.userSvc.ListCustomers(r.Context(), claims.Role)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

func (h *RentalHandler) RegisterRoutes(router *mux.Router) {
	staff := access.NewRoleSet(domain.RoleStaff, domain.RoleAdmin)

	router.HandleFunc("/rentals/", requireRoles(nil, h.List)).Methods(http.MethodGet)
	router.HandleFunc("/rentals/", requireRoles(staff, h.Create)).Methods(http.MethodPost)
	router.HandleFunc("/rentals/{id}/", requireRoles(nil, h.Get)).Methods(http.MethodGet)
	router.HandleFunc("/rentals/{id}/", requireRoles(staff, h.UpdateDates)).Methods(http.MethodPatch)
	router.HandleFunc("/rentals/{id}/return/", requireRoles(staff, h.Return)).Methods(http.MethodPost)
	router.HandleFunc("/customers/", requireRoles(staff, h.ListCustomers)).Methods(http.MethodGet)
}
