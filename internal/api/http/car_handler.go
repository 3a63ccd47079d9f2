package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"rentaldesk-backend/internal/access"
	"rentaldesk-backend/internal/domain"
	"rentaldesk-backend/internal/service"
)

type CarHandler struct {
	carSvc service.CarService
}

func NewCarHandler(carSvc service.CarService) *CarHandler {
	return &CarHandler{carSvc: carSvc}
}

func pathID(r *http.Request) (int32, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, false
	}
	return int32(id), true
}

func (h *CarHandler) List(w http.ResponseWriter, r *http.Request) {
	cars, err := h.carSvc.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cars)
}

func (h *CarHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid car id")
		return
	}

	car, err := h.carSvc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}

func (h *CarHandler) Create(w http.ResponseWriter, r *http.Request) {
	var car domain.Car
	if !decodeJSON(w, r, &car) {
		return
	}
	if car.Brand == "" || car.Model == "" {
		writeError(w, http.StatusBadRequest, "brand and model are required")
		return
	}

	claims := ClaimsFromContext(r.Context())
	if err := h.carSvc.Create(r.Context(), claims.Role, &car); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, car)
}

func (h *CarHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid car id")
		return
	}

	var car domain.Car
	if !decodeJSON(w, r, &car) {
		return
	}
	car.ID = id

	claims := ClaimsFromContext(r.Context())
	if err := h.carSvc.Update(r.Context(), claims.Role, &car); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}

type carPatchRequest struct {
	Brand           *string           `json:"brand"`
	Model           *string           `json:"model"`
	CarClass        *string           `json:"car_class"`
	Year            *int32            `json:"year"`
	DailyPriceCents *int64            `json:"daily_price_cents"`
	Status          *domain.CarStatus `json:"status"`
}

// Patch merges the supplied fields onto the stored car; absent fields keep
// their current values. The status-only payload from the fleet screen is
// the common case.
func (h *CarHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid car id")
		return
	}

	var req carPatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	car, err := h.carSvc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if req.Brand != nil {
		car.Brand = *req.Brand
	}
	if req.Model != nil {
		car.Model = *req.Model
	}
	if req.CarClass != nil {
		car.CarClass = *req.CarClass
	}
	if req.Year != nil {
		car.Year = *req.Year
	}
	if req.DailyPriceCents != nil {
		car.DailyPriceCents = *req.DailyPriceCents
	}
	if req.Status != nil {
		car.Status = *req.Status
	}

	claims := ClaimsFromContext(r.Context())
	if err := h.carSvc.Update(r.Context(), claims.Role, car); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}

func (h *CarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid car id")
		return
	}

	claims := ClaimsFromContext(r.Context())
	if err := h.carSvc.Delete(r.Context(), claims.Role, id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CarHandler) RegisterRoutes(router *mux.Router) {
	staff := access.NewRoleSet(domain.RoleStaff, domain.RoleAdmin)

	router.HandleFunc("/cars/", requireRoles(nil, h.List)).Methods(http.MethodGet)
	router.HandleFunc("/cars/", requireRoles(staff, h.Create)).Methods(http.MethodPost)
	router.HandleFunc("/cars/{id}/", requireRoles(nil, h.Get)).Methods(http.MethodGet)
	router.HandleFunc("/cars/{id}/", requireRoles(staff, h.Update)).Methods(http.MethodPut)
	router.HandleFunc("/cars/{id}/", requireRoles(staff, h.Patch)).Methods(http.MethodPatch)
	router.HandleFunc("/cars/{id}/", requireRoles(staff, h.Delete)).Methods(http.MethodDelete)
}
