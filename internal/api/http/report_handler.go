package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"rentaldesk-backend/internal/access"
	"rentaldesk-backend/internal/domain"
	"rentaldesk-backend/internal/service"
)

type ReportHandler struct {
	reportSvc service.ReportService
}

func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

func (h *ReportHandler) Occupancy(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reportSvc.Occupancy(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *ReportHandler) Financial(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	q := r.URL.Query()

	rows, err := h.reportSvc.Financial(r.Context(), claims.Role, q.Get("date_from"), q.Get("date_to"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *ReportHandler) RegisterRoutes(router *mux.Router) {
	staff := access.NewRoleSet(domain.RoleStaff, domain.RoleAdmin)

	// Occupancy is fleet availability, visible to any authenticated user;
	// only the money report is staff-scoped.
	router.HandleFunc("/reports/occupancy/", requireRoles(nil, h.Occupancy)).Methods(http.MethodGet)
	router.HandleFunc("/reports/financial/", requireRoles(staff, h.Financial)).Methods(http.MethodGet)
}
