package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"rentaldesk-backend/internal/security"
	"rentaldesk-backend/internal/service"
)

// NewRouter assembles the REST surface under /api. All routes carry a
// trailing slash; StrictSlash redirects the bare form.
func NewRouter(
	tokens security.TokenManager,
	authSvc service.AuthService,
	userSvc service.UserService,
	carSvc service.CarService,
	rentalSvc service.RentalService,
	reportSvc service.ReportService,
) http.Handler {
	root := mux.NewRouter().StrictSlash(true)
	api := root.PathPrefix("/api").Subrouter()
	api.Use(AuthMiddleware(tokens))

	NewAuthHandler(authSvc).RegisterRoutes(api)
	NewCarHandler(carSvc).RegisterRoutes(api)
	NewRentalHandler(rentalSvc, userSvc).RegisterRoutes(api)
	NewReportHandler(reportSvc).RegisterRoutes(api)

	root.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	return root
}
