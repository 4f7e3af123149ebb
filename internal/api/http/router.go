package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"openshelf-backend/internal/security"
	"openshelf-backend/internal/service"
	"openshelf-backend/internal/storage"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth          service.AuthService
	Circulation   service.CirculationService
	Fines         service.FineService
	Reservations  service.ReservationService
	Patrons       service.PatronService
	Catalog       service.CatalogService
	Notifications service.NotificationService
	Batch         service.BatchService
	Reports       service.ReportService
	Store         storage.Storage
	Tokens        security.TokenManager
}

// NewRouter builds the full API surface under /api/v1.
func NewRouter(h Handlers) *mux.Router {
	authH := NewAuthHandler(h.Auth)
	circH := NewCirculationHandler(h.Circulation)
	fineH := NewFineHandler(h.Fines)
	resH := NewReservationHandler(h.Reservations)
	patronH := NewPatronHandler(h.Patrons)
	catalogH := NewCatalogHandler(h.Catalog)
	noteH := NewNotificationHandler(h.Notifications)
	batchH := NewBatchHandler(h.Batch, h.Reports)
	imageH := NewImageHandler(h.Store)

	r := mux.NewRouter()
	r.Use(RequestLogger)
	r.HandleFunc("/health", HealthHandler).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public endpoints
	api.HandleFunc("/auth/signup", authH.Signup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authH.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", authH.Refresh).Methods(http.MethodPost)
	api.HandleFunc("/materials", catalogH.SearchMaterials).Methods(http.MethodGet)
	api.HandleFunc("/materials/{id:[0-9]+}", catalogH.GetMaterial).Methods(http.MethodGet)
	api.HandleFunc("/branches", catalogH.ListBranches).Methods(http.MethodGet)
	api.HandleFunc("/images/{key:.+}", imageH.Download).Methods(http.MethodGet)

	// Everything below requires a valid access token.
	authed := api.NewRoute().Subrouter()
	authed.Use(Authenticate(h.Tokens))

	authed.HandleFunc("/notifications", noteH.List).Methods(http.MethodGet)
	authed.HandleFunc("/notifications/{id:[0-9]+}/read", noteH.MarkAsRead).Methods(http.MethodPost)
	authed.HandleFunc("/loans/{id:[0-9]+}/renew", circH.Renew).Methods(http.MethodPost)
	authed.HandleFunc("/reservations", resH.Place).Methods(http.MethodPost)
	authed.HandleFunc("/reservations/{id:[0-9]+}/cancel", resH.Cancel).Methods(http.MethodPost)
	authed.HandleFunc("/reservations/{id:[0-9]+}/position", resH.Position).Methods(http.MethodGet)

	// Desk operations
	desk := authed.NewRoute().Subrouter()
	desk.Use(RequirePermission(security.PermProcessCheckout))
	desk.HandleFunc("/loans/checkout", circH.Checkout).Methods(http.MethodPost)

	checkin := authed.NewRoute().Subrouter()
	checkin.Use(RequirePermission(security.PermProcessCheckin))
	checkin.HandleFunc("/loans/{id:[0-9]+}/return", circH.Return).Methods(http.MethodPost)
	checkin.HandleFunc("/loans/{id:[0-9]+}/lost", circH.DeclareLost).Methods(http.MethodPost)

	holds := authed.NewRoute().Subrouter()
	holds.Use(RequirePermission(security.PermManageHolds))
	holds.HandleFunc("/reservations/{id:[0-9]+}/fulfill", resH.Fulfill).Methods(http.MethodPost)
	holds.HandleFunc("/materials/{id:[0-9]+}/queue", resH.MaterialQueue).Methods(http.MethodGet)

	payments := authed.NewRoute().Subrouter()
	payments.Use(RequirePermission(security.PermProcessPayments))
	payments.HandleFunc("/fines", fineH.Assess).Methods(http.MethodPost)
	payments.HandleFunc("/fines/{id:[0-9]+}/pay", fineH.Pay).Methods(http.MethodPost)
	payments.HandleFunc("/fines/{id:[0-9]+}/waive", fineH.Waive).Methods(http.MethodPost)

	patrons := authed.NewRoute().Subrouter()
	patrons.Use(RequirePermission(security.PermManagePatrons))
	patrons.HandleFunc("/patrons", patronH.Register).Methods(http.MethodPost)
	patrons.HandleFunc("/patrons/{id:[0-9]+}", patronH.Get).Methods(http.MethodGet)
	patrons.HandleFunc("/patrons/card/{card}", patronH.GetByCardNumber).Methods(http.MethodGet)
	patrons.HandleFunc("/patrons/{id:[0-9]+}/contact", patronH.UpdateContact).Methods(http.MethodPut)
	patrons.HandleFunc("/patrons/{id:[0-9]+}/suspend", patronH.Suspend).Methods(http.MethodPost)
	patrons.HandleFunc("/patrons/{id:[0-9]+}/reactivate", patronH.Reactivate).Methods(http.MethodPost)
	patrons.HandleFunc("/patrons/{id:[0-9]+}/renew-membership", patronH.RenewMembership).Methods(http.MethodPost)
	patrons.HandleFunc("/patrons/{id:[0-9]+}/statistics", patronH.Statistics).Methods(http.MethodGet)
	patrons.HandleFunc("/patrons/{id:[0-9]+}/loans", circH.PatronLoans).Methods(http.MethodGet)
	patrons.HandleFunc("/patrons/{id:[0-9]+}/fines", fineH.PatronFines).Methods(http.MethodGet)
	patrons.HandleFunc("/patrons/{id:[0-9]+}/reservations", resH.PatronReservations).Methods(http.MethodGet)

	materials := authed.NewRoute().Subrouter()
	materials.Use(RequirePermission(security.PermManageMaterials))
	materials.HandleFunc("/materials", catalogH.CreateMaterial).Methods(http.MethodPost)
	materials.HandleFunc("/materials/{id:[0-9]+}", catalogH.UpdateMaterial).Methods(http.MethodPut)
	materials.HandleFunc("/materials/{id:[0-9]+}", catalogH.DeleteMaterial).Methods(http.MethodDelete)
	materials.HandleFunc("/materials/{id:[0-9]+}/cover", catalogH.UploadCover).Methods(http.MethodPost)
	materials.HandleFunc("/copies", catalogH.AddCopy).Methods(http.MethodPost)
	materials.HandleFunc("/copies/barcode/{barcode}", catalogH.GetCopyByBarcode).Methods(http.MethodGet)
	materials.HandleFunc("/copies/{id:[0-9]+}", catalogH.UpdateCopy).Methods(http.MethodPut)
	materials.HandleFunc("/branches", catalogH.CreateBranch).Methods(http.MethodPost)
	materials.HandleFunc("/branches/{id:[0-9]+}/copies", catalogH.BranchCopies).Methods(http.MethodGet)

	reports := authed.NewRoute().Subrouter()
	reports.Use(RequirePermission(security.PermViewReports))
	reports.HandleFunc("/loans/overdue", circH.OverdueLoans).Methods(http.MethodGet)
	reports.HandleFunc("/reports/daily", batchH.DailyReport).Methods(http.MethodGet)

	batch := authed.NewRoute().Subrouter()
	batch.Use(RequirePermission(security.PermRunBatch))
	batch.HandleFunc("/batch/mark-overdue", batchH.MarkOverdue).Methods(http.MethodPost)
	batch.HandleFunc("/batch/overdue-reminders", batchH.OverdueReminders).Methods(http.MethodPost)
	batch.HandleFunc("/batch/expire-reservations", batchH.ExpireReservations).Methods(http.MethodPost)
	batch.HandleFunc("/batch/expire-memberships", batchH.ExpireMemberships).Methods(http.MethodPost)

	return r
}
