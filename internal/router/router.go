package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/coderved63/FleetFlow-Odoo/internal/handlers"
	"github.com/coderved63/FleetFlow-Odoo/internal/middleware"
	"github.com/coderved63/FleetFlow-Odoo/internal/models"
)

// Role allow-lists per surface. Kept in one place so the policy table stays
// reviewable.
var (
	vehicleViewers   = []models.Role{models.RoleAdmin, models.RoleFleetManager, models.RoleDispatcher}
	vehicleManagers  = []models.Role{models.RoleAdmin, models.RoleFleetManager}
	driverViewers    = []models.Role{models.RoleAdmin, models.RoleFleetManager, models.RoleDispatcher}
	driverManagers   = []models.Role{models.RoleAdmin, models.RoleSafetyOfficer}
	tripViewers      = []models.Role{models.RoleAdmin, models.RoleFleetManager, models.RoleDispatcher, models.RoleFinancialAnalyst}
	tripManagers     = []models.Role{models.RoleAdmin, models.RoleDispatcher}
	maintenanceRoles = []models.Role{models.RoleAdmin, models.RoleFleetManager}
	financeRoles     = []models.Role{models.RoleAdmin, models.RoleFinancialAnalyst}
	safetyRoles      = []models.Role{models.RoleAdmin, models.RoleSafetyOfficer}
	adminOnly        = []models.Role{models.RoleAdmin}
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Admin       *handlers.AdminHandler
	Vehicles    *handlers.VehicleHandler
	Drivers     *handlers.DriverHandler
	Trips       *handlers.TripHandler
	Maintenance *handlers.MaintenanceHandler
	Expenses    *handlers.ExpenseHandler
	Analytics   *handlers.AnalyticsHandler
	Dashboard   *handlers.DashboardHandler
}

// New builds the API router.
func New(h Handlers, authMW *middleware.AuthMiddleware) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"success","message":"FleetFlow Backend is running perfectly!"}`))
		})

		r.Post("/auth/login", h.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMW.Authenticate)

			r.Get("/auth/me", h.Auth.Me)
			r.Get("/dashboard", h.Dashboard.Summary)
			r.Get("/dashboard/live", h.Dashboard.Live)

			r.With(authMW.Authorize(adminOnly...)).Get("/admin", h.Admin.ListUsers)
			r.With(authMW.Authorize(adminOnly...)).Post("/admin", h.Admin.CreateUser)

			r.With(authMW.Authorize(vehicleViewers...)).Get("/vehicles", h.Vehicles.List)
			r.With(authMW.Authorize(vehicleManagers...)).Post("/vehicles", h.Vehicles.Create)
			r.With(authMW.Authorize(vehicleManagers...)).Patch("/vehicles/{id}/status", h.Vehicles.UpdateStatus)

			r.With(authMW.Authorize(driverViewers...)).Get("/drivers", h.Drivers.List)
			r.With(authMW.Authorize(driverManagers...)).Post("/drivers", h.Drivers.Create)
			r.With(authMW.Authorize(driverManagers...)).Patch("/drivers/{id}/status", h.Drivers.UpdateDutyStatus)

			r.With(authMW.Authorize(tripViewers...)).Get("/trips", h.Trips.List)
			r.With(authMW.Authorize(tripManagers...)).Post("/trips", h.Trips.Dispatch)
			r.With(authMW.Authorize(tripManagers...)).Get("/trips/filter-vehicles", h.Trips.FilterVehicles)
			r.With(authMW.Authorize(tripManagers...)).Get("/trips/filter-drivers", h.Trips.FilterDrivers)
			r.With(authMW.Authorize(tripManagers...)).Patch("/trips/{id}/complete", h.Trips.Complete)
			r.With(authMW.Authorize(tripManagers...)).Patch("/trips/{id}/status", h.Trips.UpdateStatus)

			r.With(authMW.Authorize(maintenanceRoles...)).Get("/maintenance", h.Maintenance.List)
			r.With(authMW.Authorize(maintenanceRoles...)).Post("/maintenance", h.Maintenance.Create)

			r.With(authMW.Authorize(financeRoles...)).Get("/expenses", h.Expenses.List)
			r.With(authMW.Authorize(financeRoles...)).Post("/expenses", h.Expenses.Create)
			r.With(authMW.Authorize(financeRoles...)).Get("/expenses/pending-trips", h.Expenses.PendingTrips)

			r.With(authMW.Authorize(safetyRoles...)).Get("/safety/drivers", h.Drivers.List)
			r.With(authMW.Authorize(safetyRoles...)).Post("/safety/drivers", h.Drivers.Create)
			r.With(authMW.Authorize(safetyRoles...)).Put("/safety/drivers/{id}/status", h.Drivers.UpdateDutyStatus)
			r.With(authMW.Authorize(safetyRoles...)).Post("/safety/drivers/{id}/incidents", h.Drivers.LogIncident)
			r.With(authMW.Authorize(safetyRoles...)).Get("/safety/drivers/{id}/incidents", h.Drivers.ListIncidents)
			r.With(authMW.Authorize(safetyRoles...)).Get("/safety/stats", h.Drivers.Stats)

			r.With(authMW.Authorize(financeRoles...)).Get("/analytics/summary", h.Analytics.Summary)
			r.With(authMW.Authorize(financeRoles...)).Get("/analytics/financial-summary", h.Analytics.FinancialSummary)
			r.With(authMW.Authorize(financeRoles...)).Get("/analytics/charts", h.Analytics.Charts)
		})
	})

	return r
}
