package handlers

import (
	"math"
	"net/http"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coderved63/FleetFlow-Odoo/internal/db"
	"github.com/coderved63/FleetFlow-Odoo/internal/models"
)

// avgFuelPrice is the reference fuel price used for the efficiency trend.
const avgFuelPrice = 100.0

// AnalyticsHandler serves the financial rollups. Pure read/aggregate, no
// mutation.
type AnalyticsHandler struct {
	trips       db.TripCollection
	vehicles    db.VehicleCollection
	maintenance db.MaintenanceCollection
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(trips db.TripCollection, vehicles db.VehicleCollection, maintenance db.MaintenanceCollection) *AnalyticsHandler {
	return &AnalyticsHandler{
		trips:       trips,
		vehicles:    vehicles,
		maintenance: maintenance,
	}
}

// Summary returns the fleet-wide financial rollup.
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.vehicles.FindVehicles(r.Context(), bson.M{})
	if err != nil {
		serverError(w, "Failed to calculate analytics summary", err)
		return
	}
	trips, err := h.trips.FindTrips(r.Context(), bson.M{"status": models.TripCompleted})
	if err != nil {
		serverError(w, "Failed to calculate analytics summary", err)
		return
	}
	logs, err := h.maintenance.FindMaintenanceLogs(r.Context(), bson.M{})
	if err != nil {
		serverError(w, "Failed to calculate analytics summary", err)
		return
	}

	var totalFuelCost, totalRevenue, totalMaintenance, totalAcquisition float64
	var activeVehicles int
	for i := range vehicles {
		totalAcquisition += vehicles[i].AcquisitionCost
		if vehicles[i].Status == models.VehicleOnTrip {
			activeVehicles++
		}
	}
	for i := range trips {
		totalFuelCost += trips[i].ActualFuelCost
		totalRevenue += trips[i].Revenue
	}
	for i := range logs {
		totalMaintenance += logs[i].Cost
	}

	// ROI = (Revenue - (Maintenance + Fuel)) / Acquisition Cost
	roi := 0.0
	if totalAcquisition > 0 {
		roi = (totalRevenue - (totalMaintenance + totalFuelCost)) / totalAcquisition * 100
	}
	// Clamp negative rounding noise so it never renders as -0.0
	if roi < 0 && roi > -0.01 {
		roi = 0
	}

	utilization := 0
	if len(vehicles) > 0 {
		utilization = int(math.Round(float64(activeVehicles) / float64(len(vehicles)) * 100))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"totalFuelCost":    totalFuelCost,
		"roi":              roi,
		"utilization":      utilization,
		"totalRevenue":     totalRevenue,
		"totalMaintenance": totalMaintenance,
	})
}

type monthlyFinancials struct {
	Month       string  `json:"month"`
	Revenue     float64 `json:"revenue"`
	FuelCost    float64 `json:"fuelCost"`
	Maintenance float64 `json:"maintenance"`
	NetProfit   float64 `json:"netProfit"`
}

// FinancialSummary groups revenue, fuel and maintenance cost by calendar
// month, Jan through Dec.
func (h *AnalyticsHandler) FinancialSummary(w http.ResponseWriter, r *http.Request) {
	trips, err := h.trips.FindTrips(r.Context(), bson.M{"status": models.TripCompleted})
	if err != nil {
		serverError(w, "Failed to fetch financial summary", err)
		return
	}
	logs, err := h.maintenance.FindMaintenanceLogs(r.Context(), bson.M{})
	if err != nil {
		serverError(w, "Failed to fetch financial summary", err)
		return
	}

	byMonth := map[time.Month]*monthlyFinancials{}
	monthOf := func(t time.Time) *monthlyFinancials {
		m := t.Month()
		if byMonth[m] == nil {
			byMonth[m] = &monthlyFinancials{Month: t.Format("Jan")}
		}
		return byMonth[m]
	}

	for i := range trips {
		when := trips[i].StartDate
		if trips[i].EndDate != nil {
			when = *trips[i].EndDate
		}
		entry := monthOf(when)
		entry.Revenue += trips[i].Revenue
		entry.FuelCost += trips[i].ActualFuelCost
	}
	for i := range logs {
		monthOf(logs[i].Date).Maintenance += logs[i].Cost
	}

	months := make([]time.Month, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })

	result := make([]monthlyFinancials, 0, len(months))
	for _, m := range months {
		entry := *byMonth[m]
		entry.NetProfit = entry.Revenue - (entry.FuelCost + entry.Maintenance)
		result = append(result, entry)
	}
	writeJSON(w, http.StatusOK, result)
}

type efficiencyPoint struct {
	Month      string  `json:"month"`
	Efficiency float64 `json:"efficiency"`
}

type vehicleCost struct {
	Label string  `json:"label"`
	Cost  float64 `json:"cost"`
}

// Charts returns the monthly fuel-efficiency trend and the five costliest
// vehicles by fuel plus maintenance spend.
func (h *AnalyticsHandler) Charts(w http.ResponseWriter, r *http.Request) {
	trips, err := h.trips.FindTrips(r.Context(), bson.M{"status": models.TripCompleted})
	if err != nil {
		serverError(w, "Failed to fetch chart data", err)
		return
	}
	vehicles, err := h.vehicles.FindVehicles(r.Context(), bson.M{})
	if err != nil {
		serverError(w, "Failed to fetch chart data", err)
		return
	}
	logs, err := h.maintenance.FindMaintenanceLogs(r.Context(), bson.M{})
	if err != nil {
		serverError(w, "Failed to fetch chart data", err)
		return
	}

	type monthlyTotals struct {
		dist float64
		cost float64
	}
	byMonth := map[time.Month]*monthlyTotals{}
	for i := range trips {
		when := trips[i].StartDate
		if trips[i].EndDate != nil {
			when = *trips[i].EndDate
		}
		m := when.Month()
		if byMonth[m] == nil {
			byMonth[m] = &monthlyTotals{}
		}
		byMonth[m].dist += trips[i].ActualDistance
		byMonth[m].cost += trips[i].ActualFuelCost
	}

	months := make([]time.Month, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })

	efficiencyTrend := make([]efficiencyPoint, 0, len(months))
	for _, m := range months {
		totals := byMonth[m]
		eff := 0.0
		if totals.cost > 0 {
			// distance per liter-equivalent at the reference fuel price
			eff = math.Round(totals.dist/(totals.cost/avgFuelPrice)*100) / 100
		}
		efficiencyTrend = append(efficiencyTrend, efficiencyPoint{
			Month:      time.Date(2000, m, 1, 0, 0, 0, 0, time.UTC).Format("Jan"),
			Efficiency: eff,
		})
	}

	fuelByVehicle := map[primitive.ObjectID]float64{}
	for i := range trips {
		fuelByVehicle[trips[i].VehicleID] += trips[i].ActualFuelCost
	}
	maintByVehicle := map[primitive.ObjectID]float64{}
	for i := range logs {
		maintByVehicle[logs[i].VehicleID] += logs[i].Cost
	}

	vehicleCosts := make([]vehicleCost, 0, len(vehicles))
	for i := range vehicles {
		vehicleCosts = append(vehicleCosts, vehicleCost{
			Label: vehicles[i].LicensePlate,
			Cost:  fuelByVehicle[vehicles[i].ID] + maintByVehicle[vehicles[i].ID],
		})
	}
	sort.Slice(vehicleCosts, func(i, j int) bool { return vehicleCosts[i].Cost > vehicleCosts[j].Cost })
	if len(vehicleCosts) > 5 {
		vehicleCosts = vehicleCosts[:5]
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"efficiencyTrend": efficiencyTrend,
		"vehicleCosts":    vehicleCosts,
	})
}
