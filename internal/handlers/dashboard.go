package handlers

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coderved63/FleetFlow-Odoo/internal/db"
	"github.com/coderved63/FleetFlow-Odoo/internal/models"
)

// DashboardHandler serves the operations dashboard snapshot and its live
// websocket feed.
type DashboardHandler struct {
	trips       db.TripCollection
	vehicles    db.VehicleCollection
	maintenance db.MaintenanceCollection

	upgrader     websocket.Upgrader
	pushInterval time.Duration
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(trips db.TripCollection, vehicles db.VehicleCollection, maintenance db.MaintenanceCollection) *DashboardHandler {
	return &DashboardHandler{
		trips:       trips,
		vehicles:    vehicles,
		maintenance: maintenance,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		pushInterval: 5 * time.Second,
	}
}

type dashboardSnapshot struct {
	ActiveFleet        int64         `json:"activeFleet"`
	VehiclesInShop     int64         `json:"vehiclesInShop"`
	UtilizationRate    int           `json:"utilizationRate"`
	MaintenanceAlerts  int64         `json:"maintenanceAlerts"`
	PendingCargoWeight float64       `json:"pendingCargoWeight"`
	PendingCargoValue  float64       `json:"pendingCargoValue"`
	RecentTrips        []models.Trip `json:"recentTrips"`
}

func (h *DashboardHandler) snapshot(ctx context.Context) (*dashboardSnapshot, error) {
	activeTrips, err := h.trips.CountTrips(ctx, bson.M{"status": models.TripDispatched})
	if err != nil {
		return nil, err
	}
	inShop, err := h.vehicles.CountVehicles(ctx, bson.M{"status": models.VehicleInShop})
	if err != nil {
		return nil, err
	}
	pendingMaintenance, err := h.maintenance.CountMaintenanceLogs(ctx, bson.M{"status": models.MaintenancePending})
	if err != nil {
		return nil, err
	}
	// Vehicles in service rotation: available or out on a trip
	totalVehicles, err := h.vehicles.CountVehicles(ctx, bson.M{
		"status": bson.M{"$in": bson.A{models.VehicleAvailable, models.VehicleOnTrip}},
	})
	if err != nil {
		return nil, err
	}

	dispatched, err := h.trips.FindTrips(ctx, bson.M{"status": models.TripDispatched})
	if err != nil {
		return nil, err
	}
	var cargoWeight, cargoValue float64
	for i := range dispatched {
		cargoWeight += dispatched[i].CargoWeight
		cargoValue += dispatched[i].EstimatedTripPrice
	}

	recentOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(6)
	recent, err := h.trips.FindTrips(ctx, bson.M{}, recentOpts)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []models.Trip{}
	}

	utilization := 0
	if totalVehicles > 0 {
		utilization = int(math.Round(float64(activeTrips) / float64(totalVehicles) * 100))
	}

	return &dashboardSnapshot{
		ActiveFleet:        activeTrips,
		VehiclesInShop:     inShop,
		UtilizationRate:    utilization,
		MaintenanceAlerts:  pendingMaintenance,
		PendingCargoWeight: cargoWeight,
		PendingCargoValue:  cargoValue,
		RecentTrips:        recent,
	}, nil
}

// Summary returns the operations dashboard metrics
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshot(r.Context())
	if err != nil {
		serverError(w, "Failed to fetch dashboard metrics", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Live upgrades to a websocket and pushes dashboard snapshots until the
// client goes away.
func (h *DashboardHandler) Live(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("dashboard websocket upgrade failed")
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(h.pushInterval)
	defer ticker.Stop()

	for {
		snap, err := h.snapshot(r.Context())
		if err != nil {
			log.WithError(err).Warn("dashboard snapshot failed")
			return
		}
		if err := conn.WriteJSON(snap); err != nil {
			return
		}

		select {
		case <-ticker.C:
		case <-r.Context().Done():
			return
		}
	}
}
