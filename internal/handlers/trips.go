package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coderved63/FleetFlow-Odoo/internal/db"
	"github.com/coderved63/FleetFlow-Odoo/internal/events"
	"github.com/coderved63/FleetFlow-Odoo/internal/models"
)

// tripSequence is the counter document backing trip id generation.
const tripSequence = "trips"

// TripHandler implements the dispatch workflow: the state transitions that
// couple vehicle availability, driver eligibility and trip status.
type TripHandler struct {
	trips     db.TripCollection
	vehicles  db.VehicleCollection
	drivers   db.DriverCollection
	counters  db.CounterCollection
	tx        db.TxRunner
	publisher events.Publisher
}

// NewTripHandler creates a new trip handler
func NewTripHandler(trips db.TripCollection, vehicles db.VehicleCollection, drivers db.DriverCollection, counters db.CounterCollection, tx db.TxRunner, publisher events.Publisher) *TripHandler {
	return &TripHandler{
		trips:     trips,
		vehicles:  vehicles,
		drivers:   drivers,
		counters:  counters,
		tx:        tx,
		publisher: publisher,
	}
}

// List returns all trips, newest first
func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	trips, err := h.trips.FindTrips(r.Context(), bson.M{}, opts)
	if err != nil {
		serverError(w, "Failed to fetch trips", err)
		return
	}
	if trips == nil {
		trips = []models.Trip{}
	}
	writeJSON(w, http.StatusOK, trips)
}

type dispatchRequest struct {
	VehicleID               string  `json:"vehicleId"`
	DriverID                string  `json:"driverId"`
	CargoWeight             float64 `json:"cargoWeight"`
	Origin                  string  `json:"origin"`
	Destination             string  `json:"destination"`
	EstimatedDistance       float64 `json:"estimatedDistance"`
	EstimatedFuelPricePerKm float64 `json:"estimatedFuelPricePerKm"`
}

// Dispatch creates a new trip. The vehicle must be available and able to
// carry the cargo; the driver must pass the eligibility predicate. The trip
// insert and the vehicle/driver state flips commit as one unit.
func (h *TripHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var req dispatchRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	vehicle, err := h.vehicles.FindVehicleByID(r.Context(), req.VehicleID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Vehicle not found")
			return
		}
		serverError(w, "Failed to dispatch trip", err)
		return
	}
	if vehicle.Status != models.VehicleAvailable {
		writeError(w, http.StatusBadRequest, "Vehicle is not available for dispatch")
		return
	}
	if req.CargoWeight > vehicle.MaxLoadCapacity {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Cargo weight exceeds vehicle max capacity of %gkg", vehicle.MaxLoadCapacity))
		return
	}

	driver, err := h.drivers.FindDriverByID(r.Context(), req.DriverID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Driver not found")
			return
		}
		serverError(w, "Failed to dispatch trip", err)
		return
	}
	if !driver.Eligible(time.Now()) {
		writeError(w, http.StatusBadRequest, "Driver is not eligible for dispatch")
		return
	}

	seq, err := h.counters.NextSequence(r.Context(), tripSequence)
	if err != nil {
		serverError(w, "Failed to dispatch trip", err)
		return
	}

	now := time.Now()
	trip := models.Trip{
		TripID:                  models.FormatTripID(now, seq),
		VehicleID:               vehicle.ID,
		DriverID:                driver.ID,
		CargoWeight:             req.CargoWeight,
		Origin:                  req.Origin,
		Destination:             req.Destination,
		EstimatedDistance:       req.EstimatedDistance,
		EstimatedFuelPricePerKm: req.EstimatedFuelPricePerKm,
		EstimatedTripPrice:      models.EstimateTripPrice(req.EstimatedDistance, req.EstimatedFuelPricePerKm),
		Status:                  models.TripDispatched,
		StartOdometer:           vehicle.Odometer,
		StartDate:               now,
		CreatedAt:               now,
	}

	var created *models.Trip
	err = h.tx.WithTransaction(r.Context(), func(ctx context.Context) error {
		var txErr error
		created, txErr = h.trips.InsertTrip(ctx, trip)
		if txErr != nil {
			return txErr
		}
		if txErr = h.vehicles.SetVehicleFields(ctx, vehicle.ID, bson.M{"status": models.VehicleOnTrip}); txErr != nil {
			return txErr
		}
		return h.drivers.SetDriverFields(ctx, driver.ID, bson.M{"availability": models.DriverOnTrip})
	})
	if err != nil {
		serverError(w, "Failed to dispatch trip", err)
		return
	}

	h.publisher.Publish(events.TripDispatched, created)
	writeJSON(w, http.StatusCreated, created)
}

type completeTripRequest struct {
	EndOdometer         float64 `json:"endOdometer"`
	ActualFuelCostPerKm float64 `json:"actualFuelCostPerKm"`
	Revenue             float64 `json:"revenue"`
}

// Complete closes out a dispatched trip: derives the actuals from the
// odometer delta, frees the vehicle and driver, and rolls the vehicle
// odometer forward. All in one unit of work.
func (h *TripHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var req completeTripRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	trip, err := h.trips.FindTripByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Trip not found")
			return
		}
		serverError(w, "Failed to complete trip", err)
		return
	}
	if trip.Status != models.TripDispatched {
		writeError(w, http.StatusBadRequest, "Trip is not in a dispatchable state")
		return
	}
	if req.EndOdometer <= trip.StartOdometer {
		writeError(w, http.StatusBadRequest, "End odometer must be greater than start odometer")
		return
	}

	settlement := models.SettleTrip(trip.StartOdometer, req.EndOdometer, req.ActualFuelCostPerKm)
	now := time.Now()

	err = h.tx.WithTransaction(r.Context(), func(ctx context.Context) error {
		txErr := h.trips.SetTripFields(ctx, trip.ID, bson.M{
			"status":            models.TripCompleted,
			"end_odometer":      req.EndOdometer,
			"actual_distance":   settlement.ActualDistance,
			"actual_fuel_cost":  settlement.ActualFuelCost,
			"actual_trip_price": settlement.ActualTripPrice,
			"revenue":           req.Revenue,
			"end_date":          now,
		})
		if txErr != nil {
			return txErr
		}
		txErr = h.vehicles.SetVehicleFields(ctx, trip.VehicleID, bson.M{
			"status":   models.VehicleAvailable,
			"odometer": req.EndOdometer,
		})
		if txErr != nil {
			return txErr
		}
		return h.drivers.SetDriverFields(ctx, trip.DriverID, bson.M{"availability": models.DriverAvailable})
	})
	if err != nil {
		serverError(w, "Failed to complete trip", err)
		return
	}

	trip.Status = models.TripCompleted
	trip.EndOdometer = req.EndOdometer
	trip.ActualDistance = settlement.ActualDistance
	trip.ActualFuelCost = settlement.ActualFuelCost
	trip.ActualTripPrice = settlement.ActualTripPrice
	trip.Revenue = req.Revenue
	trip.EndDate = &now

	h.publisher.Publish(events.TripCompleted, trip)
	writeJSON(w, http.StatusOK, trip)
}

// UpdateStatus cancels a dispatched trip, freeing the vehicle and driver
// without touching the odometer. Terminal trips cannot be reopened.
func (h *TripHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Status != models.TripCancelled {
		writeError(w, http.StatusBadRequest, "Only cancellation is allowed through this endpoint")
		return
	}

	trip, err := h.trips.FindTripByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Trip not found")
			return
		}
		serverError(w, "Failed to update trip status", err)
		return
	}
	if trip.Status != models.TripDispatched {
		writeError(w, http.StatusBadRequest, "Trip is not in a dispatchable state")
		return
	}

	err = h.tx.WithTransaction(r.Context(), func(ctx context.Context) error {
		txErr := h.trips.SetTripFields(ctx, trip.ID, bson.M{"status": models.TripCancelled})
		if txErr != nil {
			return txErr
		}
		txErr = h.vehicles.SetVehicleFields(ctx, trip.VehicleID, bson.M{"status": models.VehicleAvailable})
		if txErr != nil {
			return txErr
		}
		return h.drivers.SetDriverFields(ctx, trip.DriverID, bson.M{"availability": models.DriverAvailable})
	})
	if err != nil {
		serverError(w, "Failed to update trip status", err)
		return
	}

	trip.Status = models.TripCancelled
	h.publisher.Publish(events.TripCancelled, trip)
	writeJSON(w, http.StatusOK, trip)
}

// FilterVehicles lists available vehicles able to carry the given cargo
// weight. Used by the dispatch form.
func (h *TripHandler) FilterVehicles(w http.ResponseWriter, r *http.Request) {
	weightParam := r.URL.Query().Get("cargoWeight")
	weight, err := strconv.ParseFloat(weightParam, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid cargo weight")
		return
	}

	filter := bson.M{
		"status":            models.VehicleAvailable,
		"max_load_capacity": bson.M{"$gte": weight},
	}
	vehicles, err := h.vehicles.FindVehicles(r.Context(), filter)
	if err != nil {
		serverError(w, "Failed to fetch vehicles", err)
		return
	}
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}
	writeJSON(w, http.StatusOK, vehicles)
}

// FilterDrivers lists dispatchable drivers licensed for the given vehicle
// type. Used by the dispatch form.
func (h *TripHandler) FilterDrivers(w http.ResponseWriter, r *http.Request) {
	vehicleType := r.URL.Query().Get("vehicleType")
	if vehicleType == "" {
		writeError(w, http.StatusBadRequest, "Vehicle type is required")
		return
	}

	drivers, err := h.drivers.FindDrivers(r.Context(), bson.M{"license_category": vehicleType})
	if err != nil {
		serverError(w, "Failed to fetch drivers", err)
		return
	}

	now := time.Now()
	eligible := []models.Driver{}
	for i := range drivers {
		if drivers[i].Eligible(now) {
			eligible = append(eligible, drivers[i])
		}
	}
	writeJSON(w, http.StatusOK, eligible)
}
