package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coderved63/FleetFlow-Odoo/internal/db"
	"github.com/coderved63/FleetFlow-Odoo/internal/models"
)

// VehicleHandler handles the fleet registry endpoints.
type VehicleHandler struct {
	vehicles db.VehicleCollection
}

// NewVehicleHandler creates a new vehicle handler
func NewVehicleHandler(vehicles db.VehicleCollection) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles}
}

// List returns all vehicles, newest first
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	vehicles, err := h.vehicles.FindVehicles(r.Context(), bson.M{}, opts)
	if err != nil {
		serverError(w, "Failed to fetch vehicles", err)
		return
	}
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}
	writeJSON(w, http.StatusOK, vehicles)
}

type createVehicleRequest struct {
	Name            string  `json:"name"`
	LicensePlate    string  `json:"licensePlate"`
	Type            string  `json:"type"`
	MaxLoadCapacity float64 `json:"maxLoadCapacity"`
	AcquisitionCost float64 `json:"acquisitionCost"`
	Odometer        float64 `json:"odometer"`
	Status          string  `json:"status"`
}

// Create registers a new vehicle
func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var req createVehicleRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.LicensePlate == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "License plate and name are required")
		return
	}

	status := req.Status
	if status == "" {
		status = models.VehicleAvailable
	}
	if !models.IsValidVehicleStatus(status) {
		writeError(w, http.StatusBadRequest, "Invalid vehicle status")
		return
	}

	vehicle := models.Vehicle{
		Name:            req.Name,
		LicensePlate:    req.LicensePlate,
		Type:            req.Type,
		MaxLoadCapacity: req.MaxLoadCapacity,
		AcquisitionCost: req.AcquisitionCost,
		Odometer:        req.Odometer,
		Status:          status,
		CreatedAt:       time.Now(),
	}

	created, err := h.vehicles.InsertVehicle(r.Context(), vehicle)
	if err != nil {
		if db.IsDuplicateKey(err) {
			writeError(w, http.StatusBadRequest, "License plate already exists")
			return
		}
		serverError(w, "Failed to create vehicle", err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// UpdateStatus overrides a vehicle's status. Deliberately unconstrained
// beyond enum membership: this is the fleet manager's escape hatch.
func (h *VehicleHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if !models.IsValidVehicleStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "Invalid vehicle status")
		return
	}

	vehicle, err := h.vehicles.FindVehicleByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Vehicle not found")
			return
		}
		serverError(w, "Failed to update vehicle status", err)
		return
	}

	if err := h.vehicles.SetVehicleFields(r.Context(), vehicle.ID, bson.M{"status": req.Status}); err != nil {
		serverError(w, "Failed to update vehicle status", err)
		return
	}

	vehicle.Status = req.Status
	writeJSON(w, http.StatusOK, vehicle)
}
