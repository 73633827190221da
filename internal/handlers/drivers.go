package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coderved63/FleetFlow-Odoo/internal/db"
	"github.com/coderved63/FleetFlow-Odoo/internal/events"
	"github.com/coderved63/FleetFlow-Odoo/internal/models"
)

// DriverHandler handles the driver registry and the safety engine.
type DriverHandler struct {
	drivers   db.DriverCollection
	incidents db.IncidentCollection
	tx        db.TxRunner
	publisher events.Publisher
}

// NewDriverHandler creates a new driver handler
func NewDriverHandler(drivers db.DriverCollection, incidents db.IncidentCollection, tx db.TxRunner, publisher events.Publisher) *DriverHandler {
	return &DriverHandler{
		drivers:   drivers,
		incidents: incidents,
		tx:        tx,
		publisher: publisher,
	}
}

// sweepExpiredLicenses suspends every driver whose license has lapsed.
// Evaluated on read so the registry never serves a stale duty status.
func (h *DriverHandler) sweepExpiredLicenses(r *http.Request) {
	suspended, err := h.drivers.SuspendExpiredLicenses(r.Context(), time.Now())
	if err != nil {
		log.WithError(err).Warn("license expiry sweep failed")
		return
	}
	if suspended > 0 {
		log.WithField("drivers", suspended).Info("suspended drivers with expired licenses")
	}
}

// List returns drivers with optional filtering and sorting. Query params:
// status, availability, search (name or license number), sortBy
// (safetyScore | expiryDate).
func (h *DriverHandler) List(w http.ResponseWriter, r *http.Request) {
	h.sweepExpiredLicenses(r)

	q := r.URL.Query()
	filter := bson.M{}
	if status := q.Get("status"); status != "" {
		filter["duty_status"] = status
	}
	if availability := q.Get("availability"); availability != "" {
		filter["availability"] = availability
	}
	if search := q.Get("search"); search != "" {
		regex := primitive.Regex{Pattern: search, Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": regex},
			bson.M{"license_number": regex},
		}
	}

	sort := bson.D{{Key: "created_at", Value: -1}}
	switch q.Get("sortBy") {
	case "safetyScore":
		// Lowest first to highlight risks
		sort = bson.D{{Key: "safety_score", Value: 1}}
	case "expiryDate":
		// Earliest first
		sort = bson.D{{Key: "license_expiry", Value: 1}}
	}

	drivers, err := h.drivers.FindDrivers(r.Context(), filter, options.Find().SetSort(sort))
	if err != nil {
		serverError(w, "Failed to fetch drivers", err)
		return
	}
	if drivers == nil {
		drivers = []models.Driver{}
	}
	writeJSON(w, http.StatusOK, drivers)
}

type createDriverRequest struct {
	Name            string `json:"name"`
	LicenseNumber   string `json:"licenseNumber"`
	LicenseCategory string `json:"licenseCategory"`
	LicenseExpiry   string `json:"licenseExpiry"`
}

// Create registers a new driver with a clean safety record
func (h *DriverHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var req createDriverRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" || req.LicenseNumber == "" {
		writeError(w, http.StatusBadRequest, "Name and license number are required")
		return
	}

	expiry, err := time.Parse(time.RFC3339, req.LicenseExpiry)
	if err != nil {
		// accept plain dates from the dashboard form
		expiry, err = time.Parse("2006-01-02", req.LicenseExpiry)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid license expiry date")
			return
		}
	}

	driver := models.Driver{
		Name:            req.Name,
		LicenseNumber:   req.LicenseNumber,
		LicenseCategory: req.LicenseCategory,
		LicenseExpiry:   expiry,
		DutyStatus:      models.DutyOnDuty,
		Availability:    models.DriverAvailable,
		SafetyScore:     100,
		Complaints:      0,
		CreatedAt:       time.Now(),
	}

	created, err := h.drivers.InsertDriver(r.Context(), driver)
	if err != nil {
		if db.IsDuplicateKey(err) {
			writeError(w, http.StatusBadRequest, "License number already exists")
			return
		}
		serverError(w, "Server error creating driver", err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// UpdateDutyStatus overrides a driver's duty status (manual duty control)
func (h *DriverHandler) UpdateDutyStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		DutyStatus string `json:"dutyStatus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if !models.IsValidDutyStatus(req.DutyStatus) {
		writeError(w, http.StatusBadRequest, "Invalid duty status")
		return
	}

	driver, err := h.drivers.FindDriverByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Driver not found")
			return
		}
		serverError(w, "Server error updating status", err)
		return
	}

	if err := h.drivers.SetDriverFields(r.Context(), driver.ID, bson.M{"duty_status": req.DutyStatus}); err != nil {
		serverError(w, "Server error updating status", err)
		return
	}

	driver.DutyStatus = req.DutyStatus
	writeJSON(w, http.StatusOK, driver)
}
