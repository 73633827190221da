package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/coderved63/FleetFlow-Odoo/internal/db"
	"github.com/coderved63/FleetFlow-Odoo/internal/events"
	"github.com/coderved63/FleetFlow-Odoo/internal/models"
)

type logIncidentRequest struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// LogIncident records a safety incident against a driver and applies the
// score deduction in the same transaction: either both the incident row and
// the updated driver are visible, or neither is.
func (h *DriverHandler) LogIncident(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var req logIncidentRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	deduction, ok := models.IncidentDeduction(req.Type)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid incident type")
		return
	}

	driver, err := h.drivers.FindDriverByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Driver not found")
			return
		}
		serverError(w, "Server error logging incident", err)
		return
	}

	incident := models.DriverIncident{
		DriverID:      driver.ID,
		Type:          req.Type,
		Description:   req.Description,
		SeverityScore: deduction,
		Date:          time.Now(),
	}

	driver.ApplyIncident(req.Type, deduction)

	var created *models.DriverIncident
	err = h.tx.WithTransaction(r.Context(), func(ctx context.Context) error {
		var txErr error
		created, txErr = h.incidents.InsertIncident(ctx, incident)
		if txErr != nil {
			return txErr
		}
		return h.drivers.SetDriverFields(ctx, driver.ID, bson.M{
			"safety_score": driver.SafetyScore,
			"duty_status":  driver.DutyStatus,
			"complaints":   driver.Complaints,
		})
	})
	if err != nil {
		serverError(w, "Server error logging incident", err)
		return
	}

	h.publisher.Publish(events.DriverIncident, created)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"incident": created,
		"driver":   driver,
	})
}

// ListIncidents returns a driver's incident history, newest first
func (h *DriverHandler) ListIncidents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	driver, err := h.drivers.FindDriverByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Driver not found")
			return
		}
		serverError(w, "Server error fetching incidents", err)
		return
	}

	incidents, err := h.incidents.FindIncidentsByDriver(r.Context(), driver.ID)
	if err != nil {
		serverError(w, "Server error fetching incidents", err)
		return
	}
	if incidents == nil {
		incidents = []models.DriverIncident{}
	}
	writeJSON(w, http.StatusOK, incidents)
}

// Stats summarizes the fleet's safety standing: suspended drivers, drivers
// under the soft flagged threshold and the average score.
func (h *DriverHandler) Stats(w http.ResponseWriter, r *http.Request) {
	h.sweepExpiredLicenses(r)

	drivers, err := h.drivers.FindDrivers(r.Context(), bson.M{})
	if err != nil {
		serverError(w, "Server error fetching drivers", err)
		return
	}

	var suspended, flagged, scoreSum int
	for i := range drivers {
		if drivers[i].DutyStatus == models.DutySuspended {
			suspended++
		}
		if drivers[i].Flagged() {
			flagged++
		}
		scoreSum += drivers[i].SafetyScore
	}

	avg := 0.0
	if len(drivers) > 0 {
		avg = float64(scoreSum) / float64(len(drivers))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total":        len(drivers),
		"suspended":    suspended,
		"flagged":      flagged,
		"averageScore": avg,
	})
}
