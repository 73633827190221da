package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/coderved63/FleetFlow-Odoo/internal/models"
)

// duplicateKeyErr builds the driver error shape produced by a unique index
// violation.
func duplicateKeyErr() error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
}

func newVehicleTestRouter(h *VehicleHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/api/vehicles", h.List)
	r.Post("/api/vehicles", h.Create)
	r.Patch("/api/vehicles/{id}/status", h.UpdateStatus)
	return r
}

func TestVehicleHandler_Create(t *testing.T) {
	t.Run("creates with default status", func(t *testing.T) {
		vehicles := new(MockVehicleCollection)
		vehicles.On("InsertVehicle", mock.Anything, mock.MatchedBy(func(v models.Vehicle) bool {
			return v.LicensePlate == "MH-12-PK-3456" && v.Status == models.VehicleAvailable
		})).Return(&models.Vehicle{LicensePlate: "MH-12-PK-3456", Status: models.VehicleAvailable}, nil)

		body, _ := json.Marshal(map[string]interface{}{
			"name":            "Fleet Unit 026",
			"licensePlate":    "MH-12-PK-3456",
			"type":            models.VehicleTruck,
			"maxLoadCapacity": 5000,
			"acquisitionCost": 2500000,
			"odometer":        0,
		})
		req := httptest.NewRequest("POST", "/api/vehicles", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		newVehicleTestRouter(NewVehicleHandler(vehicles)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		vehicles.AssertExpectations(t)
	})

	t.Run("missing required fields", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"name": "Fleet Unit 026"})
		req := httptest.NewRequest("POST", "/api/vehicles", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		newVehicleTestRouter(NewVehicleHandler(new(MockVehicleCollection))).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "License plate and name are required", decodeError(t, w))
	})

	t.Run("duplicate license plate", func(t *testing.T) {
		vehicles := new(MockVehicleCollection)
		vehicles.On("InsertVehicle", mock.Anything, mock.Anything).Return(nil, duplicateKeyErr())

		body, _ := json.Marshal(map[string]string{
			"name":         "Fleet Unit 001",
			"licensePlate": "MH-11-PK-1001",
		})
		req := httptest.NewRequest("POST", "/api/vehicles", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		newVehicleTestRouter(NewVehicleHandler(vehicles)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "License plate already exists", decodeError(t, w))
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{
			"name":         "Fleet Unit 001",
			"licensePlate": "MH-11-PK-1001",
			"status":       "Parked",
		})
		req := httptest.NewRequest("POST", "/api/vehicles", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		newVehicleTestRouter(NewVehicleHandler(new(MockVehicleCollection))).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestVehicleHandler_List(t *testing.T) {
	vehicles := new(MockVehicleCollection)
	vehicles.On("FindVehicles", mock.Anything, bson.M{}).Return([]models.Vehicle{*availableVehicle()}, nil)

	req := httptest.NewRequest("GET", "/api/vehicles", nil)
	w := httptest.NewRecorder()
	newVehicleTestRouter(NewVehicleHandler(vehicles)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got []models.Vehicle
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 1)
}

func TestVehicleHandler_UpdateStatus(t *testing.T) {
	t.Run("valid transition", func(t *testing.T) {
		vehicle := availableVehicle()
		vehicles := new(MockVehicleCollection)
		vehicles.On("FindVehicleByID", mock.Anything, vehicle.ID.Hex()).Return(vehicle, nil)
		vehicles.On("SetVehicleFields", mock.Anything, vehicle.ID, bson.M{"status": models.VehicleOutOfService}).Return(nil)

		body, _ := json.Marshal(map[string]string{"status": models.VehicleOutOfService})
		req := httptest.NewRequest("PATCH", "/api/vehicles/"+vehicle.ID.Hex()+"/status", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		newVehicleTestRouter(NewVehicleHandler(vehicles)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var got models.Vehicle
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, models.VehicleOutOfService, got.Status)
		vehicles.AssertExpectations(t)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		vehicle := availableVehicle()
		body, _ := json.Marshal(map[string]string{"status": "Scrapped"})
		req := httptest.NewRequest("PATCH", "/api/vehicles/"+vehicle.ID.Hex()+"/status", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		newVehicleTestRouter(NewVehicleHandler(new(MockVehicleCollection))).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid vehicle status", decodeError(t, w))
	})
}
