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
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coderved63/FleetFlow-Odoo/internal/db"
	"github.com/coderved63/FleetFlow-Odoo/internal/events"
	"github.com/coderved63/FleetFlow-Odoo/internal/models"
)

func newSafetyTestRouter(h *DriverHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Post("/api/safety/drivers/{id}/incidents", h.LogIncident)
	r.Get("/api/safety/drivers/{id}/incidents", h.ListIncidents)
	r.Get("/api/safety/stats", h.Stats)
	return r
}

func incidentBody(t *testing.T, incidentType string) []byte {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"type":        incidentType,
		"description": "reported by dispatch",
	})
	return body
}

func TestDriverHandler_LogIncident(t *testing.T) {
	t.Run("major incident deducts thirty points", func(t *testing.T) {
		driver := eligibleDriver()
		driver.SafetyScore = 70

		drivers := new(MockDriverCollection)
		drivers.On("FindDriverByID", mock.Anything, driver.ID.Hex()).Return(driver, nil)
		drivers.On("SetDriverFields", mock.Anything, driver.ID, bson.M{
			"safety_score": 40,
			"duty_status":  models.DutyOnDuty,
			"complaints":   0,
		}).Return(nil)

		incidents := new(MockIncidentCollection)
		incidents.On("InsertIncident", mock.Anything, mock.MatchedBy(func(in models.DriverIncident) bool {
			return in.DriverID == driver.ID && in.Type == models.IncidentMajor && in.SeverityScore == 30
		})).Return(&models.DriverIncident{Type: models.IncidentMajor, SeverityScore: 30}, nil)

		publisher := &recordingPublisher{}
		handler := NewDriverHandler(drivers, incidents, passthroughTxRunner{}, publisher)

		req := httptest.NewRequest("POST", "/api/safety/drivers/"+driver.ID.Hex()+"/incidents", bytes.NewBuffer(incidentBody(t, models.IncidentMajor)))
		w := httptest.NewRecorder()
		newSafetyTestRouter(handler).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		drivers.AssertExpectations(t)
		incidents.AssertExpectations(t)
		assert.Equal(t, []string{events.DriverIncident}, publisher.events)
	})

	t.Run("score below threshold suspends the driver", func(t *testing.T) {
		driver := eligibleDriver()
		driver.SafetyScore = 40

		drivers := new(MockDriverCollection)
		drivers.On("FindDriverByID", mock.Anything, driver.ID.Hex()).Return(driver, nil)
		drivers.On("SetDriverFields", mock.Anything, driver.ID, bson.M{
			"safety_score": 10,
			"duty_status":  models.DutySuspended,
			"complaints":   0,
		}).Return(nil)

		incidents := new(MockIncidentCollection)
		incidents.On("InsertIncident", mock.Anything, mock.Anything).Return(&models.DriverIncident{}, nil)

		handler := NewDriverHandler(drivers, incidents, passthroughTxRunner{}, &recordingPublisher{})
		req := httptest.NewRequest("POST", "/api/safety/drivers/"+driver.ID.Hex()+"/incidents", bytes.NewBuffer(incidentBody(t, models.IncidentMajor)))
		w := httptest.NewRecorder()
		newSafetyTestRouter(handler).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		drivers.AssertExpectations(t)
	})

	t.Run("complaint bumps the complaint count", func(t *testing.T) {
		driver := eligibleDriver()
		driver.SafetyScore = 90
		driver.Complaints = 2

		drivers := new(MockDriverCollection)
		drivers.On("FindDriverByID", mock.Anything, driver.ID.Hex()).Return(driver, nil)
		drivers.On("SetDriverFields", mock.Anything, driver.ID, bson.M{
			"safety_score": 80,
			"duty_status":  models.DutyOnDuty,
			"complaints":   3,
		}).Return(nil)

		incidents := new(MockIncidentCollection)
		incidents.On("InsertIncident", mock.Anything, mock.Anything).Return(&models.DriverIncident{}, nil)

		handler := NewDriverHandler(drivers, incidents, passthroughTxRunner{}, &recordingPublisher{})
		req := httptest.NewRequest("POST", "/api/safety/drivers/"+driver.ID.Hex()+"/incidents", bytes.NewBuffer(incidentBody(t, models.IncidentComplaint)))
		w := httptest.NewRecorder()
		newSafetyTestRouter(handler).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		drivers.AssertExpectations(t)
	})

	t.Run("unknown incident type rejected", func(t *testing.T) {
		handler := NewDriverHandler(new(MockDriverCollection), new(MockIncidentCollection), passthroughTxRunner{}, &recordingPublisher{})
		req := httptest.NewRequest("POST", "/api/safety/drivers/"+primitive.NewObjectID().Hex()+"/incidents", bytes.NewBuffer(incidentBody(t, "SPEEDING")))
		w := httptest.NewRecorder()
		newSafetyTestRouter(handler).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid incident type", decodeError(t, w))
	})

	t.Run("driver not found", func(t *testing.T) {
		drivers := new(MockDriverCollection)
		drivers.On("FindDriverByID", mock.Anything, mock.Anything).Return(nil, db.ErrNotFound)

		handler := NewDriverHandler(drivers, new(MockIncidentCollection), passthroughTxRunner{}, &recordingPublisher{})
		req := httptest.NewRequest("POST", "/api/safety/drivers/"+primitive.NewObjectID().Hex()+"/incidents", bytes.NewBuffer(incidentBody(t, models.IncidentLate)))
		w := httptest.NewRecorder()
		newSafetyTestRouter(handler).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDriverHandler_ListIncidents(t *testing.T) {
	driver := eligibleDriver()

	drivers := new(MockDriverCollection)
	drivers.On("FindDriverByID", mock.Anything, driver.ID.Hex()).Return(driver, nil)

	incidents := new(MockIncidentCollection)
	incidents.On("FindIncidentsByDriver", mock.Anything, driver.ID).Return([]models.DriverIncident{
		{DriverID: driver.ID, Type: models.IncidentLate, SeverityScore: 5},
	}, nil)

	handler := NewDriverHandler(drivers, incidents, passthroughTxRunner{}, &recordingPublisher{})
	req := httptest.NewRequest("GET", "/api/safety/drivers/"+driver.ID.Hex()+"/incidents", nil)
	w := httptest.NewRecorder()
	newSafetyTestRouter(handler).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got []models.DriverIncident
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 1)
}

func TestDriverHandler_Stats(t *testing.T) {
	suspended := eligibleDriver()
	suspended.DutyStatus = models.DutySuspended
	suspended.SafetyScore = 20
	flagged := eligibleDriver()
	flagged.SafetyScore = 55
	healthy := eligibleDriver()
	healthy.SafetyScore = 90

	drivers := new(MockDriverCollection)
	drivers.On("SuspendExpiredLicenses", mock.Anything, mock.Anything).Return(int64(0), nil)
	drivers.On("FindDrivers", mock.Anything, bson.M{}).Return([]models.Driver{*suspended, *flagged, *healthy}, nil)

	handler := NewDriverHandler(drivers, new(MockIncidentCollection), passthroughTxRunner{}, &recordingPublisher{})
	req := httptest.NewRequest("GET", "/api/safety/stats", nil)
	w := httptest.NewRecorder()
	newSafetyTestRouter(handler).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got map[string]float64
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 3.0, got["total"])
	assert.Equal(t, 1.0, got["suspended"])
	// the suspended driver's low score also counts as flagged
	assert.Equal(t, 2.0, got["flagged"])
	assert.Equal(t, 55.0, got["averageScore"])
}
