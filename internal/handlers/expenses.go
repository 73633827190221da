package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coderved63/FleetFlow-Odoo/internal/db"
	"github.com/coderved63/FleetFlow-Odoo/internal/models"
)

// ExpenseHandler handles the expense ledger.
type ExpenseHandler struct {
	expenses db.ExpenseCollection
	trips    db.TripCollection
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenses db.ExpenseCollection, trips db.TripCollection) *ExpenseHandler {
	return &ExpenseHandler{
		expenses: expenses,
		trips:    trips,
	}
}

// List returns all logged expenses, newest first
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	expenses, err := h.expenses.FindExpenses(r.Context(), bson.M{}, opts)
	if err != nil {
		serverError(w, "Failed to fetch expenses", err)
		return
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

type logExpenseRequest struct {
	TripID      string  `json:"tripId"`
	Driver      string  `json:"driver"`
	Distance    float64 `json:"distance"`
	FuelCost    float64 `json:"fuelCost"`
	MiscExpense float64 `json:"miscExpense"`
}

// Create logs an expense against a completed trip. The unique index on
// trip_id guarantees at most one expense per trip.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var req logExpenseRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.TripID == "" {
		writeError(w, http.StatusBadRequest, "Trip ID is required")
		return
	}

	expense := models.Expense{
		TripID:      req.TripID,
		Driver:      req.Driver,
		Distance:    req.Distance,
		FuelCost:    req.FuelCost,
		MiscExpense: req.MiscExpense,
		CreatedAt:   time.Now(),
	}

	created, err := h.expenses.InsertExpense(r.Context(), expense)
	if err != nil {
		if db.IsDuplicateKey(err) {
			writeError(w, http.StatusBadRequest, "Expense already logged for this trip")
			return
		}
		serverError(w, "Failed to log expense", err)
		return
	}

	// The trip record itself is never mutated here; its "logged" state is
	// derived from the presence of this expense row.
	writeJSON(w, http.StatusCreated, created)
}

// PendingTrips returns completed trips that have no expense row yet.
func (h *ExpenseHandler) PendingTrips(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.expenses.FindExpenses(r.Context(), bson.M{})
	if err != nil {
		serverError(w, "Failed to fetch pending trips", err)
		return
	}

	loggedTripIDs := make([]string, 0, len(expenses))
	for i := range expenses {
		loggedTripIDs = append(loggedTripIDs, expenses[i].TripID)
	}

	filter := bson.M{
		"status":  models.TripCompleted,
		"trip_id": bson.M{"$nin": loggedTripIDs},
	}
	trips, err := h.trips.FindTrips(r.Context(), filter)
	if err != nil {
		serverError(w, "Failed to fetch pending trips", err)
		return
	}
	if trips == nil {
		trips = []models.Trip{}
	}
	writeJSON(w, http.StatusOK, trips)
}
