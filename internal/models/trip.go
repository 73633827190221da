package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trip statuses. Completed and Cancelled are terminal.
const (
	TripDispatched = "Dispatched"
	TripCompleted  = "Completed"
	TripCancelled  = "Cancelled"
)

// TripPriceMarkup is the fixed margin applied on top of fuel cost when
// pricing a trip.
const TripPriceMarkup = 1.5

// Trip represents a dispatched cargo run from origin to destination.
type Trip struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TripID                 string             `bson:"trip_id" json:"tripId"`
	VehicleID              primitive.ObjectID `bson:"vehicle_id" json:"vehicleId"`
	DriverID               primitive.ObjectID `bson:"driver_id" json:"driverId"`
	CargoWeight            float64            `bson:"cargo_weight" json:"cargoWeight"` // in kg
	Origin                 string             `bson:"origin" json:"origin"`
	Destination            string             `bson:"destination" json:"destination"`
	EstimatedDistance      float64            `bson:"estimated_distance" json:"estimatedDistance"` // in kilometers
	EstimatedFuelPricePerKm float64           `bson:"estimated_fuel_price_per_km" json:"estimatedFuelPricePerKm"`
	EstimatedTripPrice     float64            `bson:"estimated_trip_price" json:"estimatedTripPrice"`
	Status                 string             `bson:"status" json:"status"`
	StartOdometer          float64            `bson:"start_odometer" json:"startOdometer"`
	EndOdometer            float64            `bson:"end_odometer,omitempty" json:"endOdometer,omitempty"`
	ActualDistance         float64            `bson:"actual_distance,omitempty" json:"actualDistance,omitempty"`
	ActualFuelCost         float64            `bson:"actual_fuel_cost,omitempty" json:"actualFuelCost,omitempty"`
	ActualTripPrice        float64            `bson:"actual_trip_price,omitempty" json:"actualTripPrice,omitempty"`
	Revenue                float64            `bson:"revenue,omitempty" json:"revenue,omitempty"`
	StartDate              time.Time          `bson:"start_date" json:"startDate"`
	EndDate                *time.Time         `bson:"end_date,omitempty" json:"endDate,omitempty"`
	CreatedAt              time.Time          `bson:"created_at" json:"createdAt"`
}

// FormatTripID renders a trip identifier like TRIP-202608-0042 from the
// dispatch time and the fleet-wide trip sequence number.
func FormatTripID(t time.Time, seq int64) string {
	return fmt.Sprintf("TRIP-%d%02d-%04d", t.Year(), int(t.Month()), seq)
}

// EstimateTripPrice computes the quoted price for a trip estimate.
func EstimateTripPrice(distance, fuelPricePerKm float64) float64 {
	return distance * fuelPricePerKm * TripPriceMarkup
}

// TripSettlement holds the figures derived when a trip is completed.
type TripSettlement struct {
	ActualDistance  float64
	ActualFuelCost  float64
	ActualTripPrice float64
}

// SettleTrip derives the completion figures from the odometer delta. The
// caller must have validated endOdometer > startOdometer.
func SettleTrip(startOdometer, endOdometer, fuelCostPerKm float64) TripSettlement {
	distance := endOdometer - startOdometer
	fuelCost := distance * fuelCostPerKm
	return TripSettlement{
		ActualDistance:  distance,
		ActualFuelCost:  fuelCost,
		ActualTripPrice: fuelCost * TripPriceMarkup,
	}
}
