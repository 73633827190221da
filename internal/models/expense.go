package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Expense represents the financial record logged against a completed trip.
// At most one exists per trip; a trip's "logged" state is derived from the
// presence of this record.
type Expense struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TripID      string             `bson:"trip_id" json:"tripId"`
	Driver      string             `bson:"driver" json:"driver"` // driver name snapshot at logging time
	Distance    float64            `bson:"distance" json:"distance"`
	FuelCost    float64            `bson:"fuel_cost" json:"fuelCost"`
	MiscExpense float64            `bson:"misc_expense" json:"miscExpense"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}
