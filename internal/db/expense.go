package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coderved63/FleetFlow-Odoo/internal/models"
)

// ExpenseCollection defines the interface for expense data operations.
type ExpenseCollection interface {
	InsertExpense(ctx context.Context, expense models.Expense) (*models.Expense, error)
	FindExpenses(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Expense, error)
}

// MongoExpenseCollection implements ExpenseCollection for MongoDB.
type MongoExpenseCollection struct {
	Collection *mongo.Collection
}

// InsertExpense inserts an expense record and returns it with its new ID.
// The unique index on trip_id rejects a second expense for the same trip.
func (c *MongoExpenseCollection) InsertExpense(ctx context.Context, expense models.Expense) (*models.Expense, error) {
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = time.Now()
	}
	result, err := c.Collection.InsertOne(ctx, expense)
	if err != nil {
		return nil, err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		expense.ID = oid
	}
	return &expense, nil
}

// FindExpenses queries expense records from the collection.
func (c *MongoExpenseCollection) FindExpenses(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Expense, error) {
	cursor, err := c.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var expenses []models.Expense
	if err := cursor.All(ctx, &expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}
