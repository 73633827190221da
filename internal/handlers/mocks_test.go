package handlers

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coderved63/FleetFlow-Odoo/internal/events"
	"github.com/coderved63/FleetFlow-Odoo/internal/models"
)

// passthroughTxRunner executes the unit of work directly, without a session.
type passthroughTxRunner struct{}

func (passthroughTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var _ events.Publisher = (*recordingPublisher)(nil)

// recordingPublisher captures published fleet events.
type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) Publish(event string, _ interface{}) {
	p.events = append(p.events, event)
}

// MockVehicleCollection is a mock implementation of db.VehicleCollection
type MockVehicleCollection struct {
	mock.Mock
}

func (m *MockVehicleCollection) InsertVehicle(ctx context.Context, vehicle models.Vehicle) (*models.Vehicle, error) {
	args := m.Called(ctx, vehicle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

func (m *MockVehicleCollection) FindVehicles(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Vehicle, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Vehicle), args.Error(1)
}

func (m *MockVehicleCollection) FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

func (m *MockVehicleCollection) SetVehicleFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockVehicleCollection) CountVehicles(ctx context.Context, filter bson.M) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockDriverCollection is a mock implementation of db.DriverCollection
type MockDriverCollection struct {
	mock.Mock
}

func (m *MockDriverCollection) InsertDriver(ctx context.Context, driver models.Driver) (*models.Driver, error) {
	args := m.Called(ctx, driver)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Driver), args.Error(1)
}

func (m *MockDriverCollection) FindDrivers(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Driver, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Driver), args.Error(1)
}

func (m *MockDriverCollection) FindDriverByID(ctx context.Context, id string) (*models.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Driver), args.Error(1)
}

func (m *MockDriverCollection) SetDriverFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockDriverCollection) SuspendExpiredLicenses(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDriverCollection) CountDrivers(ctx context.Context, filter bson.M) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockTripCollection is a mock implementation of db.TripCollection
type MockTripCollection struct {
	mock.Mock
}

func (m *MockTripCollection) InsertTrip(ctx context.Context, trip models.Trip) (*models.Trip, error) {
	args := m.Called(ctx, trip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trip), args.Error(1)
}

func (m *MockTripCollection) FindTrips(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Trip, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Trip), args.Error(1)
}

func (m *MockTripCollection) FindTripByID(ctx context.Context, id string) (*models.Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trip), args.Error(1)
}

func (m *MockTripCollection) SetTripFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockTripCollection) CountTrips(ctx context.Context, filter bson.M) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockMaintenanceCollection is a mock implementation of db.MaintenanceCollection
type MockMaintenanceCollection struct {
	mock.Mock
}

func (m *MockMaintenanceCollection) InsertMaintenanceLog(ctx context.Context, log models.MaintenanceLog) (*models.MaintenanceLog, error) {
	args := m.Called(ctx, log)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaintenanceLog), args.Error(1)
}

func (m *MockMaintenanceCollection) FindMaintenanceLogs(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.MaintenanceLog, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MaintenanceLog), args.Error(1)
}

func (m *MockMaintenanceCollection) CountMaintenanceLogs(ctx context.Context, filter bson.M) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockExpenseCollection is a mock implementation of db.ExpenseCollection
type MockExpenseCollection struct {
	mock.Mock
}

func (m *MockExpenseCollection) InsertExpense(ctx context.Context, expense models.Expense) (*models.Expense, error) {
	args := m.Called(ctx, expense)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Expense), args.Error(1)
}

func (m *MockExpenseCollection) FindExpenses(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Expense, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Expense), args.Error(1)
}

// MockIncidentCollection is a mock implementation of db.IncidentCollection
type MockIncidentCollection struct {
	mock.Mock
}

func (m *MockIncidentCollection) InsertIncident(ctx context.Context, incident models.DriverIncident) (*models.DriverIncident, error) {
	args := m.Called(ctx, incident)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DriverIncident), args.Error(1)
}

func (m *MockIncidentCollection) FindIncidentsByDriver(ctx context.Context, driverID primitive.ObjectID) ([]models.DriverIncident, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DriverIncident), args.Error(1)
}

// MockCounterCollection is a mock implementation of db.CounterCollection
type MockCounterCollection struct {
	mock.Mock
}

func (m *MockCounterCollection) NextSequence(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}
