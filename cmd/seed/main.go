// Seeds the FleetFlow database with demo users, vehicles, drivers, trips,
// expenses and maintenance logs.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/coderved63/FleetFlow-Odoo/internal/auth"
	"github.com/coderved63/FleetFlow-Odoo/internal/db"
	"github.com/coderved63/FleetFlow-Odoo/internal/models"
)

var cities = []string{"Mumbai", "Delhi", "Bangalore", "Pune", "Hyderabad", "Chennai", "Ahmedabad", "Surat"}

var serviceTypes = []string{"Oil Change", "Tire Replacement", "Brake Inspection", "Engine Overhaul", "General Servicing"}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using environment")
	}

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	ctx := context.Background()
	database := client.Database(db.DatabaseName())
	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.WithError(err).Fatal("failed to create indexes")
	}

	users := &db.MongoUserCollection{Collection: database.Collection("users")}
	vehicles := &db.MongoVehicleCollection{Collection: database.Collection("vehicles")}
	drivers := &db.MongoDriverCollection{Collection: database.Collection("drivers")}
	trips := &db.MongoTripCollection{Collection: database.Collection("trips")}
	maintenance := &db.MongoMaintenanceCollection{Collection: database.Collection("maintenance_logs")}
	expenses := &db.MongoExpenseCollection{Collection: database.Collection("expenses")}
	counters := &db.MongoCounterCollection{Collection: database.Collection("counters")}

	authService := auth.NewService()

	seedUsers(ctx, users, authService)
	seededVehicles := seedVehicles(ctx, vehicles)
	seededDrivers := seedDrivers(ctx, drivers)
	seedTrips(ctx, trips, expenses, counters, seededVehicles, seededDrivers)
	seedMaintenance(ctx, maintenance, seededVehicles)

	log.Info("seeding complete")
	log.Info("admin: admin@fleetflow.com / admin123, others: password123")
}

func seedUsers(ctx context.Context, users db.UserCollection, authService *auth.Service) {
	accounts := []struct {
		email    string
		name     string
		role     models.Role
		password string
	}{
		{"admin@fleetflow.com", "System Admin", models.RoleAdmin, "admin123"},
		{"manager@fleetflow.com", "Fleet Manager", models.RoleFleetManager, "password123"},
		{"dispatcher@fleetflow.com", "Trip Dispatcher", models.RoleDispatcher, "password123"},
		{"safety@fleetflow.com", "Safety Officer", models.RoleSafetyOfficer, "password123"},
		{"finance@fleetflow.com", "Financial Analyst", models.RoleFinancialAnalyst, "password123"},
		{"manager2@fleetflow.com", "Regional Manager", models.RoleFleetManager, "password123"},
	}

	created := 0
	for _, a := range accounts {
		if _, err := users.FindUserByEmail(ctx, a.email); err == nil {
			continue
		}
		hash, err := authService.HashPassword(a.password)
		if err != nil {
			log.WithError(err).Fatal("failed to hash seed password")
		}
		err = users.InsertUser(ctx, models.User{
			Email:        a.email,
			PasswordHash: hash,
			Name:         a.name,
			Role:         a.role,
			CreatedAt:    time.Now(),
		})
		if err != nil {
			log.WithError(err).WithField("email", a.email).Fatal("failed to seed user")
		}
		created++
	}
	log.WithField("users", created).Info("seeded users")
}

func seedVehicles(ctx context.Context, vehicles db.VehicleCollection) []models.Vehicle {
	types := []string{models.VehicleTruck, models.VehicleTruck, models.VehicleVan, models.VehicleVan, models.VehicleTruck, models.VehicleBike, models.VehicleTruck}
	statuses := []string{models.VehicleAvailable, models.VehicleOnTrip, models.VehicleInShop, models.VehicleOutOfService}

	var created []models.Vehicle
	for i := 1; i <= 25; i++ {
		vType := types[i%len(types)]
		var capacity, cost float64
		switch vType {
		case models.VehicleTruck:
			capacity = 15000 + float64(i*1000)
			cost = 4000000 + float64(i*50000)
		case models.VehicleVan:
			capacity = 2000 + float64(i*100)
			cost = 800000 + float64(i*10000)
		default:
			capacity = 100
			cost = 80000
		}

		vehicle := models.Vehicle{
			Name:            fmt.Sprintf("Fleet Unit %03d (%s)", i, vType),
			LicensePlate:    fmt.Sprintf("MH-%02d-PK-%d", 10+i, 1000+i),
			Type:            vType,
			MaxLoadCapacity: capacity,
			AcquisitionCost: cost,
			Odometer:        5000 + rand.Float64()*50000,
			Status:          statuses[rand.Intn(len(statuses))],
			CreatedAt:       time.Now(),
		}

		inserted, err := vehicles.InsertVehicle(ctx, vehicle)
		if err != nil {
			if db.IsDuplicateKey(err) {
				continue
			}
			log.WithError(err).Fatal("failed to seed vehicle")
		}
		created = append(created, *inserted)
	}
	log.WithField("vehicles", len(created)).Info("seeded vehicles")
	return created
}

func seedDrivers(ctx context.Context, drivers db.DriverCollection) []models.Driver {
	names := []string{"Rajesh", "Suresh", "Amit", "Vikram", "Anil", "Sunil", "Prakash", "Mahesh", "Ramesh", "Kiran", "Rahul", "Rohit", "Sachin", "Virat", "Dhoni"}

	var created []models.Driver
	for i, first := range names {
		category := models.VehicleTruck
		if i%3 == 0 {
			category = models.VehicleVan
		} else if i%5 == 0 {
			category = models.VehicleBike
		}

		driver := models.Driver{
			Name:            first + " Kumar",
			LicenseNumber:   fmt.Sprintf("DL-MH-%d-%d", 2020+i%4, 1000+i),
			LicenseCategory: category,
			LicenseExpiry:   time.Now().AddDate(2+rand.Intn(5), 0, 0),
			DutyStatus:      models.DutyOnDuty,
			Availability:    models.DriverAvailable,
			SafetyScore:     100,
			CreatedAt:       time.Now(),
		}

		inserted, err := drivers.InsertDriver(ctx, driver)
		if err != nil {
			if db.IsDuplicateKey(err) {
				continue
			}
			log.WithError(err).Fatal("failed to seed driver")
		}
		created = append(created, *inserted)
	}
	log.WithField("drivers", len(created)).Info("seeded drivers")
	return created
}

func seedTrips(ctx context.Context, trips db.TripCollection, expenses db.ExpenseCollection, counters db.CounterCollection, seededVehicles []models.Vehicle, seededDrivers []models.Driver) {
	if len(seededVehicles) == 0 || len(seededDrivers) == 0 {
		return
	}

	count := 0
	for i := 0; i < 40; i++ {
		completed := rand.Float64() > 0.3

		vehicle := seededVehicles[rand.Intn(len(seededVehicles))]
		driver := seededDrivers[rand.Intn(len(seededDrivers))]

		origin := cities[rand.Intn(len(cities))]
		dest := cities[rand.Intn(len(cities))]
		for dest == origin {
			dest = cities[rand.Intn(len(cities))]
		}

		estDistance := float64(200 + rand.Intn(800))
		fuelPrice := 14 + rand.Float64()*4
		startDate := time.Now().AddDate(0, 0, -rand.Intn(30))

		seq, err := counters.NextSequence(ctx, "trips")
		if err != nil {
			log.WithError(err).Fatal("failed to get trip sequence")
		}

		trip := models.Trip{
			TripID:                  models.FormatTripID(startDate, seq),
			VehicleID:               vehicle.ID,
			DriverID:                driver.ID,
			CargoWeight:             vehicle.MaxLoadCapacity * (0.5 + rand.Float64()*0.5),
			Origin:                  origin,
			Destination:             dest,
			EstimatedDistance:       estDistance,
			EstimatedFuelPricePerKm: fuelPrice,
			EstimatedTripPrice:      models.EstimateTripPrice(estDistance, fuelPrice),
			Status:                  models.TripDispatched,
			StartOdometer:           vehicle.Odometer - estDistance,
			StartDate:               startDate,
			CreatedAt:               startDate,
		}

		if completed {
			endDate := startDate.AddDate(0, 0, 1+rand.Intn(3))
			trip.Status = models.TripCompleted
			trip.EndDate = &endDate
			trip.EndOdometer = trip.StartOdometer + estDistance + float64(rand.Intn(20))
			settlement := models.SettleTrip(trip.StartOdometer, trip.EndOdometer, fuelPrice)
			trip.ActualDistance = settlement.ActualDistance
			trip.ActualFuelCost = settlement.ActualFuelCost
			trip.ActualTripPrice = settlement.ActualTripPrice
			trip.Revenue = settlement.ActualTripPrice

			if rand.Float64() > 0.5 {
				_, err := expenses.InsertExpense(ctx, models.Expense{
					TripID:      trip.TripID,
					Driver:      driver.Name,
					Distance:    trip.ActualDistance,
					FuelCost:    trip.ActualFuelCost,
					MiscExpense: float64(rand.Intn(2000)),
					CreatedAt:   endDate,
				})
				if err != nil && !db.IsDuplicateKey(err) {
					log.WithError(err).Fatal("failed to seed expense")
				}
			}
		}

		if _, err := trips.InsertTrip(ctx, trip); err != nil {
			log.WithError(err).Fatal("failed to seed trip")
		}
		count++
	}
	log.WithField("trips", count).Info("seeded trips and expenses")
}

func seedMaintenance(ctx context.Context, maintenance db.MaintenanceCollection, seededVehicles []models.Vehicle) {
	if len(seededVehicles) == 0 {
		return
	}

	for i := 0; i < 20; i++ {
		vehicle := seededVehicles[rand.Intn(len(seededVehicles))]
		status := models.MaintenanceCompleted
		if rand.Float64() <= 0.2 {
			status = models.MaintenancePending
		}

		_, err := maintenance.InsertMaintenanceLog(ctx, models.MaintenanceLog{
			VehicleID:   vehicle.ID,
			ServiceType: serviceTypes[rand.Intn(len(serviceTypes))],
			Description: "Routine maintenance check and parts replacement.",
			Cost:        float64(5000 + rand.Intn(15000)),
			Date:        time.Now().AddDate(0, 0, -rand.Intn(60)),
			Status:      status,
			CreatedAt:   time.Now(),
		})
		if err != nil {
			log.WithError(err).Fatal("failed to seed maintenance log")
		}
	}
	log.WithField("logs", 20).Info("seeded maintenance logs")
}
