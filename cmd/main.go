package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/coderved63/FleetFlow-Odoo/internal/auth"
	"github.com/coderved63/FleetFlow-Odoo/internal/db"
	"github.com/coderved63/FleetFlow-Odoo/internal/events"
	"github.com/coderved63/FleetFlow-Odoo/internal/handlers"
	"github.com/coderved63/FleetFlow-Odoo/internal/middleware"
	"github.com/coderved63/FleetFlow-Odoo/internal/router"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using environment")
	}
	log.SetFormatter(&log.JSONFormatter{})

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())
	log.Info("connected to MongoDB")

	database := client.Database(db.DatabaseName())
	if err := db.EnsureIndexes(context.Background(), database); err != nil {
		log.WithError(err).Fatal("failed to create indexes")
	}

	users := &db.MongoUserCollection{Collection: database.Collection("users")}
	vehicles := &db.MongoVehicleCollection{Collection: database.Collection("vehicles")}
	drivers := &db.MongoDriverCollection{Collection: database.Collection("drivers")}
	trips := &db.MongoTripCollection{Collection: database.Collection("trips")}
	maintenance := &db.MongoMaintenanceCollection{Collection: database.Collection("maintenance_logs")}
	expenses := &db.MongoExpenseCollection{Collection: database.Collection("expenses")}
	incidents := &db.MongoIncidentCollection{Collection: database.Collection("driver_incidents")}
	counters := &db.MongoCounterCollection{Collection: database.Collection("counters")}
	tx := &db.MongoTxRunner{Client: client}

	var publisher events.Publisher = events.NopPublisher{}
	if broker := os.Getenv("MQTT_BROKER"); broker != "" {
		mqttPublisher, err := events.NewMQTTPublisher(broker)
		if err != nil {
			log.WithError(err).Warn("fleet event publishing disabled")
		} else {
			defer mqttPublisher.Close()
			publisher = mqttPublisher
			log.WithField("broker", broker).Info("fleet event publishing enabled")
		}
	}

	authService := auth.NewService()
	authMW := middleware.NewAuthMiddleware(authService)

	handler := router.New(router.Handlers{
		Auth:        handlers.NewAuthHandler(authService, users),
		Admin:       handlers.NewAdminHandler(authService, users),
		Vehicles:    handlers.NewVehicleHandler(vehicles),
		Drivers:     handlers.NewDriverHandler(drivers, incidents, tx, publisher),
		Trips:       handlers.NewTripHandler(trips, vehicles, drivers, counters, tx, publisher),
		Maintenance: handlers.NewMaintenanceHandler(maintenance, vehicles, publisher),
		Expenses:    handlers.NewExpenseHandler(expenses, trips),
		Analytics:   handlers.NewAnalyticsHandler(trips, vehicles, maintenance),
		Dashboard:   handlers.NewDashboardHandler(trips, vehicles, maintenance),
	}, authMW)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	log.WithField("port", port).Info("HTTP server listening")
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
