package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"routesync/cmd"
	httpin "routesync/internal/adapters/in/http"
	"routesync/internal/adapters/out/boltstore"
	"routesync/internal/adapters/out/postgres/orderrepo"
	"routesync/internal/adapters/out/postgres/scanrepo"
	"routesync/internal/core/domain/model/kernel"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const defaultRouteMaxAge = 24 * time.Hour

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	gormDB := openDatabase(configs)

	routeMaxAge := parseRouteMaxAge(configs.RouteMaxAgeHours)
	routeStore, err := boltstore.Open(configs.RouteDBPath, routeMaxAge)
	if err != nil {
		log.Fatalf("Error opening route store: %v", err)
	}
	defer routeStore.Close()

	app := cmd.NewCompositionRoot(
		configs,
		gormDB,
		routeStore,
		parseDepot(configs),
		routeMaxAge,
	)

	jobManager := app.CreateJobManager(logger)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:         goDotEnvVariable("HTTP_PORT"),
		DBHost:           goDotEnvVariable("DB_HOST"),
		DBPort:           goDotEnvVariable("DB_PORT"),
		DBUser:           goDotEnvVariable("DB_USER"),
		DBPassword:       goDotEnvVariable("DB_PASSWORD"),
		DBName:           goDotEnvVariable("DB_NAME"),
		DBSslMode:        goDotEnvVariable("DB_SSLMODE"),
		RouteDBPath:      goDotEnvVariable("ROUTE_DB_PATH"),
		RouteMaxAgeHours: goDotEnvVariable("ROUTE_MAX_AGE_HOURS"),
		DepotLat:         goDotEnvVariable("DEPOT_LAT"),
		DepotLng:         goDotEnvVariable("DEPOT_LNG"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func openDatabase(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	err = gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&scanrepo.ScanEventDTO{},
		&scanrepo.StatusHistoryDTO{},
	)
	if err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	return gormDB
}

func parseRouteMaxAge(raw string) time.Duration {
	if raw == "" {
		return defaultRouteMaxAge
	}

	hours, err := strconv.Atoi(raw)
	if err != nil || hours <= 0 {
		log.Fatalf("Invalid ROUTE_MAX_AGE_HOURS: %q", raw)
	}
	return time.Duration(hours) * time.Hour
}

func parseDepot(configs cmd.Config) kernel.Location {
	lat, err := strconv.ParseFloat(configs.DepotLat, 64)
	if err != nil {
		log.Fatalf("Invalid DEPOT_LAT: %q", configs.DepotLat)
	}
	lng, err := strconv.ParseFloat(configs.DepotLng, 64)
	if err != nil {
		log.Fatalf("Invalid DEPOT_LNG: %q", configs.DepotLng)
	}

	depot, err := kernel.NewLocation(lat, lng)
	if err != nil {
		log.Fatalf("Invalid depot location: %v", err)
	}
	return depot
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	server := httpin.NewServer(
		app.CreateRecordScanCommandHandler(),
		app.CreateOptimizeRouteCommandHandler(),
		app.CreateResetRouteCommandHandler(),
		app.CreateGetRouteQueryHandler(),
		app.CreateGetScanHistoryQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
