package cmd

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// RouteDBPath is the bbolt file holding per-driver route snapshots.
	RouteDBPath string
	// RouteMaxAgeHours is the staleness horizon for stored routes.
	RouteMaxAgeHours string
	// DepotLat/DepotLng is the fallback planning origin when a driver
	// reports no position.
	DepotLat string
	DepotLng string
}
