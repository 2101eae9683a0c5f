package configs

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Ops       OpsConfig
	Store     StoreConfig
	Auth      AuthConfig
	Scheduler SchedulerConfig
	Display   DisplayConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port      string
	Env       string
	StaticDir string
}

// OpsConfig holds the health/stats listener configuration
type OpsConfig struct {
	Port string
}

// StoreConfig selects and configures the account store
type StoreConfig struct {
	Driver      string // postgres, sqlite or memory
	DatabaseURL string
	SQLitePath  string
}

// AuthConfig holds password hashing settings
type AuthConfig struct {
	BcryptCost int
}

// SchedulerConfig holds cron specs for background jobs
type SchedulerConfig struct {
	HealthSpec string
	StatsSpec  string
}

// DisplayConfig holds presentation settings
type DisplayConfig struct {
	Timezone string
}

// Store drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

var defaults = map[string]interface{}{
	"PORT":         "3001",
	"OPS_PORT":     "9090",
	"GO_ENV":       "development",
	"STATIC_DIR":   "",
	"STORE_DRIVER": DriverMemory,
	"DATABASE_URL": "",
	"SQLITE_PATH":  "cfohelper.db",
	"BCRYPT_COST":  10,
	"HEALTH_CRON":  "@every 1m",
	"STATS_CRON":   "@hourly",
	"TZ":           "",
}

// Load loads configuration from environment variables
func Load() *Config {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	return &Config{
		Server: ServerConfig{
			Port:      v.GetString("PORT"),
			Env:       v.GetString("GO_ENV"),
			StaticDir: v.GetString("STATIC_DIR"),
		},
		Ops: OpsConfig{
			Port: v.GetString("OPS_PORT"),
		},
		Store: StoreConfig{
			Driver:      strings.ToLower(v.GetString("STORE_DRIVER")),
			DatabaseURL: v.GetString("DATABASE_URL"),
			SQLitePath:  v.GetString("SQLITE_PATH"),
		},
		Auth: AuthConfig{
			BcryptCost: v.GetInt("BCRYPT_COST"),
		},
		Scheduler: SchedulerConfig{
			HealthSpec: v.GetString("HEALTH_CRON"),
			StatsSpec:  v.GetString("STATS_CRON"),
		},
		Display: DisplayConfig{
			Timezone: v.GetString("TZ"),
		},
	}
}

// IsDevelopment reports whether the app runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}
