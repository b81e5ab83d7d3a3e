// Package config loads engine settings from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	HTTP     HTTPConfig
	Planning PlanningConfig
}

type HTTPConfig struct {
	Addr string
}

type PlanningConfig struct {
	MaxBOMDepth         int
	DistributionPolicy  string
	Granularity         string
	DefaultWarehouse    string
	CountCalendarDays   bool
	CollaboratorTimeout time.Duration
}

func LoadConfig(logger *zap.Logger) Config {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using environment variables")
	}

	maxDepth, _ := strconv.Atoi(getEnv("MAX_BOM_DEPTH", "32"))
	calendarDays, _ := strconv.ParseBool(getEnv("COUNT_CALENDAR_DAYS", "false"))
	timeout, err := time.ParseDuration(getEnv("COLLABORATOR_TIMEOUT", "5s"))
	if err != nil {
		timeout = 5 * time.Second
	}

	return Config{
		HTTP: HTTPConfig{
			Addr: getEnv("HTTP_ADDR", ":8080"),
		},
		Planning: PlanningConfig{
			MaxBOMDepth:         maxDepth,
			DistributionPolicy:  getEnv("DISTRIBUTION_POLICY", "linear"),
			Granularity:         getEnv("PLANNING_GRANULARITY", "daily"),
			DefaultWarehouse:    getEnv("DEFAULT_WAREHOUSE", "MAIN"),
			CountCalendarDays:   calendarDays,
			CollaboratorTimeout: timeout,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
