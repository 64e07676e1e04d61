package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/limoride/limotrack/internal/pkg/models"
)

// InitConfig loads configuration from the environment, seeding it from an env
// file when running locally.
func InitConfig(configPath string) *models.Config {
	local := GetEnv("APP_ENV", "local")
	if local == "local" {
		err := godotenv.Load(configPath)
		if err != nil {
			log.Println("error loading config from file", err)
		}
	}
	return loadConfigFromEnv()
}

func loadConfigFromEnv() *models.Config {
	configs := &models.Config{}

	// App config
	configs.App.Name = GetEnv("APP_NAME", "limotrack-tracker")
	configs.App.Environment = GetEnv("APP_ENV", "")
	configs.App.Debug = GetEnvAsBool("APP_DEBUG", true)
	configs.App.Version = GetEnv("APP_VERSION", "")

	// Debug/status server config
	configs.Server.Host = GetEnv("SERVER_HOST", "")
	configs.Server.Port = GetEnvAsInt("SERVER_PORT", 9980)
	configs.Server.ReadTimeout = GetEnvAsInt("SERVER_READ_TIMEOUT", 0)
	configs.Server.WriteTimeout = GetEnvAsInt("SERVER_WRITE_TIMEOUT", 0)
	configs.Server.ShutdownTimeout = GetEnvAsInt("SERVER_SHUTDOWN_TIMEOUT", 0)

	// Tracking session config
	configs.Tracking.URL = GetEnv("TRACKING_URL", "")
	configs.Tracking.UserType = GetEnv("TRACKING_USER_TYPE", "customer")
	configs.Tracking.ConnectTimeout = GetEnvAsDuration("TRACKING_CONNECT_TIMEOUT", 10*time.Second)
	configs.Tracking.HeartbeatInterval = GetEnvAsDuration("TRACKING_HEARTBEAT_INTERVAL", 25*time.Second)
	configs.Tracking.ReconnectInitialDelay = GetEnvAsDuration("TRACKING_RECONNECT_INITIAL_DELAY", time.Second)
	configs.Tracking.ReconnectMaxDelay = GetEnvAsDuration("TRACKING_RECONNECT_MAX_DELAY", 30*time.Second)
	configs.Tracking.ReconnectMultiplier = GetEnvAsFloat("TRACKING_RECONNECT_MULTIPLIER", 1.5)
	configs.Tracking.ReconnectMaxAttempts = GetEnvAsInt("TRACKING_RECONNECT_MAX_ATTEMPTS", 10)
	configs.Tracking.ThrottleWindow = GetEnvAsDuration("TRACKING_THROTTLE_WINDOW", 500*time.Millisecond)
	configs.Tracking.MinDistanceMeters = GetEnvAsFloat("TRACKING_MIN_DISTANCE_METERS", 10)
	configs.Tracking.PickupRadiusMeters = GetEnvAsFloat("TRACKING_PICKUP_RADIUS_METERS", 100)
	configs.Tracking.DropoffRadiusMeters = GetEnvAsFloat("TRACKING_DROPOFF_RADIUS_METERS", 50)
	configs.Tracking.AverageSpeedKmh = GetEnvAsFloat("TRACKING_AVERAGE_SPEED_KMH", 30)

	// NewRelic config
	configs.NewRelic.LicenseKey = GetEnv("NEW_RELIC_LICENSE_KEY", "")
	configs.NewRelic.AppName = GetEnv("NEW_RELIC_APP_NAME", configs.App.Name)
	configs.NewRelic.Enabled = GetEnvAsBool("NEW_RELIC_ENABLED", false)

	// Logger config
	configs.Logger.Level = GetEnv("LOG_LEVEL", "info")
	configs.Logger.FilePath = GetEnv("LOG_FILE_PATH", "logs/limotrack.log")
	configs.Logger.MaxSize = GetEnvAsInt64("LOG_MAX_SIZE", 100)
	configs.Logger.MaxAge = GetEnvAsInt("LOG_MAX_AGE", 7)
	configs.Logger.MaxBackups = GetEnvAsInt("LOG_MAX_BACKUPS", 3)
	configs.Logger.Compress = GetEnvAsBool("LOG_COMPRESS", true)
	configs.Logger.Type = GetEnv("LOG_TYPE", "file")

	return configs
}

// Helper functions to get environment variables with different types
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		log.Printf("Warning: Invalid int64 value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}
