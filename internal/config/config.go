package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	ServerPort string
	GinMode    string

	JWTSecret            string
	JWTIssuer            string
	JWTAudience          string
	AccessTokenMinutes   int
	RefreshTokenDays     int
}

// Load reads configuration from the environment, with a .env file as an
// optional source for local development.
func Load() *Config {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	return &Config{
		DBDriver:   getEnv("DB_DRIVER", "mysql"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "protrack"),
		DBPassword: getEnv("DB_PASSWORD", "protrack"),
		DBName:     getEnv("DB_NAME", "protrack"),

		ServerPort: getEnv("SERVER_PORT", "8080"),
		GinMode:    getEnv("GIN_MODE", "debug"),

		JWTSecret:          getEnv("JWT_SECRET", "default-secret-key-change-me"),
		JWTIssuer:          getEnv("JWT_ISSUER", "protrack-api"),
		JWTAudience:        getEnv("JWT_AUDIENCE", "protrack-clients"),
		AccessTokenMinutes: getEnvInt("JWT_EXPIRY_MINUTES", 60),
		RefreshTokenDays:   getEnvInt("JWT_REFRESH_EXPIRY_DAYS", 7),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
