package config

import "os"

type Config struct {
	DatabaseURL string
	JWTSecret   string
	Port        string
	AppEnv      string
}

func Load() *Config {
	return &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		Port:        getEnvOrDefault("PORT", "3000"),
		AppEnv:      getEnvOrDefault("APP_ENV", "development"),
	}
}

// IsProduction controls whether raw internal error messages are exposed.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
