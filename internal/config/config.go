package config

import (
	"os"
)

type Config struct {
	Port         string
	DBDriver     string // "postgres" or "sqlite"
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBSSLMode    string
	SQLitePath   string
	JWTSecret    string
	JWTExpiresIn string // minutes

	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

func Load() *Config {
	return &Config{
		Port:         getenv("PORT", "8080"),
		DBDriver:     getenv("DB_DRIVER", "postgres"),
		DBHost:       getenv("DB_HOST", "localhost"),
		DBPort:       getenv("DB_PORT", "5432"),
		DBUser:       getenv("DB_USER", "postgres"),
		DBPassword:   getenv("DB_PASSWORD", "postgres"),
		DBName:       getenv("DB_NAME", "game_db"),
		DBSSLMode:    getenv("DB_SSLMODE", "disable"),
		SQLitePath:   getenv("SQLITE_PATH", "game.db"),
		JWTSecret:    getenv("JWT_SECRET", "supersecret_change_me"),
		JWTExpiresIn: getenv("JWT_EXPIRES_IN", "1440"),

		AdminUsername: getenv("ADMIN_USERNAME", "admin"),
		AdminEmail:    getenv("ADMIN_EMAIL", "admin@game.com"),
		AdminPassword: getenv("ADMIN_PASSWORD", "admin123"),
	}
}

func getenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}
