package config

import (
	"fmt"
	"sync"
)

var (
	dbOnce   sync.Once
	dbConfig *DatabaseConfig
)

type DatabaseConfig struct {
	URI      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns the postgres connection string, preferring DATABASE_URI when set.
func (c *DatabaseConfig) DSN() string {
	if c.URI != "" {
		return c.URI
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

func GetDatabaseConfig() *DatabaseConfig {
	dbOnce.Do(func() {
		loadEnv()
		dbConfig = &DatabaseConfig{
			URI:      getEnv("DATABASE_URI", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "hoteldocs"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		}
	})
	return dbConfig
}
