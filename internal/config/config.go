package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the registry node configuration
type Config struct {
	// PostgreSQL connection string for the archive
	DatabaseURL string

	// HTTP API port
	APIPort int

	// Log level: debug, info, warn, error
	LogLevel string

	// Capacity ceiling and fee applied on a fresh deployment. Once the
	// archive holds a state snapshot these are ignored in favor of the
	// archived values.
	MaxContents     uint64
	RegistrationFee uint64

	// Optional authority to set at boot (fresh deployments only)
	AuthorityAddress string

	// Require caller == authority for configuration changes
	StrictAuthority bool
}

// Load returns the configuration from environment variables
func Load() *Config {
	return &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		APIPort:          getEnvAsInt("API_PORT", 8080),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		MaxContents:      getEnvAsUint("MAX_CONTENTS", 100000),
		RegistrationFee:  getEnvAsUint("REGISTRATION_FEE", 100),
		AuthorityAddress: os.Getenv("AUTHORITY_ADDRESS"),
		StrictAuthority:  getEnvAsBool("STRICT_AUTHORITY", false),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("API_PORT must be a valid port number")
	}
	if c.MaxContents == 0 {
		return fmt.Errorf("MAX_CONTENTS must be greater than zero")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}

func getEnvAsUint(key string, defaultVal uint64) uint64 {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseUint(valStr, 10, 64)
	if err != nil {
		return defaultVal
	}
	return val
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}
