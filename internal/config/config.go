package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server   ServerConfig
	Toast    ToastConfig
	Backend  BackendConfig
	Promo    PromoConfig
	Menu     MenuConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// ToastConfig holds the POS credentials. The sample environment files
// ship bracketed placeholders ("[your-restaurant-guid]") here; Validate
// rejects those so a misconfiguration fails at startup instead of
// surfacing later as a cryptic 401 from the POS.
type ToastConfig struct {
	BaseURL        string
	RestaurantGUID string
	AccessToken    string
	TimeoutSeconds int
}

// BackendConfig holds the managed backend API and identity pool settings.
type BackendConfig struct {
	APIEndpoint    string
	Region         string
	UserPoolID     string
	WebClientID    string
	TimeoutSeconds int
}

// PromoConfig holds the promo code list URLs. No URLs means promo
// support is disabled.
type PromoConfig struct {
	FileURLs []string
}

type MenuConfig struct {
	CacheTTLSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		Toast: ToastConfig{
			BaseURL:        getEnv("TOAST_BASE_URL", "https://ws-api.toasttab.com/v1"),
			RestaurantGUID: getEnv("TOAST_RESTAURANT_GUID", ""),
			AccessToken:    getEnv("TOAST_ACCESS_TOKEN", ""),
			TimeoutSeconds: getEnvAsInt("TOAST_TIMEOUT", 15),
		},
		Backend: BackendConfig{
			APIEndpoint:    getEnv("BACKEND_API_ENDPOINT", ""),
			Region:         getEnv("AWS_REGION", ""),
			UserPoolID:     getEnv("COGNITO_USER_POOL_ID", ""),
			WebClientID:    getEnv("COGNITO_WEB_CLIENT_ID", ""),
			TimeoutSeconds: getEnvAsInt("BACKEND_TIMEOUT", 15),
		},
		Promo: PromoConfig{
			FileURLs: getEnvAsSlice("PROMO_FILE_URLS", nil),
		},
		Menu: MenuConfig{
			CacheTTLSeconds: getEnvAsInt("MENU_CACHE_TTL", 600),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	required := []struct {
		name  string
		value string
	}{
		{"TOAST_RESTAURANT_GUID", c.Toast.RestaurantGUID},
		{"TOAST_ACCESS_TOKEN", c.Toast.AccessToken},
		{"BACKEND_API_ENDPOINT", c.Backend.APIEndpoint},
		{"AWS_REGION", c.Backend.Region},
		{"COGNITO_USER_POOL_ID", c.Backend.UserPoolID},
		{"COGNITO_WEB_CLIENT_ID", c.Backend.WebClientID},
	}

	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s is required", r.name)
		}
		if isPlaceholder(r.value) {
			return fmt.Errorf("%s is set to the placeholder %q, supply a real value", r.name, r.value)
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// isPlaceholder detects bracketed template values like "[access-token]".
func isPlaceholder(value string) bool {
	return strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]")
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
