package config

import (
	"os"
	"strconv"
	"strings"
)

// APIConfig holds settings for the upstream record API.
type APIConfig struct {
	BaseURL    string
	TimeoutSec int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables.
type AppConfig struct {
	AppHost        string
	Port           string
	Timezone       string
	MetricsEnabled bool
	// Variants lists the resources whose screens are mounted. The first one owns "/".
	Variants []string
	API      APIConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
func Load() *AppConfig {
	return &AppConfig{
		AppHost:        getEnv("APP_HOST", "localhost:3000"),
		Port:           getEnv("PORT", "3000"),
		Timezone:       getEnv("APP_TIMEZONE", "UTC"),
		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
		Variants:       getEnvList("APP_VARIANTS", []string{"students"}),
		API: APIConfig{
			BaseURL:    strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080"), "/"),
			TimeoutSec: getEnvInt("API_TIMEOUT_SEC", 10),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
