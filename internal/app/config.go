package app

import (
	"os"
	"strconv"
	"strings"
)

// Config stores runtime configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	HTTPAddr           string
	DBDriver           string
	DBDSN              string
	DefaultQuizMinutes int
	DBMaxOpenConns     int
	DBMaxIdleConns     int
	DBConnMaxLifeMins  int

	CSRFEnforced        bool
	AuthRateLimitPerMin int
	CORSAllowedOrigins  []string

	SessionTTLHours int

	AdminUsername string
	AdminPassword string

	GeminiAPIKey string
	GeminiModel  string
}

func LoadConfig() Config {
	origins := []string{"http://localhost:5173"}
	if v := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); v != "" {
		origins = origins[:0]
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	return Config{
		AppEnv:              envOrDefault("APP_ENV", "development"),
		HTTPAddr:            envOrDefault("HTTP_ADDR", ":8080"),
		DBDriver:            envOrDefault("DB_DRIVER", "postgres"),
		DBDSN:               os.Getenv("DB_DSN"),
		DefaultQuizMinutes:  intOrDefault("DEFAULT_QUIZ_MINUTES", 20),
		DBMaxOpenConns:      intOrDefault("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:      intOrDefault("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLifeMins:   intOrDefault("DB_CONN_MAX_LIFETIME_MINUTES", 30),
		CSRFEnforced:        boolOrDefault("CSRF_ENFORCED", false),
		AuthRateLimitPerMin: intOrDefault("AUTH_RATE_LIMIT_PER_MINUTE", 60),
		CORSAllowedOrigins:  origins,
		SessionTTLHours:     intOrDefault("SESSION_TTL_HOURS", 24),
		AdminUsername:       envOrDefault("ADMIN_USERNAME", "admin"),
		AdminPassword:       os.Getenv("ADMIN_PASSWORD"),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		GeminiModel:         envOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
	}
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsToInt(v string) int {
	n, _ := strconv.Atoi(v)
	return n
}

func intOrDefault(key string, fallback int) int {
	v := stringsToInt(os.Getenv(key))
	if v <= 0 {
		return fallback
	}
	return v
}

func boolOrDefault(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
