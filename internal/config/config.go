package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by PLOTWEAVE_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("PLOTWEAVE_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

// DatabaseURL is optional. Without it the server only serves previews.
func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// APIKey returns the static key clients must present. Empty disables auth.
func APIKey() string {
	return os.Getenv("API_KEY")
}

func MigrationsPath() string {
	p := os.Getenv("MIGRATIONS_PATH")
	if p == "" {
		return "migrations"
	}
	return p
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

// LogFile returns a path for rotated file logs. Empty logs to stderr only.
func LogFile() string {
	return os.Getenv("LOG_FILE")
}

// ConfidenceThreshold is the default applied when a request leaves it unset.
// Defaults to 0.6 if not set or out of range.
func ConfidenceThreshold() float64 {
	t, err := strconv.ParseFloat(os.Getenv("CONFIDENCE_THRESHOLD"), 64)
	if err != nil || !(t >= 0 && t <= 1) {
		return 0.6
	}
	return t
}

// AnalysisConcurrency bounds how many stories a batch analyzes at once.
// Defaults to 4 if not set.
func AnalysisConcurrency() int {
	n, err := strconv.Atoi(os.Getenv("ANALYSIS_CONCURRENCY"))
	if err != nil || n <= 0 {
		return 4
	}
	return n
}

// MaxTextBytes caps the size of a submitted text.
// Defaults to 1 MiB if not set.
func MaxTextBytes() int64 {
	n, err := strconv.ParseInt(os.Getenv("MAX_TEXT_BYTES"), 10, 64)
	if err != nil || n <= 0 {
		return 1 << 20
	}
	return n
}
