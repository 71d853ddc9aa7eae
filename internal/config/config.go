package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file named by INQUEST_ENV (or .env by default), then
// the corresponding .secret sidecar if it exists. All config is flat env
// vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("INQUEST_ENV")
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

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// DatabaseURL returns the archive database connection string. Empty
// disables the consultation archive.
func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// KBPath returns the path of the knowledge base document the server loads.
func KBPath() string {
	p := os.Getenv("KB_PATH")
	if p == "" {
		return "examples/kb/bloodculture.yaml"
	}
	return p
}

// APIKey returns the static bearer key guarding /v1 routes. Empty disables
// authentication.
func APIKey() string {
	return os.Getenv("API_KEY")
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

// SessionTTL returns how long finished consultations stay queryable before
// the janitor drops them. Defaults to 30 minutes.
func SessionTTL() time.Duration {
	secs, err := strconv.Atoi(os.Getenv("SESSION_TTL_SECONDS"))
	if err != nil || secs <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(secs) * time.Second
}

// MaxResolutionDepth bounds recursive premise resolution per session.
// Zero keeps the engine default.
func MaxResolutionDepth() int {
	n, err := strconv.Atoi(os.Getenv("MAX_RESOLUTION_DEPTH"))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
