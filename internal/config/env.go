package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Hosted CI detection. The documentation host sets this variable; detection
// requires an exact, case-sensitive match against the sentinel.
const (
	hostedCIEnvVar   = "READTHEDOCS"
	hostedCISentinel = "True"
)

// HostedCIFromEnv reports whether the process is running on the hosted CI
// documentation service. Callers that want the ambient behavior use this to
// decide Reference.HostedCI; nothing inside the build pipeline reads the
// environment directly.
func HostedCIFromEnv() bool {
	return os.Getenv(hostedCIEnvVar) == hostedCISentinel
}

// loadEnvFiles loads environment variables from .env/.env.local files.
// It attempts each supported filename in order and stops at the first one
// that exists. Existing process environment variables are not overwritten.
func loadEnvFiles() {
	for _, envPath := range []string{".env", ".env.local"} {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			slog.Warn("Failed to load environment file", "path", envPath, "error", err)
			return
		}
		slog.Debug("Loaded environment variables", "path", envPath)
		return
	}
}
