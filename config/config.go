package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the run settings. Every field has a default, so the tool
// runs without any environment; CLI arguments override what Load returns.
type Config struct {
	InputDir  string
	OutputDir string
	RulesPath string

	DataFileName   string
	ViewerFileName string
	CSVFileName    string

	MaxRetries   int
	RetryDelayMs int
	Verbose      bool
}

// Load reads an optional .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] Ignoring unreadable .env file: %v", err)
	}

	return &Config{
		InputDir:  getEnv("PRICELIST_INPUT_DIR", "cenniky"),
		OutputDir: getEnv("PRICELIST_OUTPUT_DIR", "docs"),
		RulesPath: getEnv("PRICELIST_RULES", ""),

		DataFileName:   getEnv("PRICELIST_DATA_FILE", "summary.json"),
		ViewerFileName: getEnv("PRICELIST_VIEWER_FILE", "index.html"),
		CSVFileName:    getEnv("PRICELIST_CSV_FILE", "pricelists.csv"),

		MaxRetries:   getEnvInt("PRICELIST_MAX_RETRIES", 3),
		RetryDelayMs: getEnvInt("PRICELIST_RETRY_DELAY_MS", 200),
		Verbose:      getEnvBool("PRICELIST_VERBOSE", false),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err == nil {
			return b
		}
	}
	return fallback
}
