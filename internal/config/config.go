// Package config loads application settings from the environment.
//
// Every setting is a BAVUGA_* variable with a sensible default, so a bare
// `bavuga serve` works out of the box. A .env file in the working directory
// is applied first when present. Provider API keys (GEMINI_API_KEY,
// OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY) are not part of
// this struct; the llm package discovers them directly.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the full application configuration for serve and play modes.
type Config struct {
	// Addr is the HTTP listen address for serve mode.
	Addr string `env:"BAVUGA_ADDR" env-default:":8080"`

	// DBPath locates the SQLite database file. Empty selects the
	// per-user default under the OS data directory.
	DBPath string `env:"BAVUGA_DB"`

	// RiddleFile is the JSON file the riddle bank loads at startup.
	// A missing or malformed file leaves the bank empty.
	RiddleFile string `env:"BAVUGA_RIDDLES" env-default:"riddles.json"`

	// ImageDir holds the sample images used by image challenges.
	// Generated images are saved there as well.
	ImageDir string `env:"BAVUGA_IMAGE_DIR" env-default:"sampleimg"`

	// ImageAPIURL is the base URL of an optional image generation
	// server. Empty disables generation and image challenges draw
	// from ImageDir only.
	ImageAPIURL string `env:"BAVUGA_IMAGE_API_URL"`

	// ImageRatio is the aspect ratio requested from the image server.
	ImageRatio string `env:"BAVUGA_IMAGE_RATIO" env-default:"1:1"`

	// ImageTimeout bounds a single image generation call.
	ImageTimeout time.Duration `env:"BAVUGA_IMAGE_TIMEOUT" env-default:"60s"`

	// ModelChain overrides the model failover order as a comma-separated
	// list of provider:model pairs, for example
	// "gemini:gemini-2.5-flash,openai:gpt-4o-mini". Empty discovers a
	// chain from whichever API keys are present.
	ModelChain string `env:"BAVUGA_MODEL_CHAIN"`

	// LogLevel is the zerolog level: trace, debug, info, warn or error.
	LogLevel string `env:"BAVUGA_LOG_LEVEL" env-default:"info"`

	// LogFormat selects log output, "console" or "json".
	LogFormat string `env:"BAVUGA_LOG_FORMAT" env-default:"console"`
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first; a missing one is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	return cfg, nil
}
