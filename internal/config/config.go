package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/seismowatch/faceauth/internal/phash"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Matching. The threshold trades false accepts against false
	// rejects; the default tolerates lighting and pose variance while
	// staying far below the 64-bit width. Calibrate against real
	// enrollment data before changing it.
	FaceMatchThreshold int `envconfig:"FACE_MATCH_THRESHOLD" default:"16"`

	// Sessions
	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"60m"`

	// Prediction collaborator
	PredictorURL string `envconfig:"PREDICTOR_URL" default:"http://localhost:8500"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if cfg.FaceMatchThreshold < 0 || cfg.FaceMatchThreshold > phash.BitWidth {
		return nil, fmt.Errorf("load config: FACE_MATCH_THRESHOLD must be between 0 and %d", phash.BitWidth)
	}

	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
