// internal/payloadcheck/config.go
package payloadcheck

import (
	"therapy-recommendations/internal/common/config"
)

// MaxPayloadBytes bounds a single payload file.
const MaxPayloadBytes = 4 << 20

type Config struct {
	DefaultKind string
	FailFast    bool
	MaxBytes    int64
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		DefaultKind: cfg.Check.DefaultKind,
		FailFast:    cfg.Check.FailFast,
		MaxBytes:    MaxPayloadBytes,
	}
}
