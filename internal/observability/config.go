package observability

import "github.com/smallbiznis/taller/internal/config"

// Config carries the observability knobs derived from app config.
type Config struct {
	environment string
}

// Debug reports whether verbose diagnostics (stacks on request
// errors) should be emitted. Enabled outside production.
func (c Config) Debug() bool {
	return c.environment != "production"
}

func provideConfig(cfg config.Config) Config {
	return Config{environment: cfg.Environment}
}
