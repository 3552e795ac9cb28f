package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Validate checks the configuration required by a command. mode is one of
// "enrich", "serve" or "cache".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "enrich":
		errs = append(errs, c.validateEnrich()...)
		errs = append(errs, c.validateCache()...)
	case "serve":
		errs = append(errs, c.validateEnrich()...)
		errs = append(errs, c.validateCache()...)
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
	case "cache":
		errs = append(errs, c.validateCache()...)
		if c.Cache.Driver == "none" || c.Cache.Driver == "" {
			errs = append(errs, "cache.driver must be sqlite or postgres")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) validateEnrich() []string {
	var errs []string
	if c.Enrich.MinConfidence < 0 || c.Enrich.MinConfidence > 1 {
		errs = append(errs, fmt.Sprintf("enrich.min_confidence must be between 0 and 1 (got %v)", c.Enrich.MinConfidence))
	}
	if c.Enrich.LeadDelayMs < 0 {
		errs = append(errs, "enrich.lead_delay_ms must be >= 0")
	}
	if c.Enrich.ProbeTimeoutSecs <= 0 {
		errs = append(errs, "enrich.probe_timeout_secs must be > 0")
	}
	switch c.Enrich.Similarity {
	case "", "token_sort", "word_overlap":
	default:
		errs = append(errs, fmt.Sprintf("enrich.similarity %q is not one of token_sort, word_overlap", c.Enrich.Similarity))
	}
	return errs
}

func (c *Config) validateCache() []string {
	switch c.Cache.Driver {
	case "", "none", "sqlite":
		return nil
	case "postgres":
		if c.Cache.DatabaseURL == "" {
			return []string{"cache.database_url is required for postgres"}
		}
		return nil
	default:
		return []string{fmt.Sprintf("cache.driver %q is not one of none, sqlite, postgres", c.Cache.Driver)}
	}
}
