package config

import (
	"fmt"
	"regexp"
	"time"

	"github.com/robfig/cron/v3"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for the %s backend", BackendPostgres)
		}
	case BackendMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			return fmt.Errorf("mongo.uri and mongo.database are required for the %s backend", BackendMongo)
		}
	default:
		return fmt.Errorf("storage.backend must be %q or %q (got %q)", BackendPostgres, BackendMongo, c.Storage.Backend)
	}

	if c.Storage.Timeout < 0 {
		return fmt.Errorf("storage.timeout must not be negative (got %s)", c.Storage.Timeout)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}
	if c.Server.ResyncPerMinute <= 0 {
		return fmt.Errorf("server.resync_per_minute must be > 0 (got %d)", c.Server.ResyncPerMinute)
	}

	if err := c.Tagging.validate(); err != nil {
		return fmt.Errorf("tagging: %w", err)
	}
	if err := c.Letters.validate(); err != nil {
		return fmt.Errorf("letters: %w", err)
	}
	if err := c.Ingest.validate(); err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	return nil
}

func (t *TaggingConfig) validate() error {
	if t.Alphabet == "" {
		return fmt.Errorf("alphabet must not be empty")
	}
	if _, err := regexp.Compile("[^" + t.Alphabet + "]"); err != nil {
		return fmt.Errorf("alphabet %q: %w", t.Alphabet, err)
	}
	if t.CacheSize <= 0 {
		return fmt.Errorf("cache_size must be > 0 (got %d)", t.CacheSize)
	}
	return nil
}

func (l *LettersConfig) validate() error {
	for name, spec := range map[string]string{
		"resync_schedule": l.ResyncSchedule,
		"decay_schedule":  l.DecaySchedule,
	} {
		if spec == "" {
			continue
		}
		if _, err := cron.ParseStandard(spec); err != nil {
			return fmt.Errorf("%s %q: %w", name, spec, err)
		}
	}
	if l.DecayFactor <= 0 || l.DecayFactor > 1 {
		return fmt.Errorf("decay_factor must be in (0, 1] (got %v)", l.DecayFactor)
	}
	if _, err := time.LoadLocation(l.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", l.Timezone, err)
	}
	return nil
}

// Location returns the scheduler time zone. Validate guarantees it loads.
func (l LettersConfig) Location() *time.Location {
	loc, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (i *IngestConfig) validate() error {
	if i.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0 (got %d)", i.BatchSize)
	}
	if i.Workers <= 0 {
		return fmt.Errorf("workers must be > 0 (got %d)", i.Workers)
	}
	if i.Schedule != "" {
		if _, err := cron.ParseStandard(i.Schedule); err != nil {
			return fmt.Errorf("schedule %q: %w", i.Schedule, err)
		}
	}
	return nil
}
