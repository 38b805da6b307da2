package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Import.MaxBatchSize <= 0 {
		return fmt.Errorf("import.max_batch_size must be > 0 (got %d)", c.Import.MaxBatchSize)
	}
	if c.Import.ErrorDisplayLimit <= 0 {
		return fmt.Errorf("import.error_display_limit must be > 0 (got %d)", c.Import.ErrorDisplayLimit)
	}
	if c.Import.ProgressInterval <= 0 {
		return fmt.Errorf("import.progress_interval must be > 0 (got %d)", c.Import.ProgressInterval)
	}

	if c.Database.LockTimeout < 0 {
		return fmt.Errorf("database.lock_timeout must be >= 0 (got %v)", c.Database.LockTimeout)
	}

	return nil
}
