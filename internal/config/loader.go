package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// Load reads the configuration from environment variables, applying the
// `default` tag of every unset variable. An empty variable counts as unset.
//
// Load only parses. Callers apply their overrides (CLI flags) and then call
// Validate.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := loadSection(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	return cfg, nil
}

// loadSection fills the tagged fields of a section struct, recursing into
// nested sections.
func loadSection(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		if field.Type.Kind() == reflect.Struct {
			if err := loadSection(v.Field(i)); err != nil {
				return err
			}
			continue
		}

		name := field.Tag.Get("env")
		if name == "" {
			continue
		}
		value := os.Getenv(name)
		if value == "" {
			value = field.Tag.Get("default")
		}
		if value == "" {
			continue
		}
		if err := setField(v.Field(i), value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", name, value, err)
		}
	}
	return nil
}

// setField parses value into field. Supported are strings, ints, bools,
// durations and comma separated string lists.
func setField(field reflect.Value, value string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(n))
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported list type %s", field.Type())
		}
		field.Set(reflect.ValueOf(splitList(value)))
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return nil
}

// splitList splits a comma separated value and drops blank items.
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Data and build validation
	if strings.TrimSpace(c.Data.Dir) == "" {
		errs = append(errs, "REFDATA_DIR must not be empty")
	}
	if strings.TrimSpace(c.Build.Dir) == "" {
		errs = append(errs, "BUILD_DIR must not be empty")
	}
	if strings.TrimSpace(c.Build.Version) == "" {
		errs = append(errs, "LIB_VERSION must not be empty")
	}
	validOrders := map[string]bool{"first-seen": true, "sorted": true}
	if !validOrders[strings.ToLower(c.Build.MatrixIndexOrder)] {
		errs = append(errs, fmt.Sprintf("MATRIX_INDEX_ORDER (%q) must be one of: first-seen, sorted", c.Build.MatrixIndexOrder))
	}

	// Database validation
	if c.Database.MaxConns < c.Database.MinConns {
		errs = append(errs, fmt.Sprintf("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)",
			c.Database.MaxConns, c.Database.MinConns))
	}
	if c.Database.MaxConns <= 0 {
		errs = append(errs, "DB_MAX_CONNS must be positive")
	}
	if c.Database.MinConns < 0 {
		errs = append(errs, "DB_MIN_CONNS must be non-negative")
	}

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, "SERVER_REQUEST_TIMEOUT must be positive")
	}

	// Blob validation
	switch strings.ToLower(c.Blob.Driver) {
	case "none", "":
	case "fs":
		if strings.TrimSpace(c.Blob.FSRoot) == "" {
			errs = append(errs, "BLOB_FS_ROOT is required when BLOB_DRIVER is fs")
		}
	case "s3":
		if strings.TrimSpace(c.Blob.S3Bucket) == "" {
			errs = append(errs, "BLOB_S3_BUCKET is required when BLOB_DRIVER is s3")
		}
	default:
		errs = append(errs, fmt.Sprintf("BLOB_DRIVER (%q) must be one of: none, fs, s3", c.Blob.Driver))
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe string representation of the config for logging.
// Credentials and the database URL are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Data: {Dir: %q}, ", c.Data.Dir))
	b.WriteString(fmt.Sprintf("Build: {Dir: %q, Version: %q, Order: %q, Plan: %q, Metrics: %q}, ",
		c.Build.Dir, c.Build.Version, c.Build.MatrixIndexOrder, c.Build.PlanFile, c.Build.MetricsFile))
	b.WriteString(fmt.Sprintf("Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port))
	dbURL := ""
	if c.Database.URL != "" {
		dbURL = "[MASKED]"
	}
	b.WriteString(fmt.Sprintf("Database: {URL: %q, MaxConns: %d}, ", dbURL, c.Database.MaxConns))
	b.WriteString(fmt.Sprintf("Blob: {Driver: %q, Bucket: %q}, ", c.Blob.Driver, c.Blob.S3Bucket))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
