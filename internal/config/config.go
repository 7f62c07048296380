// Package config defines service configuration and its layered loading.
package config

// Config contains process configuration for the sentinel server.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// DBPath is the SQLite archive location. Empty disables archiving.
	DBPath string `koanf:"db_path"`
	// MigrationsDir holds the archive schema migrations.
	MigrationsDir string `koanf:"migrations_dir"`

	// TLEPaths are local TLE files loaded into the catalog at startup.
	TLEPaths []string `koanf:"tle_paths"`
	// CelestrakGroups are the element groups fetched on refresh.
	CelestrakGroups []string `koanf:"celestrak_groups"`
	// FetchURL is the TLE source template; %s receives the group name.
	// Empty selects CelesTrak.
	FetchURL string `koanf:"fetch_url"`
	// RefreshIntervalMinutes drives the background refresh loop;
	// 0 disables it (POST /api/v1/refresh still works).
	RefreshIntervalMinutes int `koanf:"refresh_interval_minutes"`

	// WindowHours and StepMinutes set the default analysis window.
	WindowHours int `koanf:"window_hours"`
	StepMinutes int `koanf:"step_minutes"`

	// AllowSimulated permits the synthetic-elements fallback for unknown
	// object names on every request.
	AllowSimulated bool `koanf:"allow_simulated"`
	// RefineApproach enables golden-section refinement between samples.
	RefineApproach bool `koanf:"refine_approach"`

	// Tracing settings, flat keys to keep env mapping simple.
	TracingEnabled     bool    `koanf:"tracing_enabled"`
	TracingExporter    string  `koanf:"tracing_exporter"` // stdout | otlp
	TracingEndpoint    string  `koanf:"tracing_endpoint"`
	TracingSampleRatio float64 `koanf:"tracing_sample_ratio"`
}

// New returns the defaults.
func New() *Config {
	return &Config{
		Addr:                   ":8080",
		LogLevel:               "info",
		LogFormat:              "text",
		DBPath:                 "sentinel.db",
		MigrationsDir:          "migrations",
		CelestrakGroups:        []string{"stations", "starlink"},
		RefreshIntervalMinutes: 0,
		WindowHours:            24,
		StepMinutes:            5,
		AllowSimulated:         false,
		RefineApproach:         false,
		TracingExporter:        "stdout",
		TracingSampleRatio:     1.0,
	}
}
