package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env        string
	AppName    string
	AppVersion string
	DateFormat string

	Log        LogConfig
	Paths      PathsConfig
	Enrollment EnrollmentConfig
	Backup     BackupConfig
	Export     ExportConfig
	Reports    ReportsConfig
	Metrics    MetricsConfig
	Snapshot   SnapshotConfig
	SeedSample bool
}

type LogConfig struct {
	Level  string
	Format string
}

// PathsConfig holds the directories used by file adapters.
type PathsConfig struct {
	DataDir   string
	ExportDir string
	BackupDir string
}

// EnrollmentConfig carries the business limits applied by the ledger.
type EnrollmentConfig struct {
	MaxCreditsPerSemester int
}

// BackupConfig controls backup retention.
type BackupConfig struct {
	Keep int
}

// ExportConfig bounds the transcript export worker pool.
type ExportConfig struct {
	Workers int
}

// ReportsConfig controls report rendering.
type ReportsConfig struct {
	Locale string
}

// MetricsConfig controls where ledger metrics are written on shutdown.
type MetricsConfig struct {
	File string
}

// SnapshotConfig toggles the SQL snapshot adapter.
type SnapshotConfig struct {
	Enabled bool
	Driver  string
	DSN     string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.AppName = v.GetString("APP_NAME")
	cfg.AppVersion = v.GetString("APP_VERSION")
	cfg.DateFormat = v.GetString("DATE_FORMAT")

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Paths = PathsConfig{
		DataDir:   v.GetString("DATA_DIR"),
		ExportDir: v.GetString("EXPORT_DIR"),
		BackupDir: v.GetString("BACKUP_DIR"),
	}

	maxCredits := v.GetInt("MAX_CREDITS_PER_SEMESTER")
	if maxCredits <= 0 {
		maxCredits = 20
	}
	cfg.Enrollment = EnrollmentConfig{MaxCreditsPerSemester: maxCredits}

	keep := v.GetInt("BACKUP_KEEP")
	if keep <= 0 {
		keep = 5
	}
	cfg.Backup = BackupConfig{Keep: keep}

	workers := v.GetInt("EXPORT_WORKERS")
	if workers <= 0 {
		workers = 4
	}
	cfg.Export = ExportConfig{Workers: workers}

	cfg.Reports = ReportsConfig{Locale: v.GetString("REPORT_LOCALE")}
	cfg.Metrics = MetricsConfig{File: v.GetString("METRICS_FILE")}

	cfg.Snapshot = SnapshotConfig{
		Enabled: v.GetBool("SNAPSHOT_ENABLED"),
		Driver:  v.GetString("SNAPSHOT_DRIVER"),
		DSN:     v.GetString("SNAPSHOT_DSN"),
	}

	cfg.SeedSample = v.GetBool("SEED_SAMPLE_DATA")

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("APP_NAME", "Campus Course & Records Manager")
	v.SetDefault("APP_VERSION", "1.0")
	v.SetDefault("DATE_FORMAT", "2006-01-02")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("EXPORT_DIR", "./exports")
	v.SetDefault("BACKUP_DIR", "./backups")
	v.SetDefault("BACKUP_KEEP", 5)
	v.SetDefault("EXPORT_WORKERS", 4)

	v.SetDefault("MAX_CREDITS_PER_SEMESTER", 20)
	v.SetDefault("REPORT_LOCALE", "en")
	v.SetDefault("METRICS_FILE", "")

	v.SetDefault("SNAPSHOT_ENABLED", false)
	v.SetDefault("SNAPSHOT_DRIVER", "sqlite")
	v.SetDefault("SNAPSHOT_DSN", "file:ccrm.db")

	v.SetDefault("SEED_SAMPLE_DATA", true)
}

// Print renders the effective configuration in a human readable block.
func (c *Config) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Application Configuration ===")
	fmt.Fprintf(w, "Application: %s\n", c.AppName)
	fmt.Fprintf(w, "Version: %s\n", c.AppVersion)
	fmt.Fprintf(w, "Environment: %s\n", c.Env)
	fmt.Fprintf(w, "Data Directory: %s\n", c.Paths.DataDir)
	fmt.Fprintf(w, "Backup Directory: %s\n", c.Paths.BackupDir)
	fmt.Fprintf(w, "Export Directory: %s\n", c.Paths.ExportDir)
	fmt.Fprintf(w, "Max Credits/Semester: %d\n", c.Enrollment.MaxCreditsPerSemester)
	fmt.Fprintf(w, "Date Format: %s\n", c.DateFormat)
	fmt.Fprintln(w, strings.Repeat("=", 35))
}
