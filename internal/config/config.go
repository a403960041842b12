package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Scan
		Import
		Tasks
		Fines
		Audit
	}

	HTTP struct {
		Port int32
		Host string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}

	Database struct {
		Path string
	}

	// Scan tunes the channel arbiter and keyboard-wedge capture.
	Scan struct {
		WedgeIdleTimeout time.Duration // gap that terminates a wedge burst
		WedgeMinLength   int           // shorter buffered text is discarded
		Cooldown         time.Duration // pause after an accepted or rejected scan
		FrameInterval    time.Duration // camera frame sampling rate
	}

	// Import bounds uploaded catalog and roster documents.
	Import struct {
		MaxUploadBytes int64
		SpoolDir       string // where async uploads are staged for the task queue
	}

	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}

	// Fines controls the overdue accrual sweep.
	Fines struct {
		Enabled    bool
		Schedule   string // Cron format: "0 2 * * *" = daily at 02:00
		RatePerDay float64
		LoanDays   int
	}

	Audit struct {
		RetentionDays int // Days to keep audit events (default: 30)
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Scan defaults
	v.SetDefault("scan_wedge_idle_timeout", "100ms")
	v.SetDefault("scan_wedge_min_length", 4)
	v.SetDefault("scan_cooldown", "1s")
	v.SetDefault("scan_frame_interval", "200ms")

	// Import defaults
	v.SetDefault("import_max_upload_bytes", DefaultMaxUploadBytes)
	v.SetDefault("import_spool_dir", DefaultSpoolDir)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "5m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	// Fine accrual defaults
	v.SetDefault("fines_enabled", true)
	v.SetDefault("fines_schedule", "0 2 * * *")
	v.SetDefault("fines_rate_per_day", 5.0)
	v.SetDefault("loan_days", 14)

	// Audit defaults
	v.SetDefault("audit_retention_days", 30)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Scan: Scan{
			WedgeIdleTimeout: v.GetDuration("SCAN_WEDGE_IDLE_TIMEOUT"),
			WedgeMinLength:   v.GetInt("SCAN_WEDGE_MIN_LENGTH"),
			Cooldown:         v.GetDuration("SCAN_COOLDOWN"),
			FrameInterval:    v.GetDuration("SCAN_FRAME_INTERVAL"),
		},
		Import: Import{
			MaxUploadBytes: v.GetInt64("IMPORT_MAX_UPLOAD_BYTES"),
			SpoolDir:       v.GetString("IMPORT_SPOOL_DIR"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Fines: Fines{
			Enabled:    v.GetBool("FINES_ENABLED"),
			Schedule:   v.GetString("FINES_SCHEDULE"),
			RatePerDay: v.GetFloat64("FINES_RATE_PER_DAY"),
			LoanDays:   v.GetInt("LOAN_DAYS"),
		},
		Audit: Audit{
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
	}
}
