package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"fooddelivery/internal/pkg/errs"

	"github.com/joho/godotenv"
)

// Journal drivers accepted by JOURNAL_DRIVER.
const (
	JournalMemory   = "memory"
	JournalSQLite   = "sqlite"
	JournalPostgres = "postgres"
)

type Config struct {
	Couriers          int
	TransitDelay      time.Duration
	TransitJitter     time.Duration
	BacklogCapacity   int
	WaitForDeliveries bool
	OrdersFile        string

	JournalDriver string
	SQLitePath    string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSslMode     string

	HTTPPort       string
	ReportSchedule string

	LogLevel    string
	LogFormat   string
	OTELEnabled bool
}

// DefaultConfig returns the settings used for every variable left unset.
func DefaultConfig() Config {
	return Config{
		Couriers:          3,
		TransitDelay:      time.Second,
		BacklogCapacity:   3,
		WaitForDeliveries: true,
		JournalDriver:     JournalMemory,
		SQLitePath:        "deliveries.db",
		DBSslMode:         "disable",
		LogLevel:          "info",
		LogFormat:         "text",
	}
}

// LoadEnvFiles loads each file into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadEnvFiles(files ...string) error {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

// ConfigFromEnv builds a Config from lookup, usually os.LookupEnv.
func ConfigFromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := DefaultConfig()
	env := envReader{lookup: lookup}

	cfg.Couriers = env.lookupInt("COURIERS", cfg.Couriers)
	cfg.TransitDelay = env.lookupDuration("TRANSIT_DELAY", cfg.TransitDelay)
	cfg.TransitJitter = env.lookupDuration("TRANSIT_JITTER", cfg.TransitJitter)
	cfg.BacklogCapacity = env.lookupInt("BACKLOG_CAPACITY", cfg.BacklogCapacity)
	cfg.WaitForDeliveries = env.lookupBool("WAIT_FOR_DELIVERIES", cfg.WaitForDeliveries)
	cfg.OrdersFile = env.lookupString("ORDERS_FILE", cfg.OrdersFile)

	cfg.JournalDriver = strings.ToLower(env.lookupString("JOURNAL_DRIVER", cfg.JournalDriver))
	cfg.SQLitePath = env.lookupString("SQLITE_PATH", cfg.SQLitePath)
	cfg.DBHost = env.lookupString("DB_HOST", cfg.DBHost)
	cfg.DBPort = env.lookupString("DB_PORT", cfg.DBPort)
	cfg.DBUser = env.lookupString("DB_USER", cfg.DBUser)
	cfg.DBPassword = env.lookupString("DB_PASSWORD", cfg.DBPassword)
	cfg.DBName = env.lookupString("DB_NAME", cfg.DBName)
	cfg.DBSslMode = env.lookupString("DB_SSLMODE", cfg.DBSslMode)

	cfg.HTTPPort = env.lookupString("HTTP_PORT", cfg.HTTPPort)
	cfg.ReportSchedule = env.lookupString("REPORT_SCHEDULE", cfg.ReportSchedule)

	cfg.LogLevel = env.lookupString("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = env.lookupString("LOG_FORMAT", cfg.LogFormat)
	cfg.OTELEnabled = env.lookupBool("OTEL_ENABLED", cfg.OTELEnabled)

	if err := errors.Join(env.errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings that cannot be corrected by a default.
func (c Config) Validate() error {
	var errList []error
	if c.Couriers < 1 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("COURIERS", c.Couriers, 1, "unbounded"))
	}
	if c.BacklogCapacity < 1 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("BACKLOG_CAPACITY", c.BacklogCapacity, 1, "unbounded"))
	}
	if c.TransitDelay < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("TRANSIT_DELAY", c.TransitDelay, 0, "unbounded"))
	}
	if c.TransitJitter < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("TRANSIT_JITTER", c.TransitJitter, 0, "unbounded"))
	}

	switch c.JournalDriver {
	case JournalMemory:
	case JournalSQLite:
		if c.SQLitePath == "" {
			errList = append(errList, errs.NewValueIsRequiredError("SQLITE_PATH"))
		}
	case JournalPostgres:
		// connection details are checked by postgres.MakeConnectionString
	default:
		errList = append(errList, errs.NewValueIsInvalidError("JOURNAL_DRIVER"))
	}

	return errors.Join(errList...)
}

type envReader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (r *envReader) lookupString(key, fallback string) string {
	v, ok := r.lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	return strings.TrimSpace(v)
}

func (r *envReader) lookupInt(key string, fallback int) int {
	v := r.lookupString(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, errs.NewValueIsInvalidErrorWithCause(key, err))
		return fallback
	}
	return n
}

func (r *envReader) lookupBool(key string, fallback bool) bool {
	v := r.lookupString(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.errs = append(r.errs, errs.NewValueIsInvalidErrorWithCause(key, err))
		return fallback
	}
	return b
}

func (r *envReader) lookupDuration(key string, fallback time.Duration) time.Duration {
	v := r.lookupString(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, errs.NewValueIsInvalidErrorWithCause(key, err))
		return fallback
	}
	return d
}
