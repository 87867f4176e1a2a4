package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"assetverify/internal/bootstrap/logging"
	"assetverify/internal/errs"
)

type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Log          LogConfig          `mapstructure:"log"`
	Database     DatabaseConfig     `mapstructure:"database"`
	HTTP         HTTPConfig         `mapstructure:"http"`
	Lock         LockConfig         `mapstructure:"lock"`
	Audit        AuditConfig        `mapstructure:"audit"`
	Verification VerificationConfig `mapstructure:"verification"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type HTTPConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// LockConfig selects the writer lock guarding cycle start/close.
// "local" serializes within one process; "redis" serializes across instances.
type LockConfig struct {
	Backend   string        `mapstructure:"backend"`
	RedisAddr string        `mapstructure:"redis_addr"`
	TTL       time.Duration `mapstructure:"ttl"`
}

type AuditConfig struct {
	ExpiringWindowDays int `mapstructure:"expiring_window_days"`
	UtilizationHigh    int `mapstructure:"utilization_high"`
	UtilizationLow     int `mapstructure:"utilization_low"`
	PendingBacklog     int `mapstructure:"pending_backlog"`
}

type VerificationConfig struct {
	RollupWorkers int    `mapstructure:"rollup_workers"`
	LostSentinel  string `mapstructure:"lost_sentinel"`
}

func Load(ctx context.Context, configFile string) (Config, error) {
	if ctx == nil {
		return Config{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Config{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.config"))

	// .env is optional; real environment variables still win.
	if err := godotenv.Load(); err == nil {
		logging.Info(logCtx, "loaded .env file")
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("AV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			logging.Warn(logCtx, "config file not found, fallback to defaults and env")
		} else {
			return Config{}, errs.Wrap(err, "read config")
		}
	} else {
		logging.Info(logCtx, "using config file", slog.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, "unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	logging.Info(
		logCtx,
		"config loaded",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
		slog.String("database_driver", cfg.Database.Driver),
		slog.String("lock_backend", cfg.Lock.Backend),
	)

	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("database.dsn is required")
	}

	switch strings.ToLower(strings.TrimSpace(c.Lock.Backend)) {
	case "", "local":
	case "redis":
		if strings.TrimSpace(c.Lock.RedisAddr) == "" {
			return errors.New("lock.redis_addr is required when lock.backend=redis")
		}
	default:
		return fmt.Errorf("unsupported lock backend %q", c.Lock.Backend)
	}

	if c.Audit.ExpiringWindowDays <= 0 {
		return errors.New("audit.expiring_window_days must be positive")
	}
	if c.Audit.UtilizationLow < 0 || c.Audit.UtilizationHigh > 100 || c.Audit.UtilizationLow > c.Audit.UtilizationHigh {
		return fmt.Errorf(
			"audit utilization band [%d,%d] is invalid",
			c.Audit.UtilizationLow,
			c.Audit.UtilizationHigh,
		)
	}
	if strings.TrimSpace(c.Verification.LostSentinel) == "" {
		return errors.New("verification.lost_sentinel is required")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "assetverify")
	v.SetDefault("app.env", "local")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", ".data/assetverify.sqlite")
	v.SetDefault("http.addr", ":8090")
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("lock.backend", "local")
	v.SetDefault("lock.redis_addr", "")
	v.SetDefault("lock.ttl", 30*time.Second)
	v.SetDefault("audit.expiring_window_days", 30)
	v.SetDefault("audit.utilization_high", 90)
	v.SetDefault("audit.utilization_low", 30)
	v.SetDefault("audit.pending_backlog", 10)
	v.SetDefault("verification.rollup_workers", 4)
	v.SetDefault("verification.lost_sentinel", "__LOST__")
}
