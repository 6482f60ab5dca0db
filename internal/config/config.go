package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
	DB          DBConfig          `mapstructure:"db"`
	Cron        CronConfig        `mapstructure:"cron"`
	Reconstruct ReconstructConfig `mapstructure:"reconstruct"`
	Upload      UploadConfig      `mapstructure:"upload"`
	Inbox       InboxConfig       `mapstructure:"inbox"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr        string        `mapstructure:"http_addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// RequireBearer rejects /api requests without an Authorization header.
	RequireBearer bool `mapstructure:"require_bearer"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
	// Output is "stdout", "stderr" or a file path.
	Output string `mapstructure:"output"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	SlowThreshold   time.Duration `mapstructure:"slow_threshold"`
	LogQueries      bool          `mapstructure:"log_queries"`
}

type CronConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type ReconstructConfig struct {
	DisplayUTCOffset time.Duration `mapstructure:"display_utc_offset"`
	DisplayZoneName  string        `mapstructure:"display_zone_name"`
	IncludeOpen      bool          `mapstructure:"include_open"`
	Workers          int           `mapstructure:"workers"`
}

type UploadConfig struct {
	MaxBytes       int64  `mapstructure:"max_bytes"`
	HistoryField   string `mapstructure:"history_field"`
	PositionsField string `mapstructure:"positions_field"`
}

type InboxConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Dir          string `mapstructure:"dir"`
	ProcessedDir string `mapstructure:"processed_dir"`
	Spec         string `mapstructure:"spec"`
	UserID       string `mapstructure:"user_id"`
	TradeAccount string `mapstructure:"trade_account"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TJ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.require_bearer", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("log.output", "stdout")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.auto_migrate", true)
	v.SetDefault("db.slow_threshold", "500ms")
	v.SetDefault("db.log_queries", false)
	v.SetDefault("cron.enabled", true)

	// The display offset is a fixed shift, not a named timezone.
	v.SetDefault("reconstruct.display_utc_offset", "8h")
	v.SetDefault("reconstruct.display_zone_name", "SGT")
	v.SetDefault("reconstruct.include_open", false)
	v.SetDefault("reconstruct.workers", 0)

	v.SetDefault("upload.max_bytes", 10<<20)
	v.SetDefault("upload.history_field", "history")
	v.SetDefault("upload.positions_field", "positions")

	v.SetDefault("inbox.enabled", false)
	v.SetDefault("inbox.dir", "./inbox")
	v.SetDefault("inbox.processed_dir", "./inbox/processed")
	v.SetDefault("inbox.spec", "@every 1m")
	v.SetDefault("inbox.user_id", "")
	v.SetDefault("inbox.trade_account", "default")

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
