package config

import (
	"bytes"
	_ "embed"
	"time"

	"github.com/spf13/viper"
)

//go:embed defaults.yaml
var defaults []byte

// ---- Root ----

type Config struct {
	HTTP       HTTPConfig      `mapstructure:"http"`
	Storage    StorageConfig   `mapstructure:"storage"`
	MySQL      DatabaseConfig  `mapstructure:"mysql"`
	ClickHouse DatabaseConfig  `mapstructure:"clickhouse"`
	Redis      RedisConfig     `mapstructure:"redis"`
	Kafka      KafkaConfig     `mapstructure:"kafka"`
	SMTP       SMTPConfig      `mapstructure:"smtp"`
	Quota      QuotaConfig     `mapstructure:"quota"`
	Outreach   OutreachConfig  `mapstructure:"outreach"`
	Sources    SourcesConfig   `mapstructure:"sources"`
	Personal   PersonalConfig  `mapstructure:"personal"`
	Scheduler  SchedulerConfig `mapstructure:"scheduler"`
	LogLevel   string          `mapstructure:"log_level"`
}

// ---- Leaf structs ----

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type StorageConfig struct {
	Backend      string `mapstructure:"backend"` // file | mysql
	SnapshotPath string `mapstructure:"snapshot_path"`
	AppendPath   string `mapstructure:"append_path"`
}

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idletime"`
	PingTimeout     time.Duration `mapstructure:"ping_timeout"`
}

type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

type KafkaConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	Brokers        []string `mapstructure:"brokers"`
	Topic          string   `mapstructure:"topic"`
	GroupID        string   `mapstructure:"group_id"`
	MinBytes       int      `mapstructure:"min_bytes"`
	MaxBytes       int      `mapstructure:"max_bytes"`
	CommitInterval int      `mapstructure:"commit_interval_ms"`
	DrainWaitMs    int      `mapstructure:"drain_wait_ms"`
	DrainMax       int      `mapstructure:"drain_max"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
}

type QuotaConfig struct {
	DailyLimit int    `mapstructure:"daily_limit"`
	Store      string `mapstructure:"store"` // file | redis
	StatePath  string `mapstructure:"state_path"`
	KeyPrefix  string `mapstructure:"key_prefix"`
}

type OutreachConfig struct {
	LeadBatchSize    int           `mapstructure:"lead_batch_size"`
	CompanyBatchSize int           `mapstructure:"company_batch_size"`
	CoolDown         time.Duration `mapstructure:"cool_down"`
}

type SourcesConfig struct {
	TimeoutMs  int              `mapstructure:"timeout_ms"`
	MaxAgeDays int              `mapstructure:"max_age_days"`
	Keywords   []string         `mapstructure:"keywords"`
	Reddit     RedditConfig     `mapstructure:"reddit"`
	GitHub     GitHubConfig     `mapstructure:"github"`
	HackerNews HackerNewsConfig `mapstructure:"hackernews"`
}

type RedditConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	Subreddits []string `mapstructure:"subreddits"`
	Limit      int      `mapstructure:"limit"`
}

type GitHubConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Token   string   `mapstructure:"token"`
	Queries []string `mapstructure:"queries"`
	PerPage int      `mapstructure:"per_page"`
}

type HackerNewsConfig struct {
	Enabled      bool  `mapstructure:"enabled"`
	HiringItemID int64 `mapstructure:"hiring_item_id"`
	MaxComments  int   `mapstructure:"max_comments"`
}

type PersonalConfig struct {
	Name     string `mapstructure:"name"`
	LinkedIn string `mapstructure:"linkedin"`
	GitHub   string `mapstructure:"github"`
}

type SchedulerConfig struct {
	ScanEvery     time.Duration `mapstructure:"scan_every"`
	OutreachEvery time.Duration `mapstructure:"outreach_every"`
	SaveEvery     time.Duration `mapstructure:"save_every"`
}

// Load reads embedded defaults, merges user YAML (if provided), and applies env overrides (JOBPULSE_*).
func Load(path string) (Config, error) {
	v := viper.New()

	// embedded defaults
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, err
	}

	if path != "" {
		v.SetConfigFile(path)
		_ = v.MergeInConfig()
	}

	// env override (JOBPULSE_*)
	v.SetEnvPrefix("JOBPULSE")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
