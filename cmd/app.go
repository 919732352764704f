package cmd

import (
	"fmt"
	"time"

	"github.com/jobpulse/jobpulse/internal/config"
	"github.com/jobpulse/jobpulse/internal/db"
	"github.com/jobpulse/jobpulse/internal/delivery"
	"github.com/jobpulse/jobpulse/internal/logger"
	"github.com/jobpulse/jobpulse/internal/quota"
	"github.com/jobpulse/jobpulse/internal/repository"
	"github.com/jobpulse/jobpulse/internal/source"
	"github.com/jobpulse/jobpulse/internal/storage"
	"github.com/jobpulse/jobpulse/internal/store"
)

// app bundles the wired pipeline pieces shared by the subcommands.
type app struct {
	cfg      config.Config
	store    *store.Store
	quota    *quota.Tracker
	attempts repository.AttemptsRepository

	closers []func() error
}

func newApp() (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.LogLevel)

	a := &app{cfg: cfg}

	backend, err := a.buildBackend()
	if err != nil {
		return nil, err
	}
	a.store = store.New(backend)
	if err := a.store.Load(); err != nil {
		return nil, fmt.Errorf("load store: %w", err)
	}

	if err := a.buildQuota(); err != nil {
		return nil, err
	}
	if err := a.buildAttempts(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *app) buildBackend() (storage.Backend, error) {
	switch a.cfg.Storage.Backend {
	case "mysql":
		dbx, err := db.NewMySQLConnection(a.cfg.MySQL.DSN, db.MySQLOpts{
			MaxOpenConns:    a.cfg.MySQL.MaxOpenConns,
			MaxIdleConns:    a.cfg.MySQL.MaxIdleConns,
			ConnMaxLifetime: a.cfg.MySQL.ConnMaxLifetime,
			ConnMaxIdleTime: a.cfg.MySQL.ConnMaxIdleTime,
			PingTimeout:     a.cfg.MySQL.PingTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("mysql connect: %w", err)
		}
		backend := storage.NewMySQLBackend(dbx)
		a.closers = append(a.closers, backend.Close)
		return backend, nil

	case "", "file":
		backend, err := storage.NewFileBackend(a.cfg.Storage.SnapshotPath, a.cfg.Storage.AppendPath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, backend.Close)
		return backend, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", a.cfg.Storage.Backend)
	}
}

func (a *app) buildQuota() error {
	var stateStore quota.StateStore

	switch a.cfg.Quota.Store {
	case "redis":
		rdb, err := db.NewRedisClient(db.RedisOpts{
			Addr:        a.cfg.Redis.Addr,
			Password:    a.cfg.Redis.Password,
			DB:          a.cfg.Redis.DB,
			DialTimeout: a.cfg.Redis.DialTimeout,
		})
		if err != nil {
			return fmt.Errorf("redis connect: %w", err)
		}
		a.closers = append(a.closers, rdb.Close)
		stateStore = quota.NewRedisStore(rdb, a.cfg.Quota.KeyPrefix)

	default:
		fs, err := quota.NewFileStore(a.cfg.Quota.StatePath)
		if err != nil {
			return err
		}
		stateStore = fs
	}

	a.quota = quota.NewTracker(a.cfg.Quota.DailyLimit, stateStore)
	if err := a.quota.Load(); err != nil {
		return fmt.Errorf("load quota state: %w", err)
	}
	return nil
}

func (a *app) buildAttempts() error {
	if a.cfg.ClickHouse.DSN == "" {
		a.attempts = repository.NewMemoryAttemptsRepository(1000)
		return nil
	}

	chDB, err := db.NewClickHouseConnection(db.ClickHouseOpts{
		DSN:             a.cfg.ClickHouse.DSN,
		MaxOpenConns:    a.cfg.ClickHouse.MaxOpenConns,
		MaxIdleConns:    a.cfg.ClickHouse.MaxIdleConns,
		ConnMaxLifetime: a.cfg.ClickHouse.ConnMaxLifetime,
		ConnMaxIdleTime: a.cfg.ClickHouse.ConnMaxIdleTime,
		PingTimeout:     a.cfg.ClickHouse.PingTimeout,
	})
	if err != nil {
		return fmt.Errorf("clickhouse connect: %w", err)
	}
	a.closers = append(a.closers, chDB.Close)
	a.attempts = repository.NewCHAttemptsRepository(chDB)
	return nil
}

func (a *app) buildProviders() []source.Provider {
	srcCfg := a.cfg.Sources
	filter := source.NewFilter(srcCfg.Keywords, srcCfg.MaxAgeDays)

	var provs []source.Provider
	if srcCfg.Reddit.Enabled {
		provs = append(provs, source.NewRedditProvider(
			srcCfg.Reddit.Subreddits, srcCfg.Reddit.Limit, srcCfg.TimeoutMs, filter))
	}
	if srcCfg.GitHub.Enabled {
		provs = append(provs, source.NewGitHubProvider(
			srcCfg.GitHub.Token, srcCfg.GitHub.Queries, srcCfg.GitHub.PerPage, srcCfg.TimeoutMs, filter))
	}
	if srcCfg.HackerNews.Enabled {
		provs = append(provs, source.NewHackerNewsProvider(
			srcCfg.HackerNews.HiringItemID, srcCfg.HackerNews.MaxComments, srcCfg.TimeoutMs, filter))
	}
	if a.cfg.Kafka.Enabled {
		kp := source.NewKafkaProvider(source.KafkaConfig{
			Brokers:        a.cfg.Kafka.Brokers,
			Topic:          a.cfg.Kafka.Topic,
			GroupID:        a.cfg.Kafka.GroupID,
			MinBytes:       a.cfg.Kafka.MinBytes,
			MaxBytes:       a.cfg.Kafka.MaxBytes,
			CommitInterval: time.Duration(a.cfg.Kafka.CommitInterval) * time.Millisecond,
			DrainWait:      time.Duration(a.cfg.Kafka.DrainWaitMs) * time.Millisecond,
			DrainMax:       a.cfg.Kafka.DrainMax,
		})
		a.closers = append(a.closers, kp.Close)
		provs = append(provs, kp)
	}
	return provs
}

func (a *app) buildChannel() delivery.Channel {
	return delivery.NewSMTPChannel(
		a.cfg.SMTP.Host, a.cfg.SMTP.Port, a.cfg.SMTP.Address, a.cfg.SMTP.Password)
}

func (a *app) personal() delivery.PersonalInfo {
	return delivery.PersonalInfo{
		Name:     a.cfg.Personal.Name,
		LinkedIn: a.cfg.Personal.LinkedIn,
		GitHub:   a.cfg.Personal.GitHub,
	}
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}
