package cmd

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bnema/fyp-cli/internal/adapters/httpapi"
	"github.com/bnema/fyp-cli/internal/adapters/render"
	tomlrepo "github.com/bnema/fyp-cli/internal/adapters/repo/toml"
	chainstore "github.com/bnema/fyp-cli/internal/adapters/secrets/chain"
	filestore "github.com/bnema/fyp-cli/internal/adapters/secrets/file"
	passstore "github.com/bnema/fyp-cli/internal/adapters/secrets/pass"
	redisstore "github.com/bnema/fyp-cli/internal/adapters/secrets/redis"
	"github.com/bnema/fyp-cli/internal/application"
	"github.com/bnema/fyp-cli/internal/config"
	"github.com/bnema/fyp-cli/internal/domain"
	"github.com/bnema/fyp-cli/internal/logging"
	"github.com/bnema/fyp-cli/internal/ports"
	"github.com/bnema/fyp-cli/internal/version"
)

type app struct {
	cfg      config.Config
	logger   *zap.Logger
	session  *application.SessionManager
	projects *application.ProjectCache
	now      func() time.Time
	closers  []func() error

	renderSession   func(application.SessionState, render.SessionOptions) (string, error)
	renderProject   func(domain.Project, render.ProjectOptions) (string, error)
	renderPage      func(domain.ResultPage, render.ProjectOptions) (string, error)
	renderSummaries func(string, []domain.ProjectSummary, render.ProjectOptions) (string, error)
}

func wireApp(logOutput io.Writer) (*app, error) {
	cfg, err := config.Load(config.Options{})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: logOutput})
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	store, closeStore, err := newSessionStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire session store: %w", err)
	}

	repo, err := tomlrepo.NewRepositoryFromConfig(cfg.Viper())
	if err != nil {
		return nil, fmt.Errorf("wire library repository: %w", err)
	}

	client := httpapi.Client{
		BaseURL:        cfg.APIBaseURL,
		HTTPClient:     http.DefaultClient,
		RequestTimeout: cfg.RequestTimeout,
		UserAgent:      "fyp/" + version.Version,
		Logger:         logger.Named("api"),
	}
	session := application.NewSessionManager(client, store, ports.SystemClock{}, ports.SystemScheduler{}, logger)
	client.Tokens = session

	a := &app{
		cfg:             cfg,
		logger:          logger,
		session:         session,
		projects:        application.NewProjectCache(client, repo, ports.SystemClock{}, logger),
		now:             time.Now,
		renderSession:   render.Session,
		renderProject:   render.Project,
		renderPage:      render.Page,
		renderSummaries: render.Summaries,
	}
	if closeStore != nil {
		a.closers = append(a.closers, closeStore)
	}
	return a, nil
}

func newSessionStore(cfg config.Config) (ports.SecretStore, func() error, error) {
	switch cfg.Storage {
	case config.StorageFile:
		return filestore.NewStore(cfg.SecretsDir), nil, nil
	case config.StoragePass:
		return passstore.NewStore(passstore.WithPrefix(cfg.PassPrefix)), nil, nil
	case config.StorageRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return redisstore.NewStore(client, cfg.RedisPrefix, cfg.RedisTTL), client.Close, nil
	case config.StorageChain, "":
		store, err := chainstore.NewPassFirstWithFileFallback(cfg.PassPrefix, cfg.SecretsDir)
		return store, nil, err
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}

// close stops the refresh timer and releases store connections.
func (a *app) close() error {
	a.session.Close()
	var errs []error
	for _, closeFn := range a.closers {
		errs = append(errs, closeFn())
	}
	_ = a.logger.Sync()
	return errors.Join(errs...)
}
