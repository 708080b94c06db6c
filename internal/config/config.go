// Package config resolves fyp settings from ~/.fyp/config.toml, an optional .env file and FYP_* environment
// variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "FYP_"

	StorageChain = "chain"
	StorageFile  = "file"
	StoragePass  = "pass"
	StorageRedis = "redis"

	configDir  = ".fyp"
	configFile = "config.toml"
)

// Viper keys, as they appear in config.toml.
const (
	KeyAPIBaseURL     = "api.base_url"
	KeyAPITimeout     = "api.timeout"
	KeyStorageBackend = "storage.backend"
	KeySecretsDir     = "storage.secrets_dir"
	KeyPassPrefix     = "storage.pass_prefix"
	KeyLibraryPath    = "library.path"
	KeyRedisAddr      = "redis.addr"
	KeyRedisPassword  = "redis.password"
	KeyRedisDB        = "redis.db"
	KeyRedisPrefix    = "redis.prefix"
	KeyRedisTTL       = "redis.ttl"
	KeyLogLevel       = "log.level"
	KeyLogFormat      = "log.format"
)

type Config struct {
	APIBaseURL     string        `env:"API_BASE_URL"`
	RequestTimeout time.Duration `env:"API_TIMEOUT"`

	Storage     string `env:"STORAGE"`
	SecretsDir  string `env:"SECRETS_DIR"`
	PassPrefix  string `env:"PASS_PREFIX"`
	LibraryPath string `env:"LIBRARY_PATH"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB"`
	RedisPrefix   string        `env:"REDIS_PREFIX"`
	RedisTTL      time.Duration `env:"REDIS_TTL"`

	LogLevel  string `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_FORMAT"`
}

// Options locate the inputs of Load. Zero values mean ~/.fyp/config.toml, ./.env and the process environment.
type Options struct {
	Home       string
	ConfigFile string
	DotEnvFile string
	Environ    map[string]string
}

func Load(opts Options) (Config, error) {
	home := opts.Home
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home directory: %w", err)
		}
	}

	v := viper.New()
	setDefaults(v, home)

	configPath := opts.ConfigFile
	if configPath == "" {
		configPath = filepath.Join(home, configDir, configFile)
	}
	if _, err := os.Stat(configPath); err == nil {
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configPath, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("stat config %s: %w", configPath, err)
	}

	cfg := Config{
		APIBaseURL:     v.GetString(KeyAPIBaseURL),
		RequestTimeout: v.GetDuration(KeyAPITimeout),
		Storage:        v.GetString(KeyStorageBackend),
		SecretsDir:     v.GetString(KeySecretsDir),
		PassPrefix:     v.GetString(KeyPassPrefix),
		LibraryPath:    v.GetString(KeyLibraryPath),
		RedisAddr:      v.GetString(KeyRedisAddr),
		RedisPassword:  v.GetString(KeyRedisPassword),
		RedisDB:        v.GetInt(KeyRedisDB),
		RedisPrefix:    v.GetString(KeyRedisPrefix),
		RedisTTL:       v.GetDuration(KeyRedisTTL),
		LogLevel:       v.GetString(KeyLogLevel),
		LogFormat:      v.GetString(KeyLogFormat),
	}

	environ, err := environment(opts)
	if err != nil {
		return Config{}, err
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ, Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	cfg.SecretsDir = expandHome(cfg.SecretsDir, home)
	cfg.LibraryPath = expandHome(cfg.LibraryPath, home)
	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, home string) {
	v.SetDefault(KeyAPIBaseURL, "http://localhost:8080/api")
	v.SetDefault(KeyAPITimeout, 30*time.Second)
	v.SetDefault(KeyStorageBackend, StorageChain)
	v.SetDefault(KeySecretsDir, filepath.Join(home, configDir, "secrets"))
	v.SetDefault(KeyPassPrefix, "fyp")
	v.SetDefault(KeyLibraryPath, filepath.Join(home, configDir, "library.toml"))
	v.SetDefault(KeyRedisAddr, "localhost:6379")
	v.SetDefault(KeyRedisDB, 0)
	v.SetDefault(KeyRedisPrefix, "fyp")
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "console")
}

// environment layers the process environment over the .env file, so exported variables win.
func environment(opts Options) (map[string]string, error) {
	dotenvPath := opts.DotEnvFile
	if dotenvPath == "" {
		dotenvPath = ".env"
	}

	merged := map[string]string{}
	values, err := godotenv.Read(dotenvPath)
	switch {
	case err == nil:
		for key, value := range values {
			merged[key] = value
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read %s: %w", dotenvPath, err)
	}

	if opts.Environ != nil {
		for key, value := range opts.Environ {
			merged[key] = value
		}
		return merged, nil
	}
	for _, pair := range os.Environ() {
		if key, value, ok := strings.Cut(pair, "="); ok {
			merged[key] = value
		}
	}
	return merged, nil
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		return filepath.Join(home, rest)
	}
	return path
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if parsed, err := url.Parse(c.APIBaseURL); err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		errs = append(errs, fmt.Errorf("api base url %q must be an absolute http(s) url", c.APIBaseURL))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("api timeout must be positive"))
	}
	switch c.Storage {
	case StorageChain, StorageFile, StoragePass:
	case StorageRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			errs = append(errs, errors.New("redis storage needs redis.addr"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q (want chain, file, pass or redis)", c.Storage))
	}
	if (c.Storage == StorageChain || c.Storage == StorageFile) && c.SecretsDir == "" {
		errs = append(errs, errors.New("secrets dir is empty"))
	}
	if c.LibraryPath == "" {
		errs = append(errs, errors.New("library path is empty"))
	}
	if c.RedisTTL < 0 {
		errs = append(errs, errors.New("redis ttl must not be negative"))
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

// Viper exposes the settings consumed by adapters that read their own keys.
func (c Config) Viper() *viper.Viper {
	v := viper.New()
	v.Set(KeyLibraryPath, c.LibraryPath)
	return v
}
