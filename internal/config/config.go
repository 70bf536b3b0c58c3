// Package config loads process configuration from an optional
// skillbridge.yaml, a .env file and SKILLBRIDGE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SKILLBRIDGE_LOG_LEVEL.
const EnvPrefix = "SKILLBRIDGE"

type Config struct {
	Data   DataConfig
	DB     DBConfig
	Log    LoggerConfig
	LLM    LLMConfig
	Redis  RedisConfig
	Server ServerConfig
}

type DataConfig struct {
	Questions string
	Rubric    string
	Templates string
}

type DBConfig struct {
	// Path is the SQLite file; empty means the default data directory.
	Path string
}

type LoggerConfig struct {
	Level string // debug or info
	Env   string // production selects JSON output
}

type LLMConfig struct {
	// Provider overrides the discovered provider when its credential is set.
	Provider string
	Model    string
	Timeout  time.Duration
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type ServerConfig struct {
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	// SessionIdleTTL drops sessions untouched for this long; zero keeps them.
	SessionIdleTTL time.Duration
}

// Options controls where Load looks.
type Options struct {
	// ConfigFile is an explicit config path; empty searches "." and "./config"
	// for skillbridge.yaml.
	ConfigFile string

	// EnvFile is the dotenv file loaded first; empty means ".env".
	EnvFile string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.questions", "data/questions.json")
	v.SetDefault("data.rubric", "data/rubric.json")
	v.SetDefault("data.templates", "data/coach_templates.json")
	v.SetDefault("db.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.env", "development")
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 90*time.Second)
	v.SetDefault("server.session_idle_ttl", 2*time.Hour)
}

// Load reads the configuration. A missing config file or .env file is
// not an error; a malformed one is.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName("skillbridge")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{
		Data: DataConfig{
			Questions: v.GetString("data.questions"),
			Rubric:    v.GetString("data.rubric"),
			Templates: v.GetString("data.templates"),
		},
		DB: DBConfig{
			Path: v.GetString("db.path"),
		},
		Log: LoggerConfig{
			Level: strings.ToLower(v.GetString("log.level")),
			Env:   strings.ToLower(v.GetString("log.env")),
		},
		LLM: LLMConfig{
			Provider: strings.ToLower(strings.TrimSpace(v.GetString("llm.provider"))),
			Model:    v.GetString("llm.model"),
			Timeout:  v.GetDuration("llm.timeout"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Server: ServerConfig{
			Port:           v.GetInt("server.port"),
			ReadTimeout:    v.GetDuration("server.read_timeout"),
			WriteTimeout:   v.GetDuration("server.write_timeout"),
			SessionIdleTTL: v.GetDuration("server.session_idle_ttl"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.LLM.Timeout < 0 {
		return fmt.Errorf("llm.timeout must not be negative")
	}
	switch c.Log.Level {
	case "debug", "info":
	default:
		return fmt.Errorf("log.level %q: want debug or info", c.Log.Level)
	}
	return nil
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
