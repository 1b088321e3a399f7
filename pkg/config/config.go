package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 LISTING_DATABASE_DSN
const EnvPrefix = "LISTING"

// 上架后端
const (
	ListingBackendDB     = "db"
	ListingBackendRemote = "remote"
)

// Config 服务配置
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Session   SessionConfig   `mapstructure:"session"`
	Listing   ListingConfig   `mapstructure:"listing"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin 模式: debug / release / test
}

type DatabaseConfig struct {
	DSN      string `mapstructure:"dsn"`
	LogLevel string `mapstructure:"log_level"` // silent / error / warn / info
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

type CatalogConfig struct {
	Path string `mapstructure:"path"` // 为空时使用内置目录
}

type SessionConfig struct {
	TTL       time.Duration `mapstructure:"ttl"`
	SweepCron string        `mapstructure:"sweep_cron"`
}

type ListingConfig struct {
	Backend     string        `mapstructure:"backend"`
	RemoteURL   string        `mapstructure:"remote_url"`
	RemoteToken string        `mapstructure:"remote_token"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type RateLimitConfig struct {
	SubmitPerMinute int `mapstructure:"submit_per_minute"`
	Burst           int `mapstructure:"burst"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// setDefaults 默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("jwt.secret", "listing-wizard-secret-change-in-production")
	v.SetDefault("jwt.issuer", "listing-wizard")
	v.SetDefault("catalog.path", "")
	v.SetDefault("session.ttl", 2*time.Hour)
	v.SetDefault("session.sweep_cron", "0 */5 * * * *")
	v.SetDefault("listing.backend", ListingBackendDB)
	v.SetDefault("listing.remote_url", "")
	v.SetDefault("listing.remote_token", "")
	v.SetDefault("listing.timeout", 10*time.Second)
	v.SetDefault("ratelimit.submit_per_minute", 6)
	v.SetDefault("ratelimit.burst", 2)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Load 加载配置
// path 为空时只使用默认值和环境变量
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 检查配置之间的约束
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port 无效: %d", c.Server.Port))
	}
	switch c.Listing.Backend {
	case ListingBackendDB:
		if c.Database.DSN == "" {
			errs = append(errs, errors.New("listing.backend=db 时必须配置 database.dsn"))
		}
	case ListingBackendRemote:
		if c.Listing.RemoteURL == "" {
			errs = append(errs, errors.New("listing.backend=remote 时必须配置 listing.remote_url"))
		}
	default:
		errs = append(errs, fmt.Errorf("未知的 listing.backend: %q", c.Listing.Backend))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("session.ttl 必须大于 0"))
	}
	if c.RateLimit.SubmitPerMinute <= 0 || c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("ratelimit.submit_per_minute 和 ratelimit.burst 必须大于 0"))
	}

	return errors.Join(errs...)
}

// Addr gin 监听地址
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
