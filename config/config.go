package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fyerfyer/fyer-uquery/sqlbuilder"
	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，UQUERY_SQL_DSN 对应 sql.dsn
const EnvPrefix = "UQUERY_"

type Config struct {
	SQL    SQLConfig    `mapstructure:"sql"`
	Mongo  MongoConfig  `mapstructure:"mongo"`
	Search SearchConfig `mapstructure:"search"`
	Log    LogConfig    `mapstructure:"log"`
	Cache  CacheConfig  `mapstructure:"cache"`
}

type SQLConfig struct {
	Driver  string `mapstructure:"driver"`
	DSN     string `mapstructure:"dsn"`
	Dialect string `mapstructure:"dialect"`
}

type MongoConfig struct {
	URI         string `mapstructure:"uri"`
	Database    string `mapstructure:"database"`
	Concurrency int    `mapstructure:"concurrency"`
	// Index 指标值所在的集合
	Index string `mapstructure:"index"`
}

type SearchConfig struct {
	URLs     []string `mapstructure:"urls"`
	Analyzer string   `mapstructure:"analyzer"`
}

type LogConfig struct {
	Level   string        `mapstructure:"level"`
	Console bool          `mapstructure:"console"`
	Slow    time.Duration `mapstructure:"slow"`
}

type CacheConfig struct {
	// Redis 为空时使用进程内缓存
	Redis string        `mapstructure:"redis"`
	TTL   time.Duration `mapstructure:"ttl"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("sql.driver", "mysql")
	v.SetDefault("sql.dialect", "mysql")
	v.SetDefault("mongo.concurrency", 4)
	v.SetDefault("mongo.index", "INDEX")
	v.SetDefault("search.analyzer", "ik_smart")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.slow", time.Second)
	v.SetDefault("cache.ttl", time.Minute)
}

// Load 依次读取默认值、配置文件和环境变量，后者覆盖前者
// path 为空时只读环境变量
func Load(path string) (*Config, error) {
	v := viper.New()
	defaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		prop := strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(key, EnvPrefix), "_", "."))
		v.Set(prop, value)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}

// Validate 只校验已经配置的部分
func (c *Config) Validate() error {
	var errs []error
	if c.SQL.DSN != "" {
		if _, err := sqlbuilder.ParseDialect(c.SQL.Dialect); err != nil {
			errs = append(errs, err)
		}
		if c.SQL.Driver == "mysql" {
			if _, err := mysql.ParseDSN(c.SQL.DSN); err != nil {
				errs = append(errs, fmt.Errorf("config: sql.dsn: %w", err))
			}
		}
	}
	if c.Mongo.URI != "" && c.Mongo.Database == "" {
		errs = append(errs, errors.New("config: mongo.database is required"))
	}
	return errors.Join(errs...)
}
