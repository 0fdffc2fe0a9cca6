package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Blog     BlogConfig     `yaml:"blog"`
	Import   ImportConfig   `yaml:"import"`
	Admin    AdminConfig    `yaml:"admin"`
	Log      LogConfig      `yaml:"log"`

	// File 实际读取的配置文件路径,使用默认配置时为空
	File string `yaml:"-"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	Mode            string        `yaml:"mode"` // debug, release, test
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, postgres
	Path   string `yaml:"path"`   // sqlite文件路径,支持 :memory:
	DSN    string `yaml:"dsn"`    // postgres连接串
}

type BlogConfig struct {
	Title         string `yaml:"title"`
	PageSize      int    `yaml:"page_size"`
	ExcerptLength int    `yaml:"excerpt_length"`
	TagCloudLimit int    `yaml:"tag_cloud_limit"`
}

type ImportConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Interval string `yaml:"interval"` // cron表达式
}

type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json, pretty
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8000",
			Mode:            "debug",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			Path:   "data/blog.db",
		},
		Blog: BlogConfig{
			Title:         "金笔头博客",
			PageSize:      10,
			ExcerptLength: 300,
			TagCloudLimit: 30,
		},
		Import: ImportConfig{
			Enabled:  false,
			Interval: "0 */6 * * *", // 每6小时
		},
		Admin: AdminConfig{
			Username: "admin",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load 加载配置文件
func Load(configPath string) (*Config, error) {
	cfg := Default()

	// 如果配置文件存在,读取配置
	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", configPath, err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", configPath, err)
		}
		cfg.File = configPath
	}

	// .env 只补充环境变量,不覆盖已有的
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// 环境变量覆盖配置
func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.Mode = getEnv("GIN_MODE", c.Server.Mode)

	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.Path = getEnv("DB_PATH", c.Database.Path)
	c.Database.DSN = getEnv("DATABASE_URL", c.Database.DSN)

	c.Blog.PageSize = getIntEnv("BLOG_PAGE_SIZE", c.Blog.PageSize)

	c.Import.Enabled = getBoolEnv("IMPORT_ENABLED", c.Import.Enabled)

	c.Admin.Username = getEnv("ADMIN_USERNAME", c.Admin.Username)
	c.Admin.Password = getEnv("ADMIN_PASSWORD", c.Admin.Password)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

// Validate 校验配置
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for sqlite")
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unsupported server.mode %q", c.Server.Mode)
	}
	if c.Blog.PageSize <= 0 {
		return fmt.Errorf("blog.page_size must be positive, got %d", c.Blog.PageSize)
	}
	if c.Blog.ExcerptLength <= 0 {
		return fmt.Errorf("blog.excerpt_length must be positive, got %d", c.Blog.ExcerptLength)
	}
	if c.Blog.TagCloudLimit <= 0 {
		return fmt.Errorf("blog.tag_cloud_limit must be positive, got %d", c.Blog.TagCloudLimit)
	}
	if c.Import.Enabled && c.Import.Interval == "" {
		return fmt.Errorf("import.interval is required when import is enabled")
	}
	return nil
}

// GetServerAddress 获取服务器监听地址
func (c *Config) GetServerAddress() string {
	// 如果端口是纯数字,加上冒号前缀
	if _, err := strconv.Atoi(c.Server.Port); err == nil {
		return ":" + c.Server.Port
	}
	return c.Server.Port
}

// AdminEnabled 未设置密码时不开放后台接口
func (c *Config) AdminEnabled() bool {
	return c.Admin.Password != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
