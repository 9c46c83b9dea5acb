package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 是整個服務的設定，在程序啟動時載入一次
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	DB         DBConfig         `mapstructure:"db"`
	Cloudinary CloudinaryConfig `mapstructure:"cloudinary"`
	Remote     RemoteConfig     `mapstructure:"remote"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Mail       MailConfig       `mapstructure:"mail"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DBConfig 資料庫連線設定；URL 有值時優先使用，否則由各欄位組出 DSN
type DBConfig struct {
	Driver   string `mapstructure:"driver"`
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	Port     int    `mapstructure:"port"`
}

// CloudinaryConfig 遠端媒體服務的憑證
type CloudinaryConfig struct {
	Name      string `mapstructure:"name"`
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
}

type RemoteConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// RedisConfig 為空的 Host 代表停用快取
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// MailConfig 會被載入但本服務不使用
type MailConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	Port     int    `mapstructure:"port"`
	Server   string `mapstructure:"server"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var defaults = map[string]any{
	"server.address":          ":8000",
	"server.shutdown_timeout": "10s",
	"db.driver":               "postgres",
	"db.url":                  "",
	"db.host":                 "localhost",
	"db.user":                 "postgres",
	"db.password":             "",
	"db.name":                 "images",
	"db.port":                 5432,
	"cloudinary.name":         "",
	"cloudinary.api_key":      "",
	"cloudinary.api_secret":   "",
	"remote.timeout":          "30s",
	"redis.host":              "",
	"redis.port":              6379,
	"redis.password":          "",
	"cache.ttl":               "24h",
	"mail.username":           "",
	"mail.password":           "",
	"mail.from":               "",
	"mail.port":               465,
	"mail.server":             "localhost",
	"log.level":               "info",
	"log.format":              "text",
}

// Load 從環境變數與可選的 config.yaml 載入設定。
// configFile 為空時會在 . 與 ./pkg/config 尋找 config.yaml，找不到並不視為錯誤。
func Load(configFile string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// 環境變數: db.url -> DB_URL
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("db.url", "DB_URL", "SQLALCHEMY_DATABASE_URL"); err != nil {
		return nil, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./pkg/config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return &config, nil
}

// DSN 回傳 gorm 驅動程式可用的連線字串
func (c DBConfig) DSN() string {
	if c.URL != "" {
		return normalizeURL(c.URL)
	}
	if c.Driver == "sqlite" {
		return c.Name
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.Host, c.User, c.Password, c.Name, c.Port)
}

// normalizeURL 移除 "postgresql+psycopg2://" 這類 scheme 中的驅動名稱
func normalizeURL(raw string) string {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return raw
	}
	if base, _, found := strings.Cut(scheme, "+"); found {
		scheme = base
	}
	return scheme + "://" + rest
}

// Enabled 表示是否設定了 Redis 快取
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
