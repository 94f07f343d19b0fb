package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// DevJWTSecret 本地开发默认密钥，生产环境禁止使用
const DevJWTSecret = "dev_jwt_secret"

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

// AdminHTTP 运维端口：/health、/metrics
type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name              string
	Env               string
	HTTP              HTTP
	Admin             AdminHTTP
	CorsOrigin        string
	ProtectDevelopers bool
}

type Log struct {
	Level      string
	JSON       bool
	File       string // 为空则只输出 stdout
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTLSec   int    `mapstructure:"ttlsec"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Config struct {
	App   App
	Log   Log
	JWT   JWT
	DB    DB
	Redis Redis `mapstructure:"redis"`
}

func (c *Config) IsProduction() bool { return strings.EqualFold(c.App.Env, "production") }

// Validate 生产环境必须显式配置密钥
func (c *Config) Validate() error {
	if c.IsProduction() && (c.JWT.Secret == "" || c.JWT.Secret == DevJWTSecret) {
		return errors.New("jwt.secret must be set in production")
	}
	if c.App.HTTP.Port <= 0 {
		return errors.New("app.http.port must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "developer-directory")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 5000)
	v.SetDefault("app.http.readtimeoutsec", 10)
	v.SetDefault("app.http.writetimeoutsec", 15)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 9090)
	v.SetDefault("app.corsorigin", "*")
	v.SetDefault("app.protectdevelopers", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.maxsizemb", 100)
	v.SetDefault("log.maxbackups", 7)
	v.SetDefault("log.maxagedays", 30)
	v.SetDefault("log.file", "")
	v.SetDefault("log.compress", false)

	v.SetDefault("jwt.secret", DevJWTSecret)
	v.SetDefault("jwt.issuer", "developer-directory")
	v.SetDefault("jwt.accesstokenttlmin", 7*24*60)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "developer-directory.db")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.maxopenconns", 20)
	v.SetDefault("db.maxidleconns", 10)
	v.SetDefault("db.connmaxlifetimemin", 30)
	v.SetDefault("db.automigrate", true)
	v.SetDefault("db.loglevel", "warn")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttlsec", 60)
}

// 兼容原部署使用的裸环境变量
func bindAliases(v *viper.Viper) {
	aliases := map[string]string{
		"app.http.port":  "PORT",
		"app.corsorigin": "CORS_ORIGIN",
		"jwt.secret":     "JWT_SECRET",
		"db.dsn":         "DATABASE_URL",
		"redis.addr":     "REDIS_ADDR",
	}
	for key, env := range aliases {
		envKey := "APP_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, envKey, env)
	}
}

// Read 配置文件可选；文件缺失时仅使用默认值 + 环境变量
func Read(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	bindAliases(v)

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func Load(path string) *Config {
	c, err := Read(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	return c
}
