package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
	Auth     AuthConfig
	Order    OrderConfig
	Shopee   ShopeeConfig
}

type ServerConfig struct {
	Port        int
	ServiceName string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// ReadTimeout bounds every statement at the driver level.
	ReadTimeout time.Duration
	AutoMigrate bool
}

type LogConfig struct {
	Level string
}

type AuthConfig struct {
	JWTSecret string
}

type OrderConfig struct {
	TxTimeout time.Duration
}

type ShopeeConfig struct {
	PartnerID   int64
	PartnerKey  string
	CallbackURL string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present, and CONFIG_FILE may name a YAML file
// whose keys use the same names as the environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env file: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVICE_NAME", "central-vendas")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_USER", "centralvendas")
	v.SetDefault("DB_PASSWORD", "secret")
	v.SetDefault("DB_NAME", "centralvendas")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("DB_READ_TIMEOUT", "10s")
	v.SetDefault("DB_AUTO_MIGRATE", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("ORDER_TX_TIMEOUT", "5s")
	v.SetDefault("SHOPEE_PARTNER_ID", 0)
	v.SetDefault("SHOPEE_PARTNER_KEY", "")
	v.SetDefault("SHOPEE_CALLBACK_URL", "")

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	connMaxLifetime, err := time.ParseDuration(v.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, fmt.Errorf("parsing DB_CONN_MAX_LIFETIME: %w", err)
	}
	readTimeout, err := time.ParseDuration(v.GetString("DB_READ_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("parsing DB_READ_TIMEOUT: %w", err)
	}
	txTimeout, err := time.ParseDuration(v.GetString("ORDER_TX_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("parsing ORDER_TX_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        v.GetInt("SERVER_PORT"),
			ServiceName: v.GetString("SERVICE_NAME"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
			ReadTimeout:     readTimeout,
			AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
		},
		Order: OrderConfig{
			TxTimeout: txTimeout,
		},
		Shopee: ShopeeConfig{
			PartnerID:   v.GetInt64("SHOPEE_PARTNER_ID"),
			PartnerKey:  v.GetString("SHOPEE_PARTNER_KEY"),
			CallbackURL: v.GetString("SHOPEE_CALLBACK_URL"),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}
