package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort    int    `mapstructure:"http_port"`
	LogLevel    string `mapstructure:"log_level"`
	DatabaseURL string `mapstructure:"database_url"`
	JwtSecret   string `mapstructure:"jwt_secret"`

	// Address event proposals are mailed to, also the seeded admin account.
	AdminEmail        string `mapstructure:"admin_email"`
	AdminSeedPassword string `mapstructure:"admin_seed_password"`

	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUsername string `mapstructure:"smtp_username"`
	SMTPPassword string `mapstructure:"smtp_password"`

	CurrentUserCacheTTL  time.Duration `mapstructure:"current_user_cache_ttl"`
	CurrentUserCacheSize int           `mapstructure:"current_user_cache_size"`
}

var AppConfig Config

func InitConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variable overrides
	viper.SetEnvPrefix("NEOEVENTS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("http_port", 8080)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("jwt_secret", "default-very-insecure-secret-key") // CHANGE THIS IN PRODUCTION
	viper.SetDefault("admin_email", "admin@neoevents.me")
	viper.SetDefault("admin_seed_password", "adminpassword")
	viper.SetDefault("smtp_host", "localhost")
	viper.SetDefault("smtp_port", 587)
	viper.SetDefault("current_user_cache_ttl", 24*time.Hour)
	viper.SetDefault("current_user_cache_size", 500)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("Config file not found, using defaults and environment variables.")
		} else {
			panic(fmt.Errorf("fatal error reading config file: %w", err))
		}
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		panic(fmt.Errorf("unable to decode config into struct: %w", err))
	}
}
