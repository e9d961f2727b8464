package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Lastfm struct {
		APIKey    string `mapstructure:"api_key"`
		APISecret string `mapstructure:"api_secret"`
	} `mapstructure:"lastfm"`
	Server struct {
		Port        string `mapstructure:"port"`
		MetricsPort string `mapstructure:"metrics_port"`
		PublicURL   string `mapstructure:"public_url"`
	} `mapstructure:"server"`
	Cron struct {
		Secret string `mapstructure:"secret"`
	} `mapstructure:"cron"`
	Store struct {
		Provider   string `mapstructure:"provider"` // memory | badger | s3 | gorm
		BadgerPath string `mapstructure:"badger_path"`
		KeyID      string `mapstructure:"key_id"`
		AppKey     string `mapstructure:"app_key"`
		Endpoint   string `mapstructure:"endpoint"`
		Region     string `mapstructure:"region"`
		Bucket     string `mapstructure:"bucket"`
	} `mapstructure:"store"`
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Mirror struct {
		FetchLimit    int `mapstructure:"fetch_limit"`
		HistoryCap    int `mapstructure:"history_cap"`
		SubmitDelayMS int `mapstructure:"submit_delay_ms"`
	} `mapstructure:"mirror"`
}

// SubmitDelay converts the configured inter-scrobble pause into a Duration.
func (c *Config) SubmitDelay() time.Duration {
	return time.Duration(c.Mirror.SubmitDelayMS) * time.Millisecond
}

func Load() *Config {
	viper.SetEnvPrefix("MIRROR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Register keys
	viper.BindEnv("lastfm.api_key")
	viper.BindEnv("lastfm.api_secret")
	viper.BindEnv("server.port")
	viper.BindEnv("server.metrics_port")
	viper.BindEnv("server.public_url")
	viper.BindEnv("cron.secret")

	// Store bindings
	viper.BindEnv("store.provider")
	viper.BindEnv("store.badger_path")
	viper.BindEnv("store.key_id")
	viper.BindEnv("store.app_key")
	viper.BindEnv("store.endpoint")
	viper.BindEnv("store.region")
	viper.BindEnv("store.bucket")

	// Database bindings (gorm store provider only)
	viper.BindEnv("database.host")
	viper.BindEnv("database.port")
	viper.BindEnv("database.user")
	viper.BindEnv("database.password")
	viper.BindEnv("database.name")

	// Mirror engine tuning
	viper.BindEnv("mirror.fetch_limit")
	viper.BindEnv("mirror.history_cap")
	viper.BindEnv("mirror.submit_delay_ms")

	// Defaults
	viper.SetDefault("server.port", ":8080")
	viper.SetDefault("server.metrics_port", ":9091")
	viper.SetDefault("server.public_url", "http://localhost:8080")
	viper.SetDefault("store.provider", "badger")
	viper.SetDefault("store.badger_path", "./mirror-data")
	viper.SetDefault("mirror.fetch_limit", 20)
	viper.SetDefault("mirror.history_cap", 100)
	viper.SetDefault("mirror.submit_delay_ms", 500)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Warning: Config error: %s", err)
		} else {
			log.Println("Info: config.yaml not found, using Environment Variables only.")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}

	if cfg.Lastfm.APIKey == "" {
		log.Fatal("Critical: Last.fm API key is missing (MIRROR_LASTFM_API_KEY)")
	}
	if cfg.Lastfm.APISecret == "" {
		log.Fatal("Critical: Last.fm API secret is missing (MIRROR_LASTFM_API_SECRET)")
	}

	return &cfg
}
