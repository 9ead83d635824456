package config

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env        string
	HTTPServer HTTPServer
	GRPCServer GRPCServer
	Database   Database
	Prometheus Prometheus
	Redis      Redis
	Auth       Auth
	Geo        Geo
	Feed       Feed
	RateLimit  RateLimit
}

type HTTPServer struct {
	Address      string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

type GRPCServer struct {
	Address             string
	Port                int
	HealthCheckInterval time.Duration
}

type Database struct {
	Driver         string
	Username       string
	Password       string
	Host           string
	Port           string
	DbName         string
	MigrationsPath string
	MaxConns       int32
}

type Prometheus struct {
	Address string
	Port    int
}

type Redis struct {
	Enabled  bool
	Address  string
	Port     int
	Password string
	DB       int
	PoolSize int
}

type Auth struct {
	SecretKey string
}

type Geo struct {
	GeocoderURL    string
	GeocoderAPIKey string
	DistanceURL    string
	DistanceAPIKey string
	Timeout        time.Duration
	RetryMax       int
	CoordinateTTL  time.Duration
}

type Feed struct {
	DefaultLimit int
	FanoutLimit  int
}

type RateLimit struct {
	RPS   float64
	Burst int
}

func MustLoad() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %s", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("env", "dev")

	viper.SetDefault("http_server.address", "0.0.0.0")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.read_timeout", 10*time.Second)
	viper.SetDefault("http_server.write_timeout", 30*time.Second)
	viper.SetDefault("http_server.cors_origins", []string{"http://localhost:3000"})

	viper.SetDefault("grpc_server.address", "0.0.0.0")
	viper.SetDefault("grpc_server.port", 50053)
	viper.SetDefault("grpc_server.health_check_interval", 15*time.Second)

	viper.SetDefault("database.driver", "postgres")
	viper.SetDefault("database.username", "postgres")
	viper.SetDefault("database.password", "admin")
	viper.SetDefault("database.host", "community-db")
	viper.SetDefault("database.port", "5432")
	viper.SetDefault("database.db_name", "community")
	viper.SetDefault("database.migrations_path", "migrations")
	viper.SetDefault("database.max_conns", 20)

	viper.SetDefault("prometheus.address", "0.0.0.0")
	viper.SetDefault("prometheus.port", 9103)

	viper.SetDefault("redis.enabled", true)
	viper.SetDefault("redis.address", "redis")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.pool_size", 10)

	viper.SetDefault("auth.secret_key", "")

	viper.SetDefault("geo.geocoder_url", "https://geocode.maps.co")
	viper.SetDefault("geo.geocoder_api_key", "")
	viper.SetDefault("geo.distance_url", "https://maps.googleapis.com/maps/api")
	viper.SetDefault("geo.distance_api_key", "")
	viper.SetDefault("geo.timeout", 5*time.Second)
	viper.SetDefault("geo.retry_max", 1)
	viper.SetDefault("geo.coordinate_ttl", 24*time.Hour)

	viper.SetDefault("feed.default_limit", 50)
	viper.SetDefault("feed.fanout_limit", 16)

	viper.SetDefault("rate_limit.rps", 1.0)
	viper.SetDefault("rate_limit.burst", 5)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Printf("Error reading config file: %s", err)
			os.Exit(1)
		}
		log.Printf("Config file not found, using defaults and environment")
	}

	config := &Config{
		Env: viper.GetString("env"),
		HTTPServer: HTTPServer{
			Address:      viper.GetString("http_server.address"),
			Port:         viper.GetInt("http_server.port"),
			ReadTimeout:  viper.GetDuration("http_server.read_timeout"),
			WriteTimeout: viper.GetDuration("http_server.write_timeout"),
			CORSOrigins:  viper.GetStringSlice("http_server.cors_origins"),
		},
		GRPCServer: GRPCServer{
			Address:             viper.GetString("grpc_server.address"),
			Port:                viper.GetInt("grpc_server.port"),
			HealthCheckInterval: viper.GetDuration("grpc_server.health_check_interval"),
		},
		Database: Database{
			Driver:         viper.GetString("database.driver"),
			Username:       viper.GetString("database.username"),
			Password:       viper.GetString("database.password"),
			Host:           viper.GetString("database.host"),
			Port:           viper.GetString("database.port"),
			DbName:         viper.GetString("database.db_name"),
			MigrationsPath: viper.GetString("database.migrations_path"),
			MaxConns:       viper.GetInt32("database.max_conns"),
		},
		Prometheus: Prometheus{
			Address: viper.GetString("prometheus.address"),
			Port:    viper.GetInt("prometheus.port"),
		},
		Redis: Redis{
			Enabled:  viper.GetBool("redis.enabled"),
			Address:  viper.GetString("redis.address"),
			Port:     viper.GetInt("redis.port"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
			PoolSize: viper.GetInt("redis.pool_size"),
		},
		Auth: Auth{
			SecretKey: viper.GetString("auth.secret_key"),
		},
		Geo: Geo{
			GeocoderURL:    viper.GetString("geo.geocoder_url"),
			GeocoderAPIKey: viper.GetString("geo.geocoder_api_key"),
			DistanceURL:    viper.GetString("geo.distance_url"),
			DistanceAPIKey: viper.GetString("geo.distance_api_key"),
			Timeout:        viper.GetDuration("geo.timeout"),
			RetryMax:       viper.GetInt("geo.retry_max"),
			CoordinateTTL:  viper.GetDuration("geo.coordinate_ttl"),
		},
		Feed: Feed{
			DefaultLimit: viper.GetInt("feed.default_limit"),
			FanoutLimit:  viper.GetInt("feed.fanout_limit"),
		},
		RateLimit: RateLimit{
			RPS:   viper.GetFloat64("rate_limit.rps"),
			Burst: viper.GetInt("rate_limit.burst"),
		},
	}

	if config.Auth.SecretKey == "" {
		log.Printf("auth.secret_key must be set")
		os.Exit(1)
	}

	return config
}

// DSN builds the postgres connection string shared by the pool and the migrator.
func (d Database) DSN(scheme string) string {
	return scheme + "://" + d.Username + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.DbName + "?sslmode=disable"
}
