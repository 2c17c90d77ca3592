package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port        string        `env:"PORT,         default=8080"`
	Env         string        `env:"ENV,          default=development"`
	LogLevel    string        `env:"LOG_LEVEL,    default=info"`
	JWTSecret   string        `env:"JWT_SECRET"`
	TokenTTL    time.Duration `env:"TOKEN_TTL,    default=24h"`
	EmailDomain string        `env:"EMAIL_DOMAIN, default=rit.edu"`

	Redis RedisConfig
	Mongo MongoConfig
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	DB       int    `env:"REDIS_DB,       default=0"`
	Password string `env:"REDIS_PASSWORD"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=campus_market"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
