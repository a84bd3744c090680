package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AppCfg struct {
	Env          string        `yaml:"env"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	JWT          struct {
		Secret           string `yaml:"secret"`
		AccessTTLMinutes int    `yaml:"accessTTLMinutes"`
	} `yaml:"jwt"`
}

type MongoCfg struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type RedisCfg struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaCfg struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type FirebaseCfg struct {
	CredentialsPath string `yaml:"credentials_path"`
}

type SecurityCfg struct {
	PasswordHashCost       int `yaml:"passwordHashCost"`
	AuthRateLimit          int `yaml:"authRateLimit"`
	AuthRateWindowMinutes  int `yaml:"authRateWindowMinutes"`
	OutboundTimeoutSeconds int `yaml:"outboundTimeoutSeconds"`
}

type Config struct {
	App      AppCfg      `yaml:"app"`
	Mongo    MongoCfg    `yaml:"mongo"`
	Redis    RedisCfg    `yaml:"redis"`
	Kafka    KafkaCfg    `yaml:"kafka"`
	Firebase FirebaseCfg `yaml:"firebase"`
	Security SecurityCfg `yaml:"security"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	override := func(env string, apply func(string)) {
		if v := os.Getenv(env); v != "" {
			apply(v)
		}
	}

	override("APP_ENV", func(v string) { cfg.App.Env = v })
	override("APP_PORT", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = n
		}
	})
	override("JWT_SECRET", func(v string) { cfg.App.JWT.Secret = v })
	override("JWT_ACCESS_TTL_MINUTES", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.App.JWT.AccessTTLMinutes = n
		}
	})
	override("MONGO_URI", func(v string) { cfg.Mongo.URI = v })
	override("MONGO_DB", func(v string) { cfg.Mongo.Database = v })
	override("MONGO_COLLECTION", func(v string) { cfg.Mongo.Collection = v })
	override("REDIS_ADDR", func(v string) { cfg.Redis.Addr = v })
	override("REDIS_PASSWORD", func(v string) { cfg.Redis.Password = v })
	override("KAFKA_BROKERS", func(v string) { cfg.Kafka.Brokers = strings.Split(v, ",") })
	override("KAFKA_TOPIC", func(v string) { cfg.Kafka.Topic = v })
	override("FIREBASE_CREDENTIALS", func(v string) { cfg.Firebase.CredentialsPath = v })
	override("PASSWORD_HASH_COST", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Security.PasswordHashCost = n
		}
	})
	override("AUTH_RATE_LIMIT", func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Security.AuthRateLimit = n
		}
	})

	if cfg.App.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required (set in .env or config.yaml)")
	}
	if cfg.Mongo.URI == "" {
		return nil, errors.New("MONGO_URI is required")
	}

	if cfg.App.JWT.AccessTTLMinutes == 0 {
		cfg.App.JWT.AccessTTLMinutes = 60 * 24
	}
	if cfg.Mongo.Collection == "" {
		cfg.Mongo.Collection = "users-collection"
	}
	if cfg.Security.AuthRateLimit == 0 {
		cfg.Security.AuthRateLimit = 30
	}
	if cfg.Security.AuthRateWindowMinutes == 0 {
		cfg.Security.AuthRateWindowMinutes = 10
	}
	if cfg.Security.OutboundTimeoutSeconds == 0 {
		cfg.Security.OutboundTimeoutSeconds = 10
	}

	return cfg, nil
}

// OutboundTimeout is the deadline applied to each database or push call.
func (c *Config) OutboundTimeout() time.Duration {
	return time.Duration(c.Security.OutboundTimeoutSeconds) * time.Second
}
