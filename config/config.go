package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env string `toml:"env"`

	Database  DatabaseConfigs `toml:"database"`
	ApiServer ServerConfigs   `toml:"api_server"`
	Auth      AuthConfigs     `toml:"auth"`
	Redis     RedisConfigs    `toml:"redis"`
	Kafka     KafkaConfigs    `toml:"kafka"`
	Journey   JourneyConfigs  `toml:"journey"`
	Clinical  ClinicalConfigs `toml:"clinical"`
	AI        AIConfigs       `toml:"ai"`
}

type DatabaseConfigs struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	LogLevel string `toml:"log_level"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string `toml:"host"`
	Port string `toml:"port"`
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type AuthConfigs struct {
	TokenSecret     string        `toml:"token_secret"`
	TokenExpiration time.Duration `toml:"token_expiration"`
	CronSecret      string        `toml:"cron_secret"`
}

type RedisConfigs struct {
	Addr string `toml:"addr"`
}

type KafkaConfigs struct {
	Addr  string `toml:"addr"`
	Topic string `toml:"topic"`
}

// ClinicalConfigs points at the clinical platform that owns treatment plans,
// assessments, appointments and patient accounts.
type ClinicalConfigs struct {
	Endpoint string `toml:"endpoint"`
	APIKey   string `toml:"api_key"`
}

type AIConfigs struct {
	Endpoint string `toml:"endpoint"`
	APIKey   string `toml:"api_key"`
	Model    string `toml:"model"`
}

type JourneyConfigs struct {
	// Minimum level at which the weekly bonus mission is generated.
	BonusMissionMinLevel int `toml:"bonus_mission_min_level"`

	StandardMissionReward int `toml:"standard_mission_reward"`
	BonusMissionReward    int `toml:"bonus_mission_reward"`

	DashboardCacheTTL time.Duration `toml:"dashboard_cache_ttl"`
}

// Load reads the toml file at path when it exists, then applies environment
// overrides and defaults. A missing file is not an error so that tests and
// container deployments can run on env vars alone.
func Load(path string) (Configs, error) {
	var cfg Configs
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return Configs{}, fmt.Errorf("cannot decode config file %s: %w", path, err)
			}
		}
	}

	overrideString(&cfg.Env, "ENV")
	overrideString(&cfg.Database.Host, "DB_HOST")
	overrideString(&cfg.Database.Port, "DB_PORT")
	overrideString(&cfg.Database.Database, "DB_NAME")
	overrideString(&cfg.Database.User, "DB_USER")
	overrideString(&cfg.Database.Password, "DB_PASSWORD")
	overrideString(&cfg.ApiServer.Host, "HOST")
	overrideString(&cfg.ApiServer.Port, "PORT")
	overrideString(&cfg.Auth.TokenSecret, "TOKEN_SECRET")
	overrideString(&cfg.Auth.CronSecret, "CRON_SECRET")
	overrideString(&cfg.Redis.Addr, "REDIS_ADDR")
	overrideString(&cfg.Kafka.Addr, "KAFKA_ADDR")
	overrideString(&cfg.Kafka.Topic, "KAFKA_TOPIC")
	overrideString(&cfg.Clinical.Endpoint, "CLINICAL_ENDPOINT")
	overrideString(&cfg.Clinical.APIKey, "CLINICAL_API_KEY")
	overrideString(&cfg.AI.Endpoint, "AI_ENDPOINT")
	overrideString(&cfg.AI.APIKey, "AI_API_KEY")
	overrideString(&cfg.AI.Model, "AI_MODEL")

	cfg.applyDefaults()
	return cfg, nil
}

func (cfg *Configs) applyDefaults() {
	if cfg.Env == "" {
		cfg.Env = "local"
	}

	if cfg.ApiServer.Port == "" {
		cfg.ApiServer.Port = "8080"
	}

	if cfg.Auth.TokenExpiration == 0 {
		cfg.Auth.TokenExpiration = 24 * time.Hour
	}

	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "journey-events"
	}

	if cfg.Journey.BonusMissionMinLevel == 0 {
		cfg.Journey.BonusMissionMinLevel = 5
	}

	if cfg.Journey.StandardMissionReward == 0 {
		cfg.Journey.StandardMissionReward = 50
	}

	if cfg.Journey.BonusMissionReward == 0 {
		cfg.Journey.BonusMissionReward = 100
	}

	if cfg.Journey.DashboardCacheTTL == 0 {
		cfg.Journey.DashboardCacheTTL = 5 * time.Minute
	}

	if cfg.AI.Model == "" {
		cfg.AI.Model = "gpt-4o-mini"
	}
}

func overrideString(target *string, env string) {
	if v := os.Getenv(env); v != "" {
		*target = v
	}
}
