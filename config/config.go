package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env string `toml:"env"`

	Auth      AuthConfigs      `toml:"auth"`
	Store     StoreConfigs     `toml:"store"`
	Redis     RedisConfigs     `toml:"redis"`
	Kafka     KafkaConfigs     `toml:"kafka"`
	Storage   S3Configs        `toml:"storage"`
	Feed      FeedConfigs      `toml:"feed"`
	Activity  ActivityConfigs  `toml:"activity"`
	Challenge ChallengeConfigs `toml:"challenge"`
	Team      TeamConfigs      `toml:"team"`
}

type AuthConfigs struct {
	TokenSecret     string        `toml:"token_secret"`
	TokenExpiration time.Duration `toml:"token_expiration"`
}

type StoreConfigs struct {
	Region      string `toml:"region"`
	TablePrefix string `toml:"table_prefix"`
}

type RedisConfigs struct {
	Addr string `toml:"addr"`
}

type KafkaConfigs struct {
	Addr        string `toml:"addr"`
	ChangeTopic string `toml:"change_topic"`
	GroupID     string `toml:"group_id"`
}

type S3Configs struct {
	Region         string `toml:"region"`
	Endpoint       string `toml:"endpoint"`
	PublicEndpoint string `toml:"public_endpoint"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	Bucket         string `toml:"bucket"`
	SSLDisabled    bool   `toml:"ssl_disabled"`
}

type FeedConfigs struct {
	DefaultLimit int           `toml:"default_limit"`
	MaxLimit     int           `toml:"max_limit"`
	CacheTTL     time.Duration `toml:"cache_ttl"`
}

type ActivityConfigs struct {
	DefaultLimit int `toml:"default_limit"`
	MaxLimit     int `toml:"max_limit"`
}

type ChallengeConfigs struct {
	UpcomingWindow time.Duration `toml:"upcoming_window"`
}

type TeamConfigs struct {
	MaxMembers       int `toml:"max_members"`
	InviteCodeLength int `toml:"invite_code_length"`
	LeaderboardLimit int `toml:"leaderboard_limit"`
}

// Default returns the configurations every deployment starts from. Values
// mirror what the mobile client observed in production: a 10 minute feed
// cache and 6 character invite codes.
func Default() Configs {
	return Configs{
		Env: "local",
		Auth: AuthConfigs{
			TokenSecret:     "token_secret",
			TokenExpiration: 24 * time.Hour,
		},
		Store: StoreConfigs{
			Region:      "us-east-1",
			TablePrefix: "snapchef",
		},
		Redis: RedisConfigs{Addr: "localhost:6379"},
		Kafka: KafkaConfigs{
			Addr:        "localhost:9092",
			ChangeTopic: "record-changes",
			GroupID:     "snapchef-social",
		},
		Feed: FeedConfigs{
			DefaultLimit: 20,
			MaxLimit:     50,
			CacheTTL:     10 * time.Minute,
		},
		Activity: ActivityConfigs{
			DefaultLimit: 20,
			MaxLimit:     100,
		},
		Challenge: ChallengeConfigs{
			UpcomingWindow: 7 * 24 * time.Hour,
		},
		Team: TeamConfigs{
			MaxMembers:       5,
			InviteCodeLength: 6,
			LeaderboardLimit: 100,
		},
	}
}

// Load reads configurations from the toml file at path, overriding the
// defaults. A missing path returns the defaults unchanged.
func Load(path string) (Configs, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Configs{}, err
	}

	return cfg, nil
}
