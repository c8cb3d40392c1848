package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`

	Database  DatabaseConfigs  `toml:"database"`
	Redis     RedisConfigs     `toml:"redis"`
	Discord   DiscordConfigs   `toml:"discord"`
	RoleSync  RoleSyncConfigs  `toml:"role_sync"`
	Security  SecurityConfigs  `toml:"security"`
	Seniority SeniorityConfigs `toml:"seniority"`
}

type DatabaseConfigs struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

func (d DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type RedisConfigs struct {
	Addr string `toml:"addr"`
}

type DiscordConfigs struct {
	BotToken string `toml:"bot_token"`
	BotID    string `toml:"bot_id"`

	// CreatorID is the single root operator of the bot.
	CreatorID string `toml:"creator_id"`
}

type RoleSyncConfigs struct {
	// FanOut bounds the number of in-flight role mutation calls during a
	// bulk operation.
	FanOut int `toml:"fan_out"`
}

type SecurityConfigs struct {
	// ReloadIntervalSeconds is how often the banned and privileged lists
	// are refreshed from the database.
	ReloadIntervalSeconds int `toml:"reload_interval_seconds"`
}

type SeniorityConfigs struct {
	// URL of the seniority service which owns the time-based role policy.
	URL string `toml:"url"`
}

// Load reads the toml file at path, then applies environment overrides for
// secrets so they can stay out of the file.
func Load(path string) (Configs, error) {
	var cfg Configs
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Configs{}, err
	}

	if token := os.Getenv("DISCORD_BOT_TOKEN"); token != "" {
		cfg.Discord.BotToken = token
	}

	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.Database.Password = password
	}

	if cfg.RoleSync.FanOut <= 0 {
		cfg.RoleSync.FanOut = 4
	}

	if cfg.Security.ReloadIntervalSeconds <= 0 {
		cfg.Security.ReloadIntervalSeconds = 300
	}

	return cfg, nil
}
