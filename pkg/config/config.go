package config

import (
	"time"

	"mcranksync/internal/repository"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Repo           repository.Config `envPrefix:"REPO_"`
	DiscordToken   string            `env:"DISCORD_TOKEN" envDefault:""`
	DiscordGuildID string            `env:"DISCORD_GUILD_ID" envDefault:""`
	LogLevel       string            `env:"LOGGER_LEVEL" envDefault:"debug"`

	APIToken string `env:"API_TOKEN" envDefault:""`
	APIPort  string `env:"API_PORT" envDefault:"3000"`

	CodeSweepInterval time.Duration `env:"CODE_SWEEP_INTERVAL" envDefault:"5m"`
}

func ReadEnvConfig(cfg *Config) error {
	return env.Parse(cfg)
}
