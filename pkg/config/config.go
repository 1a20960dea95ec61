package config

import (
	"time"

	"m5cup/internal/repository"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Repo     repository.Config `envPrefix:"REPO_"`
	BotToken string            `env:"BOT_TOKEN"`
	LogLevel string            `env:"LOGGER_LEVEL" envDefault:"debug"`

	// ChannelID is the gating channel: registration requires
	// membership in it.
	ChannelID string `env:"CHANNEL_ID" envDefault:"@m5cup"`

	// AdminUserIDs are seeded into the admins table on startup.
	AdminUserIDs []int64 `env:"ADMIN_USER_IDS" envSeparator:"," envDefault:""`

	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	VerifyTimeout time.Duration `env:"VERIFY_TIMEOUT" envDefault:"5s"`

	GoogleCredentialsPath string `env:"GOOGLE_CREDENTIALS_PATH" envDefault:""`
	GoogleOwnerEmail      string `env:"GOOGLE_OWNER_EMAIL" envDefault:""`
}

func ReadEnvConfig(cfg *Config) error {
	return env.Parse(cfg)
}
