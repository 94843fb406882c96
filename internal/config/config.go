package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
}

type JWTConfig struct {
	Secret        string        `mapstructure:"secret"`
	TokenLifetime time.Duration `mapstructure:"token_lifetime"`
}

type GameConfig struct {
	MaxSize     int           `mapstructure:"max_size"`
	SafeZone    int           `mapstructure:"safe_zone"`
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	SweepPeriod time.Duration `mapstructure:"sweep_period"`
}

type Config struct {
	Mode string     `mapstructure:"mode"`
	Addr string     `mapstructure:"addr"`
	Log  LogConfig  `mapstructure:"log"`
	JWT  JWTConfig  `mapstructure:"jwt"`
	Game GameConfig `mapstructure:"game"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "production")
	v.SetDefault("addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.token_lifetime", 24*time.Hour)
	v.SetDefault("game.max_size", 64)
	v.SetDefault("game.safe_zone", 10)
	v.SetDefault("game.idle_timeout", time.Hour)
	v.SetDefault("game.sweep_period", time.Minute)
}

// Load reads the config file at path (skipped when path is empty) and applies
// MINES_* environment overrides, e.g. MINES_JWT_SECRET or MINES_GAME_MAX_SIZE.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("MINES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config %s: %w", path, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c Config) validate() error {
	if c.Production() && c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret must be set in production mode")
	}
	if c.Game.MaxSize < 1 {
		return fmt.Errorf("game.max_size must be positive, got %d", c.Game.MaxSize)
	}
	if c.Game.SafeZone < 0 {
		return fmt.Errorf("game.safe_zone must not be negative, got %d", c.Game.SafeZone)
	}
	return nil
}

func (c Config) Production() bool {
	return c.Mode == "production"
}

func (c Config) Development() bool {
	return c.Mode != "production"
}

func (c Config) Fields() logrus.Fields {
	return map[string]any{
		"mode":               c.Mode,
		"addr":               c.Addr,
		"log_level":          c.Log.Level,
		"log_file":           c.Log.File,
		"jwt_token_lifetime": c.JWT.TokenLifetime.String(),
		"game_max_size":      c.Game.MaxSize,
		"game_safe_zone":     c.Game.SafeZone,
		"game_idle_timeout":  c.Game.IdleTimeout.String(),
	}
}
