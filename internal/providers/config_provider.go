package providers

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"milktracker/internal/structures"
)

const AppName = "MilkTracker"

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	// a missing .env is fine, the environment may already be set
	if err := godotenv.Load(flags.EnvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", flags.EnvPath, err)
	}

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("webServer.host", "0.0.0.0")
	v.SetDefault("tracker.tickInterval", "1s")
	v.SetDefault("storage.driver", "csv")
	v.SetDefault("cache.ttl", 60)

	_ = v.BindEnv("logger.level", "MT_LOG_LEVEL")
	_ = v.BindEnv("webServer.port", "MT_PORT", "APP_PORT")
	_ = v.BindEnv("storage.driver", "MT_STORAGE_DRIVER")
	_ = v.BindEnv("cache.enabled", "MT_CACHE_ENABLED")
	_ = v.BindEnv("tracker.birthday", "MT_BIRTHDAY")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if err := NewCnfValidator(&conf).Validate(); err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
