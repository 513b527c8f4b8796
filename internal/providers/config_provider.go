package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"livestat/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "LIVESTAT_LOG_LEVEL")
	viper.BindEnv("storage.dir", "LIVESTAT_STORAGE_DIR")
	viper.BindEnv("cache.enabled", "LIVESTAT_CACHE_ENABLED")
	viper.BindEnv("cache.size", "LIVESTAT_CACHE_SIZE")
	viper.BindEnv("cache.ttl", "LIVESTAT_CACHE_TTL")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	if conf.Import.MaxBodySize <= 0 {
		conf.Import.MaxBodySize = 8 << 20
	}
	if conf.Import.MaxRows <= 0 {
		conf.Import.MaxRows = 10000
	}
	if conf.Cache.TTL <= 0 {
		conf.Cache.TTL = 30 * time.Second
	}

	conf.AppName = "LiveStatDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
