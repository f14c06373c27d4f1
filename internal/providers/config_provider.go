package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"dmrmonitor/internal/structures"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("global.reportName", "DMR Network")
	v.SetDefault("global.frequency", 10*time.Second)

	v.SetDefault("link.host", "127.0.0.1")
	v.SetDefault("link.port", 4321)
	v.SetDefault("link.payloadCodec", "json")
	v.SetDefault("link.maxFrameSize", 1<<20)
	v.SetDefault("link.dialTimeout", 5*time.Second)
	v.SetDefault("link.minBackoff", time.Second)
	v.SetDefault("link.maxBackoff", time.Hour)
	v.SetDefault("link.backoffFactor", 2.718281828459045)
	v.SetDefault("link.jitter", 0.119626565582)
	v.SetDefault("link.rcm.statusType", 0x61)
	v.SetDefault("link.rcm.repeatType", 0x62)
	v.SetDefault("link.rcm.nackType", 0x63)

	v.SetDefault("webServer.host", "0.0.0.0")
	v.SetDefault("webServer.port", 8080)
	v.SetDefault("website.timezone", "UTC")

	v.SetDefault("broadcast.minInterval", time.Second)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)

	v.SetDefault("lastHeard.size", 10)
	v.SetDefault("lastHeard.scanDepth", 100)
	v.SetDefault("eventLog.size", 100)

	v.SetDefault("persistence.saveInterval", 30*time.Second)
	v.SetDefault("persistence.compressionLevel", "default")
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	setDefaults(v)

	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	_ = v.BindEnv("logger.level", "DMRMON_LOG_LEVEL")
	_ = v.BindEnv("link.host", "DMRMON_LINK_HOST")
	_ = v.BindEnv("link.port", "DMRMON_LINK_PORT")
	_ = v.BindEnv("website.clientTimeout", "DMRMON_CLIENT_TIMEOUT")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	if flags.LogLevel != "" {
		v.Set("logger.level", flags.LogLevel)
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "DMRmonitor"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
