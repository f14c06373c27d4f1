package structures

import (
	"net/http"
	"time"
)

type CliFlags struct {
	ConfigPath string
	LogLevel   string
	DebugMode  bool
}

type Route struct {
	Url     string
	Handler http.Handler
}

type GlobalConfig struct {
	ReportName string        `yaml:"reportName" validate:"required"`
	Frequency  time.Duration `yaml:"frequency" validate:"required|min:1"`
}

// RcmConfig holds the call-monitor packet-type bytes. They are a versioned
// contract with the link process and are never inferred from traffic.
type RcmConfig struct {
	StatusType uint8 `yaml:"statusType" validate:"required"`
	RepeatType uint8 `yaml:"repeatType" validate:"required"`
	NackType   uint8 `yaml:"nackType" validate:"required"`
}

type LinkConfig struct {
	Host          string        `yaml:"host" validate:"required"`
	Port          int           `yaml:"port" validate:"required|uint|min:1"`
	PayloadCodec  string        `yaml:"payloadCodec" validate:"required|in:json,cbor"`
	MaxFrameSize  int           `yaml:"maxFrameSize" validate:"required|min:1"`
	DialTimeout   time.Duration `yaml:"dialTimeout"`
	MinBackoff    time.Duration `yaml:"minBackoff" validate:"required|min:1"`
	MaxBackoff    time.Duration `yaml:"maxBackoff" validate:"required|min:1"`
	BackoffFactor float64       `yaml:"backoffFactor"`
	Jitter        float64       `yaml:"jitter"`
	Rcm           RcmConfig     `yaml:"rcm"`
}

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type AuthConfig struct {
	Enabled  bool   `yaml:"enabled"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type WebsiteConfig struct {
	ClientTimeout time.Duration `yaml:"clientTimeout"`
	Timezone      string        `yaml:"timezone"`
	Auth          AuthConfig    `yaml:"auth"`
}

type BroadcastConfig struct {
	MinInterval time.Duration `yaml:"minInterval"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type LastHeardConfig struct {
	Enabled   bool   `yaml:"enabled"`
	File      string `yaml:"file"`
	Size      int    `yaml:"size" validate:"required|min:1"`
	ScanDepth int    `yaml:"scanDepth" validate:"required|min:1"`
}

type EventLogConfig struct {
	Size int `yaml:"size" validate:"required|min:1"`
}

type AliasConfig struct {
	Path                string `yaml:"path"`
	PeerFile            string `yaml:"peerFile"`
	SubscriberFile      string `yaml:"subscriberFile"`
	TgidFile            string `yaml:"tgidFile"`
	LocalPeerFile       string `yaml:"localPeerFile"`
	LocalSubscriberFile string `yaml:"localSubscriberFile"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
	// CompressionLevel is one of fastest, default, better or best.
	CompressionLevel string `yaml:"compressionLevel" validate:"required|in:fastest,default,better,best"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Global      GlobalConfig    `yaml:"global"`
	Link        LinkConfig      `yaml:"link"`
	WebServer   Server          `yaml:"webServer"`
	Website     WebsiteConfig   `yaml:"website"`
	Broadcast   BroadcastConfig `yaml:"broadcast"`
	Logger      LoggerConfig    `yaml:"logger"`
	LastHeard   LastHeardConfig `yaml:"lastHeard"`
	EventLog    EventLogConfig  `yaml:"eventLog"`
	Aliases     AliasConfig     `yaml:"aliases"`
	Persistence Persistence     `yaml:"persistence"`
	Cache       CacheConfig     `yaml:"cache"`
	Metrics     MetricsConfig   `yaml:"metrics"`
}
