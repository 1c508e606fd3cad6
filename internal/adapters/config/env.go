package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"go.trai.ch/firecast/internal/core/domain"
)

// EnvPrefix prefixes every environment variable read by the loader.
const EnvPrefix = "FIRECAST_"

// envConfig lists the settings that can be overridden from the environment.
// Fields whose variable is unset keep the value they were seeded with.
type envConfig struct {
	ServiceURL     string        `env:"SERVICE_URL"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	PollInterval time.Duration `env:"POLL_INTERVAL"`
	MaxAttempts  int           `env:"MAX_ATTEMPTS"`

	FrameInterval time.Duration `env:"FRAME_INTERVAL"`
	FrameCap      int           `env:"FRAME_CAP"`
	Opacity       float64       `env:"OPACITY"`
	Mirrors       []string      `env:"MIRRORS"`

	DataDir          string `env:"DATA_DIR"`
	FetchConcurrency int    `env:"FETCH_CONCURRENCY"`
	CacheSize        int    `env:"CACHE_SIZE"`
	S3Endpoint       string `env:"S3_ENDPOINT"`
	S3AccessKey      string `env:"S3_ACCESS_KEY"`
	S3SecretKey      string `env:"S3_SECRET_KEY"`
	S3UseSSL         bool   `env:"S3_USE_SSL"`

	OTLPEndpoint string `env:"OTLP_ENDPOINT"`
	ServiceName  string `env:"SERVICE_NAME"`
	MetricsAddr  string `env:"METRICS_ADDR"`
	PostHogKey   string `env:"POSTHOG_KEY"`
	PostHogHost  string `env:"POSTHOG_HOST"`

	LogJSON  bool `env:"LOG_JSON"`
	LogDebug bool `env:"DEBUG"`

	ServerAddr  string        `env:"SERVER_ADDR"`
	ExportDir   string        `env:"EXPORT_DIR"`
	OutputDir   string        `env:"OUTPUT_DIR"`
	ExportDelay time.Duration `env:"EXPORT_DELAY"`
	Workers     int           `env:"WORKERS"`
}

// applyEnv overrides s with the FIRECAST_* variables found in environ.
func applyEnv(s *domain.Settings, environ map[string]string) error {
	c := envConfig{
		ServiceURL:       s.JobService.BaseURL,
		RequestTimeout:   s.JobService.Timeout,
		PollInterval:     s.Poll.Interval,
		MaxAttempts:      s.Poll.MaxAttempts,
		FrameInterval:    s.Playback.Interval,
		FrameCap:         s.Playback.FrameCap,
		Opacity:          s.Playback.Opacity,
		Mirrors:          s.Playback.Mirrors,
		DataDir:          s.Storage.DataDir,
		FetchConcurrency: s.Storage.FetchConcurrency,
		CacheSize:        s.Storage.CacheSize,
		S3Endpoint:       s.Storage.S3.Endpoint,
		S3AccessKey:      s.Storage.S3.AccessKey,
		S3SecretKey:      s.Storage.S3.SecretKey,
		S3UseSSL:         s.Storage.S3.UseSSL,
		OTLPEndpoint:     s.Telemetry.Endpoint,
		ServiceName:      s.Telemetry.ServiceName,
		MetricsAddr:      s.Metrics.Addr,
		PostHogKey:       s.Analytics.APIKey,
		PostHogHost:      s.Analytics.Host,
		LogJSON:          s.Log.JSON,
		LogDebug:         s.Log.Debug,
		ServerAddr:       s.Server.Addr,
		ExportDir:        s.Server.ExportDir,
		OutputDir:        s.Server.OutputDir,
		ExportDelay:      s.Server.ExportDelay,
		Workers:          s.Server.Workers,
	}

	if err := env.ParseWithOptions(&c, env.Options{Prefix: EnvPrefix, Environment: environ}); err != nil {
		return err
	}

	s.JobService.BaseURL = c.ServiceURL
	s.JobService.Timeout = c.RequestTimeout
	s.Poll.Interval = c.PollInterval
	s.Poll.MaxAttempts = c.MaxAttempts
	s.Playback.Interval = c.FrameInterval
	s.Playback.FrameCap = c.FrameCap
	s.Playback.Opacity = c.Opacity
	s.Playback.Mirrors = c.Mirrors
	s.Storage.DataDir = c.DataDir
	s.Storage.FetchConcurrency = c.FetchConcurrency
	s.Storage.CacheSize = c.CacheSize
	s.Storage.S3.Endpoint = c.S3Endpoint
	s.Storage.S3.AccessKey = c.S3AccessKey
	s.Storage.S3.SecretKey = c.S3SecretKey
	s.Storage.S3.UseSSL = c.S3UseSSL
	s.Telemetry.Endpoint = c.OTLPEndpoint
	s.Telemetry.ServiceName = c.ServiceName
	s.Metrics.Addr = c.MetricsAddr
	s.Analytics.APIKey = c.PostHogKey
	s.Analytics.Host = c.PostHogHost
	s.Log.JSON = c.LogJSON
	s.Log.Debug = c.LogDebug
	s.Server.Addr = c.ServerAddr
	s.Server.ExportDir = c.ExportDir
	s.Server.OutputDir = c.OutputDir
	s.Server.ExportDelay = c.ExportDelay
	s.Server.Workers = c.Workers
	return nil
}
