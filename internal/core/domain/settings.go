package domain

import "time"

// Settings is the resolved runtime configuration.
type Settings struct {
	JobService JobServiceSettings
	Poll       PollSettings
	Playback   PlaybackSettings
	Storage    StorageSettings
	Telemetry  TelemetrySettings
	Metrics    MetricsSettings
	Analytics  AnalyticsSettings
	Log        LogSettings
	Server     ServerSettings
}

// JobServiceSettings configures the job service client.
type JobServiceSettings struct {
	BaseURL string
	Timeout time.Duration
}

// PollSettings bounds the export poll loop.
type PollSettings struct {
	Interval    time.Duration
	MaxAttempts int
}

// Budget is the longest time the poll loop may wait in total.
func (p PollSettings) Budget() time.Duration {
	return p.Interval * time.Duration(p.MaxAttempts)
}

// PlaybackSettings configures frame discovery and animation.
type PlaybackSettings struct {
	Interval time.Duration
	FrameCap int
	Opacity  float64
	Mirrors  []string
}

// StorageSettings configures raster stores.
type StorageSettings struct {
	DataDir          string
	FetchConcurrency int
	CacheSize        int
	S3               S3Settings
}

// S3Settings configures the object store used for s3:// addresses.
type S3Settings struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// Enabled reports whether an object store endpoint is configured.
func (s S3Settings) Enabled() bool {
	return s.Endpoint != ""
}

// TelemetrySettings configures trace export.
type TelemetrySettings struct {
	Endpoint    string
	ServiceName string
}

// MetricsSettings configures the metrics endpoint.
type MetricsSettings struct {
	Addr string
}

// AnalyticsSettings configures product analytics.
type AnalyticsSettings struct {
	APIKey string
	Host   string
}

// LogSettings configures the logger.
type LogSettings struct {
	JSON  bool
	Debug bool
}

// ServerSettings configures the development job service.
type ServerSettings struct {
	Addr        string
	ExportDir   string
	OutputDir   string
	ExportDelay time.Duration
	Workers     int
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() *Settings {
	return &Settings{
		JobService: JobServiceSettings{
			BaseURL: DefaultServiceURL,
			Timeout: DefaultRequestTimeout,
		},
		Poll: PollSettings{
			Interval:    DefaultPollInterval,
			MaxAttempts: DefaultMaxPollAttempts,
		},
		Playback: PlaybackSettings{
			Interval: DefaultFrameInterval,
			FrameCap: DefaultFrameCap,
			Opacity:  DefaultOpacity,
		},
		Storage: StorageSettings{
			DataDir:          ".",
			FetchConcurrency: DefaultFetchConcurrency,
			CacheSize:        DefaultCacheSize,
		},
		Telemetry: TelemetrySettings{
			ServiceName: DefaultServiceName,
		},
		Server: ServerSettings{
			Addr:        DefaultServerAddr,
			ExportDir:   DefaultExportsPath(),
			OutputDir:   DefaultOutputPath(),
			ExportDelay: DefaultExportDelay,
			Workers:     DefaultExportWorkers,
		},
	}
}
