package config

// File is the structure of firecast.yaml. Unset fields keep their defaults.
type File struct {
	JobService *JobServiceDTO `yaml:"jobService"`
	Poll       *PollDTO       `yaml:"poll"`
	Playback   *PlaybackDTO   `yaml:"playback"`
	Storage    *StorageDTO    `yaml:"storage"`
	Telemetry  *TelemetryDTO  `yaml:"telemetry"`
	Metrics    *MetricsDTO    `yaml:"metrics"`
	Analytics  *AnalyticsDTO  `yaml:"analytics"`
	Log        *LogDTO        `yaml:"log"`
	Server     *ServerDTO     `yaml:"server"`
}

// JobServiceDTO configures the job service client.
type JobServiceDTO struct {
	BaseURL string `yaml:"baseURL"`
	Timeout string `yaml:"timeout"`
}

// PollDTO bounds the export poll loop.
type PollDTO struct {
	Interval    string `yaml:"interval"`
	MaxAttempts *int   `yaml:"maxAttempts"`
}

// PlaybackDTO configures frame discovery and animation.
type PlaybackDTO struct {
	Interval string   `yaml:"interval"`
	FrameCap *int     `yaml:"frameCap"`
	Opacity  *float64 `yaml:"opacity"`
	Mirrors  []string `yaml:"mirrors"`
}

// StorageDTO configures raster stores.
type StorageDTO struct {
	DataDir          string `yaml:"dataDir"`
	FetchConcurrency *int   `yaml:"fetchConcurrency"`
	CacheSize        *int   `yaml:"cacheSize"`
	S3               *S3DTO `yaml:"s3"`
}

// S3DTO configures the object store.
type S3DTO struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	UseSSL    *bool  `yaml:"useSSL"`
}

// TelemetryDTO configures trace export.
type TelemetryDTO struct {
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"serviceName"`
}

// MetricsDTO configures the metrics endpoint.
type MetricsDTO struct {
	Addr string `yaml:"addr"`
}

// AnalyticsDTO configures product analytics.
type AnalyticsDTO struct {
	APIKey string `yaml:"apiKey"`
	Host   string `yaml:"host"`
}

// LogDTO configures the logger.
type LogDTO struct {
	JSON  *bool `yaml:"json"`
	Debug *bool `yaml:"debug"`
}

// ServerDTO configures the development job service.
type ServerDTO struct {
	Addr        string `yaml:"addr"`
	ExportDir   string `yaml:"exportDir"`
	OutputDir   string `yaml:"outputDir"`
	ExportDelay string `yaml:"exportDelay"`
	Workers     *int   `yaml:"workers"`
}
