package domain

import (
	"path/filepath"
	"time"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "firecast.yaml"

	// DotEnvFileName is the name of the optional environment file.
	DotEnvFileName = ".env"

	// DataDirName is the root of local data.
	DataDirName = "data"

	// ExportsDirName is the directory holding finished exports.
	ExportsDirName = "exports"

	// OutputDirName is the directory holding simulation frames.
	OutputDirName = "wildfire_output"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// Engine defaults.
const (
	DefaultPollInterval     = 5 * time.Second
	DefaultMaxPollAttempts  = 60
	DefaultFrameInterval    = time.Second
	DefaultFrameCap         = 20
	DefaultOpacity          = 0.8
	DefaultRequestTimeout   = 30 * time.Second
	DefaultFetchConcurrency = 4
	DefaultCacheSize        = 64
	DefaultExportDelay      = 10 * time.Second
	DefaultExportWorkers    = 2
	DefaultServiceURL       = "http://localhost:5000"
	DefaultServerAddr       = ":5000"
	DefaultServiceName      = "firecast"
)

// DefaultExportsPath returns the default directory for finished exports.
// It joins data and exports.
func DefaultExportsPath() string {
	return filepath.Join(DataDirName, ExportsDirName)
}

// DefaultOutputPath returns the default directory for simulation frames.
func DefaultOutputPath() string {
	return OutputDirName
}
