package domain

import "go.trai.ch/zerr"

var (
	// ErrServiceUnavailable is returned when the job service could not be reached or gave no usable answer.
	ErrServiceUnavailable = zerr.New("job service unavailable")

	// ErrInvalidResponse is returned when the job service answered with a malformed or incomplete body.
	ErrInvalidResponse = zerr.New("invalid job service response")

	// ErrProtocolError is returned when an export task is polled in a state that can never be valid.
	ErrProtocolError = zerr.New("export task protocol violation")

	// ErrExportFailed is returned when an export ended as FAILED and no preview could stand in for it.
	ErrExportFailed = zerr.New("export failed")

	// ErrExportTimeout is returned when the poll budget ran out before the export finished
	// and no preview could stand in for it.
	ErrExportTimeout = zerr.New("export timed out")

	// ErrSuperseded is returned by a resolution that was cancelled by a newer selection.
	ErrSuperseded = zerr.New("resolution superseded by a newer selection")

	// ErrNotCached is returned when the served raster of an entity does not exist yet.
	ErrNotCached = zerr.New("raster not cached")

	// ErrEmptyResult is returned when frame discovery found no frames at all.
	ErrEmptyResult = zerr.New("no frames discovered")

	// ErrInvalidEntityKey is returned when an entity key cannot be built or parsed.
	ErrInvalidEntityKey = zerr.New("invalid entity key")

	// ErrMissingGeometry is returned when an export is requested without a usable geometry.
	ErrMissingGeometry = zerr.New("missing geometry")

	// ErrRasterNotFound is returned when a raster address does not exist.
	ErrRasterNotFound = zerr.New("raster not found")

	// ErrRasterFetch is returned when raster bytes could not be fetched.
	ErrRasterFetch = zerr.New("failed to fetch raster")

	// ErrRasterDecode is returned when raster bytes are not a decodable image.
	ErrRasterDecode = zerr.New("failed to decode raster")

	// ErrLayerRemoved is returned when an operation targets a layer that was already removed.
	ErrLayerRemoved = zerr.New("layer already removed")

	// ErrUnsupportedAddress is returned when no store can serve an address.
	ErrUnsupportedAddress = zerr.New("unsupported raster address")

	// ErrJobNotFound is returned by the job service when a job id is unknown.
	ErrJobNotFound = zerr.New("job not found")

	// ErrConfigRead is returned when the configuration file cannot be read.
	ErrConfigRead = zerr.New("failed to read config file")

	// ErrConfigParse is returned when the configuration cannot be parsed or is invalid.
	ErrConfigParse = zerr.New("failed to parse config")

	// ErrResolutionFailed marks a resolve command that ended in a failure the user was already notified about.
	ErrResolutionFailed = zerr.New("resolution failed")

	// ErrPlaybackFailed marks a play command that ended in a failure the user was already notified about.
	ErrPlaybackFailed = zerr.New("playback failed")
)
