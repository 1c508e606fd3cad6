package domain

import (
	"fmt"
	"strings"
)

const (
	// ExportsPrefix is the served path under which finished rasters live.
	ExportsPrefix = "/exports"

	// RasterExt is the extension of every raster resource.
	RasterExt = ".tif"

	// FramePattern is the file name pattern of simulation frames.
	FramePattern = "wildfire_t_%03d" + RasterExt
)

// ServedAddress returns the deterministic served address of the raster for key.
func ServedAddress(key EntityKey) string {
	return ExportsPrefix + "/" + key.String() + RasterExt
}

// ResolveAddress picks the address of a finished raster.
// Preference: url, localPath, the returned filename key, the entity key.
func ResolveAddress(url, localPath, filenameKey string, key EntityKey) string {
	switch {
	case url != "":
		return url
	case localPath != "":
		return localPath
	case filenameKey != "":
		return ExportsPrefix + "/" + filenameKey + RasterExt
	default:
		return ServedAddress(key)
	}
}

// FrameAddress returns the address of frame i below baseDir.
func FrameAddress(baseDir string, i int) string {
	return strings.TrimRight(baseDir, "/") + "/" + fmt.Sprintf(FramePattern, i)
}
