package domain

import (
	"encoding/json"
	"strings"

	"go.trai.ch/zerr"
)

// EntityKey identifies the subject of an export or animation, e.g. "Maricopa_AZ".
// It is the join key across cache lookup, job tracking and resource addressing.
type EntityKey string

// NewEntityKey builds the key for a region and its sub-region code.
// Identical inputs always produce the identical key.
func NewEntityKey(region, code string) (EntityKey, error) {
	region = strings.Join(strings.Fields(region), "_")
	code = strings.ToUpper(strings.TrimSpace(code))
	if region == "" || code == "" {
		return "", zerr.With(zerr.Wrap(ErrInvalidEntityKey, "region and code are required"), "region", region)
	}
	return ParseEntityKey(region + "_" + code)
}

// ParseEntityKey validates an already composed key.
func ParseEntityKey(s string) (EntityKey, error) {
	if s == "" {
		return "", zerr.Wrap(ErrInvalidEntityKey, "empty key")
	}
	if strings.ContainsAny(s, `/\`) || strings.Contains(s, "..") {
		return "", zerr.With(zerr.Wrap(ErrInvalidEntityKey, "key must not contain path separators"), "key", s)
	}
	return EntityKey(s), nil
}

func (k EntityKey) String() string {
	return string(k)
}

// Geometry is a GeoJSON geometry. Coordinates stay raw; only the job service interprets them.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Validate reports ErrMissingGeometry when the geometry carries no shape.
func (g Geometry) Validate() error {
	if g.Type == "" || len(g.Coordinates) == 0 || string(g.Coordinates) == "null" {
		return ErrMissingGeometry
	}
	return nil
}
