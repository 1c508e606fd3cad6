// Package config loads firecast settings from defaults, firecast.yaml, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.trai.ch/firecast/internal/core/domain"
	"go.trai.ch/firecast/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// ConfigPathEnv names the variable that points at the configuration file.
const ConfigPathEnv = EnvPrefix + "CONFIG"

// Loader implements ports.ConfigLoader.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load resolves settings with increasing precedence: defaults, the YAML file at path,
// the .env file next to it and finally the process environment.
// An empty path means $FIRECAST_CONFIG, or firecast.yaml in the working directory.
func (l *Loader) Load(path string) (*domain.Settings, error) {
	if path == "" {
		path = os.Getenv(ConfigPathEnv)
	}
	if path == "" {
		path = domain.ConfigFileName
	}

	settings := domain.DefaultSettings()

	var file File
	found, err := readYAML(path, &file)
	if err != nil {
		return nil, err
	}
	if found {
		if err := file.apply(settings); err != nil {
			return nil, zerr.With(err, "path", path)
		}
	} else {
		l.Logger.Debug(fmt.Sprintf("no %s found, using defaults", path))
	}

	environ, err := l.environ(filepath.Join(filepath.Dir(path), domain.DotEnvFileName))
	if err != nil {
		return nil, err
	}
	if err := applyEnv(settings, environ); err != nil {
		return nil, zerr.Wrap(errors.Join(domain.ErrConfigParse, err), "invalid environment")
	}

	if err := validate(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// environ merges the .env file at dotEnvPath under the process environment.
func (l *Loader) environ(dotEnvPath string) (map[string]string, error) {
	merged := make(map[string]string)

	dotEnv, err := godotenv.Read(dotEnvPath)
	switch {
	case err == nil:
		maps.Copy(merged, dotEnv)
		l.Logger.Debug(fmt.Sprintf("loaded %d variables from %s", len(dotEnv), dotEnvPath))
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigRead, err.Error()), "path", dotEnvPath)
	}

	maps.Copy(merged, env.ToMap(os.Environ()))
	return merged, nil
}

// readYAML unmarshals the file at path into out. A missing file reports found = false.
func readYAML(path string, out any) (bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(domain.ErrConfigRead, err.Error()), "path", path)
	}

	if err := yaml.Unmarshal(data, out); err != nil {
		return false, zerr.With(zerr.Wrap(domain.ErrConfigParse, err.Error()), "path", path)
	}
	return true, nil
}

// apply copies every field set in the file onto s.
//
//nolint:cyclop,gocognit // flat field mapping
func (f *File) apply(s *domain.Settings) error {
	if js := f.JobService; js != nil {
		setString(&s.JobService.BaseURL, js.BaseURL)
		if err := setDuration(&s.JobService.Timeout, js.Timeout, "jobService.timeout"); err != nil {
			return err
		}
	}
	if p := f.Poll; p != nil {
		if err := setDuration(&s.Poll.Interval, p.Interval, "poll.interval"); err != nil {
			return err
		}
		setValue(&s.Poll.MaxAttempts, p.MaxAttempts)
	}
	if p := f.Playback; p != nil {
		if err := setDuration(&s.Playback.Interval, p.Interval, "playback.interval"); err != nil {
			return err
		}
		setValue(&s.Playback.FrameCap, p.FrameCap)
		setValue(&s.Playback.Opacity, p.Opacity)
		if p.Mirrors != nil {
			s.Playback.Mirrors = p.Mirrors
		}
	}
	if st := f.Storage; st != nil {
		setString(&s.Storage.DataDir, st.DataDir)
		setValue(&s.Storage.FetchConcurrency, st.FetchConcurrency)
		setValue(&s.Storage.CacheSize, st.CacheSize)
		if s3 := st.S3; s3 != nil {
			setString(&s.Storage.S3.Endpoint, s3.Endpoint)
			setString(&s.Storage.S3.AccessKey, s3.AccessKey)
			setString(&s.Storage.S3.SecretKey, s3.SecretKey)
			setValue(&s.Storage.S3.UseSSL, s3.UseSSL)
		}
	}
	if t := f.Telemetry; t != nil {
		setString(&s.Telemetry.Endpoint, t.Endpoint)
		setString(&s.Telemetry.ServiceName, t.ServiceName)
	}
	if m := f.Metrics; m != nil {
		setString(&s.Metrics.Addr, m.Addr)
	}
	if a := f.Analytics; a != nil {
		setString(&s.Analytics.APIKey, a.APIKey)
		setString(&s.Analytics.Host, a.Host)
	}
	if lg := f.Log; lg != nil {
		setValue(&s.Log.JSON, lg.JSON)
		setValue(&s.Log.Debug, lg.Debug)
	}
	if sv := f.Server; sv != nil {
		setString(&s.Server.Addr, sv.Addr)
		setString(&s.Server.ExportDir, sv.ExportDir)
		setString(&s.Server.OutputDir, sv.OutputDir)
		if err := setDuration(&s.Server.ExportDelay, sv.ExportDelay, "server.exportDelay"); err != nil {
			return err
		}
		setValue(&s.Server.Workers, sv.Workers)
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setValue[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v, field string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrConfigParse, "invalid duration"), "field", field)
	}
	*dst = d
	return nil
}

// validate rejects settings the engine cannot run with.
func validate(s *domain.Settings) error {
	invalid := func(field string, value any) error {
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrConfigParse, "invalid setting"), "field", field), "value", value)
	}

	switch {
	case s.JobService.BaseURL == "":
		return invalid("jobService.baseURL", s.JobService.BaseURL)
	case s.JobService.Timeout <= 0:
		return invalid("jobService.timeout", s.JobService.Timeout)
	case s.Poll.Interval <= 0:
		return invalid("poll.interval", s.Poll.Interval)
	case s.Poll.MaxAttempts <= 0:
		return invalid("poll.maxAttempts", s.Poll.MaxAttempts)
	case s.Playback.Interval <= 0:
		return invalid("playback.interval", s.Playback.Interval)
	case s.Playback.FrameCap <= 0:
		return invalid("playback.frameCap", s.Playback.FrameCap)
	case s.Playback.Opacity <= 0 || s.Playback.Opacity > 1:
		return invalid("playback.opacity", s.Playback.Opacity)
	case s.Storage.FetchConcurrency <= 0:
		return invalid("storage.fetchConcurrency", s.Storage.FetchConcurrency)
	case s.Storage.CacheSize <= 0:
		return invalid("storage.cacheSize", s.Storage.CacheSize)
	case s.Server.Workers <= 0:
		return invalid("server.workers", s.Server.Workers)
	case s.Server.ExportDelay < 0:
		return invalid("server.exportDelay", s.Server.ExportDelay)
	}
	return nil
}
