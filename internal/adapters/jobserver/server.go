// Package jobserver implements a development export job service.
// It mirrors the routes of the production service and synthesizes rasters
// after a configurable delay instead of running a geospatial export.
package jobserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.trai.ch/firecast/internal/core/domain"
	"go.trai.ch/firecast/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/semaphore"
)

const shutdownTimeout = 5 * time.Second

// Server is the development job service.
type Server struct {
	settings domain.ServerSettings
	logger   ports.Logger
	jobs     *Registry
	sem      *semaphore.Weighted

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Server. Exports are written below settings.ExportDir.
func New(settings domain.ServerSettings, logger ports.Logger) *Server {
	if settings.Workers <= 0 {
		settings.Workers = domain.DefaultExportWorkers
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		settings: settings,
		logger:   logger,
		jobs:     NewRegistry(),
		sem:      semaphore.NewWeighted(int64(settings.Workers)),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Jobs returns the job registry.
func (s *Server) Jobs() *Registry {
	return s.jobs
}

// Handler returns the HTTP routes of the service.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/api/health", s.handleHealth)
	r.Route("/api/earthengine", func(r chi.Router) {
		r.Post("/start-export", s.handleStartExport)
		r.Get("/check-status/{id}", s.handleCheckStatus)
		r.Post("/get_layer", s.handlePreview)
	})
	r.Get("/previews/{seed}.tif", s.handlePreviewRaster)
	r.Head("/previews/{seed}.tif", s.handlePreviewRaster)

	mountDir(r, domain.ExportsPrefix, s.settings.ExportDir)
	mountDir(r, "/outputs", s.settings.OutputDir)
	return r
}

func mountDir(r chi.Router, prefix, dir string) {
	fs := http.StripPrefix(prefix, http.FileServer(http.Dir(dir)))
	r.Get(prefix+"/*", fs.ServeHTTP)
	r.Head(prefix+"/*", fs.ServeHTTP)
}

// Serve listens on addr until ctx is cancelled, then shuts down and waits for running exports.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(fmt.Sprintf("job service listening on %s", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "job service stopped"), "addr", addr)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	return err
}

// Close cancels running exports and waits for their workers.
func (s *Server) Close() {
	s.cancel()
	s.wg.Wait()
}

type exportRequest struct {
	Geometry  *domain.Geometry `json:"geometry"`
	CountyKey string           `json:"county_key"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "Wildfire API is running",
	})
}

func (s *Server) handleStartExport(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeExportRequest(w, r)
	if !ok {
		return
	}

	key, err := entityKeyFor(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if filename := key.String() + domain.RasterExt; s.exists(filename) {
		address := domain.ServedAddress(key)
		writeJSON(w, http.StatusOK, domain.StartResponse{
			Status:      string(domain.StatusCompleted),
			FilenameKey: key.String(),
			URL:         address,
			LocalPath:   address,
		})
		return
	}

	job := s.jobs.Create(key)
	s.wg.Go(func() { s.export(job) })

	s.logger.Info(fmt.Sprintf("export %s started for %s", job.ID, key))
	writeJSON(w, http.StatusAccepted, domain.StartResponse{JobID: job.ID})
}

func (s *Server) handleCheckStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, ok := s.jobs.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}

	switch job.State {
	case StateReady, StateRunning:
		writeJSON(w, http.StatusOK, domain.StatusResponse{Status: string(domain.StatusProcessing)})
	case StateDone:
		writeJSON(w, http.StatusOK, domain.StatusResponse{
			Status:    string(domain.StatusCompleted),
			URL:       job.Path,
			LocalPath: job.Path,
		})
	case StateFailed:
		writeJSON(w, http.StatusInternalServerError, domain.StatusResponse{
			Status: string(domain.StatusFailed),
			Error:  job.Error,
		})
	default:
		writeJSON(w, http.StatusOK, domain.StatusResponse{Status: string(job.State)})
	}
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeExportRequest(w, r)
	if !ok {
		return
	}
	seed := fmt.Sprintf("%016x", xxhash.Sum64(req.Geometry.Coordinates))
	writeJSON(w, http.StatusOK, domain.PreviewResponse{URL: "/previews/" + seed + domain.RasterExt})
}

func (s *Server) handlePreviewRaster(w http.ResponseWriter, r *http.Request) {
	data, err := Synthesize(chi.URLParam(r, "seed"), PreviewSize)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/tiff")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(data)
	}
}

// export runs one job: it waits for a worker slot and the configured delay, then writes the raster.
func (s *Server) export(job Job) {
	fail := func(err error) {
		s.jobs.Update(job.ID, func(j *Job) {
			j.State = StateFailed
			j.Error = err.Error()
		})
		s.logger.Warn(fmt.Sprintf("export %s failed: %v", job.ID, err))
	}

	if err := s.sem.Acquire(s.ctx, 1); err != nil {
		fail(err)
		return
	}
	defer s.sem.Release(1)

	s.jobs.Update(job.ID, func(j *Job) { j.State = StateRunning })

	timer := time.NewTimer(s.settings.ExportDelay)
	defer timer.Stop()
	select {
	case <-s.ctx.Done():
		fail(s.ctx.Err())
		return
	case <-timer.C:
	}

	data, err := Synthesize(job.Key.String(), ExportSize)
	if err != nil {
		fail(err)
		return
	}
	if err := os.MkdirAll(s.settings.ExportDir, domain.DirPerm); err != nil {
		fail(zerr.With(zerr.Wrap(err, "failed to create export dir"), "dir", s.settings.ExportDir))
		return
	}
	path := filepath.Join(s.settings.ExportDir, job.Key.String()+domain.RasterExt)
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		fail(zerr.With(zerr.Wrap(err, "failed to write export"), "path", path))
		return
	}

	s.jobs.Update(job.ID, func(j *Job) {
		j.State = StateDone
		j.Path = domain.ServedAddress(job.Key)
	})
	s.logger.Info(fmt.Sprintf("export %s completed for %s", job.ID, job.Key))
}

func (s *Server) exists(filename string) bool {
	info, err := os.Stat(filepath.Join(s.settings.ExportDir, filename))
	return err == nil && !info.IsDir()
}

func decodeExportRequest(w http.ResponseWriter, r *http.Request) (exportRequest, bool) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Geometry == nil || req.Geometry.Validate() != nil {
		writeError(w, http.StatusBadRequest, "Missing 'geometry' in request body")
		return exportRequest{}, false
	}
	return req, true
}

// entityKeyFor uses the county key of the request, or derives one from the geometry.
func entityKeyFor(req exportRequest) (domain.EntityKey, error) {
	if k := strings.TrimSpace(req.CountyKey); k != "" {
		return domain.ParseEntityKey(k)
	}
	return domain.ParseEntityKey(fmt.Sprintf("Geometry_%016x", xxhash.Sum64(req.Geometry.Coordinates)))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
