// Package server exposes the converter over HTTP.
//
// Routes:
//
//	POST /v1/convert/{format}   body: UDF file (archive or bare XML)
//	GET  /healthz
//
// {format} is docx, pdf or md. The converted file is the response body;
// the number of recovered problems is reported in the X-UDF-Warnings
// header.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tsawler/udf"
	"github.com/tsawler/udf/config"
	"github.com/tsawler/udf/format"
	"github.com/tsawler/udf/model"
)

// WarningsHeader carries the warning count of a conversion.
const WarningsHeader = "X-UDF-Warnings"

// Server is the HTTP conversion service.
type Server struct {
	cfg       *config.Config
	logger    *slog.Logger
	converter *udf.Converter
	router    *chi.Mux
}

// New creates a server from cfg. Font files named by cfg are loaded once
// here.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conv := udf.FromBytes(nil).WithConfig(cfg).Logger(logger)
	if err := conv.Err(); err != nil {
		return nil, fmt.Errorf("configuring converter: %w", err)
	}

	s := &Server{
		cfg:       cfg,
		logger:    logger,
		converter: conv,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/convert/{format}", s.handleConvert)
	s.router = r
	return s, nil
}

// Handler returns the HTTP handler of the service.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	f, err := format.Parse(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes())
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("body exceeds %d bytes", mbe.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(body) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("empty body"))
		return
	}

	conv := s.converter.WithInput(body)
	if title := r.URL.Query().Get("title"); title != "" {
		conv = conv.Title(title)
	}

	data, warnings, err := conv.Bytes(f)
	if err != nil {
		s.logger.Info("conversion failed", "format", f.String(), "error", err, "request_id", middleware.GetReqID(r.Context()))
		writeError(w, statusOf(err), err)
		return
	}

	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="document`+f.Extension()+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set(WarningsHeader, strconv.Itoa(len(warnings)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// statusOf maps conversion errors to response codes. Input problems are
// the client's; anything else is ours.
func statusOf(err error) int {
	var (
		ce *model.ContainerError
		fe *model.FormatError
		se *model.StructureError
		oe *model.OffsetError
	)
	switch {
	case errors.As(err, &ce), errors.As(err, &fe), errors.As(err, &se), errors.As(err, &oe):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
