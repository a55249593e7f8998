// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package web serves the cleaner over HTTP.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"phone-cleaner/internal/config"
	"phone-cleaner/internal/countries"
	"phone-cleaner/internal/logger"
	"phone-cleaner/internal/presets"

	// Import formatters to register them
	_ "phone-cleaner/internal/formatters/csv"
	_ "phone-cleaner/internal/formatters/json"
	_ "phone-cleaner/internal/formatters/junit"
	_ "phone-cleaner/internal/formatters/text"
	_ "phone-cleaner/internal/formatters/yaml"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	// maxBodyBytes bounds a clean request body.
	maxBodyBytes = 20 * 1024 * 1024

	// portAttempts is how many consecutive ports Start tries.
	portAttempts = 10

	shutdownTimeout = 10 * time.Second
)

// WebServer represents the web server instance
type WebServer struct {
	port     int
	cfg      *config.Config
	table    countries.Table
	registry *presets.Registry
	engine   *gin.Engine
	server   *http.Server
	log      zerolog.Logger
}

// NewWebServer creates a server backed by cfg. The country table is loaded
// once here; a bad table fails construction.
func NewWebServer(cfg *config.Config, port int) (*WebServer, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	table, err := cfg.CountryTable()
	if err != nil {
		return nil, fmt.Errorf("failed to load country table: %w", err)
	}

	ws := &WebServer{
		port:     port,
		cfg:      cfg,
		table:    table,
		registry: cfg.PresetRegistry(),
		log:      logger.Get().With().Str("component", "web").Logger(),
	}
	ws.engine = ws.setupRoutes()
	return ws, nil
}

// Handler exposes the routes for embedding and tests
func (ws *WebServer) Handler() http.Handler {
	return ws.engine
}

// setupRoutes configures all HTTP route handlers
func (ws *WebServer) setupRoutes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), ws.requestLogger())

	r.GET("/health", ws.handleHealth)

	api := r.Group("/api")
	api.POST("/clean", ws.handleClean)
	api.GET("/presets", ws.handlePresets)
	api.GET("/countries", ws.handleCountries)
	api.GET("/formats", ws.handleFormats)
	api.POST("/rules/validate", ws.handleValidateRules)

	return r
}

// requestLogger logs one line per request once the handler has run
func (ws *WebServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := ws.log.Debug()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = ws.log.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

// createSecureServer creates an HTTP server with security timeouts
func (ws *WebServer) createSecureServer(addr string) *http.Server {
	return &http.Server{
		Addr:    addr,
		Handler: ws.engine,
		// Timeout for reading request headers (prevents slow header attacks)
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Start listens on the configured port, or the next free one, and serves
// until ctx is cancelled.
func (ws *WebServer) Start(ctx context.Context) error {
	listener, err := ws.listen()
	if err != nil {
		return err
	}

	ws.server = ws.createSecureServer(listener.Addr().String())
	ws.log.Info().Str("addr", listener.Addr().String()).Msg("phone-cleaner API started")

	errCh := make(chan error, 1)
	go func() {
		errCh <- ws.server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return ws.server.Shutdown(shutdownCtx)
	}
}

func (ws *WebServer) listen() (net.Listener, error) {
	var lastError error
	for i := 0; i < portAttempts; i++ {
		addr := ":" + strconv.Itoa(ws.port+i)
		listener, err := net.Listen("tcp", addr)
		if err == nil {
			return listener, nil
		}
		lastError = err
		if i == 0 {
			ws.log.Warn().Int("port", ws.port).Msg("port is not available, trying alternative ports")
		}
	}
	return nil, fmt.Errorf("could not find an available port in range %d-%d: %w",
		ws.port, ws.port+portAttempts-1, lastError)
}

// Stop stops the web server
func (ws *WebServer) Stop() error {
	if ws.server != nil {
		return ws.server.Close()
	}
	return nil
}
