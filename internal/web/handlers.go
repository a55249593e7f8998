// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"phone-cleaner/internal/core"
	"phone-cleaner/internal/formatters"
	"phone-cleaner/internal/formatters/shared"
	"phone-cleaner/internal/injection"
	"phone-cleaner/internal/presets"
	"phone-cleaner/internal/report"
	"phone-cleaner/internal/version"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// CleanRequest is the body of POST /api/clean. Settings, when present,
// replace the configured defaults; Profile is applied otherwise.
type CleanRequest struct {
	Input    string           `json:"input"`
	Settings *report.Settings `json:"settings,omitempty"`
	Profile  string           `json:"profile,omitempty"`
}

// CleanResponse wraps the report document
type CleanResponse struct {
	Success bool                  `json:"success"`
	Report  shared.ReportDocument `json:"report"`
}

// ValidateRulesRequest is the body of POST /api/rules/validate
type ValidateRulesRequest struct {
	Rules []injection.Rule `json:"rules"`
}

// ValidateRulesResponse lists problems per rule id
type ValidateRulesResponse struct {
	Valid    bool                `json:"valid"`
	Problems map[string][]string `json:"problems"`
}

func sendError(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, ErrorResponse{Success: false, Error: message, Details: details})
}

// handleHealth reports liveness and build information
func (ws *WebServer) handleHealth(c *gin.Context) {
	info := version.Full()
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "phone-cleaner",
		"version":   info["version"],
		"build_info": gin.H{
			"version":    info["version"],
			"commit":     info["commit"],
			"build_date": info["buildDate"],
			"go_version": info["goVersion"],
			"platform":   info["platform"],
		},
	})
}

// handleClean runs one cleaning batch.
// POST /api/clean?format=json|csv|yaml|text|junit&view=cleaned|phones|duplicates|invalid
func (ws *WebServer) handleClean(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var req CleanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			sendError(c, http.StatusRequestEntityTooLarge, "request body too large", nil)
			return
		}
		sendError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	format := strings.ToLower(c.DefaultQuery("format", "json"))
	view := strings.ToLower(c.Query("view"))
	if !formatters.IsView(view) {
		sendError(c, http.StatusBadRequest, "unsupported view", formatters.Views)
		return
	}
	if _, ok := formatters.Get(format); !ok {
		sendError(c, http.StatusBadRequest, "unsupported format", formatters.List())
		return
	}

	settings, err := ws.resolveSettings(req)
	if err != nil {
		sendError(c, http.StatusBadRequest, "invalid settings", err.Error())
		return
	}
	if settings.PresetID != "" {
		if _, ok := ws.registry.Get(settings.PresetID); !ok {
			sendError(c, http.StatusBadRequest, "unknown preset '"+settings.PresetID+"'", presetIDs(ws.registry))
			return
		}
	}

	rep, err := core.Clean(c.Request.Context(), core.CleanConfig{
		Input:    req.Input,
		Source:   "api",
		Settings: settings,
		Table:    ws.table,
		Presets:  ws.registry,
		Workers:  ws.cfg.Defaults.Workers,
	})
	if err != nil {
		var batchErr *core.BatchError
		if errors.As(err, &batchErr) {
			ws.log.Error().Err(err).Str("op", batchErr.Op).Msg("batch failed")
		}
		sendError(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	options := formatters.FormatterOptions{View: view, Verbose: c.Query("verbose") == "true", NoColor: true}
	if format == "json" {
		c.JSON(http.StatusOK, CleanResponse{Success: true, Report: shared.ConvertReport(rep, options)})
		return
	}

	content, mimeType, filename, err := formatters.ExportForWeb(format, rep, options)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, mimeType+"; charset=utf-8", []byte(content))
}

// resolveSettings picks the request settings or the configured profile and
// validates the result.
func (ws *WebServer) resolveSettings(req CleanRequest) (report.Settings, error) {
	var settings report.Settings
	if req.Settings != nil {
		settings = *req.Settings
	} else {
		s, err := ws.cfg.Settings(req.Profile)
		if err != nil {
			return settings, err
		}
		settings = s
	}
	settings.Injection.Rules = injection.EnsureIDs(settings.Injection.Rules)
	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

// handlePresets lists the available presets
func (ws *WebServer) handlePresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"presets": ws.registry.List()})
}

// handleCountries returns the reference country table
func (ws *WebServer) handleCountries(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"countries": ws.table})
}

// handleFormats lists the export formats and views
func (ws *WebServer) handleFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"formats": formatters.GetSupportedFormats(), "views": formatters.Views})
}

// handleValidateRules checks injection rules without running a batch
func (ws *WebServer) handleValidateRules(c *gin.Context) {
	var req ValidateRulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	problems := injection.ValidateRules(req.Rules)
	c.JSON(http.StatusOK, ValidateRulesResponse{Valid: len(problems) == 0, Problems: problems})
}

func presetIDs(r *presets.Registry) []string {
	list := r.List()
	ids := make([]string, len(list))
	for i, p := range list {
		ids[i] = p.ID
	}
	return ids
}
