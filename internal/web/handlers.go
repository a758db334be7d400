// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"contract-guard/internal/analyzer"
	"contract-guard/internal/entitlement"
	"contract-guard/internal/extract"
	"contract-guard/internal/formatters"
	_ "contract-guard/internal/formatters/csv"
	_ "contract-guard/internal/formatters/json"
	_ "contract-guard/internal/formatters/text"
	"contract-guard/internal/store"
	"contract-guard/internal/version"
)

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"version":   version.Version,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleToken issues a JWT for the given username. Intended for
// development and internal deployments where an upstream gateway has
// already authenticated the caller.
func (s *Server) handleToken(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}

	token, expiresAt, err := GenerateToken(req.Username, s.cfg.Server)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresAt": expiresAt.Format(time.RFC3339),
	})
}

// handleAnalyze accepts a multipart document upload and returns its
// risk analysis. Persistence is best effort: a storage failure never
// fails the analysis response.
func (s *Server) handleAnalyze(c *gin.Context) {
	username := GetUsername(c)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	if header.Size > s.cfg.Server.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File exceeds the upload size limit"})
		return
	}
	if !extract.IsSupported(header.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unsupported file type. Supported: " + strings.Join(extract.SupportedExtensions(), ", "),
		})
		return
	}

	allowed, err := s.entitlements.CanAnalyze(username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check usage quota"})
		return
	}
	if !allowed {
		c.JSON(http.StatusPaymentRequired, gin.H{
			"error": "Free analysis limit reached. Upgrade to premium for unlimited analyses.",
		})
		return
	}

	tempPath, err := saveUpload(file, header.Filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store uploaded file"})
		return
	}
	defer os.Remove(tempPath)

	start := time.Now()
	content, err := s.extractor.ExtractText(tempPath)
	if err != nil {
		// Extraction problems are caller errors: a bad, unreadable or
		// empty document, not a server fault.
		var extractionErr *extract.ExtractionError
		if errors.As(err, &extractionErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": extractionErr.Reason})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.engine.Analyze(content.Text)
	if err != nil {
		var inputErr *analyzer.InputError
		if errors.As(err, &inputErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": inputErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Analysis failed"})
		return
	}
	s.metrics.observeAnalysis(time.Since(start))
	for _, flag := range result.RedFlags {
		s.metrics.countFinding(string(flag.Severity))
	}

	if err := s.entitlements.RecordUsage(username); err != nil {
		slog.Warn("failed to record usage", "user", username, "error", err)
	}

	premium, err := s.entitlements.IsPremium(username)
	if err != nil {
		slog.Warn("failed to check premium status", "user", username, "error", err)
	}
	visible := entitlement.ApplyTier(result, premium)

	// Persist the full result; redaction applies only to the response
	recordID, err := s.store.Save(c.Request.Context(), username, result, store.FileMetadata{
		FileName: header.Filename,
		FileSize: header.Size,
	})
	if err != nil {
		slog.Warn("failed to persist analysis", "user", username, "error", err)
	}

	response := gin.H{
		"success":    true,
		"fileName":   header.Filename,
		"textLength": content.CharCount,
		"analysis":   visible,
	}
	if recordID != "" {
		response["analysisId"] = recordID
	}
	c.JSON(http.StatusOK, response)
}

func (s *Server) handleListAnalyses(c *gin.Context) {
	records, err := s.store.List(c.Request.Context(), GetUsername(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list analyses"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": records})
}

func (s *Server) handleGetAnalysis(c *gin.Context) {
	record, err := s.store.Get(c.Request.Context(), GetUsername(c), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analysis"})
		return
	}
	c.JSON(http.StatusOK, record)
}

// handleExportAnalysis renders a stored analysis in one of the report
// formats as a downloadable attachment. Format defaults to json.
func (s *Server) handleExportAnalysis(c *gin.Context) {
	record, err := s.store.Get(c.Request.Context(), GetUsername(c), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analysis"})
		return
	}

	format := c.DefaultQuery("format", "json")
	docs := []formatters.Document{{Path: record.FileName, Result: record.Analysis}}
	content, mimeType, filename, err := formatters.ExportForWeb(format, docs, formatters.FormatterOptions{
		Verbose:    true,
		NoColor:    true,
		ShowClause: true,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, mimeType, []byte(content))
}

// saveUpload writes the uploaded file to a temp path that keeps the
// original extension, so the extractor can route it by type.
func saveUpload(file io.Reader, filename string) (string, error) {
	ext := filepath.Ext(filename)
	tmp, err := os.CreateTemp("", "contract-guard-upload-*"+ext)
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, file); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}
