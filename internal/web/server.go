// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package web exposes the contract analysis engine over HTTP. Callers
// authenticate with JWT bearer tokens, upload documents for analysis,
// and retrieve their past analyses.
package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"contract-guard/internal/analyzer"
	"contract-guard/internal/config"
	"contract-guard/internal/entitlement"
	"contract-guard/internal/extract"
	"contract-guard/internal/store"
)

// Server serves the contract analysis HTTP API
type Server struct {
	cfg          *config.Config
	engine       *analyzer.Engine
	extractor    *extract.DocumentExtractor
	store        store.Service
	entitlements entitlement.Service
	metrics      *metrics
	router       *gin.Engine
}

// NewServer wires the analysis engine and its services into a router
func NewServer(cfg *config.Config, engine *analyzer.Engine, storeSvc store.Service, entitlements entitlement.Service) (*Server, error) {
	if cfg.Server.JWTSecret == "" {
		return nil, fmt.Errorf("server mode requires a JWT secret")
	}

	s := &Server{
		cfg:          cfg,
		engine:       engine,
		extractor:    extract.NewDocumentExtractorWithMinText(engine.Options().MinTextLength),
		store:        storeSvc,
		entitlements: entitlements,
		metrics:      newMetrics(),
	}
	s.router = s.buildRouter()
	return s, nil
}

// Router returns the configured gin router
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) buildRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(RequestID())
	router.Use(Recovery())
	router.Use(RequestLogger())
	router.Use(s.metrics.instrument())

	router.GET("/healthz", s.handleHealthz)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))

	api := router.Group("/api")
	{
		api.POST("/token", s.handleToken)
	}

	protected := api.Group("/")
	protected.Use(AuthMiddleware(s.cfg.Server))
	{
		protected.POST("/analyze", s.handleAnalyze)
		protected.GET("/analyses", s.handleListAnalyses)
		protected.GET("/analyses/:id", s.handleGetAnalysis)
		protected.GET("/analyses/:id/export", s.handleExportAnalysis)
	}

	return router
}

// Run serves until the context is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", s.cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
