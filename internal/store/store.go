// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package store persists analysis results so callers can review past
// contract analyses. Backends share a common Service interface; records
// are keyed by caller and record ID.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"contract-guard/internal/analyzer"
	"contract-guard/internal/config"
)

// ErrNotFound is returned when a record does not exist for the caller
var ErrNotFound = errors.New("analysis record not found")

// FileMetadata describes the analyzed document
type FileMetadata struct {
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
}

// Record is a persisted analysis result
type Record struct {
	ID        string           `json:"id"`
	CallerID  string           `json:"callerId"`
	FileName  string           `json:"fileName"`
	FileSize  int64            `json:"fileSize"`
	CreatedAt time.Time        `json:"createdAt"`
	Analysis  *analyzer.Result `json:"analysis"`
}

// Service persists and retrieves analysis records
type Service interface {
	// Save stores a result and returns the generated record ID
	Save(ctx context.Context, callerID string, result *analyzer.Result, meta FileMetadata) (string, error)

	// List returns the caller's records, newest first
	List(ctx context.Context, callerID string) ([]Record, error)

	// Get returns a single record, or ErrNotFound
	Get(ctx context.Context, callerID, recordID string) (*Record, error)
}

// NewFromConfig creates the storage backend selected in the configuration
func NewFromConfig(cfg config.Storage) (Service, error) {
	switch cfg.Backend {
	case "filesystem", "":
		return NewFilesystemStore(cfg.Dir)
	case "minio":
		return NewMinioStore(cfg.Minio)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}
