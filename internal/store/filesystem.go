// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"contract-guard/internal/analyzer"
)

// FilesystemStore persists records as JSON files under
// <dir>/<callerID>/<recordID>.json.
type FilesystemStore struct {
	dir string
}

// NewFilesystemStore creates a filesystem-backed store rooted at dir
func NewFilesystemStore(dir string) (*FilesystemStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage directory not configured")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FilesystemStore{dir: dir}, nil
}

// Save stores a result and returns the generated record ID
func (s *FilesystemStore) Save(ctx context.Context, callerID string, result *analyzer.Result, meta FileMetadata) (string, error) {
	record := Record{
		ID:        uuid.NewString(),
		CallerID:  callerID,
		FileName:  meta.FileName,
		FileSize:  meta.FileSize,
		CreatedAt: time.Now().UTC(),
		Analysis:  result,
	}

	callerDir := filepath.Join(s.dir, sanitizeID(callerID))
	if err := os.MkdirAll(callerDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create caller directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}

	path := filepath.Join(callerDir, record.ID+".json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write record: %w", err)
	}

	return record.ID, nil
}

// List returns the caller's records, newest first
func (s *FilesystemStore) List(ctx context.Context, callerID string) ([]Record, error) {
	callerDir := filepath.Join(s.dir, sanitizeID(callerID))
	entries, err := os.ReadDir(callerDir)
	if os.IsNotExist(err) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read caller directory: %w", err)
	}

	records := []Record{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		record, err := s.readRecord(filepath.Join(callerDir, entry.Name()))
		if err != nil {
			// Skip unreadable records rather than failing the whole listing
			continue
		}
		records = append(records, *record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	return records, nil
}

// Get returns a single record, or ErrNotFound
func (s *FilesystemStore) Get(ctx context.Context, callerID, recordID string) (*Record, error) {
	path := filepath.Join(s.dir, sanitizeID(callerID), sanitizeID(recordID)+".json")
	record, err := s.readRecord(path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *FilesystemStore) readRecord(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode record %s: %w", filepath.Base(path), err)
	}
	return &record, nil
}

// sanitizeID keeps IDs from escaping the storage directory
func sanitizeID(id string) string {
	return filepath.Base(strings.TrimSpace(id))
}
