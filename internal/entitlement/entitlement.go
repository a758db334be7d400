// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package entitlement gates analyses behind a usage quota. Free callers
// get a fixed number of analyses; premium callers are unlimited and see
// full recommendations.
package entitlement

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Service answers entitlement questions for a caller
type Service interface {
	// CanAnalyze reports whether the caller has quota for another analysis
	CanAnalyze(callerID string) (bool, error)

	// RecordUsage counts one analysis against the caller's quota
	RecordUsage(callerID string) error

	// IsPremium reports whether the caller is on the premium tier
	IsPremium(callerID string) (bool, error)
}

// usageEntry tracks one caller in the ledger file
type usageEntry struct {
	Count        int       `json:"count"`
	LastAnalysis time.Time `json:"last_analysis"`
	Premium      bool      `json:"premium"`
}

type ledger struct {
	Users map[string]usageEntry `json:"users"`
}

// FileService is a Service backed by a JSON ledger file. Safe for
// concurrent use within a single process.
type FileService struct {
	mu           sync.Mutex
	path         string
	freeAnalyses int
}

// NewFileService creates a file-backed entitlement service. freeAnalyses
// is the quota for non-premium callers; 0 means no free analyses.
func NewFileService(path string, freeAnalyses int) (*FileService, error) {
	if path == "" {
		return nil, fmt.Errorf("usage file not configured")
	}
	if freeAnalyses < 0 {
		return nil, fmt.Errorf("free analyses must not be negative, got %d", freeAnalyses)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create usage directory: %w", err)
	}
	return &FileService{path: path, freeAnalyses: freeAnalyses}, nil
}

// CanAnalyze reports whether the caller has quota for another analysis
func (s *FileService) CanAnalyze(callerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.load()
	if err != nil {
		return false, err
	}

	entry := l.Users[callerID]
	if entry.Premium {
		return true, nil
	}
	return entry.Count < s.freeAnalyses, nil
}

// RecordUsage counts one analysis against the caller's quota
func (s *FileService) RecordUsage(callerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.load()
	if err != nil {
		return err
	}

	entry := l.Users[callerID]
	entry.Count++
	entry.LastAnalysis = time.Now().UTC()
	l.Users[callerID] = entry

	return s.save(l)
}

// IsPremium reports whether the caller is on the premium tier
func (s *FileService) IsPremium(callerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.load()
	if err != nil {
		return false, err
	}
	return l.Users[callerID].Premium, nil
}

// SetPremium marks a caller as premium (or revokes it)
func (s *FileService) SetPremium(callerID string, premium bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.load()
	if err != nil {
		return err
	}

	entry := l.Users[callerID]
	entry.Premium = premium
	l.Users[callerID] = entry

	return s.save(l)
}

func (s *FileService) load() (*ledger, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &ledger{Users: map[string]usageEntry{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read usage file: %w", err)
	}

	var l ledger
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to decode usage file: %w", err)
	}
	if l.Users == nil {
		l.Users = map[string]usageEntry{}
	}
	return &l, nil
}

func (s *FileService) save(l *ledger) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode usage file: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write usage file: %w", err)
	}
	return nil
}
