// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"contract-guard/internal/analyzer"
	"contract-guard/internal/config"
)

// MinioStore persists records as JSON objects named
// <callerID>/<recordID>.json in a single bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore creates an object-storage-backed store
func NewMinioStore(cfg config.MinioConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinioStore{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// Save stores a result and returns the generated record ID
func (s *MinioStore) Save(ctx context.Context, callerID string, result *analyzer.Result, meta FileMetadata) (string, error) {
	record := Record{
		ID:        uuid.NewString(),
		CallerID:  callerID,
		FileName:  meta.FileName,
		FileSize:  meta.FileSize,
		CreatedAt: time.Now().UTC(),
		Analysis:  result,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}

	objectName := objectNameFor(callerID, record.ID)
	_, err = s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload record: %w", err)
	}

	return record.ID, nil
}

// List returns the caller's records, newest first
func (s *MinioStore) List(ctx context.Context, callerID string) ([]Record, error) {
	prefix := sanitizeID(callerID) + "/"
	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	records := []Record{}
	for object := range objects {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list records: %w", object.Err)
		}
		record, err := s.readObject(ctx, object.Key)
		if err != nil {
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
func (s *MinioStore) Get(ctx context.Context, callerID, recordID string) (*Record, error) {
	record, err := s.readObject(ctx, objectNameFor(callerID, recordID))
	if err != nil {
		var resp minio.ErrorResponse
		if errors.As(err, &resp) && resp.Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return record, nil
}

func (s *MinioStore) readObject(ctx context.Context, objectName string) (*Record, error) {
	object, err := s.client.GetObject(ctx, s.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch record: %w", err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, err
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode record %s: %w", objectName, err)
	}
	return &record, nil
}

func objectNameFor(callerID, recordID string) string {
	return sanitizeID(callerID) + "/" + sanitizeID(recordID) + ".json"
}
