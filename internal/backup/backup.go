// Package backup writes encrypted snapshots of a sync space to S3-compatible
// storage and restores them.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dukerupert/kinobi/internal/instance"
	"github.com/dukerupert/kinobi/internal/model"
	"github.com/dukerupert/kinobi/internal/store"
)

// ErrNotConfigured is returned by every operation when no bucket or
// credentials were configured.
var ErrNotConfigured = errors.New("backup not configured: S3 bucket or credentials missing")

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, input *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Config holds S3-compatible storage configuration.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

func (c S3Config) enabled() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// Snapshot describes one stored object.
type Snapshot struct {
	Key       string    `json:"key"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Manager snapshots instances from an InstanceStore.
type Manager struct {
	bucket string
	client s3Client
	store  store.InstanceStore
	logger *slog.Logger
	now    func() time.Time
}

// NewManager returns a Manager. With an incomplete S3Config the manager is
// disabled and every call returns ErrNotConfigured.
func NewManager(cfg S3Config, st store.InstanceStore, logger *slog.Logger) *Manager {
	m := &Manager{
		bucket: cfg.Bucket,
		store:  st,
		logger: logger,
		now:    time.Now,
	}
	if cfg.enabled() {
		m.client = newS3Client(cfg)
	}
	return m
}

func newS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Enabled reports whether S3 storage is configured.
func (m *Manager) Enabled() bool {
	return m.client != nil
}

// Snapshot encrypts the current state of syncID and uploads it.
func (m *Manager) Snapshot(ctx context.Context, syncID, passphrase string) (Snapshot, error) {
	if m.client == nil {
		return Snapshot{}, ErrNotConfigured
	}
	if passphrase == "" {
		return Snapshot{}, fmt.Errorf("passphrase is required")
	}

	inst, err := m.store.Load(ctx, syncID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load instance: %w", err)
	}
	plaintext, err := json.Marshal(inst)
	if err != nil {
		return Snapshot{}, fmt.Errorf("marshal instance: %w", err)
	}
	sealed, err := Encrypt(plaintext, passphrase)
	if err != nil {
		return Snapshot{}, fmt.Errorf("encrypt: %w", err)
	}

	now := m.now().UTC()
	key := fmt.Sprintf("%s/snapshot-%s.json.enc", syncID, now.Format("2006-01-02T150405Z"))

	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(m.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(sealed),
		ContentLength: aws.Int64(int64(len(sealed))),
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("upload to s3: %w", err)
	}

	m.logger.Info("snapshot uploaded", "sync_id", syncID, "key", key, "bytes", len(sealed))
	return Snapshot{Key: key, Size: int64(len(sealed)), CreatedAt: now}, nil
}

// Restore downloads the snapshot at key, decrypts it and replaces the whole
// instance of syncID with it. The key must belong to syncID.
func (m *Manager) Restore(ctx context.Context, syncID, key, passphrase string) (*model.Instance, error) {
	if m.client == nil {
		return nil, ErrNotConfigured
	}
	if !strings.HasPrefix(key, syncID+"/") {
		return nil, fmt.Errorf("snapshot %q does not belong to this sync space", key)
	}

	result, err := m.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("download from s3: %w", err)
	}
	defer result.Body.Close()

	sealed, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	plaintext, err := Decrypt(sealed, passphrase)
	if err != nil {
		return nil, err
	}

	var inst model.Instance
	if err := json.Unmarshal(plaintext, &inst); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	instance.Normalize(&inst)

	if err := m.store.Save(ctx, syncID, &inst); err != nil {
		return nil, fmt.Errorf("save restored instance: %w", err)
	}

	m.logger.Info("snapshot restored", "sync_id", syncID, "key", key)
	return &inst, nil
}

// List returns the snapshots of syncID, newest first.
func (m *Manager) List(ctx context.Context, syncID string) ([]Snapshot, error) {
	if m.client == nil {
		return nil, ErrNotConfigured
	}

	snapshots := make([]Snapshot, 0)
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(m.bucket),
		Prefix: aws.String(syncID + "/"),
	}
	for {
		out, err := m.client.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("list s3 objects: %w", err)
		}
		for _, obj := range out.Contents {
			s := Snapshot{Key: aws.ToString(obj.Key), Size: aws.ToInt64(obj.Size)}
			if obj.LastModified != nil {
				s.CreatedAt = obj.LastModified.UTC()
			}
			snapshots = append(snapshots, s)
		}
		if !aws.ToBool(out.IsTruncated) || out.NextContinuationToken == nil {
			break
		}
		input.ContinuationToken = out.NextContinuationToken
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].CreatedAt.After(snapshots[j].CreatedAt)
	})
	return snapshots, nil
}

// Cleanup deletes snapshots of syncID older than the retention period and
// returns how many were removed. Individual delete failures are logged.
func (m *Manager) Cleanup(ctx context.Context, syncID string, retentionDays int) (int, error) {
	if m.client == nil {
		return 0, ErrNotConfigured
	}
	if retentionDays <= 0 {
		retentionDays = 30
	}

	snapshots, err := m.List(ctx, syncID)
	if err != nil {
		return 0, err
	}

	before := m.now().UTC().AddDate(0, 0, -retentionDays)
	removed := 0
	for _, s := range snapshots {
		if !s.CreatedAt.Before(before) {
			continue
		}
		if _, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(m.bucket),
			Key:    aws.String(s.Key),
		}); err != nil {
			m.logger.Warn("failed to delete snapshot", "key", s.Key, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}
