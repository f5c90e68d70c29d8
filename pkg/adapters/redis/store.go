// Package redis provides a Redis-backed ports.RunStore for sharing run
// records across processes. Records are stored as JSON values with an
// optional TTL.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/railyard/shunt/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

const defaultPrefix = "shunt:run:"

// Store implements ports.RunStore on top of a Redis client.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets an expiry on stored run records. Zero (the default) keeps
// records until deleted.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// WithPrefix overrides the key prefix used for run records.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// NewFromClient creates a store on an existing Redis client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: defaultPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save persists the record as a JSON value.
func (s *Store) Save(ctx context.Context, record *domain.RunRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}
	if err := s.client.Set(ctx, s.key(record.RunID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis error saving run %s: %w", record.RunID, err)
	}
	return nil
}

// Load retrieves and decodes a record.
func (s *Store) Load(ctx context.Context, runID string) (*domain.RunRecord, error) {
	data, err := s.client.Get(ctx, s.key(runID)).Bytes()
	if errors.Is(err, backend.Nil) {
		return nil, domain.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis error loading run %s: %w", runID, err)
	}

	var record domain.RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run record %s: %w", runID, err)
	}
	return &record, nil
}

// Delete removes a record. Missing keys are not an error.
func (s *Store) Delete(ctx context.Context, runID string) error {
	if err := s.client.Del(ctx, s.key(runID)).Err(); err != nil {
		return fmt.Errorf("redis error deleting run %s: %w", runID, err)
	}
	return nil
}

// List scans for all stored run IDs under the store prefix.
func (s *Store) List(ctx context.Context) ([]string, error) {
	var ids []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis error listing runs: %w", err)
	}
	return ids, nil
}

func (s *Store) key(runID string) string {
	return s.prefix + runID
}
