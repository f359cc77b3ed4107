// Package progress persists the set of completed lessons for each unit.
package progress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/synapse/internal/logger"
	"github.com/abhisek/synapse/internal/store"
)

// KeyPrefix namespaces per-unit progress records.
const KeyPrefix = "progress_"

// ErrStorageUnavailable wraps read and write failures of the backing store.
var ErrStorageUnavailable = errors.New("progress storage unavailable")

// Key returns the record key for unitKey.
func Key(unitKey string) string {
	return KeyPrefix + unitKey
}

// Store reads and writes progress records.
type Store struct {
	kv  store.KV
	log *logger.Logger
}

// NewStore creates a Store over kv. A nil log discards output.
func NewStore(kv store.KV, log *logger.Logger) *Store {
	if log == nil {
		log = logger.NewNop()
	}
	return &Store{kv: kv, log: log}
}

// Load returns the completed set for unitKey. Missing, corrupt and
// unreadable records all yield an empty set.
func (s *Store) Load(ctx context.Context, unitKey string) Set {
	raw, ok, err := s.kv.Get(ctx, Key(unitKey))
	if err != nil {
		s.log.Warn("progress read failed", "unit", unitKey, "error", err)
		return Set{}
	}
	if !ok {
		return Set{}
	}

	set, err := Decode(raw)
	if err != nil {
		s.log.Debug("discarding corrupt progress record", "unit", unitKey, "error", err)
		return Set{}
	}
	return set
}

// Save overwrites the record for unitKey with the complete set.
func (s *Store) Save(ctx context.Context, unitKey string, set Set) error {
	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	if err := s.kv.Set(ctx, Key(unitKey), string(data)); err != nil {
		return fmt.Errorf("%w: save %s: %v", ErrStorageUnavailable, unitKey, err)
	}
	return nil
}

// Clear removes the record for unitKey.
func (s *Store) Clear(ctx context.Context, unitKey string) error {
	if err := s.kv.Delete(ctx, Key(unitKey)); err != nil {
		return fmt.Errorf("%w: clear %s: %v", ErrStorageUnavailable, unitKey, err)
	}
	return nil
}

// Snapshot loads the sets for every unit key given.
func (s *Store) Snapshot(ctx context.Context, unitKeys []string) map[string]Set {
	out := make(map[string]Set, len(unitKeys))
	for _, k := range unitKeys {
		out[k] = s.Load(ctx, k)
	}
	return out
}

// StoredUnits lists unit keys that currently have a record.
func (s *Store) StoredUnits(ctx context.Context) ([]string, error) {
	keys, err := s.kv.Keys(ctx, KeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	units := make([]string, 0, len(keys))
	for _, k := range keys {
		units = append(units, strings.TrimPrefix(k, KeyPrefix))
	}
	return units, nil
}

// Decode parses a JSON array of non-negative integers. Duplicates collapse.
func Decode(raw string) (Set, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()

	var items []interface{}
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("not a JSON array: %w", err)
	}
	if items == nil {
		return nil, errors.New("not a JSON array: null")
	}
	if err := dec.Decode(new(json.RawMessage)); err != io.EOF {
		return nil, errors.New("trailing data after JSON array")
	}

	set := make(Set, len(items))
	for _, item := range items {
		n, ok := item.(json.Number)
		if !ok {
			return nil, fmt.Errorf("non-numeric entry %v", item)
		}
		i, err := n.Int64()
		if err != nil || i < 0 {
			return nil, fmt.Errorf("invalid lesson index %s", n)
		}
		set.Add(int(i))
	}
	return set, nil
}
