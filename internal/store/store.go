// Package store persists person records and reconciles incoming sheet data
// with previously saved history instead of overwriting it.
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/codec"
	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/domain"
	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/normalize"
	"github.com/1Lorenzo0/exercise-sheet-to-graph/internal/observability"
)

// ErrNoRecord is returned by a RecordStore when no durable unit exists for
// the key. An empty unit counts as absent.
var ErrNoRecord = errors.New("no record for key")

// RecordStore is the key-value abstraction behind the merge algorithm. Any
// backing medium can sit behind it as long as Put replaces the record
// atomically with respect to concurrent Gets.
type RecordStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Exists(ctx context.Context, key string) (bool, error)
}

// StorageError reports a failed read, write, or replace on the backing medium.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Option configures optional behaviour for the MergeStore.
type Option func(*MergeStore)

// WithLogger overrides the logger used to report merges and failures.
func WithLogger(logger *log.Logger) Option {
	return func(s *MergeStore) {
		s.logger = logger
	}
}

// MergeStore owns the per-person records. Each save runs load-merge-persist
// as a critical section under a mutex scoped to that person's storage key, so
// saves for the same person serialize while different people proceed in
// parallel.
type MergeStore struct {
	backend RecordStore
	codec   codec.Codec
	logger  *log.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New constructs a MergeStore over the given backend and codec.
func New(backend RecordStore, c codec.Codec, opts ...Option) *MergeStore {
	s := &MergeStore{
		backend: backend,
		codec:   c,
		logger:  log.New(log.Writer(), "[store] ", log.LstdFlags),
		locks:   make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// keyLock returns the mutex guarding the given storage key, creating it on
// first use. Key mutexes are never removed; the key space is one entry per
// person and stays small.
func (s *MergeStore) keyLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// Save merges the incoming person into the stored record for the same
// normalized name and persists the result. Volumes for an already-known
// exercise are appended after the existing ones; unknown exercises are added.
// Nothing previously stored is altered or removed.
//
// The store cannot tell a resubmitted volume from a genuinely new one, so
// callers must not resubmit volumes that were already merged.
func (s *MergeStore) Save(ctx context.Context, person domain.Person) error {
	if person.Name == "" {
		return domain.NewInputError("name", "must not be empty")
	}
	if err := person.Validate(); err != nil {
		return err
	}

	key := normalize.Key(person.Name)
	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	merged := false
	existing, err := s.load(ctx, key)
	switch {
	case err == nil:
		merged = true
		s.logger.Printf("merging sheet for %q into existing record", person.Name)
	case errors.Is(err, domain.ErrPersonNotFound):
		// First record for this person. Merging into an empty record still
		// collapses duplicate exercise names within the incoming sheet.
		existing = domain.Person{Name: person.Name}
	default:
		return err
	}
	mergeInto(&existing, person)
	toSave := existing

	data, err := s.codec.Encode(toSave)
	if err != nil {
		return err
	}
	if err := s.backend.Put(ctx, key, data); err != nil {
		return &StorageError{Op: "put", Key: key, Err: err}
	}
	observability.RecordSaved(merged, time.Now().UTC())
	return nil
}

// Load returns the stored record for the named person. It reports
// domain.ErrPersonNotFound when no record exists and a domain.ErrDecode wrap
// when a record exists but cannot be decoded or fails validation.
func (s *MergeStore) Load(ctx context.Context, name string) (domain.Person, error) {
	if name == "" {
		return domain.Person{}, domain.NewInputError("name", "must not be empty")
	}

	key := normalize.Key(name)
	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	return s.load(ctx, key)
}

// load reads and decodes the record for key. Callers must hold the key lock.
func (s *MergeStore) load(ctx context.Context, key string) (domain.Person, error) {
	data, err := s.backend.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return domain.Person{}, fmt.Errorf("key %q: %w", key, domain.ErrPersonNotFound)
		}
		return domain.Person{}, &StorageError{Op: "get", Key: key, Err: err}
	}
	if len(data) == 0 {
		return domain.Person{}, fmt.Errorf("key %q: %w", key, domain.ErrPersonNotFound)
	}
	return s.codec.Decode(data)
}

// mergeInto reconciles the incoming person into dst. Incoming volumes append
// to the name-matched exercise, preserving arrival order: existing volumes
// first, new ones after.
func mergeInto(dst *domain.Person, incoming domain.Person) {
	for _, exercise := range incoming.Exercises {
		if match := dst.FindExercise(exercise.Name, normalize.String); match != nil {
			match.Volumes = append(match.Volumes, exercise.Volumes...)
			if match.District == "" {
				match.District = exercise.District
			}
			continue
		}
		dst.Exercises = append(dst.Exercises, exercise)
	}
}
