package store

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"invoicer/internal/logger"
)

// Insertion decides where new records go
type Insertion int

const (
	// Append keeps insertion order (products).
	Append Insertion = iota
	// Prepend keeps the newest record first (invoice history).
	Prepend
)

// Identity tells a RecordStore how to read and assign record identifiers.
// Clone, when set, deep-copies records handed out to callers.
type Identity[T any] struct {
	Get   func(T) string
	Set   func(*T, string)
	Clone func(T) T
}

// RecordStore is a durable collection of T kept as one JSON array under one key.
// Load must be called before use. Every mutation writes the whole collection; when
// the write fails the in-memory collection is left as it was.
type RecordStore[T any] struct {
	kv        KeyValue
	key       string
	insertion Insertion
	identity  Identity[T]
	newID     func() string

	records  []T
	warnings []Warning
	log      zerolog.Logger
}

// NewRecordStore creates a store for key. Identifiers are random UUIDs.
func NewRecordStore[T any](kv KeyValue, key string, insertion Insertion, identity Identity[T]) *RecordStore[T] {
	return &RecordStore[T]{
		kv:        kv,
		key:       key,
		insertion: insertion,
		identity:  identity,
		newID:     uuid.NewString,
		records:   []T{},
		log:       logger.WithStoreKey("record-store", key),
	}
}

// WithIDGenerator replaces the identifier generator
func (s *RecordStore[T]) WithIDGenerator(newID func() string) *RecordStore[T] {
	s.newID = newID
	return s
}

// Load reads the collection from the backend. A missing key yields an empty
// collection. Unparseable data also yields an empty collection and records a
// Warning; only backend I/O failures are returned as errors.
func (s *RecordStore[T]) Load(ctx context.Context) error {
	const op = "Load"

	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return newStoreError(op, s.key, err)
	}
	if !ok {
		s.records = []T{}
		s.log.Debug().Msg("No stored collection, starting empty")
		return nil
	}

	var records []T
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		s.records = []T{}
		s.warn("stored collection is corrupt, using an empty collection", err)
		return nil
	}
	if records == nil {
		records = []T{}
	}

	s.records = records
	s.log.Debug().Int("records", len(records)).Msg("Loaded collection")
	return nil
}

// List returns a copy of the collection in stored order
func (s *RecordStore[T]) List() []T {
	out := make([]T, len(s.records))
	for i, r := range s.records {
		out[i] = s.clone(r)
	}
	return out
}

// Len returns the number of records
func (s *RecordStore[T]) Len() int {
	return len(s.records)
}

// Get returns the record with the given identifier
func (s *RecordStore[T]) Get(id string) (T, bool) {
	if i := s.index(id); i >= 0 {
		return s.clone(s.records[i]), true
	}
	var zero T
	return zero, false
}

// Insert assigns a fresh identifier when the record has none, adds it according
// to the insertion policy, persists the collection and returns the stored record.
func (s *RecordStore[T]) Insert(ctx context.Context, record T) (T, error) {
	const op = "Insert"

	if s.identity.Get(record) == "" {
		s.identity.Set(&record, s.newID())
	}

	updated := make([]T, 0, len(s.records)+1)
	if s.insertion == Prepend {
		updated = append(updated, record)
		updated = append(updated, s.records...)
	} else {
		updated = append(updated, s.records...)
		updated = append(updated, record)
	}

	if err := s.persist(ctx, updated); err != nil {
		var zero T
		return zero, newStoreError(op, s.key, err)
	}

	s.log.Debug().Str("id", s.identity.Get(record)).Int("records", len(updated)).Msg("Inserted record")
	return s.clone(record), nil
}

// Update applies fn to the record with the given identifier and persists the
// collection. Unknown identifiers are a no-op; found reports whether a record matched.
func (s *RecordStore[T]) Update(ctx context.Context, id string, fn func(*T)) (found bool, err error) {
	const op = "Update"

	i := s.index(id)
	if i < 0 {
		s.log.Debug().Str("id", id).Msg("Update of unknown record ignored")
		return false, nil
	}

	updated := s.List()
	fn(&updated[i])
	// the identifier is not part of the editable fields
	s.identity.Set(&updated[i], id)

	if err := s.persist(ctx, updated); err != nil {
		return true, newStoreError(op, s.key, err)
	}

	s.log.Debug().Str("id", id).Msg("Updated record")
	return true, nil
}

// Remove drops the record with the given identifier and persists the collection.
// Removing an unknown identifier is a no-op, so Remove is idempotent.
func (s *RecordStore[T]) Remove(ctx context.Context, id string) error {
	const op = "Remove"

	if s.index(id) < 0 {
		s.log.Debug().Str("id", id).Msg("Remove of unknown record ignored")
		return nil
	}

	updated := make([]T, 0, len(s.records))
	for _, r := range s.records {
		if s.identity.Get(r) != id {
			updated = append(updated, r)
		}
	}

	if err := s.persist(ctx, updated); err != nil {
		return newStoreError(op, s.key, err)
	}

	s.log.Debug().Str("id", id).Int("records", len(updated)).Msg("Removed record")
	return nil
}

// Warnings returns the problems recovered from since the store was created
func (s *RecordStore[T]) Warnings() []Warning {
	out := make([]Warning, len(s.warnings))
	copy(out, s.warnings)
	return out
}

// Corrupt reports whether a Load had to discard unparseable data
func (s *RecordStore[T]) Corrupt() bool {
	return len(s.warnings) > 0
}

func (s *RecordStore[T]) persist(ctx context.Context, records []T) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return err
	}
	if err := s.kv.Set(ctx, s.key, string(bytes.TrimRight(buf.Bytes(), "\n"))); err != nil {
		return err
	}
	s.records = records
	return nil
}

func (s *RecordStore[T]) clone(record T) T {
	if s.identity.Clone == nil {
		return record
	}
	return s.identity.Clone(record)
}

func (s *RecordStore[T]) index(id string) int {
	for i, r := range s.records {
		if s.identity.Get(r) == id {
			return i
		}
	}
	return -1
}

func (s *RecordStore[T]) warn(message string, err error) {
	s.warnings = append(s.warnings, Warning{Key: s.key, Message: message, Err: err})
	s.log.Warn().Err(err).Msg(message)
}
