// Package store checkpoints scenario sessions.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/curbz/rt-trainer/internal/state"
)

var ErrNotFound = errors.New("session not found")

// Record is one checkpointed session.
type Record struct {
	ID      string      `msgpack:"id"`
	Seed    uint32      `msgpack:"seed"`
	State   state.State `msgpack:"state"`
	Updated time.Time   `msgpack:"updated"`
}

type Store interface {
	Save(r Record) error
	Load(id string) (Record, error)
	Delete(id string) error
}

func checkID(id string) error {
	if err := uuid.Validate(id); err != nil {
		return fmt.Errorf("invalid session id %q: %w", id, err)
	}
	return nil
}

// FileStore keeps one zstd-compressed msgpack file per session.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".msgpack.zst")
}

// Save writes the record to a temporary file and renames it into place, so
// a reader never sees a partial checkpoint.
func (s *FileStore) Save(r Record) error {
	if err := checkID(r.ID); err != nil {
		return err
	}
	f, err := os.CreateTemp(s.dir, r.ID+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())
	defer f.Close()

	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	if err := msgpack.NewEncoder(zw).Encode(&r); err != nil {
		zw.Close()
		return fmt.Errorf("failed to encode session %s: %w", r.ID, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to close zstd writer: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), s.path(r.ID))
}

func (s *FileStore) Load(id string) (Record, error) {
	if err := checkID(id); err != nil {
		return Record{}, err
	}
	f, err := os.Open(s.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return Record{}, ErrNotFound
	} else if err != nil {
		return Record{}, err
	}
	defer f.Close()

	zr, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return Record{}, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer zr.Close()

	var r Record
	if err := msgpack.NewDecoder(zr).Decode(&r); err != nil {
		return Record{}, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	return r, nil
}

func (s *FileStore) Delete(id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	err := os.Remove(s.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	return err
}

// MemoryStore keeps records in process. Records are cloned on the way in
// and out.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) Save(r Record) error {
	if err := checkID(r.ID); err != nil {
		return err
	}
	r.State = r.State.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[r.ID] = r
	return nil
}

func (s *MemoryStore) Load(id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	r.State = r.State.Clone()
	return r, nil
}

func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	return nil
}
