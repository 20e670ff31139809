package server

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/curbz/rt-trainer/internal/scenario"
	"github.com/curbz/rt-trainer/internal/store"
)

// entry is one live session. mu serialises its turns.
type entry struct {
	mu      sync.Mutex
	id      string
	data    scenario.StatusData
	evicted bool
}

// registry keeps recently used sessions in memory and checkpoints the rest
// to a store.
type registry struct {
	mu    sync.Mutex // guards get-or-load against concurrent eviction
	cache *lru.Cache[string, *entry]
	store store.Store
	log   logrus.FieldLogger
}

func newRegistry(size int, st store.Store, log logrus.FieldLogger) (*registry, error) {
	r := &registry{store: st, log: log}
	cache, err := lru.NewWithEvict(size, r.evict)
	if err != nil {
		return nil, err
	}
	r.cache = cache
	return r, nil
}

func (r *registry) evict(id string, e *entry) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := r.save(e); err != nil {
		r.log.WithError(err).WithField("session", id).Error("failed to checkpoint evicted session")
	}
	e.evicted = true
}

func (r *registry) save(e *entry) error {
	return r.store.Save(store.Record{
		ID:      e.id,
		Seed:    e.data.Seed,
		State:   e.data.CurrentState,
		Updated: time.Now().UTC(),
	})
}

// create registers a new session and returns its id.
func (r *registry) create(data scenario.StatusData) string {
	e := &entry{id: uuid.NewString(), data: data}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Add(e.id, e)
	return e.id
}

// acquire returns the session locked for exclusive use. The caller must
// unlock it.
func (r *registry) acquire(id string) (*entry, error) {
	if uuid.Validate(id) != nil {
		return nil, store.ErrNotFound
	}
	for {
		e, err := r.lookup(id)
		if err != nil {
			return nil, err
		}
		e.mu.Lock()
		if !e.evicted {
			return e, nil
		}
		e.mu.Unlock()
	}
}

func (r *registry) lookup(id string) (*entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.cache.Get(id); ok {
		return e, nil
	}
	rec, err := r.store.Load(id)
	if err != nil {
		return nil, err
	}
	e := &entry{id: id, data: scenario.StatusData{Seed: rec.Seed, CurrentState: rec.State}}
	r.cache.Add(id, e)
	r.log.WithField("session", id).Debug("session reloaded from store")
	return e, nil
}

// flush checkpoints every live session.
func (r *registry) flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	for _, id := range r.cache.Keys() {
		e, ok := r.cache.Peek(id)
		if !ok {
			continue
		}
		e.mu.Lock()
		errs = append(errs, r.save(e))
		e.mu.Unlock()
	}
	return errors.Join(errs...)
}
