package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
)

// LocalUserID owns every record of the on-device store.
const LocalUserID = "local"

var (
	_ domain.EntryTypeRepository     = (*LocalEntryTypeRepository)(nil)
	_ domain.EntryInstanceRepository = (*LocalEntryRepository)(nil)
)

// collections reads and rewrites the two JSON collections. Each mutation
// loads a collection, changes it in memory and writes the whole value back.
type collections struct {
	store *Store
	loc   *time.Location
	mu    sync.Mutex
}

func (c *collections) loadTypes(ctx context.Context) ([]domain.EntryType, error) {
	raw, ok, err := c.store.Get(ctx, KeyEntryTypes)
	if err != nil || !ok {
		return []domain.EntryType{}, err
	}
	var types []domain.EntryType
	if err := json.Unmarshal(raw, &types); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", KeyEntryTypes, err)
	}
	return types, nil
}

func (c *collections) saveTypes(ctx context.Context, types []domain.EntryType) error {
	raw, err := json.Marshal(types)
	if err != nil {
		return err
	}
	return c.store.Put(ctx, KeyEntryTypes, raw)
}

func (c *collections) loadInstances(ctx context.Context) (domain.EntryInstancesMap, error) {
	raw, ok, err := c.store.Get(ctx, KeyEntryInstances)
	if err != nil || !ok {
		return domain.EntryInstancesMap{}, err
	}
	m := domain.EntryInstancesMap{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", KeyEntryInstances, err)
	}
	return m, nil
}

func (c *collections) saveInstances(ctx context.Context, m domain.EntryInstancesMap) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return c.store.Put(ctx, KeyEntryInstances, raw)
}

// mutateInstances rewrites the instance map through fn and regroups it, so
// every instance stays under the day it was created on.
func (c *collections) mutateInstances(ctx context.Context, fn func([]*domain.EntryInstance) ([]*domain.EntryInstance, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, err := c.loadInstances(ctx)
	if err != nil {
		return err
	}
	list, err := fn(m.Flatten())
	if err != nil {
		return err
	}
	return c.saveInstances(ctx, domain.GroupByDate(list, c.loc))
}

type LocalEntryTypeRepository struct {
	c *collections
}

type LocalEntryRepository struct {
	c *collections
}

// NewLocalRepositories returns the entry type and entry repositories over the
// same store. loc decides which day an instance is filed under.
func NewLocalRepositories(store *Store, loc *time.Location) (*LocalEntryTypeRepository, *LocalEntryRepository) {
	if loc == nil {
		loc = time.Local
	}
	c := &collections{store: store, loc: loc}
	return &LocalEntryTypeRepository{c: c}, &LocalEntryRepository{c: c}
}

func (r *LocalEntryTypeRepository) Create(ctx context.Context, t *domain.EntryType) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	types, err := r.c.loadTypes(ctx)
	if err != nil {
		return err
	}
	for _, existing := range types {
		if existing.ID == t.ID {
			return domain.ErrEntryTypeExists
		}
	}

	stored := *t
	stored.UserID = ""
	return r.c.saveTypes(ctx, append(types, stored))
}

func (r *LocalEntryTypeRepository) GetByID(ctx context.Context, userID, id string) (*domain.EntryType, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	types, err := r.c.loadTypes(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range types {
		if t.ID == id {
			t.UserID = userID
			return &t, nil
		}
	}
	return nil, domain.ErrEntryTypeNotFound
}

func (r *LocalEntryTypeRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.EntryType, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	types, err := r.c.loadTypes(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.EntryType, 0, len(types))
	for i := range types {
		t := types[i]
		t.UserID = userID
		out = append(out, &t)
	}
	return out, nil
}

func (r *LocalEntryTypeRepository) Update(ctx context.Context, oldID string, t *domain.EntryType) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	types, err := r.c.loadTypes(ctx)
	if err != nil {
		return err
	}

	idx := -1
	for i, existing := range types {
		if existing.ID == oldID {
			idx = i
		} else if existing.ID == t.ID {
			return domain.ErrEntryTypeExists
		}
	}
	if idx < 0 {
		return domain.ErrEntryTypeNotFound
	}

	types[idx] = *t
	types[idx].UserID = ""
	return r.c.saveTypes(ctx, types)
}

func (r *LocalEntryTypeRepository) Delete(ctx context.Context, userID, id string) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	types, err := r.c.loadTypes(ctx)
	if err != nil {
		return err
	}
	for i, t := range types {
		if t.ID == id {
			return r.c.saveTypes(ctx, append(types[:i], types[i+1:]...))
		}
	}
	return domain.ErrEntryTypeNotFound
}

func (r *LocalEntryRepository) Create(ctx context.Context, e *domain.EntryInstance) error {
	return r.c.mutateInstances(ctx, func(list []*domain.EntryInstance) ([]*domain.EntryInstance, error) {
		for _, existing := range list {
			if existing.ID == e.ID {
				return nil, domain.ErrEntryConflict
			}
		}
		stored := *e
		stored.UserID = ""
		return append(list, &stored), nil
	})
}

func (r *LocalEntryRepository) Update(ctx context.Context, e *domain.EntryInstance) error {
	return r.c.mutateInstances(ctx, func(list []*domain.EntryInstance) ([]*domain.EntryInstance, error) {
		for i, existing := range list {
			if existing.ID != e.ID {
				continue
			}
			if existing.Version != e.Version-1 {
				return nil, domain.ErrEntryConflict
			}
			stored := *e
			stored.UserID = ""
			list[i] = &stored
			return list, nil
		}
		return nil, domain.ErrEntryNotFound
	})
}

func (r *LocalEntryRepository) Delete(ctx context.Context, id string, userID string) error {
	return r.c.mutateInstances(ctx, func(list []*domain.EntryInstance) ([]*domain.EntryInstance, error) {
		for i, existing := range list {
			if existing.ID == id {
				return append(list[:i], list[i+1:]...), nil
			}
		}
		return nil, domain.ErrEntryNotFound
	})
}

func (r *LocalEntryRepository) GetByID(ctx context.Context, id string) (*domain.EntryInstance, error) {
	list, err := r.ListByUserID(ctx, LocalUserID)
	if err != nil {
		return nil, err
	}
	for _, e := range list {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, domain.ErrEntryNotFound
}

func (r *LocalEntryRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.EntryInstance, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	m, err := r.c.loadInstances(ctx)
	if err != nil {
		return nil, err
	}
	list := m.Flatten()
	for _, e := range list {
		e.UserID = userID
	}
	return list, nil
}

func (r *LocalEntryRepository) ReassignType(ctx context.Context, userID, oldTypeID, newTypeID string) error {
	return r.c.mutateInstances(ctx, func(list []*domain.EntryInstance) ([]*domain.EntryInstance, error) {
		for _, e := range list {
			if e.EntryTypeID == oldTypeID {
				e.EntryTypeID = newTypeID
			}
		}
		return list, nil
	})
}

func (r *LocalEntryRepository) DeleteByType(ctx context.Context, userID, typeID string) error {
	return r.c.mutateInstances(ctx, func(list []*domain.EntryInstance) ([]*domain.EntryInstance, error) {
		kept := list[:0]
		for _, e := range list {
			if e.EntryTypeID != typeID {
				kept = append(kept, e)
			}
		}
		return kept, nil
	})
}

// GetChanges has no tombstones to report: the local store deletes in place.
func (r *LocalEntryRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.EntryInstance, error) {
	list, err := r.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	changes := []*domain.EntryInstance{}
	for _, e := range list {
		if e.UpdatedAt.After(since) {
			changes = append(changes, e)
		}
	}
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].UpdatedAt.Before(changes[j].UpdatedAt)
	})
	return changes, nil
}
