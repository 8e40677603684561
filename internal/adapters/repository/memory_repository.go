package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
)

// The in-memory repositories back the API when no database is configured and
// keep handler tests self-contained. Stored values are copies, so callers
// cannot mutate state behind the lock.

type InMemoryEntryTypeRepository struct {
	store map[string]map[string]domain.EntryType

	mu sync.RWMutex
}

func NewInMemoryEntryTypeRepository() *InMemoryEntryTypeRepository {
	return &InMemoryEntryTypeRepository{
		store: make(map[string]map[string]domain.EntryType),
	}
}

func (r *InMemoryEntryTypeRepository) Create(ctx context.Context, t *domain.EntryType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	catalog, ok := r.store[t.UserID]
	if !ok {
		catalog = make(map[string]domain.EntryType)
		r.store[t.UserID] = catalog
	}
	if _, exists := catalog[t.ID]; exists {
		return domain.ErrEntryTypeExists
	}
	catalog[t.ID] = *t
	return nil
}

func (r *InMemoryEntryTypeRepository) GetByID(ctx context.Context, userID, id string) (*domain.EntryType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.store[userID][id]
	if !ok {
		return nil, domain.ErrEntryTypeNotFound
	}
	return &t, nil
}

func (r *InMemoryEntryTypeRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.EntryType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]*domain.EntryType, 0, len(r.store[userID]))
	for _, t := range r.store[userID] {
		t := t
		types = append(types, &t)
	}

	sort.Slice(types, func(i, j int) bool {
		if types[i].CreatedAt.Equal(types[j].CreatedAt) {
			return types[i].ID < types[j].ID
		}
		return types[i].CreatedAt.Before(types[j].CreatedAt)
	})

	return types, nil
}

func (r *InMemoryEntryTypeRepository) Update(ctx context.Context, oldID string, t *domain.EntryType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	catalog := r.store[t.UserID]
	if _, ok := catalog[oldID]; !ok {
		return domain.ErrEntryTypeNotFound
	}
	if _, taken := catalog[t.ID]; taken && t.ID != oldID {
		return domain.ErrEntryTypeExists
	}

	delete(catalog, oldID)
	catalog[t.ID] = *t
	return nil
}

func (r *InMemoryEntryTypeRepository) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[userID][id]; !ok {
		return domain.ErrEntryTypeNotFound
	}
	delete(r.store[userID], id)
	return nil
}

type InMemoryEntryRepository struct {
	store map[string]domain.EntryInstance

	mu sync.RWMutex
}

func NewInMemoryEntryRepository() *InMemoryEntryRepository {
	return &InMemoryEntryRepository{
		store: make(map[string]domain.EntryInstance),
	}
}

func (r *InMemoryEntryRepository) Create(ctx context.Context, e *domain.EntryInstance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[e.ID]; exists {
		return domain.ErrEntryConflict
	}
	r.store[e.ID] = *e
	return nil
}

func (r *InMemoryEntryRepository) GetByID(ctx context.Context, id string) (*domain.EntryInstance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.store[id]
	if !ok || e.DeletedAt != nil {
		return nil, domain.ErrEntryNotFound
	}
	return &e, nil
}

func (r *InMemoryEntryRepository) Update(ctx context.Context, e *domain.EntryInstance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.store[e.ID]
	if !ok || stored.DeletedAt != nil || stored.UserID != e.UserID {
		return domain.ErrEntryNotFound
	}
	if stored.Version != e.Version-1 {
		return domain.ErrEntryConflict
	}

	r.store[e.ID] = *e
	return nil
}

func (r *InMemoryEntryRepository) Delete(ctx context.Context, id string, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.store[id]
	if !ok || stored.DeletedAt != nil || stored.UserID != userID {
		return domain.ErrEntryNotFound
	}

	r.tombstone(&stored)
	r.store[id] = stored
	return nil
}

func (r *InMemoryEntryRepository) tombstone(e *domain.EntryInstance) {
	now := time.Now().UTC()
	e.DeletedAt = &now
	e.UpdatedAt = now
	e.Version++
}

func (r *InMemoryEntryRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.EntryInstance, error) {
	return r.filter(userID, func(e domain.EntryInstance) bool { return e.DeletedAt == nil }), nil
}

func (r *InMemoryEntryRepository) ReassignType(ctx context.Context, userID, oldTypeID, newTypeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for id, e := range r.store {
		if e.UserID == userID && e.EntryTypeID == oldTypeID && e.DeletedAt == nil {
			e.EntryTypeID = newTypeID
			e.UpdatedAt = now
			e.Version++
			r.store[id] = e
		}
	}
	return nil
}

func (r *InMemoryEntryRepository) DeleteByType(ctx context.Context, userID, typeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, e := range r.store {
		if e.UserID == userID && e.EntryTypeID == typeID && e.DeletedAt == nil {
			r.tombstone(&e)
			r.store[id] = e
		}
	}
	return nil
}

func (r *InMemoryEntryRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.EntryInstance, error) {
	changes := r.filter(userID, func(e domain.EntryInstance) bool { return e.UpdatedAt.After(since) })
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].UpdatedAt.Before(changes[j].UpdatedAt)
	})
	return changes, nil
}

func (r *InMemoryEntryRepository) filter(userID string, keep func(domain.EntryInstance) bool) []*domain.EntryInstance {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.EntryInstance{}
	for _, e := range r.store {
		if e.UserID == userID && keep(e) {
			e := e
			out = append(out, &e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

type InMemoryUserRepository struct {
	byID map[string]domain.User

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		byID: make(map[string]domain.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.byID[u.ID] = *u
	return nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

type InMemoryBackupRepository struct {
	store map[string]domain.Backup

	mu sync.RWMutex
}

func NewInMemoryBackupRepository() *InMemoryBackupRepository {
	return &InMemoryBackupRepository{
		store: make(map[string]domain.Backup),
	}
}

func (r *InMemoryBackupRepository) Create(ctx context.Context, b *domain.Backup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[b.ID] = *b
	return nil
}

func (r *InMemoryBackupRepository) GetByID(ctx context.Context, userID, id string) (*domain.Backup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.store[id]
	if !ok || b.UserID != userID {
		return nil, domain.ErrBackupNotFound
	}
	return &b, nil
}

func (r *InMemoryBackupRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Backup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	backups := []*domain.Backup{}
	for _, b := range r.store {
		if b.UserID == userID {
			b := b
			b.Content = nil
			backups = append(backups, &b)
		}
	}
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}
