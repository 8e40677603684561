package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrEntryTypeNotFound = errors.New("entry type not found")
	ErrEntryTypeExists   = errors.New("an entry type with this title already exists")
)

type EntryTypeRepository interface {
	// Create persists a new entry type. Ids are unique per user.
	Create(ctx context.Context, entryType *EntryType) error

	// GetByID retrieves one entry type of a user.
	GetByID(ctx context.Context, userID, id string) (*EntryType, error)

	// ListByUserID retrieves the whole catalog of a user, oldest first.
	ListByUserID(ctx context.Context, userID string) ([]*EntryType, error)

	// Update stores the new state of the entry type previously known as oldID.
	// oldID differs from entryType.ID when the title change moved the slug.
	Update(ctx context.Context, oldID string, entryType *EntryType) error

	// Delete permanently removes an entry type.
	Delete(ctx context.Context, userID, id string) error
}

type EntryInstanceRepository interface {
	// Create persists a new instance.
	Create(ctx context.Context, entry *EntryInstance) error

	// Update modifies an existing instance.
	// Implementations must check the version to reject stale writes.
	Update(ctx context.Context, entry *EntryInstance) error

	// Delete removes an instance owned by userID.
	Delete(ctx context.Context, id string, userID string) error

	// GetByID retrieves a single active instance.
	GetByID(ctx context.Context, id string) (*EntryInstance, error)

	// ListByUserID retrieves every active instance of a user.
	ListByUserID(ctx context.Context, userID string) ([]*EntryInstance, error)

	// ReassignType moves every instance from oldTypeID to newTypeID.
	ReassignType(ctx context.Context, userID, oldTypeID, newTypeID string) error

	// DeleteByType removes every instance referencing typeID.
	DeleteByType(ctx context.Context, userID, typeID string) error

	// GetChanges returns creations, updates and deletions after since.
	GetChanges(ctx context.Context, userID string, since time.Time) ([]*EntryInstance, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

type BackupRepository interface {
	// Create stores a backup blob.
	Create(ctx context.Context, backup *Backup) error

	// GetByID retrieves a backup owned by userID.
	GetByID(ctx context.Context, userID, id string) (*Backup, error)

	// ListByUserID returns the user's backups, newest first.
	ListByUserID(ctx context.Context, userID string) ([]*Backup, error)
}
