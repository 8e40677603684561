package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
)

var _ domain.EntryInstanceRepository = (*PostgresEntryRepository)(nil)

type PostgresEntryRepository struct {
	db *sqlx.DB
}

func NewPostgresEntryRepository(db *sqlx.DB) *PostgresEntryRepository {
	return &PostgresEntryRepository{db: db}
}

const entryColumns = `id, user_id, entry_type_id, points, notes, version, created_at, updated_at, deleted_at`

func (r *PostgresEntryRepository) Create(ctx context.Context, entry *domain.EntryInstance) error {
	query := `
		INSERT INTO entry_instances (` + entryColumns + `)
		VALUES (
			:id, :user_id, :entry_type_id, :points, :notes,
			:version, :created_at, :updated_at, :deleted_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		switch pgCode(err) {
		case codeForeignKeyViolation:
			return domain.ErrUserNotFound
		case codeUniqueViolation:
			return domain.ErrEntryConflict
		}
		return err
	}
	return nil
}

func (r *PostgresEntryRepository) GetByID(ctx context.Context, id string) (*domain.EntryInstance, error) {
	query := `SELECT ` + entryColumns + ` FROM entry_instances WHERE id = $1 AND deleted_at IS NULL`

	var entry domain.EntryInstance
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *PostgresEntryRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.EntryInstance, error) {
	entries := []*domain.EntryInstance{}

	query := `
		SELECT ` + entryColumns + ` FROM entry_instances
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC`

	if err := r.db.SelectContext(ctx, &entries, query, userID); err != nil {
		return nil, err
	}
	return entries, nil
}

// Update expects entry.Version to already hold the new version and only
// succeeds when the stored row is exactly one version behind.
func (r *PostgresEntryRepository) Update(ctx context.Context, entry *domain.EntryInstance) error {
	query := `
		UPDATE entry_instances
		SET points = :points,
		    notes = :notes,
		    version = :version,
		    updated_at = :updated_at
		WHERE id = :id
		  AND user_id = :user_id
		  AND version = :version - 1
		  AND deleted_at IS NULL`

	result, err := r.db.NamedExecContext(ctx, query, entry)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		exists, _ := r.exists(ctx, entry.ID)
		if !exists {
			return domain.ErrEntryNotFound
		}
		return domain.ErrEntryConflict
	}

	return nil
}

func (r *PostgresEntryRepository) Delete(ctx context.Context, id string, userID string) error {
	query := `
		UPDATE entry_instances
		SET deleted_at = $1,
		    updated_at = $1,
		    version = version + 1
		WHERE id = $2
		  AND user_id = $3
		  AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

func (r *PostgresEntryRepository) ReassignType(ctx context.Context, userID, oldTypeID, newTypeID string) error {
	query := `
		UPDATE entry_instances
		SET entry_type_id = $1,
		    updated_at = $2,
		    version = version + 1
		WHERE user_id = $3 AND entry_type_id = $4 AND deleted_at IS NULL`

	if _, err := r.db.ExecContext(ctx, query, newTypeID, time.Now().UTC(), userID, oldTypeID); err != nil {
		return fmt.Errorf("reassign query failed: %w", err)
	}
	return nil
}

// DeleteByType soft deletes so the removal reaches clients through GetChanges.
func (r *PostgresEntryRepository) DeleteByType(ctx context.Context, userID, typeID string) error {
	query := `
		UPDATE entry_instances
		SET deleted_at = $1,
		    updated_at = $1,
		    version = version + 1
		WHERE user_id = $2 AND entry_type_id = $3 AND deleted_at IS NULL`

	if _, err := r.db.ExecContext(ctx, query, time.Now().UTC(), userID, typeID); err != nil {
		return fmt.Errorf("delete by type query failed: %w", err)
	}
	return nil
}

func (r *PostgresEntryRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.EntryInstance, error) {
	entries := []*domain.EntryInstance{}

	query := `
		SELECT ` + entryColumns + ` FROM entry_instances
		WHERE user_id = $1
		  AND updated_at > $2
		ORDER BY updated_at ASC`

	if err := r.db.SelectContext(ctx, &entries, query, userID, since); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *PostgresEntryRepository) exists(ctx context.Context, id string) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, "SELECT count(*) FROM entry_instances WHERE id = $1", id)
	return count > 0, err
}
