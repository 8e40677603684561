package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
)

var _ domain.BackupRepository = (*PostgresBackupRepository)(nil)

type PostgresBackupRepository struct {
	db *sqlx.DB
}

func NewPostgresBackupRepository(db *sqlx.DB) *PostgresBackupRepository {
	return &PostgresBackupRepository{db: db}
}

type backupRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Filename  string    `db:"filename"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row backupRow) toDomain() *domain.Backup {
	b := &domain.Backup{
		ID:        row.ID,
		UserID:    row.UserID,
		Filename:  row.Filename,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.Content != "" {
		b.Content = json.RawMessage(row.Content)
	}
	return b
}

func (r *PostgresBackupRepository) Create(ctx context.Context, b *domain.Backup) error {
	query := `
		INSERT INTO backups (id, user_id, filename, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query, b.ID, b.UserID, b.Filename, string(b.Content), b.CreatedAt, b.UpdatedAt)
	if err != nil {
		if pgCode(err) == codeForeignKeyViolation {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to insert backup: %w", err)
	}
	return nil
}

func (r *PostgresBackupRepository) GetByID(ctx context.Context, userID, id string) (*domain.Backup, error) {
	var row backupRow
	query := `SELECT id, user_id, filename, content, created_at, updated_at FROM backups WHERE user_id = $1 AND id = $2`

	if err := r.db.GetContext(ctx, &row, query, userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBackupNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

// ListByUserID leaves Content empty, listings only need the metadata.
func (r *PostgresBackupRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Backup, error) {
	var rows []backupRow
	query := `
		SELECT id, user_id, filename, '' AS content, created_at, updated_at
		FROM backups
		WHERE user_id = $1
		ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, err
	}

	backups := make([]*domain.Backup, 0, len(rows))
	for _, row := range rows {
		backups = append(backups, row.toDomain())
	}
	return backups, nil
}
