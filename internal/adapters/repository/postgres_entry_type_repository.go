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

var _ domain.EntryTypeRepository = (*PostgresEntryTypeRepository)(nil)

type PostgresEntryTypeRepository struct {
	db *sqlx.DB
}

func NewPostgresEntryTypeRepository(db *sqlx.DB) *PostgresEntryTypeRepository {
	return &PostgresEntryTypeRepository{db: db}
}

// entryTypeRow flattens the theme colors into two columns.
type entryTypeRow struct {
	ID            string        `db:"id"`
	UserID        string        `db:"user_id"`
	Title         string        `db:"title"`
	Routine       string        `db:"routine"`
	DefaultPoints domain.Points `db:"default_points"`
	PointStep     domain.Points `db:"point_step"`
	ThemeLight    string        `db:"theme_light"`
	ThemeDark     string        `db:"theme_dark"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

func toEntryTypeRow(t *domain.EntryType) entryTypeRow {
	return entryTypeRow{
		ID:            t.ID,
		UserID:        t.UserID,
		Title:         t.Title,
		Routine:       string(t.Routine),
		DefaultPoints: t.DefaultPoints,
		PointStep:     t.PointStep,
		ThemeLight:    t.ThemeColors[0],
		ThemeDark:     t.ThemeColors[1],
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func (row entryTypeRow) toDomain() *domain.EntryType {
	return &domain.EntryType{
		ID:            row.ID,
		UserID:        row.UserID,
		Title:         row.Title,
		Routine:       domain.Routine(row.Routine),
		DefaultPoints: row.DefaultPoints,
		PointStep:     row.PointStep,
		ThemeColors:   [2]string{row.ThemeLight, row.ThemeDark},
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

const entryTypeColumns = `id, user_id, title, routine, default_points, point_step, theme_light, theme_dark, created_at, updated_at`

func (r *PostgresEntryTypeRepository) Create(ctx context.Context, t *domain.EntryType) error {
	query := `
		INSERT INTO entry_types (` + entryTypeColumns + `)
		VALUES (
			:id, :user_id, :title, :routine, :default_points, :point_step,
			:theme_light, :theme_dark, :created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, toEntryTypeRow(t)); err != nil {
		switch pgCode(err) {
		case codeUniqueViolation:
			return domain.ErrEntryTypeExists
		case codeForeignKeyViolation:
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to insert entry type: %w", err)
	}
	return nil
}

func (r *PostgresEntryTypeRepository) GetByID(ctx context.Context, userID, id string) (*domain.EntryType, error) {
	query := `SELECT ` + entryTypeColumns + ` FROM entry_types WHERE user_id = $1 AND id = $2`

	var row entryTypeRow
	if err := r.db.GetContext(ctx, &row, query, userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEntryTypeNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}
	return row.toDomain(), nil
}

func (r *PostgresEntryTypeRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.EntryType, error) {
	query := `
		SELECT ` + entryTypeColumns + ` FROM entry_types
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC`

	var rows []entryTypeRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	types := make([]*domain.EntryType, 0, len(rows))
	for _, row := range rows {
		types = append(types, row.toDomain())
	}
	return types, nil
}

func (r *PostgresEntryTypeRepository) Update(ctx context.Context, oldID string, t *domain.EntryType) error {
	query := `
		UPDATE entry_types SET
			id = $1, title = $2, routine = $3, default_points = $4, point_step = $5,
			theme_light = $6, theme_dark = $7, updated_at = $8
		WHERE user_id = $9 AND id = $10`

	res, err := r.db.ExecContext(ctx, query,
		t.ID, t.Title, string(t.Routine), t.DefaultPoints, t.PointStep,
		t.ThemeColors[0], t.ThemeColors[1], t.UpdatedAt,
		t.UserID, oldID,
	)
	if err != nil {
		if pgCode(err) == codeUniqueViolation {
			return domain.ErrEntryTypeExists
		}
		return fmt.Errorf("update query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrEntryTypeNotFound
	}
	return nil
}

func (r *PostgresEntryTypeRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entry_types WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrEntryTypeNotFound
	}
	return nil
}
