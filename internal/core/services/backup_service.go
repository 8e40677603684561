package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
	"github.com/comitanigiacomo/kanso-diary/internal/core/workers"
	"github.com/comitanigiacomo/kanso-diary/internal/logger"
)

type BackupService struct {
	repo      domain.BackupRepository
	typeRepo  domain.EntryTypeRepository
	entryRepo domain.EntryInstanceRepository
	worker    *workers.BackupWorker
}

func NewBackupService(repo domain.BackupRepository, typeRepo domain.EntryTypeRepository, entryRepo domain.EntryInstanceRepository, worker *workers.BackupWorker) *BackupService {
	return &BackupService{
		repo:      repo,
		typeRepo:  typeRepo,
		entryRepo: entryRepo,
		worker:    worker,
	}
}

// Export builds a snapshot of the user's current catalog and entries.
func (s *BackupService) Export(ctx context.Context, userID string) (*domain.Snapshot, error) {
	types, err := s.typeRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries, err := s.entryRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return domain.NewSnapshot(types, entries, time.UTC), nil
}

// Save stores a snapshot of the current state. An empty filename gets a
// timestamped default.
func (s *BackupService) Save(ctx context.Context, userID, filename string) (*domain.Backup, error) {
	snapshot, err := s.Export(ctx, userID)
	if err != nil {
		return nil, err
	}

	backup, err := domain.NewBackup(uuid.NewString(), userID, filename, snapshot)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, backup); err != nil {
		return nil, err
	}

	return backup, nil
}

// Upload stores a snapshot produced elsewhere, typically a client's local
// store, after checking it decodes.
func (s *BackupService) Upload(ctx context.Context, userID, filename string, content []byte) (*domain.Backup, error) {
	snapshot, err := domain.ParseSnapshot(content)
	if err != nil {
		return nil, err
	}

	backup, err := domain.NewBackup(uuid.NewString(), userID, filename, snapshot)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, backup); err != nil {
		return nil, err
	}

	return backup, nil
}

func (s *BackupService) List(ctx context.Context, userID string) ([]*domain.Backup, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *BackupService) Get(ctx context.Context, userID, id string) (*domain.Backup, error) {
	return s.repo.GetByID(ctx, userID, id)
}

// Restore replaces the user's catalog and entries with the content of a
// stored backup.
func (s *BackupService) Restore(ctx context.Context, userID, id string) (*ImportResult, error) {
	backup, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	snapshot, err := domain.ParseSnapshot(backup.Content)
	if err != nil {
		return nil, err
	}

	return s.Import(ctx, userID, snapshot)
}

type ImportResult struct {
	EntryTypes int `json:"entry_types"`
	Entries    int `json:"entries"`
	Skipped    int `json:"skipped"`
}

// Import drops every existing entry type and instance of the user and loads
// the snapshot in their place. Types are re-validated, so a legacy id that no
// longer matches its title is moved to the slug and its instances follow.
// Instances pointing at unknown types are skipped. When a write fails the
// previous catalog and entries are put back.
func (s *BackupService) Import(ctx context.Context, userID string, snapshot *domain.Snapshot) (*ImportResult, error) {
	types, entries, result := buildImport(userID, snapshot)

	prevTypes, err := s.typeRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reading current entry types: %w", err)
	}
	prevEntries, err := s.entryRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reading current entries: %w", err)
	}

	if err := s.clear(ctx, userID, prevTypes); err != nil {
		if rbErr := s.rollback(ctx, userID, prevTypes, prevEntries); rbErr != nil {
			logger.Error("Failed to restore data after a failed clear", "user_id", userID, "error", rbErr)
		}
		return nil, fmt.Errorf("clearing current data: %w", err)
	}

	if err := s.write(ctx, types, entries); err != nil {
		if rbErr := s.rollback(ctx, userID, prevTypes, prevEntries); rbErr != nil {
			logger.Error("Failed to restore data after a failed import", "user_id", userID, "error", rbErr)
		}
		return nil, fmt.Errorf("importing snapshot: %w", err)
	}

	s.worker.Enqueue(userID)

	logger.Info("Snapshot imported", "user_id", userID, "entry_types", result.EntryTypes, "entries", result.Entries, "skipped", result.Skipped)
	return result, nil
}

// buildImport validates the snapshot into the records to write, without
// touching storage.
func buildImport(userID string, snapshot *domain.Snapshot) ([]*domain.EntryType, []*domain.EntryInstance, *ImportResult) {
	result := &ImportResult{}
	ids := make(map[string]string, len(snapshot.EntryTypes))
	types := make([]*domain.EntryType, 0, len(snapshot.EntryTypes))

	for _, raw := range snapshot.EntryTypes {
		routine, err := domain.ParseRoutine(string(raw.Routine))
		if err != nil {
			routine = domain.RoutineDaily
		}
		step := raw.PointStep
		if step <= 0 {
			step = 1
		}

		t, err := domain.NewEntryType(userID, raw.Title, routine, raw.DefaultPoints, step, raw.ThemeColors)
		if err != nil {
			logger.Warn("Skipping entry type from snapshot", "title", raw.Title, "error", err)
			result.Skipped++
			continue
		}
		if _, dup := ids[t.ID]; dup {
			result.Skipped++
			continue
		}
		if !raw.CreatedAt.IsZero() {
			t.CreatedAt = raw.CreatedAt.UTC()
		}

		types = append(types, t)
		ids[t.ID] = t.ID
		if raw.ID != "" {
			ids[raw.ID] = t.ID
		}
	}
	result.EntryTypes = len(types)

	var entries []*domain.EntryInstance
	for _, date := range snapshot.EntryInstances.Dates() {
		for _, raw := range snapshot.EntryInstances[date] {
			typeID, ok := ids[raw.EntryTypeID]
			if !ok {
				result.Skipped++
				continue
			}

			createdAt := raw.CreatedAt
			if createdAt.IsZero() {
				createdAt, _ = time.Parse(domain.DateLayout, date)
			}

			entry := domain.NewEntryInstance(typeID, userID, createdAt, raw.Points, raw.Notes)
			entry.ID = uuid.NewString()
			if err := entry.Validate(); err != nil {
				result.Skipped++
				continue
			}
			entries = append(entries, entry)
		}
	}
	result.Entries = len(entries)

	return types, entries, result
}

func (s *BackupService) write(ctx context.Context, types []*domain.EntryType, entries []*domain.EntryInstance) error {
	for _, t := range types {
		if err := s.typeRepo.Create(ctx, t); err != nil {
			return fmt.Errorf("entry type %q: %w", t.ID, err)
		}
	}
	for _, e := range entries {
		if err := s.entryRepo.Create(ctx, e); err != nil {
			return fmt.Errorf("entry %q: %w", e.ID, err)
		}
	}
	return nil
}

// rollback removes whatever a failed import wrote and recreates the previous
// records. Entries get fresh ids since the old ones may survive as tombstones.
func (s *BackupService) rollback(ctx context.Context, userID string, types []*domain.EntryType, entries []*domain.EntryInstance) error {
	partial, err := s.typeRepo.ListByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.clear(ctx, userID, partial); err != nil {
		return err
	}

	restored := make([]*domain.EntryInstance, 0, len(entries))
	for _, e := range entries {
		c := *e
		c.ID = uuid.NewString()
		c.DeletedAt = nil
		restored = append(restored, &c)
	}
	return s.write(ctx, types, restored)
}

func (s *BackupService) clear(ctx context.Context, userID string, types []*domain.EntryType) error {
	for _, t := range types {
		if err := s.entryRepo.DeleteByType(ctx, userID, t.ID); err != nil {
			return err
		}
		if err := s.typeRepo.Delete(ctx, userID, t.ID); err != nil {
			return err
		}
	}
	return nil
}

// Push schedules a commit of the current snapshot to the remote repository.
func (s *BackupService) Push(userID string) error {
	if !s.worker.Enabled() {
		return domain.ErrBackupRemoteOff
	}
	s.worker.Enqueue(userID)
	return nil
}
