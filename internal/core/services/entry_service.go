package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
	"github.com/comitanigiacomo/kanso-diary/internal/core/workers"
)

type EntryService struct {
	repo     domain.EntryInstanceRepository
	typeRepo domain.EntryTypeRepository
	worker   *workers.BackupWorker
}

func NewEntryService(repo domain.EntryInstanceRepository, typeRepo domain.EntryTypeRepository, worker *workers.BackupWorker) *EntryService {
	return &EntryService{
		repo:     repo,
		typeRepo: typeRepo,
		worker:   worker,
	}
}

type CreateEntryInput struct {
	EntryTypeID string
	UserID      string
	CreatedAt   time.Time
	Points      *domain.Points
	Notes       string
}

type UpdateEntryInput struct {
	ID      string
	UserID  string
	Points  *domain.Points
	Notes   *string
	Version int
}

// Create logs an instance of an existing entry type. Without explicit points
// the type's default is used.
func (s *EntryService) Create(ctx context.Context, input CreateEntryInput) (*domain.EntryInstance, error) {
	entryType, err := s.typeRepo.GetByID(ctx, input.UserID, input.EntryTypeID)
	if err != nil {
		return nil, err
	}

	points := entryType.DefaultPoints
	if input.Points != nil {
		points = *input.Points
	}

	entry := domain.NewEntryInstance(entryType.ID, input.UserID, input.CreatedAt, points, input.Notes)
	entry.ID = uuid.NewString()

	if err := entry.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidEntry, err)
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.worker.Enqueue(input.UserID)

	return entry, nil
}

func (s *EntryService) Update(ctx context.Context, input UpdateEntryInput) (*domain.EntryInstance, error) {
	existing, err := s.GetByID(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Version > 0 && existing.Version != input.Version {
		return nil, fmt.Errorf("%w: client v%d vs server v%d", domain.ErrEntryConflict, input.Version, existing.Version)
	}

	if input.Points != nil {
		existing.Points = *input.Points
	}
	if input.Notes != nil {
		existing.Notes = *input.Notes
	}

	if err := existing.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidEntry, err)
	}

	existing.Version++
	existing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	s.worker.Enqueue(input.UserID)

	return existing, nil
}

func (s *EntryService) GetByID(ctx context.Context, id string, userID string) (*domain.EntryInstance, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return entry, nil
}

func (s *EntryService) Delete(ctx context.Context, id string, userID string) error {
	if _, err := s.GetByID(ctx, id, userID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.worker.Enqueue(userID)

	return nil
}

// Map returns every active instance of the user keyed by its day in loc.
func (s *EntryService) Map(ctx context.Context, userID string, loc *time.Location) (domain.EntryInstancesMap, error) {
	entries, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.GroupByDate(entries, loc), nil
}

func (s *EntryService) GetDelta(ctx context.Context, userID string, since time.Time) ([]*domain.EntryInstance, error) {
	return s.repo.GetChanges(ctx, userID, since)
}
