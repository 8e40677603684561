package services

import (
	"context"
	"errors"
	"time"

	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
	"github.com/comitanigiacomo/kanso-diary/internal/core/streaks"
	"github.com/comitanigiacomo/kanso-diary/internal/core/workers"
)

type EntryTypeService struct {
	repo      domain.EntryTypeRepository
	entryRepo domain.EntryInstanceRepository
	engine    *streaks.Engine
	worker    *workers.BackupWorker
}

func NewEntryTypeService(repo domain.EntryTypeRepository, entryRepo domain.EntryInstanceRepository, worker *workers.BackupWorker) *EntryTypeService {
	return &EntryTypeService{
		repo:      repo,
		entryRepo: entryRepo,
		engine:    streaks.Default,
		worker:    worker,
	}
}

type CreateEntryTypeInput struct {
	UserID        string
	Title         string
	Routine       string
	DefaultPoints domain.Points
	PointStep     domain.Points
	ThemeColors   [2]string
}

type UpdateEntryTypeInput struct {
	ID            string
	UserID        string
	Title         string
	Routine       string
	DefaultPoints *domain.Points
	PointStep     *domain.Points
	ThemeColors   [2]string
}

func mergeString(newVal, oldVal string) string {
	if newVal == "" {
		return oldVal
	}
	return newVal
}

func (s *EntryTypeService) Create(ctx context.Context, input CreateEntryTypeInput) (*domain.EntryType, error) {
	routine, err := domain.ParseRoutine(input.Routine)
	if err != nil {
		return nil, err
	}

	step := input.PointStep
	if step == 0 {
		step = 1
	}

	entryType, err := domain.NewEntryType(input.UserID, input.Title, routine, input.DefaultPoints, step, input.ThemeColors)
	if err != nil {
		return nil, err
	}

	if err := s.ensureFree(ctx, input.UserID, entryType.ID); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, entryType); err != nil {
		return nil, err
	}

	s.worker.Enqueue(input.UserID)

	return entryType, nil
}

func (s *EntryTypeService) ensureFree(ctx context.Context, userID, id string) error {
	_, err := s.repo.GetByID(ctx, userID, id)
	switch {
	case err == nil:
		return domain.ErrEntryTypeExists
	case errors.Is(err, domain.ErrEntryTypeNotFound):
		return nil
	default:
		return err
	}
}

func (s *EntryTypeService) GetByID(ctx context.Context, userID, id string) (*domain.EntryType, error) {
	return s.repo.GetByID(ctx, userID, id)
}

// List returns the catalog in creation order, or by total logged count when
// ranked is set.
func (s *EntryTypeService) List(ctx context.Context, userID string, ranked bool) ([]*domain.EntryType, error) {
	types, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ranked {
		return types, nil
	}

	entries, err := s.entryRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.engine.RankByCount(types, domain.GroupByDate(entries, time.UTC)), nil
}

// Update applies the non-empty fields of input. A title change moves the
// entry type to a new id and every instance follows it.
func (s *EntryTypeService) Update(ctx context.Context, input UpdateEntryTypeInput) (*domain.EntryType, error) {
	entryType, err := s.repo.GetByID(ctx, input.UserID, input.ID)
	if err != nil {
		return nil, err
	}

	routine := entryType.Routine
	if input.Routine != "" {
		if routine, err = domain.ParseRoutine(input.Routine); err != nil {
			return nil, err
		}
	}

	defaultPoints := entryType.DefaultPoints
	if input.DefaultPoints != nil {
		defaultPoints = *input.DefaultPoints
	}

	step := entryType.PointStep
	if input.PointStep != nil {
		step = *input.PointStep
	}

	colors := [2]string{
		mergeString(input.ThemeColors[0], entryType.ThemeColors[0]),
		mergeString(input.ThemeColors[1], entryType.ThemeColors[1]),
	}

	oldID := entryType.ID
	renamed, err := entryType.Update(mergeString(input.Title, entryType.Title), routine, defaultPoints, step, colors)
	if err != nil {
		return nil, err
	}

	if renamed {
		if err := s.ensureFree(ctx, input.UserID, entryType.ID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, oldID, entryType); err != nil {
		return nil, err
	}

	if renamed {
		if err := s.entryRepo.ReassignType(ctx, input.UserID, oldID, entryType.ID); err != nil {
			return nil, err
		}
	}

	s.worker.Enqueue(input.UserID)

	return entryType, nil
}

// Delete removes the entry type together with every instance logged for it.
func (s *EntryTypeService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.repo.GetByID(ctx, userID, id); err != nil {
		return err
	}

	if err := s.entryRepo.DeleteByType(ctx, userID, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.worker.Enqueue(userID)

	return nil
}
