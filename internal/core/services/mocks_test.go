package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockEntryTypeRepo struct {
	mock.Mock
}

func (m *MockEntryTypeRepo) Create(ctx context.Context, entryType *domain.EntryType) error {
	return m.Called(ctx, entryType).Error(0)
}

func (m *MockEntryTypeRepo) GetByID(ctx context.Context, userID, id string) (*domain.EntryType, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EntryType), args.Error(1)
}

func (m *MockEntryTypeRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.EntryType, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.EntryType), args.Error(1)
}

func (m *MockEntryTypeRepo) Update(ctx context.Context, oldID string, entryType *domain.EntryType) error {
	return m.Called(ctx, oldID, entryType).Error(0)
}

func (m *MockEntryTypeRepo) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

type MockEntryRepo struct {
	mock.Mock
}

func (m *MockEntryRepo) Create(ctx context.Context, entry *domain.EntryInstance) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockEntryRepo) Update(ctx context.Context, entry *domain.EntryInstance) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockEntryRepo) Delete(ctx context.Context, id string, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *MockEntryRepo) GetByID(ctx context.Context, id string) (*domain.EntryInstance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EntryInstance), args.Error(1)
}

func (m *MockEntryRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.EntryInstance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.EntryInstance), args.Error(1)
}

func (m *MockEntryRepo) ReassignType(ctx context.Context, userID, oldTypeID, newTypeID string) error {
	return m.Called(ctx, userID, oldTypeID, newTypeID).Error(0)
}

func (m *MockEntryRepo) DeleteByType(ctx context.Context, userID, typeID string) error {
	return m.Called(ctx, userID, typeID).Error(0)
}

func (m *MockEntryRepo) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.EntryInstance, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.EntryInstance), args.Error(1)
}

type MockBackupRepo struct {
	mock.Mock
}

func (m *MockBackupRepo) Create(ctx context.Context, backup *domain.Backup) error {
	return m.Called(ctx, backup).Error(0)
}

func (m *MockBackupRepo) GetByID(ctx context.Context, userID, id string) (*domain.Backup, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Backup), args.Error(1)
}

func (m *MockBackupRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Backup, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Backup), args.Error(1)
}

func entryAt(typeID, date string) *domain.EntryInstance {
	t, _ := time.Parse(domain.DateLayout, date)
	return &domain.EntryInstance{
		ID:          typeID + "-" + date,
		UserID:      "user-1",
		EntryTypeID: typeID,
		Points:      1,
		Version:     1,
		CreatedAt:   t.Add(12 * time.Hour),
	}
}
