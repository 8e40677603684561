package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-diary/internal/core/domain"
	"github.com/comitanigiacomo/kanso-diary/internal/logger"
)

type EntryTypeLister interface {
	ListByUserID(ctx context.Context, userID string) ([]*domain.EntryType, error)
}

type EntryLister interface {
	ListByUserID(ctx context.Context, userID string) ([]*domain.EntryInstance, error)
}

// SnapshotCommitter writes one file to the remote snapshot repository.
type SnapshotCommitter interface {
	Commit(ctx context.Context, path string, content []byte, message string) error
}

// Sealer encrypts a snapshot before it leaves the process.
type Sealer interface {
	Seal(plaintext []byte) ([]byte, error)
}

type BackupJob struct {
	UserID string
}

type BackupWorker struct {
	typeRepo  EntryTypeLister
	entryRepo EntryLister
	committer SnapshotCommitter
	sealer    Sealer
	jobs      chan BackupJob
}

const DefaultQueueSize = 100

func NewBackupWorker(tRepo EntryTypeLister, eRepo EntryLister, committer SnapshotCommitter, sealer Sealer) *BackupWorker {
	return &BackupWorker{
		typeRepo:  tRepo,
		entryRepo: eRepo,
		committer: committer,
		sealer:    sealer,
		jobs:      make(chan BackupJob, DefaultQueueSize),
	}
}

func (w *BackupWorker) Start(ctx context.Context) {
	go func() {
		logger.Info("Backup worker started in background")
		for {
			select {
			case job := <-w.jobs:
				if err := w.Process(ctx, job); err != nil {
					logger.Error("Backup worker job failed", "user_id", job.UserID, "error", err)
				}
			case <-ctx.Done():
				logger.Info("Backup worker shutting down")
				return
			}
		}
	}()
}

// Enabled reports whether snapshots have somewhere to go.
func (w *BackupWorker) Enabled() bool {
	return w != nil && w.committer != nil
}

// Enqueue schedules a snapshot of the user's data. It never blocks: when the
// queue is full the job is dropped, the next write schedules a fresh one.
func (w *BackupWorker) Enqueue(userID string) {
	if !w.Enabled() {
		return
	}
	select {
	case w.jobs <- BackupJob{UserID: userID}:
	default:
		logger.Warn("Backup worker queue full, dropping job", "user_id", userID)
	}
}

func SnapshotPath(userID string) string {
	return fmt.Sprintf("%s/kanso-backup.json", userID)
}

func (w *BackupWorker) Process(ctx context.Context, job BackupJob) error {
	types, err := w.typeRepo.ListByUserID(ctx, job.UserID)
	if err != nil {
		return fmt.Errorf("fetching entry types: %w", err)
	}

	entries, err := w.entryRepo.ListByUserID(ctx, job.UserID)
	if err != nil {
		return fmt.Errorf("fetching entries: %w", err)
	}

	content, err := domain.NewSnapshot(types, entries, time.UTC).Encode()
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	path := SnapshotPath(job.UserID)
	if w.sealer != nil {
		if content, err = w.sealer.Seal(content); err != nil {
			return fmt.Errorf("sealing snapshot: %w", err)
		}
		path += ".age"
	}

	msg := fmt.Sprintf("kanso backup %s", time.Now().UTC().Format(time.RFC3339))
	if err := w.committer.Commit(ctx, path, content, msg); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}

	logger.Info("Snapshot committed", "user_id", job.UserID, "path", path, "entry_types", len(types), "entries", len(entries))
	return nil
}
