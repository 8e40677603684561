package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrBackupNotFound    = errors.New("backup not found")
	ErrBackupInvalid     = errors.New("backup content is not a valid snapshot")
	ErrBackupEmptyUserID = errors.New("backup requires a user id")
	ErrBackupRemoteOff   = errors.New("remote backup is not configured")
)

type Backup struct {
	ID        string          `json:"id" db:"id"`
	UserID    string          `json:"user_id" db:"user_id"`
	Filename  string          `json:"filename" db:"filename"`
	Content   json.RawMessage `json:"content,omitempty" db:"content"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// Snapshot is the whole-collection export of one user's data, in the same
// shape the client keeps in local storage.
type Snapshot struct {
	EntryTypes     []EntryType       `json:"entryTypes"`
	EntryInstances EntryInstancesMap `json:"entryInstances"`
	ExportedAt     time.Time         `json:"exportedAt"`
}

func NewSnapshot(types []*EntryType, instances []*EntryInstance, loc *time.Location) *Snapshot {
	s := &Snapshot{
		EntryTypes:     make([]EntryType, 0, len(types)),
		EntryInstances: GroupByDate(instances, loc),
		ExportedAt:     time.Now().UTC(),
	}
	for _, t := range types {
		if t != nil {
			s.EntryTypes = append(s.EntryTypes, *t)
		}
	}
	return s
}

// Encode renders the snapshot as indented JSON, the format written to files.
func (s *Snapshot) Encode() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

func ParseSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackupInvalid, err)
	}
	if s.EntryInstances == nil {
		s.EntryInstances = make(EntryInstancesMap)
	}
	return &s, nil
}

func DefaultBackupFilename(now time.Time) string {
	return fmt.Sprintf("kanso-backup-%s.json", now.UTC().Format("20060102-150405"))
}

func NewBackup(id, userID, filename string, snapshot *Snapshot) (*Backup, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrBackupEmptyUserID
	}

	content, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	now := time.Now().UTC()
	filename = strings.TrimSpace(filename)
	if filename == "" {
		filename = DefaultBackupFilename(now)
	}

	return &Backup{
		ID:        id,
		UserID:    userID,
		Filename:  filename,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
