package repositories

import (
	"fmt"

	"github.com/desertthunder/tagsync/internal/models"
)

// SyncArchiveAdapter implements tasks.HistoryArchiver using SyncRecordRepository.
//
// Each pipeline run produces one history row, successes and failures alike.
// The engine treats archive errors as non-fatal, so failures here only
// surface in the logs.
type SyncArchiveAdapter struct {
	repo *SyncRecordRepository
}

// NewSyncArchiveAdapter creates a new SyncArchiveAdapter with the given repository
func NewSyncArchiveAdapter(repo *SyncRecordRepository) *SyncArchiveAdapter {
	return &SyncArchiveAdapter{repo: repo}
}

// ArchiveSync persists the outcome of a finished pipeline run.
func (a *SyncArchiveAdapter) ArchiveSync(record *models.SyncRecord) error {
	if err := a.repo.Create(record); err != nil {
		return fmt.Errorf("failed to archive sync: %w", err)
	}

	return nil
}
