package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/tagsync/internal/models"
	"github.com/desertthunder/tagsync/internal/shared"
)

// SyncRecordRepository implements models.Repository[*models.SyncRecord] for the sync history.
//
// Every finished publish run is stored here so curators can audit what was
// pushed to which video and when, independent of the record store's fields.
type SyncRecordRepository struct {
	db *sql.DB
}

// NewSyncRecordRepository creates a new SyncRecordRepository with the given database connection
func NewSyncRecordRepository(db *sql.DB) *SyncRecordRepository {
	return &SyncRecordRepository{db: db}
}

// Create inserts a new [models.SyncRecord] into the database with generated ID and sequence
func (r *SyncRecordRepository) Create(record *models.SyncRecord) error {
	sequence, err := NextSequence(r.db, "sync_records")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	record.SetID(shared.GenerateID())
	record.SetSequence(sequence)

	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO sync_records (id, sequence, record_id, video_id, title, status, message, error_detail, tags_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		record.ID(),
		record.Sequence(),
		record.RecordID(),
		record.VideoID(),
		record.Title(),
		string(record.Status()),
		record.Message(),
		record.ErrorDetail(),
		record.TagsCount(),
		record.CreatedAt(),
		record.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert sync record: %w", err)
	}

	return nil
}

// Get retrieves a sync record by ID, excluding soft-deleted records
func (r *SyncRecordRepository) Get(id string) (*models.SyncRecord, error) {
	query := `
		SELECT id, sequence, record_id, video_id, title, status, message, error_detail, tags_count, created_at, updated_at, deleted_at
		FROM sync_records
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByRecordID retrieves the most recent run for an upstream record
func (r *SyncRecordRepository) GetByRecordID(recordID string) (*models.SyncRecord, error) {
	query := `
		SELECT id, sequence, record_id, video_id, title, status, message, error_detail, tags_count, created_at, updated_at, deleted_at
		FROM sync_records
		WHERE record_id = ? AND deleted_at IS NULL
		ORDER BY sequence DESC
		LIMIT 1
	`

	return r.scanOne(r.db.QueryRow(query, recordID))
}

// Update modifies an existing sync record in the database
func (r *SyncRecordRepository) Update(record *models.SyncRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	record.SetUpdatedAt(now)

	query := `
		UPDATE sync_records
		SET video_id = ?, title = ?, status = ?, message = ?, error_detail = ?, tags_count = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		record.VideoID(),
		record.Title(),
		string(record.Status()),
		record.Message(),
		record.ErrorDetail(),
		record.TagsCount(),
		now,
		record.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update sync record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRecordNotFound, record.ID())
	}

	return nil
}

// Delete soft-deletes a sync record by ID
func (r *SyncRecordRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE sync_records
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete sync record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRecordNotFound, id)
	}

	return nil
}

// List retrieves all sync records matching the given criteria, excluding soft-deleted records
func (r *SyncRecordRepository) List(criteria map[string]any) ([]*models.SyncRecord, error) {
	query := `
		SELECT id, sequence, record_id, video_id, title, status, message, error_detail, tags_count, created_at, updated_at, deleted_at
		FROM sync_records
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	if recordID, ok := criteria["record_id"].(string); ok && recordID != "" {
		query += " AND record_id = ?"
		args = append(args, recordID)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync records: %w", err)
	}
	defer rows.Close()

	var records []*models.SyncRecord
	for rows.Next() {
		record, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// ListRecent retrieves the most recent runs, newest first
func (r *SyncRecordRepository) ListRecent(limit int) ([]*models.SyncRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, sequence, record_id, video_id, title, status, message, error_detail, tags_count, created_at, updated_at, deleted_at
		FROM sync_records
		WHERE deleted_at IS NULL
		ORDER BY sequence DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync records: %w", err)
	}
	defer rows.Close()

	var records []*models.SyncRecord
	for rows.Next() {
		record, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// scanOne scans a single [sql.Row] into a [models.SyncRecord]
func (r *SyncRecordRepository) scanOne(row *sql.Row) (*models.SyncRecord, error) {
	var (
		id          string
		sequence    int
		recordID    string
		videoID     string
		title       string
		status      string
		message     string
		errorDetail string
		tagsCount   int
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := row.Scan(&id, &sequence, &recordID, &videoID, &title, &status, &message, &errorDetail, &tagsCount, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: sync record", shared.ErrRecordNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan sync record: %w", err)
	}

	return rebuildRecord(id, sequence, recordID, videoID, title, status, message, errorDetail, tagsCount, createdAt, updatedAt, deletedAt), nil
}

// scanRow scans a row from [sql.Rows] into a [models.SyncRecord]
func (r *SyncRecordRepository) scanRow(rows *sql.Rows) (*models.SyncRecord, error) {
	var (
		id          string
		sequence    int
		recordID    string
		videoID     string
		title       string
		status      string
		message     string
		errorDetail string
		tagsCount   int
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := rows.Scan(&id, &sequence, &recordID, &videoID, &title, &status, &message, &errorDetail, &tagsCount, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan sync record: %w", err)
	}

	return rebuildRecord(id, sequence, recordID, videoID, title, status, message, errorDetail, tagsCount, createdAt, updatedAt, deletedAt), nil
}

// rebuildRecord reassembles a persisted row into the entity
func rebuildRecord(id string, sequence int, recordID, videoID, title, status, message, errorDetail string, tagsCount int, createdAt, updatedAt time.Time, deletedAt sql.NullTime) *models.SyncRecord {
	outcome := models.SyncOutcome{
		Status:      models.SyncStatus(status),
		Message:     message,
		TagsCount:   tagsCount,
		ErrorDetail: errorDetail,
	}

	record := models.NewSyncRecord(recordID, videoID, title, outcome)
	record.SetID(id)
	record.SetSequence(sequence)
	record.SetCreatedAt(createdAt)
	record.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		record.SetDeletedAt(&deletedAt.Time)
	}

	return record
}
