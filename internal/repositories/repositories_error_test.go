package repositories

import (
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/tagsync/internal/models"
	"github.com/desertthunder/tagsync/internal/shared"
)

func TestSyncRecordRepositoryErrors(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewSyncRecordRepository(db)

			// Processing is not a terminal status, so the row is rejected.
			record := models.NewSyncRecord("rec123", "abc123", "Test Video", models.SyncOutcome{
				Status:  models.StatusProcessing,
				Message: "in flight",
			})

			if err := repo.Create(record); err == nil {
				t.Fatal("expected validation error for non-terminal status")
			}
		})

		t.Run("MissingRecordID", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewSyncRecordRepository(db)
			record := models.NewSyncRecord("", "abc123", "Test Video", models.SuccessOutcome(3))

			err := repo.Create(record)
			if err == nil {
				t.Fatal("expected validation error for empty record id")
			}
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected invalid input error, got %v", err)
			}
		})

		t.Run("UnmigratedDatabase", func(t *testing.T) {
			db, err := shared.NewDatabase(":memory:")
			if err != nil {
				t.Fatalf("failed to create test database: %v", err)
			}
			defer db.Close()

			repo := NewSyncRecordRepository(db)
			record := models.NewSyncRecord("rec123", "abc123", "Test Video", models.SuccessOutcome(3))

			if err := repo.Create(record); err == nil {
				t.Fatal("expected error without sequence table")
			}
		})
	})

	t.Run("GetByRecordID", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewSyncRecordRepository(db)

			_, err := repo.GetByRecordID("never-synced")
			if err == nil {
				t.Fatal("expected error for unknown record id")
			}
			if !errors.Is(err, shared.ErrRecordNotFound) {
				t.Errorf("expected record not found error, got %v", err)
			}
		})
	})

	t.Run("Update", func(t *testing.T) {
		t.Run("Deleted", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewSyncRecordRepository(db)
			record := models.NewSyncRecord("rec123", "abc123", "Test Video", models.SuccessOutcome(3))

			if err := repo.Create(record); err != nil {
				t.Fatalf("failed to create sync record: %v", err)
			}
			if err := repo.Delete(record.ID()); err != nil {
				t.Fatalf("failed to delete sync record: %v", err)
			}

			record.SetTitle("Updated Title")
			err := repo.Update(record)
			if err == nil {
				t.Fatal("expected error updating deleted record")
			}
			if !errors.Is(err, shared.ErrRecordNotFound) {
				t.Errorf("expected record not found error, got %v", err)
			}
		})

		t.Run("ValidationError", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewSyncRecordRepository(db)
			record := models.NewSyncRecord("rec123", "abc123", "Test Video", models.SyncOutcome{
				Status: models.StatusProcessing,
			})
			record.SetID("test-id")
			record.SetCreatedAt(time.Now())

			if err := repo.Update(record); err == nil {
				t.Fatal("expected validation error for non-terminal status")
			}
		})
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("AlreadyDeleted", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewSyncRecordRepository(db)
			record := models.NewSyncRecord("rec123", "abc123", "Test Video", models.SuccessOutcome(3))

			if err := repo.Create(record); err != nil {
				t.Fatalf("failed to create sync record: %v", err)
			}
			if err := repo.Delete(record.ID()); err != nil {
				t.Fatalf("failed to delete sync record: %v", err)
			}

			err := repo.Delete(record.ID())
			if err == nil {
				t.Fatal("expected error deleting already-deleted record")
			}
			if !errors.Is(err, shared.ErrRecordNotFound) {
				t.Errorf("expected record not found error, got %v", err)
			}
		})
	})

	t.Run("ArchiveSync", func(t *testing.T) {
		t.Run("PropagatesRepositoryError", func(t *testing.T) {
			db, err := shared.NewDatabase(":memory:")
			if err != nil {
				t.Fatalf("failed to create test database: %v", err)
			}
			defer db.Close()

			adapter := NewSyncArchiveAdapter(NewSyncRecordRepository(db))
			record := models.NewSyncRecord("rec123", "abc123", "Test Video", models.SuccessOutcome(3))

			if err := adapter.ArchiveSync(record); err == nil {
				t.Fatal("expected archive error against unmigrated database")
			}
		})
	})
}
