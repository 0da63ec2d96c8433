package ledger

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/hchen1203/hotel-doc-ingest/internal/models"
	"github.com/hchen1203/hotel-doc-ingest/pkg/logger"
)

// GormLedger implements Ledger on a relational database through GORM.
type GormLedger struct {
	db     *gorm.DB
	logger logger.Logger
}

func NewGormLedger(db *gorm.DB, log logger.Logger) *GormLedger {
	return &GormLedger{db: db, logger: log}
}

// Migrate creates the ledger and target schema tables.
func (l *GormLedger) Migrate() error {
	return l.db.AutoMigrate(
		&models.FileRecord{},
		&models.ProcessingLog{},
		&models.ExpenseVoucher{},
		&models.FinancialReport{},
		&models.OccupancyReport{},
		&models.CityLedgerEntry{},
		&models.NightAudit{},
		&models.NoShowReport{},
	)
}

func (l *GormLedger) Insert(ctx context.Context, rec *models.FileRecord) error {
	return l.db.WithContext(ctx).Create(rec).Error
}

func (l *GormLedger) Get(ctx context.Context, id string) (*models.FileRecord, error) {
	var rec models.FileRecord
	err := l.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (l *GormLedger) List(ctx context.Context) ([]models.FileRecord, error) {
	var recs []models.FileRecord
	err := l.db.WithContext(ctx).Order("created_at DESC").Find(&recs).Error
	return recs, err
}

func (l *GormLedger) AcquireLease(ctx context.Context, id, leaseID string, ttl time.Duration) error {
	now := time.Now()
	expires := now.Add(ttl)

	// The lease is acquired in a single conditional update so that two
	// concurrent attempts can never both see processing=false.
	res := l.db.WithContext(ctx).Model(&models.FileRecord{}).
		Where("id = ? AND (processing = ? OR lease_expires < ?)", id, false, now).
		Updates(map[string]interface{}{
			"processing":     true,
			"processed":      false,
			"extracted_data": nil,
			"lease_id":       leaseID,
			"lease_expires":  expires,
			"updated_at":     now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Either the record is gone or someone else holds a live lease.
		if _, err := l.Get(ctx, id); err != nil {
			return err
		}
		return ErrAlreadyProcessing
	}
	return nil
}

func (l *GormLedger) MarkSuccess(ctx context.Context, id, leaseID string, data models.JSONMap) error {
	return l.finish(ctx, id, leaseID, map[string]interface{}{
		"processing":     false,
		"processed":      true,
		"extracted_data": data,
		"lease_id":       "",
		"lease_expires":  nil,
		"updated_at":     time.Now(),
	})
}

func (l *GormLedger) MarkError(ctx context.Context, id, leaseID, message string) error {
	return l.finish(ctx, id, leaseID, map[string]interface{}{
		"processing":     false,
		"processed":      true,
		"extracted_data": models.JSONMap{"error": true, "message": message},
		"lease_id":       "",
		"lease_expires":  nil,
		"updated_at":     time.Now(),
	})
}

func (l *GormLedger) finish(ctx context.Context, id, leaseID string, fields map[string]interface{}) error {
	res := l.db.WithContext(ctx).Model(&models.FileRecord{}).
		Where("id = ? AND lease_id = ?", id, leaseID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (l *GormLedger) MarkInserted(ctx context.Context, id string, at time.Time) error {
	rec, err := l.Get(ctx, id)
	if err != nil {
		return err
	}
	data := rec.ExtractedData
	if data == nil {
		data = models.JSONMap{}
	}
	data["inserted"] = true
	data["insertedAt"] = at.Format(time.RFC3339)

	return l.db.WithContext(ctx).Model(&models.FileRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"extracted_data": data, "updated_at": time.Now()}).Error
}

func (l *GormLedger) SetDocumentType(ctx context.Context, id, documentType string) error {
	res := l.db.WithContext(ctx).Model(&models.FileRecord{}).
		Where("id = ?", id).
		Update("document_type", documentType)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (l *GormLedger) ListStuck(ctx context.Context, threshold time.Duration) ([]models.FileRecord, error) {
	var recs []models.FileRecord
	cutoff := time.Now().Add(-threshold)
	err := l.db.WithContext(ctx).
		Where("processing = ? AND updated_at < ?", true, cutoff).
		Find(&recs).Error
	return recs, err
}

func (l *GormLedger) ClearProcessing(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return l.db.WithContext(ctx).Model(&models.FileRecord{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"processing":    false,
			"lease_id":      "",
			"lease_expires": nil,
			"updated_at":    time.Now(),
		}).Error
}

func (l *GormLedger) Delete(ctx context.Context, id string) error {
	res := l.db.WithContext(ctx).Delete(&models.FileRecord{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (l *GormLedger) ForceDelete(ctx context.Context, id string) error {
	return l.db.WithContext(ctx).Unscoped().Delete(&models.FileRecord{}, "id = ?", id).Error
}

func (l *GormLedger) AppendLog(ctx context.Context, entry *models.ProcessingLog) error {
	if err := l.db.WithContext(ctx).Create(entry).Error; err != nil {
		// The audit trail must never break the pipeline. Log and move on.
		l.logger.Error("Failed to append processing log",
			logger.String("fileId", entry.FileID),
			logger.String("requestId", entry.RequestID),
			logger.Error(err),
		)
		return err
	}
	return nil
}

func (l *GormLedger) LogsForFile(ctx context.Context, fileID string) ([]models.ProcessingLog, error) {
	var entries []models.ProcessingLog
	err := l.db.WithContext(ctx).
		Where("file_id = ?", fileID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (l *GormLedger) InsertRow(ctx context.Context, row interface{}) error {
	return l.db.WithContext(ctx).Create(row).Error
}
