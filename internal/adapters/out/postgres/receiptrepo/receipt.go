// Package receiptrepo stores notification receipts: one row per run and
// recipient, claimed before a send and marked sent after it.
package receiptrepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReceiptDTO is the notification_receipts row.
type ReceiptDTO struct {
	RunID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	RecipientKey string    `gorm:"primaryKey"`
	Kind         string    `gorm:"not null"`
	Status       string    `gorm:"not null"`
	Reference    string
	ClaimedAt    time.Time `gorm:"not null"`
	SentAt       *time.Time
}

func (ReceiptDTO) TableName() string {
	return "notification_receipts"
}

// GormReceiptStore keeps receipts in postgres. A pending claim older than
// claimTTL is considered abandoned and can be taken over.
type GormReceiptStore struct {
	db       *gorm.DB
	claimTTL time.Duration
	now      func() time.Time
}

func NewGormReceiptStore(db *gorm.DB, claimTTL time.Duration) *GormReceiptStore {
	return &GormReceiptStore{db: db, claimTTL: claimTTL, now: time.Now}
}

// Claim inserts a pending receipt. It returns true when the caller owns the
// send, otherwise the existing receipt.
func (s *GormReceiptStore) Claim(
	ctx context.Context,
	runID kernel.UUID,
	recipientKey string,
	kind string,
) (ports.NoticeReceipt, bool, error) {
	now := s.now().UTC()
	dto := ReceiptDTO{
		RunID:        runID.Bytes(),
		RecipientKey: recipientKey,
		Kind:         kind,
		Status:       ports.ReceiptPending,
		ClaimedAt:    now,
	}

	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&dto)
	if result.Error != nil {
		return ports.NoticeReceipt{}, false, result.Error
	}
	if result.RowsAffected == 1 {
		return ports.NoticeReceipt{Status: ports.ReceiptPending}, true, nil
	}

	stale := s.db.WithContext(ctx).Model(&ReceiptDTO{}).
		Where("run_id = ? AND recipient_key = ? AND status = ? AND claimed_at < ?",
			runID.Bytes(), recipientKey, ports.ReceiptPending, now.Add(-s.claimTTL)).
		Update("claimed_at", now)
	if stale.Error != nil {
		return ports.NoticeReceipt{}, false, stale.Error
	}
	if stale.RowsAffected == 1 {
		return ports.NoticeReceipt{Status: ports.ReceiptPending}, true, nil
	}

	var existing ReceiptDTO
	if err := s.db.WithContext(ctx).
		First(&existing, "run_id = ? AND recipient_key = ?", runID.Bytes(), recipientKey).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Released between our insert and read; let the next attempt claim it.
			return ports.NoticeReceipt{}, false, nil
		}
		return ports.NoticeReceipt{}, false, err
	}
	return ports.NoticeReceipt{Status: existing.Status, Reference: existing.Reference}, false, nil
}

func (s *GormReceiptStore) MarkSent(ctx context.Context, runID kernel.UUID, recipientKey string, reference string) error {
	now := s.now().UTC()
	return s.db.WithContext(ctx).Model(&ReceiptDTO{}).
		Where("run_id = ? AND recipient_key = ?", runID.Bytes(), recipientKey).
		Updates(map[string]any{"status": ports.ReceiptSent, "reference": reference, "sent_at": now}).Error
}

// Release drops a pending claim after a failed send so a later call retries.
func (s *GormReceiptStore) Release(ctx context.Context, runID kernel.UUID, recipientKey string) error {
	return s.db.WithContext(ctx).
		Where("run_id = ? AND recipient_key = ? AND status = ?", runID.Bytes(), recipientKey, ports.ReceiptPending).
		Delete(&ReceiptDTO{}).Error
}
