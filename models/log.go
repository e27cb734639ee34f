package models

import (
	"time"

	"github.com/openswap/swapex/config"
)

// Log is an append-only audit record of a rejected submission. Rows are
// never updated or deleted.
type Log struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Message   string    `json:"message"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"timestamp"`
}

// RecordLog appends the raw payload of a rejected submission. The append is
// best effort: a failing audit store must not change the caller's outcome,
// so errors are only logged.
func RecordLog(payload []byte, reason string) {
	log := &Log{
		Message: string(payload),
		Reason:  reason,
	}

	if err := config.DataBase.Create(log).Error; err != nil {
		config.Logger.Errorf("audit log append failed: %v", err)
	}
}
