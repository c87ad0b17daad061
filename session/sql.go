package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/techjourney/folio/models"
)

// SQLBackend stores sessions in the web_sessions table.
type SQLBackend struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSQLBackend(db *gorm.DB) *SQLBackend {
	return &SQLBackend{db: db, now: time.Now}
}

func (b *SQLBackend) Load(ctx context.Context, ref string) (State, error) {
	var row models.WebSession
	err := b.db.WithContext(ctx).Where("id = ? AND expires_at > ?", ref, b.now()).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return State{}, ErrNotFound
	}
	if err != nil {
		return State{}, err
	}
	var st State
	if err := json.Unmarshal(row.Data, &st); err != nil {
		return State{}, err
	}
	return st, nil
}

func (b *SQLBackend) Save(ctx context.Context, ref string, st State, ttl time.Duration) (string, error) {
	if ref == "" {
		ref = uuid.NewString()
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return "", err
	}
	row := models.WebSession{ID: ref, Data: raw, ExpiresAt: b.now().Add(ttl)}
	err = b.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "expires_at", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return "", err
	}
	return ref, nil
}

func (b *SQLBackend) Delete(ctx context.Context, ref string) error {
	return b.db.WithContext(ctx).Where("id = ?", ref).Delete(&models.WebSession{}).Error
}

// Sweep removes expired rows and reports how many were deleted.
func (b *SQLBackend) Sweep(ctx context.Context) (int64, error) {
	res := b.db.WithContext(ctx).Where("expires_at <= ?", b.now()).Delete(&models.WebSession{})
	return res.RowsAffected, res.Error
}
