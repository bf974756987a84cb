// Package directory enumerates recipient users for broadcast
// workflows. In deployment the users table is owned by the external
// users service; the core only ever reads ids from it.
package directory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"eventbook/internal/models"
)

// Directory lists the user ids a broadcast should reach.
type Directory interface {
	ListUserIDs(ctx context.Context) ([]uuid.UUID, error)
}

// GormDirectory reads recipient ids from the users table.
type GormDirectory struct {
	db *gorm.DB
}

func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

func (d *GormDirectory) ListUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := d.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", "user").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	return ids, nil
}

// StaticDirectory serves a fixed recipient set.
type StaticDirectory struct {
	IDs []uuid.UUID
}

func (d *StaticDirectory) ListUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	return d.IDs, nil
}
