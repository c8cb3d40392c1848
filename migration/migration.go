package migration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rolewarden/backend/internal/entity"
	"github.com/rolewarden/backend/pkg/xcontext"
	"gorm.io/gorm"
)

var migrations = []func(ctx context.Context) error{
	migrate0000,
	migrate0001,
}

// Migrate applies every schema version the database has not seen yet, in
// order, recording each applied version.
func Migrate(ctx context.Context) error {
	if err := xcontext.DB(ctx).AutoMigrate(&entity.Migration{}); err != nil {
		return err
	}

	current := -1
	var last entity.Migration
	err := xcontext.DB(ctx).Order("version DESC").Take(&last).Error
	if err == nil {
		current = last.Version
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	for version := current + 1; version < len(migrations); version++ {
		if err := migrations[version](ctx); err != nil {
			return fmt.Errorf("cannot apply migration %04d: %w", version, err)
		}

		record := entity.Migration{Version: version, AppliedAt: time.Now()}
		if err := xcontext.DB(ctx).Create(&record).Error; err != nil {
			return err
		}

		xcontext.Logger(ctx).Infof("Applied migration %04d", version)
	}

	return nil
}
