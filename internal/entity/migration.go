package entity

import (
	"context"
	"time"

	"github.com/rolewarden/backend/pkg/xcontext"
)

// Migration records a schema version applied to the database.
type Migration struct {
	Version   int `gorm:"primarykey"`
	AppliedAt time.Time
}

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&Guild{},
		&UserAccess{},
		&Migration{},
	)
}
