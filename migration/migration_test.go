package migration

import (
	"context"
	"testing"

	"github.com/rolewarden/backend/internal/entity"
	"github.com/rolewarden/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMigrate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	ctx := xcontext.WithDB(context.Background(), db)

	require.NoError(t, Migrate(ctx))
	require.True(t, db.Migrator().HasTable(&entity.Guild{}))
	require.True(t, db.Migrator().HasColumn(&entity.UserAccess{}, "bot_admin"))

	// A second run finds nothing pending.
	require.NoError(t, Migrate(ctx))

	var records []entity.Migration
	require.NoError(t, db.Find(&records).Error)
	require.Len(t, records, len(migrations))
}
