package migration

import (
	"context"

	"github.com/rolewarden/backend/internal/entity"
	"github.com/rolewarden/backend/pkg/xcontext"
)

// migrate0001 introduces bot admins as a separate access flag.
func migrate0001(ctx context.Context) error {
	return xcontext.DB(ctx).Migrator().AddColumn(&entity.UserAccess{}, "bot_admin")
}
