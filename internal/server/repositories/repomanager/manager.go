// Package repomanager vends repository implementations bound to a DBTX and
// exposes the schema migration hook.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/akozlov/activityhub/internal/dbx"
	"github.com/akozlov/activityhub/internal/server/repositories/activities"
	"github.com/akozlov/activityhub/internal/server/repositories/organizers"
	"github.com/akozlov/activityhub/internal/server/repositories/revokedtokens"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Organizers(db dbx.DBTX) organizers.Repository
	Activities(db dbx.DBTX) activities.Repository
	RevokedTokens(db dbx.DBTX) revokedtokens.Repository
}
