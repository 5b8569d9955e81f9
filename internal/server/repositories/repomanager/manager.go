package repomanager

import (
	"context"
	"database/sql"

	"github.com/akarpov87/homehistory/internal/dbx"
	"github.com/akarpov87/homehistory/internal/server/repositories/access"
	"github.com/akarpov87/homehistory/internal/server/repositories/attachments"
	"github.com/akarpov87/homehistory/internal/server/repositories/homes"
	"github.com/akarpov87/homehistory/internal/server/repositories/records"
	"github.com/akarpov87/homehistory/internal/server/repositories/refreshtokens"
	"github.com/akarpov87/homehistory/internal/server/repositories/reminders"
	"github.com/akarpov87/homehistory/internal/server/repositories/users"
	"github.com/akarpov87/homehistory/internal/server/repositories/warranties"
)

// RepositoryManager vends repository implementations bound to a DBTX, so
// a service can run several repositories against one shared transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Homes(db dbx.DBTX) homes.Repository
	Access(db dbx.DBTX) access.Repository
	Records(db dbx.DBTX) records.Repository
	Reminders(db dbx.DBTX) reminders.Repository
	Warranties(db dbx.DBTX) warranties.Repository
	Attachments(db dbx.DBTX) attachments.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
