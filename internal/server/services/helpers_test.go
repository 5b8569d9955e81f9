package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/akarpov87/homehistory/internal/common"
	"github.com/akarpov87/homehistory/internal/dbx"
	"github.com/akarpov87/homehistory/internal/logging"
	"github.com/akarpov87/homehistory/internal/server/authz"
	"github.com/akarpov87/homehistory/internal/server/models"
	"github.com/akarpov87/homehistory/internal/server/repositories/access"
	"github.com/akarpov87/homehistory/internal/server/repositories/attachments"
	"github.com/akarpov87/homehistory/internal/server/repositories/homes"
	"github.com/akarpov87/homehistory/internal/server/repositories/records"
	"github.com/akarpov87/homehistory/internal/server/repositories/refreshtokens"
	"github.com/akarpov87/homehistory/internal/server/repositories/reminders"
	"github.com/akarpov87/homehistory/internal/server/repositories/repomanager"
	"github.com/akarpov87/homehistory/internal/server/repositories/users"
	"github.com/akarpov87/homehistory/internal/server/repositories/warranties"
)

// -------- test fakes --------

type fakeUsersRepo struct {
	users.Repository
	byEmail   map[string]*models.User
	created   []*models.User
	createErr error
	lastHome  map[string]string
}

func (f *fakeUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	user.ID = "u-new"
	f.created = append(f.created, user)
	return user, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) SetLastHome(ctx context.Context, userID, homeID string) error {
	if f.lastHome == nil {
		f.lastHome = map[string]string{}
	}
	f.lastHome[userID] = homeID
	return nil
}

type fakeHomesRepo struct {
	homes.Repository
	byID       map[string]*models.Home
	byAddress  map[string]*models.Home // keyed by address
	created    []*models.Home
	dataSource map[string]string
}

func (f *fakeHomesRepo) GetByID(ctx context.Context, id string) (*models.Home, error) {
	h, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return h, nil
}

func (f *fakeHomesRepo) FindByOwnerAddress(ctx context.Context, ownerID, address, city, state, zip string) (*models.Home, error) {
	h, ok := f.byAddress[address]
	if !ok {
		return nil, common.ErrNotFound
	}
	return h, nil
}

func (f *fakeHomesRepo) Create(ctx context.Context, home *models.Home) (*models.Home, error) {
	home.ID = "h-new"
	f.created = append(f.created, home)
	if f.byID == nil {
		f.byID = map[string]*models.Home{}
	}
	f.byID[home.ID] = home
	return home, nil
}

func (f *fakeHomesRepo) SetDataSource(ctx context.Context, homeID, source string) error {
	if f.dataSource == nil {
		f.dataSource = map[string]string{}
	}
	f.dataSource[homeID] = source
	return nil
}

type fakeAccessRepo struct {
	access.Repository
	grants   map[string]*models.AccessGrant // keyed homeID+"/"+userID
	upserts  []string
	migrated []string
}

func (f *fakeAccessRepo) Get(ctx context.Context, homeID, userID string) (*models.AccessGrant, error) {
	g, ok := f.grants[homeID+"/"+userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return g, nil
}

func (f *fakeAccessRepo) Upsert(ctx context.Context, homeID, userID, role string) error {
	f.upserts = append(f.upserts, homeID+"/"+userID+"/"+role)
	return nil
}

func (f *fakeAccessRepo) SetMigratedAt(ctx context.Context, homeID, userID string) error {
	f.migrated = append(f.migrated, homeID+"/"+userID)
	return nil
}

type fakeRecordsRepo struct {
	records.Repository
	byID    map[string]*models.Record
	listed  []*models.Record
	created []*models.Record
}

func (f *fakeRecordsRepo) ListByHome(ctx context.Context, homeID string) ([]*models.Record, error) {
	return f.listed, nil
}

func (f *fakeRecordsRepo) GetByID(ctx context.Context, id string) (*models.Record, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return r, nil
}

func (f *fakeRecordsRepo) Create(ctx context.Context, record *models.Record) (*models.Record, error) {
	record.ID = "r-new"
	f.created = append(f.created, record)
	return record, nil
}

type fakeRemindersRepo struct {
	reminders.Repository
	byID    map[string]*models.Reminder
	created []*models.Reminder
}

func (f *fakeRemindersRepo) GetByID(ctx context.Context, id string) (*models.Reminder, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return r, nil
}

func (f *fakeRemindersRepo) Create(ctx context.Context, reminder *models.Reminder) (*models.Reminder, error) {
	reminder.ID = "m-new"
	f.created = append(f.created, reminder)
	return reminder, nil
}

type fakeWarrantiesRepo struct {
	warranties.Repository
	byID    map[string]*models.Warranty
	created []*models.Warranty
}

func (f *fakeWarrantiesRepo) GetByID(ctx context.Context, id string) (*models.Warranty, error) {
	w, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return w, nil
}

func (f *fakeWarrantiesRepo) Create(ctx context.Context, warranty *models.Warranty) (*models.Warranty, error) {
	warranty.ID = "w-new"
	f.created = append(f.created, warranty)
	return warranty, nil
}

type fakeAttachmentsRepo struct {
	attachments.Repository
	inserted  []*models.Attachment
	createErr error
}

func (f *fakeAttachmentsRepo) CreateBatch(ctx context.Context, items []*models.Attachment) (int, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.inserted = append(f.inserted, items...)
	return len(items), nil
}

type fakeRefreshRepo struct {
	refreshtokens.Repository
	tokens  map[string]*models.RefreshToken
	created []string
	deleted []string
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID, token string, validity time.Duration) error {
	f.created = append(f.created, token)
	return nil
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	t, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrNotFound
	}
	return t, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	f.deleted = append(f.deleted, token)
	return nil
}

type fakeRepoManager struct {
	repomanager.RepositoryManager
	u   *fakeUsersRepo
	h   *fakeHomesRepo
	a   *fakeAccessRepo
	rec *fakeRecordsRepo
	rem *fakeRemindersRepo
	w   *fakeWarrantiesRepo
	att *fakeAttachmentsRepo
	rt  *fakeRefreshRepo
}

func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository               { return m.u }
func (m *fakeRepoManager) Homes(db dbx.DBTX) homes.Repository               { return m.h }
func (m *fakeRepoManager) Access(db dbx.DBTX) access.Repository             { return m.a }
func (m *fakeRepoManager) Records(db dbx.DBTX) records.Repository           { return m.rec }
func (m *fakeRepoManager) Reminders(db dbx.DBTX) reminders.Repository       { return m.rem }
func (m *fakeRepoManager) Warranties(db dbx.DBTX) warranties.Repository     { return m.w }
func (m *fakeRepoManager) Attachments(db dbx.DBTX) attachments.Repository   { return m.att }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return m.rt
}

// -------- helpers --------

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u:   &fakeUsersRepo{byEmail: map[string]*models.User{}},
		h:   &fakeHomesRepo{byID: map[string]*models.Home{}, byAddress: map[string]*models.Home{}},
		a:   &fakeAccessRepo{grants: map[string]*models.AccessGrant{}},
		rec: &fakeRecordsRepo{byID: map[string]*models.Record{}},
		rem: &fakeRemindersRepo{byID: map[string]*models.Reminder{}},
		w:   &fakeWarrantiesRepo{byID: map[string]*models.Warranty{}},
		att: &fakeAttachmentsRepo{},
		rt:  &fakeRefreshRepo{tokens: map[string]*models.RefreshToken{}},
	}
}

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testGate(m *fakeRepoManager) *authz.AccessGate {
	return authz.NewAccessGate(m.h, m.a, testLogger())
}
