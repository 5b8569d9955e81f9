package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/akarpov87/homehistory/internal/common"
	"github.com/akarpov87/homehistory/internal/dbx"
	"github.com/akarpov87/homehistory/internal/logging"
	"github.com/akarpov87/homehistory/internal/server/auth"
	"github.com/akarpov87/homehistory/internal/server/authz"
	"github.com/akarpov87/homehistory/internal/server/config"
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
	"github.com/akarpov87/homehistory/internal/server/services"
)

const testSecret = "api-test-secret"

// -------- repo fakes --------

type memUsersRepo struct {
	users.Repository
	byEmail map[string]*models.User
}

func (f *memUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if _, dup := f.byEmail[u.Email]; dup {
		return nil, common.ErrAlreadyExists
	}
	u.ID = "u-" + u.Email
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *memUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

func (f *memUsersRepo) List(ctx context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.byEmail {
		out = append(out, u)
	}
	return out, nil
}

func (f *memUsersRepo) SetLastHome(ctx context.Context, userID, homeID string) error { return nil }

type memHomesRepo struct {
	homes.Repository
	byID map[string]*models.Home
}

func (f *memHomesRepo) GetByID(ctx context.Context, id string) (*models.Home, error) {
	h, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return h, nil
}

func (f *memHomesRepo) FindByOwnerAddress(ctx context.Context, ownerID, address, city, state, zip string) (*models.Home, error) {
	for _, h := range f.byID {
		if h.OwnerID == ownerID && h.Address == address {
			return h, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *memHomesRepo) Create(ctx context.Context, home *models.Home) (*models.Home, error) {
	home.ID = "h-" + strings.ReplaceAll(home.Address, " ", "_")
	f.byID[home.ID] = home
	return home, nil
}

func (f *memHomesRepo) SetDataSource(ctx context.Context, homeID, source string) error { return nil }

type memAccessRepo struct {
	access.Repository
	grants map[string]*models.AccessGrant
}

func (f *memAccessRepo) Get(ctx context.Context, homeID, userID string) (*models.AccessGrant, error) {
	g, ok := f.grants[homeID+"/"+userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return g, nil
}

func (f *memAccessRepo) Upsert(ctx context.Context, homeID, userID, role string) error {
	f.grants[homeID+"/"+userID] = &models.AccessGrant{HomeID: homeID, UserID: userID, Role: role}
	return nil
}

func (f *memAccessRepo) SetMigratedAt(ctx context.Context, homeID, userID string) error {
	now := time.Now()
	g, ok := f.grants[homeID+"/"+userID]
	if !ok {
		g = &models.AccessGrant{HomeID: homeID, UserID: userID, Role: models.GrantRoleOwner}
		f.grants[homeID+"/"+userID] = g
	}
	g.MigratedAt = &now
	return nil
}

type memRecordsRepo struct {
	records.Repository
	byID map[string]*models.Record
}

func (f *memRecordsRepo) ListByHome(ctx context.Context, homeID string) ([]*models.Record, error) {
	var out []*models.Record
	for _, r := range f.byID {
		if r.HomeID == homeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *memRecordsRepo) GetByID(ctx context.Context, id string) (*models.Record, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return r, nil
}

func (f *memRecordsRepo) Create(ctx context.Context, r *models.Record) (*models.Record, error) {
	r.ID = "r-" + r.Title
	f.byID[r.ID] = r
	return r, nil
}

func (f *memRecordsRepo) Update(ctx context.Context, id, homeID string, p records.UpdateParams) error {
	r, ok := f.byID[id]
	if !ok || r.HomeID != homeID {
		return common.ErrNotFound
	}
	if p.Title != nil {
		r.Title = *p.Title
	}
	return nil
}

func (f *memRecordsRepo) Delete(ctx context.Context, id, homeID string) error {
	r, ok := f.byID[id]
	if !ok || r.HomeID != homeID {
		return common.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type memRemindersRepo struct {
	reminders.Repository
	byID map[string]*models.Reminder
}

func (f *memRemindersRepo) GetByID(ctx context.Context, id string) (*models.Reminder, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return r, nil
}

func (f *memRemindersRepo) ListByHome(ctx context.Context, homeID string) ([]*models.Reminder, error) {
	return nil, nil
}

func (f *memRemindersRepo) Create(ctx context.Context, r *models.Reminder) (*models.Reminder, error) {
	r.ID = "m-" + r.Title
	f.byID[r.ID] = r
	return r, nil
}

type memWarrantiesRepo struct {
	warranties.Repository
	byID map[string]*models.Warranty
}

func (f *memWarrantiesRepo) GetByID(ctx context.Context, id string) (*models.Warranty, error) {
	w, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return w, nil
}

func (f *memWarrantiesRepo) ListByHome(ctx context.Context, homeID string) ([]*models.Warranty, error) {
	return nil, nil
}

func (f *memWarrantiesRepo) Create(ctx context.Context, w *models.Warranty) (*models.Warranty, error) {
	w.ID = "w-" + w.Item
	f.byID[w.ID] = w
	return w, nil
}

func (f *memWarrantiesRepo) Delete(ctx context.Context, id, homeID string) error {
	w, ok := f.byID[id]
	if !ok || w.HomeID != homeID {
		return common.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type memAttachmentsRepo struct {
	attachments.Repository
	inserted  []*models.Attachment
	createErr error
}

func (f *memAttachmentsRepo) CreateBatch(ctx context.Context, items []*models.Attachment) (int, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.inserted = append(f.inserted, items...)
	return len(items), nil
}

type memRefreshRepo struct {
	refreshtokens.Repository
	tokens map[string]*models.RefreshToken
}

func (f *memRefreshRepo) Create(ctx context.Context, userID, token string, validity time.Duration) error {
	f.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (f *memRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	t, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrNotFound
	}
	return t, nil
}

func (f *memRefreshRepo) Delete(ctx context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

type memRepoManager struct {
	repomanager.RepositoryManager
	u   *memUsersRepo
	h   *memHomesRepo
	a   *memAccessRepo
	rec *memRecordsRepo
	rem *memRemindersRepo
	w   *memWarrantiesRepo
	att *memAttachmentsRepo
	rt  *memRefreshRepo
}

func (m *memRepoManager) Users(db dbx.DBTX) users.Repository             { return m.u }
func (m *memRepoManager) Homes(db dbx.DBTX) homes.Repository             { return m.h }
func (m *memRepoManager) Access(db dbx.DBTX) access.Repository           { return m.a }
func (m *memRepoManager) Records(db dbx.DBTX) records.Repository         { return m.rec }
func (m *memRepoManager) Reminders(db dbx.DBTX) reminders.Repository     { return m.rem }
func (m *memRepoManager) Warranties(db dbx.DBTX) warranties.Repository   { return m.w }
func (m *memRepoManager) Attachments(db dbx.DBTX) attachments.Repository { return m.att }
func (m *memRepoManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return m.rt
}

// -------- harness --------

type harness struct {
	router http.Handler
	mgr    *memRepoManager
	mock   sqlmock.Sqlmock
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	// transactions opened by services during tests
	mock.MatchExpectationsInOrder(false)

	mgr := &memRepoManager{
		u:   &memUsersRepo{byEmail: map[string]*models.User{}},
		h:   &memHomesRepo{byID: map[string]*models.Home{}},
		a:   &memAccessRepo{grants: map[string]*models.AccessGrant{}},
		rec: &memRecordsRepo{byID: map[string]*models.Record{}},
		rem: &memRemindersRepo{byID: map[string]*models.Reminder{}},
		w:   &memWarrantiesRepo{byID: map[string]*models.Warranty{}},
		att: &memAttachmentsRepo{},
		rt:  &memRefreshRepo{tokens: map[string]*models.RefreshToken{}},
	}

	cfg := &config.Config{
		SecretKey:                    testSecret,
		AccessTokenValidityDuration:  15 * time.Minute,
		RefreshTokenValidityDuration: 24 * time.Hour,
		S3Region:                     "us-east-1",
		S3AccessKeyID:                "minioadmin",
		S3SecretAccessKey:            "minioadmin",
		S3BaseEndpoint:               "http://127.0.0.1:9000",
		S3Bucket:                     "homehistory",
		UploadURLValidity:            60 * time.Second,
	}
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	gate := authz.NewAccessGate(mgr.h, mgr.a, logger)

	srv := NewServer(
		services.NewUserService(db, mgr, cfg),
		services.NewHomeService(db, mgr, gate, logger),
		services.NewHistoryService(db, mgr, gate),
		services.NewUploadService(db, mgr, gate, cfg, logger),
		services.NewPropertyService(services.StubPropertyProvider{}),
		cfg, logger,
	)
	return &harness{router: srv.Router(), mgr: mgr, mock: mock}
}

func (h *harness) expectTx() {
	h.mock.ExpectBegin()
	h.mock.ExpectCommit()
}

func (h *harness) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewBuffer(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set(common.AuthHeaderName, common.BearerPrefix+token)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, []byte(testSecret), time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func decodeResp(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}
