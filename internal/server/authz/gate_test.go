package authz

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/akarpov87/homehistory/internal/common"
	"github.com/akarpov87/homehistory/internal/logging"
	"github.com/akarpov87/homehistory/internal/server/models"
)

type fakeHomeRepo struct {
	homes map[string]*models.Home
	err   error
}

func (f *fakeHomeRepo) Create(ctx context.Context, home *models.Home) (*models.Home, error) {
	return home, nil
}

func (f *fakeHomeRepo) GetByID(ctx context.Context, id string) (*models.Home, error) {
	if f.err != nil {
		return nil, f.err
	}
	home, ok := f.homes[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return home, nil
}

func (f *fakeHomeRepo) FindByOwnerAddress(ctx context.Context, ownerID, address, city, state, zip string) (*models.Home, error) {
	return nil, common.ErrNotFound
}

func (f *fakeHomeRepo) SetDataSource(ctx context.Context, homeID, source string) error {
	return nil
}

type fakeAccessRepo struct {
	grants map[string]*models.AccessGrant // keyed homeID+"/"+userID
	err    error
}

func (f *fakeAccessRepo) Get(ctx context.Context, homeID, userID string) (*models.AccessGrant, error) {
	if f.err != nil {
		return nil, f.err
	}
	grant, ok := f.grants[homeID+"/"+userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return grant, nil
}

func (f *fakeAccessRepo) Upsert(ctx context.Context, homeID, userID, role string) error {
	return nil
}

func (f *fakeAccessRepo) SetMigratedAt(ctx context.Context, homeID, userID string) error {
	return nil
}

func newGate(homeRepo *fakeHomeRepo, accessRepo *fakeAccessRepo) *AccessGate {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewAccessGate(homeRepo, accessRepo, logger)
}

func TestCheckAccess_MissingHomeID(t *testing.T) {
	gate := newGate(&fakeHomeRepo{}, &fakeAccessRepo{})

	_, err := gate.CheckAccess(context.Background(), "", "u1")
	if !errors.Is(err, common.ErrBadRequest) {
		t.Fatalf("want ErrBadRequest, got %v", err)
	}
}

func TestCheckAccess_MissingPrincipal(t *testing.T) {
	gate := newGate(&fakeHomeRepo{}, &fakeAccessRepo{})

	_, err := gate.CheckAccess(context.Background(), "h1", "")
	if !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
}

// A missing home ID outranks a missing principal.
func TestCheckAccess_MissingBoth(t *testing.T) {
	gate := newGate(&fakeHomeRepo{}, &fakeAccessRepo{})

	_, err := gate.CheckAccess(context.Background(), "", "")
	if !errors.Is(err, common.ErrBadRequest) {
		t.Fatalf("want ErrBadRequest, got %v", err)
	}
}

func TestCheckAccess_HomeNotFound(t *testing.T) {
	gate := newGate(&fakeHomeRepo{homes: map[string]*models.Home{}}, &fakeAccessRepo{})

	_, err := gate.CheckAccess(context.Background(), "missing", "u1")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestCheckAccess_OwnerAllowed(t *testing.T) {
	homeRepo := &fakeHomeRepo{homes: map[string]*models.Home{
		"h1": {ID: "h1", OwnerID: "u1"},
	}}
	// no grant row needed for the owner
	gate := newGate(homeRepo, &fakeAccessRepo{grants: map[string]*models.AccessGrant{}})

	home, err := gate.CheckAccess(context.Background(), "h1", "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if home.ID != "h1" {
		t.Fatalf("want home h1, got %+v", home)
	}
}

func TestCheckAccess_GrantAllowed(t *testing.T) {
	homeRepo := &fakeHomeRepo{homes: map[string]*models.Home{
		"h1": {ID: "h1", OwnerID: "u1"},
	}}
	accessRepo := &fakeAccessRepo{grants: map[string]*models.AccessGrant{
		"h1/u2": {ID: "g1", HomeID: "h1", UserID: "u2", Role: models.GrantRoleViewer},
	}}
	gate := newGate(homeRepo, accessRepo)

	home, err := gate.CheckAccess(context.Background(), "h1", "u2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if home.ID != "h1" {
		t.Fatalf("want home h1, got %+v", home)
	}
}

func TestCheckAccess_StrangerForbidden(t *testing.T) {
	homeRepo := &fakeHomeRepo{homes: map[string]*models.Home{
		"h1": {ID: "h1", OwnerID: "u1"},
	}}
	gate := newGate(homeRepo, &fakeAccessRepo{grants: map[string]*models.AccessGrant{}})

	_, err := gate.CheckAccess(context.Background(), "h1", "stranger")
	if !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
}

// Existence is checked before authorization, so an unauthenticated caller
// never learns whether a home exists.
func TestCheckAccess_UnauthorizedBeforeExistence(t *testing.T) {
	gate := newGate(&fakeHomeRepo{homes: map[string]*models.Home{}}, &fakeAccessRepo{})

	_, err := gate.CheckAccess(context.Background(), "missing", "")
	if !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
}

func TestCheckAccess_RepoErrorPropagates(t *testing.T) {
	dbErr := errors.New("connection reset")
	gate := newGate(&fakeHomeRepo{err: dbErr}, &fakeAccessRepo{})

	_, err := gate.CheckAccess(context.Background(), "h1", "u1")
	if !errors.Is(err, dbErr) {
		t.Fatalf("want underlying db error, got %v", err)
	}
}
