// Package authz decides whether a principal may act on a home. Every
// home-scoped operation runs through the AccessGate before any data is
// read or written.
package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/akarpov87/homehistory/internal/common"
	"github.com/akarpov87/homehistory/internal/logging"
	"github.com/akarpov87/homehistory/internal/server/models"
	"github.com/akarpov87/homehistory/internal/server/repositories/access"
	"github.com/akarpov87/homehistory/internal/server/repositories/homes"
)

// AccessGate checks home-level access for a principal. Checks are
// evaluated in a fixed order so that callers cannot distinguish a home
// they are not allowed to see from one that does not exist only after
// the existence check itself has passed.
type AccessGate struct {
	homes  homes.Repository
	access access.Repository
	logger logging.Logger
}

// NewAccessGate constructs a gate over the given repositories.
func NewAccessGate(homeRepo homes.Repository, accessRepo access.Repository, logger logging.Logger) *AccessGate {
	return &AccessGate{homes: homeRepo, access: accessRepo, logger: logger}
}

// CheckAccess verifies that principalID may act on homeID and returns the
// home on success. The checks run in this order, each one short-circuiting:
//
//  1. empty homeID        -> common.ErrBadRequest
//  2. empty principalID   -> common.ErrUnauthorized
//  3. home does not exist -> common.ErrNotFound
//  4. principal owns home -> allowed
//  5. grant exists        -> allowed
//  6. otherwise           -> common.ErrForbidden
func (g *AccessGate) CheckAccess(ctx context.Context, homeID, principalID string) (*models.Home, error) {
	if homeID == "" {
		return nil, fmt.Errorf("%w: homeId is required", common.ErrBadRequest)
	}
	if principalID == "" {
		return nil, common.ErrUnauthorized
	}

	home, err := g.homes.GetByID(ctx, homeID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		g.logger.Error(ctx, "home lookup failed", "home_id", homeID, "error", err)
		return nil, err
	}

	if home.OwnerID == principalID {
		return home, nil
	}

	_, err = g.access.Get(ctx, homeID, principalID)
	if err == nil {
		return home, nil
	}
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrForbidden
	}
	g.logger.Error(ctx, "access grant lookup failed", "home_id", homeID, "user_id", principalID, "error", err)
	return nil, err
}
