package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/akarpov87/homehistory/internal/common"
	"github.com/akarpov87/homehistory/internal/dbx"
	"github.com/akarpov87/homehistory/internal/logging"
	"github.com/akarpov87/homehistory/internal/server/authz"
	"github.com/akarpov87/homehistory/internal/server/models"
	"github.com/akarpov87/homehistory/internal/server/repositories/repomanager"
)

// ClaimRequest identifies a home by its address fields.
type ClaimRequest struct {
	Address string
	City    string
	State   string
	Zip     string
}

// LocalRecord is one locally captured history record offered for import.
type LocalRecord struct {
	Title string
	Note  string
	Kind  string
	Date  time.Time
}

// LocalReminder is one locally captured reminder offered for import.
type LocalReminder struct {
	Title string
	DueAt time.Time
}

// LocalWarranty is one locally captured warranty offered for import.
type LocalWarranty struct {
	Item      string
	Provider  string
	PolicyNo  string
	ExpiresAt *time.Time
}

// LocalData is the full payload of a local-data migration request.
type LocalData struct {
	Records    []LocalRecord
	Reminders  []LocalReminder
	Warranties []LocalWarranty
}

// MigrationResult reports what a migrate-local call did.
type MigrationResult struct {
	Migrated   bool
	Records    int
	Reminders  int
	Warranties int
}

// HomeService handles home claiming, lookup, and one-time import of
// locally captured data.
type HomeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	gate        *authz.AccessGate
	logger      logging.Logger
}

// NewHomeService constructs a HomeService.
func NewHomeService(db *sql.DB, m repomanager.RepositoryManager, gate *authz.AccessGate, logger logging.Logger) *HomeService {
	return &HomeService{db: db, repomanager: m, gate: gate, logger: logger}
}

// Claim finds or creates the home at the given address for userID,
// ensures an owner grant exists, and remembers the home as the user's
// last opened one. Claiming the same address twice returns the same
// home. Runs in one transaction.
func (s *HomeService) Claim(ctx context.Context, userID string, req *ClaimRequest) (*models.Home, error) {
	if userID == "" {
		return nil, common.ErrUnauthorized
	}
	if req.Address == "" {
		return nil, fmt.Errorf("%w: address is required", common.ErrBadRequest)
	}

	var home *models.Home
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		homeRepo := s.repomanager.Homes(tx)

		existing, err := homeRepo.FindByOwnerAddress(ctx, userID, req.Address, req.City, req.State, req.Zip)
		switch {
		case err == nil:
			home = existing
		case errors.Is(err, common.ErrNotFound):
			home, err = homeRepo.Create(ctx, &models.Home{
				OwnerID: userID,
				Address: req.Address,
				City:    req.City,
				State:   req.State,
				Zip:     req.Zip,
			})
			if err != nil {
				return fmt.Errorf("error creating home: %w", err)
			}
		default:
			return fmt.Errorf("error looking up home: %w", err)
		}

		if err := s.repomanager.Access(tx).Upsert(ctx, home.ID, userID, models.GrantRoleOwner); err != nil {
			return fmt.Errorf("error upserting owner grant: %w", err)
		}
		return s.repomanager.Users(tx).SetLastHome(ctx, userID, home.ID)
	})
	if err != nil {
		s.logger.Error(ctx, "home claim failed", "user_id", userID, "error", err)
		return nil, err
	}
	return home, nil
}

// Get returns the home after an access check.
func (s *HomeService) Get(ctx context.Context, homeID, principalID string) (*models.Home, error) {
	return s.gate.CheckAccess(ctx, homeID, principalID)
}

// MigrateLocal imports locally captured records, reminders, and
// warranties into the home. The import is idempotent per user: once
// the caller's grant carries a migrated-at stamp, subsequent calls are
// no-ops. Everything runs in a single transaction, which also stamps
// the grant and marks the home's data source.
func (s *HomeService) MigrateLocal(ctx context.Context, homeID, principalID string, data *LocalData) (*MigrationResult, error) {
	if _, err := s.gate.CheckAccess(ctx, homeID, principalID); err != nil {
		return nil, err
	}

	grant, err := s.repomanager.Access(s.db).Get(ctx, homeID, principalID)
	if err == nil && grant.MigratedAt != nil {
		return &MigrationResult{Migrated: false}, nil
	}
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	result := &MigrationResult{Migrated: true}
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		recordRepo := s.repomanager.Records(tx)
		for _, r := range data.Records {
			title := r.Title
			if title == "" {
				title = "Untitled"
			}
			date := r.Date
			if date.IsZero() {
				date = time.Now()
			}
			if _, err := recordRepo.Create(ctx, &models.Record{
				HomeID:    homeID,
				Title:     title,
				Note:      r.Note,
				Kind:      r.Kind,
				Date:      date,
				CreatedBy: principalID,
			}); err != nil {
				return err
			}
			result.Records++
		}

		reminderRepo := s.repomanager.Reminders(tx)
		for _, r := range data.Reminders {
			title := r.Title
			if title == "" {
				title = "Reminder"
			}
			due := r.DueAt
			if due.IsZero() {
				due = time.Now()
			}
			if _, err := reminderRepo.Create(ctx, &models.Reminder{
				HomeID:    homeID,
				Title:     title,
				DueAt:     due,
				CreatedBy: principalID,
			}); err != nil {
				return err
			}
			result.Reminders++
		}

		warrantyRepo := s.repomanager.Warranties(tx)
		for _, w := range data.Warranties {
			item := w.Item
			if item == "" {
				item = "Item"
			}
			if _, err := warrantyRepo.Create(ctx, &models.Warranty{
				HomeID:    homeID,
				Item:      item,
				Provider:  w.Provider,
				PolicyNo:  w.PolicyNo,
				ExpiresAt: w.ExpiresAt,
			}); err != nil {
				return err
			}
			result.Warranties++
		}

		if err := s.repomanager.Access(tx).SetMigratedAt(ctx, homeID, principalID); err != nil {
			return err
		}
		return s.repomanager.Homes(tx).SetDataSource(ctx, homeID, "Local")
	})
	if err != nil {
		s.logger.Error(ctx, "local migration failed", "home_id", homeID, "error", err)
		return nil, fmt.Errorf("error migrating local data: %w", err)
	}
	return result, nil
}

// MigrationStatus reports whether the caller has already migrated
// local data into the home.
func (s *HomeService) MigrationStatus(ctx context.Context, homeID, principalID string) (bool, error) {
	if _, err := s.gate.CheckAccess(ctx, homeID, principalID); err != nil {
		return false, err
	}
	grant, err := s.repomanager.Access(s.db).Get(ctx, homeID, principalID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return grant.MigratedAt != nil, nil
}
