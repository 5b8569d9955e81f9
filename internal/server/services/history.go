package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/akarpov87/homehistory/internal/server/authz"
	"github.com/akarpov87/homehistory/internal/server/models"
	"github.com/akarpov87/homehistory/internal/server/repositories/records"
	"github.com/akarpov87/homehistory/internal/server/repositories/repomanager"
)

// HistoryService covers the per-home history entities: records,
// reminders, and warranties. Every operation is gated on home access
// for the calling principal.
type HistoryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	gate        *authz.AccessGate
}

// NewHistoryService constructs a HistoryService.
func NewHistoryService(db *sql.DB, m repomanager.RepositoryManager, gate *authz.AccessGate) *HistoryService {
	return &HistoryService{db: db, repomanager: m, gate: gate}
}

// ListRecords returns the home's records, newest event first.
func (s *HistoryService) ListRecords(ctx context.Context, homeID, principalID string) ([]*models.Record, error) {
	if _, err := s.gate.CheckAccess(ctx, homeID, principalID); err != nil {
		return nil, err
	}
	return s.repomanager.Records(s.db).ListByHome(ctx, homeID)
}

// CreateRecord creates a record, defaulting the title to "Untitled"
// and the event date to now.
func (s *HistoryService) CreateRecord(ctx context.Context, homeID, principalID string, record *models.Record) (*models.Record, error) {
	if _, err := s.gate.CheckAccess(ctx, homeID, principalID); err != nil {
		return nil, err
	}
	if record.Title == "" {
		record.Title = "Untitled"
	}
	if record.Date.IsZero() {
		record.Date = time.Now()
	}
	record.HomeID = homeID
	record.CreatedBy = principalID
	return s.repomanager.Records(s.db).Create(ctx, record)
}

// UpdateRecord applies a partial update. Updating a record that does
// not exist in the home yields ErrNotFound.
func (s *HistoryService) UpdateRecord(ctx context.Context, homeID, principalID, recordID string, p records.UpdateParams) error {
	if _, err := s.gate.CheckAccess(ctx, homeID, principalID); err != nil {
		return err
	}
	return s.repomanager.Records(s.db).Update(ctx, recordID, homeID, p)
}

// DeleteRecord removes a record from the home.
func (s *HistoryService) DeleteRecord(ctx context.Context, homeID, principalID, recordID string) error {
	if _, err := s.gate.CheckAccess(ctx, homeID, principalID); err != nil {
		return err
	}
	return s.repomanager.Records(s.db).Delete(ctx, recordID, homeID)
}

// ListReminders returns the home's reminders, soonest due first.
func (s *HistoryService) ListReminders(ctx context.Context, homeID, principalID string) ([]*models.Reminder, error) {
	if _, err := s.gate.CheckAccess(ctx, homeID, principalID); err != nil {
		return nil, err
	}
	return s.repomanager.Reminders(s.db).ListByHome(ctx, homeID)
}

// CreateReminder creates a reminder, defaulting the title to
// "Reminder" and the due time to now.
func (s *HistoryService) CreateReminder(ctx context.Context, homeID, principalID string, reminder *models.Reminder) (*models.Reminder, error) {
	if _, err := s.gate.CheckAccess(ctx, homeID, principalID); err != nil {
		return nil, err
	}
	if reminder.Title == "" {
		reminder.Title = "Reminder"
	}
	if reminder.DueAt.IsZero() {
		reminder.DueAt = time.Now()
	}
	reminder.HomeID = homeID
	reminder.CreatedBy = principalID
	return s.repomanager.Reminders(s.db).Create(ctx, reminder)
}

// ListWarranties returns the home's warranties, earliest expiry first.
func (s *HistoryService) ListWarranties(ctx context.Context, homeID, principalID string) ([]*models.Warranty, error) {
	if _, err := s.gate.CheckAccess(ctx, homeID, principalID); err != nil {
		return nil, err
	}
	return s.repomanager.Warranties(s.db).ListByHome(ctx, homeID)
}

// CreateWarranty creates a warranty, defaulting the item to "Item".
func (s *HistoryService) CreateWarranty(ctx context.Context, homeID, principalID string, warranty *models.Warranty) (*models.Warranty, error) {
	if _, err := s.gate.CheckAccess(ctx, homeID, principalID); err != nil {
		return nil, err
	}
	if warranty.Item == "" {
		warranty.Item = "Item"
	}
	warranty.HomeID = homeID
	return s.repomanager.Warranties(s.db).Create(ctx, warranty)
}

// DeleteWarranty removes a warranty from the home.
func (s *HistoryService) DeleteWarranty(ctx context.Context, homeID, principalID, warrantyID string) error {
	if _, err := s.gate.CheckAccess(ctx, homeID, principalID); err != nil {
		return err
	}
	return s.repomanager.Warranties(s.db).Delete(ctx, warrantyID, homeID)
}
