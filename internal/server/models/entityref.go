package models

import "github.com/akarpov87/homehistory/internal/common"

// EntityKind names the three home-scoped entity types that can carry
// attachments.
type EntityKind string

const (
	KindRecord   EntityKind = "records"
	KindReminder EntityKind = "reminders"
	KindWarranty EntityKind = "warranties"
)

// EntityRef identifies exactly one record, reminder, or warranty. It is
// constructed once at the request boundary so downstream code never has
// to re-check which of the three id fields was present.
type EntityRef struct {
	Kind EntityKind
	ID   string
}

// NewEntityRef builds an EntityRef from the three optional id fields of
// a request body. Exactly one of them must be non-empty; anything else
// is a bad request.
func NewEntityRef(recordID, reminderID, warrantyID string) (EntityRef, error) {
	var ref EntityRef
	n := 0
	if recordID != "" {
		ref = EntityRef{Kind: KindRecord, ID: recordID}
		n++
	}
	if reminderID != "" {
		ref = EntityRef{Kind: KindReminder, ID: reminderID}
		n++
	}
	if warrantyID != "" {
		ref = EntityRef{Kind: KindWarranty, ID: warrantyID}
		n++
	}
	if n != 1 {
		return EntityRef{}, common.ErrBadRequest
	}
	return ref, nil
}
