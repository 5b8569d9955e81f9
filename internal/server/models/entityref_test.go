package models

import (
	"errors"
	"testing"

	"github.com/akarpov87/homehistory/internal/common"
)

func TestNewEntityRef(t *testing.T) {
	tests := []struct {
		name                             string
		recordID, reminderID, warrantyID string
		wantKind                         EntityKind
		wantErr                          bool
	}{
		{name: "record", recordID: "r1", wantKind: KindRecord},
		{name: "reminder", reminderID: "m1", wantKind: KindReminder},
		{name: "warranty", warrantyID: "w1", wantKind: KindWarranty},
		{name: "none", wantErr: true},
		{name: "two set", recordID: "r1", reminderID: "m1", wantErr: true},
		{name: "all set", recordID: "r1", reminderID: "m1", warrantyID: "w1", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ref, err := NewEntityRef(tc.recordID, tc.reminderID, tc.warrantyID)
			if tc.wantErr {
				if !errors.Is(err, common.ErrBadRequest) {
					t.Fatalf("want ErrBadRequest, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ref.Kind != tc.wantKind {
				t.Fatalf("want kind %s, got %s", tc.wantKind, ref.Kind)
			}
		})
	}
}
