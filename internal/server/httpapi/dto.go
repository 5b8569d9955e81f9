package httpapi

import (
	"time"

	"github.com/akarpov87/homehistory/internal/server/models"
)

// Wire representations of the persisted models. Kept separate from the
// models so storage columns never leak onto the wire by accident.

type userDTO struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	LastHomeID string    `json:"lastHomeId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toUserDTO(u *models.User) userDTO {
	return userDTO{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		LastHomeID: u.LastHomeID,
		CreatedAt:  u.CreatedAt,
	}
}

type homeDTO struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"ownerId"`
	Address    string    `json:"address"`
	City       string    `json:"city,omitempty"`
	State      string    `json:"state,omitempty"`
	Zip        string    `json:"zip,omitempty"`
	DataSource string    `json:"dataSource,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toHomeDTO(h *models.Home) homeDTO {
	return homeDTO{
		ID:         h.ID,
		OwnerID:    h.OwnerID,
		Address:    h.Address,
		City:       h.City,
		State:      h.State,
		Zip:        h.Zip,
		DataSource: h.DataSource,
		CreatedAt:  h.CreatedAt,
	}
}

type recordDTO struct {
	ID        string    `json:"id"`
	HomeID    string    `json:"homeId"`
	Title     string    `json:"title"`
	Note      string    `json:"note,omitempty"`
	Kind      string    `json:"kind,omitempty"`
	Vendor    string    `json:"vendor,omitempty"`
	Cost      *float64  `json:"cost,omitempty"`
	Date      time.Time `json:"date"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

func toRecordDTO(r *models.Record) recordDTO {
	return recordDTO{
		ID:        r.ID,
		HomeID:    r.HomeID,
		Title:     r.Title,
		Note:      r.Note,
		Kind:      r.Kind,
		Vendor:    r.Vendor,
		Cost:      r.Cost,
		Date:      r.Date,
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
	}
}

type reminderDTO struct {
	ID        string    `json:"id"`
	HomeID    string    `json:"homeId"`
	Title     string    `json:"title"`
	DueAt     time.Time `json:"dueAt"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

func toReminderDTO(r *models.Reminder) reminderDTO {
	return reminderDTO{
		ID:        r.ID,
		HomeID:    r.HomeID,
		Title:     r.Title,
		DueAt:     r.DueAt,
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
	}
}

type warrantyDTO struct {
	ID        string     `json:"id"`
	HomeID    string     `json:"homeId"`
	Item      string     `json:"item"`
	Provider  string     `json:"provider,omitempty"`
	PolicyNo  string     `json:"policyNo,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

func toWarrantyDTO(w *models.Warranty) warrantyDTO {
	return warrantyDTO{
		ID:        w.ID,
		HomeID:    w.HomeID,
		Item:      w.Item,
		Provider:  w.Provider,
		PolicyNo:  w.PolicyNo,
		ExpiresAt: w.ExpiresAt,
		CreatedAt: w.CreatedAt,
	}
}

func toRecordDTOs(items []*models.Record) []recordDTO {
	out := make([]recordDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toRecordDTO(item))
	}
	return out
}

func toReminderDTOs(items []*models.Reminder) []reminderDTO {
	out := make([]reminderDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toReminderDTO(item))
	}
	return out
}

func toWarrantyDTOs(items []*models.Warranty) []warrantyDTO {
	out := make([]warrantyDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toWarrantyDTO(item))
	}
	return out
}

func toUserDTOs(items []*models.User) []userDTO {
	out := make([]userDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toUserDTO(item))
	}
	return out
}
