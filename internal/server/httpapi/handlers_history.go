package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/akarpov87/homehistory/internal/server/models"
	"github.com/akarpov87/homehistory/internal/server/repositories/records"
)

type createRecordRequest struct {
	Title  string     `json:"title"`
	Note   string     `json:"note"`
	Kind   string     `json:"kind"`
	Vendor string     `json:"vendor"`
	Cost   *float64   `json:"cost"`
	Date   *time.Time `json:"date"`
}

type updateRecordRequest struct {
	Title *string    `json:"title"`
	Note  *string    `json:"note"`
	Kind  *string    `json:"kind"`
	Date  *time.Time `json:"date"`
}

type createReminderRequest struct {
	Title string     `json:"title"`
	DueAt *time.Time `json:"dueAt"`
}

type createWarrantyRequest struct {
	Item      string     `json:"item"`
	Provider  string     `json:"provider"`
	PolicyNo  string     `json:"policyNo"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	list, err := s.history.ListRecords(r.Context(), chi.URLParam(r, "homeId"), principalID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTOs(list))
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var req createRecordRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	record := &models.Record{
		Title:  req.Title,
		Note:   req.Note,
		Kind:   req.Kind,
		Vendor: req.Vendor,
		Cost:   req.Cost,
	}
	if req.Date != nil {
		record.Date = *req.Date
	}

	created, err := s.history.CreateRecord(r.Context(), chi.URLParam(r, "homeId"), principalID(r), record)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRecordDTO(created))
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	var req updateRecordRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	err := s.history.UpdateRecord(r.Context(), chi.URLParam(r, "homeId"), principalID(r),
		chi.URLParam(r, "recordId"), records.UpdateParams{
			Title: req.Title,
			Note:  req.Note,
			Kind:  req.Kind,
			Date:  req.Date,
		})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	err := s.history.DeleteRecord(r.Context(), chi.URLParam(r, "homeId"), principalID(r), chi.URLParam(r, "recordId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	list, err := s.history.ListReminders(r.Context(), chi.URLParam(r, "homeId"), principalID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReminderDTOs(list))
}

func (s *Server) handleCreateReminder(w http.ResponseWriter, r *http.Request) {
	var req createReminderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	reminder := &models.Reminder{Title: req.Title}
	if req.DueAt != nil {
		reminder.DueAt = *req.DueAt
	}

	created, err := s.history.CreateReminder(r.Context(), chi.URLParam(r, "homeId"), principalID(r), reminder)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReminderDTO(created))
}

func (s *Server) handleListWarranties(w http.ResponseWriter, r *http.Request) {
	list, err := s.history.ListWarranties(r.Context(), chi.URLParam(r, "homeId"), principalID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWarrantyDTOs(list))
}

func (s *Server) handleCreateWarranty(w http.ResponseWriter, r *http.Request) {
	var req createWarrantyRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	created, err := s.history.CreateWarranty(r.Context(), chi.URLParam(r, "homeId"), principalID(r), &models.Warranty{
		Item:      req.Item,
		Provider:  req.Provider,
		PolicyNo:  req.PolicyNo,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toWarrantyDTO(created))
}

func (s *Server) handleDeleteWarranty(w http.ResponseWriter, r *http.Request) {
	err := s.history.DeleteWarranty(r.Context(), chi.URLParam(r, "homeId"), principalID(r), chi.URLParam(r, "warrantyId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
