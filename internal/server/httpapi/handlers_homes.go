package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/akarpov87/homehistory/internal/server/services"
)

type claimRequest struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
}

type localRecordPayload struct {
	Title string     `json:"title"`
	Note  string     `json:"note"`
	Kind  string     `json:"kind"`
	Date  *time.Time `json:"date"`
}

type localReminderPayload struct {
	Title string     `json:"title"`
	DueAt *time.Time `json:"dueAt"`
}

type localWarrantyPayload struct {
	Item      string     `json:"item"`
	Provider  string     `json:"provider"`
	PolicyNo  string     `json:"policyNo"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

type migrateLocalRequest struct {
	Records    []localRecordPayload   `json:"records"`
	Reminders  []localReminderPayload `json:"reminders"`
	Warranties []localWarrantyPayload `json:"warranties"`
}

type migrateLocalResponse struct {
	Migrated   bool `json:"migrated"`
	Records    int  `json:"records"`
	Reminders  int  `json:"reminders"`
	Warranties int  `json:"warranties"`
}

func (s *Server) handleClaimHome(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	home, err := s.homes.Claim(r.Context(), principalID(r), &services.ClaimRequest{
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		Zip:     req.Zip,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHomeDTO(home))
}

func (s *Server) handleGetHome(w http.ResponseWriter, r *http.Request) {
	home, err := s.homes.Get(r.Context(), chi.URLParam(r, "homeId"), principalID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHomeDTO(home))
}

func (s *Server) handleMigrateLocal(w http.ResponseWriter, r *http.Request) {
	var req migrateLocalRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	data := &services.LocalData{}
	for _, rec := range req.Records {
		item := services.LocalRecord{Title: rec.Title, Note: rec.Note, Kind: rec.Kind}
		if rec.Date != nil {
			item.Date = *rec.Date
		}
		data.Records = append(data.Records, item)
	}
	for _, rem := range req.Reminders {
		item := services.LocalReminder{Title: rem.Title}
		if rem.DueAt != nil {
			item.DueAt = *rem.DueAt
		}
		data.Reminders = append(data.Reminders, item)
	}
	for _, wr := range req.Warranties {
		data.Warranties = append(data.Warranties, services.LocalWarranty{
			Item:      wr.Item,
			Provider:  wr.Provider,
			PolicyNo:  wr.PolicyNo,
			ExpiresAt: wr.ExpiresAt,
		})
	}

	result, err := s.homes.MigrateLocal(r.Context(), chi.URLParam(r, "homeId"), principalID(r), data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, migrateLocalResponse{
		Migrated:   result.Migrated,
		Records:    result.Records,
		Reminders:  result.Reminders,
		Warranties: result.Warranties,
	})
}

func (s *Server) handleMigrationStatus(w http.ResponseWriter, r *http.Request) {
	migrated, err := s.homes.MigrationStatus(r.Context(), chi.URLParam(r, "homeId"), principalID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"migrated": migrated})
}
