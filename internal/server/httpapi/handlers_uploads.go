package httpapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/akarpov87/homehistory/internal/common"
	"github.com/akarpov87/homehistory/internal/server/models"
	"github.com/akarpov87/homehistory/internal/server/services"
)

// presignRequest carries Size as a pointer so an absent size can be told
// apart from an explicit zero; a body without a size is rejected.
type presignRequest struct {
	HomeID      string   `json:"homeId"`
	Filename    string   `json:"filename"`
	ContentType string   `json:"contentType"`
	MimeType    string   `json:"mimeType"`
	Size        *float64 `json:"size"`
	RecordID    string   `json:"recordId"`
	ReminderID  string   `json:"reminderId"`
	WarrantyID  string   `json:"warrantyId"`
}

type presignResponse struct {
	Key       string `json:"key"`
	URL       string `json:"url"`
	PublicURL string `json:"publicUrl"`
}

type attachmentPayload struct {
	Filename    string  `json:"filename"`
	StorageKey  string  `json:"storageKey"`
	ContentType string  `json:"contentType"`
	MimeType    string  `json:"mimeType"`
	Size        float64 `json:"size"`
	URL         string  `json:"url"`
}

func (s *Server) handlePresign(w http.ResponseWriter, r *http.Request) {
	var req presignRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Size == nil {
		writeError(w, fmt.Errorf("%w: size is required", common.ErrBadRequest))
		return
	}

	cred, err := s.uploads.RequestUploadCredential(r.Context(), principalID(r), &services.PresignRequest{
		HomeID:      req.HomeID,
		Filename:    req.Filename,
		ContentType: req.ContentType,
		MimeType:    req.MimeType,
		Size:        *req.Size,
		RecordID:    req.RecordID,
		ReminderID:  req.ReminderID,
		WarrantyID:  req.WarrantyID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presignResponse{
		Key:       cred.StorageKey,
		URL:       cred.WriteURL,
		PublicURL: cred.ReadURL,
	})
}

// entityRefFromURL builds the attachment target from whichever entity id
// segment the matched route carries.
func entityRefFromURL(r *http.Request) (models.EntityRef, error) {
	return models.NewEntityRef(
		chi.URLParam(r, "recordId"),
		chi.URLParam(r, "reminderId"),
		chi.URLParam(r, "warrantyId"),
	)
}

func (s *Server) handlePersistAttachments(w http.ResponseWriter, r *http.Request) {
	ref, err := entityRefFromURL(r)
	if err != nil {
		writeError(w, err)
		return
	}

	// the body is a bare JSON array of attachment objects
	var payload []attachmentPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	items := make([]*services.AttachmentInput, 0, len(payload))
	for _, a := range payload {
		items = append(items, &services.AttachmentInput{
			Filename:    a.Filename,
			StorageKey:  a.StorageKey,
			ContentType: a.ContentType,
			MimeType:    a.MimeType,
			Size:        a.Size,
			URL:         a.URL,
		})
	}

	homeID := chi.URLParam(r, "homeId")
	if _, err := s.homes.Get(r.Context(), homeID, principalID(r)); err != nil {
		writeError(w, err)
		return
	}

	count, err := s.uploads.PersistAttachments(r.Context(), principalID(r), homeID, ref, items)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "count": count})
}
