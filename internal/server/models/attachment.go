package models

import "time"

// Attachment is the metadata row for a file stored in object storage.
// The bytes themselves never pass through this application; clients
// upload them directly with a presigned URL and then register the
// metadata here.
type Attachment struct {
	ID         string
	HomeID     string
	Entity     EntityRef
	StorageKey string
	URL        string
	Filename   string
	MimeType   string
	Size       int64
	UploadedBy string
	CreatedAt  time.Time
}

// UploadCredential is a short-lived authorization to write one object
// to one storage key. It is never persisted; it exists only between
// issuance and either use or expiry.
type UploadCredential struct {
	StorageKey string
	// WriteURL is a presigned PUT URL scoped to StorageKey and the
	// declared content type.
	WriteURL string
	// ReadURL is a best-effort public GET URL, empty when no public
	// prefix is configured.
	ReadURL string
}
