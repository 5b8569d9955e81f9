package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/akarpov87/homehistory/internal/common"
	"github.com/akarpov87/homehistory/internal/dbx"
	"github.com/akarpov87/homehistory/internal/logging"
	"github.com/akarpov87/homehistory/internal/server/authz"
	sc "github.com/akarpov87/homehistory/internal/server/config"
	"github.com/akarpov87/homehistory/internal/server/models"
	"github.com/akarpov87/homehistory/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// unsafeKeyChars matches every byte that may not appear in a storage key
// filename component.
var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// PresignRequest is the input for phase 1 of the upload flow. RecordID,
// ReminderID, and WarrantyID are mutually exclusive; exactly one must be
// set. MimeType is a legacy alias for ContentType and loses when both
// are present.
type PresignRequest struct {
	HomeID      string
	Filename    string
	ContentType string
	MimeType    string
	Size        float64
	RecordID    string
	ReminderID  string
	WarrantyID  string
}

// AttachmentInput is one item of a phase-3 metadata batch.
type AttachmentInput struct {
	Filename    string
	StorageKey  string
	ContentType string
	MimeType    string
	Size        float64
	URL         string
}

// UploadService coordinates the three-phase attachment upload:
// issue a presigned write credential, let the client transfer the bytes
// directly to object storage, then persist the metadata. Phase 2 never
// touches this server. There is no distributed transaction across the
// phases; a failed phase 3 leaves an unreferenced object behind, which
// is accepted.
type UploadService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	gate        *authz.AccessGate
	config      *sc.Config
	logger      logging.Logger
}

// NewUploadService constructs an UploadService.
func NewUploadService(db *sql.DB, m repomanager.RepositoryManager, gate *authz.AccessGate, cfg *sc.Config, logger logging.Logger) *UploadService {
	return &UploadService{db: db, repomanager: m, gate: gate, config: cfg, logger: logger}
}

// BuildStorageKey derives the object key for one upload. The filename is
// sanitized to [a-zA-Z0-9._-] and prefixed with the current millisecond
// timestamp plus a random component, so two uploads of the same file in
// the same millisecond still get distinct keys.
func BuildStorageKey(homeID string, kind models.EntityKind, entityID, filename string) string {
	safe := unsafeKeyChars.ReplaceAllString(filename, "_")
	return fmt.Sprintf("homes/%s/%s/%s/%d_%s_%s", homeID, kind, entityID, time.Now().UnixMilli(), uuid.New(), safe)
}

// contentTypeOf resolves the declared content type, preferring the
// canonical field over the legacy mimeType alias.
func contentTypeOf(contentType, mimeType string) string {
	if contentType != "" {
		return contentType
	}
	return mimeType
}

// publicReadURL derives the public GET URL for a storage key. When no
// prefix is configured the AWS virtual-hosted bucket URL is used.
func (s *UploadService) publicReadURL(key string) string {
	prefix := s.config.PublicURLPrefix
	if prefix == "" {
		prefix = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", s.config.S3Bucket, s.config.S3Region)
	}
	return strings.TrimSuffix(prefix, "/") + "/" + key
}

func (s *UploadService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3AccessKeyID,
			s.config.S3SecretAccessKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		}
	})

	return newS3PresignClient(client), nil
}

// RequestUploadCredential implements phase 1. It validates the request,
// checks home access for the principal, and returns a short-lived
// presigned PUT URL scoped to a freshly derived storage key and the
// declared content type. Issuing a credential writes nothing; an unused
// credential simply expires.
func (s *UploadService) RequestUploadCredential(ctx context.Context, principalID string, req *PresignRequest) (*models.UploadCredential, error) {
	if req.Filename == "" {
		return nil, fmt.Errorf("%w: filename is required", common.ErrBadRequest)
	}
	contentType := contentTypeOf(req.ContentType, req.MimeType)
	if contentType == "" {
		return nil, fmt.Errorf("%w: contentType is required", common.ErrBadRequest)
	}
	if req.Size < 0 {
		return nil, fmt.Errorf("%w: size must not be negative", common.ErrBadRequest)
	}
	ref, err := models.NewEntityRef(req.RecordID, req.ReminderID, req.WarrantyID)
	if err != nil {
		return nil, fmt.Errorf("%w: exactly one of recordId, reminderId, warrantyId is required", common.ErrBadRequest)
	}

	if _, err := s.gate.CheckAccess(ctx, req.HomeID, principalID); err != nil {
		return nil, err
	}

	key := BuildStorageKey(req.HomeID, ref.Kind, ref.ID, req.Filename)

	presignClient, err := s.getPresignClient()
	if err != nil {
		s.logger.Error(ctx, "presign client setup failed", "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrTransferFailed, err)
	}

	bucket := s.config.S3Bucket
	req2, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: &contentType,
	}, s3.WithPresignExpires(s.config.UploadURLValidity))
	if err != nil {
		s.logger.Error(ctx, "presign put failed", "storage_key", key, "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrTransferFailed, err)
	}

	return &models.UploadCredential{
		StorageKey: key,
		WriteURL:   req2.URL,
		ReadURL:    s.publicReadURL(key),
	}, nil
}

// clampSize floors a declared size and clamps it at zero.
func clampSize(size float64) int64 {
	floored := math.Floor(size)
	if floored < 0 || math.IsNaN(floored) {
		return 0
	}
	return int64(floored)
}

// PersistAttachments implements phase 3. The target entity must exist
// and belong to homeID; a mismatch reads the same as a missing entity.
// The batch is all-or-nothing: one malformed item rejects the whole
// request before anything is written, and the inserts run in a single
// transaction. Returns the number of rows written.
func (s *UploadService) PersistAttachments(ctx context.Context, principalID, homeID string, ref models.EntityRef, items []*AttachmentInput) (int, error) {
	if len(items) == 0 {
		return 0, fmt.Errorf("%w: attachments array is required", common.ErrBadRequest)
	}

	if err := s.checkEntityInHome(ctx, homeID, ref); err != nil {
		return 0, err
	}

	rows := make([]*models.Attachment, 0, len(items))
	for _, item := range items {
		contentType := contentTypeOf(item.ContentType, item.MimeType)
		if item.Filename == "" || item.StorageKey == "" || contentType == "" {
			return 0, fmt.Errorf("%w: each attachment needs filename, storageKey and contentType", common.ErrBadRequest)
		}
		url := item.URL
		if url == "" {
			url = s.publicReadURL(item.StorageKey)
		}
		rows = append(rows, &models.Attachment{
			HomeID:     homeID,
			Entity:     ref,
			StorageKey: item.StorageKey,
			URL:        url,
			Filename:   item.Filename,
			MimeType:   contentType,
			Size:       clampSize(item.Size),
			UploadedBy: principalID,
		})
	}

	count := 0
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := s.repomanager.Attachments(tx).CreateBatch(ctx, rows)
		count = n
		return err
	})
	if err != nil {
		s.logger.Error(ctx, "attachment batch persist failed", "home_id", homeID, "error", err)
		return 0, fmt.Errorf("%w: %v", common.ErrPersistFailed, err)
	}
	return count, nil
}

// ListAttachments returns the stored metadata for one entity, after
// verifying the entity belongs to the home.
func (s *UploadService) ListAttachments(ctx context.Context, homeID string, ref models.EntityRef) ([]*models.Attachment, error) {
	if err := s.checkEntityInHome(ctx, homeID, ref); err != nil {
		return nil, err
	}
	return s.repomanager.Attachments(s.db).ListByEntity(ctx, ref)
}

// checkEntityInHome loads the referenced entity and verifies it belongs
// to homeID. A wrong-home entity yields ErrNotFound, not ErrForbidden.
func (s *UploadService) checkEntityInHome(ctx context.Context, homeID string, ref models.EntityRef) error {
	var entityHomeID string
	var err error
	switch ref.Kind {
	case models.KindRecord:
		var rec *models.Record
		if rec, err = s.repomanager.Records(s.db).GetByID(ctx, ref.ID); err == nil {
			entityHomeID = rec.HomeID
		}
	case models.KindReminder:
		var rem *models.Reminder
		if rem, err = s.repomanager.Reminders(s.db).GetByID(ctx, ref.ID); err == nil {
			entityHomeID = rem.HomeID
		}
	case models.KindWarranty:
		var w *models.Warranty
		if w, err = s.repomanager.Warranties(s.db).GetByID(ctx, ref.ID); err == nil {
			entityHomeID = w.HomeID
		}
	default:
		return common.ErrBadRequest
	}
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return err
	}
	if entityHomeID != homeID {
		return common.ErrNotFound
	}
	return nil
}
