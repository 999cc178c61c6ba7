package service

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/farhandwi/dots/internal/application/port"
	"github.com/farhandwi/dots/internal/domain/access"
	"github.com/farhandwi/dots/internal/domain/entity"
	"github.com/farhandwi/dots/internal/domain/event"
	"github.com/google/uuid"
)

const defaultContentType = "application/octet-stream"

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_]`)

// UploadInput is an attachment upload request
type UploadInput struct {
	DotsNumber  string
	FileName    string
	ContentType string
	Content     []byte
}

// AttachmentService stores supporting documents of transactions
type AttachmentService interface {
	Upload(ctx context.Context, user *entity.User, input UploadInput) (*entity.Attachment, error)
	List(ctx context.Context, user *entity.User, dotsNumber string) ([]*entity.Attachment, error)
	Download(ctx context.Context, user *entity.User, id string) (*entity.AttachmentFile, error)
	Delete(ctx context.Context, user *entity.User, id string) error
}

type attachmentServiceImpl struct {
	attachmentRepo port.AttachmentRepository
	txRepo         port.TransactionRepository
	storage        port.FileStorage
	events         port.EventPublisher
	maxSize        int64
	logger         Logger
	now            func() time.Time
}

// NewAttachmentService creates a new AttachmentService. maxSize is the upload limit in bytes.
func NewAttachmentService(
	attachmentRepo port.AttachmentRepository,
	txRepo port.TransactionRepository,
	storage port.FileStorage,
	events port.EventPublisher,
	maxSize int64,
	logger Logger,
) AttachmentService {
	return &attachmentServiceImpl{
		attachmentRepo: attachmentRepo,
		txRepo:         txRepo,
		storage:        storage,
		events:         events,
		maxSize:        maxSize,
		logger:         logger,
		now:            time.Now,
	}
}

// SanitizeFileName returns a filesystem-safe version of name.
// Path separators and parent references are dropped and every other character outside
// [a-zA-Z0-9._-] becomes an underscore.
func SanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, "/", "")
	name = strings.ReplaceAll(name, "\\", "")
	name = unsafeNameChars.ReplaceAllString(strings.TrimSpace(name), "_")
	name = strings.Trim(name, ".")
	if name == "" {
		return "file"
	}
	return name
}

// AttachmentPath is the storage path of an attachment: <dots_number>/<id>_<file name>
func AttachmentPath(dotsNumber, id, fileName string) string {
	return path.Join(SanitizeFileName(dotsNumber), id+"_"+SanitizeFileName(fileName))
}

func (s *attachmentServiceImpl) viewableTransaction(ctx context.Context, user *entity.User, dotsNumber string) (*entity.Transaction, error) {
	tx, err := s.txRepo.GetByDotsNumber(ctx, dotsNumber)
	if err != nil {
		return nil, err
	}
	if !canView(tx, user) {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, dotsNumber)
	}
	return tx, nil
}

// Upload stores the bytes and then the metadata. The bytes are removed again if the
// metadata cannot be saved.
func (s *attachmentServiceImpl) Upload(ctx context.Context, user *entity.User, input UploadInput) (*entity.Attachment, error) {
	if len(input.Content) == 0 {
		return nil, fmt.Errorf("%w: empty attachment", ErrInvalidInput)
	}
	if int64(len(input.Content)) > s.maxSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, len(input.Content), s.maxSize)
	}

	if _, err := s.viewableTransaction(ctx, user, input.DotsNumber); err != nil {
		return nil, err
	}

	contentType := strings.TrimSpace(input.ContentType)
	if contentType == "" {
		contentType = defaultContentType
	}

	id := uuid.NewString()
	att := &entity.Attachment{
		ID:          id,
		DotsNumber:  input.DotsNumber,
		FileName:    SanitizeFileName(input.FileName),
		ContentType: contentType,
		Size:        int64(len(input.Content)),
		StoragePath: AttachmentPath(input.DotsNumber, id, input.FileName),
		UploadedBy:  user.Email,
		UploadedAt:  s.now(),
	}

	if err := s.storage.Save(ctx, att.StoragePath, input.Content); err != nil {
		s.logger.Error("Failed to store attachment", "error", err, "dots_number", att.DotsNumber)
		return nil, fmt.Errorf("store attachment: %w", err)
	}

	if err := s.attachmentRepo.Create(ctx, att); err != nil {
		if delErr := s.storage.Delete(ctx, att.StoragePath); delErr != nil {
			s.logger.Error("Failed to remove orphaned attachment", "error", delErr, "path", att.StoragePath)
		}
		return nil, fmt.Errorf("save attachment metadata: %w", err)
	}

	s.logger.Info("Attachment uploaded",
		"id", att.ID,
		"dots_number", att.DotsNumber,
		"size", att.Size,
		"user", user.Email)
	s.events.Publish(ctx, event.New(event.TypeAttachmentUploaded, att.DotsNumber, user.Email, att.UploadedAt, map[string]interface{}{
		event.KeyAttachmentID: att.ID,
		event.KeyFileName:     att.FileName,
		event.KeySize:         att.Size,
	}))
	return att, nil
}

// List returns a transaction's attachments
func (s *attachmentServiceImpl) List(ctx context.Context, user *entity.User, dotsNumber string) ([]*entity.Attachment, error) {
	if _, err := s.viewableTransaction(ctx, user, dotsNumber); err != nil {
		return nil, err
	}
	return s.attachmentRepo.ListByDotsNumber(ctx, dotsNumber)
}

// Download returns an attachment with its bytes
func (s *attachmentServiceImpl) Download(ctx context.Context, user *entity.User, id string) (*entity.AttachmentFile, error) {
	att, err := s.attachmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.viewableTransaction(ctx, user, att.DotsNumber); err != nil {
		return nil, err
	}

	content, err := s.storage.Read(ctx, att.StoragePath)
	if err != nil {
		s.logger.Error("Failed to read attachment", "error", err, "id", id)
		return nil, fmt.Errorf("read attachment: %w", err)
	}
	return &entity.AttachmentFile{Attachment: att, Content: content}, nil
}

// Delete removes an attachment. Only its uploader or an admin may delete it.
func (s *attachmentServiceImpl) Delete(ctx context.Context, user *entity.User, id string) error {
	att, err := s.attachmentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !strings.EqualFold(att.UploadedBy, user.Email) && !access.HasDotsAdminRole(user) {
		return fmt.Errorf("%w: only the uploader or an admin may delete attachment %s", ErrForbidden, id)
	}

	if err := s.attachmentRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, att.StoragePath); err != nil {
		// metadata is gone; the stray file is only logged
		s.logger.Error("Failed to delete attachment file", "error", err, "path", att.StoragePath)
	}

	s.logger.Info("Attachment deleted", "id", id, "user", user.Email)
	s.events.Publish(ctx, event.New(event.TypeAttachmentDeleted, att.DotsNumber, user.Email, s.now(), map[string]interface{}{
		event.KeyAttachmentID: att.ID,
		event.KeyFileName:     att.FileName,
	}))
	return nil
}
