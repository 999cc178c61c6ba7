package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/farhandwi/dots/internal/application/port"
	"github.com/farhandwi/dots/internal/domain/entity"
	"github.com/farhandwi/dots/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

const attachmentColumns = `id, dots_number, file_name, content_type, size, storage_path, uploaded_by, uploaded_at`

// AttachmentRepository implements port.AttachmentRepository
type AttachmentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAttachmentRepository creates a new attachment repository
func NewAttachmentRepository(db *sql.DB, logger *zap.Logger) port.AttachmentRepository {
	return &AttachmentRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores attachment metadata
func (r *AttachmentRepository) Create(ctx context.Context, att *entity.Attachment) error {
	query := `INSERT INTO attachments (` + attachmentColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		att.ID,
		att.DotsNumber,
		att.FileName,
		att.ContentType,
		att.Size,
		att.StoragePath,
		att.UploadedBy,
		att.UploadedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create attachment",
			zap.String("dots_number", att.DotsNumber),
			zap.String("file_name", att.FileName),
			zap.Error(err))
		return fmt.Errorf("failed to create attachment: %w", err)
	}
	return nil
}

// GetByID retrieves attachment metadata by ID
func (r *AttachmentRepository) GetByID(ctx context.Context, id string) (*entity.Attachment, error) {
	query := `SELECT ` + attachmentColumns + ` FROM attachments WHERE id = ?`

	att, err := scanAttachment(sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("attachment %s: %w", id, port.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}
	return att, nil
}

// ListByDotsNumber returns a transaction's attachments in upload order
func (r *AttachmentRepository) ListByDotsNumber(ctx context.Context, dotsNumber string) ([]*entity.Attachment, error) {
	query := `SELECT ` + attachmentColumns + ` FROM attachments WHERE dots_number = ? ORDER BY uploaded_at ASC, id ASC`

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, dotsNumber)
	if err != nil {
		r.logger.Error("Failed to list attachments", zap.String("dots_number", dotsNumber), zap.Error(err))
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	defer rows.Close()

	attachments := []*entity.Attachment{}
	for rows.Next() {
		att, err := scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		attachments = append(attachments, att)
	}
	return attachments, rows.Err()
}

// Delete removes attachment metadata
func (r *AttachmentRepository) Delete(ctx context.Context, id string) error {
	return deleteByKey(ctx, r.db, "attachments", "id", id)
}

func scanAttachment(s scanner) (*entity.Attachment, error) {
	var att entity.Attachment
	if err := s.Scan(
		&att.ID,
		&att.DotsNumber,
		&att.FileName,
		&att.ContentType,
		&att.Size,
		&att.StoragePath,
		&att.UploadedBy,
		&att.UploadedAt,
	); err != nil {
		return nil, err
	}
	return &att, nil
}

var _ port.AttachmentRepository = (*AttachmentRepository)(nil)
