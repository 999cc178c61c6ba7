package port

import (
	"context"
	"errors"

	"github.com/farhandwi/dots/internal/domain/entity"
)

// ErrNotFound is returned by repositories when a record does not exist
var ErrNotFound = errors.New("record not found")

// TransactionRepository defines persistence operations for Transaction
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	GetByDotsNumber(ctx context.Context, dotsNumber string) (*entity.Transaction, error)
	UpdateStatus(ctx context.Context, dotsNumber, status string) error
	List(ctx context.Context, filter entity.TransactionFilter) ([]*entity.Transaction, error)
}

// StatusHistoryRepository defines persistence operations for the append-only status log
type StatusHistoryRepository interface {
	Append(ctx context.Context, item *entity.StatusHistoryItem) error
	ListByDotsNumber(ctx context.Context, dotsNumber string) ([]entity.StatusHistoryItem, error)
}

// MaterialRepository defines persistence operations for Material master data
type MaterialRepository interface {
	Upsert(ctx context.Context, material *entity.Material) error
	GetByNumber(ctx context.Context, materialNumber string) (*entity.Material, error)
	List(ctx context.Context) ([]*entity.Material, error)
	Delete(ctx context.Context, materialNumber string) error
}

// GLAccountRepository defines persistence operations for GLAccount master data
type GLAccountRepository interface {
	Upsert(ctx context.Context, account *entity.GLAccount) error
	List(ctx context.Context) ([]*entity.GLAccount, error)
	Delete(ctx context.Context, account string) error
}

// AttachmentRepository defines persistence operations for Attachment metadata
type AttachmentRepository interface {
	Create(ctx context.Context, att *entity.Attachment) error
	GetByID(ctx context.Context, id string) (*entity.Attachment, error)
	ListByDotsNumber(ctx context.Context, dotsNumber string) ([]*entity.Attachment, error)
	Delete(ctx context.Context, id string) error
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
