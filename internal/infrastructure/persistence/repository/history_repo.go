package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/farhandwi/dots/internal/application/port"
	"github.com/farhandwi/dots/internal/domain/entity"
	"github.com/farhandwi/dots/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// HistoryRepository implements port.StatusHistoryRepository
type HistoryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewHistoryRepository creates a new status history repository
func NewHistoryRepository(db *sql.DB, logger *zap.Logger) port.StatusHistoryRepository {
	return &HistoryRepository{
		db:     db,
		logger: logger,
	}
}

// Append records a status history entry
func (r *HistoryRepository) Append(ctx context.Context, item *entity.StatusHistoryItem) error {
	query := `
		INSERT INTO status_history (dots_number, status, date, remark, modified_by)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		item.DotsNumber,
		item.Status,
		item.Date,
		item.Remark,
		item.ModifiedBy,
	)
	if err != nil {
		r.logger.Error("Failed to append status history", zap.String("dots_number", item.DotsNumber), zap.Error(err))
		return fmt.Errorf("failed to append history: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	item.ID = id
	return nil
}

// ListByDotsNumber returns the status log of a transaction in insertion order
func (r *HistoryRepository) ListByDotsNumber(ctx context.Context, dotsNumber string) ([]entity.StatusHistoryItem, error) {
	query := `
		SELECT id, dots_number, status, date, remark, modified_by
		FROM status_history
		WHERE dots_number = ?
		ORDER BY id ASC
	`

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, dotsNumber)
	if err != nil {
		r.logger.Error("Failed to list status history", zap.String("dots_number", dotsNumber), zap.Error(err))
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	items := []entity.StatusHistoryItem{}
	for rows.Next() {
		var item entity.StatusHistoryItem
		if err := rows.Scan(
			&item.ID,
			&item.DotsNumber,
			&item.Status,
			&item.Date,
			&item.Remark,
			&item.ModifiedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

var _ port.StatusHistoryRepository = (*HistoryRepository)(nil)
