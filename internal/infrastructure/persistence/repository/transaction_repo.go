package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/farhandwi/dots/internal/application/port"
	"github.com/farhandwi/dots/internal/domain/entity"
	"github.com/farhandwi/dots/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

const transactionColumns = `
	dots_number, status, trx_type, form_type, created_by,
	cost_center_verificator_1, cost_center_verificator_2, cost_center_verificator_3,
	cost_center_verificator_4, cost_center_verificator_5,
	amount, currency, form_data, created_at, updated_at`

// TransactionRepository implements port.TransactionRepository
type TransactionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *sql.DB, logger *zap.Logger) port.TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new transaction
func (r *TransactionRepository) Create(ctx context.Context, tx *entity.Transaction) error {
	formData, err := json.Marshal(tx.FormData)
	if err != nil {
		return fmt.Errorf("failed to marshal form data: %w", err)
	}

	query := `INSERT INTO transactions (` + transactionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		tx.DotsNumber,
		tx.Status,
		tx.TrxType,
		tx.FormType,
		tx.CreatedBy,
		nullString(tx.CostCenterVerificator1),
		nullString(tx.CostCenterVerificator2),
		nullString(tx.CostCenterVerificator3),
		nullString(tx.CostCenterVerificator4),
		nullString(tx.CostCenterVerificator5),
		tx.Amount,
		tx.Currency,
		string(formData),
		tx.CreatedAt,
		tx.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create transaction", zap.String("dots_number", tx.DotsNumber), zap.Error(err))
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// GetByDotsNumber retrieves a transaction by its DOTS number
func (r *TransactionRepository) GetByDotsNumber(ctx context.Context, dotsNumber string) (*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE dots_number = ?`

	row := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, dotsNumber)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", dotsNumber, port.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("Failed to get transaction", zap.String("dots_number", dotsNumber), zap.Error(err))
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return tx, nil
}

// UpdateStatus sets the status of a transaction
func (r *TransactionRepository) UpdateStatus(ctx context.Context, dotsNumber, status string) error {
	query := `UPDATE transactions SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE dots_number = ?`

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, status, dotsNumber)
	if err != nil {
		r.logger.Error("Failed to update transaction status",
			zap.String("dots_number", dotsNumber),
			zap.String("status", status),
			zap.Error(err))
		return fmt.Errorf("failed to update status: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %s: %w", dotsNumber, port.ErrNotFound)
	}

	return nil
}

// List returns transactions matching filter, newest first
func (r *TransactionRepository) List(ctx context.Context, filter entity.TransactionFilter) ([]*entity.Transaction, error) {
	var (
		where []string
		args  []interface{}
	)

	if len(filter.Statuses) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(filter.Statuses)), ",")
		where = append(where, "status IN ("+placeholders+")")
		for _, s := range filter.Statuses {
			args = append(args, s)
		}
	}
	if filter.CreatedBy != "" {
		where = append(where, "LOWER(created_by) = LOWER(?)")
		args = append(args, filter.CreatedBy)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, dots_number ASC"

	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list transactions", zap.Error(err))
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []*entity.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}

	return txs, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(s scanner) (*entity.Transaction, error) {
	var (
		tx         entity.Transaction
		v1, v2, v3 sql.NullString
		v4, v5     sql.NullString
		formData   string
	)

	err := s.Scan(
		&tx.DotsNumber,
		&tx.Status,
		&tx.TrxType,
		&tx.FormType,
		&tx.CreatedBy,
		&v1, &v2, &v3, &v4, &v5,
		&tx.Amount,
		&tx.Currency,
		&formData,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	tx.CostCenterVerificator1 = stringPtr(v1)
	tx.CostCenterVerificator2 = stringPtr(v2)
	tx.CostCenterVerificator3 = stringPtr(v3)
	tx.CostCenterVerificator4 = stringPtr(v4)
	tx.CostCenterVerificator5 = stringPtr(v5)

	if formData != "" {
		if err := json.Unmarshal([]byte(formData), &tx.FormData); err != nil {
			return nil, fmt.Errorf("failed to unmarshal form data: %w", err)
		}
	}

	return &tx, nil
}

var _ port.TransactionRepository = (*TransactionRepository)(nil)
