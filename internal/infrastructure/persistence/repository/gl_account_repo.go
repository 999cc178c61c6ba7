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

// GLAccountRepository implements port.GLAccountRepository
type GLAccountRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewGLAccountRepository creates a new GL account repository
func NewGLAccountRepository(db *sql.DB, logger *zap.Logger) port.GLAccountRepository {
	return &GLAccountRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert inserts or replaces a GL account
func (r *GLAccountRepository) Upsert(ctx context.Context, a *entity.GLAccount) error {
	query := `
		INSERT INTO gl_accounts (gl_account, description, company_code, expired_date, updated_by, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(gl_account) DO UPDATE SET
			description = excluded.description,
			company_code = excluded.company_code,
			expired_date = excluded.expired_date,
			updated_by = excluded.updated_by,
			updated_at = excluded.updated_at
	`

	_, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		a.Account,
		a.Description,
		a.CompanyCode,
		nullString(a.ExpiredDate),
		a.UpdatedBy,
		a.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to upsert GL account", zap.String("gl_account", a.Account), zap.Error(err))
		return fmt.Errorf("failed to upsert gl account: %w", err)
	}
	return nil
}

// List returns all GL accounts ordered by account number
func (r *GLAccountRepository) List(ctx context.Context) ([]*entity.GLAccount, error) {
	query := `
		SELECT gl_account, description, company_code, expired_date, updated_by, updated_at
		FROM gl_accounts
		ORDER BY gl_account ASC
	`

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list GL accounts", zap.Error(err))
		return nil, fmt.Errorf("failed to list gl accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*entity.GLAccount
	for rows.Next() {
		var (
			a       entity.GLAccount
			expired sql.NullString
		)
		if err := rows.Scan(&a.Account, &a.Description, &a.CompanyCode, &expired, &a.UpdatedBy, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan gl account: %w", err)
		}
		a.ExpiredDate = stringPtr(expired)
		accounts = append(accounts, &a)
	}
	return accounts, rows.Err()
}

// Delete removes a GL account
func (r *GLAccountRepository) Delete(ctx context.Context, account string) error {
	return deleteByKey(ctx, r.db, "gl_accounts", "gl_account", account)
}

var _ port.GLAccountRepository = (*GLAccountRepository)(nil)
