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

// MaterialRepository implements port.MaterialRepository
type MaterialRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMaterialRepository creates a new material repository
func NewMaterialRepository(db *sql.DB, logger *zap.Logger) port.MaterialRepository {
	return &MaterialRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert inserts a material or replaces the existing record with the same number
func (r *MaterialRepository) Upsert(ctx context.Context, m *entity.Material) error {
	query := `
		INSERT INTO materials (
			material_number, description, material_type, material_group,
			gl_account, expired_date, updated_by, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(material_number) DO UPDATE SET
			description = excluded.description,
			material_type = excluded.material_type,
			material_group = excluded.material_group,
			gl_account = excluded.gl_account,
			expired_date = excluded.expired_date,
			updated_by = excluded.updated_by,
			updated_at = excluded.updated_at
	`

	_, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		m.MaterialNumber,
		m.Description,
		m.MaterialType,
		m.MaterialGroup,
		m.GLAccount,
		nullString(m.ExpiredDate),
		m.UpdatedBy,
		m.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to upsert material", zap.String("material_number", m.MaterialNumber), zap.Error(err))
		return fmt.Errorf("failed to upsert material: %w", err)
	}
	return nil
}

// GetByNumber retrieves a material by its number
func (r *MaterialRepository) GetByNumber(ctx context.Context, materialNumber string) (*entity.Material, error) {
	query := `
		SELECT material_number, description, material_type, material_group,
			gl_account, expired_date, updated_by, updated_at
		FROM materials
		WHERE material_number = ?
	`

	m, err := scanMaterial(sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, materialNumber))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("material %s: %w", materialNumber, port.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get material: %w", err)
	}
	return m, nil
}

// List returns all materials ordered by number
func (r *MaterialRepository) List(ctx context.Context) ([]*entity.Material, error) {
	query := `
		SELECT material_number, description, material_type, material_group,
			gl_account, expired_date, updated_by, updated_at
		FROM materials
		ORDER BY material_number ASC
	`

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list materials", zap.Error(err))
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}
	defer rows.Close()

	var materials []*entity.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan material: %w", err)
		}
		materials = append(materials, m)
	}
	return materials, rows.Err()
}

// Delete removes a material
func (r *MaterialRepository) Delete(ctx context.Context, materialNumber string) error {
	return deleteByKey(ctx, r.db, "materials", "material_number", materialNumber)
}

func scanMaterial(s scanner) (*entity.Material, error) {
	var (
		m       entity.Material
		expired sql.NullString
	)
	if err := s.Scan(
		&m.MaterialNumber,
		&m.Description,
		&m.MaterialType,
		&m.MaterialGroup,
		&m.GLAccount,
		&expired,
		&m.UpdatedBy,
		&m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	m.ExpiredDate = stringPtr(expired)
	return &m, nil
}

// deleteByKey deletes one row and reports port.ErrNotFound when nothing matched.
// table and column are package constants, never user input.
func deleteByKey(ctx context.Context, db *sql.DB, table, column, key string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, column)

	result, err := sqlite.ExecutorFrom(ctx, db).ExecContext(ctx, query, key)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", table, key, port.ErrNotFound)
	}
	return nil
}

var _ port.MaterialRepository = (*MaterialRepository)(nil)
