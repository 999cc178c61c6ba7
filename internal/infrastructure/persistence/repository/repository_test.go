package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/farhandwi/dots/internal/application/port"
	"github.com/farhandwi/dots/internal/domain/entity"
	"github.com/farhandwi/dots/internal/infrastructure/persistence/sqlite"
	"github.com/farhandwi/dots/migrations"
	"github.com/farhandwi/dots/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupDB(t *testing.T) *database.DB {
	t.Helper()
	ctx := context.Background()

	db, err := database.New(ctx, database.Config{
		Path:         filepath.Join(t.TempDir(), "dots.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = database.NewMigrator(db, zap.NewNop()).RunMigrations(ctx, migrations.FS)
	require.NoError(t, err)
	return db
}

func strPtr(s string) *string { return &s }

func newTransaction(dots, status, createdBy string, createdAt time.Time) *entity.Transaction {
	return &entity.Transaction{
		DotsNumber:             dots,
		Status:                 status,
		TrxType:                "1",
		FormType:               entity.FormTypeCashInAdvance,
		CreatedBy:              createdBy,
		CostCenterVerificator1: strPtr("CC100"),
		Amount:                 1500,
		Currency:               "IDR",
		FormData: entity.FormData{
			FormType:    entity.FormTypeCashInAdvance,
			Description: "Team offsite",
		},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestTransactionRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	repo := NewTransactionRepository(db.DB, zap.NewNop())

	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, newTransaction("DOTS-1", "1010", "alice@example.com", now)))

	got, err := repo.GetByDotsNumber(ctx, "DOTS-1")
	require.NoError(t, err)
	assert.Equal(t, "1010", got.Status)
	assert.Equal(t, "Team offsite", got.FormData.Description)
	require.NotNil(t, got.CostCenterVerificator1)
	assert.Equal(t, "CC100", *got.CostCenterVerificator1)
	assert.Nil(t, got.CostCenterVerificator2)
	assert.True(t, now.Equal(got.CreatedAt))

	_, err = repo.GetByDotsNumber(ctx, "missing")
	assert.True(t, errors.Is(err, port.ErrNotFound))
}

func TestTransactionRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	repo := NewTransactionRepository(db.DB, zap.NewNop())

	require.NoError(t, repo.Create(ctx, newTransaction("DOTS-1", "1010", "alice@example.com", time.Now().UTC())))
	require.NoError(t, repo.UpdateStatus(ctx, "DOTS-1", "1020"))

	got, err := repo.GetByDotsNumber(ctx, "DOTS-1")
	require.NoError(t, err)
	assert.Equal(t, "1020", got.Status)

	err = repo.UpdateStatus(ctx, "missing", "1020")
	assert.True(t, errors.Is(err, port.ErrNotFound))
}

func TestTransactionRepository_List(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	repo := NewTransactionRepository(db.DB, zap.NewNop())

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, newTransaction("DOTS-1", "1020", "alice@example.com", base)))
	require.NoError(t, repo.Create(ctx, newTransaction("DOTS-2", "2030", "bob@example.com", base.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, newTransaction("DOTS-3", "1020", "Alice@Example.com", base.Add(2*time.Hour))))

	all, err := repo.List(ctx, entity.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "DOTS-3", all[0].DotsNumber)

	byStatus, err := repo.List(ctx, entity.TransactionFilter{Statuses: []string{"1020"}})
	require.NoError(t, err)
	assert.Len(t, byStatus, 2)

	byCreator, err := repo.List(ctx, entity.TransactionFilter{CreatedBy: "alice@example.com"})
	require.NoError(t, err)
	assert.Len(t, byCreator, 2)

	paged, err := repo.List(ctx, entity.TransactionFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, "DOTS-2", paged[0].DotsNumber)
}

func TestHistoryRepository_AppendAndList(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	txRepo := NewTransactionRepository(db.DB, zap.NewNop())
	repo := NewHistoryRepository(db.DB, zap.NewNop())

	now := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	require.NoError(t, txRepo.Create(ctx, newTransaction("DOTS-1", "1010", "alice@example.com", now)))

	first := &entity.StatusHistoryItem{DotsNumber: "DOTS-1", Status: "1010", Date: now, ModifiedBy: "alice@example.com"}
	second := &entity.StatusHistoryItem{DotsNumber: "DOTS-1", Status: "1020", Date: now.Add(time.Minute), Remark: "submitted", ModifiedBy: "alice@example.com"}
	require.NoError(t, repo.Append(ctx, first))
	require.NoError(t, repo.Append(ctx, second))
	assert.NotZero(t, first.ID)
	assert.Greater(t, second.ID, first.ID)

	items, err := repo.ListByDotsNumber(ctx, "DOTS-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "1010", items[0].Status)
	assert.Equal(t, "submitted", items[1].Remark)

	empty, err := repo.ListByDotsNumber(ctx, "DOTS-404")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestTransactionManager_RollbackUndoesBothWrites(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	txManager := sqlite.NewTxManager(db.DB, zap.NewNop())
	txRepo := NewTransactionRepository(db.DB, zap.NewNop())
	historyRepo := NewHistoryRepository(db.DB, zap.NewNop())

	now := time.Now().UTC()
	require.NoError(t, txRepo.Create(ctx, newTransaction("DOTS-1", "1010", "alice@example.com", now)))

	boom := errors.New("boom")
	err := txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := txRepo.UpdateStatus(ctx, "DOTS-1", "1020"); err != nil {
			return err
		}
		if err := historyRepo.Append(ctx, &entity.StatusHistoryItem{DotsNumber: "DOTS-1", Status: "1020", Date: now}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := txRepo.GetByDotsNumber(ctx, "DOTS-1")
	require.NoError(t, err)
	assert.Equal(t, "1010", got.Status)

	items, err := historyRepo.ListByDotsNumber(ctx, "DOTS-1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMaterialRepository_UpsertListDelete(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	repo := NewMaterialRepository(db.DB, zap.NewNop())

	now := time.Now().UTC()
	m := &entity.Material{
		MaterialNumber: "M-002",
		Description:    "Laptop",
		MaterialType:   entity.MaterialTypeInventory,
		GLAccount:      "600100",
		UpdatedBy:      "admin@example.com",
		UpdatedAt:      now,
	}
	require.NoError(t, repo.Upsert(ctx, m))
	require.NoError(t, repo.Upsert(ctx, &entity.Material{
		MaterialNumber: "M-001",
		Description:    "Consulting",
		MaterialType:   entity.MaterialTypeService,
		ExpiredDate:    strPtr("2030-01-01"),
		UpdatedAt:      now,
	}))

	m.Description = "Laptop 14in"
	require.NoError(t, repo.Upsert(ctx, m))

	got, err := repo.GetByNumber(ctx, "M-002")
	require.NoError(t, err)
	assert.Equal(t, "Laptop 14in", got.Description)
	assert.Nil(t, got.ExpiredDate)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "M-001", list[0].MaterialNumber)
	require.NotNil(t, list[0].ExpiredDate)
	assert.Equal(t, "2030-01-01", *list[0].ExpiredDate)

	require.NoError(t, repo.Delete(ctx, "M-001"))
	assert.ErrorIs(t, repo.Delete(ctx, "M-001"), port.ErrNotFound)

	_, err = repo.GetByNumber(ctx, "M-001")
	assert.ErrorIs(t, err, port.ErrNotFound)
}

func TestGLAccountRepository_UpsertListDelete(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	repo := NewGLAccountRepository(db.DB, zap.NewNop())

	now := time.Now().UTC()
	require.NoError(t, repo.Upsert(ctx, &entity.GLAccount{Account: "600200", Description: "Travel", CompanyCode: "C001", UpdatedAt: now}))
	require.NoError(t, repo.Upsert(ctx, &entity.GLAccount{Account: "600100", Description: "Meals", CompanyCode: "C001", UpdatedAt: now}))
	require.NoError(t, repo.Upsert(ctx, &entity.GLAccount{Account: "600200", Description: "Travel & Lodging", CompanyCode: "C001", UpdatedAt: now}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "600100", list[0].Account)
	assert.Equal(t, "Travel & Lodging", list[1].Description)

	require.NoError(t, repo.Delete(ctx, "600100"))
	assert.ErrorIs(t, repo.Delete(ctx, "600100"), port.ErrNotFound)
}

func TestAttachmentRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	txRepo := NewTransactionRepository(db.DB, zap.NewNop())
	repo := NewAttachmentRepository(db.DB, zap.NewNop())

	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, txRepo.Create(ctx, newTransaction("DOTS-1", "1010", "alice@example.com", now)))

	att := &entity.Attachment{
		ID:          "a1",
		DotsNumber:  "DOTS-1",
		FileName:    "receipt.pdf",
		ContentType: "application/pdf",
		Size:        42,
		StoragePath: "DOTS-1/a1_receipt.pdf",
		UploadedBy:  "alice@example.com",
		UploadedAt:  now,
	}
	require.NoError(t, repo.Create(ctx, att))

	got, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "receipt.pdf", got.FileName)
	assert.Equal(t, int64(42), got.Size)
	assert.Equal(t, "DOTS-1/a1_receipt.pdf", got.StoragePath)

	list, err := repo.ListByDotsNumber(ctx, "DOTS-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, "a1"))
	_, err = repo.GetByID(ctx, "a1")
	assert.ErrorIs(t, err, port.ErrNotFound)
}
