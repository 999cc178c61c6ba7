package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/farhandwi/dots/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dashboardFixture() (*mockTransactionRepo, *mockReportWriter, DashboardService) {
	repo := newMockTransactionRepo(
		txAt("DOTS-1", "1020", strPtr("CC100"), nil),
		txAt("DOTS-2", "2020", strPtr("CC999"), nil),
		txAt("DOTS-3", "1021", strPtr("CC100"), strPtr("CC200")),
		txAt("DOTS-4", "2030", strPtr("CC100"), nil),
		txAt("DOTS-5", "1040", strPtr("CC100"), nil),
		txAt("DOTS-6", "1010", strPtr("CC100"), nil),
	)
	repo.txs["DOTS-5"].Currency = ""
	writer := &mockReportWriter{}
	return repo, writer, NewDashboardService(repo, writer, "USD", &mockLogger{})
}

func queueNumbers(group QueueGroup) []string {
	var numbers []string
	for _, item := range group.Items {
		numbers = append(numbers, item.Transaction.DotsNumber)
	}
	return numbers
}

func TestDashboardService_Queue(t *testing.T) {
	ctx := context.Background()
	_, _, svc := dashboardFixture()

	t.Run("department head sees tier 1 of own cost center", func(t *testing.T) {
		queue, err := svc.Queue(ctx, departmentHead)
		require.NoError(t, err)
		require.Len(t, queue, 1)
		assert.Equal(t, entity.StatusGroupVerifiedDH, queue[0].Group)
		assert.Equal(t, []string{"DOTS-1"}, queueNumbers(queue[0]))
		assert.Equal(t, "Waiting Approval 1", queue[0].Items[0].StatusLabel)
	})

	t.Run("group head sees tier 2", func(t *testing.T) {
		queue, err := svc.Queue(ctx, groupHead)
		require.NoError(t, err)
		require.Len(t, queue, 1)
		assert.Equal(t, entity.StatusGroupVerifiedGH, queue[0].Group)
		assert.Equal(t, []string{"DOTS-3"}, queueNumbers(queue[0]))
	})

	t.Run("accounting sees verification and posting", func(t *testing.T) {
		queue, err := svc.Queue(ctx, accounting)
		require.NoError(t, err)
		require.Len(t, queue, 1)
		assert.Equal(t, entity.StatusGroupVerifiedAccounting, queue[0].Group)
		assert.Equal(t, []string{"DOTS-4", "DOTS-5"}, queueNumbers(queue[0]))
		assert.Equal(t, "$1,500.00", queue[0].Items[1].Amount)
	})

	t.Run("multi-role user gets groups in VD VG VA order", func(t *testing.T) {
		user := dotsUser("multi@example.com",
			role(entity.UserTypeAccountingVerifier, nil),
			role(entity.UserTypeDepartmentHead, strPtr("CC100")))
		queue, err := svc.Queue(ctx, user)
		require.NoError(t, err)
		require.Len(t, queue, 2)
		assert.Equal(t, entity.StatusGroupVerifiedDH, queue[0].Group)
		assert.Equal(t, entity.StatusGroupVerifiedAccounting, queue[1].Group)
	})

	t.Run("transaction eligible under two role types is listed once", func(t *testing.T) {
		user := dotsUser("both@example.com",
			role(entity.UserTypeDepartmentHead, strPtr("CC100")),
			role(entity.UserTypeGroupHead, strPtr("CC100")))
		queue, err := svc.Queue(ctx, user)
		require.NoError(t, err)
		require.Len(t, queue, 2)
		assert.Equal(t, entity.StatusGroupVerifiedDH, queue[0].Group)
		assert.Equal(t, []string{"DOTS-1"}, queueNumbers(queue[0]))
		assert.Equal(t, entity.StatusGroupVerifiedGH, queue[1].Group)
		assert.Empty(t, queue[1].Items)

		_, writer, exportSvc := dashboardFixture()
		require.NoError(t, exportSvc.Export(ctx, user, &bytes.Buffer{}))
		require.Len(t, writer.rows, 1)
		assert.Equal(t, "DOTS-1", writer.rows[0].Transaction.DotsNumber)
	})

	t.Run("users without approver roles get nothing", func(t *testing.T) {
		queue, err := svc.Queue(ctx, creator)
		require.NoError(t, err)
		assert.Empty(t, queue)

		queue, err = svc.Queue(ctx, outsider)
		require.NoError(t, err)
		assert.NotNil(t, queue)
		assert.Empty(t, queue)
	})
}

func TestDashboardService_Export(t *testing.T) {
	ctx := context.Background()

	t.Run("writes queue rows", func(t *testing.T) {
		_, writer, svc := dashboardFixture()
		var buf bytes.Buffer
		require.NoError(t, svc.Export(ctx, accounting, &buf))

		assert.Equal(t, "xlsx", buf.String())
		require.Len(t, writer.rows, 2)
		assert.Equal(t, entity.StatusGroupVerifiedAccounting, writer.rows[0].Group)
		assert.Equal(t, "DOTS-4", writer.rows[0].Transaction.DotsNumber)
	})

	t.Run("writer failure is reported", func(t *testing.T) {
		_, writer, svc := dashboardFixture()
		writer.err = errors.New("disk full")
		assert.Error(t, svc.Export(ctx, accounting, &bytes.Buffer{}))
	})

	t.Run("repository failure is reported", func(t *testing.T) {
		repo, _, svc := dashboardFixture()
		repo.listFunc = func(ctx context.Context, filter entity.TransactionFilter) ([]*entity.Transaction, error) {
			return nil, errors.New("db closed")
		}
		assert.Error(t, svc.Export(ctx, accounting, &bytes.Buffer{}))
	})
}
