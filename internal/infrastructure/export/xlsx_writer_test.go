package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/farhandwi/dots/internal/application/port"
	"github.com/farhandwi/dots/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func TestXLSXWriter_WriteQueue(t *testing.T) {
	rows := []port.QueueRow{
		{
			Group: entity.StatusGroupVerifiedDH,
			Transaction: &entity.Transaction{
				DotsNumber: "DOTS-20240301-0000aaaa",
				Status:     "1020",
				FormType:   entity.FormTypeCashInAdvance,
				CreatedBy:  "alice@example.com",
				Currency:   "USD",
				Amount:     1250.5,
				CreatedAt:  time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
			},
			StatusLabel: "Waiting Approval 1",
			Amount:      "$1,250.50",
		},
	}

	var buf bytes.Buffer
	err := NewXLSXWriter(zap.NewNop()).WriteQueue(context.Background(), &buf, rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{QueueSheet}, f.GetSheetList())

	header, _ := f.GetCellValue(QueueSheet, "B1")
	assert.Equal(t, "DOTS Number", header)

	dots, _ := f.GetCellValue(QueueSheet, "B2")
	assert.Equal(t, "DOTS-20240301-0000aaaa", dots)

	label, _ := f.GetCellValue(QueueSheet, "D2")
	assert.Equal(t, "Waiting Approval 1", label)

	created, _ := f.GetCellValue(QueueSheet, "G2")
	assert.Equal(t, "2024-03-01 09:30", created)

	formatted, _ := f.GetCellValue(QueueSheet, "J2")
	assert.Equal(t, "$1,250.50", formatted)
}

func TestXLSXWriter_EmptyQueueHasHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewXLSXWriter(zap.NewNop()).WriteQueue(context.Background(), &buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(QueueSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestXLSXWriter_HonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows := []port.QueueRow{{Transaction: &entity.Transaction{DotsNumber: "DOTS-1"}}}
	err := NewXLSXWriter(zap.NewNop()).WriteQueue(ctx, &bytes.Buffer{}, rows)
	assert.ErrorIs(t, err, context.Canceled)
}
