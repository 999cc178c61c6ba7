package export

import (
	"context"
	"fmt"
	"io"

	"github.com/farhandwi/dots/internal/application/port"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// QueueSheet is the worksheet holding the exported approval queue
const QueueSheet = "Queue"

var queueHeader = []interface{}{
	"Group",
	"DOTS Number",
	"Status",
	"Status Label",
	"Form Type",
	"Created By",
	"Created At",
	"Currency",
	"Amount",
	"Amount (formatted)",
}

// XLSXWriter implements port.ReportWriter with excelize
type XLSXWriter struct {
	logger *zap.Logger
}

// NewXLSXWriter creates a new spreadsheet writer
func NewXLSXWriter(logger *zap.Logger) *XLSXWriter {
	return &XLSXWriter{logger: logger}
}

// WriteQueue writes rows as a single-sheet workbook to w
func (x *XLSXWriter) WriteQueue(ctx context.Context, w io.Writer, rows []port.QueueRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", QueueSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(QueueSheet, "A1", &queueHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(queueHeader))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(QueueSheet, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	if err := f.SetColWidth(QueueSheet, "A", lastCol, 22); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		tx := row.Transaction
		values := []interface{}{
			row.Group,
			tx.DotsNumber,
			tx.Status,
			row.StatusLabel,
			tx.FormType,
			tx.CreatedBy,
			tx.CreatedAt.Format("2006-01-02 15:04"),
			tx.Currency,
			tx.Amount,
			row.Amount,
		}
		if err := f.SetSheetRow(QueueSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	x.logger.Debug("Approval queue exported", zap.Int("rows", len(rows)))
	return nil
}

var _ port.ReportWriter = (*XLSXWriter)(nil)
