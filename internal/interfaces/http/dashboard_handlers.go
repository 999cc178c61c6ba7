package http

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farhandwi/dots/internal/domain/form"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Dashboard handles GET /api/dashboard
func (h *Handlers) Dashboard(c *gin.Context) {
	groups, err := h.dashboard.Queue(c.Request.Context(), currentUser(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, groups)
}

// ExportDashboard handles GET /api/dashboard/export
func (h *Handlers) ExportDashboard(c *gin.Context) {
	// rendered to memory first so failures can still answer with JSON
	var buf bytes.Buffer
	if err := h.dashboard.Export(c.Request.Context(), currentUser(c), &buf); err != nil {
		h.fail(c, err)
		return
	}

	name := fmt.Sprintf("%s-%s.xlsx", h.exportPrefix, h.now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

type currencyResponse struct {
	Amount    float64 `json:"amount"`
	Formatted string  `json:"formatted"`
	Color     string  `json:"color"`
}

// FormatCurrency handles GET /api/format/currency?amount=&code=
func (h *Handlers) FormatCurrency(c *gin.Context) {
	amount := form.CleanNumber(c.Query("amount"))
	h.ok(c, http.StatusOK, currencyResponse{
		Amount:    amount,
		Formatted: form.FormatCurrency(amount, c.Query("code")),
		Color:     form.DiffAmountColor(amount),
	})
}

type dueDateResponse struct {
	CurrentDate    string `json:"current_date"`
	YesterdayDate  string `json:"yesterday_date"`
	DefaultDueDate string `json:"default_due_date"`
	Display        string `json:"display"`
}

// DueDate handles GET /api/format/due-date
func (h *Handlers) DueDate(c *gin.Context) {
	now := h.now()
	h.ok(c, http.StatusOK, dueDateResponse{
		CurrentDate:    form.CurrentDate(now),
		YesterdayDate:  form.YesterdayDate(now),
		DefaultDueDate: form.DefaultDueDate(now),
		Display:        form.FormatDisplayDate(now),
	})
}
