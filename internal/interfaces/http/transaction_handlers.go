package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/farhandwi/dots/internal/application/service"
	"github.com/farhandwi/dots/internal/domain/entity"
	"github.com/farhandwi/dots/internal/domain/form"
)

const maxListLimit = 200

type listTransactionsQuery struct {
	Status []string `form:"status"`
	Limit  int      `form:"limit"`
	Offset int      `form:"offset"`
}

type remarkRequest struct {
	Remark string `json:"remark"`
}

type validateFormRequest struct {
	Form   entity.FormData `json:"form"`
	Fields []string        `json:"fields"`
}

type validateFormResponse struct {
	Complete       bool     `json:"complete"`
	MissingFields  []string `json:"missing_fields"`
	HasData        bool     `json:"has_data"`
	HasFieldsData  bool     `json:"has_fields_data"`
	RequiredFields []string `json:"required_fields"`
}

// CreateTransaction handles POST /api/transactions
func (h *Handlers) CreateTransaction(c *gin.Context) {
	var input service.CreateTransactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badRequest(c, "invalid request body: "+err.Error())
		return
	}

	tx, err := h.transactions.Create(c.Request.Context(), currentUser(c), input)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusCreated, tx)
}

// ValidateForm handles POST /api/transactions/validate
func (h *Handlers) ValidateForm(c *gin.Context) {
	var req validateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body: "+err.Error())
		return
	}

	missing := form.MissingFields(req.Form)
	if missing == nil {
		missing = []string{}
	}
	h.ok(c, http.StatusOK, validateFormResponse{
		Complete:       form.IsRequiredFieldsFilled(req.Form),
		MissingFields:  missing,
		HasData:        form.HasFilledData(req.Form),
		HasFieldsData:  len(req.Fields) > 0 && form.HasFilledDataSpecific(req.Form, req.Fields...),
		RequiredFields: form.RequiredFields(req.Form.FormType),
	})
}

// ListTransactions handles GET /api/transactions
func (h *Handlers) ListTransactions(c *gin.Context) {
	var q listTransactionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badRequest(c, "invalid query: "+err.Error())
		return
	}
	if q.Limit < 0 || q.Offset < 0 {
		h.badRequest(c, "limit and offset must not be negative")
		return
	}
	if q.Limit == 0 || q.Limit > maxListLimit {
		q.Limit = maxListLimit
	}

	// ?status=1020,1021 and ?status=1020&status=1021 are equivalent
	var statuses []string
	for _, s := range q.Status {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				statuses = append(statuses, part)
			}
		}
	}

	txs, err := h.transactions.List(c.Request.Context(), currentUser(c), entity.TransactionFilter{
		Statuses: statuses,
		Limit:    q.Limit,
		Offset:   q.Offset,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, txs)
}

// GetTransaction handles GET /api/transactions/:dots
func (h *Handlers) GetTransaction(c *gin.Context) {
	dotsNumber, ok := h.dotsParam(c)
	if !ok {
		return
	}

	tx, err := h.transactions.Get(c.Request.Context(), currentUser(c), dotsNumber)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, tx)
}

// AssessTransaction handles GET /api/transactions/:dots/assessment
func (h *Handlers) AssessTransaction(c *gin.Context) {
	dotsNumber, ok := h.dotsParam(c)
	if !ok {
		return
	}

	assessment, err := h.transactions.Assess(c.Request.Context(), currentUser(c), dotsNumber)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, assessment)
}

// TransactionHistory handles GET /api/transactions/:dots/history
func (h *Handlers) TransactionHistory(c *gin.Context) {
	dotsNumber, ok := h.dotsParam(c)
	if !ok {
		return
	}

	history, err := h.transactions.History(c.Request.Context(), currentUser(c), dotsNumber)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, history)
}

// transitionFunc is a status-changing TransactionService method expression
type transitionFunc func(svc service.TransactionService, ctx context.Context, user *entity.User, dotsNumber, remark string) (*entity.Transaction, error)

// transition adapts a status-changing service call into a handler. The service is
// resolved per request. The body is optional.
func (h *Handlers) transition(fn transitionFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		dotsNumber, ok := h.dotsParam(c)
		if !ok {
			return
		}

		var req remarkRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			h.badRequest(c, "invalid request body: "+err.Error())
			return
		}

		tx, err := fn(h.transactions, c.Request.Context(), currentUser(c), dotsNumber, strings.TrimSpace(req.Remark))
		if err != nil {
			h.fail(c, err)
			return
		}
		h.ok(c, http.StatusOK, tx)
	}
}
