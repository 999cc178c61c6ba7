package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/farhandwi/dots/internal/application/port"
	"github.com/farhandwi/dots/internal/domain/access"
	"github.com/farhandwi/dots/internal/domain/entity"
	"github.com/farhandwi/dots/internal/domain/event"
	"github.com/farhandwi/dots/internal/domain/form"
	"github.com/farhandwi/dots/internal/domain/status"
	"github.com/farhandwi/dots/internal/domain/workflow"
	"github.com/farhandwi/dots/pkg/utils"
	"github.com/google/uuid"
)

// MaxVerificators is the length of a transaction's approval chain
const MaxVerificators = 5

// CreateTransactionInput is the data needed to open a transaction
type CreateTransactionInput struct {
	Form         entity.FormData `json:"form"`
	Verificators []*string       `json:"cost_center_verificators"`
}

// StepView is one status tracking step evaluated against a transaction
type StepView struct {
	Status   string       `json:"status"`
	Label    string       `json:"label"`
	Complete bool         `json:"complete"`
	Info     *status.Info `json:"info,omitempty"`
}

// Assessment is what a user may see and do on a transaction
type Assessment struct {
	DotsNumber       string     `json:"dots_number"`
	Status           string     `json:"status"`
	StatusLabel      string     `json:"status_label"`
	CanApprove       bool       `json:"can_approve"`
	IsCreator        bool       `json:"is_creator"`
	IsAdmin          bool       `json:"is_admin"`
	IsRejected       bool       `json:"is_rejected"`
	IsClosed         bool       `json:"is_closed"`
	RejectedMessage  string     `json:"rejected_message,omitempty"`
	PermittedActions []string   `json:"permitted_actions"`
	Steps            []StepView `json:"steps"`
}

// TransactionService manages DOTS transactions and their approval chain
type TransactionService interface {
	Create(ctx context.Context, user *entity.User, input CreateTransactionInput) (*entity.Transaction, error)
	Get(ctx context.Context, user *entity.User, dotsNumber string) (*entity.Transaction, error)
	List(ctx context.Context, user *entity.User, filter entity.TransactionFilter) ([]*entity.Transaction, error)
	History(ctx context.Context, user *entity.User, dotsNumber string) ([]entity.StatusHistoryItem, error)
	Assess(ctx context.Context, user *entity.User, dotsNumber string) (*Assessment, error)

	Submit(ctx context.Context, user *entity.User, dotsNumber, remark string) (*entity.Transaction, error)
	Approve(ctx context.Context, user *entity.User, dotsNumber, remark string) (*entity.Transaction, error)
	Reject(ctx context.Context, user *entity.User, dotsNumber, remark string) (*entity.Transaction, error)
	Verify(ctx context.Context, user *entity.User, dotsNumber, remark string) (*entity.Transaction, error)
	MarkSAPCreated(ctx context.Context, user *entity.User, dotsNumber, remark string) (*entity.Transaction, error)
	MarkPaid(ctx context.Context, user *entity.User, dotsNumber, remark string) (*entity.Transaction, error)
}

type transactionServiceImpl struct {
	txRepo      port.TransactionRepository
	historyRepo port.StatusHistoryRepository
	txManager   port.TransactionManager
	events      port.EventPublisher
	logger      Logger
	now         func() time.Time
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	txRepo port.TransactionRepository,
	historyRepo port.StatusHistoryRepository,
	txManager port.TransactionManager,
	events port.EventPublisher,
	logger Logger,
) TransactionService {
	return &transactionServiceImpl{
		txRepo:      txRepo,
		historyRepo: historyRepo,
		txManager:   txManager,
		events:      events,
		logger:      logger,
		now:         time.Now,
	}
}

// authorizer decides whether user may fire a trigger on tx
type authorizer func(tx *entity.Transaction, user *entity.User) error

var authorizers = map[workflow.Trigger]authorizer{
	workflow.TriggerSubmit:  requireCreator,
	workflow.TriggerApprove: requireEligible,
	workflow.TriggerReject:  requireEligible,
	workflow.TriggerVerify:  requireEligible,
	workflow.TriggerPostSAP: requireEligible,
	workflow.TriggerPay:     requireAdmin,
}

func requireCreator(tx *entity.Transaction, user *entity.User) error {
	if !strings.EqualFold(tx.CreatedBy, user.Email) {
		return fmt.Errorf("%w: only the creator may submit %s", ErrForbidden, tx.DotsNumber)
	}
	return nil
}

func requireEligible(tx *entity.Transaction, user *entity.User) error {
	roles, _ := access.DotsRoles(user)
	if !access.CheckApprovalEligibility(tx, user, roles) {
		return fmt.Errorf("%w: %s at status %s", ErrNotEligible, tx.DotsNumber, tx.Status)
	}
	return nil
}

func requireAdmin(tx *entity.Transaction, user *entity.User) error {
	if !access.HasDotsAdminRole(user) {
		return fmt.Errorf("%w: admin role required", ErrForbidden)
	}
	return nil
}

func canView(tx *entity.Transaction, user *entity.User) bool {
	if strings.EqualFold(tx.CreatedBy, user.Email) {
		return true
	}
	roles, ok := access.DotsRoles(user)
	return ok && len(roles) > 0
}

// Create validates the form and opens a transaction at the initial status of its family
func (s *transactionServiceImpl) Create(ctx context.Context, user *entity.User, input CreateTransactionInput) (*entity.Transaction, error) {
	data := input.Form
	if missing := form.MissingFields(data); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrIncompleteForm, strings.Join(missing, ", "))
	}

	amount := form.CleanNumber(data.Amount)
	if err := utils.ValidateAmount(amount); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := utils.ValidateCurrency(data.Currency); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(input.Verificators) > MaxVerificators {
		return nil, fmt.Errorf("%w: at most %d cost center verificators", ErrInvalidInput, MaxVerificators)
	}

	var chain [MaxVerificators]*string
	for i, v := range input.Verificators {
		if v != nil && !form.IsEmpty(*v) {
			cc := strings.TrimSpace(*v)
			chain[i] = &cc
		}
	}

	now := s.now()
	family := status.FamilyFor(data.FormType, data.TrxType)
	tx := &entity.Transaction{
		DotsNumber:             newDotsNumber(now),
		Status:                 status.WithOrdinal(family, status.OrdinalInitial).String(),
		TrxType:                data.TrxType,
		FormType:               data.FormType,
		CreatedBy:              user.Email,
		CostCenterVerificator1: chain[0],
		CostCenterVerificator2: chain[1],
		CostCenterVerificator3: chain[2],
		CostCenterVerificator4: chain[3],
		CostCenterVerificator5: chain[4],
		Amount:                 amount,
		Currency:               strings.ToUpper(strings.TrimSpace(data.Currency)),
		FormData:               data,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.txRepo.Create(txCtx, tx); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		if err := s.historyRepo.Append(txCtx, &entity.StatusHistoryItem{
			DotsNumber: tx.DotsNumber,
			Status:     tx.Status,
			Date:       now,
			Remark:     "Created",
			ModifiedBy: user.Email,
		}); err != nil {
			return fmt.Errorf("create history: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to create transaction", "error", err, "created_by", user.Email)
		return nil, err
	}

	s.logger.Info("Transaction created", "dots_number", tx.DotsNumber, "status", tx.Status, "created_by", user.Email)
	s.events.Publish(ctx, event.New(event.TypeTransactionCreated, tx.DotsNumber, user.Email, now, map[string]interface{}{
		event.KeyToStatus: tx.Status,
	}))
	return tx, nil
}

// newDotsNumber returns DOTS-<yyyymmdd>-<8 hex>
func newDotsNumber(now time.Time) string {
	return fmt.Sprintf("DOTS-%s-%s", now.Format("20060102"), uuid.NewString()[:8])
}

// Get returns a transaction the user may view
func (s *transactionServiceImpl) Get(ctx context.Context, user *entity.User, dotsNumber string) (*entity.Transaction, error) {
	tx, err := s.txRepo.GetByDotsNumber(ctx, dotsNumber)
	if err != nil {
		return nil, err
	}
	if !canView(tx, user) {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, dotsNumber)
	}
	return tx, nil
}

// List returns the user's own transactions. Admins may list everyone's.
func (s *transactionServiceImpl) List(ctx context.Context, user *entity.User, filter entity.TransactionFilter) ([]*entity.Transaction, error) {
	if !access.HasDotsAdminRole(user) {
		filter.CreatedBy = user.Email
	}
	txs, err := s.txRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list transactions", "error", err, "user", user.Email)
		return nil, err
	}
	if txs == nil {
		txs = []*entity.Transaction{}
	}
	return txs, nil
}

// History returns the status log of a transaction
func (s *transactionServiceImpl) History(ctx context.Context, user *entity.User, dotsNumber string) ([]entity.StatusHistoryItem, error) {
	if _, err := s.Get(ctx, user, dotsNumber); err != nil {
		return nil, err
	}
	return s.historyRepo.ListByDotsNumber(ctx, dotsNumber)
}

// Assess evaluates the tracking steps and the user's rights on a transaction
func (s *transactionServiceImpl) Assess(ctx context.Context, user *entity.User, dotsNumber string) (*Assessment, error) {
	tx, err := s.Get(ctx, user, dotsNumber)
	if err != nil {
		return nil, err
	}

	history, err := s.historyRepo.ListByDotsNumber(ctx, dotsNumber)
	if err != nil {
		return nil, err
	}

	roles, _ := access.DotsRoles(user)
	a := &Assessment{
		DotsNumber:       tx.DotsNumber,
		Status:           tx.Status,
		StatusLabel:      status.Label(tx.Status),
		CanApprove:       access.CheckApprovalEligibility(tx, user, roles),
		IsCreator:        access.IsCreatingDots(tx, user),
		IsAdmin:          access.HasDotsAdminRole(user),
		IsRejected:       status.IsRejected(tx.Status),
		RejectedMessage:  status.RejectedMessage(tx.Status),
		IsClosed:         workflow.State(tx.Status).IsTerminal(),
		PermittedActions: []string{},
	}

	for _, step := range status.Steps(tx.FormType, tx.TrxType) {
		a.Steps = append(a.Steps, StepView{
			Status:   step.Status,
			Label:    step.Label,
			Complete: status.IsStepComplete(step.Status, tx.Status),
			Info:     status.StepInfo(step.Status, tx.Status, history),
		})
	}

	if a.IsClosed {
		return a, nil
	}

	// a malformed stored status simply has no actions
	if sm, err := workflow.NewLifecycle(tx); err == nil {
		for _, trigger := range sm.PermittedTriggers(ctx) {
			if authorizers[trigger](tx, user) == nil {
				a.PermittedActions = append(a.PermittedActions, strings.ToLower(trigger.String()))
			}
		}
	}

	return a, nil
}

// Submit sends a draft into the approval chain
func (s *transactionServiceImpl) Submit(ctx context.Context, user *entity.User, dotsNumber, remark string) (*entity.Transaction, error) {
	return s.fire(ctx, user, dotsNumber, workflow.TriggerSubmit, remark)
}

// Approve advances a transaction waiting on an approval tier
func (s *transactionServiceImpl) Approve(ctx context.Context, user *entity.User, dotsNumber, remark string) (*entity.Transaction, error) {
	return s.fire(ctx, user, dotsNumber, workflow.TriggerApprove, remark)
}

// Reject moves a transaction to the rejection code of the tier that rejected it.
// A remark is required.
func (s *transactionServiceImpl) Reject(ctx context.Context, user *entity.User, dotsNumber, remark string) (*entity.Transaction, error) {
	if form.IsEmpty(remark) {
		return nil, fmt.Errorf("%w: a rejection remark is required", ErrInvalidInput)
	}
	return s.fire(ctx, user, dotsNumber, workflow.TriggerReject, remark)
}

// Verify records the accounting verification
func (s *transactionServiceImpl) Verify(ctx context.Context, user *entity.User, dotsNumber, remark string) (*entity.Transaction, error) {
	return s.fire(ctx, user, dotsNumber, workflow.TriggerVerify, remark)
}

// MarkSAPCreated records that the SAP document was posted
func (s *transactionServiceImpl) MarkSAPCreated(ctx context.Context, user *entity.User, dotsNumber, remark string) (*entity.Transaction, error) {
	return s.fire(ctx, user, dotsNumber, workflow.TriggerPostSAP, remark)
}

// MarkPaid closes a transaction as paid
func (s *transactionServiceImpl) MarkPaid(ctx context.Context, user *entity.User, dotsNumber, remark string) (*entity.Transaction, error) {
	return s.fire(ctx, user, dotsNumber, workflow.TriggerPay, remark)
}

// fire authorizes and applies trigger, updating the status and appending history atomically
func (s *transactionServiceImpl) fire(ctx context.Context, user *entity.User, dotsNumber string, trigger workflow.Trigger, remark string) (*entity.Transaction, error) {
	remark = utils.SanitizeString(remark)

	var (
		result *entity.Transaction
		from   string
	)
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		tx, err := s.txRepo.GetByDotsNumber(txCtx, dotsNumber)
		if err != nil {
			return err
		}
		from = tx.Status

		if err := authorizers[trigger](tx, user); err != nil {
			return err
		}

		sm, err := workflow.NewLifecycle(tx)
		if err != nil {
			return fmt.Errorf("%w: stored status %q", workflow.ErrInvalidTransition, tx.Status)
		}
		if err := sm.Fire(txCtx, trigger); err != nil {
			return err
		}

		next := sm.State().String()
		if err := s.txRepo.UpdateStatus(txCtx, dotsNumber, next); err != nil {
			return fmt.Errorf("update status: %w", err)
		}

		now := s.now()
		if err := s.historyRepo.Append(txCtx, &entity.StatusHistoryItem{
			DotsNumber: dotsNumber,
			Status:     next,
			Date:       now,
			Remark:     remark,
			ModifiedBy: user.Email,
		}); err != nil {
			return fmt.Errorf("append history: %w", err)
		}

		tx.Status = next
		tx.UpdatedAt = now
		result = tx
		return nil
	})
	if err != nil {
		s.logger.Error("Status change failed",
			"error", err,
			"dots_number", dotsNumber,
			"trigger", trigger.String(),
			"user", user.Email)
		return nil, err
	}

	s.logger.Info("Status changed",
		"dots_number", dotsNumber,
		"trigger", trigger.String(),
		"status", result.Status,
		"user", user.Email)

	eventType := event.TypeStatusChanged
	if trigger == workflow.TriggerReject {
		eventType = event.TypeTransactionRejected
	}
	s.events.Publish(ctx, event.New(eventType, dotsNumber, user.Email, result.UpdatedAt, map[string]interface{}{
		event.KeyFromStatus: from,
		event.KeyToStatus:   result.Status,
		event.KeyTrigger:    trigger.String(),
		event.KeyRemark:     remark,
	}))
	return result, nil
}
