package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/farhandwi/dots/internal/application/port"
	"github.com/farhandwi/dots/internal/domain/access"
	"github.com/farhandwi/dots/internal/domain/entity"
	"github.com/farhandwi/dots/internal/domain/form"
	"github.com/farhandwi/dots/internal/domain/status"
)

// QueueItem is a transaction waiting on the user, with display values
type QueueItem struct {
	Transaction *entity.Transaction `json:"transaction"`
	StatusLabel string              `json:"status_label"`
	Amount      string              `json:"amount"`
}

// QueueGroup lists the transactions waiting on one of the user's approver roles
type QueueGroup struct {
	Group string      `json:"group"`
	Items []QueueItem `json:"items"`
}

// DashboardService builds approval queues for approvers
type DashboardService interface {
	Queue(ctx context.Context, user *entity.User) ([]QueueGroup, error)
	Export(ctx context.Context, user *entity.User, w io.Writer) error
}

type dashboardServiceImpl struct {
	txRepo          port.TransactionRepository
	writer          port.ReportWriter
	defaultCurrency string
	logger          Logger
}

// NewDashboardService creates a new DashboardService. defaultCurrency formats amounts of
// transactions stored without a currency.
func NewDashboardService(
	txRepo port.TransactionRepository,
	writer port.ReportWriter,
	defaultCurrency string,
	logger Logger,
) DashboardService {
	return &dashboardServiceImpl{
		txRepo:          txRepo,
		writer:          writer,
		defaultCurrency: defaultCurrency,
		logger:          logger,
	}
}

// Queue returns one group per approver role type the user holds, in VD, VG, VA order.
// Each group only keeps the transactions the user is eligible to act on, and a
// transaction eligible under several role types is listed in the first group only.
func (s *dashboardServiceImpl) Queue(ctx context.Context, user *entity.User) ([]QueueGroup, error) {
	roles, ok := access.DotsRoles(user)
	if !ok {
		return []QueueGroup{}, nil
	}

	groups := access.StatusGroupFromRoles(access.SpecialRoleTypes(roles))
	queue := make([]QueueGroup, 0, len(groups))
	seen := make(map[string]bool)

	for _, group := range groups {
		txs, err := s.txRepo.List(ctx, entity.TransactionFilter{Statuses: status.GroupStatuses(group)})
		if err != nil {
			s.logger.Error("Failed to load approval queue", "error", err, "group", group, "user", user.Email)
			return nil, fmt.Errorf("load %s queue: %w", group, err)
		}

		items := []QueueItem{}
		for _, tx := range txs {
			if seen[tx.DotsNumber] || !access.CheckApprovalEligibility(tx, user, roles) {
				continue
			}
			seen[tx.DotsNumber] = true
			items = append(items, QueueItem{
				Transaction: tx,
				StatusLabel: status.Label(tx.Status),
				Amount:      form.FormatCurrency(tx.Amount, s.currencyOf(tx)),
			})
		}
		queue = append(queue, QueueGroup{Group: group, Items: items})
	}

	return queue, nil
}

// Export writes the user's queue as a spreadsheet
func (s *dashboardServiceImpl) Export(ctx context.Context, user *entity.User, w io.Writer) error {
	queue, err := s.Queue(ctx, user)
	if err != nil {
		return err
	}

	var rows []port.QueueRow
	for _, group := range queue {
		for _, item := range group.Items {
			rows = append(rows, port.QueueRow{
				Group:       group.Group,
				Transaction: item.Transaction,
				StatusLabel: item.StatusLabel,
				Amount:      item.Amount,
			})
		}
	}

	if err := s.writer.WriteQueue(ctx, w, rows); err != nil {
		s.logger.Error("Failed to export approval queue", "error", err, "user", user.Email)
		return fmt.Errorf("export queue: %w", err)
	}

	s.logger.Info("Approval queue exported", "user", user.Email, "rows", len(rows))
	return nil
}

func (s *dashboardServiceImpl) currencyOf(tx *entity.Transaction) string {
	if c := strings.TrimSpace(tx.Currency); c != "" {
		return c
	}
	return s.defaultCurrency
}
