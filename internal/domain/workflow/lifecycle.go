package workflow

import (
	"context"

	"github.com/farhandwi/dots/internal/domain/entity"
	"github.com/farhandwi/dots/internal/domain/status"
)

// NewLifecycle returns the status machine for tx, positioned at its current status.
//
// The approval chain runs Initial -> Waiting Approval 1 -> (Waiting Approval 2) ->
// Waiting Accounting Verification -> Verified -> SAP Created -> Paid. Tier 2 is skipped when
// the transaction has no second verificator. Rejection moves to the 3xxx code of the tier
// that rejected.
func NewLifecycle(tx *entity.Transaction) (StateMachine, error) {
	b := NewBuilder()

	current := State(tx.Status)
	family := current.Code().Family()
	if family == status.FamilyCashAdvance || family == status.FamilyGeneral {
		configureFamily(b, family, tx)
	}

	return b.Build(current)
}

func configureFamily(b Builder, f status.Family, tx *entity.Transaction) {
	hasTier2 := func(context.Context) bool { return tx.CostCenterVerificator2 != nil }
	skipsTier2 := func(context.Context) bool { return tx.CostCenterVerificator2 == nil }

	b.Configure(StateOf(f, status.OrdinalInitial)).
		Permit(TriggerSubmit, StateOf(f, status.OrdinalWaitingApproval1))

	b.Configure(StateOf(f, status.OrdinalWaitingApproval1)).
		PermitIf(TriggerApprove, StateOf(f, status.OrdinalWaitingApproval2), hasTier2).
		PermitIf(TriggerApprove, StateOf(f, status.OrdinalWaitingAccounting), skipsTier2).
		Permit(TriggerReject, State(status.RejectedAtApproval1))

	b.Configure(StateOf(f, status.OrdinalWaitingApproval2)).
		Permit(TriggerApprove, StateOf(f, status.OrdinalWaitingAccounting)).
		Permit(TriggerReject, State(status.RejectedAtApproval2))

	b.Configure(StateOf(f, status.OrdinalWaitingAccounting)).
		Permit(TriggerVerify, StateOf(f, status.OrdinalVerified)).
		Permit(TriggerReject, State(status.RejectedAtAccounting))

	b.Configure(StateOf(f, status.OrdinalVerified)).
		Permit(TriggerPostSAP, StateOf(f, status.OrdinalSAPCreated)).
		Permit(TriggerReject, State(status.RejectedAtAccounting))

	b.Configure(StateOf(f, status.OrdinalSAPCreated)).
		Permit(TriggerPay, StateOf(f, status.OrdinalPaid))
}
