package status

import (
	"strings"

	"github.com/farhandwi/dots/internal/domain/entity"
	"github.com/farhandwi/dots/internal/domain/form"
)

// Step ordinals shared by both non-rejected families
const (
	OrdinalInitial           = 10
	OrdinalWaitingApproval1  = 20
	OrdinalWaitingApproval2  = 21
	OrdinalWaitingAccounting = 30
	OrdinalVerified          = 40
	OrdinalSAPCreated        = 50
	OrdinalPaid              = 60
)

// Step is one entry of the status tracking sequence
type Step struct {
	Status string `json:"status"`
	Label  string `json:"label"`
}

var stepTemplate = []struct {
	ordinal int
	label   string
}{
	{OrdinalInitial, "Initial"},
	{OrdinalWaitingApproval1, "Waiting Approval 1"},
	{OrdinalWaitingApproval2, "Waiting Approval 2"},
	{OrdinalWaitingAccounting, "Waiting Accounting Verification"},
	{OrdinalVerified, "Verified"},
	{OrdinalSAPCreated, "SAP Created"},
	{OrdinalPaid, "Paid"},
}

// FamilyFor returns the lifecycle family a new transaction of the given form and
// transaction type starts in.
func FamilyFor(formType, trxType string) Family {
	if formType == entity.FormTypeCashInAdvance && trxType == entity.TrxTypeOne {
		return FamilyCashAdvance
	}
	return FamilyGeneral
}

// Steps returns the fixed seven-step sequence for a form and transaction type
func Steps(formType, trxType string) []Step {
	family := FamilyFor(formType, trxType)

	steps := make([]Step, 0, len(stepTemplate))
	for _, s := range stepTemplate {
		steps = append(steps, Step{
			Status: WithOrdinal(family, s.ordinal).String(),
			Label:  s.label,
		})
	}
	return steps
}

// IsStepComplete reports whether the step's ordinal is at or below the current status ordinal.
// Only the trailing digits are compared, so a rejected "3xxx" status still marks the
// steps below its ordinal as complete.
func IsStepComplete(stepStatus, currentStatus string) bool {
	return Parse(stepStatus).AtMost(Parse(currentStatus))
}

// Info is the history detail shown under a reached step
type Info struct {
	Date       string `json:"date"`
	Remark     string `json:"remark"`
	ModifiedBy string `json:"modified_by"`
}

// StepInfo returns the first history entry recorded for stepStatus, or nil when the step
// lies beyond the current status or was never recorded.
func StepInfo(stepStatus, currentStatus string, history []entity.StatusHistoryItem) *Info {
	if Parse(stepStatus).Exceeds(Parse(currentStatus)) {
		return nil
	}

	for _, item := range history {
		if item.Status == stepStatus {
			return &Info{
				Date:       form.FormatDisplayDate(item.Date),
				Remark:     item.Remark,
				ModifiedBy: item.ModifiedBy,
			}
		}
	}
	return nil
}

// Rejected status codes
const (
	RejectedAtApproval1  = "3010"
	RejectedAtApproval2  = "3020"
	RejectedAtAccounting = "3030"
)

// IsRejected reports whether the status belongs to the rejected family
func IsRejected(status string) bool {
	return strings.HasPrefix(status, "3")
}

// RejectedMessage returns "Rejected" for the known rejection codes and "" otherwise
func RejectedMessage(status string) string {
	switch status {
	case RejectedAtApproval1, RejectedAtApproval2, RejectedAtAccounting:
		return "Rejected"
	default:
		return ""
	}
}

// Label returns the step label of a status, "Rejected" for the rejected family and "" for
// codes outside the step sequence
func Label(raw string) string {
	c := Parse(raw)
	if c.Family() == FamilyRejected {
		return "Rejected"
	}
	if !c.Valid() || c.Family() == FamilyUnknown {
		return ""
	}
	for _, s := range stepTemplate {
		if s.ordinal == c.Ordinal() {
			return s.label
		}
	}
	return ""
}

var groupOrdinals = map[string][]int{
	entity.StatusGroupVerifiedDH:         {OrdinalWaitingApproval1},
	entity.StatusGroupVerifiedGH:         {OrdinalWaitingApproval1, OrdinalWaitingApproval2},
	entity.StatusGroupVerifiedAccounting: {OrdinalWaitingAccounting, OrdinalVerified},
}

// GroupStatuses returns the status codes, across both families, whose transactions wait on
// the given dashboard group. Group heads also see tier 1 because they approve it when a
// transaction has no second verificator.
func GroupStatuses(group string) []string {
	var codes []string
	for _, f := range []Family{FamilyCashAdvance, FamilyGeneral} {
		for _, ordinal := range groupOrdinals[group] {
			codes = append(codes, WithOrdinal(f, ordinal).String())
		}
	}
	return codes
}

// AwaitingAction returns every status code, across both families, that waits on an approver
// or on accounting
func AwaitingAction() []string {
	ordinals := []int{OrdinalWaitingApproval1, OrdinalWaitingApproval2, OrdinalWaitingAccounting, OrdinalVerified}
	var codes []string
	for _, f := range []Family{FamilyCashAdvance, FamilyGeneral} {
		for _, ordinal := range ordinals {
			codes = append(codes, WithOrdinal(f, ordinal).String())
		}
	}
	return codes
}
