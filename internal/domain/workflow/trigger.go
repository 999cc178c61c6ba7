package workflow

// Trigger is a workflow action that moves a transaction to its next status
type Trigger string

const (
	TriggerSubmit  Trigger = "SUBMIT"
	TriggerApprove Trigger = "APPROVE"
	TriggerReject  Trigger = "REJECT"
	TriggerVerify  Trigger = "VERIFY"
	TriggerPostSAP Trigger = "POST_SAP"
	TriggerPay     Trigger = "PAY"
)

// String returns the trigger name
func (t Trigger) String() string {
	return string(t)
}
