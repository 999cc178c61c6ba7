package event

// Type identifies the type of domain event
type Type string

const (
	TypeTransactionCreated  Type = "transaction.created"
	TypeStatusChanged       Type = "transaction.status_changed"
	TypeTransactionRejected Type = "transaction.rejected"
	TypeAttachmentUploaded  Type = "attachment.uploaded"
	TypeAttachmentDeleted   Type = "attachment.deleted"
	TypeApprovalOverdue     Type = "transaction.approval_overdue"
)

// AllTypes lists every event type
var AllTypes = []Type{
	TypeTransactionCreated,
	TypeStatusChanged,
	TypeTransactionRejected,
	TypeAttachmentUploaded,
	TypeAttachmentDeleted,
	TypeApprovalOverdue,
}

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	for _, known := range AllTypes {
		if t == known {
			return true
		}
	}
	return false
}
