package entity

// ApplicationDOTS is the application name role lookups are scoped to
const ApplicationDOTS = "DOTS"

// User type constants for Role.UserType
const (
	UserTypeAdmin              = "A0001" // DOTS administrator
	UserTypeViewer             = "V0001" // read-only, no cost center
	UserTypeAccountingVerifier = "VA001" // accounting verification, no cost center
	UserTypeDepartmentHead     = "VD001" // approval tier 1, keyed by cost center
	UserTypeGroupHead          = "VG001" // approval tier 2, keyed by cost center
	UserTypeSpecialInputter    = "IS001"
)

// Role type prefixes used by dashboards
const (
	RolePrefixDepartmentHead = "VD"
	RolePrefixGroupHead      = "VG"
	RolePrefixAccounting     = "VA"
)

// Dashboard status groups
const (
	StatusGroupVerifiedDH         = "VerifiedDH"
	StatusGroupVerifiedGH         = "VerifiedGH"
	StatusGroupVerifiedAccounting = "VerifiedAccounting"
)

// Form type constants for Transaction.FormType
const (
	FormTypeCashInAdvance = "Cash in Advance"
	FormTypeReimbursement = "Reimbursement"
	FormTypeDirectPayment = "Direct Payment"
)

// TrxTypeOne is the transaction type that puts a cash advance in status family 1
const TrxTypeOne = "1"

// Material type constants (SAP material master)
const (
	MaterialTypeInventory    = "ZMIN"
	MaterialTypeNonInventory = "ZMNI"
	MaterialTypeNonValuated  = "ZMNV"
	MaterialTypeService      = "ZSRV"
)
