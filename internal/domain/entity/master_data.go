package entity

import "time"

// Material is an SAP material master record used on DOTS forms
type Material struct {
	MaterialNumber string    `json:"material_number"`
	Description    string    `json:"description"`
	MaterialType   string    `json:"material_type"`
	MaterialGroup  string    `json:"material_group"`
	GLAccount      string    `json:"gl_account"`
	ExpiredDate    *string   `json:"expired_date"`
	UpdatedBy      string    `json:"updated_by,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// GLAccount is a general-ledger account available for postings
type GLAccount struct {
	Account     string    `json:"gl_account"`
	Description string    `json:"description"`
	CompanyCode string    `json:"company_code"`
	ExpiredDate *string   `json:"expired_date"`
	UpdatedBy   string    `json:"updated_by,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}
