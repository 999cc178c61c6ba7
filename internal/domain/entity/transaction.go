package entity

import "time"

// Transaction is a DOTS expense/disbursement transaction snapshot
type Transaction struct {
	DotsNumber string `json:"dots_number"`
	Status     string `json:"status"`
	TrxType    string `json:"trx_type"`
	FormType   string `json:"form_type"`
	CreatedBy  string `json:"created_by"`

	// Ordered approval chain; nil skips the tier
	CostCenterVerificator1 *string `json:"cost_center_verificator_1"`
	CostCenterVerificator2 *string `json:"cost_center_verificator_2"`
	CostCenterVerificator3 *string `json:"cost_center_verificator_3"`
	CostCenterVerificator4 *string `json:"cost_center_verificator_4"`
	CostCenterVerificator5 *string `json:"cost_center_verificator_5"`

	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	FormData  FormData  `json:"form_data"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Verificators returns the five verificator tiers in chain order
func (t *Transaction) Verificators() [5]*string {
	return [5]*string{
		t.CostCenterVerificator1,
		t.CostCenterVerificator2,
		t.CostCenterVerificator3,
		t.CostCenterVerificator4,
		t.CostCenterVerificator5,
	}
}

// TransactionFilter narrows transaction listings
type TransactionFilter struct {
	Statuses  []string
	CreatedBy string
	Limit     int
	Offset    int
}
